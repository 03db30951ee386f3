package trigger

import "github.com/parleyhq/parley/internal/models"

// Decision is the outcome of trigger evaluation plus bot selection: which
// bot, if any, should respond. It is ephemeral and never persisted.
type Decision struct {
	Bot *models.Bot
}

// Triggered reports whether a bot was selected.
func (d Decision) Triggered() bool { return d.Bot != nil }

// Selector picks one bot from a list of active candidates, or nil to
// decline. Candidates arrive ordered by ID ascending.
type Selector func(candidates []models.Bot) *models.Bot

// SelectFirst is the default selection policy: lowest ID first. Naive on
// purpose; mention-specific targeting can be swapped in as another Selector.
func SelectFirst(candidates []models.Bot) *models.Bot {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}
