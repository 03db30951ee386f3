// Package dispatch runs the bot trigger-and-respond pipeline: detect
// whether a newly saved human message should activate a bot, assemble the
// bounded conversation context, invoke the agent, and persist the reply.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/agent"
	"github.com/parleyhq/parley/internal/models"
	"github.com/parleyhq/parley/internal/store"
	"github.com/parleyhq/parley/internal/transcript"
	"github.com/parleyhq/parley/internal/trigger"
)

// DefaultContextWindow is how many prior messages feed the context builder.
const DefaultContextWindow = 10

// ResponderOpts holds parameters for creating a Responder.
type ResponderOpts struct {
	DB            *gorm.DB
	Invoker       *agent.Invoker
	Selector      trigger.Selector // optional; defaults to trigger.SelectFirst
	ExtraKeywords []string         // layered on trigger.ActivationKeywords
	Patterns      []string         // content substrings that also trigger
	ContextWindow int              // defaults to DefaultContextWindow
}

// Responder owns the pipeline. A per-conversation mutex serializes
// overlapping pipelines in the same conversation so each human message
// yields at most one bot reply.
type Responder struct {
	db       *gorm.DB
	invoker  *agent.Invoker
	selector trigger.Selector
	keywords []string
	patterns []string
	window   int

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewResponder creates a Responder.
func NewResponder(opts ResponderOpts) (*Responder, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("dispatch: db is required")
	}
	if opts.Invoker == nil {
		return nil, fmt.Errorf("dispatch: invoker is required")
	}
	selector := opts.Selector
	if selector == nil {
		selector = trigger.SelectFirst
	}
	window := opts.ContextWindow
	if window <= 0 {
		window = DefaultContextWindow
	}
	keywords := append([]string{}, trigger.ActivationKeywords...)
	keywords = append(keywords, opts.ExtraKeywords...)

	return &Responder{
		db:       opts.DB,
		invoker:  opts.Invoker,
		selector: selector,
		keywords: keywords,
		patterns: opts.Patterns,
		window:   window,
		locks:    make(map[uint]*sync.Mutex),
	}, nil
}

// HandleMessage runs the pipeline for a newly persisted message and returns
// the bot reply, or nil when no bot was triggered. Only human-authored
// messages are evaluated: a bot reply is never re-scanned for triggers, so
// bots cannot trigger each other. This asymmetry is an invariant, not an
// accident of call placement.
func (r *Responder) HandleMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("dispatch: message is required")
	}
	if !msg.FromUser() {
		return nil, nil
	}

	unlock := r.lockConversation(msg.ConversationID)
	defer unlock()

	decision, err := r.detect(msg.Content)
	if err != nil {
		return nil, err
	}
	if !decision.Triggered() {
		return nil, nil
	}
	bot := decision.Bot

	prior, err := store.RecentContextExcluding(r.db, msg.ConversationID, msg.ID, r.window)
	if err != nil {
		return nil, err
	}
	entries := transcript.Build(prior, *msg, bot.SystemPrompt)

	text, err := r.invoker.Respond(ctx, bot, entries)
	if err != nil {
		return nil, err
	}

	// A cancelled caller gets no partial persistence: the reply is written
	// in one Create, or not at all.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// The reply stores no transcript blob: both turns of this exchange are
	// already persisted as their own message rows, so recording them again
	// would duplicate turns when a later build splices the blob in place.
	// Blobs exist for history imported from elsewhere, not for replies
	// generated here.
	reply, err := store.CreateBotMessage(r.db, msg.ConversationID, bot.ID, text, "")
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// detect evaluates the trigger and selects a bot. A positive trigger with
// no active bot fails soft: an empty decision, nil error.
func (r *Responder) detect(content string) (trigger.Decision, error) {
	mentions := trigger.ExtractMentions(content)
	if !trigger.ShouldTrigger(content, mentions, r.keywords, r.patterns) {
		return trigger.Decision{}, nil
	}

	bots, err := store.ListActiveBots(r.db)
	if err != nil {
		return trigger.Decision{}, err
	}
	// A mention matching a bot's name exactly targets that bot, bypassing
	// the selection policy. Explicit addressing overrides auto_trigger,
	// which only gates unaddressed keyword activation.
	for i := range bots {
		if trigger.IsSpecificMention(mentions, bots[i].Name) {
			return trigger.Decision{Bot: &bots[i]}, nil
		}
	}

	candidates := bots[:0:0]
	for _, b := range bots {
		if b.AutoTrigger {
			candidates = append(candidates, b)
		}
	}
	return trigger.Decision{Bot: r.selector(candidates)}, nil
}

// lockConversation acquires the mutex for a conversation and returns the
// release func. Lock entries are never reclaimed; the map is bounded by the
// number of conversations seeing traffic in a process lifetime.
func (r *Responder) lockConversation(id uint) func() {
	r.mu.Lock()
	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
