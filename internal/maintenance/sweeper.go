// Package maintenance hard-deletes soft-deleted rows once they age out of
// the retention window. Everything else in the system only flips is_active;
// this is the one place rows actually leave the database.
package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
)

// Default retention settings.
const (
	DefaultSchedule      = "0 3 * * *"
	DefaultRetentionDays = 30
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// SweeperOpts holds parameters for creating a Sweeper.
type SweeperOpts struct {
	DB            *gorm.DB
	Schedule      string // 5-field cron expression; defaults to DefaultSchedule
	RetentionDays int    // defaults to DefaultRetentionDays
}

// Sweeper purges soft-deleted rows older than the retention window on a
// cron schedule.
type Sweeper struct {
	db        *gorm.DB
	schedule  cron.Schedule
	retention time.Duration
}

// NewSweeper creates a Sweeper.
func NewSweeper(opts SweeperOpts) (*Sweeper, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("maintenance: db is required")
	}
	expr := opts.Schedule
	if expr == "" {
		expr = DefaultSchedule
	}
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("maintenance: parse schedule %q: %w", expr, err)
	}
	days := opts.RetentionDays
	if days <= 0 {
		days = DefaultRetentionDays
	}
	return &Sweeper{
		db:        opts.DB,
		schedule:  sched,
		retention: time.Duration(days) * 24 * time.Hour,
	}, nil
}

// SweepResult counts rows purged in one cycle.
type SweepResult struct {
	Messages      int64
	Conversations int64
	Bots          int64
	Users         int64
}

// Total returns the number of rows purged across all tables.
func (r SweepResult) Total() int64 {
	return r.Messages + r.Conversations + r.Bots + r.Users
}

// Sweep runs one purge cycle: every soft-deleted row whose last update is
// older than the retention window is hard-deleted. Messages go first so a
// purged conversation never strands its rows.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := time.Now().Add(-s.retention)
	var result SweepResult

	purge := func(model any, count *int64) error {
		res := s.db.WithContext(ctx).Where("is_active = ? AND updated_at < ?", false, cutoff).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		*count += res.RowsAffected
		return nil
	}

	if err := purge(&models.Message{}, &result.Messages); err != nil {
		return result, fmt.Errorf("maintenance: purge messages: %w", err)
	}
	if err := purge(&models.Conversation{}, &result.Conversations); err != nil {
		return result, fmt.Errorf("maintenance: purge conversations: %w", err)
	}
	if err := purge(&models.Bot{}, &result.Bots); err != nil {
		return result, fmt.Errorf("maintenance: purge bots: %w", err)
	}
	if err := purge(&models.User{}, &result.Users); err != nil {
		return result, fmt.Errorf("maintenance: purge users: %w", err)
	}
	return result, nil
}

// Run starts the sweeper loop. It sleeps until the next scheduled fire
// time, sweeps, and repeats until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		result, err := s.Sweep(ctx)
		if err != nil {
			log.Printf("maintenance: sweep: %v", err)
			continue
		}
		if result.Total() > 0 {
			log.Printf("maintenance: purged %d rows (%d messages, %d conversations, %d bots, %d users)",
				result.Total(), result.Messages, result.Conversations, result.Bots, result.Users)
		}
	}
}
