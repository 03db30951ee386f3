package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/parleyhq/parley/internal/transcript"
)

// Default condensing bounds: sequences at or below DefaultThreshold pass
// through; longer ones keep the most recent DefaultKeepRecent entries and
// replace the older segment with a single summary entry.
const (
	DefaultThreshold  = 10
	DefaultKeepRecent = 8
)

// Condenser bounds context growth before agent execution.
type Condenser struct {
	threshold  int
	keepRecent int
	summarizer Summarizer
}

// NewCondenser creates a Condenser. Non-positive bounds fall back to the
// defaults; a nil summarizer means condensing always truncates.
func NewCondenser(summarizer Summarizer, threshold, keepRecent int) *Condenser {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if keepRecent <= 0 || keepRecent >= threshold {
		keepRecent = DefaultKeepRecent
	}
	return &Condenser{threshold: threshold, keepRecent: keepRecent, summarizer: summarizer}
}

// Condense applies the length policy to a built sequence. At or below the
// threshold the input is returned unchanged. Above it, the oldest segment is
// summarized into one synthetic entry prepended to the verbatim recent tail.
// Summarization failure is recovered locally: the sequence is truncated to
// the recent tail and the failure is logged, never surfaced.
func (c *Condenser) Condense(ctx context.Context, entries []transcript.Entry) []transcript.Entry {
	if len(entries) <= c.threshold {
		return entries
	}

	split := len(entries) - c.keepRecent
	oldest := entries[:split]
	recent := entries[split:]

	if c.summarizer == nil {
		return recent
	}

	summary, err := c.summarizer.Summarize(ctx, oldest)
	if err != nil {
		log.Printf("agent: history summarization failed, truncating %d entries: %v", len(oldest), err)
		return recent
	}

	condensed := make([]transcript.Entry, 0, len(recent)+1)
	condensed = append(condensed, transcript.Summary(fmt.Sprintf("[Conversation Summary: %s]", summary)))
	condensed = append(condensed, recent...)
	return condensed
}
