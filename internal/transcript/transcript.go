// Package transcript models the ordered turn sequence handed to a
// language-model agent and its JSON wire form, the forwarded-history blob
// stored on bot-authored messages.
package transcript

// Entry kinds. System, user, and summary entries are requests; assistant
// entries are generated responses.
const (
	KindSystem    = "system"
	KindUser      = "user"
	KindSummary   = "summary"
	KindAssistant = "assistant"
)

// Entry is a single turn in the sequence fed to an agent. Ordering is
// chronological and significant.
type Entry struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// System returns a system-prompt entry.
func System(text string) Entry { return Entry{Kind: KindSystem, Text: text} }

// User returns a user-turn entry.
func User(text string) Entry { return Entry{Kind: KindUser, Text: text} }

// Summary returns a synthetic entry wrapping condensed history.
func Summary(text string) Entry { return Entry{Kind: KindSummary, Text: text} }

// Assistant returns a generated-response entry.
func Assistant(text string) Entry { return Entry{Kind: KindAssistant, Text: text} }

// IsResponse reports whether the entry is a generated response rather than
// a request turn.
func (e Entry) IsResponse() bool { return e.Kind == KindAssistant }
