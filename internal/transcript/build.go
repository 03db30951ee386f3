package transcript

import "github.com/parleyhq/parley/internal/models"

// Build converts a chronological window of prior messages plus the new
// triggering message into an ordered entry sequence for agent input.
//
// A system prompt, when present, becomes the leading entry. Each message
// contributes either its stored forwarded-history entries, spliced in place
// (a bot-authored message's recorded transcript supersedes re-deriving it),
// or a single user-turn entry wrapping its content. A stored blob that fails
// to decode degrades to a plain user turn rather than poisoning the build.
func Build(prior []models.Message, current models.Message, systemPrompt string) []Entry {
	entries := make([]Entry, 0, len(prior)+2)
	if systemPrompt != "" {
		entries = append(entries, System(systemPrompt))
	}

	for _, msg := range prior {
		entries = append(entries, messageEntries(msg)...)
	}
	entries = append(entries, messageEntries(current)...)

	return entries
}

func messageEntries(msg models.Message) []Entry {
	if msg.BotTranscript != "" {
		if spliced, err := Decode(msg.BotTranscript); err == nil && len(spliced) > 0 {
			return spliced
		}
	}
	if msg.FromBot() {
		return []Entry{Assistant(msg.Content)}
	}
	return []Entry{User(msg.Content)}
}
