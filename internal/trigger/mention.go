// Package trigger decides when a human message should provoke a bot
// response: it extracts @mentions, evaluates activation keywords and
// patterns, and selects which bot answers.
package trigger

import "regexp"

// mentionPattern matches "@" followed by one or more word characters.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions pulls @mention tokens out of message content. The leading
// "@" is stripped, duplicates are removed, and first-appearance order and
// case are preserved. Distinct case variants count as distinct mentions.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		mentions = append(mentions, name)
	}
	return mentions
}
