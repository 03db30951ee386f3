package trigger

import "strings"

// ActivationKeywords is the built-in set of bot-related keywords. A mention
// containing any of these (case-insensitively) activates a bot.
var ActivationKeywords = []string{"assistant", "bot", "ai", "help"}

// IsMentioned reports whether any keyword occurs as a case-insensitive
// substring of any mention.
func IsMentioned(mentions, keywords []string) bool {
	if len(mentions) == 0 || len(keywords) == 0 {
		return false
	}
	for _, mention := range mentions {
		m := strings.ToLower(mention)
		for _, keyword := range keywords {
			if strings.Contains(m, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}

// IsSpecificMention reports whether target appears in mentions,
// case-insensitively.
func IsSpecificMention(mentions []string, target string) bool {
	if len(mentions) == 0 || target == "" {
		return false
	}
	for _, mention := range mentions {
		if strings.EqualFold(mention, target) {
			return true
		}
	}
	return false
}

// ShouldTrigger decides whether a message activates a bot: true if any
// keyword is mentioned, or any pattern occurs as a case-insensitive
// substring of the content. Empty mentions with empty keyword/pattern sets
// never trigger.
func ShouldTrigger(content string, mentions, keywords, patterns []string) bool {
	if IsMentioned(mentions, keywords) {
		return true
	}

	if len(patterns) > 0 {
		lower := strings.ToLower(content)
		for _, pattern := range patterns {
			if pattern == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return true
			}
		}
	}

	return false
}
