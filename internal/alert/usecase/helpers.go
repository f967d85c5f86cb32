package usecase

import (
	"unicode/utf8"

	"alert-srv/pkg/discord"
)

func buildField(name string, value string, inline bool) discord.EmbedField {
	if value == "" {
		value = "N/A"
	}
	return discord.EmbedField{
		Name:   name,
		Value:  truncateText(value, discord.MaxFieldValueLen),
		Inline: inline,
	}
}

// truncateText cuts s to at most limit bytes without splitting a rune.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	suffix := "..."
	if limit < len(suffix) {
		suffix = ""
	}
	cut := limit - len(suffix)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
