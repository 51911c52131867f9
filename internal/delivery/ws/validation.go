package ws

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 50

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	controlCharRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// SanitizeName cleans user-supplied names (display names and room names):
// trims, strips HTML tags and control characters, and bounds the length.
// An empty result becomes "anonymous".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > maxNameLength {
		runes := []rune(name)
		name = string(runes[:maxNameLength])
	}

	name = htmlTagRegex.ReplaceAllString(name, "")
	name = controlCharRegex.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	if name == "" {
		name = "anonymous"
	}

	return name
}
