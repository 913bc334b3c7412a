package parser

import (
	"regexp"
	"strings"
)

var (
	nameSepRe     = regexp.MustCompile(`([\-'])`)
	initialsRe    = regexp.MustCompile(`[^A-Za-z0-9]+`)
	numericCellRe = regexp.MustCompile(`^[\d.,\s]+$`)
)

// NormalizeChildName collapses whitespace and title-cases each word,
// preserving hyphen and apostrophe separators ("o'brien-smith" → "O'Brien-Smith").
func NormalizeChildName(value string) string {
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(value, " "))
	if text == "" {
		return ""
	}
	words := strings.Split(text, " ")
	for i, word := range words {
		parts := nameSepRe.Split(word, -1)
		seps := nameSepRe.FindAllString(word, -1)
		var b strings.Builder
		for j, part := range parts {
			if part != "" {
				b.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
			}
			if j < len(seps) {
				b.WriteString(seps[j])
			}
		}
		words[i] = b.String()
	}
	return strings.Join(words, " ")
}

// Truthy interprets a flag cell: empty or anything containing "no" is false,
// anything containing "yes" is true, any other non-empty value is true.
func Truthy(value string) bool {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return false
	}
	if strings.Contains(s, "no") {
		return false
	}
	return true
}

// LooksLikeName filters out cell values that cannot be a child name
// (numbers, bare times, header echoes).
func LooksLikeName(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" {
		return false
	}
	if numericCellRe.MatchString(s) || LooksLikeTime(s) {
		return false
	}
	lower := strings.ToLower(s)
	return lower != "name" && lower != "leavers"
}

// Initials derives attribution initials from a display name or username:
// first letters of the first two tokens, a single token's first two
// characters, or "U" when nothing usable remains.
func Initials(text string) string {
	var tokens []string
	for _, t := range initialsRe.Split(text, -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	switch len(tokens) {
	case 0:
		return "U"
	case 1:
		t := tokens[0]
		if len(t) == 1 {
			return strings.ToUpper(t)
		}
		return strings.ToUpper(t[:2])
	default:
		return strings.ToUpper(tokens[0][:1] + tokens[1][:1])
	}
}
