// Package parser recovers structure from loosely formatted taster sheets.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// WeekdayNames lists recognized weekday labels in sheet order.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MonthNames lists calendar month names; sheet N of a workbook covers MonthNames[N].
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	timeShapeRe   = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	timeExactRe   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::\d{2})?\s*([ap]m)?$`)
	timeAnyRe     = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	ordinalRe     = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)
	fillerOfRe    = regexp.MustCompile(`\bof\b`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// IsWeekday reports whether s (trimmed) is exactly a weekday name.
func IsWeekday(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range WeekdayNames {
		if s == d {
			return true
		}
	}
	return false
}

// DayName finds a weekday name mentioned anywhere in s, or "".
func DayName(s string) string {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return ""
	}
	for _, d := range WeekdayNames {
		re := regexp.MustCompile(`\b` + strings.ToLower(d) + `\b`)
		if re.MatchString(text) {
			return d
		}
	}
	return ""
}

// MonthIndex returns the 1-based month number for a month name, or 0.
func MonthIndex(name string) int {
	for i, m := range MonthNames {
		if strings.EqualFold(name, m) {
			return i + 1
		}
	}
	return 0
}

// LooksLikeTime reports whether s starts with an H:MM shaped value.
func LooksLikeTime(s string) bool {
	return timeShapeRe.MatchString(strings.TrimSpace(s))
}

// NormalizeTime canonicalizes an H:MM(:SS)(am/pm) value to 24-hour HH:MM.
// Values that do not look like times are returned unchanged.
func NormalizeTime(s string) string {
	trimmed := strings.TrimSpace(s)
	m := timeExactRe.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed
	}
	hour := atoi(m[1])
	minute := atoi(m[2])
	meridiem := strings.ToLower(m[3])
	if minute > 59 {
		return trimmed
	}
	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return trimmed
		}
		switch meridiem {
		case "am":
			if hour == 12 {
				hour = 0
			}
		case "pm":
			if hour != 12 {
				hour += 12
			}
		}
	} else if hour > 23 {
		return trimmed
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ExtractTime finds the first H:MM pattern in s and zero-pads it, or returns "".
func ExtractTime(s string) string {
	m := timeAnyRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%s", atoi(m[1]), m[2])
}

// TimeMatches compares two session times tolerating a systematic 12-hour
// offset: minutes must agree and hours must be equal or differ by exactly 12.
func TimeMatches(target, observed string) bool {
	t := ExtractTime(target)
	o := ExtractTime(observed)
	if t == "" || o == "" {
		return false
	}
	if t == o {
		return true
	}
	tm := timeAnyRe.FindStringSubmatch(t)
	om := timeAnyRe.FindStringSubmatch(o)
	if tm[2] != om[2] {
		return false
	}
	th := atoi(tm[1])
	oh := atoi(om[1])
	return (th+12)%24 == oh || (oh+12)%24 == th
}

// ParseSheetDate parses heterogeneous date text from a month sheet.
// It tries ISO forms, day/month/year, day/month, and day + month name,
// falling back to the sheet's month and year for the missing parts.
// ok is false when nothing matches; that is a normal outcome.
func ParseSheetDate(val, monthName string, year int) (d time.Time, ok bool) {
	s := strings.ToLower(strings.TrimSpace(val))
	if s == "" {
		return time.Time{}, false
	}
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = fillerOfRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	// time.Parse month names are case-sensitive.
	s = titleWords(s)

	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Day-first forms; excelize hands back whatever the cell format shows.
	for _, layout := range []string{
		"02/01/2006", "2/1/2006", "02/01/06", "2/1/06",
		"02/01", "2/1", "2-Jan", "2 Jan", "2Jan", "2 January", "2January",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() <= 1 || t.Year() == 1900 {
				t = time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			}
			return t, true
		}
	}
	if t, err := time.Parse("2 January 2006", fmt.Sprintf("%s %s %d", s, monthName, year)); err == nil {
		return t, true
	}
	if len(monthName) >= 3 {
		if t, err := time.Parse("2 Jan 2006", fmt.Sprintf("%s %s %d", s, monthName[:3], year)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FirstOfMonth returns day 1 of the named month, the last-resort record date.
func FirstOfMonth(monthName string, year int) time.Time {
	m := MonthIndex(monthName)
	if m == 0 {
		m = 1
	}
	return time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

// titleWords upper-cases the first letter of each alphabetic run so month
// names survive time.Parse's case-sensitive layouts ("12 apr", "12-apr").
func titleWords(s string) string {
	out := []byte(s)
	prevLetter := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if isLetter && !prevLetter && c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
		prevLetter = isLetter
	}
	return string(out)
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
