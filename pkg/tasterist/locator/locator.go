// Package locator finds the best-matching taster workbook for a unit/year.
package locator

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	yearRe       = regexp.MustCompile(`(20\d{2})`)
	fullYearRe   = regexp.MustCompile(`^20\d{2}$`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Candidate is one scored workbook path.
type Candidate struct {
	Path  string
	Year  int
	Score int
}

// UnitTokens returns the filename tokens that identify a unit's workbooks.
func UnitTokens(unit string) []string {
	switch strings.ToLower(unit) {
	case "preschool":
		return []string{"preschool", "pre-school"}
	case "honley":
		return []string{"honley"}
	default:
		return []string{"lockwood"}
	}
}

// UnitForFilename infers the owning unit from a workbook filename.
func UnitForFilename(name string) string {
	f := strings.ToLower(name)
	if strings.Contains(f, "preschool") || strings.Contains(f, "pre-school") {
		return "preschool"
	}
	if strings.Contains(f, "honley") {
		return "honley"
	}
	return "lockwood"
}

// LocationForUnit maps a unit to its display location.
func LocationForUnit(unit string) string {
	switch unit {
	case "honley":
		return "Honley"
	case "preschool":
		return "Preschool"
	default:
		return "Lockwood"
	}
}

// IsSupportedWorkbook reports whether a filename carries both the trial and
// departure tokens that mark a taster workbook.
func IsSupportedWorkbook(name string) bool {
	f := strings.ToLower(name)
	return strings.Contains(f, "taster") && strings.Contains(f, "leaver")
}

// IsTempFile reports whether name is an editor lock/temp artifact.
func IsTempFile(name string) bool {
	return strings.HasPrefix(name, "~$")
}

// WorkbookKey reduces a filename to lowercase alphanumerics so the same
// workbook is recognized across roots regardless of spacing or punctuation.
func WorkbookKey(name string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(filepath.Base(name)), "")
}

// DetectYear finds a 20xx year in the filename, then in the path segments
// walking outward. Returns 0 when no year is present.
func DetectYear(path string) int {
	if m := yearRe.FindString(filepath.Base(path)); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if fullYearRe.MatchString(parts[i]) {
			y, _ := strconv.Atoi(parts[i])
			return y
		}
	}
	return 0
}

// ListWorkbooks enumerates every supported, non-temporary xlsx under root in
// lexical order. A missing root yields an empty list, not an error.
func ListWorkbooks(root string) []string {
	var out []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") || IsTempFile(name) {
			return nil
		}
		if IsSupportedWorkbook(name) {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// Candidates scores workbooks under root for a unit/year: +2 when the year
// appears in the path, +2 when it appears in the filename, +1 for the
// canonical "tasters and leavers" phrase. Highest score first, ties broken by
// lexical path order.
func Candidates(root, unit string, year int) []Candidate {
	tokens := UnitTokens(unit)
	yearStr := strconv.Itoa(year)

	var out []Candidate
	for _, path := range ListWorkbooks(root) {
		name := strings.ToLower(filepath.Base(path))
		matched := false
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		score := 0
		if strings.Contains(filepath.ToSlash(path), yearStr) {
			score += 2
		}
		if strings.Contains(name, yearStr) {
			score += 2
		}
		if strings.Contains(name, "tasters and leavers") {
			score++
		}
		out = append(out, Candidate{Path: path, Year: DetectYear(path), Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return strings.ToLower(out[i].Path) < strings.ToLower(out[j].Path)
	})
	return out
}

// FindWorkbook returns the best-scoring workbook for unit/year across the
// given roots, in order. Absence is a normal result, not an error.
func FindWorkbook(unit string, year int, roots ...string) (string, bool) {
	for _, root := range roots {
		if root == "" {
			continue
		}
		if matches := Candidates(root, unit, year); len(matches) > 0 {
			return matches[0].Path, true
		}
	}
	return "", false
}
