package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penninegym/tasterist-go/pkg/tasterist/models"
	"github.com/penninegym/tasterist-go/pkg/tasterist/parser"
)

// headerScanLimit bounds the search for the real header row in bookings CSVs,
// which often carry preamble lines above it.
const headerScanLimit = 30

var csvDateLayouts = []string{
	"2006-01-02", "02/01/2006", "2/1/2006", "01/02/2006",
	"02 Jan 2006", "2 Jan 2006", "Jan 2, 2006", "2006-01-02 15:04:05",
}

// preschoolClassTokens identify preschool sessions by class name.
var preschoolClassTokens = []string{
	"mini roos", "jumping joeys", "kangaroo kids", "preschool", "pre-school",
}

// inferUnit maps a class name + address to (unit, location).
func inferUnit(className, address string) (string, string) {
	text := strings.ToLower(className + " " + address)
	if strings.Contains(text, "honley") {
		return "honley", "Honley"
	}
	for _, tok := range preschoolClassTokens {
		if strings.Contains(text, tok) {
			return "preschool", "Preschool"
		}
	}
	return "lockwood", "Lockwood"
}

// pickColumn resolves a header name from legacy/current aliases.
func pickColumn(header []string, candidates ...string) int {
	for _, cand := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), cand) {
				return i
			}
		}
	}
	return -1
}

func detectHeaderRow(records [][]string) int {
	for idx, row := range records {
		if idx > headerScanLimit {
			break
		}
		lowered := make(map[string]bool, len(row))
		for _, cell := range row {
			if s := strings.ToLower(strings.TrimSpace(cell)); s != "" {
				lowered[s] = true
			}
		}
		hasName := lowered["name"] || lowered["event name"]
		hasDate := lowered["date"]
		hasStart := lowered["start"] || lowered["start time"]
		hasEnd := lowered["end"] || lowered["end time"]
		if hasName && hasDate && hasStart && hasEnd {
			return idx
		}
	}
	return 0
}

func parseCSVDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LoadClassSessionsCSV imports schedule templates from a bookings CSV export.
// Each row becomes a date-specific ClassSession; duplicate rows are ignored
// via the natural key. When replace is set, existing templates are cleared
// first.
func (s *Store) LoadClassSessionsCSV(path string, replace bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("empty csv: %s", path)
	}

	headerIdx := detectHeaderRow(records)
	header := records[headerIdx]

	nameCol := pickColumn(header, "Name", "Event Name")
	dateCol := pickColumn(header, "date", "Date")
	startCol := pickColumn(header, "Start", "Start Time")
	endCol := pickColumn(header, "End", "End Time")
	addrCol := pickColumn(header, "Address", "Location")

	var missing []string
	for _, req := range []struct {
		label string
		col   int
	}{{"name", nameCol}, {"date", dateCol}, {"start", startCol}, {"end", endCol}} {
		if req.col < 0 {
			missing = append(missing, req.label)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("missing required csv columns: %s", strings.Join(missing, ", "))
	}

	if replace {
		if err := s.ReplaceClassSessions(); err != nil {
			return 0, err
		}
	}

	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	inserted := 0
	for _, row := range records[headerIdx+1:] {
		className := cell(row, nameCol)
		if className == "" {
			continue
		}
		dateRaw := cell(row, dateCol)
		startTime := parser.ExtractTime(cell(row, startCol))
		endTime := parser.ExtractTime(cell(row, endCol))
		if dateRaw == "" || startTime == "" {
			continue
		}
		parsed, ok := parseCSVDate(dateRaw)
		if !ok {
			continue
		}

		unit, location := inferUnit(className, cell(row, addrCol))
		created, err := s.InsertClassSession(&models.ClassSession{
			Unit:        unit,
			Location:    location,
			SessionDate: parsed.Format("2006-01-02"),
			Day:         parsed.Weekday().String(),
			ClassName:   className,
			StartTime:   startTime,
			EndTime:     endTime,
			SourceFile:  filepath.Base(path),
		})
		if err != nil {
			return inserted, err
		}
		if created {
			inserted++
		}
	}
	return inserted, nil
}
