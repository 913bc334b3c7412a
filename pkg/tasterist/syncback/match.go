// Package syncback writes individual record changes into the originating
// spreadsheet cell so the paper record stays authoritative for manual review.
package syncback

import (
	"strings"
	"time"

	"github.com/penninegym/tasterist-go/pkg/tasterist/parser"
)

// Mode selects what a taster sync writes.
type Mode string

const (
	// ModeAdd writes a full new row: name, date, notes, attribution, flags.
	ModeAdd Mode = "add"
	// ModeStatus writes exactly one resolved flag column.
	ModeStatus Mode = "status"
	// ModeContacted appends a short marker to the notes cell.
	ModeContacted Mode = "contacted"
)

// TasterSlot is the resolved write target for an attendance record.
type TasterSlot struct {
	Row  int
	Cols parser.BlockColumns
}

// LeaverSlot is the resolved write target for a departure record.
type LeaverSlot struct {
	Row  int
	Cols parser.LeaverColumns
}

// matchState mirrors the extractor's per-block day/time carry while scanning
// for a slot, so matching sees the same context a re-import would. Row dates
// are compared directly from the date cell, not carried.
type matchState struct {
	day    string
	timeOf string
}

// FindTasterSlot walks the attendance region exactly as extraction does and
// returns the single best target cell. Name matches win over empty slots;
// empty slots are only considered when creating. First hit wins scanning
// top-to-bottom.
func FindTasterSlot(
	rows [][]string,
	headerRow int,
	nameCols []int,
	columnMap map[int]parser.BlockColumns,
	tasterEnd int,
	child string,
	recordDate time.Time,
	session string,
	monthName string,
	creating bool,
) (TasterSlot, bool) {
	targetDay := recordDate.Weekday().String()
	targetTime := parser.ExtractTime(session)
	childLower := strings.ToLower(strings.TrimSpace(child))
	year := recordDate.Year()

	state := make(map[int]*matchState, len(nameCols))
	for _, col := range nameCols {
		state[col] = &matchState{}
	}

	var exactEmpty, sameDayEmpty, anyEmpty *TasterSlot

	for r := 1; r <= tasterEnd; r++ {
		for _, col := range nameCols {
			cols := columnMap[col]
			st := state[col]

			dayTxt := ""
			if cols.Day >= 1 {
				dayTxt = parser.CellAt(rows, r, cols.Day)
			}
			if parser.IsWeekday(dayTxt) {
				st.day = dayTxt
			}
			if t := parser.ExtractTime(dayTxt); t != "" {
				st.timeOf = t
			}

			if r <= headerRow {
				continue
			}

			nameTxt := parser.CellAt(rows, r, col)
			sameDay := st.day == targetDay
			sameTime := sameDay
			if targetTime != "" {
				sameTime = parser.TimeMatches(targetTime, st.timeOf)
			}

			if nameTxt != "" && strings.ToLower(nameTxt) == childLower {
				rowDate, ok := parser.ParseSheetDate(parser.CellAt(rows, r, cols.Date), monthName, year)
				if (ok && sameYMD(rowDate, recordDate)) || (sameDay && sameTime) {
					return TasterSlot{Row: r, Cols: cols}, true
				}
			}

			if creating && nameTxt == "" {
				slot := &TasterSlot{Row: r, Cols: cols}
				if sameDay && sameTime && exactEmpty == nil {
					exactEmpty = slot
				}
				if sameDay && sameDayEmpty == nil {
					sameDayEmpty = slot
				}
				if anyEmpty == nil {
					anyEmpty = slot
				}
			}
		}
	}

	if !creating {
		return TasterSlot{}, false
	}
	for _, slot := range []*TasterSlot{exactEmpty, sameDayEmpty, anyEmpty} {
		if slot != nil {
			return *slot, true
		}
	}
	return TasterSlot{}, false
}

// FindLeaverSlot locates the write target in the departure region: the
// child's existing row on a matching day/time, else the first empty name cell
// preferring exact day+time, then same day, then same time.
func FindLeaverSlot(
	rows [][]string,
	headerRow int,
	nameCols []int,
	columnMap map[int]parser.LeaverColumns,
	startRow int,
	child string,
	targetDay string,
	session string,
) (LeaverSlot, bool) {
	targetTime := parser.ExtractTime(session)
	childLower := strings.ToLower(strings.TrimSpace(child))

	state := make(map[int]*matchState, len(nameCols))
	for _, col := range nameCols {
		state[col] = &matchState{}
	}

	var exactEmpty, sameDayEmpty, sameTimeEmpty *LeaverSlot

	for r := startRow; r <= len(rows); r++ {
		for _, col := range nameCols {
			cols := columnMap[col]
			st := state[col]

			dayTxt := ""
			if cols.Day >= 1 {
				dayTxt = parser.CellAt(rows, r, cols.Day)
			}
			if parser.IsWeekday(dayTxt) {
				st.day = dayTxt
			}
			if t := parser.ExtractTime(dayTxt); t != "" {
				st.timeOf = t
			}

			if r <= headerRow {
				continue
			}

			nameTxt := parser.CellAt(rows, r, col)
			sameDay := targetDay == "" || st.day == targetDay
			sameTime := targetTime == "" || parser.TimeMatches(targetTime, st.timeOf)

			if nameTxt != "" && strings.ToLower(nameTxt) == childLower {
				if sameDay && sameTime {
					return LeaverSlot{Row: r, Cols: cols}, true
				}
			}

			if nameTxt == "" {
				slot := &LeaverSlot{Row: r, Cols: cols}
				if sameDay && sameTime && exactEmpty == nil {
					exactEmpty = slot
				}
				if sameDay && sameDayEmpty == nil {
					sameDayEmpty = slot
				}
				if sameTime && sameTimeEmpty == nil {
					sameTimeEmpty = slot
				}
			}
		}
	}

	if exactEmpty != nil {
		return *exactEmpty, true
	}
	if sameDayEmpty != nil {
		return *sameDayEmpty, true
	}
	if targetDay == "" && sameTimeEmpty != nil {
		return *sameTimeEmpty, true
	}
	return LeaverSlot{}, false
}

func sameYMD(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
