package parser

import (
	"errors"
	"time"
)

// ErrNoNameColumns indicates a sheet with no detectable blocks; callers skip
// the sheet with a warning rather than failing the run.
var ErrNoNameColumns = errors.New("no name columns found")

// TasterRow is one attendance record recovered from a month sheet, prior to
// class-label inference and storage.
type TasterRow struct {
	Child        string
	Day          string // carried weekday label, may be empty
	Session      string // carried HH:MM time, may be empty
	Date         time.Time
	DateExplicit bool // the emitting row held its own parseable date cell
	Attended     bool
	Fees         bool
	Registration bool
	Badge        bool
	Notes        string
	Row, Col     int
}

// LeaverRow is one departure record recovered from the region below the
// LEAVERS marker.
type LeaverRow struct {
	Child     string
	LeaveDate time.Time
	HasDate   bool
	Day       string // probed day/time context for session reconstruction
	Time      string
	Row, Col  int
}

// SheetRecords holds everything extracted from one month sheet.
type SheetRecords struct {
	Month   string
	Year    int
	Tasters []TasterRow
	Leavers []LeaverRow
}

// blockState is the per-block carry: a recognized weekday sets day and clears
// time, a time-shaped value sets time only, and a parsed date cell sets the
// running date. State only advances on new values.
type blockState struct {
	day     string
	timeOf  string
	date    time.Time
	hasDate bool
}

// ExtractSheet walks one month sheet and emits attendance and departure rows.
// Every attendance row carries a concrete date: the row's own date cell if it
// parses, else the block's running date, else day 1 of the sheet's month.
func ExtractSheet(rows [][]string, monthName string, year int) (*SheetRecords, error) {
	headerRow, nameCols := FindNameColumns(rows, MaxHeaderScanRows)
	if len(nameCols) == 0 {
		return nil, ErrNoNameColumns
	}

	leaverMarkers := FindSectionRows(rows, LeaversMarker)
	tasterEnd := len(rows)
	if len(leaverMarkers) > 0 {
		tasterEnd = leaverMarkers[0] - 1
	}

	columnMap := BuildColumnMap(rows, headerRow, nameCols)
	defaultDate := FirstOfMonth(monthName, year)

	state := make(map[int]*blockState, len(nameCols))
	for _, col := range nameCols {
		state[col] = &blockState{}
	}

	out := &SheetRecords{Month: monthName, Year: year}

	for r := headerRow + 1; r <= tasterEnd; r++ {
		for _, col := range nameCols {
			cols := columnMap[col]
			st := state[col]

			if cols.Day >= 1 {
				dayOrTime := CellAt(rows, r, cols.Day)
				if IsWeekday(dayOrTime) {
					st.day = dayOrTime
					st.timeOf = ""
				} else if LooksLikeTime(dayOrTime) {
					st.timeOf = NormalizeTime(dayOrTime)
				}
			}

			parsed, parsedOK := ParseSheetDate(CellAt(rows, r, cols.Date), monthName, year)
			if parsedOK {
				st.date = parsed
				st.hasDate = true
			}

			nameVal := CellAt(rows, r, col)
			if !LooksLikeName(nameVal) {
				continue
			}
			name := NormalizeChildName(nameVal)
			if name == "" {
				continue
			}
			// Guard against header noise: a name with no day or date context
			// anywhere above it in the block is not a record.
			if st.day == "" && !st.hasDate && !parsedOK {
				continue
			}

			effective := defaultDate
			if parsedOK {
				effective = parsed
			} else if st.hasDate {
				effective = st.date
			}

			out.Tasters = append(out.Tasters, TasterRow{
				Child:        name,
				Day:          st.day,
				Session:      st.timeOf,
				Date:         effective,
				DateExplicit: parsedOK,
				Attended:     Truthy(CellAt(rows, r, cols.Attended)),
				Fees:         Truthy(CellAt(rows, r, cols.Fees)),
				Registration: Truthy(CellAt(rows, r, cols.Registration)),
				Badge:        Truthy(CellAt(rows, r, cols.Badge)),
				Notes:        CellAt(rows, r, cols.Notes),
				Row:          r,
				Col:          col,
			})
		}
	}

	if len(leaverMarkers) > 0 {
		extractLeavers(rows, leaverMarkers[0], monthName, year, out)
	}

	return out, nil
}

// extractLeavers reads the structured departure region below the marker.
func extractLeavers(rows [][]string, markerRow int, monthName string, year int, out *SheetRecords) {
	headerRow, nameCols := FindLeaverHeaderRow(rows, markerRow)
	if headerRow == 0 {
		return
	}

	for r := headerRow + 1; r <= len(rows); r++ {
		for _, col := range nameCols {
			nameVal := CellAt(rows, r, col)
			if !LooksLikeName(nameVal) {
				continue
			}
			name := NormalizeChildName(nameVal)
			if name == "" {
				continue
			}

			leaveDate, hasDate := ParseSheetDate(CellAt(rows, r, col+1), monthName, year)
			day, timeOf := probeDayTime(rows, r, col, headerRow)

			out.Leavers = append(out.Leavers, LeaverRow{
				Child:     name,
				LeaveDate: leaveDate,
				HasDate:   hasDate,
				Day:       day,
				Time:      timeOf,
				Row:       r,
				Col:       col,
			})
		}
	}
}

// probeDayTime recovers day/time context for a leaver row: first the columns
// left of the name on the same row, then up to 12 rows upward in the day
// column when the context sits above a merged block.
func probeDayTime(rows [][]string, r, col, headerRow int) (day, timeOf string) {
	lo := col - 4
	if lo < 1 {
		lo = 1
	}
	for c := lo; c < col; c++ {
		text := CellAt(rows, r, c)
		if IsWeekday(text) {
			day = text
		}
		if t := ExtractTime(text); t != "" {
			timeOf = t
		}
	}

	if day == "" || timeOf == "" {
		floor := r - 12
		if floor < headerRow {
			floor = headerRow
		}
		dayCol := col - 1
		if dayCol < 1 {
			dayCol = 1
		}
		for rr := r; rr > floor; rr-- {
			text := CellAt(rows, rr, dayCol)
			if day == "" && IsWeekday(text) {
				day = text
			}
			if timeOf == "" {
				if t := ExtractTime(text); t != "" {
					timeOf = t
				}
			}
			if day != "" && timeOf != "" {
				break
			}
		}
	}
	return day, timeOf
}
