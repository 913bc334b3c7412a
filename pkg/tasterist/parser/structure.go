package parser

import "strings"

// MaxHeaderScanRows bounds the search for the block header row.
const MaxHeaderScanRows = 25

// leaverHeaderScan bounds the search for the leaver header row below the marker.
const leaverHeaderScan = 18

// LeaversMarker is the cell text that closes the attendance region.
const LeaversMarker = "LEAVERS"

// CellAt returns the trimmed cell value at 1-based (row, col), or "" when the
// grid is ragged or the coordinates fall outside it.
func CellAt(rows [][]string, r, c int) string {
	if r < 1 || c < 1 || r > len(rows) {
		return ""
	}
	row := rows[r-1]
	if c > len(row) {
		return ""
	}
	return strings.TrimSpace(row[c-1])
}

// MaxColumns returns the widest row length in the grid.
func MaxColumns(rows [][]string) int {
	max := 0
	for _, row := range rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// FindNameColumns scans the first maxScan rows for cells whose value is
// exactly "Name" (case-insensitive). The first row with any hit is the shared
// header row; each hit is one block's name column. headerRow is 0 when the
// sheet has no blocks.
func FindNameColumns(rows [][]string, maxScan int) (headerRow int, nameCols []int) {
	limit := maxScan
	if limit > len(rows) {
		limit = len(rows)
	}
	for r := 1; r <= limit; r++ {
		var cols []int
		for c := 1; c <= len(rows[r-1]); c++ {
			if strings.EqualFold(CellAt(rows, r, c), "name") {
				cols = append(cols, c)
			}
		}
		if len(cols) > 0 {
			return r, cols
		}
	}
	return 0, nil
}

// FindSectionRows returns every row containing a cell that exactly matches
// marker, case-insensitively.
func FindSectionRows(rows [][]string, marker string) []int {
	var hits []int
	for r := 1; r <= len(rows); r++ {
		for c := 1; c <= len(rows[r-1]); c++ {
			if strings.EqualFold(CellAt(rows, r, c), marker) {
				hits = append(hits, r)
				break
			}
		}
	}
	return hits
}

// FindLeaverHeaderRow locates the departure-region header: the first row at or
// below startRow (within a bounded window) holding at least one "Name" cell
// and at least one header containing "leave". headerRow is 0 when absent.
func FindLeaverHeaderRow(rows [][]string, startRow int) (headerRow int, nameCols []int) {
	scanTo := startRow + leaverHeaderScan
	if scanTo > len(rows) {
		scanTo = len(rows)
	}
	for r := startRow; r <= scanTo; r++ {
		var cols []int
		hasLeave := false
		for c := 1; c <= len(rows[r-1]); c++ {
			s := strings.ToLower(CellAt(rows, r, c))
			if s == "name" {
				cols = append(cols, c)
			}
			if strings.Contains(s, "leave") {
				hasLeave = true
			}
		}
		if len(cols) > 0 && hasLeave {
			return r, cols
		}
	}
	return 0, nil
}
