package parser

import "strings"

// roleWindow bounds how far right of a name column headers are scanned.
const roleWindow = 10

// BlockColumns maps one attendance block's semantic roles to column indexes.
// Day is the fixed-convention day/time column immediately left of Name.
type BlockColumns struct {
	Name         int
	Day          int
	Date         int
	Attended     int
	Fees         int
	Registration int
	Badge        int
	Notes        int
	AddedBy      int
}

// LeaverColumns maps one departure block's roles to column indexes.
type LeaverColumns struct {
	Name      int
	Day       int
	Date      int
	RemovedLA int
	RemovedBG int
	Board     int
	Reason    int
	AddedBy   int
}

// findRoleCol scans header cells right of nameCol within the role window and
// returns the first column whose header satisfies match. When no header
// matches, a fixed positional offset keeps the map usable on malformed or
// reordered headers.
func findRoleCol(rows [][]string, headerRow, nameCol, fallbackOffset int, match func(string) bool) int {
	maxCol := MaxColumns(rows)
	for c := nameCol + 1; c <= nameCol+roleWindow && c <= maxCol; c++ {
		if match(strings.ToLower(CellAt(rows, headerRow, c))) {
			return c
		}
	}
	return nameCol + fallbackOffset
}

// BuildColumnMap resolves role columns for each attendance block from its
// shared header row. Matching is a substring OR over per-role keyword sets.
func BuildColumnMap(rows [][]string, headerRow int, nameCols []int) map[int]BlockColumns {
	out := make(map[int]BlockColumns, len(nameCols))
	for _, col := range nameCols {
		out[col] = BlockColumns{
			Name: col,
			Day:  col - 1,
			Date: findRoleCol(rows, headerRow, col, 1, func(t string) bool {
				return strings.Contains(t, "date") &&
					(strings.Contains(t, "taster") || strings.Contains(t, "date of"))
			}),
			Attended: findRoleCol(rows, headerRow, col, 2, func(t string) bool {
				return strings.Contains(t, "attend")
			}),
			Fees: findRoleCol(rows, headerRow, col, 3, func(t string) bool {
				return strings.Contains(t, "club fees") ||
					(strings.Contains(t, "dd") && strings.Contains(t, "paid"))
			}),
			Registration: findRoleCol(rows, headerRow, col, 4, func(t string) bool {
				return strings.Contains(t, "paid bg") || t == "bg" ||
					(strings.Contains(t, "paid") && strings.Contains(t, "bg"))
			}),
			Badge: findRoleCol(rows, headerRow, col, 5, func(t string) bool {
				return strings.Contains(t, "added bg") || strings.Contains(t, "badge") ||
					(strings.Contains(t, "account") && strings.Contains(t, "bg"))
			}),
			Notes: findRoleCol(rows, headerRow, col, 6, func(t string) bool {
				return strings.Contains(t, "note") || strings.Contains(t, "medical")
			}),
			AddedBy: findRoleCol(rows, headerRow, col, 7, func(t string) bool {
				return strings.Contains(t, "added by") || t == "added"
			}),
		}
	}
	return out
}

// BuildLeaverColumnMap resolves role columns for each departure block.
func BuildLeaverColumnMap(rows [][]string, headerRow int, nameCols []int) map[int]LeaverColumns {
	out := make(map[int]LeaverColumns, len(nameCols))
	for _, col := range nameCols {
		out[col] = LeaverColumns{
			Name: col,
			Day:  col - 1,
			Date: findRoleCol(rows, headerRow, col, 1, func(t string) bool {
				return strings.Contains(t, "date") &&
					(strings.Contains(t, "leave") || strings.Contains(t, "email"))
			}),
			RemovedLA: findRoleCol(rows, headerRow, col, 2, func(t string) bool {
				return strings.Contains(t, "removed from la") || strings.Contains(t, "inactive") ||
					(strings.Contains(t, "removed") && strings.Contains(t, "la"))
			}),
			RemovedBG: findRoleCol(rows, headerRow, col, 3, func(t string) bool {
				return strings.Contains(t, "removed from bg") ||
					(strings.Contains(t, "removed") && strings.Contains(t, "bg"))
			}),
			Board: findRoleCol(rows, headerRow, col, 4, func(t string) bool {
				return strings.Contains(t, "leavers board") ||
					(strings.Contains(t, "added") && strings.Contains(t, "board"))
			}),
			Reason: findRoleCol(rows, headerRow, col, 5, func(t string) bool {
				return strings.Contains(t, "reason")
			}),
			AddedBy: findRoleCol(rows, headerRow, col, 6, func(t string) bool {
				return strings.Contains(t, "added by") || t == "added"
			}),
		}
	}
	return out
}
