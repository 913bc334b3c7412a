package parser

import "testing"

func TestFindNameColumns(t *testing.T) {
	rows := [][]string{
		{"Trial sheet March"},
		{},
		{"", "Name", "Date", "Attended", "", "", "", "Name", "Date"},
		{"Monday", "alice smith"},
	}

	headerRow, cols := FindNameColumns(rows, MaxHeaderScanRows)
	if headerRow != 3 {
		t.Errorf("headerRow = %d, expected 3", headerRow)
	}
	if len(cols) != 2 || cols[0] != 2 || cols[1] != 8 {
		t.Errorf("nameCols = %v, expected [2 8]", cols)
	}
}

func TestFindNameColumnsCaseAndSpace(t *testing.T) {
	rows := [][]string{
		{"", " name ", "other"},
	}
	headerRow, cols := FindNameColumns(rows, MaxHeaderScanRows)
	if headerRow != 1 || len(cols) != 1 || cols[0] != 2 {
		t.Errorf("got headerRow=%d cols=%v, expected 1 [2]", headerRow, cols)
	}
}

func TestFindNameColumnsNone(t *testing.T) {
	rows := [][]string{
		{"nothing", "here"},
		{"Names", "are", "not", "exact"},
	}
	headerRow, cols := FindNameColumns(rows, MaxHeaderScanRows)
	if headerRow != 0 || cols != nil {
		t.Errorf("expected no name columns, got headerRow=%d cols=%v", headerRow, cols)
	}
}

func TestFindSectionRows(t *testing.T) {
	rows := [][]string{
		{"Name", "Date"},
		{"alice", "1 Mar"},
		{"", "leavers"},
		{"LEAVERS"},
	}
	hits := FindSectionRows(rows, LeaversMarker)
	if len(hits) != 2 || hits[0] != 3 || hits[1] != 4 {
		t.Errorf("FindSectionRows = %v, expected [3 4]", hits)
	}
}

func TestFindLeaverHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Name", "Date"},
		{"alice", "1 Mar"},
		{"LEAVERS"},
		{"some filler"},
		{"", "Name", "Date of leave", "Removed from LA"},
		{"", "ben jones", "12 Apr"},
	}
	headerRow, cols := FindLeaverHeaderRow(rows, 3)
	if headerRow != 5 {
		t.Errorf("headerRow = %d, expected 5", headerRow)
	}
	if len(cols) != 1 || cols[0] != 2 {
		t.Errorf("nameCols = %v, expected [2]", cols)
	}
}

func TestFindLeaverHeaderRowAbsent(t *testing.T) {
	rows := [][]string{
		{"LEAVERS"},
		{"Name", "Date"}, // no "leave" header anywhere
	}
	headerRow, _ := FindLeaverHeaderRow(rows, 1)
	if headerRow != 0 {
		t.Errorf("expected no leaver header row, got %d", headerRow)
	}
}

func TestCellAtRaggedGrid(t *testing.T) {
	rows := [][]string{
		{"a"},
		{"b", " c "},
	}
	if got := CellAt(rows, 2, 2); got != "c" {
		t.Errorf("CellAt(2,2) = %q, expected %q", got, "c")
	}
	if got := CellAt(rows, 1, 5); got != "" {
		t.Errorf("CellAt out of range = %q, expected empty", got)
	}
	if got := CellAt(rows, 9, 1); got != "" {
		t.Errorf("CellAt past last row = %q, expected empty", got)
	}
}
