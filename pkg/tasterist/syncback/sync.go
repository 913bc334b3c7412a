package syncback

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/penninegym/tasterist-go/pkg/tasterist/locator"
	"github.com/penninegym/tasterist-go/pkg/tasterist/models"
	"github.com/penninegym/tasterist-go/pkg/tasterist/parser"
)

// Reason categorizes a sync failure. Sync-back is best-effort relative to the
// store write, so failures are data, not errors.
type Reason string

const (
	ReasonInvalidRecord    Reason = "invalid-record"
	ReasonWorkbookNotFound Reason = "workbook-not-found"
	ReasonSheetNotFound    Reason = "sheet-not-found"
	ReasonColumnsNotFound  Reason = "columns-not-found"
	ReasonNoSlotFound      Reason = "no-slot-found"
	ReasonSaveFailed       Reason = "save-failed"
)

// Result is the per-invocation outcome: a success flag and a human message,
// plus the failure category when OK is false.
type Result struct {
	OK      bool
	Reason  Reason
	Message string
}

func failure(reason Reason, format string, args ...interface{}) Result {
	return Result{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Syncer owns the narrow open → locate → mutate → save boundary around live
// workbooks. The matching itself is pure (match.go); everything imperative
// happens here.
type Syncer struct {
	// Roots are workbook search roots in priority order. The local
	// known-good copy goes first so sync never writes into a half-synced
	// cloud placeholder.
	Roots []string
	Log   *log.Logger
}

func yesCell(v bool) string {
	if v {
		return "yes"
	}
	return ""
}

func (s *Syncer) logf(format string, args ...interface{}) {
	if s.Log != nil {
		s.Log.Printf(format, args...)
	}
}

func setCell(f *excelize.File, sheet string, row, col int, value string) {
	if col < 1 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellValue(sheet, cell, value)
}

// SyncTaster re-locates the originating cell for a changed attendance record
// and mutates only what the mode requires, preserving everything else in the
// workbook.
func (s *Syncer) SyncTaster(rec *models.Taster, mode Mode, changedField, actorInitials string) Result {
	recordDate, err := time.Parse("2006-01-02", rec.TasterDate)
	if err != nil {
		return failure(ReasonInvalidRecord, "invalid taster date: %s", rec.TasterDate)
	}

	path, found := locator.FindWorkbook(rec.Unit, recordDate.Year(), s.Roots...)
	if !found {
		return failure(ReasonWorkbookNotFound, "no workbook for %s/%d", rec.Unit, recordDate.Year())
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return failure(ReasonWorkbookNotFound, "could not open workbook: %v", err)
	}
	defer f.Close()

	sheetName, rows, res := s.monthSheet(f, recordDate)
	if !res.OK {
		return res
	}

	headerRow, nameCols := parser.FindNameColumns(rows, parser.MaxHeaderScanRows)
	if len(nameCols) == 0 {
		return failure(ReasonColumnsNotFound, "no name columns in %s", sheetName)
	}
	tasterEnd := len(rows)
	if markers := parser.FindSectionRows(rows, parser.LeaversMarker); len(markers) > 0 {
		tasterEnd = markers[0] - 1
	}
	columnMap := parser.BuildColumnMap(rows, headerRow, nameCols)

	monthName := parser.MonthNames[recordDate.Month()-1]
	slot, ok := FindTasterSlot(rows, headerRow, nameCols, columnMap, tasterEnd,
		rec.Child, recordDate, rec.Session, monthName, mode == ModeAdd)
	if !ok {
		return failure(ReasonNoSlotFound, "no writable slot for %s on %s", rec.Child, rec.TasterDate)
	}

	switch mode {
	case ModeAdd:
		setCell(f, sheetName, slot.Row, slot.Cols.Name, rec.Child)
		setCell(f, sheetName, slot.Row, slot.Cols.Date,
			fmt.Sprintf("%d %s", recordDate.Day(), recordDate.Format("Jan")))
		if notes := strings.TrimSpace(rec.Notes); notes != "" {
			setCell(f, sheetName, slot.Row, slot.Cols.Notes, notes)
		}
		if actorInitials != "" {
			setCell(f, sheetName, slot.Row, slot.Cols.AddedBy, actorInitials)
		}
		setCell(f, sheetName, slot.Row, slot.Cols.Attended, yesCell(rec.Attended))
		setCell(f, sheetName, slot.Row, slot.Cols.Fees, yesCell(rec.ClubFees))
		setCell(f, sheetName, slot.Row, slot.Cols.Registration, yesCell(rec.Registration))
		setCell(f, sheetName, slot.Row, slot.Cols.Badge, yesCell(rec.Badge))

	case ModeStatus:
		col, value := 0, ""
		switch changedField {
		case "attended":
			col, value = slot.Cols.Attended, yesCell(rec.Attended)
		case "fees":
			col, value = slot.Cols.Fees, yesCell(rec.ClubFees)
		case "registration":
			col, value = slot.Cols.Registration, yesCell(rec.Registration)
		case "badge":
			col, value = slot.Cols.Badge, yesCell(rec.Badge)
		default:
			return failure(ReasonColumnsNotFound, "status column not found for %q", changedField)
		}
		setCell(f, sheetName, slot.Row, col, value)

	case ModeContacted:
		existing := parser.CellAt(rows, slot.Row, slot.Cols.Notes)
		marker := "[contacted]"
		if actorInitials != "" {
			marker = fmt.Sprintf("[contacted %s]", actorInitials)
		}
		if !strings.Contains(existing, marker) {
			notes := strings.TrimSpace(existing + " " + marker)
			setCell(f, sheetName, slot.Row, slot.Cols.Notes, notes)
		}

	default:
		return failure(ReasonInvalidRecord, "unknown sync mode: %s", mode)
	}

	if err := f.Save(); err != nil {
		return failure(ReasonSaveFailed, "could not save workbook: %v", err)
	}
	s.logf("synced taster %s to %s (%s)", rec.Child, filepath.Base(path), sheetName)
	return Result{OK: true, Message: fmt.Sprintf("synced to %s (%s)", filepath.Base(path), sheetName)}
}

// SyncLeaver writes a departure record into the LEAVERS region of its month
// sheet.
func (s *Syncer) SyncLeaver(rec *models.Leaver, actorInitials string) Result {
	leaveDate := strings.TrimSpace(rec.LeaveDate)
	if leaveDate == "" {
		return failure(ReasonInvalidRecord, "leave date missing")
	}
	dt, err := time.Parse("2006-01-02", leaveDate)
	if err != nil {
		return failure(ReasonInvalidRecord, "invalid leave date: %s", leaveDate)
	}

	path, found := locator.FindWorkbook(rec.Unit, dt.Year(), s.Roots...)
	if !found {
		return failure(ReasonWorkbookNotFound, "no workbook for %s/%d", rec.Unit, dt.Year())
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return failure(ReasonWorkbookNotFound, "could not open workbook: %v", err)
	}
	defer f.Close()

	sheetName, rows, res := s.monthSheet(f, dt)
	if !res.OK {
		return res
	}

	markers := parser.FindSectionRows(rows, parser.LeaversMarker)
	if len(markers) == 0 {
		return failure(ReasonColumnsNotFound, "no %s section in %s", parser.LeaversMarker, sheetName)
	}
	headerRow, nameCols := parser.FindLeaverHeaderRow(rows, markers[0])
	if headerRow == 0 {
		return failure(ReasonColumnsNotFound, "leaver columns not found in %s", sheetName)
	}
	columnMap := parser.BuildLeaverColumnMap(rows, headerRow, nameCols)

	targetDay := parser.DayName(rec.ClassDay)
	if targetDay == "" {
		targetDay = dt.Weekday().String()
	}

	slot, ok := FindLeaverSlot(rows, headerRow, nameCols, columnMap, markers[0],
		rec.Child, targetDay, rec.Session)
	if !ok {
		return failure(ReasonNoSlotFound, "no writable leaver slot for %s", rec.Child)
	}

	setCell(f, sheetName, slot.Row, slot.Cols.Name, rec.Child)
	setCell(f, sheetName, slot.Row, slot.Cols.Date,
		fmt.Sprintf("%d %s", dt.Day(), dt.Format("Jan")))
	setCell(f, sheetName, slot.Row, slot.Cols.RemovedLA, yesCell(rec.RemovedLA))
	setCell(f, sheetName, slot.Row, slot.Cols.RemovedBG, yesCell(rec.RemovedBG))
	setCell(f, sheetName, slot.Row, slot.Cols.Board, yesCell(rec.AddedToBoard))
	if reason := strings.TrimSpace(rec.Reason); reason != "" {
		setCell(f, sheetName, slot.Row, slot.Cols.Reason, reason)
	}
	if actorInitials != "" {
		setCell(f, sheetName, slot.Row, slot.Cols.AddedBy, actorInitials)
	}

	if err := f.Save(); err != nil {
		return failure(ReasonSaveFailed, "could not save workbook: %v", err)
	}
	s.logf("synced leaver %s to %s (%s)", rec.Child, filepath.Base(path), sheetName)
	return Result{OK: true, Message: fmt.Sprintf("synced to %s (%s)", filepath.Base(path), sheetName)}
}

// monthSheet resolves the record's month sheet and its row grid.
func (s *Syncer) monthSheet(f *excelize.File, date time.Time) (string, [][]string, Result) {
	sheetName := parser.MonthNames[date.Month()-1]
	found := false
	for _, name := range f.GetSheetList() {
		if name == sheetName {
			found = true
			break
		}
	}
	if !found {
		return "", nil, failure(ReasonSheetNotFound, "month sheet not found: %s", sheetName)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", nil, failure(ReasonSheetNotFound, "could not read sheet %s: %v", sheetName, err)
	}
	return sheetName, rows, Result{OK: true}
}
