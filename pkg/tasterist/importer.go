package tasterist

import (
	"archive/zip"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/penninegym/tasterist-go/pkg/tasterist/locator"
	"github.com/penninegym/tasterist-go/pkg/tasterist/models"
	"github.com/penninegym/tasterist-go/pkg/tasterist/parser"
	"github.com/penninegym/tasterist-go/pkg/tasterist/store"
)

// Summary reports what one import run did.
type Summary struct {
	Files    int
	Tasters  int
	Leavers  int
	Warnings []string
}

// Importer runs the import direction: locate workbooks, parse each month
// sheet, and insert records idempotently. Workbooks are processed strictly
// sequentially; each is opened, fully parsed, and closed before the next.
type Importer struct {
	store *store.Store
	opts  Options
	log   *log.Logger
}

// NewImporter wires an importer over an open store.
func NewImporter(st *store.Store, opts Options) *Importer {
	return &Importer{store: st, opts: opts, log: opts.logger()}
}

// target pairs a logical workbook with the path actually read (which may be
// the fallback copy).
type target struct {
	file     string
	readFrom string
	fallback bool
}

// isReadableArchive checks the file is a well-formed zip container, the cheap
// proxy for "fully synced xlsx" (cloud placeholders fail this).
func isReadableArchive(path string) bool {
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// Run executes the import. Parse-level anomalies degrade to warnings; only
// whole-run conditions (missing source folder, zero readable files) return an
// error, and always before any replace-mode clear.
func (im *Importer) Run(ctx context.Context) (*Summary, error) {
	root := im.opts.SourceFolder
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceFolderMissing, root)
	}

	candidates := locator.ListWorkbooks(root)

	fallbackByKey := make(map[string]string)
	var fallbackCandidates []string
	if im.opts.FallbackFolder != "" {
		fallbackCandidates = locator.ListWorkbooks(im.opts.FallbackFolder)
		for _, fb := range fallbackCandidates {
			key := locator.WorkbookKey(fb)
			if _, ok := fallbackByKey[key]; !ok {
				fallbackByKey[key] = fb
			}
		}
	}

	if len(candidates) == 0 && len(fallbackCandidates) > 0 {
		im.log.Printf("no supported files in primary folder; using local fallback copies")
		candidates = fallbackCandidates
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoWorkbooks, root)
	}

	summary := &Summary{}
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		summary.Warnings = append(summary.Warnings, msg)
		im.log.Printf("WARN %s", msg)
	}

	var targets []target
	scheduled := make(map[string]bool)
	for _, file := range candidates {
		key := locator.WorkbookKey(file)
		scheduled[key] = true
		if isReadableArchive(file) {
			targets = append(targets, target{file: file, readFrom: file})
			continue
		}
		if fb, ok := fallbackByKey[key]; ok && isReadableArchive(fb) {
			warn("primary unreadable, using local fallback: %s", filepath.Base(file))
			targets = append(targets, target{file: file, readFrom: fb, fallback: true})
			continue
		}
		warn("skip unreadable workbook (not fully synced?): %s", file)
	}

	// Fallback-only workbooks still get imported from the local copies.
	for _, fb := range fallbackCandidates {
		key := locator.WorkbookKey(fb)
		if scheduled[key] {
			continue
		}
		if isReadableArchive(fb) {
			warn("missing in primary folder, using local fallback: %s", filepath.Base(fb))
			targets = append(targets, target{file: fb, readFrom: fb, fallback: true})
			scheduled[key] = true
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w; import aborted without clearing data", ErrNoWorkbooks)
	}

	if im.opts.Replace {
		im.log.Printf("replace mode: clearing tasters and leavers")
		if err := im.store.ReplaceAll(); err != nil {
			return nil, fmt.Errorf("clear tables: %w", err)
		}
	}

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		nt, nl, err := im.importWorkbook(t.readFrom, warn)
		if err != nil {
			warn("skip workbook %s: %v", filepath.Base(t.file), err)
			continue
		}
		summary.Files++
		summary.Tasters += nt
		summary.Leavers += nl
	}

	im.log.Printf("import complete: %d files, %d tasters, %d leavers",
		summary.Files, summary.Tasters, summary.Leavers)

	_ = im.store.LogAudit(im.opts.Actor, "run_import", "system", "",
		"ok", fmt.Sprintf("files=%d tasters=%d leavers=%d warnings=%d",
			summary.Files, summary.Tasters, summary.Leavers, len(summary.Warnings)))

	return summary, nil
}

// importWorkbook parses every month sheet of one workbook.
func (im *Importer) importWorkbook(path string, warn func(string, ...interface{})) (tasters, leavers int, err error) {
	book := filepath.Base(path)
	unit := locator.UnitForFilename(book)
	year := locator.DetectYear(path)
	if year == 0 {
		year = time.Now().Year()
	}
	location := locator.LocationForUnit(unit)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	im.log.Printf("FILE %s -> %s %d", book, unit, year)

	for idx, sheetName := range f.GetSheetList() {
		if idx >= len(parser.MonthNames) {
			break
		}
		monthName := parser.MonthNames[idx]
		im.log.Printf("  sheet %s (%s)", sheetName, monthName)

		rows, err := f.GetRows(sheetName)
		if err != nil {
			warn("%v", &SheetError{Book: book, Sheet: sheetName, Err: err})
			continue
		}

		recs, err := parser.ExtractSheet(rows, monthName, year)
		if err != nil {
			warn("%v", &SheetError{Book: book, Sheet: sheetName, Err: err})
			continue
		}

		nt, nl := im.storeSheet(recs, unit, location, book, idx+1, warn)
		tasters += nt
		leavers += nl
	}

	im.log.Printf("  inserted tasters=%d leavers=%d", tasters, leavers)
	return tasters, leavers, nil
}

// storeSheet inserts one sheet's extracted rows, resolving class labels and
// sessions against the schedule templates.
func (im *Importer) storeSheet(recs *parser.SheetRecords, unit, location, book string, monthNum int, warn func(string, ...interface{})) (tasters, leavers int) {
	for _, row := range recs.Tasters {
		isoDate := row.Date.Format("2006-01-02")
		className, inferredSession, matched := im.store.InferClassDetails(unit, row.Day, row.Session, isoDate)
		session := inferredSession
		if session == "" {
			session = row.Session
		}

		weekday := row.Day
		if weekday == "" {
			weekday = row.Date.Weekday().String()
		}
		// Preschool runs no Saturday sessions; an unmatched Saturday row is
		// carried context gone stale, not a real record.
		if unit == "preschool" && weekday == "Saturday" && !matched {
			warn("skip orphan preschool Saturday row: name=%s date=%s", row.Child, isoDate)
			continue
		}

		created, err := im.store.InsertTaster(&models.Taster{
			Child:        row.Child,
			Unit:         unit,
			Location:     location,
			Session:      session,
			ClassName:    className,
			TasterDate:   isoDate,
			Notes:        row.Notes,
			Attended:     row.Attended,
			ClubFees:     row.Fees,
			Registration: row.Registration,
			Badge:        row.Badge,
		})
		if err != nil {
			warn("insert taster %s %s: %v", row.Child, isoDate, err)
			continue
		}
		if created {
			tasters++
		}
	}

	defaultMonth := fmt.Sprintf("%04d-%02d", recs.Year, monthNum)
	seen := make(map[string]bool)
	for _, row := range recs.Leavers {
		leaveMonth := defaultMonth
		leaveDate := ""
		if row.HasDate {
			leaveDate = row.LeaveDate.Format("2006-01-02")
			leaveMonth = leaveDate[:7]
		}

		key := strings.ToLower(row.Child) + "|" + leaveMonth
		if seen[key] {
			continue
		}
		seen[key] = true

		session, className := im.inheritLeaverDetails(row, unit, leaveMonth)

		created, err := im.store.InsertLeaver(&models.Leaver{
			Child:      row.Child,
			Unit:       unit,
			LeaveMonth: leaveMonth,
			LeaveDate:  leaveDate,
			ClassDay:   row.Day,
			Session:    session,
			ClassName:  className,
			Source:     book,
		})
		if err != nil {
			warn("insert leaver %s %s: %v", row.Child, leaveMonth, err)
			continue
		}
		if created {
			leavers++
		}
	}
	return tasters, leavers
}

// inheritLeaverDetails takes session and class from the child's matching
// attendance record (same month preferred, else most recent), falling back to
// the probed day/time context from the sheet.
func (im *Importer) inheritLeaverDetails(row parser.LeaverRow, unit, leaveMonth string) (session, className string) {
	matched, err := im.store.LatestTasterFor(row.Child, unit, leaveMonth)
	if err == nil && matched == nil {
		matched, err = im.store.LatestTasterFor(row.Child, unit, "")
	}
	if err == nil && matched != nil {
		session = matched.Session
		className = matched.ClassName
	}
	if session == "" {
		parts := make([]string, 0, 2)
		if row.Day != "" {
			parts = append(parts, row.Day)
		}
		if row.Time != "" {
			parts = append(parts, row.Time)
		}
		session = strings.Join(parts, " ")
	}
	return session, className
}
