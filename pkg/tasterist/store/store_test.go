package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/penninegym/tasterist-go/pkg/tasterist/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := NewWithDB(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func sampleTaster() *models.Taster {
	return &models.Taster{
		Child:      "Alice Smith",
		Unit:       "lockwood",
		Location:   "Lockwood",
		Session:    "16:00",
		TasterDate: "2025-03-01",
		Attended:   true,
	}
}

func TestInsertTasterIdempotent(t *testing.T) {
	s := newTestStore(t)

	created, err := s.InsertTaster(sampleTaster())
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	// Same natural key again, even with different flags, is a no-op.
	dup := sampleTaster()
	dup.Attended = false
	dup.Notes = "different"
	created, err = s.InsertTaster(dup)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if created {
		t.Error("duplicate natural key should not create a row")
	}

	// A different session time is a distinct record.
	other := sampleTaster()
	other.Session = "17:30"
	created, err = s.InsertTaster(other)
	if err != nil || !created {
		t.Fatalf("distinct session: created=%v err=%v", created, err)
	}

	n, err := s.CountTasters()
	if err != nil || n != 2 {
		t.Errorf("count = %d err=%v, expected 2", n, err)
	}
}

func TestInsertLeaverIdempotent(t *testing.T) {
	s := newTestStore(t)

	l := &models.Leaver{Child: "Ben Jones", Unit: "honley", LeaveMonth: "2025-04"}
	if created, err := s.InsertLeaver(l); err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}
	dup := &models.Leaver{Child: "Ben Jones", Unit: "honley", LeaveMonth: "2025-04", Reason: "moved away"}
	if created, err := s.InsertLeaver(dup); err != nil || created {
		t.Fatalf("duplicate: created=%v err=%v", created, err)
	}
	// Same child in a different month is a new departure.
	next := &models.Leaver{Child: "Ben Jones", Unit: "honley", LeaveMonth: "2025-09"}
	if created, err := s.InsertLeaver(next); err != nil || !created {
		t.Fatalf("new month: created=%v err=%v", created, err)
	}
}

func TestReplaceAll(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.InsertTaster(sampleTaster()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertLeaver(&models.Leaver{Child: "Ben Jones", Unit: "honley", LeaveMonth: "2025-04"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceAll(); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	nt, _ := s.CountTasters()
	nl, _ := s.CountLeavers()
	if nt != 0 || nl != 0 {
		t.Errorf("counts after replace = %d/%d, expected 0/0", nt, nl)
	}
}

func TestLatestTasterFor(t *testing.T) {
	s := newTestStore(t)
	for _, date := range []string{"2025-03-01", "2025-03-15", "2025-04-02"} {
		rec := sampleTaster()
		rec.TasterDate = date
		if _, err := s.InsertTaster(rec); err != nil {
			t.Fatal(err)
		}
	}

	// Name match is case-insensitive; the newest record wins.
	got, err := s.LatestTasterFor("alice SMITH", "lockwood", "")
	if err != nil || got == nil {
		t.Fatalf("LatestTasterFor: %v %v", got, err)
	}
	if got.TasterDate != "2025-04-02" {
		t.Errorf("latest = %s, expected 2025-04-02", got.TasterDate)
	}

	// Month restriction picks the newest within that month.
	got, err = s.LatestTasterFor("Alice Smith", "lockwood", "2025-03")
	if err != nil || got == nil {
		t.Fatalf("LatestTasterFor month: %v %v", got, err)
	}
	if got.TasterDate != "2025-03-15" {
		t.Errorf("latest in month = %s, expected 2025-03-15", got.TasterDate)
	}

	// Absence is nil, not an error.
	got, err = s.LatestTasterFor("Nobody", "lockwood", "")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil for unknown child, got %v %v", got, err)
	}
}

func TestSetTasterFlag(t *testing.T) {
	s := newTestStore(t)
	rec := sampleTaster()
	if _, err := s.InsertTaster(rec); err != nil {
		t.Fatal(err)
	}

	if err := s.SetTasterFlag(rec.ID, "fees", true); err != nil {
		t.Fatalf("SetTasterFlag: %v", err)
	}
	got, err := s.GetTaster(rec.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTaster: %v %v", got, err)
	}
	if !got.ClubFees {
		t.Error("fees flag not set")
	}
	if !got.Attended {
		t.Error("other flags must be untouched")
	}

	if err := s.SetTasterFlag(rec.ID, "bogus", true); err == nil {
		t.Error("expected an error for an unknown flag field")
	}
}

func TestInferClassDetails(t *testing.T) {
	s := newTestStore(t)

	weekly := &models.ClassSession{
		Unit: "lockwood", Location: "Lockwood", Day: "Monday",
		ClassName: "Gym Stars", StartTime: "16:00", EndTime: "17:00",
	}
	dated := &models.ClassSession{
		Unit: "lockwood", Location: "Lockwood", SessionDate: "2025-03-01",
		Day: "Saturday", ClassName: "Open Day Special", StartTime: "16:00", EndTime: "17:00",
	}
	for _, cs := range []*models.ClassSession{weekly, dated} {
		if _, err := s.InsertClassSession(cs); err != nil {
			t.Fatal(err)
		}
	}

	// Date-specific entries beat weekly ones.
	name, session, ok := s.InferClassDetails("lockwood", "Saturday", "16:00", "2025-03-01")
	if !ok || name != "Open Day Special" || session != "16:00" {
		t.Errorf("dated lookup = %q/%q/%v", name, session, ok)
	}

	// No dated entry: the weekday template answers.
	name, session, ok = s.InferClassDetails("lockwood", "Monday", "16:00", "2025-03-03")
	if !ok || name != "Gym Stars" || session != "16:00" {
		t.Errorf("weekly lookup = %q/%q/%v", name, session, ok)
	}

	// A morning-clock time matches its afternoon twin and is corrected.
	name, session, ok = s.InferClassDetails("lockwood", "Monday", "04:00", "2025-03-03")
	if !ok || name != "Gym Stars" || session != "16:00" {
		t.Errorf("+12h lookup = %q/%q/%v", name, session, ok)
	}

	// No weekday given: derived from the date (2025-03-03 is a Monday).
	name, session, ok = s.InferClassDetails("lockwood", "", "16:00", "2025-03-03")
	if !ok || name != "Gym Stars" || session != "16:00" {
		t.Errorf("derived-weekday lookup = %q/%q/%v", name, session, ok)
	}

	// No template at all: not matched, original time handed back.
	name, session, ok = s.InferClassDetails("honley", "Friday", "18:00", "2025-03-07")
	if ok || name != "" || session != "18:00" {
		t.Errorf("miss = %q/%q/%v", name, session, ok)
	}
}

func TestFixAfternoonTimesRunsOnce(t *testing.T) {
	s := newTestStore(t)

	add := func(child, unit, session, date string) *models.Taster {
		rec := &models.Taster{Child: child, Unit: unit, Session: session, TasterDate: date}
		if _, err := s.InsertTaster(rec); err != nil {
			t.Fatal(err)
		}
		return rec
	}

	// Lockwood: morning hours dominate, so the unit is treated as defective.
	shiftMe1 := add("Kid A", "lockwood", "04:00", "2025-03-01")
	shiftMe2 := add("Kid B", "lockwood", "05:30", "2025-03-01")
	shiftMe3 := add("Kid C", "lockwood", "06:15", "2025-03-08")
	collider := add("Kid D", "lockwood", "04:00", "2025-03-08")
	add("Kid D", "lockwood", "16:00", "2025-03-08") // the shifted twin already exists
	// Preschool genuinely runs in the morning and must stay untouched.
	morning := add("Tot E", "preschool", "09:30", "2025-03-05")

	fixed, err := s.FixAfternoonTimes("tester")
	if err != nil {
		t.Fatalf("FixAfternoonTimes: %v", err)
	}
	if fixed != 3 {
		t.Errorf("fixed = %d, expected 3", fixed)
	}

	for _, tc := range []struct {
		rec      *models.Taster
		expected string
	}{
		{shiftMe1, "16:00"},
		{shiftMe2, "17:30"},
		{shiftMe3, "18:15"},
		{collider, "04:00"},
		{morning, "09:30"},
	} {
		got, err := s.GetTaster(tc.rec.ID)
		if err != nil || got == nil {
			t.Fatalf("GetTaster(%d): %v %v", tc.rec.ID, got, err)
		}
		if got.Session != tc.expected {
			t.Errorf("%s session = %s, expected %s", got.Child, got.Session, tc.expected)
		}
	}

	// The audit sentinel prevents a second pass.
	fixed, err = s.FixAfternoonTimes("tester")
	if err != nil || fixed != 0 {
		t.Errorf("second pass fixed = %d err=%v, expected 0", fixed, err)
	}
	done, err := s.HasAudit(FixTimesAction)
	if err != nil || !done {
		t.Errorf("sentinel missing: done=%v err=%v", done, err)
	}
}

func TestLogAuditDefaults(t *testing.T) {
	s := newTestStore(t)
	long := strings.Repeat("x", 1500)
	if err := s.LogAudit("", "run_import", "taster", "", "ok", long); err != nil {
		t.Fatalf("LogAudit: %v", err)
	}
	var row models.AuditLog
	if err := s.db.First(&row).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if row.Username != "system" {
		t.Errorf("username = %q, expected system", row.Username)
	}
	if len(row.Details) != 1000 {
		t.Errorf("details length = %d, expected 1000", len(row.Details))
	}
}

func TestLoadClassSessionsCSV(t *testing.T) {
	s := newTestStore(t)

	csvBody := strings.Join([]string{
		"Exported bookings,,,,",
		"Generated 2025-03-20,,,,",
		"Name,Date,Start,End,Address",
		"Gym Stars,2025-03-03,16:00,17:00,Lockwood Sports Hall",
		"Mini Roos,2025-03-04,9:30,10:15,Village Hall",
		"Advanced Squad,2025-03-05,18:00,19:30,Honley High School",
		"Gym Stars,2025-03-03,16:00,17:00,Lockwood Sports Hall", // duplicate
		"No Date Class,,16:00,17:00,Lockwood Sports Hall",
	}, "\n")

	path := filepath.Join(t.TempDir(), "bookings.csv")
	if err := os.WriteFile(path, []byte(csvBody), 0644); err != nil {
		t.Fatal(err)
	}

	inserted, err := s.LoadClassSessionsCSV(path, false)
	if err != nil {
		t.Fatalf("LoadClassSessionsCSV: %v", err)
	}
	if inserted != 3 {
		t.Errorf("inserted = %d, expected 3", inserted)
	}

	// Unit inference: preschool class names and Honley addresses are routed.
	var mini models.ClassSession
	if err := s.db.Where("class_name = ?", "Mini Roos").First(&mini).Error; err != nil {
		t.Fatalf("mini roos row: %v", err)
	}
	if mini.Unit != "preschool" || mini.StartTime != "09:30" || mini.Day != "Tuesday" {
		t.Errorf("mini roos = %+v", mini)
	}
	var adv models.ClassSession
	if err := s.db.Where("class_name = ?", "Advanced Squad").First(&adv).Error; err != nil {
		t.Fatalf("advanced squad row: %v", err)
	}
	if adv.Unit != "honley" {
		t.Errorf("advanced squad unit = %q, expected honley", adv.Unit)
	}

	// Replace mode clears and reloads.
	inserted, err = s.LoadClassSessionsCSV(path, true)
	if err != nil || inserted != 3 {
		t.Errorf("replace reload = %d err=%v, expected 3", inserted, err)
	}
}
