// Package store persists attendance and departure records behind natural-key
// idempotent inserts.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/penninegym/tasterist-go/pkg/tasterist/config"
	"github.com/penninegym/tasterist-go/pkg/tasterist/models"
)

// Store wraps the relational database. All inserts are idempotent over the
// entities' composite unique indexes.
type Store struct {
	db *gorm.DB
}

// Open connects with the configured driver and migrates the schema.
func Open(cfg *config.Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing connection and migrates the schema.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.Taster{},
		&models.Leaver{},
		&models.ClassSession{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// InsertTaster inserts unless the natural key (child, unit, date, session)
// already exists. Reports whether a row was actually written.
func (s *Store) InsertTaster(t *models.Taster) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(t)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// InsertLeaver inserts unless the natural key (child, unit, leave_month)
// already exists.
func (s *Store) InsertLeaver(l *models.Leaver) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReplaceAll clears tasters and leavers ahead of a full resync. Callers must
// hold the explicit replace opt-in; the importer refuses to reach this point
// before confirming readable source files exist.
func (s *Store) ReplaceAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Taster{}).Error; err != nil {
		return err
	}
	return s.db.Where("1 = 1").Delete(&models.Leaver{}).Error
}

// GetTaster fetches one record by id, nil when absent.
func (s *Store) GetTaster(id uint) (*models.Taster, error) {
	var t models.Taster
	err := s.db.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetLeaver fetches one departure record by id, nil when absent.
func (s *Store) GetLeaver(id uint) (*models.Leaver, error) {
	var l models.Leaver
	err := s.db.First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LatestTasterFor returns the child's most recent record for a unit,
// optionally restricted to a YYYY-MM month. Nil when none exists.
func (s *Store) LatestTasterFor(child, unit, month string) (*models.Taster, error) {
	q := s.db.Where("lower(child) = lower(?) AND unit = ?", child, unit)
	if month != "" {
		q = q.Where("substr(taster_date, 1, 7) = ?", month)
	}
	var t models.Taster
	err := q.Order("taster_date DESC").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetTasterFlag updates a single flag column by its role name.
func (s *Store) SetTasterFlag(id uint, field string, value bool) error {
	col, ok := map[string]string{
		"attended":     "attended",
		"fees":         "club_fees",
		"registration": "registration",
		"badge":        "badge",
		"contacted":    "contacted",
	}[field]
	if !ok {
		return fmt.Errorf("unknown flag field: %s", field)
	}
	return s.db.Model(&models.Taster{}).Where("id = ?", id).Update(col, value).Error
}

// timeCandidates returns the stored time plus its +12h twin for morning
// values, compensating for the historical AM/PM import defect.
func timeCandidates(start string) []string {
	if start == "" || !strings.Contains(start, ":") {
		return nil
	}
	out := []string{start}
	parts := strings.SplitN(start, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return out
	}
	if h >= 1 && h <= 11 {
		mm := parts[1]
		if len(mm) > 2 {
			mm = mm[:2]
		}
		out = append(out, fmt.Sprintf("%02d:%s", h+12, mm))
	}
	return out
}

// InferClassDetails resolves a class label from the schedule templates: by
// (unit, explicit date, start time) first, then (unit, weekday, start time).
// The returned session is the candidate that matched, or the original start
// time when nothing did.
func (s *Store) InferClassDetails(unit, dayName, startTime, isoDate string) (className, session string, matched bool) {
	if startTime == "" {
		return "", "", false
	}

	for _, candidate := range timeCandidates(startTime) {
		var cs models.ClassSession
		err := s.db.
			Where("unit = ? AND session_date = ? AND substr(start_time, 1, 5) = ?", unit, isoDate, candidate).
			Order("class_name").
			First(&cs).Error
		if err == nil {
			return cs.ClassName, candidate, true
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", startTime, false
		}
	}

	weekday := dayName
	if weekday == "" {
		weekday = (&models.Taster{TasterDate: isoDate}).Weekday()
	}

	for _, candidate := range timeCandidates(startTime) {
		var cs models.ClassSession
		err := s.db.
			Where("unit = ? AND day = ? AND substr(start_time, 1, 5) = ?", unit, weekday, candidate).
			Order("class_name").
			First(&cs).Error
		if err == nil {
			return cs.ClassName, candidate, true
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", startTime, false
		}
	}
	return "", startTime, false
}

// InsertClassSession adds a schedule-template entry unless present.
func (s *Store) InsertClassSession(cs *models.ClassSession) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(cs)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReplaceClassSessions clears the schedule templates ahead of a reload.
func (s *Store) ReplaceClassSessions() error {
	return s.db.Where("1 = 1").Delete(&models.ClassSession{}).Error
}

// CountTasters returns the stored attendance record count.
func (s *Store) CountTasters() (int64, error) {
	var n int64
	err := s.db.Model(&models.Taster{}).Count(&n).Error
	return n, err
}

// CountLeavers returns the stored departure record count.
func (s *Store) CountLeavers() (int64, error) {
	var n int64
	err := s.db.Model(&models.Leaver{}).Count(&n).Error
	return n, err
}

// HasAudit reports whether any audit row exists for an action. Used as the
// run-at-most-once sentinel for corrective passes.
func (s *Store) HasAudit(action string) (bool, error) {
	var n int64
	err := s.db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error
	return n > 0, err
}

// LogAudit appends one audit trail row.
func (s *Store) LogAudit(username, action, entityType, entityID, status, details string) error {
	if len(details) > 1000 {
		details = details[:1000]
	}
	if username == "" {
		username = "system"
	}
	return s.db.Create(&models.AuditLog{
		Username:   username,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     status,
		Details:    details,
	}).Error
}
