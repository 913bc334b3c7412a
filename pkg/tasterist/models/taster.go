// Package models defines the relational entities behind the import engine.
package models

import "time"

// Taster is one trial-session attendance record. The composite unique index
// is the natural key; re-importing the same sheets can never duplicate rows.
type Taster struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Child      string `json:"child" gorm:"size:120;not null;uniqueIndex:uniq_taster"`
	Unit       string `json:"unit" gorm:"size:20;not null;uniqueIndex:uniq_taster"`
	Location   string `json:"location" gorm:"size:40"`
	Session    string `json:"session" gorm:"size:40;uniqueIndex:uniq_taster"` // HH:MM
	ClassName  string `json:"class_name" gorm:"size:120;default:''"`
	TasterDate string `json:"taster_date" gorm:"size:10;not null;uniqueIndex:uniq_taster"` // YYYY-MM-DD
	Notes      string `json:"notes" gorm:"type:text"`

	Attended     bool `json:"attended"`
	ClubFees     bool `json:"club_fees"`
	Registration bool `json:"registration"`
	Badge        bool `json:"badge"`
	Contacted    bool `json:"contacted"` // followed up after a no-show

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Weekday returns the record's weekday name, or "" for an unparseable date.
func (t *Taster) Weekday() string {
	d, err := time.Parse("2006-01-02", t.TasterDate)
	if err != nil {
		return ""
	}
	return d.Weekday().String()
}
