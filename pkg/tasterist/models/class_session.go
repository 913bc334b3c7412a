package models

import "time"

// ClassSession is one schedule-template entry: a recurring weekly slot when
// SessionDate is empty, or a date-specific session otherwise. It is the
// read-only lookup target for class-label backfill during import.
type ClassSession struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Unit        string `json:"unit" gorm:"size:20;not null;uniqueIndex:uniq_class_session"`
	Location    string `json:"location" gorm:"size:40;not null"`
	SessionDate string `json:"session_date" gorm:"size:10;not null;default:'';uniqueIndex:uniq_class_session"`
	Day         string `json:"day" gorm:"size:12;not null;uniqueIndex:uniq_class_session"`
	ClassName   string `json:"class_name" gorm:"size:120;not null;uniqueIndex:uniq_class_session"`
	StartTime   string `json:"start_time" gorm:"size:5;not null;uniqueIndex:uniq_class_session"`
	EndTime     string `json:"end_time" gorm:"size:5;not null;default:'';uniqueIndex:uniq_class_session"`
	SourceFile  string `json:"source_file" gorm:"size:255;default:''"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
