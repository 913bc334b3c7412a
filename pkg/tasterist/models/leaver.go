package models

import "time"

// Leaver provenance values.
const (
	SourceImport = "import"
	SourceManual = "manual"
)

// Leaver records that a child left a unit in a given month. LeaveDate may be
// empty when only the month is known; LeaveMonth is always populated and is
// part of the natural key.
type Leaver struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Child      string `json:"child" gorm:"size:120;not null;uniqueIndex:uniq_leaver"`
	Unit       string `json:"unit" gorm:"size:20;not null;uniqueIndex:uniq_leaver"`
	LeaveMonth string `json:"leave_month" gorm:"size:7;not null;uniqueIndex:uniq_leaver"` // YYYY-MM
	LeaveDate  string `json:"leave_date" gorm:"size:10;default:''"`                       // YYYY-MM-DD or ""
	ClassDay   string `json:"class_day" gorm:"size:12;default:''"`
	Session    string `json:"session" gorm:"size:40;default:''"`
	ClassName  string `json:"class_name" gorm:"size:120;default:''"`

	RemovedLA    bool `json:"removed_la"` // removed from the local register
	RemovedBG    bool `json:"removed_bg"` // removed from the governing-body association
	AddedToBoard bool `json:"added_to_board"`

	Reason string `json:"reason" gorm:"size:255;default:''"`
	Email  string `json:"email" gorm:"size:120;default:''"`
	Source string `json:"source" gorm:"size:20;default:'import'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
