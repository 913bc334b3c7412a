package parser

import (
	"errors"
	"testing"
)

// marchSheet builds a typical month grid: one block whose day/time context
// arrives as values in the column left of Name.
func marchSheet() [][]string {
	return [][]string{
		{"Tasters March 2025"},
		{"", "Name", "Date", "Attended", "Fees", "BG", "Badge", "Notes"},
		{"Monday"},
		{"16:00"},
		{"", "alice smith", "", "yes", "", "yes", "", "new starter"},
		{"", "ben jones", "3rd", "no", "", "", "", ""},
		{"17:30"},
		{"", "cara o'brien", "", "", "", "", "", ""},
	}
}

func TestExtractSheetCarriedContext(t *testing.T) {
	recs, err := ExtractSheet(marchSheet(), "March", 2025)
	if err != nil {
		t.Fatalf("ExtractSheet failed: %v", err)
	}
	if len(recs.Tasters) != 3 {
		t.Fatalf("expected 3 tasters, got %d", len(recs.Tasters))
	}

	// A row with no date cell resolves to day 1 of the sheet's month.
	alice := recs.Tasters[0]
	if alice.Child != "Alice Smith" {
		t.Errorf("child = %q, expected Alice Smith", alice.Child)
	}
	if alice.Date.Format("2006-01-02") != "2025-03-01" {
		t.Errorf("date = %s, expected 2025-03-01", alice.Date.Format("2006-01-02"))
	}
	if alice.Session != "16:00" {
		t.Errorf("session = %q, expected 16:00", alice.Session)
	}
	if alice.Day != "Monday" {
		t.Errorf("day = %q, expected Monday", alice.Day)
	}
	if !alice.Attended || !alice.Registration || alice.Fees || alice.Badge {
		t.Errorf("flags wrong: %+v", alice)
	}
	if alice.Notes != "new starter" {
		t.Errorf("notes = %q", alice.Notes)
	}

	// An explicit date cell wins over the carried state.
	ben := recs.Tasters[1]
	if ben.Date.Format("2006-01-02") != "2025-03-03" {
		t.Errorf("ben date = %s, expected 2025-03-03", ben.Date.Format("2006-01-02"))
	}
	if !ben.DateExplicit {
		t.Error("ben should have an explicit date")
	}
	if ben.Attended {
		t.Error("\"no\" should not read as attended")
	}

	// A later time value replaces the carried time but keeps the day.
	cara := recs.Tasters[2]
	if cara.Session != "17:30" {
		t.Errorf("cara session = %q, expected 17:30", cara.Session)
	}
	if cara.Day != "Monday" {
		t.Errorf("cara day = %q, expected Monday", cara.Day)
	}
}

func TestExtractSheetNewDayClearsTime(t *testing.T) {
	rows := [][]string{
		{"", "Name", "Date"},
		{"Monday"},
		{"16:00"},
		{"Tuesday"},
		{"", "dan hill"},
	}
	recs, err := ExtractSheet(rows, "March", 2025)
	if err != nil {
		t.Fatalf("ExtractSheet failed: %v", err)
	}
	if len(recs.Tasters) != 1 {
		t.Fatalf("expected 1 taster, got %d", len(recs.Tasters))
	}
	if recs.Tasters[0].Day != "Tuesday" {
		t.Errorf("day = %q, expected Tuesday", recs.Tasters[0].Day)
	}
	if recs.Tasters[0].Session != "" {
		t.Errorf("session = %q, expected empty after day change", recs.Tasters[0].Session)
	}
}

func TestExtractSheetHeaderNoiseGuard(t *testing.T) {
	// A name with no day or date context ever set in its block is noise.
	rows := [][]string{
		{"", "Name", "Date"},
		{"", "stray header echo"},
	}
	recs, err := ExtractSheet(rows, "March", 2025)
	if err != nil {
		t.Fatalf("ExtractSheet failed: %v", err)
	}
	if len(recs.Tasters) != 0 {
		t.Errorf("expected 0 tasters, got %d", len(recs.Tasters))
	}
}

func TestExtractSheetNoNameColumns(t *testing.T) {
	rows := [][]string{
		{"just", "some", "cells"},
	}
	_, err := ExtractSheet(rows, "March", 2025)
	if !errors.Is(err, ErrNoNameColumns) {
		t.Errorf("expected ErrNoNameColumns, got %v", err)
	}
}

func TestExtractSheetLeavers(t *testing.T) {
	rows := [][]string{
		{"", "Name", "Date", "Attended"},
		{"Monday"},
		{"", "alice smith", "1 Mar", "yes"},
		{"LEAVERS"},
		{"", "Name", "Date of leave", "Removed from LA"},
		{"Saturday 10:00"},
		{"", "ben jones", "12 Apr", "yes"},
	}
	recs, err := ExtractSheet(rows, "April", 2025)
	if err != nil {
		t.Fatalf("ExtractSheet failed: %v", err)
	}
	// The attendance region stops above the marker.
	if len(recs.Tasters) != 1 {
		t.Fatalf("expected 1 taster, got %d", len(recs.Tasters))
	}
	if len(recs.Leavers) != 1 {
		t.Fatalf("expected 1 leaver, got %d", len(recs.Leavers))
	}

	leaver := recs.Leavers[0]
	if leaver.Child != "Ben Jones" {
		t.Errorf("child = %q, expected Ben Jones", leaver.Child)
	}
	if !leaver.HasDate || leaver.LeaveDate.Format("2006-01-02") != "2025-04-12" {
		t.Errorf("leave date = %v (hasDate=%v), expected 2025-04-12", leaver.LeaveDate, leaver.HasDate)
	}
}

func TestExtractSheetLeaverDayTimeProbe(t *testing.T) {
	// Day and time sit in the column left of the name a few rows above.
	rows := [][]string{
		{"", "Name", "Date"},
		{"Monday"},
		{"", "alice smith", "1 Mar"},
		{"LEAVERS"},
		{"", "Name", "Leave date"},
		{"Wednesday"},
		{"17:00"},
		{"", "ben jones", ""},
	}
	recs, err := ExtractSheet(rows, "March", 2025)
	if err != nil {
		t.Fatalf("ExtractSheet failed: %v", err)
	}
	if len(recs.Leavers) != 1 {
		t.Fatalf("expected 1 leaver, got %d", len(recs.Leavers))
	}
	leaver := recs.Leavers[0]
	if leaver.Day != "Wednesday" {
		t.Errorf("probed day = %q, expected Wednesday", leaver.Day)
	}
	if leaver.Time != "17:00" {
		t.Errorf("probed time = %q, expected 17:00", leaver.Time)
	}
	if leaver.HasDate {
		t.Error("leave date should be unknown")
	}
}
