package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/penninegym/tasterist-go/pkg/tasterist/models"
)

// FixTimesAction is the audit sentinel for the one-shot session-time
// correction. A row with this action present means the pass already ran.
const FixTimesAction = "fix_session_times"

// sessionHour parses the hour out of an HH:MM session label, -1 when absent.
func sessionHour(session string) int {
	parts := strings.SplitN(session, ":", 2)
	if len(parts) != 2 {
		return -1
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	return h
}

// shiftSession adds 12 hours to a 1–11 o'clock session label.
func shiftSession(session string) string {
	parts := strings.SplitN(session, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	mm := parts[1]
	if len(mm) > 2 {
		mm = mm[:2]
	}
	return fmt.Sprintf("%02d:%s", h+12, mm)
}

// FixAfternoonTimes corrects a systematic import defect where afternoon class
// times were recorded on a 12-hour clock. For each non-preschool unit, when
// the bulk of stored session hours fall in 1–11 with few or none at 12+, all
// 1–11 sessions are shifted +12 hours. Gated by the audit sentinel so it runs
// at most once; rows whose shifted key would collide with an existing record
// are left alone.
func (s *Store) FixAfternoonTimes(actor string) (int, error) {
	done, err := s.HasAudit(FixTimesAction)
	if err != nil {
		return 0, err
	}
	if done {
		return 0, nil
	}

	var rows []models.Taster
	if err := s.db.
		Where("unit <> ? AND session <> ''", "preschool").
		Find(&rows).Error; err != nil {
		return 0, err
	}

	early := make(map[string][]models.Taster)
	late := make(map[string]int)
	for _, t := range rows {
		h := sessionHour(t.Session)
		switch {
		case h >= 1 && h <= 11:
			early[t.Unit] = append(early[t.Unit], t)
		case h >= 12:
			late[t.Unit]++
		}
	}

	fixed := 0
	for unit, affected := range early {
		// Only treat the unit as defective when morning hours dominate.
		if len(affected) == 0 || late[unit]*3 >= len(affected) {
			continue
		}
		for _, t := range affected {
			shifted := shiftSession(t.Session)
			err := s.db.Model(&models.Taster{}).
				Where("id = ?", t.ID).
				Update("session", shifted).Error
			if err != nil {
				// Unique-key collision: a correct twin row already exists.
				continue
			}
			fixed++
		}
	}

	details := fmt.Sprintf("shifted %d session times by +12h", fixed)
	if err := s.LogAudit(actor, FixTimesAction, "taster", "", "ok", details); err != nil {
		return fixed, err
	}
	return fixed, nil
}
