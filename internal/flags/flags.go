// Package flags derives the three priority flags for a candidate. The
// computation is a pure function of the candidate row and "today": same
// inputs always produce the same flags, and nothing here is cached or
// persisted.
package flags

import (
	"time"

	"github.com/hiresync/validation-queue-api/internal/models"
	"github.com/hiresync/validation-queue-api/internal/normalize"
)

// DefaultAdmissionWindowDays is the lookahead window for the admission flag.
const DefaultAdmissionWindowDays = 5

// Compute returns the priority flags for a candidate as of today.
func Compute(c *models.Candidate, today time.Time, admissionWindowDays int) models.PriorityFlags {
	if admissionWindowDays <= 0 {
		admissionWindowDays = DefaultAdmissionWindowDays
	}

	status := normalize.Status(c.Status)

	var f models.PriorityFlags
	f.Status = status == models.StatusValidacao
	f.Progress = status == models.StatusEmProgresso && c.Progress >= 60
	f.Admission = admissionSoon(c.AdmissionDate, status, today, admissionWindowDays)
	return f
}

func admissionSoon(admission *time.Time, canonStatus string, today time.Time, windowDays int) bool {
	if admission == nil {
		return false
	}
	if _, terminal := models.TerminalStatuses[canonStatus]; terminal {
		return false
	}

	day := DateOnly(today)
	adm := DateOnly(*admission)
	last := day.AddDate(0, 0, windowDays)
	return !adm.Before(day) && !adm.After(last)
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
