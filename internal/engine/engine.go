// Package engine derives staffing recommendations from recorded care data.
// All functions are pure: callers load a Snapshot from the repositories and
// the engine never touches the database.
package engine

import (
	"math"
	"time"

	"abst-data/internal/domain"
)

// Snapshot facility data the heuristics operate on.
type Snapshot struct {
	FacilityID  string
	Residents   []*domain.Resident
	ADLs        []*domain.ADL
	Staff       []*domain.Staff
	Templates   []*domain.ShiftTemplate
	Shifts      []*domain.Shift
	Assignments []*domain.StaffAssignment

	// Most recent availability row per staff member, keyed by staff id.
	Availability map[string]*domain.StaffAvailability
}

// standardShiftTimes canonical slot boundaries; every slot is 8 hours.
var standardShiftTimes = map[string]struct {
	Start    string
	End      string
	Duration float64
}{
	domain.ShiftTypeDay:   {"06:00", "14:00", 8},
	domain.ShiftTypeSwing: {"14:00", "22:00", 8},
	domain.ShiftTypeNoc:   {"22:00", "06:00", 8},
}

// WeekDates returns the Monday-Sunday dates of the week containing target.
func WeekDates(target time.Time) []time.Time {
	weekday := int(target.Weekday())
	// time.Weekday has Sunday=0; the schedule week starts on Monday.
	offset := (weekday + 6) % 7
	monday := target.AddDate(0, 0, -offset)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())

	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
