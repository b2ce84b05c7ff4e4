package domain

import "strings"

// The ABST sheets encode per-day care minutes in JSON keys like
// "MonShift1Time" (ADL per_day_shift_times) and "ResidentTotalMonShift1Time"
// (resident total_shift_times). These helpers parse that encoding.

// DayPrefixes sheet day abbreviations in week order (Monday first).
var DayPrefixes = []string{"Mon", "Tues", "Wed", "Thurs", "Fri", "Sat", "Sun"}

// DayNames full weekday names in week order.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// shiftSlots sheet shift markers mapped to shift types.
var shiftSlots = map[string]string{
	"Shift1": ShiftTypeDay,
	"Shift2": ShiftTypeSwing,
	"Shift3": ShiftTypeNoc,
}

// ShiftSlotNames sheet shift markers in slot order.
var ShiftSlotNames = []string{"Shift1", "Shift2", "Shift3"}

// ParseShiftKey extracts the full day name and shift type from a sheet key.
// Returns ok=false when either part cannot be recognized.
func ParseShiftKey(key string) (day string, shiftType string, ok bool) {
	for i, prefix := range DayPrefixes {
		if strings.Contains(key, prefix) {
			// "Tues" and "Thurs" contain no other prefix, but "Sun"/"Sat"
			// etc. are unambiguous too; first match in week order wins.
			day = DayNames[i]
			break
		}
	}
	for slot, st := range shiftSlots {
		if strings.Contains(key, slot) {
			shiftType = st
			break
		}
	}
	return day, shiftType, day != "" && shiftType != ""
}

// ShiftTypeFromKey extracts only the shift type from a sheet key.
func ShiftTypeFromKey(key string) (string, bool) {
	for slot, st := range shiftSlots {
		if strings.Contains(key, slot) {
			return st, true
		}
	}
	return "", false
}

// TotalShiftKey builds a resident total_shift_times key, e.g.
// TotalShiftKey("Mon", "Shift1") -> "ResidentTotalMonShift1Time".
func TotalShiftKey(dayPrefix, slot string) string {
	return "ResidentTotal" + dayPrefix + slot + "Time"
}

// PerDayShiftKey builds an ADL per_day_shift_times key, e.g.
// PerDayShiftKey("Mon", "Shift1") -> "MonShift1Time".
func PerDayShiftKey(dayPrefix, slot string) string {
	return dayPrefix + slot + "Time"
}
