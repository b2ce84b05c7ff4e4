package service

import (
	"abst-data/internal/domain"
)

// CaregivingSummary weekly care-hour grid built from ADL per-day shift maps.
type CaregivingSummary struct {
	PerShift []*ShiftHours `json:"per_shift"`
	PerDay   []*DayHours   `json:"per_day"`
}

// ShiftHours care hours for one weekday split across the three slots.
// Field names mirror the original sheet columns.
type ShiftHours struct {
	Day    string  `json:"day"`
	Shift1 float64 `json:"Day"`
	Shift2 float64 `json:"Eve"`
	Shift3 float64 `json:"NOC"`
}

// DayHours combined care hours for one weekday.
type DayHours struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// buildCaregivingSummary sums ADL per_day_shift_times minutes into hours per
// weekday and slot, rounded to 2 decimals. Used for per-resident summaries.
func buildCaregivingSummary(adls []*domain.ADL) *CaregivingSummary {
	perShift := emptyWeekGrid()
	for _, adl := range adls {
		for i, prefix := range domain.DayPrefixes {
			perShift[i].Shift1 += adl.PerDayShiftTimes[domain.PerDayShiftKey(prefix, "Shift1")] / 60.0
			perShift[i].Shift2 += adl.PerDayShiftTimes[domain.PerDayShiftKey(prefix, "Shift2")] / 60.0
			perShift[i].Shift3 += adl.PerDayShiftTimes[domain.PerDayShiftKey(prefix, "Shift3")] / 60.0
		}
	}
	return finishCaregivingSummary(perShift)
}

// buildCaregivingSummaryFromResidents sums resident total_shift_times
// minutes into hours per weekday and slot. The facility-wide charts read
// the resident totals, not the per-ADL maps, so a resident with populated
// totals still shows up when their ADL shift maps are empty.
func buildCaregivingSummaryFromResidents(residents []*domain.Resident) *CaregivingSummary {
	perShift := emptyWeekGrid()
	for _, resident := range residents {
		for i, prefix := range domain.DayPrefixes {
			perShift[i].Shift1 += resident.TotalShiftTimes[domain.TotalShiftKey(prefix, "Shift1")] / 60.0
			perShift[i].Shift2 += resident.TotalShiftTimes[domain.TotalShiftKey(prefix, "Shift2")] / 60.0
			perShift[i].Shift3 += resident.TotalShiftTimes[domain.TotalShiftKey(prefix, "Shift3")] / 60.0
		}
	}
	return finishCaregivingSummary(perShift)
}

func emptyWeekGrid() []*ShiftHours {
	perShift := make([]*ShiftHours, len(domain.DayNames))
	for i, day := range domain.DayNames {
		perShift[i] = &ShiftHours{Day: day}
	}
	return perShift
}

func finishCaregivingSummary(perShift []*ShiftHours) *CaregivingSummary {
	perDay := make([]*DayHours, len(perShift))
	for i, s := range perShift {
		s.Shift1 = round2(s.Shift1)
		s.Shift2 = round2(s.Shift2)
		s.Shift3 = round2(s.Shift3)
		perDay[i] = &DayHours{Day: s.Day, Hours: round2(s.Shift1 + s.Shift2 + s.Shift3)}
	}
	return &CaregivingSummary{PerShift: perShift, PerDay: perDay}
}
