package domain

import "time"

// Resident statuses
const (
	ResidentStatusActive     = "Active"
	ResidentStatusDischarged = "Discharged"
)

// Resident care recipient (residents table)
type Resident struct {
	ResidentID string `db:"resident_id"` // UUID, PRIMARY KEY
	SectionID  string `db:"section_id"`  // UUID, NOT NULL, FK facility_sections
	Name       string `db:"name"`        // VARCHAR(255), NOT NULL
	Status     string `db:"status"`      // VARCHAR(100), NOT NULL

	// Aggregated care minutes per weekday and shift slot. Keys follow the
	// ABST sheet encoding: "ResidentTotal<Day><ShiftN>Time", e.g.
	// "ResidentTotalMonShift1Time" (minutes of Shift1 care on Mondays).
	// Day prefixes: Mon Tues Wed Thurs Fri Sat Sun.
	// Shift1=day, Shift2=swing/eve, Shift3=noc.
	TotalShiftTimes map[string]float64 `db:"total_shift_times"` // JSONB

	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	IsDeleted bool       `db:"is_deleted"` // soft delete flag
	DeletedAt *time.Time `db:"deleted_at"`
}

// ResidentCSVHeader export column order, matching the original ABST sheets.
var ResidentCSVHeader = []string{"Name", "Status", "Facility Section", "Facility ID", "Facility Name"}

// ResidentImportColumns required columns for CSV import.
var ResidentImportColumns = []string{"ResidentName", "ResidentStatus", "FacilitySectionName", "FacilityID", "FacilityName"}
