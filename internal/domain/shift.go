package domain

import "time"

// Shift types (slots in a 24h day)
const (
	ShiftTypeDay   = "day"  // Shift1, 06:00-14:00
	ShiftTypeSwing = "swing" // Shift2, 14:00-22:00
	ShiftTypeNoc   = "noc"  // Shift3, 22:00-06:00
)

// ShiftTypes in canonical order.
var ShiftTypes = []string{ShiftTypeDay, ShiftTypeSwing, ShiftTypeNoc}

// Shift statuses
const (
	ShiftStatusScheduled  = "scheduled"
	ShiftStatusInProgress = "in_progress"
	ShiftStatusCompleted  = "completed"
	ShiftStatusCancelled  = "cancelled"
	ShiftStatusNoShow     = "no_show"
)

// ShiftTemplate reusable shift definition (shift_templates table)
type ShiftTemplate struct {
	TemplateID         string   `db:"template_id"` // UUID, PRIMARY KEY
	Name               string   `db:"name"`        // VARCHAR(100), NOT NULL
	ShiftType          string   `db:"shift_type"`  // day/swing/noc
	StartTime          string   `db:"start_time"`  // "HH:MM"
	EndTime            string   `db:"end_time"`    // "HH:MM"
	DurationHours      float64  `db:"duration_hours"`
	FacilityID         string   `db:"facility_id"` // UUID, NOT NULL, FK facilities
	RequiredStaffCount int      `db:"required_staff_count"` // DEFAULT 1
	RequiredRoles      []string `db:"required_roles"`       // JSONB list
	IsActive           bool     `db:"is_active"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Shift scheduled shift instance (shifts table)
// UNIQUE(date, template_id, facility_id)
type Shift struct {
	ShiftID         string    `db:"shift_id"`    // UUID, PRIMARY KEY
	Date            time.Time `db:"date"`        // DATE, NOT NULL
	TemplateID      string    `db:"template_id"` // UUID, NOT NULL, FK shift_templates
	FacilityID      string    `db:"facility_id"` // UUID, NOT NULL, FK facilities
	SectionID       *string   `db:"section_id"`  // UUID, nullable, FK facility_sections
	Status          string    `db:"status"`      // DEFAULT 'scheduled'
	ActualStartTime *string   `db:"actual_start_time"` // "HH:MM", nullable
	ActualEndTime   *string   `db:"actual_end_time"`   // "HH:MM", nullable
	Notes           string    `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Derived join fields (not columns)
	TemplateName       string `db:"-"`
	ShiftType          string `db:"-"`
	RequiredStaffCount int    `db:"-"`
	AssignedCount      int    `db:"-"`
}

// IsUnderstaffed true when fewer staff are assigned than the template requires.
func (s *Shift) IsUnderstaffed() bool {
	return s.AssignedCount < s.RequiredStaffCount
}

// IsOverstaffed true when more staff are assigned than the template requires.
func (s *Shift) IsOverstaffed() bool {
	return s.AssignedCount > s.RequiredStaffCount
}

// StaffAssignment staff-to-shift binding (staff_assignments table)
// UNIQUE(staff_id, shift_id)
type StaffAssignment struct {
	AssignmentID      string     `db:"assignment_id"` // UUID, PRIMARY KEY
	StaffID           string     `db:"staff_id"`      // UUID, NOT NULL, FK staff
	ShiftID           string     `db:"shift_id"`      // UUID, NOT NULL, FK shifts
	AssignedRole      string     `db:"assigned_role"` // staff role for this shift
	ClockInTime       *time.Time `db:"clock_in_time"`
	ClockOutTime      *time.Time `db:"clock_out_time"`
	ActualHoursWorked *float64   `db:"actual_hours_worked"`
	Notes             string     `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Derived join fields
	StaffName string `db:"-"`
	ShiftDate string `db:"-"`
}

// AcuityBasedStaffing links ADL-derived acuity data to a shift's staffing
// recommendation (acuity_based_staffing table).
type AcuityBasedStaffing struct {
	AcuityID              string         `db:"acuity_id"` // UUID, PRIMARY KEY
	ShiftID               string         `db:"shift_id"`  // UUID, NOT NULL, FK shifts
	TotalCareHoursNeeded  float64        `db:"total_care_hours_needed"`
	HighAcuityResidents   int            `db:"high_acuity_residents"`
	MediumAcuityResidents int            `db:"medium_acuity_residents"`
	LowAcuityResidents    int            `db:"low_acuity_residents"`
	RecommendedStaffCount int            `db:"recommended_staff_count"`
	RecommendedSkillMix   map[string]int `db:"recommended_skill_mix"` // JSONB role -> count

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
