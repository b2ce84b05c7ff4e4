package domain

import "time"

// Staff roles
const (
	StaffRoleRN         = "rn"
	StaffRoleLPN        = "lpn"
	StaffRoleCNA        = "cna"
	StaffRoleMedTech    = "med_tech"
	StaffRoleAide       = "aide"
	StaffRoleSupervisor = "supervisor"
	StaffRoleAdmin      = "admin"
)

// Staff statuses
const (
	StaffStatusActive     = "active"
	StaffStatusInactive   = "inactive"
	StaffStatusOnLeave    = "on_leave"
	StaffStatusTerminated = "terminated"
)

// Staff employee available for scheduling (staff table)
type Staff struct {
	StaffID    string    `db:"staff_id"`    // UUID, PRIMARY KEY
	EmployeeID string    `db:"employee_id"` // VARCHAR(20), NOT NULL, UNIQUE
	FirstName  string    `db:"first_name"`  // VARCHAR(100), NOT NULL
	LastName   string    `db:"last_name"`   // VARCHAR(100), NOT NULL
	Role       string    `db:"role"`        // VARCHAR(20), NOT NULL
	Status     string    `db:"status"`      // VARCHAR(20), NOT NULL, DEFAULT 'active'
	HireDate   time.Time `db:"hire_date"`   // DATE, NOT NULL
	FacilityID string    `db:"facility_id"` // UUID, nullable, FK facilities

	Certifications  []string `db:"certifications"`    // JSONB list
	Skills          []string `db:"skills"`            // JSONB list
	MaxHoursPerWeek int      `db:"max_hours_per_week"` // DEFAULT 40
	PreferredShifts []string `db:"preferred_shifts"`  // JSONB list of shift types
	Notes           string   `db:"notes"`             // TEXT

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FullName display name.
func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StaffAvailability per-date availability and preferences (staff_availability table)
type StaffAvailability struct {
	AvailabilityID     string    `db:"availability_id"` // UUID, PRIMARY KEY
	StaffID            string    `db:"staff_id"`        // UUID, NOT NULL, UNIQUE(staff_id, date)
	Date               time.Time `db:"date"`            // DATE, NOT NULL
	AvailabilityStatus string    `db:"availability_status"` // available/unavailable/preferred/limited/overtime_ok/no_overtime
	IsAvailable        bool      `db:"is_available"`
	PreferredStartTime *string   `db:"preferred_start_time"` // "HH:MM", nullable
	PreferredEndTime   *string   `db:"preferred_end_time"`   // "HH:MM", nullable
	MaxHours           *int      `db:"max_hours"`
	PreferredShifts    []string  `db:"preferred_shifts"` // JSONB
	Notes              string    `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AvailableStatuses statuses that imply the staff member can be scheduled.
func AvailableStatuses() map[string]bool {
	return map[string]bool{"available": true, "preferred": true, "overtime_ok": true}
}
