package domain

import "time"

// Facility care facility (facilities table)
type Facility struct {
	FacilityID   string `db:"facility_id"`   // UUID, PRIMARY KEY
	FacilityCode string `db:"facility_code"` // VARCHAR(100), NOT NULL, UNIQUE (external business key)
	Name         string `db:"name"`          // VARCHAR(255), NOT NULL
	FacilityType string `db:"facility_type"` // VARCHAR(100), nullable
	AdminName    string `db:"admin_name"`    // VARCHAR(255), nullable
	Phone        string `db:"phone"`         // VARCHAR(50), nullable
	Email        string `db:"email"`         // VARCHAR(255), nullable
	Address      string `db:"address"`       // VARCHAR(255), nullable
	City         string `db:"city"`          // VARCHAR(100), nullable
	State        string `db:"state"`         // VARCHAR(50), nullable
	ZipCode      string `db:"zip_code"`      // VARCHAR(20), nullable

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FacilitySection wing/unit inside a facility (facility_sections table)
type FacilitySection struct {
	SectionID  string `db:"section_id"`  // UUID, PRIMARY KEY
	FacilityID string `db:"facility_id"` // UUID, NOT NULL, FK facilities
	Name       string `db:"name"`        // VARCHAR(255), NOT NULL

	// Derived: count of non-deleted residents bound to the section.
	Occupancy int `db:"-"`
}
