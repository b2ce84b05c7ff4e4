package repository

import (
	"context"

	"abst-data/internal/domain"
)

// ResidentsRepository resident data access.
type ResidentsRepository interface {
	ListResidents(ctx context.Context, filters ResidentFilters) ([]*domain.Resident, error)
	GetResident(ctx context.Context, residentID string) (*domain.Resident, error)
	CreateResident(ctx context.Context, resident *domain.Resident) (string, error)
	UpdateResident(ctx context.Context, residentID string, resident *domain.Resident) error

	// Soft delete / restore (rows are never physically removed by the API).
	SoftDeleteResident(ctx context.Context, residentID string) error
	RestoreResident(ctx context.Context, residentID string) error

	// UpsertResidentByName used by CSV import: match on (name, section_id),
	// update status when found, insert otherwise. Returns created=true on insert.
	UpsertResidentByName(ctx context.Context, sectionID, name, status string) (created bool, err error)

	// UpdateTotalShiftTimes replaces the aggregated care-minute map.
	UpdateTotalShiftTimes(ctx context.Context, residentID string, times map[string]float64) error
}

// ResidentFilters list query filters
type ResidentFilters struct {
	FacilityID     string // residents whose section belongs to this facility
	SectionID      string
	Status         string
	Search         string // case-insensitive name match
	IncludeDeleted bool
}
