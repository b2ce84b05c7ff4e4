package repository

import (
	"context"

	"abst-data/internal/domain"
)

// FacilitiesRepository facility + section data access.
// Strongly typed against domain models; no map[string]any payloads.
type FacilitiesRepository interface {
	ListFacilities(ctx context.Context) ([]*domain.Facility, error)
	GetFacility(ctx context.Context, facilityID string) (*domain.Facility, error)
	GetFacilityByCode(ctx context.Context, facilityCode string) (*domain.Facility, error)
	CreateFacility(ctx context.Context, facility *domain.Facility) (string, error)
	UpdateFacility(ctx context.Context, facilityID string, facility *domain.Facility) error
	DeleteFacility(ctx context.Context, facilityID string) error

	// GetOrCreateFacilityByCode used by CSV import (get-or-create semantics).
	GetOrCreateFacilityByCode(ctx context.Context, facilityCode, name string) (*domain.Facility, error)

	ListSections(ctx context.Context, facilityID string) ([]*domain.FacilitySection, error)
	GetSection(ctx context.Context, sectionID string) (*domain.FacilitySection, error)
	CreateSection(ctx context.Context, section *domain.FacilitySection) (string, error)
	UpdateSection(ctx context.Context, sectionID string, section *domain.FacilitySection) error
	DeleteSection(ctx context.Context, sectionID string) error

	// GetOrCreateSection used by CSV import.
	GetOrCreateSection(ctx context.Context, facilityID, name string) (*domain.FacilitySection, error)
}
