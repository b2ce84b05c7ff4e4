package repository

import (
	"context"
	"time"

	"abst-data/internal/domain"
)

// StaffRepository staff + availability data access.
type StaffRepository interface {
	ListStaff(ctx context.Context, filters StaffFilters) ([]*domain.Staff, error)
	GetStaff(ctx context.Context, staffID string) (*domain.Staff, error)
	CreateStaff(ctx context.Context, staff *domain.Staff) (string, error)
	UpdateStaff(ctx context.Context, staffID string, staff *domain.Staff) error
	DeleteStaff(ctx context.Context, staffID string) error

	UpsertAvailability(ctx context.Context, availability *domain.StaffAvailability) (string, error)
	ListAvailability(ctx context.Context, staffID string, start, end *time.Time) ([]*domain.StaffAvailability, error)

	// ListAvailabilityForWeek returns all staff availability rows in a
	// facility for [weekStart, weekStart+7d).
	ListAvailabilityForWeek(ctx context.Context, facilityID string, weekStart time.Time) ([]*domain.StaffAvailability, error)
}

// StaffFilters list query filters
type StaffFilters struct {
	FacilityID string
	Role       string
	Status     string
	Search     string // case-insensitive first/last name match
}
