package repository

import (
	"context"
	"time"

	"abst-data/internal/domain"
)

// ADLsRepository ADL + question catalog data access.
type ADLsRepository interface {
	ListADLs(ctx context.Context, filters ADLFilters) ([]*domain.ADL, error)
	GetADL(ctx context.Context, adlID string) (*domain.ADL, error)
	CreateADL(ctx context.Context, adl *domain.ADL) (string, error)
	UpdateADL(ctx context.Context, adlID string, adl *domain.ADL) error

	SoftDeleteADL(ctx context.Context, adlID string) error
	RestoreADL(ctx context.Context, adlID string) error

	// Summary aggregates total minutes/hours, avg minutes per task and count.
	Summary(ctx context.Context, filters ADLFilters) (*domain.ADLSummary, error)

	ListQuestions(ctx context.Context) ([]*domain.ADLQuestion, error)
	SeedQuestions(ctx context.Context, texts []string) (int, error)
}

// ADLFilters list query filters
type ADLFilters struct {
	ResidentID  string
	FacilityID  string // ADLs of residents whose section belongs to this facility
	StartDate   *time.Time
	EndDate     *time.Time
	DeletedOnly bool // list soft-deleted rows instead of live ones
}
