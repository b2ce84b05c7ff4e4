package repository

import (
	"context"
	"time"

	"abst-data/internal/domain"
)

// ShiftsRepository templates, shifts, assignments and acuity staffing.
type ShiftsRepository interface {
	ListTemplates(ctx context.Context, facilityID string, activeOnly bool) ([]*domain.ShiftTemplate, error)
	GetTemplate(ctx context.Context, templateID string) (*domain.ShiftTemplate, error)
	CreateTemplate(ctx context.Context, template *domain.ShiftTemplate) (string, error)
	UpdateTemplate(ctx context.Context, templateID string, template *domain.ShiftTemplate) error
	DeleteTemplate(ctx context.Context, templateID string) error

	ListShifts(ctx context.Context, filters ShiftFilters) ([]*domain.Shift, error)
	GetShift(ctx context.Context, shiftID string) (*domain.Shift, error)
	CreateShift(ctx context.Context, shift *domain.Shift) (string, error)
	UpdateShift(ctx context.Context, shiftID string, shift *domain.Shift) error
	DeleteShift(ctx context.Context, shiftID string) error

	// FindShiftByDateTemplate reports whether a shift already exists for the
	// (date, template, facility) triple. Used to skip duplicates on apply.
	FindShiftByDateTemplate(ctx context.Context, facilityID, templateID string, date time.Time) (string, error)

	ListAssignments(ctx context.Context, filters AssignmentFilters) ([]*domain.StaffAssignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error)
	CreateAssignment(ctx context.Context, assignment *domain.StaffAssignment) (string, error)
	UpdateAssignment(ctx context.Context, assignmentID string, assignment *domain.StaffAssignment) error
	DeleteAssignment(ctx context.Context, assignmentID string) error
	ClockIn(ctx context.Context, assignmentID string, at time.Time) error
	ClockOut(ctx context.Context, assignmentID string, at time.Time, hoursWorked float64) error

	ListAcuityStaffing(ctx context.Context, facilityID string) ([]*domain.AcuityBasedStaffing, error)
	CreateAcuityStaffing(ctx context.Context, acuity *domain.AcuityBasedStaffing) (string, error)
}

// ShiftFilters list query filters
type ShiftFilters struct {
	FacilityID string
	SectionID  string
	TemplateID string
	ShiftType  string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// AssignmentFilters list query filters
type AssignmentFilters struct {
	StaffID   string
	ShiftID   string
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
}
