package service

import (
	"context"
	"fmt"
	"time"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"go.uber.org/zap"
)

// StaffService staff management and per-date availability.
type StaffService interface {
	ListStaff(ctx context.Context, filters repository.StaffFilters) ([]*domain.Staff, error)
	GetStaff(ctx context.Context, staffID string) (*domain.Staff, error)
	CreateStaff(ctx context.Context, req StaffRequest) (*domain.Staff, error)
	UpdateStaff(ctx context.Context, staffID string, req StaffRequest) (*domain.Staff, error)
	DeleteStaff(ctx context.Context, staffID string) error

	SetAvailability(ctx context.Context, req AvailabilityRequest) (*domain.StaffAvailability, error)
	SetAvailabilityBulk(ctx context.Context, reqs []AvailabilityRequest) (*BulkAvailabilityResult, error)
	ListAvailability(ctx context.Context, staffID string, start, end *time.Time) ([]*domain.StaffAvailability, error)
	WeeklyAvailabilitySummary(ctx context.Context, facilityID string, weekOf time.Time) (*WeeklyAvailabilitySummary, error)
}

type staffService struct {
	staffRepo repository.StaffRepository
	logger    *zap.Logger
}

func NewStaffService(staffRepo repository.StaffRepository, logger *zap.Logger) StaffService {
	return &staffService{staffRepo: staffRepo, logger: logger}
}

// ============================================
// Request/Response DTOs
// ============================================

type StaffRequest struct {
	EmployeeID      string   `json:"employee_id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Role            string   `json:"role"`
	Status          string   `json:"status"`
	HireDate        string   `json:"hire_date"` // YYYY-MM-DD
	FacilityID      string   `json:"facility"`
	Certifications  []string `json:"certifications"`
	Skills          []string `json:"skills"`
	MaxHoursPerWeek int      `json:"max_hours_per_week"`
	PreferredShifts []string `json:"preferred_shifts"`
	Notes           string   `json:"notes"`
}

type AvailabilityRequest struct {
	StaffID            string   `json:"staff"`
	Date               string   `json:"date"` // YYYY-MM-DD
	AvailabilityStatus string   `json:"availability_status"`
	PreferredStartTime *string  `json:"preferred_start_time,omitempty"`
	PreferredEndTime   *string  `json:"preferred_end_time,omitempty"`
	MaxHours           *int     `json:"max_hours,omitempty"`
	PreferredShifts    []string `json:"preferred_shifts"`
	Notes              string   `json:"notes"`
}

// BulkAvailabilityResult outcome of a bulk availability submission.
type BulkAvailabilityResult struct {
	Saved  int      `json:"saved"`
	Errors []string `json:"errors,omitempty"`
}

// WeeklyAvailabilitySummary per-day availability counts for one facility week.
type WeeklyAvailabilitySummary struct {
	WeekStart string                      `json:"week_start"`
	Days      []*DayAvailabilitySummary   `json:"days"`
	ByStaff   map[string]int              `json:"available_days_by_staff"`
	Rows      []*domain.StaffAvailability `json:"entries"`
}

// DayAvailabilitySummary availability head-count for one date.
type DayAvailabilitySummary struct {
	Date        string `json:"date"`
	DayName     string `json:"day_name"`
	Available   int    `json:"available"`
	Unavailable int    `json:"unavailable"`
}

// ============================================
// Staff CRUD
// ============================================

func (s *staffService) ListStaff(ctx context.Context, filters repository.StaffFilters) ([]*domain.Staff, error) {
	return s.staffRepo.ListStaff(ctx, filters)
}

func (s *staffService) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	return s.staffRepo.GetStaff(ctx, staffID)
}

func (s *staffService) CreateStaff(ctx context.Context, req StaffRequest) (*domain.Staff, error) {
	staff, err := staffFromRequest(req)
	if err != nil {
		return nil, err
	}
	if staff.Status == "" {
		staff.Status = domain.StaffStatusActive
	}

	id, err := s.staffRepo.CreateStaff(ctx, staff)
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff created", zap.String("staff_id", id), zap.String("employee_id", req.EmployeeID))
	return s.staffRepo.GetStaff(ctx, id)
}

func (s *staffService) UpdateStaff(ctx context.Context, staffID string, req StaffRequest) (*domain.Staff, error) {
	current, err := s.staffRepo.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	staff, err := staffFromRequest(req)
	if err != nil {
		return nil, err
	}
	if staff.EmployeeID == "" {
		staff.EmployeeID = current.EmployeeID
	}
	if staff.FirstName == "" {
		staff.FirstName = current.FirstName
	}
	if staff.LastName == "" {
		staff.LastName = current.LastName
	}
	if staff.Role == "" {
		staff.Role = current.Role
	}
	if staff.Status == "" {
		staff.Status = current.Status
	}
	if req.HireDate == "" {
		staff.HireDate = current.HireDate
	}
	if staff.FacilityID == "" {
		staff.FacilityID = current.FacilityID
	}
	if staff.Certifications == nil {
		staff.Certifications = current.Certifications
	}
	if staff.Skills == nil {
		staff.Skills = current.Skills
	}
	if staff.MaxHoursPerWeek == 0 {
		staff.MaxHoursPerWeek = current.MaxHoursPerWeek
	}
	if staff.PreferredShifts == nil {
		staff.PreferredShifts = current.PreferredShifts
	}

	if err := s.staffRepo.UpdateStaff(ctx, staffID, staff); err != nil {
		return nil, err
	}
	return s.staffRepo.GetStaff(ctx, staffID)
}

func (s *staffService) DeleteStaff(ctx context.Context, staffID string) error {
	if err := s.staffRepo.DeleteStaff(ctx, staffID); err != nil {
		return err
	}
	s.logger.Info("staff deleted", zap.String("staff_id", staffID))
	return nil
}

func staffFromRequest(req StaffRequest) (*domain.Staff, error) {
	staff := &domain.Staff{
		EmployeeID:      req.EmployeeID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            req.Role,
		Status:          req.Status,
		FacilityID:      req.FacilityID,
		Certifications:  req.Certifications,
		Skills:          req.Skills,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
		PreferredShifts: req.PreferredShifts,
		Notes:           req.Notes,
	}
	if req.HireDate != "" {
		t, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, fmt.Errorf("invalid hire_date: %w", err)
		}
		staff.HireDate = t
	}
	return staff, nil
}

// ============================================
// Availability
// ============================================

func (s *staffService) SetAvailability(ctx context.Context, req AvailabilityRequest) (*domain.StaffAvailability, error) {
	availability, err := availabilityFromRequest(req)
	if err != nil {
		return nil, err
	}

	id, err := s.staffRepo.UpsertAvailability(ctx, availability)
	if err != nil {
		return nil, err
	}
	availability.AvailabilityID = id
	return availability, nil
}

// SetAvailabilityBulk saves a batch of rows; row failures are collected
// rather than aborting the batch.
func (s *staffService) SetAvailabilityBulk(ctx context.Context, reqs []AvailabilityRequest) (*BulkAvailabilityResult, error) {
	result := &BulkAvailabilityResult{}
	for i, req := range reqs {
		if _, err := s.SetAvailability(ctx, req); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		result.Saved++
	}
	return result, nil
}

func (s *staffService) ListAvailability(ctx context.Context, staffID string, start, end *time.Time) ([]*domain.StaffAvailability, error) {
	return s.staffRepo.ListAvailability(ctx, staffID, start, end)
}

func (s *staffService) WeeklyAvailabilitySummary(ctx context.Context, facilityID string, weekOf time.Time) (*WeeklyAvailabilitySummary, error) {
	weekday := int(weekOf.Weekday())
	offset := (weekday + 6) % 7
	weekStart := weekOf.AddDate(0, 0, -offset)
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)

	rows, err := s.staffRepo.ListAvailabilityForWeek(ctx, facilityID, weekStart)
	if err != nil {
		return nil, err
	}

	summary := &WeeklyAvailabilitySummary{
		WeekStart: weekStart.Format("2006-01-02"),
		ByStaff:   map[string]int{},
		Rows:      rows,
	}
	byDate := map[string]*DayAvailabilitySummary{}
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		day := &DayAvailabilitySummary{
			Date:    d.Format("2006-01-02"),
			DayName: d.Weekday().String(),
		}
		summary.Days = append(summary.Days, day)
		byDate[day.Date] = day
	}

	for _, row := range rows {
		day, ok := byDate[row.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		if row.IsAvailable {
			day.Available++
			summary.ByStaff[row.StaffID]++
		} else {
			day.Unavailable++
		}
	}
	return summary, nil
}

func availabilityFromRequest(req AvailabilityRequest) (*domain.StaffAvailability, error) {
	if req.StaffID == "" || req.Date == "" {
		return nil, fmt.Errorf("staff and date are required")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	status := req.AvailabilityStatus
	if status == "" {
		status = "available"
	}
	return &domain.StaffAvailability{
		StaffID:            req.StaffID,
		Date:               date,
		AvailabilityStatus: status,
		IsAvailable:        domain.AvailableStatuses()[status],
		PreferredStartTime: req.PreferredStartTime,
		PreferredEndTime:   req.PreferredEndTime,
		MaxHours:           req.MaxHours,
		PreferredShifts:    req.PreferredShifts,
		Notes:              req.Notes,
	}, nil
}
