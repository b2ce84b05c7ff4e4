package service

import (
	"context"
	"fmt"
	"time"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"go.uber.org/zap"
)

// UnderstaffedNotifier receives alerts for shifts short of required staff.
type UnderstaffedNotifier interface {
	NotifyUnderstaffed(ctx context.Context, shifts []*domain.Shift) error
}

// ShiftService templates, shifts, assignments and the acuity staffing log.
type ShiftService interface {
	ListTemplates(ctx context.Context, facilityID string, activeOnly bool) ([]*domain.ShiftTemplate, error)
	GetTemplate(ctx context.Context, templateID string) (*domain.ShiftTemplate, error)
	CreateTemplate(ctx context.Context, req TemplateRequest) (*domain.ShiftTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, req TemplateRequest) (*domain.ShiftTemplate, error)
	DeleteTemplate(ctx context.Context, templateID string) error

	ListShifts(ctx context.Context, filters repository.ShiftFilters) ([]*domain.Shift, error)
	GetShift(ctx context.Context, shiftID string) (*domain.Shift, error)
	CreateShift(ctx context.Context, req ShiftRequest) (*domain.Shift, error)
	UpdateShift(ctx context.Context, shiftID string, req ShiftRequest) (*domain.Shift, error)
	DeleteShift(ctx context.Context, shiftID string) error

	// Calendar groups a date range's shifts by date.
	Calendar(ctx context.Context, facilityID string, start, end time.Time) ([]*CalendarDay, error)

	// Understaffed lists shifts with fewer assignees than required and
	// pushes a webhook alert when a notifier is configured.
	Understaffed(ctx context.Context, facilityID string) ([]*domain.Shift, error)

	AssignStaff(ctx context.Context, req AssignStaffRequest) (*domain.StaffAssignment, error)
	ListAssignments(ctx context.Context, filters repository.AssignmentFilters) ([]*domain.StaffAssignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error)
	UpdateAssignment(ctx context.Context, assignmentID string, req UpdateAssignmentRequest) (*domain.StaffAssignment, error)
	DeleteAssignment(ctx context.Context, assignmentID string) error
	ClockIn(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error)
	ClockOut(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error)

	ListAcuityStaffing(ctx context.Context, facilityID string) ([]*domain.AcuityBasedStaffing, error)
}

type shiftService struct {
	shiftsRepo repository.ShiftsRepository
	staffRepo  repository.StaffRepository
	notifier   UnderstaffedNotifier // nil when alerts are disabled
	logger     *zap.Logger
	now        func() time.Time
}

func NewShiftService(
	shiftsRepo repository.ShiftsRepository,
	staffRepo repository.StaffRepository,
	notifier UnderstaffedNotifier,
	logger *zap.Logger,
) ShiftService {
	return &shiftService{
		shiftsRepo: shiftsRepo,
		staffRepo:  staffRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// ============================================
// Request/Response DTOs
// ============================================

type TemplateRequest struct {
	Name               string   `json:"name"`
	ShiftType          string   `json:"shift_type"`
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	DurationHours      float64  `json:"duration_hours"`
	FacilityID         string   `json:"facility"`
	RequiredStaffCount int      `json:"required_staff_count"`
	RequiredRoles      []string `json:"required_roles"`
	IsActive           *bool    `json:"is_active,omitempty"`
}

type ShiftRequest struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	TemplateID      string  `json:"shift_template"`
	FacilityID      string  `json:"facility"`
	SectionID       *string `json:"section,omitempty"`
	Status          string  `json:"status"`
	ActualStartTime *string `json:"actual_start_time,omitempty"`
	ActualEndTime   *string `json:"actual_end_time,omitempty"`
	Notes           string  `json:"notes"`
}

type AssignStaffRequest struct {
	StaffID      string `json:"staff"`
	ShiftID      string `json:"shift"`
	AssignedRole string `json:"assigned_role"`
	Notes        string `json:"notes"`
}

type UpdateAssignmentRequest struct {
	AssignedRole string `json:"assigned_role"`
	Notes        string `json:"notes"`
}

// CalendarDay shifts grouped under one date.
type CalendarDay struct {
	Date   string          `json:"date"`
	Shifts []*domain.Shift `json:"shifts"`
}

// ============================================
// Templates
// ============================================

func (s *shiftService) ListTemplates(ctx context.Context, facilityID string, activeOnly bool) ([]*domain.ShiftTemplate, error) {
	return s.shiftsRepo.ListTemplates(ctx, facilityID, activeOnly)
}

func (s *shiftService) GetTemplate(ctx context.Context, templateID string) (*domain.ShiftTemplate, error) {
	return s.shiftsRepo.GetTemplate(ctx, templateID)
}

func (s *shiftService) CreateTemplate(ctx context.Context, req TemplateRequest) (*domain.ShiftTemplate, error) {
	template := templateFromRequest(req)
	if template.RequiredStaffCount <= 0 {
		template.RequiredStaffCount = 1
	}
	id, err := s.shiftsRepo.CreateTemplate(ctx, template)
	if err != nil {
		return nil, err
	}
	s.logger.Info("shift template created", zap.String("template_id", id), zap.String("shift_type", req.ShiftType))
	return s.shiftsRepo.GetTemplate(ctx, id)
}

func (s *shiftService) UpdateTemplate(ctx context.Context, templateID string, req TemplateRequest) (*domain.ShiftTemplate, error) {
	current, err := s.shiftsRepo.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	template := templateFromRequest(req)
	if template.Name == "" {
		template.Name = current.Name
	}
	if template.ShiftType == "" {
		template.ShiftType = current.ShiftType
	}
	if template.StartTime == "" {
		template.StartTime = current.StartTime
	}
	if template.EndTime == "" {
		template.EndTime = current.EndTime
	}
	if template.DurationHours == 0 {
		template.DurationHours = current.DurationHours
	}
	if template.RequiredStaffCount == 0 {
		template.RequiredStaffCount = current.RequiredStaffCount
	}
	if template.RequiredRoles == nil {
		template.RequiredRoles = current.RequiredRoles
	}
	if req.IsActive == nil {
		template.IsActive = current.IsActive
	}

	if err := s.shiftsRepo.UpdateTemplate(ctx, templateID, template); err != nil {
		return nil, err
	}
	return s.shiftsRepo.GetTemplate(ctx, templateID)
}

func (s *shiftService) DeleteTemplate(ctx context.Context, templateID string) error {
	return s.shiftsRepo.DeleteTemplate(ctx, templateID)
}

func templateFromRequest(req TemplateRequest) *domain.ShiftTemplate {
	template := &domain.ShiftTemplate{
		Name:               req.Name,
		ShiftType:          req.ShiftType,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		DurationHours:      req.DurationHours,
		FacilityID:         req.FacilityID,
		RequiredStaffCount: req.RequiredStaffCount,
		RequiredRoles:      req.RequiredRoles,
		IsActive:           true,
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	return template
}

// ============================================
// Shifts
// ============================================

func (s *shiftService) ListShifts(ctx context.Context, filters repository.ShiftFilters) ([]*domain.Shift, error) {
	return s.shiftsRepo.ListShifts(ctx, filters)
}

func (s *shiftService) GetShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	return s.shiftsRepo.GetShift(ctx, shiftID)
}

func (s *shiftService) CreateShift(ctx context.Context, req ShiftRequest) (*domain.Shift, error) {
	shift, err := shiftFromRequest(req)
	if err != nil {
		return nil, err
	}
	id, err := s.shiftsRepo.CreateShift(ctx, shift)
	if err != nil {
		return nil, err
	}
	s.logger.Info("shift created", zap.String("shift_id", id), zap.String("date", req.Date))
	return s.shiftsRepo.GetShift(ctx, id)
}

func (s *shiftService) UpdateShift(ctx context.Context, shiftID string, req ShiftRequest) (*domain.Shift, error) {
	current, err := s.shiftsRepo.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	shift, err := shiftFromRequest(req)
	if err != nil {
		return nil, err
	}
	if req.Date == "" {
		shift.Date = current.Date
	}
	if shift.TemplateID == "" {
		shift.TemplateID = current.TemplateID
	}
	if shift.SectionID == nil {
		shift.SectionID = current.SectionID
	}
	if shift.Status == "" {
		shift.Status = current.Status
	}
	if shift.ActualStartTime == nil {
		shift.ActualStartTime = current.ActualStartTime
	}
	if shift.ActualEndTime == nil {
		shift.ActualEndTime = current.ActualEndTime
	}
	if shift.Notes == "" {
		shift.Notes = current.Notes
	}

	if err := s.shiftsRepo.UpdateShift(ctx, shiftID, shift); err != nil {
		return nil, err
	}
	return s.shiftsRepo.GetShift(ctx, shiftID)
}

func (s *shiftService) DeleteShift(ctx context.Context, shiftID string) error {
	return s.shiftsRepo.DeleteShift(ctx, shiftID)
}

func shiftFromRequest(req ShiftRequest) (*domain.Shift, error) {
	shift := &domain.Shift{
		TemplateID:      req.TemplateID,
		FacilityID:      req.FacilityID,
		SectionID:       req.SectionID,
		Status:          req.Status,
		ActualStartTime: req.ActualStartTime,
		ActualEndTime:   req.ActualEndTime,
		Notes:           req.Notes,
	}
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		shift.Date = t
	}
	return shift, nil
}

func (s *shiftService) Calendar(ctx context.Context, facilityID string, start, end time.Time) ([]*CalendarDay, error) {
	shifts, err := s.shiftsRepo.ListShifts(ctx, repository.ShiftFilters{
		FacilityID: facilityID,
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		return nil, err
	}

	days := []*CalendarDay{}
	byDate := map[string]*CalendarDay{}
	for _, shift := range shifts {
		date := shift.Date.Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &CalendarDay{Date: date, Shifts: []*domain.Shift{}}
			byDate[date] = day
			days = append(days, day)
		}
		day.Shifts = append(day.Shifts, shift)
	}
	return days, nil
}

func (s *shiftService) Understaffed(ctx context.Context, facilityID string) ([]*domain.Shift, error) {
	shifts, err := s.shiftsRepo.ListShifts(ctx, repository.ShiftFilters{
		FacilityID: facilityID,
		Status:     domain.ShiftStatusScheduled,
	})
	if err != nil {
		return nil, err
	}

	understaffed := []*domain.Shift{}
	for _, shift := range shifts {
		if shift.IsUnderstaffed() {
			understaffed = append(understaffed, shift)
		}
	}

	if len(understaffed) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyUnderstaffed(ctx, understaffed); err != nil {
			// Alert delivery must not fail the query.
			s.logger.Warn("understaffed webhook failed", zap.Error(err))
		}
	}
	return understaffed, nil
}

// ============================================
// Assignments
// ============================================

func (s *shiftService) AssignStaff(ctx context.Context, req AssignStaffRequest) (*domain.StaffAssignment, error) {
	staff, err := s.staffRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if _, err := s.shiftsRepo.GetShift(ctx, req.ShiftID); err != nil {
		return nil, err
	}

	role := req.AssignedRole
	if role == "" {
		role = staff.Role
	}

	id, err := s.shiftsRepo.CreateAssignment(ctx, &domain.StaffAssignment{
		StaffID:      req.StaffID,
		ShiftID:      req.ShiftID,
		AssignedRole: role,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff assigned",
		zap.String("assignment_id", id),
		zap.String("staff_id", req.StaffID),
		zap.String("shift_id", req.ShiftID))
	return s.shiftsRepo.GetAssignment(ctx, id)
}

func (s *shiftService) ListAssignments(ctx context.Context, filters repository.AssignmentFilters) ([]*domain.StaffAssignment, error) {
	return s.shiftsRepo.ListAssignments(ctx, filters)
}

func (s *shiftService) GetAssignment(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	return s.shiftsRepo.GetAssignment(ctx, assignmentID)
}

func (s *shiftService) UpdateAssignment(ctx context.Context, assignmentID string, req UpdateAssignmentRequest) (*domain.StaffAssignment, error) {
	current, err := s.shiftsRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if req.AssignedRole == "" {
		req.AssignedRole = current.AssignedRole
	}
	if req.Notes == "" {
		req.Notes = current.Notes
	}

	err = s.shiftsRepo.UpdateAssignment(ctx, assignmentID, &domain.StaffAssignment{
		AssignedRole: req.AssignedRole,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.shiftsRepo.GetAssignment(ctx, assignmentID)
}

func (s *shiftService) DeleteAssignment(ctx context.Context, assignmentID string) error {
	return s.shiftsRepo.DeleteAssignment(ctx, assignmentID)
}

func (s *shiftService) ClockIn(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	if err := s.shiftsRepo.ClockIn(ctx, assignmentID, s.now()); err != nil {
		return nil, err
	}
	return s.shiftsRepo.GetAssignment(ctx, assignmentID)
}

func (s *shiftService) ClockOut(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	assignment, err := s.shiftsRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ClockInTime == nil {
		return nil, fmt.Errorf("cannot clock out before clocking in")
	}

	now := s.now()
	hours := now.Sub(*assignment.ClockInTime).Hours()
	if err := s.shiftsRepo.ClockOut(ctx, assignmentID, now, round2(hours)); err != nil {
		return nil, err
	}
	return s.shiftsRepo.GetAssignment(ctx, assignmentID)
}

// ============================================
// Acuity staffing
// ============================================

func (s *shiftService) ListAcuityStaffing(ctx context.Context, facilityID string) ([]*domain.AcuityBasedStaffing, error) {
	return s.shiftsRepo.ListAcuityStaffing(ctx, facilityID)
}
