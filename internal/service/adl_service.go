package service

import (
	"context"
	"time"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"go.uber.org/zap"
)

// ADLService ADL records, the question catalog and derived summaries.
type ADLService interface {
	ListADLs(ctx context.Context, filters repository.ADLFilters) ([]*domain.ADL, error)
	GetADL(ctx context.Context, adlID string) (*domain.ADL, error)
	CreateADL(ctx context.Context, req ADLRequest) (*domain.ADL, error)
	UpdateADL(ctx context.Context, adlID string, req ADLRequest) (*domain.ADL, error)
	DeleteADL(ctx context.Context, adlID string) error
	RestoreADL(ctx context.Context, adlID string) (*domain.ADL, error)
	ListDeletedADLs(ctx context.Context, facilityID string) ([]*domain.ADL, error)

	Summary(ctx context.Context, filters repository.ADLFilters) (*domain.ADLSummary, error)
	CaregivingSummary(ctx context.Context, filters repository.ADLFilters) (*CaregivingSummary, error)

	ListQuestions(ctx context.Context) ([]*domain.ADLQuestion, error)
	SeedDefaultQuestions(ctx context.Context) (int, error)
}

type adlService struct {
	adlsRepo      repository.ADLsRepository
	residentsRepo repository.ResidentsRepository
	logger        *zap.Logger
}

func NewADLService(adlsRepo repository.ADLsRepository, residentsRepo repository.ResidentsRepository, logger *zap.Logger) ADLService {
	return &adlService{adlsRepo: adlsRepo, residentsRepo: residentsRepo, logger: logger}
}

// ============================================
// Request DTOs
// ============================================

type ADLRequest struct {
	ResidentID       string             `json:"resident"`
	QuestionID       *string            `json:"question,omitempty"`
	QuestionText     string             `json:"question_text"`
	Minutes          int                `json:"minutes"`
	Frequency        int                `json:"frequency"`
	Status           string             `json:"status"`
	PerDayShiftTimes map[string]float64 `json:"per_day_shift_times"`
}

// toADL applies the derived-total rule: total_minutes = minutes * frequency.
func (req ADLRequest) toADL() *domain.ADL {
	status := req.Status
	if status == "" {
		status = domain.ADLStatusComplete
	}
	totalMinutes := req.Minutes * req.Frequency
	return &domain.ADL{
		ResidentID:       req.ResidentID,
		QuestionID:       req.QuestionID,
		QuestionText:     req.QuestionText,
		Minutes:          req.Minutes,
		Frequency:        req.Frequency,
		TotalMinutes:     totalMinutes,
		TotalHours:       float64(totalMinutes) / 60.0,
		Status:           status,
		PerDayShiftTimes: req.PerDayShiftTimes,
	}
}

// ============================================
// Implementation
// ============================================

func (s *adlService) ListADLs(ctx context.Context, filters repository.ADLFilters) ([]*domain.ADL, error) {
	return s.adlsRepo.ListADLs(ctx, filters)
}

func (s *adlService) GetADL(ctx context.Context, adlID string) (*domain.ADL, error) {
	return s.adlsRepo.GetADL(ctx, adlID)
}

func (s *adlService) CreateADL(ctx context.Context, req ADLRequest) (*domain.ADL, error) {
	// The resident must exist and be live.
	if _, err := s.residentsRepo.GetResident(ctx, req.ResidentID); err != nil {
		return nil, err
	}

	id, err := s.adlsRepo.CreateADL(ctx, req.toADL())
	if err != nil {
		return nil, err
	}
	s.logger.Info("adl created", zap.String("adl_id", id), zap.String("resident_id", req.ResidentID))
	return s.adlsRepo.GetADL(ctx, id)
}

func (s *adlService) UpdateADL(ctx context.Context, adlID string, req ADLRequest) (*domain.ADL, error) {
	current, err := s.adlsRepo.GetADL(ctx, adlID)
	if err != nil {
		return nil, err
	}

	if req.ResidentID == "" {
		req.ResidentID = current.ResidentID
	}
	if req.QuestionText == "" {
		req.QuestionText = current.QuestionText
	}
	if req.Minutes == 0 {
		req.Minutes = current.Minutes
	}
	if req.Frequency == 0 {
		req.Frequency = current.Frequency
	}
	if req.Status == "" {
		req.Status = current.Status
	}
	if req.PerDayShiftTimes == nil {
		req.PerDayShiftTimes = current.PerDayShiftTimes
	}
	if req.QuestionID == nil {
		req.QuestionID = current.QuestionID
	}

	if err := s.adlsRepo.UpdateADL(ctx, adlID, req.toADL()); err != nil {
		return nil, err
	}
	return s.adlsRepo.GetADL(ctx, adlID)
}

func (s *adlService) DeleteADL(ctx context.Context, adlID string) error {
	if err := s.adlsRepo.SoftDeleteADL(ctx, adlID); err != nil {
		return err
	}
	s.logger.Info("adl soft-deleted", zap.String("adl_id", adlID))
	return nil
}

func (s *adlService) RestoreADL(ctx context.Context, adlID string) (*domain.ADL, error) {
	if err := s.adlsRepo.RestoreADL(ctx, adlID); err != nil {
		return nil, err
	}
	return s.adlsRepo.GetADL(ctx, adlID)
}

func (s *adlService) ListDeletedADLs(ctx context.Context, facilityID string) ([]*domain.ADL, error) {
	return s.adlsRepo.ListADLs(ctx, repository.ADLFilters{FacilityID: facilityID, DeletedOnly: true})
}

func (s *adlService) Summary(ctx context.Context, filters repository.ADLFilters) (*domain.ADLSummary, error) {
	return s.adlsRepo.Summary(ctx, filters)
}

// CaregivingSummary resident-scoped requests read the ADL shift maps;
// facility-wide requests read the residents' total_shift_times instead.
func (s *adlService) CaregivingSummary(ctx context.Context, filters repository.ADLFilters) (*CaregivingSummary, error) {
	if filters.ResidentID != "" {
		adls, err := s.adlsRepo.ListADLs(ctx, filters)
		if err != nil {
			return nil, err
		}
		return buildCaregivingSummary(adls), nil
	}
	residents, err := s.residentsRepo.ListResidents(ctx, repository.ResidentFilters{FacilityID: filters.FacilityID})
	if err != nil {
		return nil, err
	}
	return buildCaregivingSummaryFromResidents(residents), nil
}

func (s *adlService) ListQuestions(ctx context.Context) ([]*domain.ADLQuestion, error) {
	return s.adlsRepo.ListQuestions(ctx)
}

func (s *adlService) SeedDefaultQuestions(ctx context.Context) (int, error) {
	created, err := s.adlsRepo.SeedQuestions(ctx, domain.DefaultADLQuestions)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.logger.Info("adl questions seeded", zap.Int("created", created))
	}
	return created, nil
}

// ParseDateFilter parses YYYY-MM-DD query values into time bounds; the end
// date is inclusive (extended to end of day).
func ParseDateFilter(start, end string) (*time.Time, *time.Time, error) {
	var startT, endT *time.Time
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, nil, err
		}
		startT = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, nil, err
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		endT = &t
	}
	return startT, endT, nil
}
