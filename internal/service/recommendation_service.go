package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"abst-data/internal/config"
	"abst-data/internal/domain"
	"abst-data/internal/engine"
	"abst-data/internal/repository"
	"abst-data/internal/store"

	"go.uber.org/zap"
)

// RecommendationService runs the heuristic engine over live facility data.
// Engine outputs are cached in Redis under "ai:<kind>:<facility>:<section>"
// and invalidated whenever an apply endpoint writes shifts back.
type RecommendationService interface {
	Insights(ctx context.Context, facilityID, sectionID string) (*engine.Insights, error)
	ResidentAnalyses(ctx context.Context, facilityID, sectionID string) ([]*engine.ResidentAnalysis, error)
	WeeklyRecommendations(ctx context.Context, facilityID, sectionID string) ([]*engine.WeeklyRecommendation, error)
	TemplateRecommendations(ctx context.Context, facilityID, sectionID string) ([]*engine.TemplateRecommendation, error)
	StaffingRequirements(ctx context.Context, facilityID, sectionID string) (map[string]*engine.ShiftRequirement, error)
	OptimalShifts(ctx context.Context, facilityID, sectionID string) ([]*engine.OptimalShift, error)

	ApplyWeeklyRecommendations(ctx context.Context, facilityID, sectionID string, weekOf time.Time) (*ApplyResult, error)

	SmartSchedule(ctx context.Context, facilityID string, weekOf time.Time) (*engine.WeekSchedule, error)
	ApplySmartSchedule(ctx context.Context, facilityID string, weekOf time.Time) (*ApplyResult, error)

	Chat(ctx context.Context, facilityID, message string) (*ChatReply, error)
}

type recommendationService struct {
	residentsRepo repository.ResidentsRepository
	adlsRepo      repository.ADLsRepository
	staffRepo     repository.StaffRepository
	shiftsRepo    repository.ShiftsRepository
	kv            store.KV
	engineCfg     config.EngineConfig
	logger        *zap.Logger
	now           func() time.Time
}

func NewRecommendationService(
	residentsRepo repository.ResidentsRepository,
	adlsRepo repository.ADLsRepository,
	staffRepo repository.StaffRepository,
	shiftsRepo repository.ShiftsRepository,
	kv store.KV,
	engineCfg config.EngineConfig,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		residentsRepo: residentsRepo,
		adlsRepo:      adlsRepo,
		staffRepo:     staffRepo,
		shiftsRepo:    shiftsRepo,
		kv:            kv,
		engineCfg:     engineCfg,
		logger:        logger,
		now:           time.Now,
	}
}

// ============================================
// Response DTOs
// ============================================

// ApplyResult outcome of materializing engine output into shift rows.
type ApplyResult struct {
	ShiftsCreated      int      `json:"shifts_created"`
	ShiftsSkipped      int      `json:"shifts_skipped"`
	AssignmentsCreated int      `json:"assignments_created"`
	Errors             []string `json:"errors,omitempty"`
}

// ChatReply scheduling assistant answer.
type ChatReply struct {
	Intent  string `json:"intent"`
	Message string `json:"response"`
}

// ============================================
// Snapshot loading
// ============================================

// loadSnapshot pulls the facility's live data for the engine. ADLs are
// limited to the configured lookback window.
func (s *recommendationService) loadSnapshot(ctx context.Context, facilityID string) (*engine.Snapshot, error) {
	residents, err := s.residentsRepo.ListResidents(ctx, repository.ResidentFilters{FacilityID: facilityID})
	if err != nil {
		return nil, fmt.Errorf("failed to load residents: %w", err)
	}

	lookback := s.engineCfg.LookbackDays
	if lookback <= 0 {
		lookback = 30
	}
	since := s.now().AddDate(0, 0, -lookback)
	adls, err := s.adlsRepo.ListADLs(ctx, repository.ADLFilters{FacilityID: facilityID, StartDate: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to load adls: %w", err)
	}

	staff, err := s.staffRepo.ListStaff(ctx, repository.StaffFilters{
		FacilityID: facilityID,
		Status:     domain.StaffStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}

	templates, err := s.shiftsRepo.ListTemplates(ctx, facilityID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift templates: %w", err)
	}

	weekStart := engine.WeekDates(s.now())[0]
	weekEnd := weekStart.AddDate(0, 0, 7)
	shifts, err := s.shiftsRepo.ListShifts(ctx, repository.ShiftFilters{
		FacilityID: facilityID,
		StartDate:  &weekStart,
		EndDate:    &weekEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	assignments, err := s.shiftsRepo.ListAssignments(ctx, repository.AssignmentFilters{
		StartDate: &weekStart,
		EndDate:   &weekEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	availRows, err := s.staffRepo.ListAvailabilityForWeek(ctx, facilityID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	availability := map[string]*domain.StaffAvailability{}
	for _, row := range availRows {
		// Latest row per staff member wins.
		prev, ok := availability[row.StaffID]
		if !ok || row.Date.After(prev.Date) {
			availability[row.StaffID] = row
		}
	}

	return &engine.Snapshot{
		FacilityID:   facilityID,
		Residents:    residents,
		ADLs:         adls,
		Staff:        staff,
		Templates:    templates,
		Shifts:       shifts,
		Assignments:  assignments,
		Availability: availability,
	}, nil
}

// ============================================
// Caching
// ============================================

func cacheKey(kind, facilityID, sectionID string) string {
	if sectionID == "" {
		sectionID = "all"
	}
	return fmt.Sprintf("ai:%s:%s:%s", kind, facilityID, sectionID)
}

func (s *recommendationService) cacheTTL() time.Duration {
	ttl := s.engineCfg.CacheTTLSec
	if ttl <= 0 {
		ttl = 300
	}
	return time.Duration(ttl) * time.Second
}

// cached runs compute and memoizes its JSON form; cache failures fall
// through to a fresh computation.
func cached[T any](ctx context.Context, s *recommendationService, key string, compute func() (T, error)) (T, error) {
	var zero T
	if raw, err := s.kv.Get(ctx, key); err == nil {
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	} else if !errors.Is(err, store.ErrMiss) {
		s.logger.Warn("engine cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err := compute()
	if err != nil {
		return zero, err
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := s.kv.Set(ctx, key, string(raw), s.cacheTTL()); err != nil {
			s.logger.Warn("engine cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

// invalidate drops every cached engine output for the facility.
func (s *recommendationService) invalidate(ctx context.Context, facilityID string) {
	keys, err := s.kv.ScanKeys(ctx, fmt.Sprintf("ai:*:%s:*", facilityID))
	if err != nil {
		s.logger.Warn("engine cache scan failed", zap.String("facility_id", facilityID), zap.Error(err))
		return
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		s.logger.Warn("engine cache invalidation failed", zap.String("facility_id", facilityID), zap.Error(err))
	}
}

// ============================================
// Engine queries
// ============================================

func (s *recommendationService) Insights(ctx context.Context, facilityID, sectionID string) (*engine.Insights, error) {
	return cached(ctx, s, cacheKey("insights", facilityID, sectionID), func() (*engine.Insights, error) {
		snap, err := s.loadSnapshot(ctx, facilityID)
		if err != nil {
			return nil, err
		}
		return engine.GetInsights(snap), nil
	})
}

// ResidentAnalyses per-resident acuity breakdown, highest care load first.
func (s *recommendationService) ResidentAnalyses(ctx context.Context, facilityID, sectionID string) ([]*engine.ResidentAnalysis, error) {
	return cached(ctx, s, cacheKey("analysis", facilityID, sectionID), func() ([]*engine.ResidentAnalysis, error) {
		snap, err := s.loadSnapshot(ctx, facilityID)
		if err != nil {
			return nil, err
		}
		analyses := []*engine.ResidentAnalysis{}
		for _, a := range engine.AnalyzeResidents(snap) {
			if sectionID != "" && a.SectionID != sectionID {
				continue
			}
			analyses = append(analyses, a)
		}
		sort.Slice(analyses, func(i, j int) bool {
			if analyses[i].TotalCareHours != analyses[j].TotalCareHours {
				return analyses[i].TotalCareHours > analyses[j].TotalCareHours
			}
			return analyses[i].ResidentID < analyses[j].ResidentID
		})
		return analyses, nil
	})
}

func (s *recommendationService) WeeklyRecommendations(ctx context.Context, facilityID, sectionID string) ([]*engine.WeeklyRecommendation, error) {
	return cached(ctx, s, cacheKey("weekly", facilityID, sectionID), func() ([]*engine.WeeklyRecommendation, error) {
		snap, err := s.loadSnapshot(ctx, facilityID)
		if err != nil {
			return nil, err
		}
		return engine.RecommendShiftsForWeek(snap, sectionID), nil
	})
}

func (s *recommendationService) TemplateRecommendations(ctx context.Context, facilityID, sectionID string) ([]*engine.TemplateRecommendation, error) {
	return cached(ctx, s, cacheKey("templates", facilityID, sectionID), func() ([]*engine.TemplateRecommendation, error) {
		snap, err := s.loadSnapshot(ctx, facilityID)
		if err != nil {
			return nil, err
		}
		return engine.RecommendShiftTemplates(snap, sectionID), nil
	})
}

func (s *recommendationService) StaffingRequirements(ctx context.Context, facilityID, sectionID string) (map[string]*engine.ShiftRequirement, error) {
	return cached(ctx, s, cacheKey("staffing", facilityID, sectionID), func() (map[string]*engine.ShiftRequirement, error) {
		snap, err := s.loadSnapshot(ctx, facilityID)
		if err != nil {
			return nil, err
		}
		return engine.CalculateStaffingRequirements(snap, sectionID), nil
	})
}

func (s *recommendationService) OptimalShifts(ctx context.Context, facilityID, sectionID string) ([]*engine.OptimalShift, error) {
	return cached(ctx, s, cacheKey("optimal", facilityID, sectionID), func() ([]*engine.OptimalShift, error) {
		snap, err := s.loadSnapshot(ctx, facilityID)
		if err != nil {
			return nil, err
		}
		return engine.RecommendOptimalShifts(snap, sectionID), nil
	})
}

// ============================================
// Apply endpoints
// ============================================

// ApplyWeeklyRecommendations materializes the weekly suggestions as shift
// rows for the week containing weekOf. Existing date+template shifts are
// kept; each created shift gets an acuity staffing record.
func (s *recommendationService) ApplyWeeklyRecommendations(ctx context.Context, facilityID, sectionID string, weekOf time.Time) (*ApplyResult, error) {
	snap, err := s.loadSnapshot(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	recs := engine.RecommendShiftsForWeek(snap, sectionID)
	dates := engine.WeekDates(weekOf)

	// Intensity split for the acuity records, over the residents in scope.
	var highCount, mediumCount, lowCount int
	for _, a := range engine.AnalyzeResidents(snap) {
		if sectionID != "" && a.SectionID != sectionID {
			continue
		}
		switch a.CareIntensity {
		case engine.IntensityHigh:
			highCount++
		case engine.IntensityMedium:
			mediumCount++
		default:
			lowCount++
		}
	}

	dayIndex := map[string]int{}
	for i, day := range domain.DayNames {
		dayIndex[day] = i
	}
	templateByType := map[string]*domain.ShiftTemplate{}
	for _, template := range snap.Templates {
		if _, ok := templateByType[template.ShiftType]; !ok {
			templateByType[template.ShiftType] = template
		}
	}

	result := &ApplyResult{}
	var sectionPtr *string
	if sectionID != "" {
		sectionPtr = &sectionID
	}

	for _, rec := range recs {
		template, ok := templateByType[rec.ShiftType]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("no active template for %s shift", rec.ShiftType))
			continue
		}
		idx, ok := dayIndex[rec.Day]
		if !ok {
			continue
		}
		date := dates[idx]

		if _, err := s.shiftsRepo.FindShiftByDateTemplate(ctx, facilityID, template.TemplateID, date); err == nil {
			result.ShiftsSkipped++
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		shiftID, err := s.shiftsRepo.CreateShift(ctx, &domain.Shift{
			Date:       date,
			TemplateID: template.TemplateID,
			FacilityID: facilityID,
			SectionID:  sectionPtr,
			Status:     domain.ShiftStatusScheduled,
			Notes:      rec.Reasoning,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", rec.Day, rec.ShiftType, err))
			continue
		}
		result.ShiftsCreated++

		_, err = s.shiftsRepo.CreateAcuityStaffing(ctx, &domain.AcuityBasedStaffing{
			ShiftID:               shiftID,
			TotalCareHoursNeeded:  rec.CareHours,
			HighAcuityResidents:   highCount,
			MediumAcuityResidents: mediumCount,
			LowAcuityResidents:    lowCount,
			RecommendedStaffCount: rec.StaffRequired,
			RecommendedSkillMix:   map[string]int{"cna": rec.StaffRequired},
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s acuity record: %v", rec.Day, rec.ShiftType, err))
		}
	}

	s.invalidate(ctx, facilityID)
	s.logger.Info("weekly recommendations applied",
		zap.String("facility_id", facilityID),
		zap.Int("created", result.ShiftsCreated),
		zap.Int("skipped", result.ShiftsSkipped))
	return result, nil
}

// SmartSchedule generates a full week schedule without persisting it.
func (s *recommendationService) SmartSchedule(ctx context.Context, facilityID string, weekOf time.Time) (*engine.WeekSchedule, error) {
	snap, err := s.loadSnapshot(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	return engine.GenerateWeekSchedule(snap, weekOf), nil
}

// ApplySmartSchedule generates a week schedule and persists both the shifts
// and the staff assignments it produced.
func (s *recommendationService) ApplySmartSchedule(ctx context.Context, facilityID string, weekOf time.Time) (*ApplyResult, error) {
	snap, err := s.loadSnapshot(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	schedule := engine.GenerateWeekSchedule(snap, weekOf)

	templateByName := map[string]*domain.ShiftTemplate{}
	for _, template := range snap.Templates {
		templateByName[template.Name] = template
	}

	result := &ApplyResult{}
	for _, day := range schedule.Schedule {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		for _, shiftType := range domain.ShiftTypes {
			slot, ok := day.Shifts[shiftType]
			if !ok || slot.Status != engine.ScheduleStatusOptimized {
				continue
			}
			template, ok := templateByName[slot.TemplateName]
			if !ok {
				continue
			}

			shiftID, err := s.shiftsRepo.FindShiftByDateTemplate(ctx, facilityID, template.TemplateID, date)
			switch {
			case err == nil:
				result.ShiftsSkipped++
			case errors.Is(err, repository.ErrNotFound):
				shiftID, err = s.shiftsRepo.CreateShift(ctx, &domain.Shift{
					Date:       date,
					TemplateID: template.TemplateID,
					FacilityID: facilityID,
					Status:     domain.ShiftStatusScheduled,
				})
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", day.Date, shiftType, err))
					continue
				}
				result.ShiftsCreated++
			default:
				return nil, err
			}

			for _, assigned := range slot.AssignedStaff {
				_, err := s.shiftsRepo.CreateAssignment(ctx, &domain.StaffAssignment{
					StaffID:      assigned.StaffID,
					ShiftID:      shiftID,
					AssignedRole: assigned.Role,
					Notes:        "AI Assignment: " + assigned.AssignmentReason,
				})
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s %s assign %s: %v", day.Date, shiftType, assigned.Name, err))
					continue
				}
				result.AssignmentsCreated++
			}
		}
	}

	s.invalidate(ctx, facilityID)
	s.logger.Info("smart schedule applied",
		zap.String("facility_id", facilityID),
		zap.Int("shifts_created", result.ShiftsCreated),
		zap.Int("assignments_created", result.AssignmentsCreated))
	return result, nil
}

// ============================================
// Chat
// ============================================

func (s *recommendationService) Chat(ctx context.Context, facilityID, message string) (*ChatReply, error) {
	snap, err := s.loadSnapshot(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	return &ChatReply{
		Intent:  engine.ClassifyIntent(message),
		Message: engine.ProcessChatMessage(snap, message, s.now()),
	}, nil
}
