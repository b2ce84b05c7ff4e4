package httpapi

import (
	"net/http"
	"time"

	"abst-data/internal/service"

	"go.uber.org/zap"
)

// AIHandler recommendation-engine queries, schedule generation and the
// scheduling chat assistant.
type AIHandler struct {
	recommendationService service.RecommendationService
	facilityService       service.FacilityService
	logger                *zap.Logger
}

func NewAIHandler(
	recommendationService service.RecommendationService,
	facilityService service.FacilityService,
	logger *zap.Logger,
) *AIHandler {
	return &AIHandler{
		recommendationService: recommendationService,
		facilityService:       facilityService,
		logger:                logger,
	}
}

func (h *AIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/ai/insights" && r.Method == http.MethodGet:
		h.Insights(w, r)
	case r.URL.Path == "/api/v1/ai/adl-analysis" && r.Method == http.MethodGet:
		h.ADLAnalysis(w, r)
	case r.URL.Path == "/api/v1/ai/shift-recommendations" && r.Method == http.MethodGet:
		h.ShiftRecommendations(w, r)
	case r.URL.Path == "/api/v1/ai/weekly-recommendations" && r.Method == http.MethodGet:
		h.WeeklyRecommendations(w, r)
	case r.URL.Path == "/api/v1/ai/shift-template-recommendations" && r.Method == http.MethodGet:
		h.TemplateRecommendations(w, r)
	case r.URL.Path == "/api/v1/ai/staffing-requirements" && r.Method == http.MethodGet:
		h.StaffingRequirements(w, r)
	case r.URL.Path == "/api/v1/ai/facility-sections" && r.Method == http.MethodGet:
		h.FacilitySections(w, r)

	case r.URL.Path == "/api/v1/ai/apply-recommendations" && r.Method == http.MethodPost:
		h.ApplyWeeklyRecommendations(w, r)
	case r.URL.Path == "/api/v1/ai/apply-weekly-recommendations" && r.Method == http.MethodPost:
		h.ApplyWeeklyRecommendations(w, r)

	case r.URL.Path == "/api/v1/scheduling/smart-schedule" && r.Method == http.MethodPost:
		h.SmartSchedule(w, r)
	case r.URL.Path == "/api/v1/scheduling/apply-smart-schedule" && r.Method == http.MethodPost:
		h.ApplySmartSchedule(w, r)
	case r.URL.Path == "/api/v1/scheduling/chat" && r.Method == http.MethodPost:
		h.Chat(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// facilityScope reads the facility/section query pair; facility is required.
func facilityScope(w http.ResponseWriter, r *http.Request) (facilityID, sectionID string, ok bool) {
	q := r.URL.Query()
	facilityID = q.Get("facility")
	if facilityID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("facility is required"))
		return "", "", false
	}
	return facilityID, q.Get("section"), true
}

func (h *AIHandler) Insights(w http.ResponseWriter, r *http.Request) {
	facilityID, sectionID, ok := facilityScope(w, r)
	if !ok {
		return
	}
	insights, err := h.recommendationService.Insights(r.Context(), facilityID, sectionID)
	if err != nil {
		h.logger.Error("Insights failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(insights))
}

func (h *AIHandler) ADLAnalysis(w http.ResponseWriter, r *http.Request) {
	facilityID, sectionID, ok := facilityScope(w, r)
	if !ok {
		return
	}
	analyses, err := h.recommendationService.ResidentAnalyses(r.Context(), facilityID, sectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(analyses))
}

func (h *AIHandler) ShiftRecommendations(w http.ResponseWriter, r *http.Request) {
	facilityID, sectionID, ok := facilityScope(w, r)
	if !ok {
		return
	}
	shifts, err := h.recommendationService.OptimalShifts(r.Context(), facilityID, sectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(shifts))
}

func (h *AIHandler) WeeklyRecommendations(w http.ResponseWriter, r *http.Request) {
	facilityID, sectionID, ok := facilityScope(w, r)
	if !ok {
		return
	}
	recs, err := h.recommendationService.WeeklyRecommendations(r.Context(), facilityID, sectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(recs))
}

func (h *AIHandler) TemplateRecommendations(w http.ResponseWriter, r *http.Request) {
	facilityID, sectionID, ok := facilityScope(w, r)
	if !ok {
		return
	}
	recs, err := h.recommendationService.TemplateRecommendations(r.Context(), facilityID, sectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(recs))
}

func (h *AIHandler) StaffingRequirements(w http.ResponseWriter, r *http.Request) {
	facilityID, sectionID, ok := facilityScope(w, r)
	if !ok {
		return
	}
	reqs, err := h.recommendationService.StaffingRequirements(r.Context(), facilityID, sectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(reqs))
}

// FacilitySections section list scoped for the planner UI.
func (h *AIHandler) FacilitySections(w http.ResponseWriter, r *http.Request) {
	facilityID, _, ok := facilityScope(w, r)
	if !ok {
		return
	}
	sections, err := h.facilityService.ListSections(r.Context(), facilityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sections))
}

// ============================================
// Apply / scheduling
// ============================================

type scheduleRequest struct {
	FacilityID string `json:"facility"`
	SectionID  string `json:"section"`
	WeekOf     string `json:"week_of"` // YYYY-MM-DD, defaults to now
}

func (req scheduleRequest) week() (time.Time, error) {
	if req.WeekOf == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", req.WeekOf)
}

func (h *AIHandler) ApplyWeeklyRecommendations(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.FacilityID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("facility is required"))
		return
	}
	weekOf, err := req.week()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	result, err := h.recommendationService.ApplyWeeklyRecommendations(r.Context(), req.FacilityID, req.SectionID, weekOf)
	if err != nil {
		h.logger.Error("ApplyWeeklyRecommendations failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

func (h *AIHandler) SmartSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.FacilityID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("facility is required"))
		return
	}
	weekOf, err := req.week()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	schedule, err := h.recommendationService.SmartSchedule(r.Context(), req.FacilityID, weekOf)
	if err != nil {
		h.logger.Error("SmartSchedule failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(schedule))
}

func (h *AIHandler) ApplySmartSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.FacilityID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("facility is required"))
		return
	}
	weekOf, err := req.week()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	result, err := h.recommendationService.ApplySmartSchedule(r.Context(), req.FacilityID, weekOf)
	if err != nil {
		h.logger.Error("ApplySmartSchedule failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

type chatRequest struct {
	FacilityID string `json:"facility"`
	Message    string `json:"message"`
}

func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.FacilityID == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, Fail("facility and message are required"))
		return
	}
	reply, err := h.recommendationService.Chat(r.Context(), req.FacilityID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(reply))
}
