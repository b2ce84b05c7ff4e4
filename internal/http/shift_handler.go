package httpapi

import (
	"net/http"
	"strings"
	"time"

	"abst-data/internal/repository"
	"abst-data/internal/service"

	"go.uber.org/zap"
)

// ShiftHandler shift templates, shift instances, staff assignments and the
// acuity staffing log.
type ShiftHandler struct {
	shiftService service.ShiftService
	logger       *zap.Logger
}

func NewShiftHandler(shiftService service.ShiftService, logger *zap.Logger) *ShiftHandler {
	return &ShiftHandler{
		shiftService: shiftService,
		logger:       logger,
	}
}

func (h *ShiftHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	// Templates
	case r.URL.Path == "/api/v1/shift-templates" && r.Method == http.MethodGet:
		h.ListTemplates(w, r)
	case r.URL.Path == "/api/v1/shift-templates" && r.Method == http.MethodPost:
		h.CreateTemplate(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/shift-templates/") && r.Method == http.MethodGet:
		h.GetTemplate(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/shift-templates/") && r.Method == http.MethodPut:
		h.UpdateTemplate(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/shift-templates/") && r.Method == http.MethodDelete:
		h.DeleteTemplate(w, r)

	// Shifts
	case r.URL.Path == "/api/v1/shifts" && r.Method == http.MethodGet:
		h.ListShifts(w, r)
	case r.URL.Path == "/api/v1/shifts" && r.Method == http.MethodPost:
		h.CreateShift(w, r)
	case r.URL.Path == "/api/v1/shifts/calendar" && r.Method == http.MethodGet:
		h.Calendar(w, r)
	case r.URL.Path == "/api/v1/shifts/understaffed" && r.Method == http.MethodGet:
		h.Understaffed(w, r)
	case strings.HasSuffix(r.URL.Path, "/assign-staff") && r.Method == http.MethodPost:
		h.AssignStaff(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/shifts/") && r.Method == http.MethodGet:
		h.GetShift(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/shifts/") && r.Method == http.MethodPut:
		h.UpdateShift(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/shifts/") && r.Method == http.MethodDelete:
		h.DeleteShift(w, r)

	// Assignments
	case r.URL.Path == "/api/v1/staff-assignments" && r.Method == http.MethodGet:
		h.ListAssignments(w, r)
	case strings.HasSuffix(r.URL.Path, "/clock-in") && r.Method == http.MethodPost:
		h.ClockIn(w, r)
	case strings.HasSuffix(r.URL.Path, "/clock-out") && r.Method == http.MethodPost:
		h.ClockOut(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/staff-assignments/") && r.Method == http.MethodGet:
		h.GetAssignment(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/staff-assignments/") && r.Method == http.MethodPut:
		h.UpdateAssignment(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/staff-assignments/") && r.Method == http.MethodDelete:
		h.DeleteAssignment(w, r)

	// Acuity staffing
	case r.URL.Path == "/api/v1/acuity-staffing" && r.Method == http.MethodGet:
		h.ListAcuityStaffing(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ============================================
// Templates
// ============================================

func (h *ShiftHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	templates, err := h.shiftService.ListTemplates(r.Context(), q.Get("facility"), q.Get("active") == "true")
	if err != nil {
		h.logger.Error("ListTemplates failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(templates))
}

func (h *ShiftHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/shift-templates/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	template, err := h.shiftService.GetTemplate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(template))
}

func (h *ShiftHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req service.TemplateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	template, err := h.shiftService.CreateTemplate(r.Context(), req)
	if err != nil {
		h.logger.Error("CreateTemplate failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(template))
}

func (h *ShiftHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/shift-templates/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.TemplateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	template, err := h.shiftService.UpdateTemplate(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(template))
}

func (h *ShiftHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/shift-templates/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.shiftService.DeleteTemplate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

// ============================================
// Shifts
// ============================================

func shiftFilters(r *http.Request) (repository.ShiftFilters, error) {
	q := r.URL.Query()
	start, end, err := service.ParseDateFilter(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		return repository.ShiftFilters{}, err
	}
	return repository.ShiftFilters{
		FacilityID: q.Get("facility"),
		SectionID:  q.Get("section"),
		TemplateID: q.Get("shift_template"),
		ShiftType:  q.Get("shift_type"),
		Status:     q.Get("status"),
		StartDate:  start,
		EndDate:    end,
	}, nil
}

func (h *ShiftHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filters, err := shiftFilters(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	shifts, err := h.shiftService.ListShifts(r.Context(), filters)
	if err != nil {
		h.logger.Error("ListShifts failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(shifts))
}

func (h *ShiftHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/shifts/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	shift, err := h.shiftService.GetShift(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(shift))
}

func (h *ShiftHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req service.ShiftRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	shift, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		h.logger.Error("CreateShift failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(shift))
}

func (h *ShiftHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/shifts/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.ShiftRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	shift, err := h.shiftService.UpdateShift(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(shift))
}

func (h *ShiftHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/shifts/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.shiftService.DeleteShift(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

func (h *ShiftHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("start_date is required (YYYY-MM-DD)"))
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("end_date is required (YYYY-MM-DD)"))
		return
	}
	days, err := h.shiftService.Calendar(r.Context(), q.Get("facility"), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(days))
}

func (h *ShiftHandler) Understaffed(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shiftService.Understaffed(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(shifts))
}

func (h *ShiftHandler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/shifts/", "assign-staff")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.AssignStaffRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	req.ShiftID = id
	assignment, err := h.shiftService.AssignStaff(r.Context(), req)
	if err != nil {
		h.logger.Error("AssignStaff failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(assignment))
}

// ============================================
// Assignments
// ============================================

func (h *ShiftHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := service.ParseDateFilter(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	filters := repository.AssignmentFilters{
		StaffID:   q.Get("staff"),
		ShiftID:   q.Get("shift"),
		StartDate: start,
		EndDate:   end,
	}
	if v := q.Get("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		filters.Date = &t
	}
	assignments, err := h.shiftService.ListAssignments(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignments))
}

func (h *ShiftHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/staff-assignments/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	assignment, err := h.shiftService.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignment))
}

func (h *ShiftHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/staff-assignments/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.UpdateAssignmentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	assignment, err := h.shiftService.UpdateAssignment(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignment))
}

func (h *ShiftHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/staff-assignments/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.shiftService.DeleteAssignment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

func (h *ShiftHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/staff-assignments/", "clock-in")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	assignment, err := h.shiftService.ClockIn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignment))
}

func (h *ShiftHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/staff-assignments/", "clock-out")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	assignment, err := h.shiftService.ClockOut(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignment))
}

// ============================================
// Acuity staffing
// ============================================

func (h *ShiftHandler) ListAcuityStaffing(w http.ResponseWriter, r *http.Request) {
	records, err := h.shiftService.ListAcuityStaffing(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(records))
}
