package httpapi

import (
	"net/http"
	"strings"
	"time"

	"abst-data/internal/repository"
	"abst-data/internal/service"

	"go.uber.org/zap"
)

// StaffHandler staff CRUD and availability tracking.
type StaffHandler struct {
	staffService service.StaffService
	logger       *zap.Logger
}

func NewStaffHandler(staffService service.StaffService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		logger:       logger,
	}
}

func (h *StaffHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/staff" && r.Method == http.MethodGet:
		h.ListStaff(w, r)
	case r.URL.Path == "/api/v1/staff" && r.Method == http.MethodPost:
		h.CreateStaff(w, r)

	case strings.HasSuffix(r.URL.Path, "/availability") && r.Method == http.MethodGet:
		h.ListStaffAvailability(w, r)

	case strings.HasPrefix(r.URL.Path, "/api/v1/staff/") && r.Method == http.MethodGet:
		h.GetStaff(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/staff/") && r.Method == http.MethodPut:
		h.UpdateStaff(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/staff/") && r.Method == http.MethodDelete:
		h.DeleteStaff(w, r)

	case r.URL.Path == "/api/v1/staff-availability" && r.Method == http.MethodPost:
		h.SetAvailability(w, r)
	case r.URL.Path == "/api/v1/staff-availability/bulk-update" && r.Method == http.MethodPost:
		h.SetAvailabilityBulk(w, r)
	case r.URL.Path == "/api/v1/staff-availability/weekly-summary" && r.Method == http.MethodGet:
		h.WeeklySummary(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	staff, err := h.staffService.ListStaff(r.Context(), repository.StaffFilters{
		FacilityID: q.Get("facility"),
		Role:       q.Get("role"),
		Status:     q.Get("status"),
		Search:     q.Get("search"),
	})
	if err != nil {
		h.logger.Error("ListStaff failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(staff))
}

func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/staff/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	staff, err := h.staffService.GetStaff(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(staff))
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req service.StaffRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	staff, err := h.staffService.CreateStaff(r.Context(), req)
	if err != nil {
		h.logger.Error("CreateStaff failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(staff))
}

func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/staff/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.StaffRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	staff, err := h.staffService.UpdateStaff(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(staff))
}

func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/staff/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.staffService.DeleteStaff(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

// ============================================
// Availability
// ============================================

func (h *StaffHandler) ListStaffAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/staff/", "availability")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	start, end, err := service.ParseDateFilter(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	rows, err := h.staffService.ListAvailability(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rows))
}

func (h *StaffHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req service.AvailabilityRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	row, err := h.staffService.SetAvailability(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(row))
}

func (h *StaffHandler) SetAvailabilityBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []service.AvailabilityRequest
	if err := readBodyJSON(r, 4<<20, &reqs); err != nil {
		writeBadRequest(w, err)
		return
	}
	result, err := h.staffService.SetAvailabilityBulk(r.Context(), reqs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

func (h *StaffHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weekOf := time.Now()
	if v := q.Get("week_of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		weekOf = t
	}
	summary, err := h.staffService.WeeklyAvailabilitySummary(r.Context(), q.Get("facility"), weekOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}
