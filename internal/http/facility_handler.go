package httpapi

import (
	"net/http"
	"strings"

	"abst-data/internal/service"

	"go.uber.org/zap"
)

// FacilityHandler facilities and their sections.
type FacilityHandler struct {
	facilityService service.FacilityService
	logger          *zap.Logger
}

func NewFacilityHandler(facilityService service.FacilityService, logger *zap.Logger) *FacilityHandler {
	return &FacilityHandler{
		facilityService: facilityService,
		logger:          logger,
	}
}

func (h *FacilityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/facilities" && r.Method == http.MethodGet:
		h.ListFacilities(w, r)
	case r.URL.Path == "/api/v1/facilities" && r.Method == http.MethodPost:
		h.CreateFacility(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/facilities/") && r.Method == http.MethodGet:
		h.GetFacility(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/facilities/") && r.Method == http.MethodPut:
		h.UpdateFacility(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/facilities/") && r.Method == http.MethodDelete:
		h.DeleteFacility(w, r)

	case r.URL.Path == "/api/v1/facility-sections" && r.Method == http.MethodGet:
		h.ListSections(w, r)
	case r.URL.Path == "/api/v1/facility-sections" && r.Method == http.MethodPost:
		h.CreateSection(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/facility-sections/") && r.Method == http.MethodGet:
		h.GetSection(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/facility-sections/") && r.Method == http.MethodPut:
		h.UpdateSection(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/facility-sections/") && r.Method == http.MethodDelete:
		h.DeleteSection(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func pathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// ============================================
// Facilities
// ============================================

func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilityService.ListFacilities(r.Context())
	if err != nil {
		h.logger.Error("ListFacilities failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(facilities))
}

func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/facilities/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	facility, err := h.facilityService.GetFacility(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(facility))
}

func (h *FacilityHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	var req service.CreateFacilityRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	facility, err := h.facilityService.CreateFacility(r.Context(), req)
	if err != nil {
		h.logger.Error("CreateFacility failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(facility))
}

func (h *FacilityHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/facilities/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.UpdateFacilityRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	facility, err := h.facilityService.UpdateFacility(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(facility))
}

func (h *FacilityHandler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/facilities/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.facilityService.DeleteFacility(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

// ============================================
// Sections
// ============================================

func (h *FacilityHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	facilityID := r.URL.Query().Get("facility")
	sections, err := h.facilityService.ListSections(r.Context(), facilityID)
	if err != nil {
		h.logger.Error("ListSections failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sections))
}

func (h *FacilityHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/facility-sections/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	section, err := h.facilityService.GetSection(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(section))
}

func (h *FacilityHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req service.SectionRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	section, err := h.facilityService.CreateSection(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(section))
}

func (h *FacilityHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/facility-sections/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.SectionRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	section, err := h.facilityService.UpdateSection(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(section))
}

func (h *FacilityHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/facility-sections/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.facilityService.DeleteSection(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}
