package httpapi

import (
	"net/http"
	"strings"

	"abst-data/internal/repository"
	"abst-data/internal/service"

	"go.uber.org/zap"
)

// ResidentHandler resident CRUD, sheet import/export, soft-delete recovery
// and the caregiving grid.
type ResidentHandler struct {
	residentService service.ResidentService
	logger          *zap.Logger
}

func NewResidentHandler(residentService service.ResidentService, logger *zap.Logger) *ResidentHandler {
	return &ResidentHandler{
		residentService: residentService,
		logger:          logger,
	}
}

func (h *ResidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/residents" && r.Method == http.MethodGet:
		h.ListResidents(w, r)
	case r.URL.Path == "/api/v1/residents" && r.Method == http.MethodPost:
		h.CreateResident(w, r)
	case r.URL.Path == "/api/v1/residents/deleted" && r.Method == http.MethodGet:
		h.ListDeleted(w, r)
	case r.URL.Path == "/api/v1/residents/export.csv" && r.Method == http.MethodGet:
		h.ExportCSV(w, r)
	case r.URL.Path == "/api/v1/residents/export.xlsx" && r.Method == http.MethodGet:
		h.ExportXLSX(w, r)
	case r.URL.Path == "/api/v1/residents/import" && r.Method == http.MethodPost:
		h.ImportCSV(w, r)
	case r.URL.Path == "/api/v1/residents/caregiving-summary" && r.Method == http.MethodGet:
		h.FacilitySummary(w, r)

	case strings.HasSuffix(r.URL.Path, "/restore") && r.Method == http.MethodPost:
		h.RestoreResident(w, r)
	case strings.HasSuffix(r.URL.Path, "/total-shift-times") && r.Method == http.MethodPut:
		h.UpdateTotalShiftTimes(w, r)
	case strings.HasSuffix(r.URL.Path, "/caregiving-summary") && r.Method == http.MethodGet:
		h.ResidentSummary(w, r)

	case strings.HasPrefix(r.URL.Path, "/api/v1/residents/") && r.Method == http.MethodGet:
		h.GetResident(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/residents/") && r.Method == http.MethodPut:
		h.UpdateResident(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/residents/") && r.Method == http.MethodDelete:
		h.DeleteResident(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// subresourceID extracts {id} from /api/v1/residents/{id}/{action}.
func subresourceID(path, prefix, action string) (string, bool) {
	id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/"+action)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (h *ResidentHandler) ListResidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	residents, err := h.residentService.ListResidents(r.Context(), repository.ResidentFilters{
		FacilityID: q.Get("facility"),
		SectionID:  q.Get("facility_section"),
		Status:     q.Get("status"),
		Search:     q.Get("search"),
	})
	if err != nil {
		h.logger.Error("ListResidents failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(residents))
}

func (h *ResidentHandler) GetResident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/residents/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	resident, err := h.residentService.GetResident(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resident))
}

func (h *ResidentHandler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var req service.ResidentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	resident, err := h.residentService.CreateResident(r.Context(), req)
	if err != nil {
		h.logger.Error("CreateResident failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resident))
}

func (h *ResidentHandler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/residents/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.ResidentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	resident, err := h.residentService.UpdateResident(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resident))
}

func (h *ResidentHandler) DeleteResident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/residents/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.residentService.DeleteResident(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

func (h *ResidentHandler) RestoreResident(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/residents/", "restore")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	resident, err := h.residentService.RestoreResident(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resident))
}

func (h *ResidentHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	residents, err := h.residentService.ListDeletedResidents(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(residents))
}

func (h *ResidentHandler) UpdateTotalShiftTimes(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/residents/", "total-shift-times")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var times map[string]float64
	if err := readBodyJSON(r, 1<<20, &times); err != nil {
		writeBadRequest(w, err)
		return
	}
	resident, err := h.residentService.UpdateTotalShiftTimes(r.Context(), id, times)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resident))
}

// ============================================
// Import / export
// ============================================

func (h *ResidentHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.residentService.ExportResidentsCSV(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		h.logger.Error("ExportResidentsCSV failed", zap.Error(err))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="residents.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ResidentHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.residentService.ExportResidentsXLSX(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		h.logger.Error("ExportResidentsXLSX failed", zap.Error(err))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="residents.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportCSV accepts either a multipart "file" field or a raw CSV body.
func (h *ResidentHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.residentService.ImportResidentsCSV(r.Context(), body)
	if err != nil {
		h.logger.Error("ImportResidentsCSV failed", zap.Error(err))
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// ============================================
// Caregiving summaries
// ============================================

func (h *ResidentHandler) ResidentSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/residents/", "caregiving-summary")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	summary, err := h.residentService.ResidentCaregivingSummary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

func (h *ResidentHandler) FacilitySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.residentService.FacilityCaregivingSummary(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}
