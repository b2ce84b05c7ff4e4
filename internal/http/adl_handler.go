package httpapi

import (
	"net/http"
	"strings"

	"abst-data/internal/repository"
	"abst-data/internal/service"

	"go.uber.org/zap"
)

// ADLHandler ADL records, question catalog and summaries.
type ADLHandler struct {
	adlService service.ADLService
	logger     *zap.Logger
}

func NewADLHandler(adlService service.ADLService, logger *zap.Logger) *ADLHandler {
	return &ADLHandler{
		adlService: adlService,
		logger:     logger,
	}
}

func (h *ADLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/adls" && r.Method == http.MethodGet:
		h.ListADLs(w, r)
	case r.URL.Path == "/api/v1/adls" && r.Method == http.MethodPost:
		h.CreateADL(w, r)
	case r.URL.Path == "/api/v1/adls/deleted" && r.Method == http.MethodGet:
		h.ListDeleted(w, r)
	case r.URL.Path == "/api/v1/adls/summary" && r.Method == http.MethodGet:
		h.Summary(w, r)
	case r.URL.Path == "/api/v1/adls/caregiving-summary" && r.Method == http.MethodGet:
		h.CaregivingSummary(w, r)
	case r.URL.Path == "/api/v1/adls/by-date" && r.Method == http.MethodGet:
		h.ListByDate(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/adls/by-resident/") && r.Method == http.MethodGet:
		h.ListByResident(w, r)

	case strings.HasSuffix(r.URL.Path, "/restore") && r.Method == http.MethodPost:
		h.RestoreADL(w, r)

	case strings.HasPrefix(r.URL.Path, "/api/v1/adls/") && r.Method == http.MethodGet:
		h.GetADL(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/adls/") && r.Method == http.MethodPut:
		h.UpdateADL(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/adls/") && r.Method == http.MethodDelete:
		h.DeleteADL(w, r)

	case r.URL.Path == "/api/v1/adl-questions" && r.Method == http.MethodGet:
		h.ListQuestions(w, r)
	case r.URL.Path == "/api/v1/adl-questions/seed" && r.Method == http.MethodPost:
		h.SeedQuestions(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// adlFilters shared query-string parsing for ADL list endpoints.
func adlFilters(r *http.Request) (repository.ADLFilters, error) {
	q := r.URL.Query()
	start, end, err := service.ParseDateFilter(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		return repository.ADLFilters{}, err
	}
	return repository.ADLFilters{
		ResidentID: q.Get("resident"),
		FacilityID: q.Get("facility"),
		StartDate:  start,
		EndDate:    end,
	}, nil
}

func (h *ADLHandler) ListADLs(w http.ResponseWriter, r *http.Request) {
	filters, err := adlFilters(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	adls, err := h.adlService.ListADLs(r.Context(), filters)
	if err != nil {
		h.logger.Error("ListADLs failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adls))
}

func (h *ADLHandler) ListByResident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/adls/by-resident/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	adls, err := h.adlService.ListADLs(r.Context(), repository.ADLFilters{ResidentID: id})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adls))
}

func (h *ADLHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	filters, err := adlFilters(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if filters.StartDate == nil && filters.EndDate == nil {
		writeJSON(w, http.StatusBadRequest, Fail("start_date or end_date is required"))
		return
	}
	adls, err := h.adlService.ListADLs(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adls))
}

func (h *ADLHandler) GetADL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/adls/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	adl, err := h.adlService.GetADL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adl))
}

func (h *ADLHandler) CreateADL(w http.ResponseWriter, r *http.Request) {
	var req service.ADLRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	adl, err := h.adlService.CreateADL(r.Context(), req)
	if err != nil {
		h.logger.Error("CreateADL failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(adl))
}

func (h *ADLHandler) UpdateADL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/adls/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req service.ADLRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	adl, err := h.adlService.UpdateADL(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adl))
}

func (h *ADLHandler) DeleteADL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/v1/adls/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.adlService.DeleteADL(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": id}))
}

func (h *ADLHandler) RestoreADL(w http.ResponseWriter, r *http.Request) {
	id, ok := subresourceID(r.URL.Path, "/api/v1/adls/", "restore")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	adl, err := h.adlService.RestoreADL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adl))
}

func (h *ADLHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	adls, err := h.adlService.ListDeletedADLs(r.Context(), r.URL.Query().Get("facility"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(adls))
}

func (h *ADLHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filters, err := adlFilters(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	summary, err := h.adlService.Summary(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

func (h *ADLHandler) CaregivingSummary(w http.ResponseWriter, r *http.Request) {
	filters, err := adlFilters(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	summary, err := h.adlService.CaregivingSummary(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

func (h *ADLHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.adlService.ListQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(questions))
}

func (h *ADLHandler) SeedQuestions(w http.ResponseWriter, r *http.Request) {
	created, err := h.adlService.SeedDefaultQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"created": created}))
}
