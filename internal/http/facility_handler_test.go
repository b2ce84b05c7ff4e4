package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"abst-data/internal/domain"
	"abst-data/internal/repository"
	"abst-data/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFacilityService map-backed service.FacilityService.
type fakeFacilityService struct {
	facilities map[string]*domain.Facility
	sections   map[string]*domain.FacilitySection
	nextID     int
}

var _ service.FacilityService = (*fakeFacilityService)(nil)

func newFakeFacilityService() *fakeFacilityService {
	return &fakeFacilityService{
		facilities: map[string]*domain.Facility{},
		sections:   map[string]*domain.FacilitySection{},
	}
}

func (f *fakeFacilityService) ListFacilities(context.Context) ([]*domain.Facility, error) {
	out := []*domain.Facility{}
	for _, fac := range f.facilities {
		out = append(out, fac)
	}
	return out, nil
}

func (f *fakeFacilityService) GetFacility(_ context.Context, facilityID string) (*domain.Facility, error) {
	fac, ok := f.facilities[facilityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fac, nil
}

func (f *fakeFacilityService) CreateFacility(_ context.Context, req service.CreateFacilityRequest) (*domain.Facility, error) {
	f.nextID++
	fac := &domain.Facility{
		FacilityID:   fmt.Sprintf("f-%d", f.nextID),
		FacilityCode: req.FacilityCode,
		Name:         req.Name,
	}
	f.facilities[fac.FacilityID] = fac
	return fac, nil
}

func (f *fakeFacilityService) UpdateFacility(ctx context.Context, facilityID string, req service.UpdateFacilityRequest) (*domain.Facility, error) {
	fac, err := f.GetFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	fac.Name = req.Name
	return fac, nil
}

func (f *fakeFacilityService) DeleteFacility(_ context.Context, facilityID string) error {
	if _, ok := f.facilities[facilityID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.facilities, facilityID)
	return nil
}

func (f *fakeFacilityService) ListSections(_ context.Context, facilityID string) ([]*domain.FacilitySection, error) {
	out := []*domain.FacilitySection{}
	for _, sec := range f.sections {
		if facilityID == "" || sec.FacilityID == facilityID {
			out = append(out, sec)
		}
	}
	return out, nil
}

func (f *fakeFacilityService) GetSection(_ context.Context, sectionID string) (*domain.FacilitySection, error) {
	sec, ok := f.sections[sectionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sec, nil
}

func (f *fakeFacilityService) CreateSection(_ context.Context, req service.SectionRequest) (*domain.FacilitySection, error) {
	f.nextID++
	sec := &domain.FacilitySection{
		SectionID:  fmt.Sprintf("s-%d", f.nextID),
		FacilityID: req.FacilityID,
		Name:       req.Name,
	}
	f.sections[sec.SectionID] = sec
	return sec, nil
}

func (f *fakeFacilityService) UpdateSection(ctx context.Context, sectionID string, req service.SectionRequest) (*domain.FacilitySection, error) {
	sec, err := f.GetSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	sec.Name = req.Name
	return sec, nil
}

func (f *fakeFacilityService) DeleteSection(_ context.Context, sectionID string) error {
	if _, ok := f.sections[sectionID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sections, sectionID)
	return nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Result[json.RawMessage] {
	t.Helper()
	var out Result[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestFacilityHandler_CreateAndGet(t *testing.T) {
	svc := newFakeFacilityService()
	h := NewFacilityHandler(svc, zap.NewNop())

	body := `{"facility_id":"FAC-01","name":"Sunrise Manor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/facilities", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, ResultSuccess, envelope.Code)
	assert.Equal(t, "success", envelope.Type)

	var created domain.Facility
	require.NoError(t, json.Unmarshal(envelope.Result, &created))
	assert.Equal(t, "FAC-01", created.FacilityCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/facilities/"+created.FacilityID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFacilityHandler_GetUnknown(t *testing.T) {
	h := NewFacilityHandler(newFakeFacilityService(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/facilities/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, envelope.Code)
	assert.Equal(t, "error", envelope.Type)
}

func TestFacilityHandler_BadJSON(t *testing.T) {
	h := NewFacilityHandler(newFakeFacilityService(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/facilities", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFacilityHandler_UnknownRoute(t *testing.T) {
	h := NewFacilityHandler(newFakeFacilityService(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/facilities", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Nested paths under a facility id are not valid routes.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/facilities/f-1/extra", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFacilityHandler_Sections(t *testing.T) {
	svc := newFakeFacilityService()
	h := NewFacilityHandler(svc, zap.NewNop())

	body := `{"facility":"f-1","name":"East Wing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/facility-sections", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/facility-sections?facility=f-1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	var sections []*domain.FacilitySection
	require.NoError(t, json.Unmarshal(envelope.Result, &sections))
	require.Len(t, sections, 1)
	assert.Equal(t, "East Wing", sections[0].Name)
}
