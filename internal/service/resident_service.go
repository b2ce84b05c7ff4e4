package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ResidentService resident management, sheet import/export and the
// per-resident caregiving grid.
type ResidentService interface {
	ListResidents(ctx context.Context, filters repository.ResidentFilters) ([]*domain.Resident, error)
	GetResident(ctx context.Context, residentID string) (*domain.Resident, error)
	CreateResident(ctx context.Context, req ResidentRequest) (*domain.Resident, error)
	UpdateResident(ctx context.Context, residentID string, req ResidentRequest) (*domain.Resident, error)
	DeleteResident(ctx context.Context, residentID string) error
	RestoreResident(ctx context.Context, residentID string) (*domain.Resident, error)
	ListDeletedResidents(ctx context.Context, facilityID string) ([]*domain.Resident, error)

	UpdateTotalShiftTimes(ctx context.Context, residentID string, times map[string]float64) (*domain.Resident, error)

	ExportResidentsCSV(ctx context.Context, facilityID string) ([]byte, error)
	ExportResidentsXLSX(ctx context.Context, facilityID string) ([]byte, error)
	ImportResidentsCSV(ctx context.Context, r io.Reader) (*ImportResult, error)

	ResidentCaregivingSummary(ctx context.Context, residentID string) (*CaregivingSummary, error)
	FacilityCaregivingSummary(ctx context.Context, facilityID string) (*CaregivingSummary, error)
}

type residentService struct {
	residentsRepo  repository.ResidentsRepository
	facilitiesRepo repository.FacilitiesRepository
	adlsRepo       repository.ADLsRepository
	logger         *zap.Logger
}

func NewResidentService(
	residentsRepo repository.ResidentsRepository,
	facilitiesRepo repository.FacilitiesRepository,
	adlsRepo repository.ADLsRepository,
	logger *zap.Logger,
) ResidentService {
	return &residentService{
		residentsRepo:  residentsRepo,
		facilitiesRepo: facilitiesRepo,
		adlsRepo:       adlsRepo,
		logger:         logger,
	}
}

// ============================================
// Request/Response DTOs
// ============================================

type ResidentRequest struct {
	SectionID       string             `json:"facility_section"`
	Name            string             `json:"name"`
	Status          string             `json:"status"`
	TotalShiftTimes map[string]float64 `json:"total_shift_times"`
}

// ImportResult outcome of a CSV import run.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// ============================================
// CRUD
// ============================================

func (s *residentService) ListResidents(ctx context.Context, filters repository.ResidentFilters) ([]*domain.Resident, error) {
	return s.residentsRepo.ListResidents(ctx, filters)
}

func (s *residentService) GetResident(ctx context.Context, residentID string) (*domain.Resident, error) {
	return s.residentsRepo.GetResident(ctx, residentID)
}

func (s *residentService) CreateResident(ctx context.Context, req ResidentRequest) (*domain.Resident, error) {
	status := req.Status
	if status == "" {
		status = domain.ResidentStatusActive
	}
	id, err := s.residentsRepo.CreateResident(ctx, &domain.Resident{
		SectionID:       req.SectionID,
		Name:            req.Name,
		Status:          status,
		TotalShiftTimes: req.TotalShiftTimes,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("resident created", zap.String("resident_id", id))
	return s.residentsRepo.GetResident(ctx, id)
}

func (s *residentService) UpdateResident(ctx context.Context, residentID string, req ResidentRequest) (*domain.Resident, error) {
	current, err := s.residentsRepo.GetResident(ctx, residentID)
	if err != nil {
		return nil, err
	}

	next := &domain.Resident{
		SectionID:       req.SectionID,
		Name:            req.Name,
		Status:          req.Status,
		TotalShiftTimes: req.TotalShiftTimes,
	}
	if next.SectionID == "" {
		next.SectionID = current.SectionID
	}
	if next.Name == "" {
		next.Name = current.Name
	}
	if next.Status == "" {
		next.Status = current.Status
	}
	if next.TotalShiftTimes == nil {
		next.TotalShiftTimes = current.TotalShiftTimes
	}

	if err := s.residentsRepo.UpdateResident(ctx, residentID, next); err != nil {
		return nil, err
	}
	return s.residentsRepo.GetResident(ctx, residentID)
}

func (s *residentService) DeleteResident(ctx context.Context, residentID string) error {
	if err := s.residentsRepo.SoftDeleteResident(ctx, residentID); err != nil {
		return err
	}
	s.logger.Info("resident soft-deleted", zap.String("resident_id", residentID))
	return nil
}

func (s *residentService) RestoreResident(ctx context.Context, residentID string) (*domain.Resident, error) {
	if err := s.residentsRepo.RestoreResident(ctx, residentID); err != nil {
		return nil, err
	}
	s.logger.Info("resident restored", zap.String("resident_id", residentID))
	return s.residentsRepo.GetResident(ctx, residentID)
}

func (s *residentService) ListDeletedResidents(ctx context.Context, facilityID string) ([]*domain.Resident, error) {
	residents, err := s.residentsRepo.ListResidents(ctx, repository.ResidentFilters{
		FacilityID:     facilityID,
		IncludeDeleted: true,
	})
	if err != nil {
		return nil, err
	}
	deleted := []*domain.Resident{}
	for _, r := range residents {
		if r.IsDeleted {
			deleted = append(deleted, r)
		}
	}
	return deleted, nil
}

func (s *residentService) UpdateTotalShiftTimes(ctx context.Context, residentID string, times map[string]float64) (*domain.Resident, error) {
	if err := s.residentsRepo.UpdateTotalShiftTimes(ctx, residentID, times); err != nil {
		return nil, err
	}
	return s.residentsRepo.GetResident(ctx, residentID)
}

// ============================================
// Sheet export / import
// ============================================

// exportRow resident joined with its section and facility for the sheets.
type exportRow struct {
	Name         string
	Status       string
	SectionName  string
	FacilityCode string
	FacilityName string
}

func (s *residentService) exportRows(ctx context.Context, facilityID string) ([]exportRow, error) {
	facilities, err := s.facilitiesRepo.ListFacilities(ctx)
	if err != nil {
		return nil, err
	}

	rows := []exportRow{}
	for _, facility := range facilities {
		if facilityID != "" && facility.FacilityID != facilityID {
			continue
		}
		sections, err := s.facilitiesRepo.ListSections(ctx, facility.FacilityID)
		if err != nil {
			return nil, err
		}
		sectionNames := map[string]string{}
		for _, sec := range sections {
			sectionNames[sec.SectionID] = sec.Name
		}

		residents, err := s.residentsRepo.ListResidents(ctx, repository.ResidentFilters{FacilityID: facility.FacilityID})
		if err != nil {
			return nil, err
		}
		for _, r := range residents {
			rows = append(rows, exportRow{
				Name:         r.Name,
				Status:       r.Status,
				SectionName:  sectionNames[r.SectionID],
				FacilityCode: facility.FacilityCode,
				FacilityName: facility.Name,
			})
		}
	}
	return rows, nil
}

func (s *residentService) ExportResidentsCSV(ctx context.Context, facilityID string) ([]byte, error) {
	rows, err := s.exportRows(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(domain.ResidentCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Name, row.Status, row.SectionName, row.FacilityCode, row.FacilityName}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *residentService) ExportResidentsXLSX(ctx context.Context, facilityID string) ([]byte, error) {
	rows, err := s.exportRows(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Residents"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range domain.ResidentCSVHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		values := []string{row.Name, row.Status, row.SectionName, row.FacilityCode, row.FacilityName}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportResidentsCSV upserts residents from a sheet. Facilities are matched
// by external code and sections by name, both get-or-create. Bad rows are
// reported, not fatal.
func (s *residentService) ImportResidentsCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	colIndex := map[string]int{}
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}
	missing := []string{}
	for _, col := range domain.ResidentImportColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{}
	seen := map[string]bool{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		get := func(col string) string { return strings.TrimSpace(record[colIndex[col]]) }
		name := get("ResidentName")
		status := get("ResidentStatus")
		sectionName := get("FacilitySectionName")
		facilityCode := get("FacilityID")
		facilityName := get("FacilityName")

		if name == "" || sectionName == "" || facilityCode == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing name, section or facility", line))
			continue
		}

		// Duplicate rows in the sheet are processed once.
		dedupe := name + "|" + sectionName + "|" + facilityCode
		if seen[dedupe] {
			continue
		}
		seen[dedupe] = true

		facility, err := s.facilitiesRepo.GetOrCreateFacilityByCode(ctx, facilityCode, facilityName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		section, err := s.facilitiesRepo.GetOrCreateSection(ctx, facility.FacilityID, sectionName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if status == "" {
			status = domain.ResidentStatusActive
		}
		created, err := s.residentsRepo.UpsertResidentByName(ctx, section.SectionID, name, status)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("resident import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// ============================================
// Caregiving summaries
// ============================================

func (s *residentService) ResidentCaregivingSummary(ctx context.Context, residentID string) (*CaregivingSummary, error) {
	if _, err := s.residentsRepo.GetResident(ctx, residentID); err != nil {
		return nil, err
	}
	adls, err := s.adlsRepo.ListADLs(ctx, repository.ADLFilters{ResidentID: residentID})
	if err != nil {
		return nil, err
	}
	return buildCaregivingSummary(adls), nil
}

func (s *residentService) FacilityCaregivingSummary(ctx context.Context, facilityID string) (*CaregivingSummary, error) {
	residents, err := s.residentsRepo.ListResidents(ctx, repository.ResidentFilters{FacilityID: facilityID})
	if err != nil {
		return nil, err
	}
	return buildCaregivingSummaryFromResidents(residents), nil
}
