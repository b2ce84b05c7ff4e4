package service

import (
	"context"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"go.uber.org/zap"
)

// FacilityService facility and section management.
type FacilityService interface {
	ListFacilities(ctx context.Context) ([]*domain.Facility, error)
	GetFacility(ctx context.Context, facilityID string) (*domain.Facility, error)
	CreateFacility(ctx context.Context, req CreateFacilityRequest) (*domain.Facility, error)
	UpdateFacility(ctx context.Context, facilityID string, req UpdateFacilityRequest) (*domain.Facility, error)
	DeleteFacility(ctx context.Context, facilityID string) error

	ListSections(ctx context.Context, facilityID string) ([]*domain.FacilitySection, error)
	GetSection(ctx context.Context, sectionID string) (*domain.FacilitySection, error)
	CreateSection(ctx context.Context, req SectionRequest) (*domain.FacilitySection, error)
	UpdateSection(ctx context.Context, sectionID string, req SectionRequest) (*domain.FacilitySection, error)
	DeleteSection(ctx context.Context, sectionID string) error
}

type facilityService struct {
	facilitiesRepo repository.FacilitiesRepository
	logger         *zap.Logger
}

func NewFacilityService(facilitiesRepo repository.FacilitiesRepository, logger *zap.Logger) FacilityService {
	return &facilityService{facilitiesRepo: facilitiesRepo, logger: logger}
}

// ============================================
// Request DTOs
// ============================================

type CreateFacilityRequest struct {
	FacilityCode string `json:"facility_id"` // external business code
	Name         string `json:"name"`
	FacilityType string `json:"facility_type"`
	AdminName    string `json:"admin_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

type UpdateFacilityRequest = CreateFacilityRequest

type SectionRequest struct {
	FacilityID string `json:"facility"`
	Name       string `json:"name"`
}

// ============================================
// Implementation
// ============================================

func (s *facilityService) ListFacilities(ctx context.Context) ([]*domain.Facility, error) {
	return s.facilitiesRepo.ListFacilities(ctx)
}

func (s *facilityService) GetFacility(ctx context.Context, facilityID string) (*domain.Facility, error) {
	return s.facilitiesRepo.GetFacility(ctx, facilityID)
}

func (s *facilityService) CreateFacility(ctx context.Context, req CreateFacilityRequest) (*domain.Facility, error) {
	facility := facilityFromRequest(req)
	id, err := s.facilitiesRepo.CreateFacility(ctx, facility)
	if err != nil {
		return nil, err
	}
	s.logger.Info("facility created", zap.String("facility_id", id), zap.String("name", req.Name))
	return s.facilitiesRepo.GetFacility(ctx, id)
}

func (s *facilityService) UpdateFacility(ctx context.Context, facilityID string, req UpdateFacilityRequest) (*domain.Facility, error) {
	if err := s.facilitiesRepo.UpdateFacility(ctx, facilityID, facilityFromRequest(req)); err != nil {
		return nil, err
	}
	return s.facilitiesRepo.GetFacility(ctx, facilityID)
}

func (s *facilityService) DeleteFacility(ctx context.Context, facilityID string) error {
	if err := s.facilitiesRepo.DeleteFacility(ctx, facilityID); err != nil {
		return err
	}
	s.logger.Info("facility deleted", zap.String("facility_id", facilityID))
	return nil
}

func (s *facilityService) ListSections(ctx context.Context, facilityID string) ([]*domain.FacilitySection, error) {
	return s.facilitiesRepo.ListSections(ctx, facilityID)
}

func (s *facilityService) GetSection(ctx context.Context, sectionID string) (*domain.FacilitySection, error) {
	return s.facilitiesRepo.GetSection(ctx, sectionID)
}

func (s *facilityService) CreateSection(ctx context.Context, req SectionRequest) (*domain.FacilitySection, error) {
	id, err := s.facilitiesRepo.CreateSection(ctx, &domain.FacilitySection{
		FacilityID: req.FacilityID,
		Name:       req.Name,
	})
	if err != nil {
		return nil, err
	}
	return s.facilitiesRepo.GetSection(ctx, id)
}

func (s *facilityService) UpdateSection(ctx context.Context, sectionID string, req SectionRequest) (*domain.FacilitySection, error) {
	err := s.facilitiesRepo.UpdateSection(ctx, sectionID, &domain.FacilitySection{
		FacilityID: req.FacilityID,
		Name:       req.Name,
	})
	if err != nil {
		return nil, err
	}
	return s.facilitiesRepo.GetSection(ctx, sectionID)
}

func (s *facilityService) DeleteSection(ctx context.Context, sectionID string) error {
	return s.facilitiesRepo.DeleteSection(ctx, sectionID)
}

func facilityFromRequest(req CreateFacilityRequest) *domain.Facility {
	return &domain.Facility{
		FacilityCode: req.FacilityCode,
		Name:         req.Name,
		FacilityType: req.FacilityType,
		AdminName:    req.AdminName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
	}
}
