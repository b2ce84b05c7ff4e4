package repository

import (
	"context"

	"abst-data/internal/domain"
)

// UsersRepository accounts + per-facility access grants.
type UsersRepository interface {
	GetUserByAccountHash(ctx context.Context, accountHash string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (string, error)
	UpdateUserStatus(ctx context.Context, userID, status string) error

	ListFacilityAccess(ctx context.Context, userID string) ([]*domain.FacilityAccess, error)
	ListPendingFacilityAccess(ctx context.Context) ([]*domain.FacilityAccess, error)
	RequestFacilityAccess(ctx context.Context, access *domain.FacilityAccess) (string, error)
	ReviewFacilityAccess(ctx context.Context, accessID, status string) error
	HasFacilityAccess(ctx context.Context, userID, facilityID string) (bool, error)
}
