package repository

import (
	"context"
	"database/sql"
	"fmt"

	"abst-data/internal/domain"
)

// PostgresUsersRepository UsersRepository over database/sql + lib/pq.
type PostgresUsersRepository struct {
	db *sql.DB
}

// NewPostgresUsersRepository creates the users repository.
func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	account,
	account_hash,
	password_hash,
	role,
	status,
	created_at
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Account,
		&u.AccountHash,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByAccountHash login lookup.
func (r *PostgresUsersRepository) GetUserByAccountHash(ctx context.Context, accountHash string) (*domain.User, error) {
	if accountHash == "" {
		return nil, fmt.Errorf("account_hash is required")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE account_hash = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, accountHash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUser fetches one user by id.
func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateUser inserts an account with precomputed hashes.
func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) (string, error) {
	if user.Account == "" || user.AccountHash == "" || user.PasswordHash == "" {
		return "", fmt.Errorf("account and hashes are required")
	}

	role := user.Role
	if role == "" {
		role = domain.UserRoleStaff
	}
	status := user.Status
	if status == "" {
		status = "active"
	}

	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (account, account_hash, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id::text
	`, user.Account, user.AccountHash, user.PasswordHash, role, status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// UpdateUserStatus activates or suspends an account.
func (r *PostgresUsersRepository) UpdateUserStatus(ctx context.Context, userID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET status = $2 WHERE user_id = $1
	`, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("user")
	}
	return nil
}

// ListFacilityAccess returns a user's access grants, newest request first.
func (r *PostgresUsersRepository) ListFacilityAccess(ctx context.Context, userID string) ([]*domain.FacilityAccess, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT access_id::text, user_id::text, facility_id::text, role, status, requested_at, approved_at
		FROM facility_access
		WHERE user_id = $1
		ORDER BY requested_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility access: %w", err)
	}
	defer rows.Close()

	grants := []*domain.FacilityAccess{}
	for rows.Next() {
		var fa domain.FacilityAccess
		var approvedAt sql.NullTime
		err := rows.Scan(&fa.AccessID, &fa.UserID, &fa.FacilityID, &fa.Role, &fa.Status, &fa.RequestedAt, &approvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility access: %w", err)
		}
		if approvedAt.Valid {
			fa.ApprovedAt = &approvedAt.Time
		}
		grants = append(grants, &fa)
	}
	return grants, rows.Err()
}

// ListPendingFacilityAccess admin review queue, oldest request first.
func (r *PostgresUsersRepository) ListPendingFacilityAccess(ctx context.Context) ([]*domain.FacilityAccess, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT access_id::text, user_id::text, facility_id::text, role, status, requested_at, approved_at
		FROM facility_access
		WHERE status = 'pending'
		ORDER BY requested_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending facility access: %w", err)
	}
	defer rows.Close()

	grants := []*domain.FacilityAccess{}
	for rows.Next() {
		var fa domain.FacilityAccess
		var approvedAt sql.NullTime
		err := rows.Scan(&fa.AccessID, &fa.UserID, &fa.FacilityID, &fa.Role, &fa.Status, &fa.RequestedAt, &approvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility access: %w", err)
		}
		if approvedAt.Valid {
			fa.ApprovedAt = &approvedAt.Time
		}
		grants = append(grants, &fa)
	}
	return grants, rows.Err()
}

// RequestFacilityAccess creates a pending grant; re-requesting resets a
// denied grant back to pending.
func (r *PostgresUsersRepository) RequestFacilityAccess(ctx context.Context, access *domain.FacilityAccess) (string, error) {
	if access.UserID == "" || access.FacilityID == "" {
		return "", fmt.Errorf("user_id and facility_id are required")
	}

	role := access.Role
	if role == "" {
		role = domain.UserRoleStaff
	}

	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO facility_access (user_id, facility_id, role, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (user_id, facility_id) DO UPDATE SET
			role = EXCLUDED.role,
			status = CASE WHEN facility_access.status = 'denied' THEN 'pending' ELSE facility_access.status END,
			requested_at = NOW()
		RETURNING access_id::text
	`, access.UserID, access.FacilityID, role).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to request facility access: %w", err)
	}
	return id, nil
}

// ReviewFacilityAccess approves or denies a pending grant.
func (r *PostgresUsersRepository) ReviewFacilityAccess(ctx context.Context, accessID, status string) error {
	if status != domain.AccessStatusApproved && status != domain.AccessStatusDenied {
		return fmt.Errorf("status must be approved or denied")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE facility_access SET
			status = $2,
			approved_at = CASE WHEN $2 = 'approved' THEN NOW() ELSE NULL END
		WHERE access_id = $1
	`, accessID, status)
	if err != nil {
		return fmt.Errorf("failed to review facility access: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("facility access")
	}
	return nil
}

// HasFacilityAccess reports an approved grant for (user, facility).
func (r *PostgresUsersRepository) HasFacilityAccess(ctx context.Context, userID, facilityID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM facility_access
			WHERE user_id = $1 AND facility_id = $2 AND status = 'approved'
		)
	`, userID, facilityID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check facility access: %w", err)
	}
	return ok, nil
}
