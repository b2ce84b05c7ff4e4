package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"abst-data/internal/domain"
)

// PostgresResidentsRepository ResidentsRepository over database/sql + lib/pq.
type PostgresResidentsRepository struct {
	db *sql.DB
}

// NewPostgresResidentsRepository creates the residents repository.
func NewPostgresResidentsRepository(db *sql.DB) *PostgresResidentsRepository {
	return &PostgresResidentsRepository{db: db}
}

var _ ResidentsRepository = (*PostgresResidentsRepository)(nil)

const residentColumns = `
	resident_id::text,
	section_id::text,
	name,
	status,
	COALESCE(total_shift_times, '{}'::jsonb)::text AS total_shift_times,
	created_at,
	updated_at,
	is_deleted,
	deleted_at
`

func scanResident(row interface{ Scan(...any) error }) (*domain.Resident, error) {
	var res domain.Resident
	var timesRaw sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&res.ResidentID,
		&res.SectionID,
		&res.Name,
		&res.Status,
		&timesRaw,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.IsDeleted,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		res.DeletedAt = &deletedAt.Time
	}
	times, err := minutesMap(timesRaw)
	if err != nil {
		return nil, err
	}
	res.TotalShiftTimes = times
	return &res, nil
}

// ListResidents returns residents matching the filters, newest first.
func (r *PostgresResidentsRepository) ListResidents(ctx context.Context, filters ResidentFilters) ([]*domain.Resident, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + residentColumns + ` FROM residents r`)

	conds := []string{}
	args := []any{}

	if filters.FacilityID != "" {
		sb.WriteString(` JOIN facility_sections s ON s.section_id = r.section_id`)
		args = append(args, filters.FacilityID)
		conds = append(conds, `s.facility_id = $`+strconv.Itoa(len(args)))
	}
	if !filters.IncludeDeleted {
		conds = append(conds, `r.is_deleted = FALSE`)
	}
	if filters.SectionID != "" {
		args = append(args, filters.SectionID)
		conds = append(conds, `r.section_id = $`+strconv.Itoa(len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conds = append(conds, `r.status = $`+strconv.Itoa(len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conds = append(conds, `r.name ILIKE $`+strconv.Itoa(len(args)))
	}

	if len(conds) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	sb.WriteString(` ORDER BY r.created_at DESC`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}
	defer rows.Close()

	residents := []*domain.Resident{}
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resident: %w", err)
		}
		residents = append(residents, res)
	}
	return residents, rows.Err()
}

// GetResident fetches one resident by id (soft-deleted rows included).
func (r *PostgresResidentsRepository) GetResident(ctx context.Context, residentID string) (*domain.Resident, error) {
	if residentID == "" {
		return nil, fmt.Errorf("resident_id is required")
	}
	query := `SELECT ` + residentColumns + ` FROM residents r WHERE resident_id = $1`

	res, err := scanResident(r.db.QueryRowContext(ctx, query, residentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("resident")
		}
		return nil, fmt.Errorf("failed to get resident: %w", err)
	}
	return res, nil
}

// CreateResident inserts a resident and returns its id.
func (r *PostgresResidentsRepository) CreateResident(ctx context.Context, resident *domain.Resident) (string, error) {
	if resident.SectionID == "" || resident.Name == "" {
		return "", fmt.Errorf("section_id and name are required")
	}

	times, err := marshalJSONB(resident.TotalShiftTimes, false)
	if err != nil {
		return "", err
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO residents (section_id, name, status, total_shift_times)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING resident_id::text
	`, resident.SectionID, resident.Name, resident.Status, string(times)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create resident: %w", err)
	}
	return id, nil
}

// UpdateResident updates name/status/section and the care-minute map.
func (r *PostgresResidentsRepository) UpdateResident(ctx context.Context, residentID string, resident *domain.Resident) error {
	times, err := marshalJSONB(resident.TotalShiftTimes, false)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE residents SET
			section_id = $2,
			name = $3,
			status = $4,
			total_shift_times = $5::jsonb,
			updated_at = NOW()
		WHERE resident_id = $1
	`, residentID, resident.SectionID, resident.Name, resident.Status, string(times))
	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("resident")
	}
	return nil
}

// SoftDeleteResident flags the row deleted and stamps deleted_at.
func (r *PostgresResidentsRepository) SoftDeleteResident(ctx context.Context, residentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE residents SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE resident_id = $1 AND is_deleted = FALSE
	`, residentID)
	if err != nil {
		return fmt.Errorf("failed to soft delete resident: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("resident")
	}
	return nil
}

// RestoreResident clears the soft delete flag.
func (r *PostgresResidentsRepository) RestoreResident(ctx context.Context, residentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE residents SET is_deleted = FALSE, deleted_at = NULL, updated_at = NOW()
		WHERE resident_id = $1 AND is_deleted = TRUE
	`, residentID)
	if err != nil {
		return fmt.Errorf("failed to restore resident: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("resident")
	}
	return nil
}

// UpsertResidentByName matches on (name, section_id); updates status when
// found, inserts otherwise. Import rows never resurrect deleted residents.
func (r *PostgresResidentsRepository) UpsertResidentByName(ctx context.Context, sectionID, name, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE residents SET status = $3, updated_at = NOW()
		WHERE section_id = $1 AND name = $2 AND is_deleted = FALSE
	`, sectionID, name, status)
	if err != nil {
		return false, fmt.Errorf("failed to upsert resident: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO residents (section_id, name, status) VALUES ($1, $2, $3)
	`, sectionID, name, status)
	if err != nil {
		return false, fmt.Errorf("failed to insert resident: %w", err)
	}
	return true, nil
}

// UpdateTotalShiftTimes replaces the aggregated care-minute map.
func (r *PostgresResidentsRepository) UpdateTotalShiftTimes(ctx context.Context, residentID string, times map[string]float64) error {
	raw, err := marshalJSONB(times, false)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE residents SET total_shift_times = $2::jsonb, updated_at = NOW()
		WHERE resident_id = $1
	`, residentID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to update total shift times: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("resident")
	}
	return nil
}
