package repository

import (
	"context"
	"database/sql"
	"fmt"

	"abst-data/internal/domain"
)

// PostgresFacilitiesRepository FacilitiesRepository over database/sql + lib/pq.
type PostgresFacilitiesRepository struct {
	db *sql.DB
}

// NewPostgresFacilitiesRepository creates the facilities repository.
func NewPostgresFacilitiesRepository(db *sql.DB) *PostgresFacilitiesRepository {
	return &PostgresFacilitiesRepository{db: db}
}

var _ FacilitiesRepository = (*PostgresFacilitiesRepository)(nil)

const facilityColumns = `
	facility_id::text,
	facility_code,
	name,
	COALESCE(facility_type, '') AS facility_type,
	COALESCE(admin_name, '') AS admin_name,
	COALESCE(phone, '') AS phone,
	COALESCE(email, '') AS email,
	COALESCE(address, '') AS address,
	COALESCE(city, '') AS city,
	COALESCE(state, '') AS state,
	COALESCE(zip_code, '') AS zip_code,
	created_at,
	updated_at
`

func scanFacility(row interface{ Scan(...any) error }) (*domain.Facility, error) {
	var f domain.Facility
	err := row.Scan(
		&f.FacilityID,
		&f.FacilityCode,
		&f.Name,
		&f.FacilityType,
		&f.AdminName,
		&f.Phone,
		&f.Email,
		&f.Address,
		&f.City,
		&f.State,
		&f.ZipCode,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFacilities returns all facilities ordered by name.
func (r *PostgresFacilitiesRepository) ListFacilities(ctx context.Context) ([]*domain.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	defer rows.Close()

	facilities := []*domain.Facility{}
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", err)
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

// GetFacility fetches one facility by id.
func (r *PostgresFacilitiesRepository) GetFacility(ctx context.Context, facilityID string) (*domain.Facility, error) {
	if facilityID == "" {
		return nil, fmt.Errorf("facility_id is required")
	}
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE facility_id = $1`

	f, err := scanFacility(r.db.QueryRowContext(ctx, query, facilityID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("facility")
		}
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}
	return f, nil
}

// GetFacilityByCode fetches one facility by its external business key.
func (r *PostgresFacilitiesRepository) GetFacilityByCode(ctx context.Context, facilityCode string) (*domain.Facility, error) {
	if facilityCode == "" {
		return nil, fmt.Errorf("facility_code is required")
	}
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE facility_code = $1`

	f, err := scanFacility(r.db.QueryRowContext(ctx, query, facilityCode))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("facility")
		}
		return nil, fmt.Errorf("failed to get facility by code: %w", err)
	}
	return f, nil
}

// CreateFacility inserts a facility and returns its id.
func (r *PostgresFacilitiesRepository) CreateFacility(ctx context.Context, facility *domain.Facility) (string, error) {
	if facility.Name == "" || facility.FacilityCode == "" {
		return "", fmt.Errorf("name and facility_code are required")
	}

	query := `
		INSERT INTO facilities (
			facility_code, name, facility_type, admin_name, phone, email,
			address, city, state, zip_code
		) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
		RETURNING facility_id::text
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		facility.FacilityCode,
		facility.Name,
		facility.FacilityType,
		facility.AdminName,
		facility.Phone,
		facility.Email,
		facility.Address,
		facility.City,
		facility.State,
		facility.ZipCode,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create facility: %w", err)
	}
	return id, nil
}

// UpdateFacility updates all mutable columns.
func (r *PostgresFacilitiesRepository) UpdateFacility(ctx context.Context, facilityID string, facility *domain.Facility) error {
	if facilityID == "" {
		return fmt.Errorf("facility_id is required")
	}

	query := `
		UPDATE facilities SET
			facility_code = $2,
			name = $3,
			facility_type = NULLIF($4, ''),
			admin_name = NULLIF($5, ''),
			phone = NULLIF($6, ''),
			email = NULLIF($7, ''),
			address = NULLIF($8, ''),
			city = NULLIF($9, ''),
			state = NULLIF($10, ''),
			zip_code = NULLIF($11, ''),
			updated_at = NOW()
		WHERE facility_id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		facilityID,
		facility.FacilityCode,
		facility.Name,
		facility.FacilityType,
		facility.AdminName,
		facility.Phone,
		facility.Email,
		facility.Address,
		facility.City,
		facility.State,
		facility.ZipCode,
	)
	if err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("facility")
	}
	return nil
}

// DeleteFacility removes a facility (cascades to sections/residents at the DB level).
func (r *PostgresFacilitiesRepository) DeleteFacility(ctx context.Context, facilityID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE facility_id = $1`, facilityID)
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("facility")
	}
	return nil
}

// GetOrCreateFacilityByCode fetches by code, inserting when missing.
func (r *PostgresFacilitiesRepository) GetOrCreateFacilityByCode(ctx context.Context, facilityCode, name string) (*domain.Facility, error) {
	query := `
		INSERT INTO facilities (facility_code, name)
		VALUES ($1, $2)
		ON CONFLICT (facility_code) DO UPDATE SET facility_code = EXCLUDED.facility_code
		RETURNING ` + facilityColumns

	f, err := scanFacility(r.db.QueryRowContext(ctx, query, facilityCode, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create facility: %w", err)
	}
	return f, nil
}

// ============================================
// Sections
// ============================================

// ListSections returns the sections of a facility with occupancy counts.
func (r *PostgresFacilitiesRepository) ListSections(ctx context.Context, facilityID string) ([]*domain.FacilitySection, error) {
	query := `
		SELECT
			s.section_id::text,
			s.facility_id::text,
			s.name,
			COUNT(res.resident_id) AS occupancy
		FROM facility_sections s
		LEFT JOIN residents res ON res.section_id = s.section_id AND res.is_deleted = FALSE
		WHERE s.facility_id = $1
		GROUP BY s.section_id, s.facility_id, s.name
		ORDER BY s.name
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	sections := []*domain.FacilitySection{}
	for rows.Next() {
		var s domain.FacilitySection
		if err := rows.Scan(&s.SectionID, &s.FacilityID, &s.Name, &s.Occupancy); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, &s)
	}
	return sections, rows.Err()
}

// GetSection fetches one section with its occupancy count.
func (r *PostgresFacilitiesRepository) GetSection(ctx context.Context, sectionID string) (*domain.FacilitySection, error) {
	query := `
		SELECT
			s.section_id::text,
			s.facility_id::text,
			s.name,
			COUNT(res.resident_id) AS occupancy
		FROM facility_sections s
		LEFT JOIN residents res ON res.section_id = s.section_id AND res.is_deleted = FALSE
		WHERE s.section_id = $1
		GROUP BY s.section_id, s.facility_id, s.name
	`

	var s domain.FacilitySection
	err := r.db.QueryRowContext(ctx, query, sectionID).Scan(&s.SectionID, &s.FacilityID, &s.Name, &s.Occupancy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("facility section")
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &s, nil
}

// CreateSection inserts a section and returns its id.
func (r *PostgresFacilitiesRepository) CreateSection(ctx context.Context, section *domain.FacilitySection) (string, error) {
	if section.FacilityID == "" || section.Name == "" {
		return "", fmt.Errorf("facility_id and name are required")
	}

	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO facility_sections (facility_id, name) VALUES ($1, $2) RETURNING section_id::text`,
		section.FacilityID, section.Name,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create section: %w", err)
	}
	return id, nil
}

// UpdateSection renames a section.
func (r *PostgresFacilitiesRepository) UpdateSection(ctx context.Context, sectionID string, section *domain.FacilitySection) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE facility_sections SET name = $2 WHERE section_id = $1`,
		sectionID, section.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("facility section")
	}
	return nil
}

// DeleteSection removes a section.
func (r *PostgresFacilitiesRepository) DeleteSection(ctx context.Context, sectionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facility_sections WHERE section_id = $1`, sectionID)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("facility section")
	}
	return nil
}

// GetOrCreateSection fetches by (facility_id, name), inserting when missing.
func (r *PostgresFacilitiesRepository) GetOrCreateSection(ctx context.Context, facilityID, name string) (*domain.FacilitySection, error) {
	query := `
		INSERT INTO facility_sections (facility_id, name)
		VALUES ($1, $2)
		ON CONFLICT (facility_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING section_id::text, facility_id::text, name
	`

	var s domain.FacilitySection
	err := r.db.QueryRowContext(ctx, query, facilityID, name).Scan(&s.SectionID, &s.FacilityID, &s.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create section: %w", err)
	}
	return &s, nil
}
