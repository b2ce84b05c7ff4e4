package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"abst-data/internal/domain"
)

// PostgresStaffRepository StaffRepository over database/sql + lib/pq.
type PostgresStaffRepository struct {
	db *sql.DB
}

// NewPostgresStaffRepository creates the staff repository.
func NewPostgresStaffRepository(db *sql.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

var _ StaffRepository = (*PostgresStaffRepository)(nil)

const staffColumns = `
	staff_id::text,
	employee_id,
	first_name,
	last_name,
	role,
	status,
	hire_date,
	facility_id::text,
	COALESCE(certifications, '[]'::jsonb)::text AS certifications,
	COALESCE(skills, '[]'::jsonb)::text AS skills,
	max_hours_per_week,
	COALESCE(preferred_shifts, '[]'::jsonb)::text AS preferred_shifts,
	COALESCE(notes, '') AS notes,
	created_at,
	updated_at
`

func scanStaff(row interface{ Scan(...any) error }) (*domain.Staff, error) {
	var st domain.Staff
	var facilityID sql.NullString
	var certsRaw, skillsRaw, prefsRaw sql.NullString

	err := row.Scan(
		&st.StaffID,
		&st.EmployeeID,
		&st.FirstName,
		&st.LastName,
		&st.Role,
		&st.Status,
		&st.HireDate,
		&facilityID,
		&certsRaw,
		&skillsRaw,
		&st.MaxHoursPerWeek,
		&prefsRaw,
		&st.Notes,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if facilityID.Valid {
		st.FacilityID = facilityID.String
	}
	if st.Certifications, err = stringList(certsRaw); err != nil {
		return nil, err
	}
	if st.Skills, err = stringList(skillsRaw); err != nil {
		return nil, err
	}
	if st.PreferredShifts, err = stringList(prefsRaw); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStaff returns staff matching the filters, ordered by last/first name.
func (r *PostgresStaffRepository) ListStaff(ctx context.Context, filters StaffFilters) ([]*domain.Staff, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + staffColumns + ` FROM staff`)

	conds := []string{}
	args := []any{}
	if filters.FacilityID != "" {
		args = append(args, filters.FacilityID)
		conds = append(conds, `facility_id = $`+strconv.Itoa(len(args)))
	}
	if filters.Role != "" {
		args = append(args, filters.Role)
		conds = append(conds, `role = $`+strconv.Itoa(len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conds = append(conds, `status = $`+strconv.Itoa(len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, `(first_name ILIKE $`+n+` OR last_name ILIKE $`+n+`)`)
	}
	if len(conds) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	sb.WriteString(` ORDER BY last_name, first_name`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	staff := []*domain.Staff{}
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, st)
	}
	return staff, rows.Err()
}

// GetStaff fetches one staff member by id.
func (r *PostgresStaffRepository) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff_id is required")
	}
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1`

	st, err := scanStaff(r.db.QueryRowContext(ctx, query, staffID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("staff")
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return st, nil
}

// CreateStaff inserts a staff member and returns its id.
func (r *PostgresStaffRepository) CreateStaff(ctx context.Context, staff *domain.Staff) (string, error) {
	if staff.EmployeeID == "" || staff.FirstName == "" || staff.LastName == "" || staff.Role == "" {
		return "", fmt.Errorf("employee_id, first_name, last_name and role are required")
	}

	certs, err := marshalJSONB(staff.Certifications, true)
	if err != nil {
		return "", err
	}
	skills, err := marshalJSONB(staff.Skills, true)
	if err != nil {
		return "", err
	}
	prefs, err := marshalJSONB(staff.PreferredShifts, true)
	if err != nil {
		return "", err
	}

	var facilityID any
	if staff.FacilityID != "" {
		facilityID = staff.FacilityID
	}

	maxHours := staff.MaxHoursPerWeek
	if maxHours <= 0 {
		maxHours = 40
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO staff (
			employee_id, first_name, last_name, role, status, hire_date,
			facility_id, certifications, skills, max_hours_per_week,
			preferred_shifts, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11::jsonb, $12)
		RETURNING staff_id::text
	`,
		staff.EmployeeID,
		staff.FirstName,
		staff.LastName,
		staff.Role,
		staff.Status,
		staff.HireDate,
		facilityID,
		string(certs),
		string(skills),
		maxHours,
		string(prefs),
		staff.Notes,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create staff: %w", err)
	}
	return id, nil
}

// UpdateStaff updates all mutable columns.
func (r *PostgresStaffRepository) UpdateStaff(ctx context.Context, staffID string, staff *domain.Staff) error {
	certs, err := marshalJSONB(staff.Certifications, true)
	if err != nil {
		return err
	}
	skills, err := marshalJSONB(staff.Skills, true)
	if err != nil {
		return err
	}
	prefs, err := marshalJSONB(staff.PreferredShifts, true)
	if err != nil {
		return err
	}

	var facilityID any
	if staff.FacilityID != "" {
		facilityID = staff.FacilityID
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE staff SET
			employee_id = $2,
			first_name = $3,
			last_name = $4,
			role = $5,
			status = $6,
			hire_date = $7,
			facility_id = $8,
			certifications = $9::jsonb,
			skills = $10::jsonb,
			max_hours_per_week = $11,
			preferred_shifts = $12::jsonb,
			notes = $13,
			updated_at = NOW()
		WHERE staff_id = $1
	`,
		staffID,
		staff.EmployeeID,
		staff.FirstName,
		staff.LastName,
		staff.Role,
		staff.Status,
		staff.HireDate,
		facilityID,
		string(certs),
		string(skills),
		staff.MaxHoursPerWeek,
		string(prefs),
		staff.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("staff")
	}
	return nil
}

// DeleteStaff removes a staff member.
func (r *PostgresStaffRepository) DeleteStaff(ctx context.Context, staffID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE staff_id = $1`, staffID)
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("staff")
	}
	return nil
}

// ============================================
// Availability
// ============================================

const availabilityColumns = `
	availability_id::text,
	staff_id::text,
	date,
	availability_status,
	is_available,
	preferred_start_time,
	preferred_end_time,
	max_hours,
	COALESCE(preferred_shifts, '[]'::jsonb)::text AS preferred_shifts,
	COALESCE(notes, '') AS notes,
	created_at,
	updated_at
`

func scanAvailability(row interface{ Scan(...any) error }) (*domain.StaffAvailability, error) {
	var av domain.StaffAvailability
	var prefStart, prefEnd sql.NullString
	var maxHours sql.NullInt64
	var prefsRaw sql.NullString

	err := row.Scan(
		&av.AvailabilityID,
		&av.StaffID,
		&av.Date,
		&av.AvailabilityStatus,
		&av.IsAvailable,
		&prefStart,
		&prefEnd,
		&maxHours,
		&prefsRaw,
		&av.Notes,
		&av.CreatedAt,
		&av.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if prefStart.Valid {
		av.PreferredStartTime = &prefStart.String
	}
	if prefEnd.Valid {
		av.PreferredEndTime = &prefEnd.String
	}
	if maxHours.Valid {
		v := int(maxHours.Int64)
		av.MaxHours = &v
	}
	if av.PreferredShifts, err = stringList(prefsRaw); err != nil {
		return nil, err
	}
	return &av, nil
}

// UpsertAvailability inserts or replaces the (staff_id, date) row.
// is_available is derived from the status, matching the ABST rule.
func (r *PostgresStaffRepository) UpsertAvailability(ctx context.Context, availability *domain.StaffAvailability) (string, error) {
	if availability.StaffID == "" {
		return "", fmt.Errorf("staff_id is required")
	}

	status := availability.AvailabilityStatus
	if status == "" {
		status = "available"
	}
	isAvailable := domain.AvailableStatuses()[status]

	prefs, err := marshalJSONB(availability.PreferredShifts, true)
	if err != nil {
		return "", err
	}

	var maxHours any
	if availability.MaxHours != nil {
		maxHours = *availability.MaxHours
	}
	var prefStart, prefEnd any
	if availability.PreferredStartTime != nil {
		prefStart = *availability.PreferredStartTime
	}
	if availability.PreferredEndTime != nil {
		prefEnd = *availability.PreferredEndTime
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO staff_availability (
			staff_id, date, availability_status, is_available,
			preferred_start_time, preferred_end_time, max_hours,
			preferred_shifts, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		ON CONFLICT (staff_id, date) DO UPDATE SET
			availability_status = EXCLUDED.availability_status,
			is_available = EXCLUDED.is_available,
			preferred_start_time = EXCLUDED.preferred_start_time,
			preferred_end_time = EXCLUDED.preferred_end_time,
			max_hours = EXCLUDED.max_hours,
			preferred_shifts = EXCLUDED.preferred_shifts,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING availability_id::text
	`,
		availability.StaffID,
		availability.Date,
		status,
		isAvailable,
		prefStart,
		prefEnd,
		maxHours,
		string(prefs),
		availability.Notes,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert availability: %w", err)
	}
	return id, nil
}

// ListAvailability returns availability rows for one staff member, date ascending.
func (r *PostgresStaffRepository) ListAvailability(ctx context.Context, staffID string, start, end *time.Time) ([]*domain.StaffAvailability, error) {
	args := []any{staffID}
	query := `SELECT ` + availabilityColumns + ` FROM staff_availability WHERE staff_id = $1`
	if start != nil {
		args = append(args, *start)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	defer rows.Close()

	out := []*domain.StaffAvailability{}
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		out = append(out, av)
	}
	return out, rows.Err()
}

// ListAvailabilityForWeek returns all availability rows in a facility for
// [weekStart, weekStart+7d).
func (r *PostgresStaffRepository) ListAvailabilityForWeek(ctx context.Context, facilityID string, weekStart time.Time) ([]*domain.StaffAvailability, error) {
	query := `
		SELECT
			av.availability_id::text,
			av.staff_id::text,
			av.date,
			av.availability_status,
			av.is_available,
			av.preferred_start_time,
			av.preferred_end_time,
			av.max_hours,
			COALESCE(av.preferred_shifts, '[]'::jsonb)::text AS preferred_shifts,
			COALESCE(av.notes, '') AS notes,
			av.created_at,
			av.updated_at
		FROM staff_availability av
		JOIN staff st ON st.staff_id = av.staff_id
		WHERE st.facility_id = $1 AND av.date >= $2 AND av.date < $3
		ORDER BY av.date
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly availability: %w", err)
	}
	defer rows.Close()

	out := []*domain.StaffAvailability{}
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		out = append(out, av)
	}
	return out, rows.Err()
}
