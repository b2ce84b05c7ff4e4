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

// PostgresShiftsRepository ShiftsRepository over database/sql + lib/pq.
type PostgresShiftsRepository struct {
	db *sql.DB
}

// NewPostgresShiftsRepository creates the shifts repository.
func NewPostgresShiftsRepository(db *sql.DB) *PostgresShiftsRepository {
	return &PostgresShiftsRepository{db: db}
}

var _ ShiftsRepository = (*PostgresShiftsRepository)(nil)

// ============================================
// Shift templates
// ============================================

const templateColumns = `
	template_id::text,
	name,
	shift_type,
	start_time,
	end_time,
	duration_hours,
	facility_id::text,
	required_staff_count,
	COALESCE(required_roles, '[]'::jsonb)::text AS required_roles,
	is_active,
	created_at,
	updated_at
`

func scanTemplate(row interface{ Scan(...any) error }) (*domain.ShiftTemplate, error) {
	var t domain.ShiftTemplate
	var rolesRaw sql.NullString

	err := row.Scan(
		&t.TemplateID,
		&t.Name,
		&t.ShiftType,
		&t.StartTime,
		&t.EndTime,
		&t.DurationHours,
		&t.FacilityID,
		&t.RequiredStaffCount,
		&rolesRaw,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.RequiredRoles, err = stringList(rolesRaw); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTemplates returns templates for a facility, day/swing/noc order.
func (r *PostgresShiftsRepository) ListTemplates(ctx context.Context, facilityID string, activeOnly bool) ([]*domain.ShiftTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM shift_templates`

	conds := []string{}
	args := []any{}
	if facilityID != "" {
		args = append(args, facilityID)
		conds = append(conds, `facility_id = $`+strconv.Itoa(len(args)))
	}
	if activeOnly {
		conds = append(conds, `is_active = TRUE`)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY CASE shift_type WHEN 'day' THEN 0 WHEN 'swing' THEN 1 ELSE 2 END, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	templates := []*domain.ShiftTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// GetTemplate fetches one template by id.
func (r *PostgresShiftsRepository) GetTemplate(ctx context.Context, templateID string) (*domain.ShiftTemplate, error) {
	if templateID == "" {
		return nil, fmt.Errorf("template_id is required")
	}
	query := `SELECT ` + templateColumns + ` FROM shift_templates WHERE template_id = $1`

	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, templateID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("shift template")
		}
		return nil, fmt.Errorf("failed to get shift template: %w", err)
	}
	return t, nil
}

// CreateTemplate inserts a template and returns its id.
func (r *PostgresShiftsRepository) CreateTemplate(ctx context.Context, template *domain.ShiftTemplate) (string, error) {
	if template.Name == "" || template.ShiftType == "" || template.FacilityID == "" {
		return "", fmt.Errorf("name, shift_type and facility_id are required")
	}

	roles, err := marshalJSONB(template.RequiredRoles, true)
	if err != nil {
		return "", err
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO shift_templates (
			name, shift_type, start_time, end_time, duration_hours,
			facility_id, required_staff_count, required_roles, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		RETURNING template_id::text
	`,
		template.Name,
		template.ShiftType,
		template.StartTime,
		template.EndTime,
		template.DurationHours,
		template.FacilityID,
		template.RequiredStaffCount,
		string(roles),
		template.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create shift template: %w", err)
	}
	return id, nil
}

// UpdateTemplate updates all mutable columns.
func (r *PostgresShiftsRepository) UpdateTemplate(ctx context.Context, templateID string, template *domain.ShiftTemplate) error {
	roles, err := marshalJSONB(template.RequiredRoles, true)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE shift_templates SET
			name = $2,
			shift_type = $3,
			start_time = $4,
			end_time = $5,
			duration_hours = $6,
			required_staff_count = $7,
			required_roles = $8::jsonb,
			is_active = $9,
			updated_at = NOW()
		WHERE template_id = $1
	`,
		templateID,
		template.Name,
		template.ShiftType,
		template.StartTime,
		template.EndTime,
		template.DurationHours,
		template.RequiredStaffCount,
		string(roles),
		template.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("shift template")
	}
	return nil
}

// DeleteTemplate removes a template.
func (r *PostgresShiftsRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shift_templates WHERE template_id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete shift template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("shift template")
	}
	return nil
}

// ============================================
// Shifts
// ============================================

// Shift rows carry template name/type/required count plus the live
// assignment count so list and calendar views need no extra round trips.
const shiftColumns = `
	sh.shift_id::text,
	sh.date,
	sh.template_id::text,
	sh.facility_id::text,
	sh.section_id::text,
	sh.status,
	sh.actual_start_time,
	sh.actual_end_time,
	COALESCE(sh.notes, '') AS notes,
	sh.created_at,
	sh.updated_at,
	t.name AS template_name,
	t.shift_type,
	t.required_staff_count,
	COALESCE(ac.assigned, 0) AS assigned_count
`

const shiftFrom = `
	FROM shifts sh
	JOIN shift_templates t ON t.template_id = sh.template_id
	LEFT JOIN (
		SELECT shift_id, COUNT(*) AS assigned
		FROM staff_assignments
		GROUP BY shift_id
	) ac ON ac.shift_id = sh.shift_id
`

func scanShift(row interface{ Scan(...any) error }) (*domain.Shift, error) {
	var sh domain.Shift
	var sectionID, actualStart, actualEnd sql.NullString

	err := row.Scan(
		&sh.ShiftID,
		&sh.Date,
		&sh.TemplateID,
		&sh.FacilityID,
		&sectionID,
		&sh.Status,
		&actualStart,
		&actualEnd,
		&sh.Notes,
		&sh.CreatedAt,
		&sh.UpdatedAt,
		&sh.TemplateName,
		&sh.ShiftType,
		&sh.RequiredStaffCount,
		&sh.AssignedCount,
	)
	if err != nil {
		return nil, err
	}

	if sectionID.Valid {
		sh.SectionID = &sectionID.String
	}
	if actualStart.Valid {
		sh.ActualStartTime = &actualStart.String
	}
	if actualEnd.Valid {
		sh.ActualEndTime = &actualEnd.String
	}
	return &sh, nil
}

func shiftWhere(filters ShiftFilters, args *[]any) []string {
	conds := []string{}
	if filters.FacilityID != "" {
		*args = append(*args, filters.FacilityID)
		conds = append(conds, `sh.facility_id = $`+strconv.Itoa(len(*args)))
	}
	if filters.SectionID != "" {
		*args = append(*args, filters.SectionID)
		conds = append(conds, `sh.section_id = $`+strconv.Itoa(len(*args)))
	}
	if filters.TemplateID != "" {
		*args = append(*args, filters.TemplateID)
		conds = append(conds, `sh.template_id = $`+strconv.Itoa(len(*args)))
	}
	if filters.ShiftType != "" {
		*args = append(*args, filters.ShiftType)
		conds = append(conds, `t.shift_type = $`+strconv.Itoa(len(*args)))
	}
	if filters.Status != "" {
		*args = append(*args, filters.Status)
		conds = append(conds, `sh.status = $`+strconv.Itoa(len(*args)))
	}
	if filters.StartDate != nil {
		*args = append(*args, *filters.StartDate)
		conds = append(conds, `sh.date >= $`+strconv.Itoa(len(*args)))
	}
	if filters.EndDate != nil {
		*args = append(*args, *filters.EndDate)
		conds = append(conds, `sh.date <= $`+strconv.Itoa(len(*args)))
	}
	return conds
}

// ListShifts returns shifts matching the filters, date then shift order.
func (r *PostgresShiftsRepository) ListShifts(ctx context.Context, filters ShiftFilters) ([]*domain.Shift, error) {
	args := []any{}
	query := `SELECT ` + shiftColumns + shiftFrom
	if conds := shiftWhere(filters, &args); len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY sh.date, CASE t.shift_type WHEN 'day' THEN 0 WHEN 'swing' THEN 1 ELSE 2 END`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// GetShift fetches one shift by id.
func (r *PostgresShiftsRepository) GetShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	if shiftID == "" {
		return nil, fmt.Errorf("shift_id is required")
	}
	query := `SELECT ` + shiftColumns + shiftFrom + ` WHERE sh.shift_id = $1`

	sh, err := scanShift(r.db.QueryRowContext(ctx, query, shiftID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("shift")
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return sh, nil
}

// CreateShift inserts a shift and returns its id.
func (r *PostgresShiftsRepository) CreateShift(ctx context.Context, shift *domain.Shift) (string, error) {
	if shift.TemplateID == "" || shift.FacilityID == "" {
		return "", fmt.Errorf("template_id and facility_id are required")
	}

	var sectionID any
	if shift.SectionID != nil && *shift.SectionID != "" {
		sectionID = *shift.SectionID
	}

	status := shift.Status
	if status == "" {
		status = domain.ShiftStatusScheduled
	}

	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shifts (date, template_id, facility_id, section_id, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING shift_id::text
	`, shift.Date, shift.TemplateID, shift.FacilityID, sectionID, status, shift.Notes).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create shift: %w", err)
	}
	return id, nil
}

// UpdateShift updates status, actual times and notes.
func (r *PostgresShiftsRepository) UpdateShift(ctx context.Context, shiftID string, shift *domain.Shift) error {
	var sectionID any
	if shift.SectionID != nil && *shift.SectionID != "" {
		sectionID = *shift.SectionID
	}
	var actualStart, actualEnd any
	if shift.ActualStartTime != nil {
		actualStart = *shift.ActualStartTime
	}
	if shift.ActualEndTime != nil {
		actualEnd = *shift.ActualEndTime
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE shifts SET
			date = $2,
			template_id = $3,
			section_id = $4,
			status = $5,
			actual_start_time = $6,
			actual_end_time = $7,
			notes = $8,
			updated_at = NOW()
		WHERE shift_id = $1
	`, shiftID, shift.Date, shift.TemplateID, sectionID, shift.Status, actualStart, actualEnd, shift.Notes)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("shift")
	}
	return nil
}

// DeleteShift removes a shift; assignments cascade at the schema level.
func (r *PostgresShiftsRepository) DeleteShift(ctx context.Context, shiftID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE shift_id = $1`, shiftID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("shift")
	}
	return nil
}

// FindShiftByDateTemplate returns the existing shift id for the triple,
// or ErrNotFound when no shift exists.
func (r *PostgresShiftsRepository) FindShiftByDateTemplate(ctx context.Context, facilityID, templateID string, date time.Time) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT shift_id::text FROM shifts
		WHERE facility_id = $1 AND template_id = $2 AND date = $3
	`, facilityID, templateID, date).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", notFound("shift")
		}
		return "", fmt.Errorf("failed to find shift: %w", err)
	}
	return id, nil
}

// ============================================
// Staff assignments
// ============================================

const assignmentColumns = `
	sa.assignment_id::text,
	sa.staff_id::text,
	sa.shift_id::text,
	sa.assigned_role,
	sa.clock_in_time,
	sa.clock_out_time,
	sa.actual_hours_worked,
	COALESCE(sa.notes, '') AS notes,
	sa.created_at,
	sa.updated_at,
	st.first_name || ' ' || st.last_name AS staff_name,
	sh.date::text AS shift_date
`

const assignmentFrom = `
	FROM staff_assignments sa
	JOIN staff st ON st.staff_id = sa.staff_id
	JOIN shifts sh ON sh.shift_id = sa.shift_id
`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.StaffAssignment, error) {
	var sa domain.StaffAssignment
	var clockIn, clockOut sql.NullTime
	var hours sql.NullFloat64

	err := row.Scan(
		&sa.AssignmentID,
		&sa.StaffID,
		&sa.ShiftID,
		&sa.AssignedRole,
		&clockIn,
		&clockOut,
		&hours,
		&sa.Notes,
		&sa.CreatedAt,
		&sa.UpdatedAt,
		&sa.StaffName,
		&sa.ShiftDate,
	)
	if err != nil {
		return nil, err
	}

	if clockIn.Valid {
		sa.ClockInTime = &clockIn.Time
	}
	if clockOut.Valid {
		sa.ClockOutTime = &clockOut.Time
	}
	if hours.Valid {
		sa.ActualHoursWorked = &hours.Float64
	}
	return &sa, nil
}

// ListAssignments returns assignments matching the filters.
func (r *PostgresShiftsRepository) ListAssignments(ctx context.Context, filters AssignmentFilters) ([]*domain.StaffAssignment, error) {
	conds := []string{}
	args := []any{}
	if filters.StaffID != "" {
		args = append(args, filters.StaffID)
		conds = append(conds, `sa.staff_id = $`+strconv.Itoa(len(args)))
	}
	if filters.ShiftID != "" {
		args = append(args, filters.ShiftID)
		conds = append(conds, `sa.shift_id = $`+strconv.Itoa(len(args)))
	}
	if filters.Date != nil {
		args = append(args, *filters.Date)
		conds = append(conds, `sh.date = $`+strconv.Itoa(len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conds = append(conds, `sh.date >= $`+strconv.Itoa(len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conds = append(conds, `sh.date <= $`+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + assignmentColumns + assignmentFrom
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY sh.date, staff_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*domain.StaffAssignment{}
	for rows.Next() {
		sa, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, sa)
	}
	return assignments, rows.Err()
}

// GetAssignment fetches one assignment by id.
func (r *PostgresShiftsRepository) GetAssignment(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	if assignmentID == "" {
		return nil, fmt.Errorf("assignment_id is required")
	}
	query := `SELECT ` + assignmentColumns + assignmentFrom + ` WHERE sa.assignment_id = $1`

	sa, err := scanAssignment(r.db.QueryRowContext(ctx, query, assignmentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("assignment")
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return sa, nil
}

// CreateAssignment inserts an assignment. The (staff_id, shift_id) unique
// constraint rejects double-assignment to the same shift.
func (r *PostgresShiftsRepository) CreateAssignment(ctx context.Context, assignment *domain.StaffAssignment) (string, error) {
	if assignment.StaffID == "" || assignment.ShiftID == "" {
		return "", fmt.Errorf("staff_id and shift_id are required")
	}

	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO staff_assignments (staff_id, shift_id, assigned_role, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING assignment_id::text
	`, assignment.StaffID, assignment.ShiftID, assignment.AssignedRole, assignment.Notes).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create assignment: %w", err)
	}
	return id, nil
}

// UpdateAssignment updates the role and notes.
func (r *PostgresShiftsRepository) UpdateAssignment(ctx context.Context, assignmentID string, assignment *domain.StaffAssignment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE staff_assignments SET
			assigned_role = $2,
			notes = $3,
			updated_at = NOW()
		WHERE assignment_id = $1
	`, assignmentID, assignment.AssignedRole, assignment.Notes)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("assignment")
	}
	return nil
}

// DeleteAssignment removes an assignment.
func (r *PostgresShiftsRepository) DeleteAssignment(ctx context.Context, assignmentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff_assignments WHERE assignment_id = $1`, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("assignment")
	}
	return nil
}

// ClockIn stamps the clock-in time; rejects a second clock-in.
func (r *PostgresShiftsRepository) ClockIn(ctx context.Context, assignmentID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE staff_assignments SET clock_in_time = $2, updated_at = NOW()
		WHERE assignment_id = $1 AND clock_in_time IS NULL
	`, assignmentID, at)
	if err != nil {
		return fmt.Errorf("failed to clock in: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("assignment")
	}
	return nil
}

// ClockOut stamps the clock-out time and records hours worked. Requires a
// prior clock-in and no prior clock-out.
func (r *PostgresShiftsRepository) ClockOut(ctx context.Context, assignmentID string, at time.Time, hoursWorked float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE staff_assignments SET
			clock_out_time = $2,
			actual_hours_worked = $3,
			updated_at = NOW()
		WHERE assignment_id = $1 AND clock_in_time IS NOT NULL AND clock_out_time IS NULL
	`, assignmentID, at, hoursWorked)
	if err != nil {
		return fmt.Errorf("failed to clock out: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("assignment")
	}
	return nil
}

// ============================================
// Acuity based staffing
// ============================================

// ListAcuityStaffing returns acuity plans for a facility, newest first.
func (r *PostgresShiftsRepository) ListAcuityStaffing(ctx context.Context, facilityID string) ([]*domain.AcuityBasedStaffing, error) {
	query := `
		SELECT
			ab.acuity_id::text,
			ab.shift_id::text,
			ab.total_care_hours_needed,
			ab.high_acuity_residents,
			ab.medium_acuity_residents,
			ab.low_acuity_residents,
			ab.recommended_staff_count,
			COALESCE(ab.recommended_skill_mix, '{}'::jsonb)::text AS recommended_skill_mix,
			ab.created_at,
			ab.updated_at
		FROM acuity_based_staffing ab
		JOIN shifts sh ON sh.shift_id = ab.shift_id
		WHERE sh.facility_id = $1
		ORDER BY ab.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list acuity staffing: %w", err)
	}
	defer rows.Close()

	plans := []*domain.AcuityBasedStaffing{}
	for rows.Next() {
		var ab domain.AcuityBasedStaffing
		var mixRaw sql.NullString
		err := rows.Scan(
			&ab.AcuityID,
			&ab.ShiftID,
			&ab.TotalCareHoursNeeded,
			&ab.HighAcuityResidents,
			&ab.MediumAcuityResidents,
			&ab.LowAcuityResidents,
			&ab.RecommendedStaffCount,
			&mixRaw,
			&ab.CreatedAt,
			&ab.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan acuity staffing: %w", err)
		}
		mix := map[string]int{}
		if err := unmarshalJSONB(mixRaw, &mix); err != nil {
			return nil, err
		}
		ab.RecommendedSkillMix = mix
		plans = append(plans, &ab)
	}
	return plans, rows.Err()
}

// CreateAcuityStaffing upserts the per-shift acuity plan.
func (r *PostgresShiftsRepository) CreateAcuityStaffing(ctx context.Context, acuity *domain.AcuityBasedStaffing) (string, error) {
	if acuity.ShiftID == "" {
		return "", fmt.Errorf("shift_id is required")
	}

	mix, err := marshalJSONB(acuity.RecommendedSkillMix, false)
	if err != nil {
		return "", err
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO acuity_based_staffing (
			shift_id, total_care_hours_needed, high_acuity_residents,
			medium_acuity_residents, low_acuity_residents,
			recommended_staff_count, recommended_skill_mix
		) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
		ON CONFLICT (shift_id) DO UPDATE SET
			total_care_hours_needed = EXCLUDED.total_care_hours_needed,
			high_acuity_residents = EXCLUDED.high_acuity_residents,
			medium_acuity_residents = EXCLUDED.medium_acuity_residents,
			low_acuity_residents = EXCLUDED.low_acuity_residents,
			recommended_staff_count = EXCLUDED.recommended_staff_count,
			recommended_skill_mix = EXCLUDED.recommended_skill_mix,
			updated_at = NOW()
		RETURNING acuity_id::text
	`,
		acuity.ShiftID,
		acuity.TotalCareHoursNeeded,
		acuity.HighAcuityResidents,
		acuity.MediumAcuityResidents,
		acuity.LowAcuityResidents,
		acuity.RecommendedStaffCount,
		string(mix),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create acuity staffing: %w", err)
	}
	return id, nil
}
