package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"abst-data/internal/domain"
)

// PostgresADLsRepository ADLsRepository over database/sql + lib/pq.
type PostgresADLsRepository struct {
	db *sql.DB
}

// NewPostgresADLsRepository creates the ADLs repository.
func NewPostgresADLsRepository(db *sql.DB) *PostgresADLsRepository {
	return &PostgresADLsRepository{db: db}
}

var _ ADLsRepository = (*PostgresADLsRepository)(nil)

const adlColumns = `
	a.adl_id::text,
	a.resident_id::text,
	a.question_id::text,
	a.question_text,
	a.minutes,
	a.frequency,
	a.total_minutes,
	a.total_hours,
	COALESCE(a.status, 'Complete') AS status,
	COALESCE(a.per_day_shift_times, '{}'::jsonb)::text AS per_day_shift_times,
	a.created_at,
	a.updated_at,
	a.is_deleted,
	a.deleted_at
`

func scanADL(row interface{ Scan(...any) error }) (*domain.ADL, error) {
	var adl domain.ADL
	var questionID sql.NullString
	var timesRaw sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&adl.ADLID,
		&adl.ResidentID,
		&questionID,
		&adl.QuestionText,
		&adl.Minutes,
		&adl.Frequency,
		&adl.TotalMinutes,
		&adl.TotalHours,
		&adl.Status,
		&timesRaw,
		&adl.CreatedAt,
		&adl.UpdatedAt,
		&adl.IsDeleted,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if questionID.Valid {
		adl.QuestionID = &questionID.String
	}
	if deletedAt.Valid {
		adl.DeletedAt = &deletedAt.Time
	}
	times, err := minutesMap(timesRaw)
	if err != nil {
		return nil, err
	}
	adl.PerDayShiftTimes = times
	return &adl, nil
}

func adlWhere(filters ADLFilters, args *[]any) []string {
	conds := []string{}
	if filters.DeletedOnly {
		conds = append(conds, `a.is_deleted = TRUE`)
	} else {
		conds = append(conds, `a.is_deleted = FALSE`)
	}
	if filters.ResidentID != "" {
		*args = append(*args, filters.ResidentID)
		conds = append(conds, `a.resident_id = $`+strconv.Itoa(len(*args)))
	}
	if filters.FacilityID != "" {
		*args = append(*args, filters.FacilityID)
		conds = append(conds, `s.facility_id = $`+strconv.Itoa(len(*args)))
	}
	if filters.StartDate != nil {
		*args = append(*args, *filters.StartDate)
		conds = append(conds, `a.created_at >= $`+strconv.Itoa(len(*args)))
	}
	if filters.EndDate != nil {
		*args = append(*args, *filters.EndDate)
		conds = append(conds, `a.created_at <= $`+strconv.Itoa(len(*args)))
	}
	return conds
}

func adlFrom(filters ADLFilters) string {
	from := ` FROM adls a`
	if filters.FacilityID != "" {
		from += ` JOIN residents r ON r.resident_id = a.resident_id
			JOIN facility_sections s ON s.section_id = r.section_id`
	}
	return from
}

// ListADLs returns ADLs matching the filters, newest first.
func (r *PostgresADLsRepository) ListADLs(ctx context.Context, filters ADLFilters) ([]*domain.ADL, error) {
	args := []any{}
	query := `SELECT ` + adlColumns + adlFrom(filters) +
		` WHERE ` + strings.Join(adlWhere(filters, &args), ` AND `) +
		` ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list adls: %w", err)
	}
	defer rows.Close()

	adls := []*domain.ADL{}
	for rows.Next() {
		adl, err := scanADL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adl: %w", err)
		}
		adls = append(adls, adl)
	}
	return adls, rows.Err()
}

// GetADL fetches one ADL by id (soft-deleted rows included).
func (r *PostgresADLsRepository) GetADL(ctx context.Context, adlID string) (*domain.ADL, error) {
	if adlID == "" {
		return nil, fmt.Errorf("adl_id is required")
	}
	query := `SELECT ` + adlColumns + ` FROM adls a WHERE a.adl_id = $1`

	adl, err := scanADL(r.db.QueryRowContext(ctx, query, adlID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("adl")
		}
		return nil, fmt.Errorf("failed to get adl: %w", err)
	}
	return adl, nil
}

// CreateADL inserts an ADL. total_minutes/total_hours are expected to be
// computed by the service layer before the call.
func (r *PostgresADLsRepository) CreateADL(ctx context.Context, adl *domain.ADL) (string, error) {
	if adl.ResidentID == "" || adl.QuestionText == "" {
		return "", fmt.Errorf("resident_id and question_text are required")
	}

	times, err := marshalJSONB(adl.PerDayShiftTimes, false)
	if err != nil {
		return "", err
	}

	var questionID any
	if adl.QuestionID != nil {
		questionID = *adl.QuestionID
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO adls (
			resident_id, question_id, question_text, minutes, frequency,
			total_minutes, total_hours, status, per_day_shift_times
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		RETURNING adl_id::text
	`,
		adl.ResidentID,
		questionID,
		adl.QuestionText,
		adl.Minutes,
		adl.Frequency,
		adl.TotalMinutes,
		adl.TotalHours,
		adl.Status,
		string(times),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create adl: %w", err)
	}
	return id, nil
}

// UpdateADL updates the mutable columns of a live ADL.
func (r *PostgresADLsRepository) UpdateADL(ctx context.Context, adlID string, adl *domain.ADL) error {
	times, err := marshalJSONB(adl.PerDayShiftTimes, false)
	if err != nil {
		return err
	}

	var questionID any
	if adl.QuestionID != nil {
		questionID = *adl.QuestionID
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE adls SET
			question_id = $2,
			question_text = $3,
			minutes = $4,
			frequency = $5,
			total_minutes = $6,
			total_hours = $7,
			status = $8,
			per_day_shift_times = $9::jsonb,
			updated_at = NOW()
		WHERE adl_id = $1 AND is_deleted = FALSE
	`,
		adlID,
		questionID,
		adl.QuestionText,
		adl.Minutes,
		adl.Frequency,
		adl.TotalMinutes,
		adl.TotalHours,
		adl.Status,
		string(times),
	)
	if err != nil {
		return fmt.Errorf("failed to update adl: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("adl")
	}
	return nil
}

// SoftDeleteADL flags the row deleted and stamps deleted_at.
func (r *PostgresADLsRepository) SoftDeleteADL(ctx context.Context, adlID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adls SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE adl_id = $1 AND is_deleted = FALSE
	`, adlID)
	if err != nil {
		return fmt.Errorf("failed to soft delete adl: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("adl")
	}
	return nil
}

// RestoreADL clears the soft delete flag.
func (r *PostgresADLsRepository) RestoreADL(ctx context.Context, adlID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adls SET is_deleted = FALSE, deleted_at = NULL, updated_at = NOW()
		WHERE adl_id = $1 AND is_deleted = TRUE
	`, adlID)
	if err != nil {
		return fmt.Errorf("failed to restore adl: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("adl")
	}
	return nil
}

// Summary aggregates total minutes/hours, avg minutes per task and count.
// An empty match yields a zero-valued summary, not an error.
func (r *PostgresADLsRepository) Summary(ctx context.Context, filters ADLFilters) (*domain.ADLSummary, error) {
	args := []any{}
	query := `
		SELECT
			COALESCE(SUM(a.total_minutes), 0),
			COALESCE(SUM(a.total_hours), 0),
			COALESCE(AVG(a.minutes), 0),
			COUNT(a.adl_id)
	` + adlFrom(filters) + ` WHERE ` + strings.Join(adlWhere(filters, &args), ` AND `)

	var summary domain.ADLSummary
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&summary.TotalMinutes,
		&summary.TotalHours,
		&summary.AvgMinutesPerTask,
		&summary.TotalADLs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize adls: %w", err)
	}
	return &summary, nil
}

// ListQuestions returns the ADL question catalog ordered by sort_order.
func (r *PostgresADLsRepository) ListQuestions(ctx context.Context) ([]*domain.ADLQuestion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT question_id::text, text, sort_order
		FROM adl_questions
		ORDER BY sort_order, question_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list adl questions: %w", err)
	}
	defer rows.Close()

	questions := []*domain.ADLQuestion{}
	for rows.Next() {
		var q domain.ADLQuestion
		if err := rows.Scan(&q.QuestionID, &q.Text, &q.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan adl question: %w", err)
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

// SeedQuestions inserts any missing catalog entries, returning the number added.
func (r *PostgresADLsRepository) SeedQuestions(ctx context.Context, texts []string) (int, error) {
	created := 0
	for i, text := range texts {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO adl_questions (text, sort_order)
			VALUES ($1, $2)
			ON CONFLICT (text) DO NOTHING
		`, text, i)
		if err != nil {
			return created, fmt.Errorf("failed to seed adl question: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}
