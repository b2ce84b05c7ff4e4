package domain

import "time"

// ADLStatusComplete default status for a recorded ADL.
const ADLStatusComplete = "Complete"

// ADLQuestion catalog entry for an ADL task (adl_questions table)
type ADLQuestion struct {
	QuestionID string `db:"question_id"` // UUID, PRIMARY KEY
	Text       string `db:"text"`        // TEXT, NOT NULL, UNIQUE
	SortOrder  int    `db:"sort_order"`  // INTEGER, NOT NULL, DEFAULT 0
}

// ADL a tracked care task for one resident (adls table)
type ADL struct {
	ADLID      string  `db:"adl_id"`      // UUID, PRIMARY KEY
	ResidentID string  `db:"resident_id"` // UUID, NOT NULL, FK residents
	QuestionID *string `db:"question_id"` // UUID, nullable, FK adl_questions

	QuestionText string  `db:"question_text"` // TEXT, NOT NULL (denormalized question text)
	Minutes      int     `db:"minutes"`       // minutes per occurrence
	Frequency    int     `db:"frequency"`     // occurrences per day
	TotalMinutes int     `db:"total_minutes"` // minutes * frequency, computed server-side
	TotalHours   float64 `db:"total_hours"`   // total_minutes / 60, computed server-side
	Status       string  `db:"status"`        // VARCHAR(100), DEFAULT 'Complete'

	// Care minutes per weekday and shift slot for this task. Keys follow
	// "<Day><ShiftN>Time", e.g. "MonShift1Time".
	PerDayShiftTimes map[string]float64 `db:"per_day_shift_times"` // JSONB

	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	IsDeleted bool       `db:"is_deleted"` // soft delete flag
	DeletedAt *time.Time `db:"deleted_at"`
}

// ADLSummary aggregate statistics over a set of ADLs.
type ADLSummary struct {
	TotalMinutes      int     `json:"total_minutes"`
	TotalHours        float64 `json:"total_hours"`
	AvgMinutesPerTask float64 `json:"avg_minutes_per_task"`
	TotalADLs         int     `json:"total_adls"`
}

// DefaultADLQuestions seeds the catalog with the standard ABST task list.
var DefaultADLQuestions = []string{
	"Bathing / Showering",
	"Dressing and Grooming",
	"Eating / Feeding Assistance",
	"Toileting and Incontinence Care",
	"Transfers and Mobility",
	"Medication Assistance",
	"Behavior Support and Supervision",
	"Night Checks / Repositioning",
}
