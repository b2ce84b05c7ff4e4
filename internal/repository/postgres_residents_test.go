package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"abst-data/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResidentsMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresResidentsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresResidentsRepository(db)
}

func residentFixture(sectionID, name string) *domain.Resident {
	return &domain.Resident{
		SectionID:       sectionID,
		Name:            name,
		Status:          "active",
		TotalShiftTimes: map[string]float64{"ResidentTotalTuesShift2Time": 45},
	}
}

var residentRowColumns = []string{
	"resident_id", "section_id", "name", "status",
	"total_shift_times", "created_at", "updated_at", "is_deleted", "deleted_at",
}

func TestListResidents_FacilityFilterJoinsSections(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(residentRowColumns).
		AddRow("r1", "s1", "Alice Smith", "active",
			`{"ResidentTotalMonShift1Time": 90}`, now, now, false, nil)

	mock.ExpectQuery(`JOIN facility_sections`).
		WithArgs("f1").
		WillReturnRows(rows)

	residents, err := repo.ListResidents(context.Background(), ResidentFilters{FacilityID: "f1"})
	require.NoError(t, err)
	require.Len(t, residents, 1)
	assert.Equal(t, "Alice Smith", residents[0].Name)
	assert.Equal(t, 90.0, residents[0].TotalShiftTimes["ResidentTotalMonShift1Time"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResidents_SearchAndStatus(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs("active", "%ali%").
		WillReturnRows(sqlmock.NewRows(residentRowColumns))

	residents, err := repo.ListResidents(context.Background(), ResidentFilters{
		Status: "active",
		Search: "ali",
	})
	require.NoError(t, err)
	assert.Empty(t, residents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResident_NotFound(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM residents`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetResident(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateResident_MarshalsShiftTimes(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO residents`).
		WithArgs("s1", "Bob Jones", "active", `{"ResidentTotalTuesShift2Time":45}`).
		WillReturnRows(sqlmock.NewRows([]string{"resident_id"}).AddRow("r-new"))

	id, err := repo.CreateResident(context.Background(), residentFixture("s1", "Bob Jones"))
	require.NoError(t, err)
	assert.Equal(t, "r-new", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateResident_RequiresSectionAndName(t *testing.T) {
	db, _, repo := setupResidentsMock(t)
	defer db.Close()

	_, err := repo.CreateResident(context.Background(), residentFixture("", "Bob"))
	assert.Error(t, err)

	_, err = repo.CreateResident(context.Background(), residentFixture("s1", ""))
	assert.Error(t, err)
}

func TestSoftDeleteResident_AlreadyDeleted(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE residents SET is_deleted = TRUE`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDeleteResident(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertResidentByName_UpdatesExisting(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE residents SET status`).
		WithArgs("s1", "Alice Smith", "active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.UpsertResidentByName(context.Background(), "s1", "Alice Smith", "active")
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertResidentByName_InsertsNew(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE residents SET status`).
		WithArgs("s1", "New Resident", "active").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO residents`).
		WithArgs("s1", "New Resident", "active").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.UpsertResidentByName(context.Background(), "s1", "New Resident", "active")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
