package service

import (
	"context"
	"testing"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newADLServiceForTest() (ADLService, *fakeADLsRepo, *fakeResidentsRepo) {
	adls := newFakeADLsRepo()
	residents := newFakeResidentsRepo()
	svc := NewADLService(adls, residents, zap.NewNop())
	return svc, adls, residents
}

func TestCreateADL_ComputesTotals(t *testing.T) {
	svc, _, residents := newADLServiceForTest()
	id := residents.add(&domain.Resident{SectionID: "s-1", Name: "Alice", Status: "Active"})

	adl, err := svc.CreateADL(context.Background(), ADLRequest{
		ResidentID:   id,
		QuestionText: "Bathing / Showering",
		Minutes:      15,
		Frequency:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, adl.TotalMinutes)
	assert.Equal(t, 0.75, adl.TotalHours)
	assert.Equal(t, domain.ADLStatusComplete, adl.Status)
}

func TestCreateADL_RequiresLiveResident(t *testing.T) {
	svc, _, _ := newADLServiceForTest()

	_, err := svc.CreateADL(context.Background(), ADLRequest{
		ResidentID:   "missing",
		QuestionText: "Bathing / Showering",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateADL_PartialMergeRecomputesTotals(t *testing.T) {
	svc, adls, residents := newADLServiceForTest()
	rid := residents.add(&domain.Resident{SectionID: "s-1", Name: "Alice", Status: "Active"})
	id := adls.add(&domain.ADL{
		ResidentID:   rid,
		QuestionText: "Toileting and Incontinence Care",
		Minutes:      10,
		Frequency:    6,
		TotalMinutes: 60,
		TotalHours:   1,
		Status:       domain.ADLStatusComplete,
	})

	updated, err := svc.UpdateADL(context.Background(), id, ADLRequest{Minutes: 20})
	require.NoError(t, err)

	// Frequency carried over, total recomputed from the new minutes.
	assert.Equal(t, 6, updated.Frequency)
	assert.Equal(t, 120, updated.TotalMinutes)
	assert.Equal(t, 2.0, updated.TotalHours)
	assert.Equal(t, "Toileting and Incontinence Care", updated.QuestionText)
}

func TestDeleteAndRestoreADL(t *testing.T) {
	svc, adls, _ := newADLServiceForTest()
	id := adls.add(&domain.ADL{ResidentID: "r-1", QuestionText: "Night Checks / Repositioning"})

	require.NoError(t, svc.DeleteADL(context.Background(), id))
	_, err := svc.GetADL(context.Background(), id)
	assert.Error(t, err)

	deleted, err := svc.ListDeletedADLs(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	restored, err := svc.RestoreADL(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestADLSummary(t *testing.T) {
	svc, adls, _ := newADLServiceForTest()
	adls.add(&domain.ADL{ResidentID: "r-1", TotalMinutes: 60})
	adls.add(&domain.ADL{ResidentID: "r-1", TotalMinutes: 30})

	summary, err := svc.Summary(context.Background(), repository.ADLFilters{ResidentID: "r-1"})
	require.NoError(t, err)
	assert.Equal(t, 90, summary.TotalMinutes)
	assert.Equal(t, 1.5, summary.TotalHours)
	assert.Equal(t, 45.0, summary.AvgMinutesPerTask)
	assert.Equal(t, 2, summary.TotalADLs)
}

func TestCaregivingSummary_FacilityReadsResidentTotals(t *testing.T) {
	svc, adls, residents := newADLServiceForTest()
	rid := residents.add(&domain.Resident{
		SectionID: "s-1", Name: "Alice", Status: "Active",
		TotalShiftTimes: map[string]float64{"ResidentTotalMonShift1Time": 600}, // 10h
	})
	adls.add(&domain.ADL{
		ResidentID:       rid,
		PerDayShiftTimes: map[string]float64{"MonShift1Time": 30}, // 0.5h
	})

	// Facility-wide chart follows the resident totals.
	summary, err := svc.CaregivingSummary(context.Background(), repository.ADLFilters{FacilityID: "f-1"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.PerShift[0].Shift1)
	assert.Equal(t, 10.0, summary.PerDay[0].Hours)

	// Resident-scoped chart stays on the ADL shift maps.
	summary, err = svc.CaregivingSummary(context.Background(), repository.ADLFilters{ResidentID: rid})
	require.NoError(t, err)
	assert.Equal(t, 0.5, summary.PerShift[0].Shift1)
	assert.Equal(t, 0.5, summary.PerDay[0].Hours)
}

func TestSeedDefaultQuestions_Idempotent(t *testing.T) {
	svc, _, _ := newADLServiceForTest()

	created, err := svc.SeedDefaultQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(domain.DefaultADLQuestions), created)

	created, err = svc.SeedDefaultQuestions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)

	questions, err := svc.ListQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, len(domain.DefaultADLQuestions))
}

func TestParseDateFilter(t *testing.T) {
	start, end, err := ParseDateFilter("2026-08-01", "2026-08-07")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", start.Format("2006-01-02"))
	// End bound is inclusive: extended to the end of the day.
	assert.Equal(t, "2026-08-07", end.Format("2006-01-02"))
	assert.Equal(t, 23, end.Hour())

	_, _, err = ParseDateFilter("08/01/2026", "")
	assert.Error(t, err)

	start, end, err = ParseDateFilter("", "")
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.Nil(t, end)
}
