package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"abst-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	batches [][]*domain.Shift
	err     error
}

func (n *recordingNotifier) NotifyUnderstaffed(_ context.Context, shifts []*domain.Shift) error {
	n.batches = append(n.batches, shifts)
	return n.err
}

func newShiftServiceForTest(notifier UnderstaffedNotifier) (*shiftService, *fakeShiftsRepo, *fakeStaffRepo) {
	shifts := newFakeShiftsRepo()
	staff := newFakeStaffRepo()
	svc := NewShiftService(shifts, staff, notifier, zap.NewNop()).(*shiftService)
	return svc, shifts, staff
}

func TestCreateTemplate_DefaultsRequiredStaff(t *testing.T) {
	svc, _, _ := newShiftServiceForTest(nil)

	template, err := svc.CreateTemplate(context.Background(), TemplateRequest{
		Name:       "Day Shift",
		ShiftType:  domain.ShiftTypeDay,
		StartTime:  "06:00",
		EndTime:    "14:00",
		FacilityID: "f-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, template.RequiredStaffCount)
	assert.True(t, template.IsActive)
}

func TestUpdateTemplate_IsActiveToggle(t *testing.T) {
	svc, shifts, _ := newShiftServiceForTest(nil)
	id, err := shifts.CreateTemplate(context.Background(), &domain.ShiftTemplate{
		Name: "NOC Shift", ShiftType: domain.ShiftTypeNoc, FacilityID: "f-1",
		RequiredStaffCount: 2, IsActive: true,
	})
	require.NoError(t, err)

	// Omitted is_active keeps the stored value.
	template, err := svc.UpdateTemplate(context.Background(), id, TemplateRequest{Name: "Night Shift"})
	require.NoError(t, err)
	assert.True(t, template.IsActive)
	assert.Equal(t, "Night Shift", template.Name)
	assert.Equal(t, 2, template.RequiredStaffCount)

	inactive := false
	template, err = svc.UpdateTemplate(context.Background(), id, TemplateRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, template.IsActive)
}

func TestCreateShift_ParsesDate(t *testing.T) {
	svc, _, _ := newShiftServiceForTest(nil)

	shift, err := svc.CreateShift(context.Background(), ShiftRequest{
		Date:       "2026-08-24",
		TemplateID: "t-1",
		FacilityID: "f-1",
		Status:     domain.ShiftStatusScheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-24", shift.Date.Format("2006-01-02"))

	_, err = svc.CreateShift(context.Background(), ShiftRequest{Date: "24/08/2026"})
	assert.Error(t, err)
}

func TestCalendar_GroupsByDate(t *testing.T) {
	svc, shifts, _ := newShiftServiceForTest(nil)
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	for i, day := range []time.Time{monday, monday, monday.AddDate(0, 0, 1)} {
		_, err := shifts.CreateShift(context.Background(), &domain.Shift{
			Date: day, TemplateID: fmt.Sprintf("t-%d", i), FacilityID: "f-1",
		})
		require.NoError(t, err)
	}

	days, err := svc.Calendar(context.Background(), "f-1", monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-08-24", days[0].Date)
	assert.Len(t, days[0].Shifts, 2)
	assert.Len(t, days[1].Shifts, 1)
}

func TestUnderstaffed_NotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, shifts, _ := newShiftServiceForTest(notifier)

	short, err := shifts.CreateShift(context.Background(), &domain.Shift{
		FacilityID: "f-1", Status: domain.ShiftStatusScheduled,
		RequiredStaffCount: 2, AssignedCount: 1,
	})
	require.NoError(t, err)
	_, err = shifts.CreateShift(context.Background(), &domain.Shift{
		FacilityID: "f-1", Status: domain.ShiftStatusScheduled,
		RequiredStaffCount: 1, AssignedCount: 1,
	})
	require.NoError(t, err)

	out, err := svc.Understaffed(context.Background(), "f-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, short, out[0].ShiftID)
	require.Len(t, notifier.batches, 1)
	assert.Len(t, notifier.batches[0], 1)
}

func TestUnderstaffed_NotifierFailureDoesNotFail(t *testing.T) {
	notifier := &recordingNotifier{err: fmt.Errorf("webhook down")}
	svc, shifts, _ := newShiftServiceForTest(notifier)

	_, err := shifts.CreateShift(context.Background(), &domain.Shift{
		FacilityID: "f-1", Status: domain.ShiftStatusScheduled,
		RequiredStaffCount: 3, AssignedCount: 0,
	})
	require.NoError(t, err)

	out, err := svc.Understaffed(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestUnderstaffed_NoAlertWhenFullyStaffed(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, shifts, _ := newShiftServiceForTest(notifier)

	_, err := shifts.CreateShift(context.Background(), &domain.Shift{
		FacilityID: "f-1", Status: domain.ShiftStatusScheduled,
		RequiredStaffCount: 1, AssignedCount: 1,
	})
	require.NoError(t, err)

	out, err := svc.Understaffed(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, notifier.batches)
}

func TestAssignStaff_DefaultsRoleFromStaff(t *testing.T) {
	svc, shifts, staff := newShiftServiceForTest(nil)
	staffID := staff.add(&domain.Staff{
		FirstName: "Dana", LastName: "Lee", Role: domain.StaffRoleCNA,
		Status: domain.StaffStatusActive, FacilityID: "f-1",
	})
	shiftID, err := shifts.CreateShift(context.Background(), &domain.Shift{FacilityID: "f-1"})
	require.NoError(t, err)

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffRequest{
		StaffID: staffID,
		ShiftID: shiftID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleCNA, assignment.AssignedRole)
}

func TestAssignStaff_UnknownStaffOrShift(t *testing.T) {
	svc, _, staff := newShiftServiceForTest(nil)

	_, err := svc.AssignStaff(context.Background(), AssignStaffRequest{StaffID: "missing", ShiftID: "sh-1"})
	assert.Error(t, err)

	staffID := staff.add(&domain.Staff{FirstName: "Dana", LastName: "Lee", Role: domain.StaffRoleCNA})
	_, err = svc.AssignStaff(context.Background(), AssignStaffRequest{StaffID: staffID, ShiftID: "missing"})
	assert.Error(t, err)
}

func TestClockInAndOut_ComputesHours(t *testing.T) {
	svc, shifts, staff := newShiftServiceForTest(nil)
	staffID := staff.add(&domain.Staff{FirstName: "Dana", LastName: "Lee", Role: domain.StaffRoleCNA})
	shiftID, err := shifts.CreateShift(context.Background(), &domain.Shift{FacilityID: "f-1"})
	require.NoError(t, err)
	assignmentID, err := shifts.CreateAssignment(context.Background(), &domain.StaffAssignment{
		StaffID: staffID, ShiftID: shiftID, AssignedRole: domain.StaffRoleCNA,
	})
	require.NoError(t, err)

	start := time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	assignment, err := svc.ClockIn(context.Background(), assignmentID)
	require.NoError(t, err)
	require.NotNil(t, assignment.ClockInTime)

	svc.now = func() time.Time { return start.Add(8*time.Hour + 15*time.Minute) }
	assignment, err = svc.ClockOut(context.Background(), assignmentID)
	require.NoError(t, err)
	require.NotNil(t, assignment.ActualHoursWorked)
	assert.Equal(t, 8.25, *assignment.ActualHoursWorked)
}

func TestClockOut_BeforeClockIn(t *testing.T) {
	svc, shifts, _ := newShiftServiceForTest(nil)
	assignmentID, err := shifts.CreateAssignment(context.Background(), &domain.StaffAssignment{
		StaffID: "st-1", ShiftID: "sh-1",
	})
	require.NoError(t, err)

	_, err = svc.ClockOut(context.Background(), assignmentID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clock out before clocking in")
}
