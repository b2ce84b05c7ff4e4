package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"abst-data/internal/domain"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Hello there", IntentGreeting},
		{"good morning!", IntentGreeting},
		{"help", IntentHelp},
		{"what can you do", IntentHelp},
		{"explain how scheduling works", IntentHelp},
		{"why did you assign bob to noc", IntentAI},
		{"how confident is the recommendation", IntentAI},
		{"how many staff do I have", IntentStaff},
		{"what are their shift preferences", IntentStaff},
		{"shifts scheduled this week", IntentSchedule},
		{"tell me about the system", IntentGeneral},
		{"xyzzy", IntentUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIntent(tt.message), "message %q", tt.message)
	}
}

func TestProcessChatMessage_StaffCount(t *testing.T) {
	snap := &Snapshot{
		Staff: []*domain.Staff{
			{StaffID: "st1", FirstName: "Alice", LastName: "Nguyen", Role: domain.StaffRoleCNA, Status: domain.StaffStatusActive},
			{StaffID: "st2", FirstName: "Bob", LastName: "Rivera", Role: domain.StaffRoleRN, Status: domain.StaffStatusInactive},
		},
		Availability: map[string]*domain.StaffAvailability{},
	}

	reply := ProcessChatMessage(snap, "how many staff do we have?", time.Now())
	assert.Contains(t, reply, "1 active staff")
}

func TestProcessChatMessage_TodayShifts(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		Shifts: []*domain.Shift{
			{ShiftID: "sh1", Date: now},
			{ShiftID: "sh2", Date: now.AddDate(0, 0, 1)},
		},
	}

	reply := ProcessChatMessage(snap, "what's happening today", now)
	assert.Contains(t, reply, "2026-08-25")
	assert.Contains(t, reply, "1 shifts")
}

func TestProcessChatMessage_Unknown(t *testing.T) {
	reply := ProcessChatMessage(&Snapshot{}, "xyzzy", time.Now())
	assert.Contains(t, reply, "xyzzy")
}
