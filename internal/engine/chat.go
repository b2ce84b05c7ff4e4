package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"abst-data/internal/domain"
)

// Chat intents
const (
	IntentGreeting = "greeting"
	IntentHelp     = "help_request"
	IntentAI       = "ai_explanation"
	IntentStaff    = "staff_info"
	IntentSchedule = "schedule_info"
	IntentGeneral  = "general_question"
	IntentUnknown  = "unknown"
)

var (
	greetingKeywords = []string{"hi ", "hello", "hey ", "good morning", "good afternoon", "good evening", "how are you"}
	helpKeywords     = []string{"help", "what can you do", "capabilities", "how does this work", "explain"}
	aiKeywords       = []string{"ai", "recommendation", "confidence", "why", "assign", "explain", "reason", "logic"}
	staffKeywords    = []string{"staff", "employee", "worker", "people", "team", "who", "preference", "role"}
	scheduleKeywords = []string{"shift", "schedule", "assignment", "today", "week", "when", "how many shifts"}
	generalKeywords  = []string{"what", "how", "can you", "is there", "do you have", "tell me about"}
)

// ClassifyIntent keyword-matches a lowercased message. Order matters:
// greetings and help first, then AI questions before staff/schedule so
// "why did the AI assign..." lands on the explanation path.
func ClassifyIntent(message string) string {
	m := strings.ToLower(strings.TrimSpace(message))
	switch {
	case matchesAny(m, greetingKeywords):
		return IntentGreeting
	case matchesAny(m, helpKeywords):
		return IntentHelp
	case matchesAny(m, aiKeywords):
		return IntentAI
	case matchesAny(m, staffKeywords):
		return IntentStaff
	case matchesAny(m, scheduleKeywords):
		return IntentSchedule
	case matchesAny(m, generalKeywords):
		return IntentGeneral
	default:
		return IntentUnknown
	}
}

func matchesAny(message string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(message, k) {
			return true
		}
	}
	return false
}

// ProcessChatMessage answers a scheduling question from snapshot data.
// now anchors "today"/"this week" answers.
func ProcessChatMessage(snap *Snapshot, message string, now time.Time) string {
	switch ClassifyIntent(message) {
	case IntentGreeting:
		return "Hi there! I'm your scheduling assistant. How can I help you today?"
	case IntentHelp:
		return helpMessage()
	case IntentAI:
		return aiAnswer(message)
	case IntentStaff:
		return staffAnswer(snap, message)
	case IntentSchedule:
		return scheduleAnswer(snap, message, now)
	case IntentGeneral:
		return "I can answer questions about staff, shifts, schedules and the recommendation engine. Try asking something specific, or type 'help' to see what I can do."
	default:
		return fmt.Sprintf("I'm not quite sure what you mean by %q. Try asking about your staff, today's or this week's schedule, or say 'help' to see everything I can do.", message)
	}
}

func staffAnswer(snap *Snapshot, message string) string {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "how many"):
		return fmt.Sprintf("Currently there are %d active staff members at this facility.", countActiveStaff(snap))

	case strings.Contains(m, "preference") || strings.Contains(m, "prefer"):
		lines := []string{}
		for _, st := range snap.Staff {
			prefs := st.PreferredShifts
			if av, ok := snap.Availability[st.StaffID]; ok && len(av.PreferredShifts) > 0 {
				prefs = av.PreferredShifts
			}
			if len(prefs) > 0 {
				lines = append(lines, fmt.Sprintf("- %s prefers %s shifts", st.FullName(), strings.Join(prefs, ", ")))
			}
		}
		if len(lines) == 0 {
			return "No shift preferences have been set for staff members yet. Setting preferences helps the scheduler match shifts to what staff actually want to work."
		}
		return "Current staff shift preferences:\n" + strings.Join(lines, "\n")

	case strings.Contains(m, "role"):
		counts := map[string]int{}
		for _, st := range snap.Staff {
			counts[st.Role]++
		}
		parts := []string{}
		roles := make([]string, 0, len(counts))
		for role := range counts {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			parts = append(parts, fmt.Sprintf("%d %s", counts[role], role))
		}
		return "Your facility team includes " + strings.Join(parts, ", ") + "."

	case strings.Contains(m, "who"):
		lines := make([]string, 0, len(snap.Staff))
		for _, st := range snap.Staff {
			lines = append(lines, fmt.Sprintf("- %s (%s)", st.FullName(), st.Role))
		}
		return "Current staff members:\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf("You have %d active staff members. Ask me about their preferences, roles, or 'who are my staff' to see everyone.", countActiveStaff(snap))
}

func countActiveStaff(snap *Snapshot) int {
	n := 0
	for _, st := range snap.Staff {
		if st.Status == domain.StaffStatusActive {
			n++
		}
	}
	return n
}

func scheduleAnswer(snap *Snapshot, message string, now time.Time) string {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "how many"):
		return fmt.Sprintf("Your facility currently has %d total shifts scheduled.", len(snap.Shifts))

	case strings.Contains(m, "today") || strings.Contains(m, "current"):
		today := now.Format("2006-01-02")
		n := 0
		for _, sh := range snap.Shifts {
			if sh.Date.Format("2006-01-02") == today {
				n++
			}
		}
		if n == 0 {
			return fmt.Sprintf("Today (%s) you have no shifts scheduled.", today)
		}
		return fmt.Sprintf("Today (%s) you have %d shifts scheduled.", today, n)

	case strings.Contains(m, "week"):
		dates := map[string]bool{}
		for _, d := range WeekDates(now) {
			dates[d.Format("2006-01-02")] = true
		}
		n := 0
		for _, sh := range snap.Shifts {
			if dates[sh.Date.Format("2006-01-02")] {
				n++
			}
		}
		return fmt.Sprintf("This week you have %d shifts scheduled across all your staff.", n)
	}

	return "Ask me about today's schedule, this week's shifts, or 'how many shifts do I have' for an overview."
}

func aiAnswer(message string) string {
	m := strings.ToLower(message)

	if strings.Contains(m, "confidence") {
		return "The confidence score combines shift coverage, staff utilization and workload balance. Higher scores mean the generated schedule covers more shifts with a fairer distribution of hours."
	}
	if strings.Contains(m, "why") && (strings.Contains(m, "assign") || strings.Contains(m, "staff")) {
		return "Assignments are based on staff preferences, role requirements and availability. Staff who prefer a shift type are scored higher for it, and nobody is placed on two shifts in one day."
	}
	return "The recommendation engine analyzes recorded care hours, resident acuity and staff preferences to suggest staffing levels and build weekly schedules."
}

func helpMessage() string {
	return strings.Join([]string{
		"I can help you with:",
		"",
		"Staff: \"How many staff do I have?\", \"What are their shift preferences?\", \"Who are my staff members?\"",
		"Schedule: \"What's happening today?\", \"How many shifts this week?\"",
		"Recommendations: \"How confident is the scheduler?\", \"Why was this staff member assigned?\"",
		"",
		"Ask naturally, or name a topic to get started.",
	}, "\n")
}
