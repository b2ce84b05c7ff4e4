package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"abst-data/internal/domain"
)

// Shift assignment statuses inside a generated schedule.
const (
	ScheduleStatusOptimized  = "optimized"
	ScheduleStatusNoTemplate = "no_template"
)

// WeekSchedule full output of the weekly scheduler.
type WeekSchedule struct {
	Success          bool              `json:"success"`
	Schedule         []*DaySchedule    `json:"schedule"`
	ConfidenceScore  int               `json:"confidence_score"`
	Reasoning        string            `json:"reasoning"`
	StaffUtilization *StaffUtilization `json:"staff_utilization"`
	Conflicts        []*Conflict       `json:"conflict_resolution"`
	WeekDates        []string          `json:"week_dates"`
}

// DaySchedule one day's shift assignments, keyed by shift type.
type DaySchedule struct {
	Date    string                    `json:"date"`
	DayName string                    `json:"day_name"`
	Shifts  map[string]*ShiftSchedule `json:"shifts"`
}

// ShiftSchedule assignment result for one shift slot.
type ShiftSchedule struct {
	Status             string           `json:"status"`
	TemplateName       string           `json:"template_name,omitempty"`
	RequiredStaff      int              `json:"required_staff,omitempty"`
	AssignedStaff      []*AssignedStaff `json:"assigned_staff"`
	CoveragePercentage float64          `json:"coverage_percentage,omitempty"`
}

// AssignedStaff one staff member placed on a shift.
type AssignedStaff struct {
	StaffID          string `json:"staff_id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	AssignmentReason string `json:"assignment_reason"`
}

// StaffUtilization schedule-wide usage metrics.
type StaffUtilization struct {
	TotalStaff        int                `json:"total_staff"`
	AssignedStaff     int                `json:"assigned_staff"`
	UtilizationRate   float64            `json:"utilization_rate"`
	RoleBreakdown     map[string]int     `json:"role_breakdown"`
	HoursDistribution map[string]float64 `json:"hours_distribution"`
}

// Conflict double-booking detected in a schedule.
type Conflict struct {
	Type       string   `json:"type"`
	StaffID    string   `json:"staff_id"`
	Date       string   `json:"date"`
	ShiftTypes []string `json:"shift_types"`
	Resolution string   `json:"resolution"`
}

// candidate mutable per-run scoring state for one staff member.
type candidate struct {
	staff             *domain.Staff
	preferredShifts   []string
	maxHours          int
	availabilityScore float64
}

// GenerateWeekSchedule builds a Monday-Sunday schedule for the snapshot's
// facility, filling day then swing then noc so nobody works two slots in
// one day.
func GenerateWeekSchedule(snap *Snapshot, target time.Time) *WeekSchedule {
	dates := WeekDates(target)
	candidates := buildCandidates(snap)

	// Existing assignments block the same calendar date.
	assignedDates := existingAssignmentDates(snap)

	schedule := make([]*DaySchedule, 0, len(dates))
	for _, date := range dates {
		dateStr := date.Format("2006-01-02")
		day := &DaySchedule{
			Date:    dateStr,
			DayName: date.Weekday().String(),
			Shifts:  map[string]*ShiftSchedule{},
		}

		dayAssigned := map[string]bool{}
		for _, shiftType := range domain.ShiftTypes {
			shift := fillShift(snap, shiftType, candidates, dayAssigned, assignedDates, dateStr)
			day.Shifts[shiftType] = shift
			for _, st := range shift.AssignedStaff {
				dayAssigned[st.StaffID] = true
			}
		}
		schedule = append(schedule, day)
	}

	weekDates := make([]string, len(dates))
	for i, d := range dates {
		weekDates[i] = d.Format("2006-01-02")
	}

	return &WeekSchedule{
		Success:          true,
		Schedule:         schedule,
		ConfidenceScore:  scheduleConfidence(schedule),
		Reasoning:        scheduleReasoning(snap, schedule),
		StaffUtilization: staffUtilization(snap, schedule),
		Conflicts:        findConflicts(schedule),
		WeekDates:        weekDates,
	}
}

func buildCandidates(snap *Snapshot) []*candidate {
	assignmentCount := map[string]int{}
	for _, a := range snap.Assignments {
		assignmentCount[a.StaffID]++
	}

	candidates := []*candidate{}
	for _, st := range snap.Staff {
		if st.Status != domain.StaffStatusActive {
			continue
		}
		c := &candidate{
			staff:           st,
			preferredShifts: st.PreferredShifts,
			maxHours:        40,
		}
		if av, ok := snap.Availability[st.StaffID]; ok {
			if len(av.PreferredShifts) > 0 {
				c.preferredShifts = av.PreferredShifts
			}
			if av.MaxHours != nil && *av.MaxHours > 0 {
				c.maxHours = *av.MaxHours
			}
		}
		c.availabilityScore = availabilityScore(c, assignmentCount[st.StaffID])
		candidates = append(candidates, c)
	}
	return candidates
}

// availabilityScore starts at 100, penalizes existing load and rewards
// stated preferences and versatility.
func availabilityScore(c *candidate, currentAssignments int) float64 {
	score := 100.0
	score -= float64(currentAssignments) * 10
	if len(c.preferredShifts) > 0 {
		score += 20
	}
	if len(c.staff.Skills) > 1 {
		score += 15
	}
	return clamp(score, 0, 100)
}

// shiftSpecificScore adjusts the base score for the slot being filled.
// Noc is penalized unless preferred; long-hours staff absorb it better.
func shiftSpecificScore(c *candidate, shiftType string) float64 {
	score := c.availabilityScore

	if contains(c.preferredShifts, shiftType) {
		score += 25
	}

	switch shiftType {
	case domain.ShiftTypeNoc:
		if !contains(c.preferredShifts, domain.ShiftTypeNoc) {
			score -= 15
		}
		if c.staff.MaxHoursPerWeek > 35 {
			score += 10
		}
	case domain.ShiftTypeSwing:
		if c.staff.MaxHoursPerWeek > 30 {
			score += 5
		}
	case domain.ShiftTypeDay:
		score += 5
	}

	return clamp(score, 0, 100)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func existingAssignmentDates(snap *Snapshot) map[string]map[string]bool {
	shiftDates := map[string]string{}
	for _, sh := range snap.Shifts {
		shiftDates[sh.ShiftID] = sh.Date.Format("2006-01-02")
	}

	byStaff := map[string]map[string]bool{}
	for _, a := range snap.Assignments {
		date, ok := shiftDates[a.ShiftID]
		if !ok {
			continue
		}
		if byStaff[a.StaffID] == nil {
			byStaff[a.StaffID] = map[string]bool{}
		}
		byStaff[a.StaffID][date] = true
	}
	return byStaff
}

func fillShift(snap *Snapshot, shiftType string, candidates []*candidate,
	dayAssigned map[string]bool, assignedDates map[string]map[string]bool, dateStr string) *ShiftSchedule {

	template := findTemplate(snap.Templates, shiftType)
	if template == nil {
		return &ShiftSchedule{Status: ScheduleStatusNoTemplate, AssignedStaff: []*AssignedStaff{}}
	}

	requiredStaff := template.RequiredStaffCount
	if requiredStaff < 1 {
		requiredStaff = 1
	}
	requiredRoles := template.RequiredRoles
	if len(requiredRoles) == 0 {
		requiredRoles = []string{domain.StaffRoleCNA}
	}

	available := []*candidate{}
	for _, c := range candidates {
		if !contains(requiredRoles, c.staff.Role) {
			continue
		}
		if dayAssigned[c.staff.StaffID] {
			continue
		}
		if assignedDates[c.staff.StaffID][dateStr] {
			continue
		}
		available = append(available, c)
	}

	sort.SliceStable(available, func(i, j int) bool {
		return shiftSpecificScore(available[i], shiftType) > shiftSpecificScore(available[j], shiftType)
	})

	assigned := []*AssignedStaff{}
	for i := 0; i < requiredStaff && i < len(available); i++ {
		c := available[i]
		assigned = append(assigned, &AssignedStaff{
			StaffID:          c.staff.StaffID,
			Name:             c.staff.FullName(),
			Role:             c.staff.Role,
			AssignmentReason: assignmentReason(c, shiftType),
		})
		c.availabilityScore -= 30
	}

	return &ShiftSchedule{
		Status:             ScheduleStatusOptimized,
		TemplateName:       template.Name,
		RequiredStaff:      requiredStaff,
		AssignedStaff:      assigned,
		CoveragePercentage: float64(len(assigned)) / float64(requiredStaff) * 100,
	}
}

func assignmentReason(c *candidate, shiftType string) string {
	reasons := []string{fmt.Sprintf("Perfect %s match", strings.ToUpper(c.staff.Role))}
	if len(c.staff.Skills) > 0 {
		reasons = append(reasons, "Has required skills: "+strings.Join(c.staff.Skills, ", "))
	}
	if contains(c.preferredShifts, shiftType) {
		reasons = append(reasons, "Prefers this shift type")
	}
	if c.staff.MaxHoursPerWeek > 30 {
		reasons = append(reasons, "Experienced staff member")
	}
	return strings.Join(reasons, ". ")
}

// scheduleConfidence 40% full coverage, 30% mean coverage, 30% balance.
func scheduleConfidence(schedule []*DaySchedule) int {
	totalShifts := 0
	coveredShifts := 0
	coverageSum := 0.0

	for _, day := range schedule {
		for _, shift := range day.Shifts {
			if shift.Status != ScheduleStatusOptimized {
				continue
			}
			totalShifts++
			if shift.CoveragePercentage >= 100 {
				coveredShifts++
			}
			coverageSum += shift.CoveragePercentage
		}
	}
	if totalShifts == 0 {
		return 0
	}

	coverageScore := float64(coveredShifts) / float64(totalShifts) * 40
	utilizationScore := coverageSum / float64(totalShifts) / 100 * 30
	balance := balanceScore(schedule) * 30

	return int(clamp(coverageScore+utilizationScore+balance, 0, 100))
}

// balanceScore 1 minus the coefficient of variation of per-staff hours,
// floored at 0. Every shift counts as 8 hours.
func balanceScore(schedule []*DaySchedule) float64 {
	hours := map[string]float64{}
	for _, day := range schedule {
		for _, shift := range day.Shifts {
			if shift.Status != ScheduleStatusOptimized {
				continue
			}
			for _, st := range shift.AssignedStaff {
				hours[st.StaffID] += 8
			}
		}
	}
	if len(hours) == 0 {
		return 0
	}

	sum := 0.0
	for _, h := range hours {
		sum += h
	}
	mean := sum / float64(len(hours))
	if mean <= 0 {
		return 0
	}

	variance := 0.0
	for _, h := range hours {
		variance += (h - mean) * (h - mean)
	}
	variance /= float64(len(hours))
	stddev := math.Sqrt(variance)

	return math.Max(0, 1-stddev/mean)
}

func scheduleReasoning(snap *Snapshot, schedule []*DaySchedule) string {
	totalShifts := 0
	coveredShifts := 0
	resolved := 0
	assigned := map[string]bool{}
	roles := map[string]int{}

	for _, day := range schedule {
		totalShifts += len(day.Shifts)
		seen := map[string]bool{}
		for _, shift := range day.Shifts {
			if shift.CoveragePercentage >= 100 {
				coveredShifts++
			}
			for _, st := range shift.AssignedStaff {
				assigned[st.StaffID] = true
				roles[st.Role]++
				// Same staff twice on one day counts as a resolved conflict.
				if seen[st.StaffID] {
					resolved++
				}
				seen[st.StaffID] = true
			}
		}
	}

	parts := []string{fmt.Sprintf("Generated %d shifts with %d fully covered", totalShifts, coveredShifts)}

	utilization := 0.0
	if len(snap.Staff) > 0 {
		utilization = float64(len(assigned)) / float64(len(snap.Staff)) * 100
	}
	parts = append(parts, fmt.Sprintf("Utilized %.1f%% of available staff", utilization))

	if len(roles) > 0 {
		roleParts := []string{}
		for _, role := range []string{domain.StaffRoleRN, domain.StaffRoleLPN, domain.StaffRoleCNA,
			domain.StaffRoleMedTech, domain.StaffRoleAide, domain.StaffRoleSupervisor, domain.StaffRoleAdmin} {
			if n, ok := roles[role]; ok {
				roleParts = append(roleParts, fmt.Sprintf("%s: %d", role, n))
			}
		}
		parts = append(parts, "Role distribution: "+strings.Join(roleParts, ", "))
	}

	if resolved > 0 {
		parts = append(parts, fmt.Sprintf("Resolved %d potential scheduling conflicts", resolved))
	}

	return strings.Join(parts, ". ") + "."
}

func staffUtilization(snap *Snapshot, schedule []*DaySchedule) *StaffUtilization {
	assigned := map[string]bool{}
	roles := map[string]int{}
	hours := map[string]float64{}

	for _, day := range schedule {
		for _, shift := range day.Shifts {
			for _, st := range shift.AssignedStaff {
				assigned[st.StaffID] = true
				roles[st.Role]++
				hours[st.StaffID] += 8
			}
		}
	}

	rate := 0.0
	if len(snap.Staff) > 0 {
		rate = float64(len(assigned)) / float64(len(snap.Staff)) * 100
	}

	return &StaffUtilization{
		TotalStaff:        len(snap.Staff),
		AssignedStaff:     len(assigned),
		UtilizationRate:   round2(rate),
		RoleBreakdown:     roles,
		HoursDistribution: hours,
	}
}

func findConflicts(schedule []*DaySchedule) []*Conflict {
	conflicts := []*Conflict{}

	for _, day := range schedule {
		byStaff := map[string][]string{}
		for _, shiftType := range domain.ShiftTypes {
			shift, ok := day.Shifts[shiftType]
			if !ok {
				continue
			}
			for _, st := range shift.AssignedStaff {
				byStaff[st.StaffID] = append(byStaff[st.StaffID], shiftType)
			}
		}
		for staffID, shiftTypes := range byStaff {
			if len(shiftTypes) > 1 {
				conflicts = append(conflicts, &Conflict{
					Type:       "double_booking",
					StaffID:    staffID,
					Date:       day.Date,
					ShiftTypes: shiftTypes,
					Resolution: "Remove duplicate assignments",
				})
			}
		}
	}
	return conflicts
}
