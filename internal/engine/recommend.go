package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"abst-data/internal/domain"
)

// WeeklyRecommendation staffing suggestion for one day/shift cell.
type WeeklyRecommendation struct {
	Day             string  `json:"day"`
	ShiftType       string  `json:"shift_type"`
	CareHours       float64 `json:"care_hours"`
	StaffRequired   int     `json:"staff_required"`
	ResidentCount   int     `json:"resident_count"`
	ConfidenceScore int     `json:"confidence_score"`
	Reasoning       string  `json:"reasoning"`
}

// TemplateRecommendation planner-grid suggestion with canonical shift times.
type TemplateRecommendation struct {
	Day              string  `json:"day"`
	ShiftType        string  `json:"shift_type"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	DurationHours    float64 `json:"duration_hours"`
	StaffNeeded      int     `json:"staff_needed"`
	CareHoursCovered float64 `json:"care_hours_covered"`
	ResidentCount    int     `json:"resident_count"`
	ConfidenceScore  int     `json:"confidence_score"`
	Reasoning        string  `json:"reasoning"`
}

// ShiftRequirement per-shift staffing need derived from care hours and acuity.
type ShiftRequirement struct {
	TotalCareHours        float64 `json:"total_care_hours"`
	BaseStaffRequired     int     `json:"base_staff_required"`
	AcuityAdjustment      int     `json:"acuity_adjustment"`
	TotalStaffRecommended int     `json:"total_staff_recommended"`
	ResidentCount         int     `json:"resident_count"`
	HighAcuityCount       int     `json:"high_acuity_count"`
}

// OptimalShift template-bound recommendation for one shift type.
type OptimalShift struct {
	ShiftType            string  `json:"shift_type"`
	TemplateID           string  `json:"template_id"`
	TemplateName         string  `json:"template_name"`
	RecommendedStartTime string  `json:"recommended_start_time"`
	RecommendedEndTime   string  `json:"recommended_end_time"`
	StaffRequired        int     `json:"staff_required"`
	CareHours            float64 `json:"care_hours"`
	ResidentCount        int     `json:"resident_count"`
	HighAcuityCount      int     `json:"high_acuity_count"`
	ConfidenceScore      float64 `json:"confidence_score"`
	Reasoning            string  `json:"reasoning"`
}

func filterBySection(analysis map[string]*ResidentAnalysis, sectionID string) map[string]*ResidentAnalysis {
	if sectionID == "" {
		return analysis
	}
	filtered := map[string]*ResidentAnalysis{}
	for id, a := range analysis {
		if a.SectionID == sectionID {
			filtered[id] = a
		}
	}
	return filtered
}

func aggregateWeeklyPatterns(analysis map[string]*ResidentAnalysis) map[string]map[string]float64 {
	weekly := emptyWeekPatterns()
	for _, a := range analysis {
		for day, shifts := range a.DailyPatterns {
			for shiftType, hours := range shifts {
				weekly[day][shiftType] += hours
			}
		}
	}
	return weekly
}

// RecommendShiftsForWeek suggests staff counts per day/shift, busiest first.
func RecommendShiftsForWeek(snap *Snapshot, sectionID string) []*WeeklyRecommendation {
	analysis := filterBySection(AnalyzeResidents(snap), sectionID)
	if len(analysis) == 0 {
		return []*WeeklyRecommendation{}
	}

	weekly := aggregateWeeklyPatterns(analysis)
	recs := []*WeeklyRecommendation{}

	for _, day := range domain.DayNames {
		dayTotal := 0.0
		for _, hours := range weekly[day] {
			dayTotal += hours
		}
		if dayTotal <= 0 {
			continue
		}
		for _, shiftType := range domain.ShiftTypes {
			careHours := weekly[day][shiftType]
			if careHours <= 0 {
				continue
			}
			staff := staffForCareHours(careHours)
			recs = append(recs, &WeeklyRecommendation{
				Day:             day,
				ShiftType:       shiftType,
				CareHours:       round2(careHours),
				StaffRequired:   staff,
				ResidentCount:   len(analysis),
				ConfidenceScore: weeklyConfidence(careHours, len(analysis)),
				Reasoning: fmt.Sprintf("Care hours: %gh for %d residents on %s %s shift (1 staff per 8h care)",
					round2(careHours), len(analysis), day, shiftType),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CareHours > recs[j].CareHours
	})
	return recs
}

// RecommendShiftTemplates suggests planner-grid cells in week order.
func RecommendShiftTemplates(snap *Snapshot, sectionID string) []*TemplateRecommendation {
	analysis := filterBySection(AnalyzeResidents(snap), sectionID)
	if len(analysis) == 0 {
		return []*TemplateRecommendation{}
	}

	weekly := aggregateWeeklyPatterns(analysis)
	recs := []*TemplateRecommendation{}

	for _, day := range domain.DayNames {
		for _, shiftType := range domain.ShiftTypes {
			careHours := weekly[day][shiftType]
			if careHours <= 0 {
				continue
			}
			staff := staffForCareHours(careHours)
			times := standardShiftTimes[shiftType]
			recs = append(recs, &TemplateRecommendation{
				Day:              day,
				ShiftType:        shiftType,
				StartTime:        times.Start,
				EndTime:          times.End,
				DurationHours:    times.Duration,
				StaffNeeded:      staff,
				CareHoursCovered: round2(careHours),
				ResidentCount:    len(analysis),
				ConfidenceScore:  weeklyConfidence(careHours, len(analysis)),
				Reasoning: fmt.Sprintf("Need %d staff for %.1fh care on %s %s shift",
					staff, careHours, day, shiftType),
			})
		}
	}
	return recs
}

// CalculateStaffingRequirements aggregates care by shift type and sizes
// staff counts, adding headroom for high-acuity residents.
func CalculateStaffingRequirements(snap *Snapshot, sectionID string) map[string]*ShiftRequirement {
	analysis := filterBySection(AnalyzeResidents(snap), sectionID)
	if len(analysis) == 0 {
		return map[string]*ShiftRequirement{}
	}

	residentCount := countResidentsInSection(snap, sectionID)

	shiftHours := map[string]float64{}
	highAcuity := 0
	for _, a := range analysis {
		for shiftType, hours := range a.ShiftTimes {
			shiftHours[shiftType] += hours
		}
		if a.CareIntensity == IntensityHigh {
			highAcuity++
		}
	}

	reqs := map[string]*ShiftRequirement{}
	for _, shiftType := range domain.ShiftTypes {
		total := shiftHours[shiftType]
		base := staffForCareHours(total)
		adjustment := max(0, highAcuity-base)
		reqs[shiftType] = &ShiftRequirement{
			TotalCareHours:        round2(total),
			BaseStaffRequired:     base,
			AcuityAdjustment:      adjustment,
			TotalStaffRecommended: base + adjustment,
			ResidentCount:         residentCount,
			HighAcuityCount:       highAcuity,
		}
	}
	return reqs
}

func countResidentsInSection(snap *Snapshot, sectionID string) int {
	if sectionID == "" {
		return len(snap.Residents)
	}
	n := 0
	for _, r := range snap.Residents {
		if r.SectionID == sectionID {
			n++
		}
	}
	return n
}

// RecommendOptimalShifts binds staffing requirements to active templates,
// highest acuity pressure first. Shift types without a template are skipped.
func RecommendOptimalShifts(snap *Snapshot, sectionID string) []*OptimalShift {
	reqs := CalculateStaffingRequirements(snap, sectionID)
	if len(reqs) == 0 {
		return []*OptimalShift{}
	}

	recs := []*OptimalShift{}
	for _, shiftType := range domain.ShiftTypes {
		req := reqs[shiftType]
		template := findTemplate(snap.Templates, shiftType)
		if template == nil {
			continue
		}
		start := standardShiftTimes[shiftType].Start
		recs = append(recs, &OptimalShift{
			ShiftType:            shiftType,
			TemplateID:           template.TemplateID,
			TemplateName:         template.Name,
			RecommendedStartTime: start,
			RecommendedEndTime:   endTime(start, template.DurationHours),
			StaffRequired:        req.TotalStaffRecommended,
			CareHours:            req.TotalCareHours,
			ResidentCount:        req.ResidentCount,
			HighAcuityCount:      req.HighAcuityCount,
			ConfidenceScore:      shiftConfidence(req),
			Reasoning:            shiftReasoning(req),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].HighAcuityCount > recs[j].HighAcuityCount
	})
	return recs
}

func findTemplate(templates []*domain.ShiftTemplate, shiftType string) *domain.ShiftTemplate {
	for _, t := range templates {
		if t.ShiftType == shiftType {
			return t
		}
	}
	return nil
}

func endTime(start string, durationHours float64) string {
	var h, m int
	if _, err := fmt.Sscanf(start, "%d:%d", &h, &m); err != nil {
		return "16:00"
	}
	total := h*60 + m + int(durationHours*60)
	total %= 24 * 60
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// staffForCareHours one staff member covers 8 hours of care, minimum one.
func staffForCareHours(careHours float64) int {
	return max(1, int(math.Round(careHours/8.0)))
}

// weeklyConfidence 60 base, up to +20 for resident coverage and +20 for
// care volume, clamped to [60,100].
func weeklyConfidence(careHours float64, residentCount int) int {
	residentFactor := min(float64(residentCount)/20.0, 1.0) * 20
	hoursFactor := min(careHours/8.0, 1.0) * 20
	return int(clamp(math.Round(60+residentFactor+hoursFactor), 60, 100))
}

// shiftConfidence 0.6 base, up to +0.2 per factor, clamped to [0.6,1.0].
func shiftConfidence(req *ShiftRequirement) float64 {
	dataQuality := min(float64(req.ResidentCount)/15.0, 1.0) * 0.2
	careConsistency := min(req.TotalCareHours/8.0, 1.0) * 0.2
	return clamp(round2(0.6+dataQuality+careConsistency), 0.6, 1.0)
}

func shiftReasoning(req *ShiftRequirement) string {
	parts := []string{}
	if req.TotalCareHours > 0 {
		parts = append(parts, fmt.Sprintf("Based on %g hours of care requirements", req.TotalCareHours))
	}
	if req.HighAcuityCount > 0 {
		parts = append(parts, fmt.Sprintf("%d high-acuity residents requiring intensive care", req.HighAcuityCount))
	}
	if req.ResidentCount > 0 {
		parts = append(parts, fmt.Sprintf("Total of %d residents in this section", req.ResidentCount))
	}
	if req.AcuityAdjustment > 0 {
		parts = append(parts, "Additional staff recommended due to high care complexity")
	}
	if len(parts) == 0 {
		parts = append(parts, "Standard staffing based on facility guidelines")
	}
	return strings.Join(parts, ". ") + "."
}
