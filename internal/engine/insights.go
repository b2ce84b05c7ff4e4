package engine

import (
	"fmt"

	"abst-data/internal/domain"
)

// Insights facility-level summary of care load and staffing fit.
type Insights struct {
	FacilityID                string         `json:"facility_id"`
	TotalResidents            int            `json:"total_residents"`
	TotalCareHours            float64        `json:"total_care_hours"`
	AverageAcuityScore        float64        `json:"average_acuity_score"`
	CareIntensityDistribution map[string]int `json:"care_intensity_distribution"`
	CarePatterns              []*CarePattern `json:"care_patterns"`
	StaffingEfficiencyScore   float64        `json:"staffing_efficiency_score"`
	Recommendations           []string       `json:"recommendations"`
}

// CarePattern group of residents sharing a care intensity level.
type CarePattern struct {
	PatternType      string  `json:"pattern_type"`
	ResidentCount    int     `json:"resident_count"`
	AverageCareHours float64 `json:"average_care_hours"`
	Description      string  `json:"description"`
}

// GetInsights computes the facility summary from a snapshot.
func GetInsights(snap *Snapshot) *Insights {
	analysis := AnalyzeResidents(snap)

	totalCareHours := 0.0
	sumAcuity := 0.0
	distribution := map[string]int{IntensityLow: 0, IntensityMedium: 0, IntensityHigh: 0}
	for _, a := range analysis {
		totalCareHours += a.TotalCareHours
		sumAcuity += a.AcuityScore
		distribution[a.CareIntensity]++
	}

	avgAcuity := 0.0
	if len(analysis) > 0 {
		avgAcuity = sumAcuity / float64(len(analysis))
	}

	return &Insights{
		FacilityID:                snap.FacilityID,
		TotalResidents:            len(snap.Residents),
		TotalCareHours:            round2(totalCareHours),
		AverageAcuityScore:        round2(avgAcuity),
		CareIntensityDistribution: distribution,
		CarePatterns:              identifyCarePatterns(analysis),
		StaffingEfficiencyScore:   staffingEfficiency(snap),
		Recommendations:           generalRecommendations(analysis),
	}
}

// identifyCarePatterns reports intensity groups holding more than one
// resident, in low/medium/high order.
func identifyCarePatterns(analysis map[string]*ResidentAnalysis) []*CarePattern {
	groups := map[string][]*ResidentAnalysis{}
	for _, a := range analysis {
		groups[a.CareIntensity] = append(groups[a.CareIntensity], a)
	}

	patterns := []*CarePattern{}
	for _, intensity := range []string{IntensityLow, IntensityMedium, IntensityHigh} {
		group := groups[intensity]
		if len(group) <= 1 {
			continue
		}
		sum := 0.0
		for _, a := range group {
			sum += a.TotalCareHours
		}
		avg := round2(sum / float64(len(group)))
		patterns = append(patterns, &CarePattern{
			PatternType:      intensity + "_care_intensity",
			ResidentCount:    len(group),
			AverageCareHours: avg,
			Description: fmt.Sprintf("%d residents require %s intensity care averaging %g hours daily",
				len(group), intensity, avg),
		})
	}
	return patterns
}

// staffingEfficiency ratio of available weekly staff hours to weekly care
// demand with a 20% buffer, clamped to [0,1]. 0.5 when data is missing.
func staffingEfficiency(snap *Snapshot) float64 {
	if len(snap.Staff) == 0 || len(snap.ADLs) == 0 {
		return 0.5
	}

	availableHours := 0.0
	for _, st := range snap.Staff {
		availableHours += float64(st.MaxHoursPerWeek)
	}

	dailyCareHours := 0.0
	for _, adl := range snap.ADLs {
		dailyCareHours += adl.TotalHours
	}
	weeklyCareHours := dailyCareHours * 7

	if weeklyCareHours <= 0 {
		return 1.0
	}
	return round2(clamp(availableHours/(weeklyCareHours*1.2), 0, 1))
}

func generalRecommendations(analysis map[string]*ResidentAnalysis) []string {
	recs := []string{}
	if len(analysis) == 0 {
		return recs
	}

	totalCareHours := 0.0
	highAcuity := 0
	shiftTotals := map[string]float64{}
	for _, a := range analysis {
		totalCareHours += a.TotalCareHours
		if a.CareIntensity == IntensityHigh {
			highAcuity++
		}
		for shiftType, hours := range a.ShiftTimes {
			shiftTotals[shiftType] += hours
		}
	}

	if float64(highAcuity) > float64(len(analysis))*0.3 {
		recs = append(recs, "Consider increasing staff during high-acuity periods")
	}
	if totalCareHours > float64(len(analysis))*6 {
		recs = append(recs, "High care requirements detected - review staffing ratios")
	}

	maxShift, minShift := 0.0, -1.0
	for _, shiftType := range domain.ShiftTypes {
		hours := shiftTotals[shiftType]
		if hours > maxShift {
			maxShift = hours
		}
		if minShift < 0 || hours < minShift {
			minShift = hours
		}
	}
	if maxShift > minShift*2 {
		recs = append(recs, "Consider redistributing care hours across shifts for better balance")
	}

	return recs
}
