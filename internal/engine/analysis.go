package engine

import (
	"abst-data/internal/domain"
)

// ResidentAnalysis per-resident care profile derived from the recorded
// shift-time maps and ADL entries.
type ResidentAnalysis struct {
	ResidentID     string                        `json:"resident_id"`
	Name           string                        `json:"name"`
	SectionID      string                        `json:"section_id"`
	TotalCareHours float64                       `json:"total_care_hours"`
	AcuityScore    float64                       `json:"acuity_score"`
	CareIntensity  string                        `json:"care_intensity"`
	ShiftTimes     map[string]float64            `json:"shift_time_distribution"` // hours per shift type
	DailyPatterns  map[string]map[string]float64 `json:"daily_care_patterns"`     // day -> shift type -> hours
}

// Care intensity levels
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

// AnalyzeResidents builds the per-resident care profile. Residents without
// any ADL records are skipped; their shift-time maps carry no signal.
func AnalyzeResidents(snap *Snapshot) map[string]*ResidentAnalysis {
	adlsByResident := map[string][]*domain.ADL{}
	for _, adl := range snap.ADLs {
		adlsByResident[adl.ResidentID] = append(adlsByResident[adl.ResidentID], adl)
	}

	analysis := map[string]*ResidentAnalysis{}
	for _, res := range snap.Residents {
		adls := adlsByResident[res.ResidentID]
		if len(adls) == 0 {
			continue
		}

		totalHours := 0.0
		for _, minutes := range res.TotalShiftTimes {
			if minutes > 0 {
				totalHours += minutes / 60.0
			}
		}

		score := acuityScore(adls, totalHours)
		analysis[res.ResidentID] = &ResidentAnalysis{
			ResidentID:     res.ResidentID,
			Name:           res.Name,
			SectionID:      res.SectionID,
			TotalCareHours: totalHours,
			AcuityScore:    score,
			CareIntensity:  categorizeIntensity(score),
			ShiftTimes:     shiftTimeDistribution(res.TotalShiftTimes),
			DailyPatterns:  dailyCarePatterns(res.TotalShiftTimes),
		}
	}
	return analysis
}

// acuityScore weighs total hours, ADL variety and average task size into a
// 0-10 score. Weights: 0.4 hours, 0.3 variety, 0.3 task size.
func acuityScore(adls []*domain.ADL, totalCareHours float64) float64 {
	hoursScore := min(totalCareHours/8.0, 10.0)

	unique := map[string]bool{}
	sumHours := 0.0
	for _, adl := range adls {
		unique[adl.QuestionText] = true
		sumHours += adl.TotalHours
	}
	complexityScore := min(float64(len(unique))/5.0, 5.0)
	frequencyScore := min(sumHours/float64(len(adls))/2.0, 5.0)

	total := hoursScore*0.4 + complexityScore*0.3 + frequencyScore*0.3
	return min(total, 10.0)
}

func categorizeIntensity(score float64) string {
	switch {
	case score <= 3:
		return IntensityLow
	case score <= 6:
		return IntensityMedium
	default:
		return IntensityHigh
	}
}

// shiftTimeDistribution sums care hours per shift type from the
// "ResidentTotal<Day><ShiftN>Time" minute map.
func shiftTimeDistribution(totalShiftTimes map[string]float64) map[string]float64 {
	dist := map[string]float64{
		domain.ShiftTypeDay:   0,
		domain.ShiftTypeSwing: 0,
		domain.ShiftTypeNoc:   0,
	}
	for key, minutes := range totalShiftTimes {
		if minutes <= 0 {
			continue
		}
		if shiftType, ok := domain.ShiftTypeFromKey(key); ok {
			dist[shiftType] += minutes / 60.0
		}
	}
	return dist
}

// dailyCarePatterns splits care hours by weekday and shift type.
func dailyCarePatterns(totalShiftTimes map[string]float64) map[string]map[string]float64 {
	patterns := emptyWeekPatterns()
	for key, minutes := range totalShiftTimes {
		if minutes <= 0 {
			continue
		}
		day, shiftType, ok := domain.ParseShiftKey(key)
		if !ok {
			continue
		}
		patterns[day][shiftType] += minutes / 60.0
	}
	return patterns
}

func emptyWeekPatterns() map[string]map[string]float64 {
	patterns := map[string]map[string]float64{}
	for _, day := range domain.DayNames {
		patterns[day] = map[string]float64{
			domain.ShiftTypeDay:   0,
			domain.ShiftTypeSwing: 0,
			domain.ShiftTypeNoc:   0,
		}
	}
	return patterns
}
