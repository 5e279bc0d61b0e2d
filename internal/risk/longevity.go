package risk

import (
	"strconv"
	"strings"

	"github.com/furkancam7/lifeplan/internal/profile"
)

// Longevity base expectancy by gender, shared with the projection engine's
// assumptions.
const (
	longevityBaseMale    = 76.0
	longevityBaseFemale  = 81.0
	longevityBaseUnknown = 78.0
)

// conditionPenalty is the years-of-life reduction per chronic condition.
var conditionPenalty = map[profile.Condition]float64{
	profile.ConditionDiabetes:     3,
	profile.ConditionHypertension: 2,
	profile.ConditionHeartDisease: 4,
	profile.ConditionAsthma:       1,
	profile.ConditionCancer:       5,
	profile.ConditionCOPD:         3,
	profile.ConditionDepression:   2,
	profile.ConditionObesity:      3,
	profile.ConditionAlzheimers:   4,
	profile.ConditionBoneCancer:   5,
}

// positiveHabits and negativeHabits drive the longevity lifestyle score.
var positiveHabits = []profile.Habit{
	profile.HabitNonSmoker,
	profile.HabitNoAlcohol,
	profile.HabitHealthyDiet,
	profile.HabitDailyExercise,
	profile.HabitWeeklyExercise,
	profile.HabitPlaysSport,
}

var negativeHabits = []profile.Habit{
	profile.HabitSmoker,
	profile.HabitAlcohol,
	profile.HabitSedentary,
}

// LongevityResult is the outcome of one longevity assessment.
type LongevityResult struct {
	BaseExpectancy   float64  `json:"base_expectancy"`
	ExpectedLifespan float64  `json:"expected_lifespan"`
	RiskScore        float64  `json:"risk_score"`
	LifestyleScore   int      `json:"lifestyle_score"`
	Factors          []Factor `json:"factors"`
}

// AssessLongevity estimates expected lifespan from demographics, chronic
// conditions, family history and habits, then derives a 0-100 risk score
// from the years remaining beyond the current age.
func AssessLongevity(p *profile.Profile) LongevityResult {
	base := longevityBaseUnknown
	switch p.Gender {
	case profile.GenderMale:
		base = longevityBaseMale
	case profile.GenderFemale:
		base = longevityBaseFemale
	}

	adjustment := 0.0

	education := strings.ToLower(p.EducationLevel)
	switch {
	case strings.Contains(education, "primary"):
		adjustment -= 2
	case strings.Contains(education, "high school"):
		adjustment -= 1
	}

	switch {
	case p.MonthlyIncome < 3000:
		adjustment -= 2
	case p.MonthlyIncome < 6000:
		adjustment -= 1
	}

	if strings.Contains(strings.ToLower(p.MaritalStatus), "single") {
		adjustment -= 1
	}

	history := p.HistoryConditions()
	if profile.HasCondition(history, profile.ConditionCancer) ||
		profile.HasCondition(history, profile.ConditionBoneCancer) {
		adjustment -= 2
	}
	if profile.HasCondition(history, profile.ConditionAlzheimers) {
		adjustment -= 2
	}

	habits := p.Habits()
	for _, h := range []profile.Habit{profile.HabitPlaysSport, profile.HabitNonSmoker, profile.HabitNoAlcohol} {
		if profile.HasHabit(habits, h) {
			adjustment += 1
		}
	}

	for _, c := range p.ChronicConditions {
		adjustment -= conditionPenalty[c]
	}

	expected := base + adjustment
	if expected < float64(p.Age) {
		expected = float64(p.Age)
	}

	risk := 100 - (expected-float64(p.Age))*2
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}

	res := LongevityResult{
		BaseExpectancy:   base,
		ExpectedLifespan: expected,
		RiskScore:        risk,
		LifestyleScore:   LongevityLifestyleScore(habits),
	}
	res.Factors = longevityFactors(res)
	return res
}

// LongevityLifestyleScore starts at a neutral 5 and moves one point per
// recognized habit, clamped to [0,10].
func LongevityLifestyleScore(habits []profile.Habit) int {
	score := 5
	for _, h := range positiveHabits {
		if profile.HasHabit(habits, h) {
			score++
		}
	}
	for _, h := range negativeHabits {
		if profile.HasHabit(habits, h) {
			score--
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

func longevityFactors(r LongevityResult) []Factor {
	return []Factor{
		{"base_expectancy", "Baseline life expectancy by gender", formatYears(r.BaseExpectancy), sourceWHO},
		{"expected_lifespan", "Baseline adjusted for demographics, conditions and habits", formatYears(r.ExpectedLifespan), sourceWHO},
		{"risk_score", "100 minus twice the years remaining beyond current age", formatYears(r.RiskScore), sourceCDC},
	}
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
