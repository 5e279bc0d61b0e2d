// Package finance computes life-expectancy and retirement-readiness
// projections from a profile snapshot. Everything here is a pure function
// of its inputs: the same profile always yields the same Result.
package finance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/furkancam7/lifeplan/internal/profile"
)

// ReturnRate is the fixed nominal annual return used for all projections.
const ReturnRate = 0.07

// Life-expectancy base values by gender and the hard floor.
const (
	baseMale    = 76.0
	baseFemale  = 81.0
	baseUnknown = 78.0
	expectFloor = 60.0
)

// Classification buckets for the readiness ratio. Thresholds are fixed.
type Classification string

const (
	ClassEarly    Classification = "early_retirement"
	ClassStandard Classification = "standard_retirement"
	ClassDelayed  Classification = "delayed_retirement"

	thresholdEarly    = 1.2
	thresholdStandard = 0.8
)

// historyPenalty maps family-history conditions to years subtracted from
// the base expectancy.
var historyPenalty = map[profile.Condition]float64{
	profile.ConditionAlzheimers:   5,
	profile.ConditionCancer:       7,
	profile.ConditionDiabetes:     5,
	profile.ConditionHeartDisease: 7,
	profile.ConditionHypertension: 3,
}

// habitBonus maps lifestyle habits to years added.
var habitBonus = map[profile.Habit]float64{
	profile.HabitNonSmoker:      5,
	profile.HabitWeeklyExercise: 3,
	profile.HabitDailyExercise:  3,
}

// Step is one row of the calculation breakdown, used for narrative prompts
// and the report detail table.
type Step struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Source      string  `json:"source"`
}

// Result is the ephemeral output of one readiness computation.
type Result struct {
	LifeExpectancy     float64        `json:"life_expectancy"`
	AnnualSavings      float64        `json:"annual_savings"`
	YearsToRetirement  float64        `json:"years_to_retirement"`
	RetirementDuration float64        `json:"retirement_duration"`
	LumpSumFV          float64        `json:"lump_sum_future_value"`
	AnnuityFV          float64        `json:"annuity_future_value"`
	TotalProjected     float64        `json:"total_projected"`
	RequiredSavings    float64        `json:"required_savings"`
	Ratio              float64        `json:"ratio"`
	Classification     Classification `json:"classification"`
	Steps              []Step         `json:"steps"`
}

const (
	sourceActuarial = "https://www.ssa.gov/oact/STATS/table4c6.html"
	sourceCompound  = "https://www.investor.gov/financial-tools-calculators/calculators/compound-interest-calculator"
)

// LifeExpectancy estimates remaining lifespan from gender, family history
// and lifestyle habits. Family-history conditions subtract years, healthy
// habits add them, and the estimate never drops below the floor of 60.
func LifeExpectancy(p *profile.Profile) float64 {
	var base float64
	switch p.Gender {
	case profile.GenderMale:
		base = baseMale
	case profile.GenderFemale:
		base = baseFemale
	default:
		base = baseUnknown
	}

	for _, c := range p.HistoryConditions() {
		base -= historyPenalty[c]
	}

	habits := p.Habits()
	if profile.HasHabit(habits, profile.HabitNonSmoker) {
		base += habitBonus[profile.HabitNonSmoker]
	}
	// Exercise counts once, at the strongest matched cadence.
	switch {
	case profile.HasHabit(habits, profile.HabitDailyExercise):
		base += habitBonus[profile.HabitDailyExercise]
	case profile.HasHabit(habits, profile.HabitWeeklyExercise):
		base += habitBonus[profile.HabitWeeklyExercise]
	}

	return math.Max(expectFloor, base)
}

// Readiness computes the full financial-readiness projection. Missing
// numeric fields behave as zero; target retirement ages at or below the
// current age clamp the accumulation horizon to one year.
func Readiness(p *profile.Profile) Result {
	expectancy := LifeExpectancy(p)

	income := nonNegative(p.MonthlyIncome)
	expenses := nonNegative(p.MonthlyExpenses)
	annualSavings := (income - expenses) * 12

	years := math.Max(float64(p.TargetRetirementAge-p.Age), 1)
	duration := math.Max(expectancy-float64(p.TargetRetirementAge), 1)

	lumpSum, _ := LumpSum(p.Assets)
	lumpSumFV := lumpSum * math.Pow(1+ReturnRate, years)
	annuityFV := AnnuityFV(annualSavings, years)
	total := lumpSumFV + annuityFV

	required := math.Max(nonNegative(p.TargetRetirementIncome)*12*duration, 1)
	ratio := total / required

	res := Result{
		LifeExpectancy:     expectancy,
		AnnualSavings:      annualSavings,
		YearsToRetirement:  years,
		RetirementDuration: duration,
		LumpSumFV:          lumpSumFV,
		AnnuityFV:          annuityFV,
		TotalProjected:     total,
		RequiredSavings:    required,
		Ratio:              ratio,
		Classification:     Classify(ratio),
	}
	res.Steps = buildSteps(p, res)
	return res
}

// AnnuityFV is the future value of an ordinary annuity of yearly payments
// at the fixed return rate.
func AnnuityFV(yearlyPayment, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return yearlyPayment * ((math.Pow(1+ReturnRate, years) - 1) / ReturnRate)
}

// Classify buckets a readiness ratio.
func Classify(ratio float64) Classification {
	switch {
	case ratio >= thresholdEarly:
		return ClassEarly
	case ratio >= thresholdStandard:
		return ClassStandard
	default:
		return ClassDelayed
	}
}

var lumpSumPattern = regexp.MustCompile(`\$(\d[\d,]*)`)

// LumpSum extracts a one-time savings amount from the free-text assets
// field. The text must mention savings and carry a dollar figure; anything
// else contributes zero with ok=false, never an error.
func LumpSum(assets string) (float64, bool) {
	if !strings.Contains(strings.ToLower(assets), "savings") {
		return 0, false
	}
	match := lumpSumPattern.FindStringSubmatch(assets)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func buildSteps(p *profile.Profile, r Result) []Step {
	return []Step{
		{
			Name:        "life_expectancy",
			Description: "Estimated lifespan from gender, family history and lifestyle",
			Value:       r.LifeExpectancy,
			Source:      sourceActuarial,
		},
		{
			Name:        "annual_savings",
			Description: fmt.Sprintf("(%.0f income - %.0f expenses) x 12 months", p.MonthlyIncome, p.MonthlyExpenses),
			Value:       r.AnnualSavings,
			Source:      sourceCompound,
		},
		{
			Name:        "years_to_retirement",
			Description: fmt.Sprintf("Target age %d minus current age %d, minimum 1", p.TargetRetirementAge, p.Age),
			Value:       r.YearsToRetirement,
			Source:      sourceActuarial,
		},
		{
			Name:        "lump_sum_future_value",
			Description: fmt.Sprintf("Existing savings compounded at %.0f%% annually", ReturnRate*100),
			Value:       r.LumpSumFV,
			Source:      sourceCompound,
		},
		{
			Name:        "annuity_future_value",
			Description: fmt.Sprintf("Yearly savings compounded at %.0f%% over %.0f years", ReturnRate*100, r.YearsToRetirement),
			Value:       r.AnnuityFV,
			Source:      sourceCompound,
		},
		{
			Name:        "required_savings",
			Description: fmt.Sprintf("Target income x 12 x %.0f retirement years", r.RetirementDuration),
			Value:       r.RequiredSavings,
			Source:      sourceCompound,
		},
		{
			Name:        "readiness_ratio",
			Description: "Total projected savings divided by required savings",
			Value:       r.Ratio,
			Source:      sourceCompound,
		},
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
