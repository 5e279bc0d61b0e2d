// Package risk scores health-cost and longevity risk from tagged condition
// and habit codes. Free text never reaches these functions; translation
// happens in the profile package.
package risk

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/furkancam7/lifeplan/internal/profile"
)

// InsuranceIncomeThreshold is the monthly income above which the fixed
// insurance discount applies.
const InsuranceIncomeThreshold = 2000.0

var (
	one              = decimal.NewFromInt(1)
	discountFactor   = decimal.RequireFromString("0.7")
	lifestyleUnit    = decimal.RequireFromString("0.03")
	maxLifestyleGain = 10
)

// conditionWeight is the additive cost-risk contribution per chronic
// condition.
var conditionWeight = map[profile.Condition]decimal.Decimal{
	profile.ConditionDiabetes:     decimal.RequireFromString("0.96"),
	profile.ConditionHypertension: decimal.RequireFromString("0.72"),
	profile.ConditionHeartDisease: decimal.RequireFromString("1.20"),
	profile.ConditionAsthma:       decimal.RequireFromString("0.33"),
	profile.ConditionCancer:       decimal.RequireFromString("1.44"),
	profile.ConditionCOPD:         decimal.RequireFromString("0.96"),
	profile.ConditionDepression:   decimal.RequireFromString("0.48"),
	profile.ConditionObesity:      decimal.RequireFromString("0.72"),
	profile.ConditionAlzheimers:   decimal.RequireFromString("1.20"),
	profile.ConditionBoneCancer:   decimal.RequireFromString("1.44"),
}

// familyRisk is the additive contribution per family-history condition.
var familyRisk = map[profile.Condition]decimal.Decimal{
	profile.ConditionCancer:       decimal.RequireFromString("0.15"),
	profile.ConditionHeartDisease: decimal.RequireFromString("0.20"),
	profile.ConditionDiabetes:     decimal.RequireFromString("0.15"),
	profile.ConditionAlzheimers:   decimal.RequireFromString("0.15"),
	profile.ConditionBoneCancer:   decimal.RequireFromString("0.15"),
}

// baseCost is the annual base healthcare cost by region and age bracket.
var baseCost = map[string]map[string]decimal.Decimal{
	"usa": {
		"30-39": decimal.NewFromInt(2000),
		"40-49": decimal.NewFromInt(3000),
		"50-59": decimal.NewFromInt(4000),
		"60+":   decimal.NewFromInt(6000),
	},
	"europe": {
		"30-39": decimal.NewFromInt(1500),
		"40-49": decimal.NewFromInt(2250),
		"50-59": decimal.NewFromInt(3000),
		"60+":   decimal.NewFromInt(4500),
	},
	"turkey": {
		"30-39": decimal.NewFromInt(800),
		"40-49": decimal.NewFromInt(1200),
		"50-59": decimal.NewFromInt(1600),
		"60+":   decimal.NewFromInt(2400),
	},
	// Catch-all row for regions outside the named markets.
	"other": {
		"30-39": decimal.NewFromInt(1000),
		"40-49": decimal.NewFromInt(1500),
		"50-59": decimal.NewFromInt(2000),
		"60+":   decimal.NewFromInt(3000),
	},
}

// Factor is one row of the risk breakdown used in reports.
type Factor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Source      string `json:"source"`
}

const (
	sourceCDC = "https://www.cdc.gov/chronicdisease/about/costs/index.htm"
	sourceWHO = "https://www.who.int/data/gho"
)

// CostInput carries everything the cost prediction needs.
type CostInput struct {
	Region        string
	Age           int
	MonthlyIncome float64
	Conditions    []profile.Condition
	FamilyHistory []profile.Condition
	Habits        []profile.Habit
}

// CostInputFromProfile normalizes a profile into a CostInput.
func CostInputFromProfile(p *profile.Profile) CostInput {
	return CostInput{
		Region:        NormalizeRegion(p.Location),
		Age:           p.Age,
		MonthlyIncome: p.MonthlyIncome,
		Conditions:    p.ChronicConditions,
		FamilyHistory: p.HistoryConditions(),
		Habits:        p.Habits(),
	}
}

// CostResult is the outcome of one health-cost prediction.
type CostResult struct {
	Region            string          `json:"region"`
	AgeBracket        string          `json:"age_bracket"`
	BaseCost          decimal.Decimal `json:"base_cost"`
	ChronicRisk       decimal.Decimal `json:"chronic_risk"`
	FamilyRisk        decimal.Decimal `json:"family_risk"`
	LifestyleScore    int             `json:"lifestyle_score"`
	LifestyleRisk     decimal.Decimal `json:"lifestyle_risk"`
	TotalRisk         decimal.Decimal `json:"total_risk"`
	InsuranceDiscount bool            `json:"insurance_discount"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Factors           []Factor        `json:"factors"`
}

// PredictCost estimates the annual healthcare cost:
// base * (1 + chronic + family + lifestyle), with a fixed 30% discount when
// monthly income clears the insurance threshold.
func PredictCost(in CostInput) CostResult {
	region := in.Region
	if _, ok := baseCost[region]; !ok {
		region = "other"
	}
	bracket := AgeBracket(in.Age)
	base := baseCost[region][bracket]

	chronic := decimal.Zero
	for _, c := range in.Conditions {
		chronic = chronic.Add(conditionWeight[c])
	}
	family := decimal.Zero
	for _, c := range in.FamilyHistory {
		family = family.Add(familyRisk[c])
	}

	score := LifestyleScore(in.Habits)
	lifestyle := decimal.NewFromInt(int64(maxLifestyleGain - score)).Mul(lifestyleUnit)

	total := chronic.Add(family).Add(lifestyle)
	cost := base.Mul(one.Add(total))

	discount := in.MonthlyIncome >= InsuranceIncomeThreshold
	if discount {
		cost = cost.Mul(discountFactor)
	}

	res := CostResult{
		Region:            region,
		AgeBracket:        bracket,
		BaseCost:          base,
		ChronicRisk:       chronic,
		FamilyRisk:        family,
		LifestyleScore:    score,
		LifestyleRisk:     lifestyle,
		TotalRisk:         total,
		InsuranceDiscount: discount,
		EstimatedCost:     cost.Round(2),
	}
	res.Factors = costFactors(res)
	return res
}

// AgeBracket maps an age to its cost-table bracket. Ages below the first
// bracket share it.
func AgeBracket(age int) string {
	switch {
	case age < 40:
		return "30-39"
	case age < 50:
		return "40-49"
	case age < 60:
		return "50-59"
	default:
		return "60+"
	}
}

// NormalizeRegion maps a free-form location onto a cost-table region.
func NormalizeRegion(location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "usa"), strings.Contains(lower, "united states"),
		strings.Contains(lower, "america"):
		return "usa"
	case strings.Contains(lower, "turkey"), strings.Contains(lower, "türkiye"),
		strings.Contains(lower, "turkiye"):
		return "turkey"
	case strings.Contains(lower, "germany"), strings.Contains(lower, "france"),
		strings.Contains(lower, "uk"), strings.Contains(lower, "united kingdom"),
		strings.Contains(lower, "spain"), strings.Contains(lower, "italy"),
		strings.Contains(lower, "netherlands"), strings.Contains(lower, "europe"):
		return "europe"
	default:
		return "other"
	}
}

// LifestyleScore rates habits on a 0-10 scale. Exercise cadence, smoking,
// alcohol and diet each contribute a fixed share; an undisclosed diet still
// earns the minimum diet point.
func LifestyleScore(habits []profile.Habit) int {
	score := 0
	switch {
	case profile.HasHabit(habits, profile.HabitDailyExercise):
		score += 3
	case profile.HasHabit(habits, profile.HabitWeeklyExercise),
		profile.HasHabit(habits, profile.HabitPlaysSport):
		score += 2
	}
	if profile.HasHabit(habits, profile.HabitNonSmoker) {
		score += 2
	}
	if profile.HasHabit(habits, profile.HabitNoAlcohol) {
		score += 2
	}
	if profile.HasHabit(habits, profile.HabitHealthyDiet) {
		score += 3
	} else {
		score++
	}
	if score > maxLifestyleGain {
		score = maxLifestyleGain
	}
	return score
}

func costFactors(r CostResult) []Factor {
	return []Factor{
		{"base_cost", "Regional base cost for age bracket " + r.AgeBracket, r.BaseCost.String(), sourceWHO},
		{"chronic_risk", "Additive risk from chronic conditions", r.ChronicRisk.String(), sourceCDC},
		{"family_risk", "Additive risk from family history", r.FamilyRisk.String(), sourceCDC},
		{"lifestyle_risk", "Risk from lifestyle score " + strconv.Itoa(r.LifestyleScore) + "/10", r.LifestyleRisk.String(), sourceWHO},
		{"estimated_cost", "Base cost scaled by total risk and insurance discount", r.EstimatedCost.String(), sourceCDC},
	}
}
