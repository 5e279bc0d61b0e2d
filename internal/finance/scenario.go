package finance

import (
	"math"

	"github.com/furkancam7/lifeplan/internal/profile"
)

// Grade classifies how well a scenario covers the retirement horizon.
type Grade string

const (
	GradeStrong    Grade = "STRONG"
	GradeStable    Grade = "STABLE"
	GradeAttention Grade = "ATTENTION"
)

// scenarioSpec is a fixed (retirement-age offset, savings multiplier) pair.
type scenarioSpec struct {
	name       string
	ageOffset  int
	multiplier float64
}

var scenarioSpecs = []scenarioSpec{
	{"base", 0, 1.0},
	{"accelerated_savings", -5, 1.5},
	{"early_exit", -5, 1.0},
	{"extended_work", +5, 0.8},
	{"optimized", +5, 1.2},
}

// Scenario is one alternative retirement strategy.
type Scenario struct {
	Name              string  `json:"name"`
	RetirementAge     int     `json:"retirement_age"`
	SavingsMultiplier float64 `json:"savings_multiplier"`
	ProjectedTotal    float64 `json:"projected_total"`
	CoverageYears     float64 `json:"coverage_years"`
	Grade             Grade   `json:"grade"`
}

// Scenarios re-runs the projection for each fixed strategy and grades the
// outcome against the base retirement duration from res.
func Scenarios(p *profile.Profile, res Result) []Scenario {
	monthlySavings := nonNegative(p.MonthlyIncome) - nonNegative(p.MonthlyExpenses)
	annualTarget := nonNegative(p.TargetRetirementIncome) * 12

	out := make([]Scenario, 0, len(scenarioSpecs))
	for _, spec := range scenarioSpecs {
		retireAt := p.TargetRetirementAge + spec.ageOffset
		years := math.Max(float64(retireAt-p.Age), 1)
		// Each strategy's annuity stacks on top of the already-projected
		// base savings, lump sum and base annuity both included.
		total := AnnuityFV(monthlySavings*spec.multiplier*12, years) + res.TotalProjected
		// An unstated income goal covers nothing rather than everything.
		coverage := 0.0
		if annualTarget > 0 {
			coverage = total / annualTarget
		}

		out = append(out, Scenario{
			Name:              spec.name,
			RetirementAge:     retireAt,
			SavingsMultiplier: spec.multiplier,
			ProjectedTotal:    total,
			CoverageYears:     coverage,
			Grade:             gradeCoverage(coverage, res.RetirementDuration),
		})
	}
	return out
}

func gradeCoverage(coverage, duration float64) Grade {
	switch {
	case coverage >= duration:
		return GradeStrong
	case coverage >= 0.75*duration:
		return GradeStable
	default:
		return GradeAttention
	}
}
