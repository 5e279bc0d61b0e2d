package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkancam7/lifeplan/internal/profile"
)

func baseProfile() *profile.Profile {
	p := profile.New("Jane", "jane@example.com", "hash")
	p.Age = 30
	p.Gender = profile.GenderMale
	p.MonthlyIncome = 5000
	p.MonthlyExpenses = 3000
	p.Debt = 0
	p.TargetRetirementAge = 65
	p.TargetRetirementIncome = 2000
	return p
}

func TestReadinessWorkedExample(t *testing.T) {
	p := baseProfile()
	res := Readiness(p)

	assert.Equal(t, 24000.0, res.AnnualSavings)
	assert.Equal(t, 35.0, res.YearsToRetirement)

	wantAnnuity := 24000 * ((math.Pow(1.07, 35) - 1) / 0.07)
	assert.InDelta(t, wantAnnuity, res.AnnuityFV, 0.01)
	assert.Greater(t, res.AnnuityFV, 3.0e6)
	assert.Less(t, res.AnnuityFV, 4.0e6)

	assert.Zero(t, res.LumpSumFV, "empty assets contribute nothing")
	assert.Greater(t, res.Ratio, 1.2)
	assert.Equal(t, ClassEarly, res.Classification)
}

func TestReadinessZeroSavings(t *testing.T) {
	p := baseProfile()
	p.MonthlyExpenses = p.MonthlyIncome

	res := Readiness(p)
	assert.Greater(t, res.RequiredSavings, 0.0)
	assert.Zero(t, res.Ratio)
	assert.Equal(t, ClassDelayed, res.Classification)
}

func TestReadinessIdempotent(t *testing.T) {
	p := baseProfile()
	p.Assets = "savings of $50,000"
	p.FamilyHealthHistory = "diabetes"
	p.LifestyleHabits = "non-smoker, swims weekly"

	first := Readiness(p)
	second := Readiness(p)
	assert.Equal(t, first, second)
}

func TestLifeExpectancyBaseByGender(t *testing.T) {
	p := baseProfile()
	assert.Equal(t, 76.0, LifeExpectancy(p))

	p.Gender = profile.GenderFemale
	assert.Equal(t, 81.0, LifeExpectancy(p))

	p.Gender = profile.GenderOther
	assert.Equal(t, 78.0, LifeExpectancy(p))
}

func TestLifeExpectancyMonotoneInPenalties(t *testing.T) {
	histories := []string{
		"",
		"hypertension",
		"hypertension and diabetes",
		"hypertension, diabetes and cancer",
		"hypertension, diabetes, cancer, heart disease and alzheimer's",
	}

	p := baseProfile()
	prev := math.Inf(1)
	for _, history := range histories {
		p.FamilyHealthHistory = history
		got := LifeExpectancy(p)
		assert.LessOrEqual(t, got, prev, "history %q must not raise expectancy", history)
		assert.GreaterOrEqual(t, got, 60.0)
		prev = got
	}
}

func TestLifeExpectancyBonuses(t *testing.T) {
	p := baseProfile()
	base := LifeExpectancy(p)

	p.LifestyleHabits = "non-smoker"
	assert.Equal(t, base+5, LifeExpectancy(p))

	p.LifestyleHabits = "non-smoker, runs weekly"
	assert.Equal(t, base+8, LifeExpectancy(p))
}

func TestReadinessClampsInvertedAges(t *testing.T) {
	p := baseProfile()
	p.Age = 70 // past the target retirement age

	res := Readiness(p)
	assert.Equal(t, 1.0, res.YearsToRetirement)
	assert.GreaterOrEqual(t, res.RetirementDuration, 1.0)
}

func TestLumpSum(t *testing.T) {
	tests := []struct {
		assets string
		want   float64
		ok     bool
	}{
		{"savings of $50,000", 50000, true},
		{"I have $2,500 in savings", 2500, true},
		{"a house worth $300,000", 0, false},
		{"savings but no figure", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := LumpSum(tt.assets)
		assert.Equal(t, tt.want, got, tt.assets)
		assert.Equal(t, tt.ok, ok, tt.assets)
	}
}

func TestReadinessStepsCarrySources(t *testing.T) {
	res := Readiness(baseProfile())
	require.NotEmpty(t, res.Steps)
	for _, step := range res.Steps {
		assert.NotEmpty(t, step.Name)
		assert.NotEmpty(t, step.Description)
		assert.NotEmpty(t, step.Source)
	}
}
