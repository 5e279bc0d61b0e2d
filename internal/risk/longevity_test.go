package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/furkancam7/lifeplan/internal/profile"
)

func healthyProfile() *profile.Profile {
	p := profile.New("Jane", "jane@example.com", "hash")
	p.Age = 30
	p.Gender = profile.GenderFemale
	p.MonthlyIncome = 7000
	p.MaritalStatus = "married"
	p.EducationLevel = "University"
	p.ChronicConditions = []profile.Condition{}
	p.LifestyleHabits = "non-smoker, no alcohol, plays tennis"
	return p
}

func TestAssessLongevityHealthyBaseline(t *testing.T) {
	res := AssessLongevity(healthyProfile())

	assert.Equal(t, 81.0, res.BaseExpectancy)
	// +1 each for sport, non-smoker and no alcohol.
	assert.Equal(t, 84.0, res.ExpectedLifespan)
	assert.Equal(t, 0.0, res.RiskScore, "54 remaining years clamps risk to zero")
}

func TestAssessLongevityPenalties(t *testing.T) {
	p := healthyProfile()
	p.LifestyleHabits = ""
	p.MaritalStatus = "single"
	p.EducationLevel = "Primary school"
	p.MonthlyIncome = 2000
	p.ChronicConditions = []profile.Condition{profile.ConditionHeartDisease}
	p.FamilyHealthHistory = "cancer and alzheimer's disease"

	res := AssessLongevity(p)
	// 81 - 1 single - 2 primary - 2 low income - 4 heart - 2 cancer - 2 alzheimers
	assert.Equal(t, 68.0, res.ExpectedLifespan)
	assert.Equal(t, 100-(68-30)*2.0, res.RiskScore)
}

func TestAssessLongevityFloorsAtCurrentAge(t *testing.T) {
	p := healthyProfile()
	p.Age = 90
	p.LifestyleHabits = ""
	p.ChronicConditions = []profile.Condition{
		profile.ConditionCancer,
		profile.ConditionHeartDisease,
		profile.ConditionCOPD,
	}

	res := AssessLongevity(p)
	assert.Equal(t, 90.0, res.ExpectedLifespan)
	assert.Equal(t, 100.0, res.RiskScore, "no remaining years means maximum risk")
}

func TestLongevityLifestyleScore(t *testing.T) {
	assert.Equal(t, 5, LongevityLifestyleScore(nil))

	positive := []profile.Habit{
		profile.HabitNonSmoker,
		profile.HabitNoAlcohol,
		profile.HabitHealthyDiet,
		profile.HabitWeeklyExercise,
	}
	assert.Equal(t, 9, LongevityLifestyleScore(positive))

	negative := []profile.Habit{
		profile.HabitSmoker,
		profile.HabitAlcohol,
		profile.HabitSedentary,
	}
	assert.Equal(t, 2, LongevityLifestyleScore(negative))
}

func TestLongevityFactorsPresent(t *testing.T) {
	res := AssessLongevity(healthyProfile())
	assert.Len(t, res.Factors, 3)
	for _, f := range res.Factors {
		assert.NotEmpty(t, f.Name)
		assert.NotEmpty(t, f.Source)
	}
}
