package profile

import "strings"

// conditionKeywords maps substrings to condition codes. Order matters:
// "bone cancer" must win over "cancer".
var conditionKeywords = []struct {
	keyword string
	code    Condition
}{
	{"bone cancer", ConditionBoneCancer},
	{"cancer", ConditionCancer},
	{"diabet", ConditionDiabetes},
	{"hypertension", ConditionHypertension},
	{"blood pressure", ConditionHypertension},
	{"heart", ConditionHeartDisease},
	{"cardiac", ConditionHeartDisease},
	{"asthma", ConditionAsthma},
	{"copd", ConditionCOPD},
	{"depress", ConditionDepression},
	{"obes", ConditionObesity},
	{"alzheimer", ConditionAlzheimers},
}

// NormalizeConditions translates free health text into condition codes.
// Unrecognized text yields an empty (non-nil) slice; "none" style answers do
// the same. Duplicates are collapsed, first-mention order preserved.
func NormalizeConditions(text string) []Condition {
	out := []Condition{}
	lower := strings.ToLower(text)
	seen := map[Condition]bool{}
	for _, entry := range conditionKeywords {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		// "cancer" also matches "bone cancer" text; skip the generic code
		// when the specific one already matched.
		if entry.code == ConditionCancer && seen[ConditionBoneCancer] {
			continue
		}
		if !seen[entry.code] {
			seen[entry.code] = true
			out = append(out, entry.code)
		}
	}
	return out
}

var sportKeywords = []string{
	"basketball", "football", "soccer", "tennis", "swimming", "running",
	"cycling", "gym", "yoga", "pilates", "hiking", "jogging", "runs", "sport",
}

// NormalizeHabits translates free lifestyle text into habit codes.
// Negations are resolved before the positive forms so "non-smoker" never
// yields the smoker code.
func NormalizeHabits(text string) []Habit {
	lower := strings.ToLower(text)
	out := []Habit{}
	add := func(h Habit) {
		if !HasHabit(out, h) {
			out = append(out, h)
		}
	}

	switch {
	case strings.Contains(lower, "non-smoker"),
		strings.Contains(lower, "non smoker"),
		strings.Contains(lower, "nonsmoker"),
		strings.Contains(lower, "don't smoke"),
		strings.Contains(lower, "do not smoke"),
		strings.Contains(lower, "never smoke"),
		strings.Contains(lower, "no smoking"):
		add(HabitNonSmoker)
	case strings.Contains(lower, "smok"):
		add(HabitSmoker)
	}

	switch {
	case strings.Contains(lower, "no alcohol"),
		strings.Contains(lower, "don't drink"),
		strings.Contains(lower, "do not drink"),
		strings.Contains(lower, "never drink"),
		strings.Contains(lower, "teetotal"):
		add(HabitNoAlcohol)
	case strings.Contains(lower, "alcohol"), strings.Contains(lower, "drink"):
		add(HabitAlcohol)
	}

	switch {
	case strings.Contains(lower, "daily"), strings.Contains(lower, "every day"),
		strings.Contains(lower, "everyday"):
		add(HabitDailyExercise)
	case strings.Contains(lower, "weekly"), strings.Contains(lower, "a week"),
		strings.Contains(lower, "per week"):
		add(HabitWeeklyExercise)
	}

	for _, sport := range sportKeywords {
		if strings.Contains(lower, sport) {
			add(HabitPlaysSport)
			break
		}
	}

	if strings.Contains(lower, "healthy diet") || strings.Contains(lower, "balanced diet") ||
		strings.Contains(lower, "eat healthy") || strings.Contains(lower, "healthy eating") {
		add(HabitHealthyDiet)
	}
	if strings.Contains(lower, "sedentary") || strings.Contains(lower, "no exercise") ||
		strings.Contains(lower, "never exercise") {
		add(HabitSedentary)
	}
	return out
}

// HistoryConditions extracts condition codes from the family-history text.
func (p *Profile) HistoryConditions() []Condition {
	return NormalizeConditions(p.FamilyHealthHistory)
}

// Habits extracts habit codes from the lifestyle text.
func (p *Profile) Habits() []Habit {
	return NormalizeHabits(p.LifestyleHabits)
}
