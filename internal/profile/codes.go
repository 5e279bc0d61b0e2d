package profile

// Condition is a tagged chronic-condition code. Scoring tables key off these
// codes; free text is translated by NormalizeConditions, never matched
// directly by the engines.
type Condition string

const (
	ConditionDiabetes     Condition = "diabetes"
	ConditionHypertension Condition = "hypertension"
	ConditionHeartDisease Condition = "heart_disease"
	ConditionAsthma       Condition = "asthma"
	ConditionCancer       Condition = "cancer"
	ConditionCOPD         Condition = "copd"
	ConditionDepression   Condition = "depression"
	ConditionObesity      Condition = "obesity"
	ConditionAlzheimers   Condition = "alzheimers"
	ConditionBoneCancer   Condition = "bone_cancer"
)

// Habit is a tagged lifestyle-habit code.
type Habit string

const (
	HabitNonSmoker      Habit = "non_smoker"
	HabitSmoker         Habit = "smoker"
	HabitNoAlcohol      Habit = "no_alcohol"
	HabitAlcohol        Habit = "alcohol"
	HabitDailyExercise  Habit = "daily_exercise"
	HabitWeeklyExercise Habit = "weekly_exercise"
	HabitPlaysSport     Habit = "plays_sport"
	HabitHealthyDiet    Habit = "healthy_diet"
	HabitSedentary      Habit = "sedentary"
)

// HasCondition reports membership.
func HasCondition(list []Condition, c Condition) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}

// HasHabit reports membership.
func HasHabit(list []Habit, h Habit) bool {
	for _, item := range list {
		if item == h {
			return true
		}
	}
	return false
}
