package profile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Persisted field keys. These double as the patch keys accepted by
// Profile.Apply and the store's partial-update maps.
const (
	FieldAge                    = "age"
	FieldGender                 = "gender"
	FieldMaritalStatus          = "marital_status"
	FieldChildren               = "number_of_children"
	FieldEducation              = "education_level"
	FieldOccupation             = "occupation"
	FieldWorkingHours           = "annual_working_hours"
	FieldMonthlyIncome          = "monthly_income"
	FieldMonthlyExpenses        = "monthly_expenses"
	FieldDebt                   = "debt"
	FieldAssets                 = "assets"
	FieldLocation               = "location"
	FieldChronicConditions      = "chronic_diseases"
	FieldLifestyle              = "lifestyle_habits"
	FieldFamilyHistory          = "family_health_history"
	FieldTargetRetirementAge    = "target_retirement_age"
	FieldTargetRetirementIncome = "target_retirement_income"
)

// SlotKind selects the parsing strategy for user answers.
type SlotKind int

const (
	KindText SlotKind = iota
	KindNumber
	KindMoney
	KindConditions
)

// Slot describes one profile field the conversational filler collects.
type Slot struct {
	Field  string
	Label  string
	Kind   SlotKind
	Prompt string // fallback question when the text generator is unavailable
	filled func(*Profile) bool
}

// Slots is the collection order. Identity fields are captured at signup and
// defaulted fields (working hours, target retirement age) are not asked.
var Slots = []Slot{
	{FieldAge, "age", KindNumber, "How old are you?",
		func(p *Profile) bool { return p.Age > 0 }},
	{FieldGender, "gender", KindText, "What is your gender?",
		func(p *Profile) bool { return p.Gender != "" }},
	{FieldMaritalStatus, "marital status", KindText, "What is your marital status?",
		func(p *Profile) bool { return p.MaritalStatus != "" }},
	{FieldChildren, "number of children", KindNumber, "How many children do you have?",
		func(p *Profile) bool { return p.Children >= 0 }},
	{FieldEducation, "education level", KindText, "What is your highest education level?",
		func(p *Profile) bool { return p.EducationLevel != "" }},
	{FieldOccupation, "occupation", KindText, "What is your occupation?",
		func(p *Profile) bool { return p.Occupation != "" }},
	{FieldMonthlyIncome, "monthly income", KindMoney, "What is your monthly income in dollars?",
		func(p *Profile) bool { return p.MonthlyIncome > 0 }},
	{FieldMonthlyExpenses, "monthly expenses", KindMoney, "Roughly how much do you spend per month?",
		func(p *Profile) bool { return p.MonthlyExpenses > 0 }},
	{FieldDebt, "outstanding debt", KindMoney, "How much debt do you currently have, if any?",
		func(p *Profile) bool { return p.Debt >= 0 }},
	{FieldAssets, "assets", KindText, "What savings or assets do you have? A short description is fine.",
		func(p *Profile) bool { return p.Assets != "" }},
	{FieldLocation, "location", KindText, "Which country do you live in?",
		func(p *Profile) bool { return p.Location != "" }},
	{FieldChronicConditions, "chronic conditions", KindConditions, "Do you have any chronic health conditions?",
		func(p *Profile) bool { return p.ChronicConditions != nil }},
	{FieldLifestyle, "lifestyle habits", KindText, "Tell me about your lifestyle habits: exercise, smoking, alcohol, diet.",
		func(p *Profile) bool { return p.LifestyleHabits != "" }},
	{FieldFamilyHistory, "family health history", KindText, "Any significant health conditions in your family history?",
		func(p *Profile) bool { return p.FamilyHealthHistory != "" }},
	{FieldTargetRetirementIncome, "target retirement income", KindMoney, "What monthly income would you like in retirement?",
		func(p *Profile) bool { return p.TargetRetirementIncome > 0 }},
}

// Filled reports whether the slot already holds a value.
func (s Slot) Filled(p *Profile) bool { return s.filled(p) }

// Missing returns the unfilled slots in collection order.
func Missing(p *Profile) []Slot {
	var out []Slot
	for _, s := range Slots {
		if !s.filled(p) {
			out = append(out, s)
		}
	}
	return out
}

// Complete reports whether every slot is filled.
func Complete(p *Profile) bool { return len(Missing(p)) == 0 }

// SlotByField looks a slot up by its field key.
func SlotByField(field string) (Slot, bool) {
	for _, s := range Slots {
		if s.Field == field {
			return s, true
		}
	}
	return Slot{}, false
}

var numberPattern = regexp.MustCompile(`[-+]?\$?\d[\d,]*(?:\.\d+)?`)

var noAnswerWords = []string{"none", "nothing", "no debt", "zero", "n/a", "nope"}

// ParseAnswer converts a raw user answer into the value Apply expects for
// the slot. It is the deterministic fallback used when the text generator
// cannot extract a value, and the validator for values the generator did
// extract.
func (s Slot) ParseAnswer(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty answer for %s", s.Label)
	}
	switch s.Kind {
	case KindNumber, KindMoney:
		if isNoAnswer(raw) {
			return float64(0), nil
		}
		match := numberPattern.FindString(raw)
		if match == "" {
			return nil, fmt.Errorf("no number found in %q", raw)
		}
		f, err := strconv.ParseFloat(cleanNumber(match), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", match, err)
		}
		return f, nil
	case KindConditions:
		if isNoAnswer(raw) || strings.EqualFold(raw, "no") {
			return []Condition{}, nil
		}
		return NormalizeConditions(raw), nil
	default:
		return raw, nil
	}
}

func isNoAnswer(raw string) bool {
	lower := strings.ToLower(raw)
	for _, w := range noAnswerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
