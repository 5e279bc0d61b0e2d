package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Gender values recognized by the projection engines.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Profile is the flat user record addressed by email. Identity fields are
// populated at signup; the rest is filled incrementally by the
// conversational profile filler. Profiles are never deleted.
type Profile struct {
	Name         string `json:"name_surname"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`

	Age                int    `json:"age"`
	Gender             Gender `json:"gender"`
	MaritalStatus      string `json:"marital_status"`
	Children           int    `json:"number_of_children"`
	EducationLevel     string `json:"education_level"`
	Occupation         string `json:"occupation"`
	AnnualWorkingHours int    `json:"annual_working_hours"`

	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	Debt            float64 `json:"debt"`
	Assets          string  `json:"assets"`
	Location        string  `json:"location"`

	// ChronicConditions is nil while unknown; an empty non-nil slice means
	// the user reported no conditions.
	ChronicConditions   []Condition `json:"chronic_diseases"`
	LifestyleHabits     string      `json:"lifestyle_habits"`
	FamilyHealthHistory string      `json:"family_health_history"`

	TargetRetirementAge    int     `json:"target_retirement_age"`
	TargetRetirementIncome float64 `json:"target_retirement_income"`
}

// New returns a profile holding only identity fields plus defaults.
// Children and Debt start at -1 meaning "not yet disclosed".
func New(name, email, passwordHash string) *Profile {
	return &Profile{
		Name:                name,
		Email:               strings.TrimSpace(strings.ToLower(email)),
		PasswordHash:        passwordHash,
		Children:            -1,
		Debt:                -1,
		AnnualWorkingHours:  2080,
		TargetRetirementAge: 65,
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	cp := *p
	if p.ChronicConditions != nil {
		cp.ChronicConditions = append([]Condition(nil), p.ChronicConditions...)
	}
	return &cp
}

// Apply sets a single field by its persisted key. Values may arrive as the
// native type, a JSON-decoded float64, or a string; conversions happen here
// so every write path shares the same validation.
func (p *Profile) Apply(field string, value any) error {
	switch field {
	case FieldAge:
		n, err := toInt(value)
		if err != nil || n < 0 || n > 130 {
			return fmt.Errorf("invalid age: %v", value)
		}
		p.Age = n
	case FieldGender:
		g, err := ParseGender(toString(value))
		if err != nil {
			return err
		}
		p.Gender = g
	case FieldMaritalStatus:
		p.MaritalStatus = strings.ToLower(strings.TrimSpace(toString(value)))
	case FieldChildren:
		n, err := toInt(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid children count: %v", value)
		}
		p.Children = n
	case FieldEducation:
		p.EducationLevel = strings.TrimSpace(toString(value))
	case FieldOccupation:
		p.Occupation = strings.TrimSpace(toString(value))
	case FieldWorkingHours:
		n, err := toInt(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid working hours: %v", value)
		}
		p.AnnualWorkingHours = n
	case FieldMonthlyIncome:
		f, err := toFloat(value)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid monthly income: %v", value)
		}
		p.MonthlyIncome = f
	case FieldMonthlyExpenses:
		f, err := toFloat(value)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid monthly expenses: %v", value)
		}
		p.MonthlyExpenses = f
	case FieldDebt:
		f, err := toFloat(value)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid debt: %v", value)
		}
		p.Debt = f
	case FieldAssets:
		p.Assets = strings.TrimSpace(toString(value))
	case FieldLocation:
		p.Location = strings.TrimSpace(toString(value))
	case FieldChronicConditions:
		switch v := value.(type) {
		case []Condition:
			if v == nil {
				v = []Condition{}
			}
			p.ChronicConditions = v
		case string:
			p.ChronicConditions = NormalizeConditions(v)
		case []any:
			out := []Condition{}
			for _, item := range v {
				out = append(out, NormalizeConditions(toString(item))...)
			}
			p.ChronicConditions = out
		default:
			return fmt.Errorf("invalid chronic conditions: %v", value)
		}
	case FieldLifestyle:
		p.LifestyleHabits = strings.TrimSpace(toString(value))
	case FieldFamilyHistory:
		p.FamilyHealthHistory = strings.TrimSpace(toString(value))
	case FieldTargetRetirementAge:
		n, err := toInt(value)
		if err != nil || n < 0 || n > 130 {
			return fmt.Errorf("invalid target retirement age: %v", value)
		}
		p.TargetRetirementAge = n
	case FieldTargetRetirementIncome:
		f, err := toFloat(value)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid target retirement income: %v", value)
		}
		p.TargetRetirementIncome = f
	default:
		return fmt.Errorf("unknown profile field %q", field)
	}
	return nil
}

// ParseGender maps free-form gender input onto the recognized values.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man":
		return GenderMale, nil
	case "female", "f", "woman":
		return GenderFemale, nil
	case "other", "non-binary", "nonbinary", "prefer not to say":
		return GenderOther, nil
	}
	return "", fmt.Errorf("unrecognized gender %q", s)
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(cleanNumber(n), 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	return strings.ReplaceAll(s, ",", "")
}
