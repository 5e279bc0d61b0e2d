package report

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/furkancam7/lifeplan/internal/finance"
	"github.com/furkancam7/lifeplan/internal/llm"
	"github.com/furkancam7/lifeplan/internal/profile"
	"github.com/furkancam7/lifeplan/internal/risk"
)

// FallbackNarrative replaces generated text when the text-generation
// service fails; report generation continues with it.
const FallbackNarrative = "Automated commentary is temporarily unavailable. " +
	"The figures in this report were computed directly from your profile data. " +
	"Please review them with a licensed advisor."

func retirementPrompt(p *profile.Profile, res finance.Result, scenarios []finance.Scenario) string {
	var b strings.Builder
	b.WriteString("Write a retirement readiness analysis in plain language. ")
	b.WriteString("Use short sections with UPPERCASE headings (SUMMARY, PROJECTION, RECOMMENDATIONS). Do not use markdown.\n\n")
	fmt.Fprintf(&b, "Profile: age %d, target retirement age %d, monthly income %.0f, monthly expenses %.0f.\n",
		p.Age, p.TargetRetirementAge, p.MonthlyIncome, p.MonthlyExpenses)
	fmt.Fprintf(&b, "Computed results: life expectancy %.1f, projected savings %.0f, required savings %.0f, readiness ratio %.2f, classification %s.\n",
		res.LifeExpectancy, res.TotalProjected, res.RequiredSavings, res.Ratio, res.Classification)
	b.WriteString("Scenarios:\n")
	for _, s := range scenarios {
		fmt.Fprintf(&b, "- %s: retire at %d, projected %.0f, grade %s\n",
			s.Name, s.RetirementAge, s.ProjectedTotal, s.Grade)
	}
	return b.String()
}

func healthCostPrompt(p *profile.Profile, res risk.CostResult) string {
	var b strings.Builder
	b.WriteString("Write a short health-cost outlook in plain language. ")
	b.WriteString("Use UPPERCASE headings (SUMMARY, RISK FACTORS, RECOMMENDATIONS). Do not use markdown.\n\n")
	fmt.Fprintf(&b, "Region %s, age bracket %s, base annual cost %s.\n", res.Region, res.AgeBracket, res.BaseCost)
	fmt.Fprintf(&b, "Chronic risk %s, family risk %s, lifestyle score %d/10, estimated annual cost %s (insurance discount: %t).\n",
		res.ChronicRisk, res.FamilyRisk, res.LifestyleScore, res.EstimatedCost, res.InsuranceDiscount)
	fmt.Fprintf(&b, "Lifestyle habits reported: %s.\n", orNone(p.LifestyleHabits))
	return b.String()
}

func longevityPrompt(p *profile.Profile, res risk.LongevityResult) string {
	var b strings.Builder
	b.WriteString("Write a short longevity outlook in plain language. ")
	b.WriteString("Use UPPERCASE headings (SUMMARY, KEY FACTORS, RECOMMENDATIONS). Do not use markdown.\n\n")
	fmt.Fprintf(&b, "Age %d, expected lifespan %.1f, risk score %.0f/100, lifestyle score %d/10.\n",
		p.Age, res.ExpectedLifespan, res.RiskScore, res.LifestyleScore)
	fmt.Fprintf(&b, "Family history: %s. Chronic conditions: %d reported.\n",
		orNone(p.FamilyHealthHistory), len(p.ChronicConditions))
	return b.String()
}

// generateSections asks the generator for narrative text and splits it into
// sections. Any failure degrades to the fixed fallback block.
func (s *Service) generateSections(ctx context.Context, kind Kind, prompt string) []Section {
	text, err := s.gen.Generate(ctx, prompt, llm.Options{Temperature: 0.6, TopP: 0.95, MaxTokens: 1024})
	if err != nil {
		s.logger.Warn("narrative for %s report degraded: %v", kind, err)
		if s.hooks.NarrativeFallback != nil {
			s.hooks.NarrativeFallback(string(kind))
		}
		return []Section{{Heading: "NOTE", Body: FallbackNarrative}}
	}
	return SplitSections(text)
}

// SplitSections splits narrative text on uppercase-heading lines. The
// parsing is heuristic: text without recognizable headings comes back as a
// single section.
func SplitSections(text string) []Section {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var sections []Section
	current := Section{}
	flush := func() {
		current.Body = strings.TrimSpace(current.Body)
		if current.Heading != "" || current.Body != "" {
			sections = append(sections, current)
		}
		current = Section{}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isHeading(trimmed) {
			flush()
			current.Heading = strings.TrimSuffix(trimmed, ":")
			continue
		}
		current.Body += line + "\n"
	}
	flush()

	if len(sections) == 0 {
		return []Section{{Body: strings.TrimSpace(text)}}
	}
	return sections
}

// isHeading treats short all-caps lines (optionally colon-terminated) as
// section headings.
func isHeading(line string) bool {
	if line == "" || len(line) > 60 {
		return false
	}
	letters := 0
	for _, r := range strings.TrimSuffix(line, ":") {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		} else if !unicode.IsSpace(r) && r != '&' && r != '-' {
			return false
		}
	}
	return letters >= 3
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none reported"
	}
	return s
}
