// Package report assembles engine outputs and generated narrative into PDF
// artifacts, and manages the reports directory.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/finance"
	"github.com/furkancam7/lifeplan/internal/llm"
	"github.com/furkancam7/lifeplan/internal/logging"
	"github.com/furkancam7/lifeplan/internal/profile"
	"github.com/furkancam7/lifeplan/internal/risk"
	"github.com/furkancam7/lifeplan/internal/store"
)

// Kind names a report family.
type Kind string

const (
	KindRetirement Kind = "retirement"
	KindHealthCost Kind = "health_cost"
	KindLongevity  Kind = "longevity"
)

const (
	financialDisclaimer = "This report is generated from self-reported data and fixed model assumptions. It is educational material, not financial advice."
	medicalDisclaimer   = "This report is generated from self-reported data and heuristic risk tables. It is educational material, not medical advice."
)

// Hooks let the caller observe degraded paths without the service knowing
// about metrics.
type Hooks struct {
	NarrativeFallback func(kind string)
}

// Service generates, lists and deletes report artifacts.
type Service struct {
	profiles  store.ProfileStore
	gen       llm.Generator
	artifacts *Store
	logger    logging.Logger
	hooks     Hooks
	now       func() time.Time
}

// NewService wires the report assembler.
func NewService(profiles store.ProfileStore, gen llm.Generator, artifacts *Store, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		profiles:  profiles,
		gen:       gen,
		artifacts: artifacts,
		logger:    logger.Named("report"),
		now:       time.Now,
	}
}

// WithNow lets tests control the clock used in artifact names.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithHooks installs observation hooks.
func (s *Service) WithHooks(hooks Hooks) { s.hooks = hooks }

// GenerateRetirement produces the retirement readiness report for the
// session's profile. The artifact is named after the user.
func (s *Service) GenerateRetirement(ctx context.Context, sess auth.Session) (Artifact, error) {
	p, err := s.profiles.GetUser(ctx, sess.Email)
	if err != nil {
		return Artifact{}, fmt.Errorf("load profile: %w", err)
	}

	res := finance.Readiness(p)
	scenarios := finance.Scenarios(p, res)
	sections := s.generateSections(ctx, KindRetirement, retirementPrompt(p, res, scenarios))

	doc := Document{
		Title:       "Retirement Readiness Report",
		Owner:       p.Name,
		GeneratedAt: s.now(),
		Sections:    sections,
		Tables: []Table{
			profileTable(p),
			{
				Title:  "Projection",
				Header: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Life expectancy", fmt.Sprintf("%.1f years", res.LifeExpectancy)},
					{"Annual savings", money(res.AnnualSavings)},
					{"Years to retirement", fmt.Sprintf("%.0f", res.YearsToRetirement)},
					{"Projected savings at retirement", money(res.TotalProjected)},
					{"Required savings", money(res.RequiredSavings)},
					{"Readiness ratio", fmt.Sprintf("%.2f", res.Ratio)},
					{"Classification", string(res.Classification)},
				},
			},
			scenarioTable(scenarios),
			stepTable(res.Steps),
		},
		Disclaimer: financialDisclaimer,
	}

	name := fmt.Sprintf("retirement_report_%s.pdf", slug(p.Name))
	return s.write(name, doc, KindRetirement)
}

// GenerateHealthCost produces the annual health-cost prediction report.
// Artifacts are timestamp-named.
func (s *Service) GenerateHealthCost(ctx context.Context, sess auth.Session) (Artifact, error) {
	p, err := s.profiles.GetUser(ctx, sess.Email)
	if err != nil {
		return Artifact{}, fmt.Errorf("load profile: %w", err)
	}

	res := risk.PredictCost(risk.CostInputFromProfile(p))
	sections := s.generateSections(ctx, KindHealthCost, healthCostPrompt(p, res))

	doc := Document{
		Title:       "Health Cost Prediction",
		Owner:       p.Name,
		GeneratedAt: s.now(),
		Sections:    sections,
		Tables: []Table{
			{
				Title:  "Prediction",
				Header: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Region", res.Region},
					{"Age bracket", res.AgeBracket},
					{"Base annual cost", "$" + res.BaseCost.String()},
					{"Lifestyle score", fmt.Sprintf("%d / 10", res.LifestyleScore)},
					{"Total risk factor", res.TotalRisk.String()},
					{"Insurance discount", yesNo(res.InsuranceDiscount)},
					{"Estimated annual cost", "$" + res.EstimatedCost.StringFixed(2)},
				},
			},
			factorTable(res.Factors),
		},
		Disclaimer: medicalDisclaimer,
	}

	name := fmt.Sprintf("health_cost_prediction_%s.pdf", s.stamp())
	return s.write(name, doc, KindHealthCost)
}

// GenerateLongevity produces the longevity analysis report. Artifacts are
// timestamp-named.
func (s *Service) GenerateLongevity(ctx context.Context, sess auth.Session) (Artifact, error) {
	p, err := s.profiles.GetUser(ctx, sess.Email)
	if err != nil {
		return Artifact{}, fmt.Errorf("load profile: %w", err)
	}

	res := risk.AssessLongevity(p)
	sections := s.generateSections(ctx, KindLongevity, longevityPrompt(p, res))

	doc := Document{
		Title:       "Longevity Analysis",
		Owner:       p.Name,
		GeneratedAt: s.now(),
		Sections:    sections,
		Tables: []Table{
			{
				Title:  "Assessment",
				Header: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Current age", fmt.Sprintf("%d", p.Age)},
					{"Baseline expectancy", fmt.Sprintf("%.1f years", res.BaseExpectancy)},
					{"Expected lifespan", fmt.Sprintf("%.1f years", res.ExpectedLifespan)},
					{"Longevity risk score", fmt.Sprintf("%.0f / 100", res.RiskScore)},
					{"Lifestyle score", fmt.Sprintf("%d / 10", res.LifestyleScore)},
				},
			},
			factorTable(res.Factors),
		},
		Disclaimer: medicalDisclaimer,
	}

	name := fmt.Sprintf("longevity_report_%s.pdf", s.stamp())
	return s.write(name, doc, KindLongevity)
}

// List enumerates all generated reports.
func (s *Service) List() ([]Artifact, error) { return s.artifacts.List() }

// Path resolves a report for download.
func (s *Service) Path(name string) (string, error) { return s.artifacts.Path(name) }

// Delete removes a report artifact.
func (s *Service) Delete(name string) error { return s.artifacts.Delete(name) }

func (s *Service) write(name string, doc Document, kind Kind) (Artifact, error) {
	artifact, err := s.artifacts.Write(name, func(w io.Writer) error {
		return Render(doc, w)
	})
	if err != nil {
		return Artifact{}, err
	}
	s.logger.Info("generated %s report %s (%d bytes)", kind, artifact.Name, artifact.Size)
	return artifact, nil
}

func (s *Service) stamp() string {
	return s.now().Format("20060102_150405")
}

func profileTable(p *profile.Profile) Table {
	return Table{
		Title:  "Profile",
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Age", fmt.Sprintf("%d", p.Age)},
			{"Gender", string(p.Gender)},
			{"Occupation", p.Occupation},
			{"Location", p.Location},
			{"Monthly income", money(p.MonthlyIncome)},
			{"Monthly expenses", money(p.MonthlyExpenses)},
			{"Target retirement age", fmt.Sprintf("%d", p.TargetRetirementAge)},
			{"Target retirement income", money(p.TargetRetirementIncome)},
		},
	}
}

func scenarioTable(scenarios []finance.Scenario) Table {
	rows := make([][]string, 0, len(scenarios))
	for _, sc := range scenarios {
		rows = append(rows, []string{
			sc.Name,
			fmt.Sprintf("%d", sc.RetirementAge),
			fmt.Sprintf("%.1fx", sc.SavingsMultiplier),
			money(sc.ProjectedTotal),
			string(sc.Grade),
		})
	}
	return Table{
		Title:  "Scenarios",
		Header: []string{"Scenario", "Retire at", "Savings rate", "Projected", "Grade"},
		Rows:   rows,
	}
}

func stepTable(steps []finance.Step) Table {
	rows := make([][]string, 0, len(steps))
	for _, step := range steps {
		rows = append(rows, []string{step.Name, step.Description, fmt.Sprintf("%.2f", step.Value), step.Source})
	}
	return Table{
		Title:  "Calculation Details",
		Header: []string{"Step", "Description", "Value", "Source"},
		Rows:   rows,
	}
}

func factorTable(factors []risk.Factor) Table {
	rows := make([][]string, 0, len(factors))
	for _, f := range factors {
		rows = append(rows, []string{f.Name, f.Description, f.Value, f.Source})
	}
	return Table{
		Title:  "Calculation Details",
		Header: []string{"Factor", "Description", "Value", "Source"},
		Rows:   rows,
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
