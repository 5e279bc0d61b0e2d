package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/llm"
	"github.com/furkancam7/lifeplan/internal/profile"
	"github.com/furkancam7/lifeplan/internal/store"
)

func testProfile() *profile.Profile {
	p := profile.New("Jane Doe", "jane@example.com", "hash")
	p.Age = 34
	p.Gender = profile.GenderFemale
	p.MaritalStatus = "married"
	p.Children = 1
	p.EducationLevel = "University"
	p.Occupation = "engineer"
	p.MonthlyIncome = 5000
	p.MonthlyExpenses = 3000
	p.Debt = 0
	p.Assets = "savings of $20,000"
	p.Location = "Austin, USA"
	p.ChronicConditions = []profile.Condition{}
	p.LifestyleHabits = "non-smoker, runs weekly"
	p.FamilyHealthHistory = "none"
	p.TargetRetirementIncome = 2000
	return p
}

func newTestService(t *testing.T, gen llm.Generator) (*Service, auth.Session) {
	t.Helper()
	profiles := store.NewMemory()
	require.NoError(t, profiles.AddUser(context.Background(), testProfile()))

	artifacts, err := NewStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(profiles, gen, artifacts, nil)
	svc.WithNow(func() time.Time {
		return time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	})
	return svc, auth.Session{Token: "tok", Email: "jane@example.com", Name: "Jane Doe"}
}

func TestGenerateRetirementReport(t *testing.T) {
	gen := llm.NewMock("SUMMARY\nLooking good.\nRECOMMENDATIONS\nKeep saving.")
	svc, sess := newTestService(t, gen)

	artifact, err := svc.GenerateRetirement(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "retirement_report_jane_doe.pdf", artifact.Name)
	assert.Greater(t, artifact.Size, int64(0))

	path, err := svc.Path(artifact.Name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "artifact must be a PDF")
}

func TestGenerateTimestampNamedReports(t *testing.T) {
	gen := llm.NewMock("SUMMARY\nAll fine.")
	svc, sess := newTestService(t, gen)

	health, err := svc.GenerateHealthCost(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "health_cost_prediction_20260829_103000.pdf", health.Name)

	longevity, err := svc.GenerateLongevity(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "longevity_report_20260829_103000.pdf", longevity.Name)
}

func TestSameSecondReportsDoNotOverwrite(t *testing.T) {
	gen := llm.NewMock("SUMMARY\nAll fine.")
	svc, sess := newTestService(t, gen)

	first, err := svc.GenerateHealthCost(context.Background(), sess)
	require.NoError(t, err)
	second, err := svc.GenerateHealthCost(context.Background(), sess)
	require.NoError(t, err)

	assert.NotEqual(t, first.Name, second.Name)
	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGenerationContinuesWhenGeneratorFails(t *testing.T) {
	gen := llm.NewMock()
	gen.Err = errors.New("provider down")
	svc, sess := newTestService(t, gen)

	fallbacks := 0
	svc.WithHooks(Hooks{NarrativeFallback: func(string) { fallbacks++ }})

	artifact, err := svc.GenerateRetirement(context.Background(), sess)
	require.NoError(t, err, "report generation must survive narrative failure")
	assert.Greater(t, artifact.Size, int64(0))
	assert.Equal(t, 1, fallbacks)
}

func TestGenerateForUnknownUserFails(t *testing.T) {
	svc, _ := newTestService(t, llm.NewMock("x"))

	_, err := svc.GenerateRetirement(context.Background(), auth.Session{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteReport(t *testing.T) {
	gen := llm.NewMock("SUMMARY\nAll fine.")
	svc, sess := newTestService(t, gen)

	artifact, err := svc.GenerateLongevity(context.Background(), sess)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(artifact.Name))
	_, err = svc.Path(artifact.Name)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
