package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkancam7/lifeplan/internal/profile"
)

func TestMemoryAddAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	p := profile.New("Jane Doe", "jane@example.com", "hash")
	require.NoError(t, s.AddUser(ctx, p))

	got, err := s.GetUser(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)

	assert.ErrorIs(t, s.AddUser(ctx, p), ErrUserExists)

	_, err = s.GetUser(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateMerges(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.AddUser(ctx, profile.New("Jane", "jane@example.com", "hash")))

	err := s.UpdateUser(ctx, "jane@example.com", map[string]any{
		profile.FieldAge:           32.0,
		profile.FieldMonthlyIncome: 5000.0,
	})
	require.NoError(t, err)

	err = s.UpdateUser(ctx, "jane@example.com", map[string]any{
		profile.FieldOccupation: "engineer",
	})
	require.NoError(t, err)

	got, err := s.GetUser(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 32, got.Age)
	assert.Equal(t, 5000.0, got.MonthlyIncome)
	assert.Equal(t, "engineer", got.Occupation)
}

func TestMemoryUpdateAtomicOnBadField(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.AddUser(ctx, profile.New("Jane", "jane@example.com", "hash")))

	err := s.UpdateUser(ctx, "jane@example.com", map[string]any{
		profile.FieldAge: 32.0,
		"bogus_field":    "x",
	})
	require.Error(t, err)

	got, err := s.GetUser(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Zero(t, got.Age, "failed update must not partially apply")
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.AddUser(ctx, profile.New("Jane", "jane@example.com", "hash")))

	got, err := s.GetUser(ctx, "jane@example.com")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.GetUser(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Name)
}
