package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndDavies/rooted-companion/internal"
)

func newTestFileStorage(t *testing.T) (*FileStorage, string, string) {
	t.Helper()
	dir := t.TempDir()
	profileFile := filepath.Join(dir, "profiles.json")
	plansFile := filepath.Join(dir, "plans.json")
	s, err := NewFileStorage(profileFile, plansFile, internal.NopLogger{})
	require.NoError(t, err)
	return s, profileFile, plansFile
}

func sampleProfile() *internal.CircadianProfile {
	return &internal.CircadianProfile{
		UserID: "u1",
		Derived: internal.DerivedCircadian{
			Chronotype:     internal.ChronotypeLark,
			WakeTime:       "06:30",
			Bedtime:        "22:30",
			CaffeineCutoff: "14:30",
		},
		Timezone:     "Europe/London",
		Availability: "morning",
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestFileStorageProfileRoundTrip(t *testing.T) {
	s, profileFile, plansFile := newTestFileStorage(t)

	require.NoError(t, s.SaveProfile(context.Background(), sampleProfile()))

	got, err := s.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, internal.ChronotypeLark, got.Derived.Chronotype)
	assert.Equal(t, "Europe/London", got.Timezone)

	_, err = s.GetProfile(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// Close flushes synchronously; a fresh storage sees the data.
	require.NoError(t, s.Close())
	reopened, err := NewFileStorage(profileFile, plansFile, internal.NopLogger{})
	require.NoError(t, err)
	defer reopened.Close()

	got, err = reopened.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "06:30", got.Derived.WakeTime)
}

func TestFileStoragePlanUpsert(t *testing.T) {
	s, _, _ := newTestFileStorage(t)
	defer s.Close()

	plan := &internal.WellnessPlan{
		ID:       "p1",
		UserID:   "u1",
		PlanDate: "2025-06-02",
		Payload: internal.PlanPayload{
			Title: "Reset week",
			Days: []internal.DayPlan{
				{Date: "2025-06-02", Tasks: []internal.DayTask{{Type: internal.PillarMovement, Title: "Walk"}}},
			},
		},
		Scheduled: true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.UpsertPlan(context.Background(), plan))

	got, err := s.GetPlan(context.Background(), "u1", "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.True(t, got.Scheduled)

	// Upsert replaces the row for the same (user, date).
	replacement := *plan
	replacement.ID = "p2"
	replacement.Scheduled = false
	require.NoError(t, s.UpsertPlan(context.Background(), &replacement))

	got, err = s.GetPlan(context.Background(), "u1", "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "p2", got.ID)
	assert.False(t, got.Scheduled)

	_, err = s.GetPlan(context.Background(), "u1", "2025-06-03")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
