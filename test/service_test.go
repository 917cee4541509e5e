package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/lock"
	"github.com/AndDavies/rooted-companion/internal/service"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

func setupRepos(t *testing.T) (storage.ProfileRepository, storage.PlanRepository, string) {
	t.Helper()
	dir := t.TempDir()
	plansFile := filepath.Join(dir, "plans.json")
	profileRepo, planRepo, err := storage.NewFileRepositories(filepath.Join(dir, "profiles.json"), plansFile, internal.NopLogger{})
	require.NoError(t, err)
	return profileRepo, planRepo, plansFile
}

func TestScreenerToScheduledPlan(t *testing.T) {
	profileRepo, planRepo, plansFile := setupRepos(t)
	user := &internal.User{ID: "u1", Token: "MOCK-TOKEN", Name: "Demo User"}
	ctx := context.Background()

	profile, err := service.SubmitScreener(ctx, profileRepo, user, &service.ScreenerRequest{
		SelfID:       "evening",
		WakeTime:     "09:30",
		Bedtime:      "01:00",
		Timezone:     "America/New_York",
		Availability: "evening",
	})
	require.NoError(t, err)
	assert.Equal(t, internal.ChronotypeOwl, profile.Derived.Chronotype)
	assert.Equal(t, "17:00", profile.Derived.CaffeineCutoff)

	payload := internal.PlanPayload{
		Title: "Night owl reset",
		Days: []internal.DayPlan{
			{
				Date: "2025-06-02",
				Tasks: []internal.DayTask{
					{Type: internal.PillarBreathwork, Title: "Morning breath", TimeSuggestion: "morning"},
					{Type: internal.PillarNutrition, Title: "Unhurried dinner", TimeSuggestion: "evening"},
					{Type: internal.PillarSleep, Title: "Pre-sleep journaling"},
				},
			},
		},
	}

	result, err := service.SchedulePlanForUser(ctx, profileRepo, planRepo, lock.NoopLocker{}, internal.NopLogger{}, user, payload)
	require.NoError(t, err)
	require.True(t, result.Scheduled)

	// Every instant sits inside [wake, bed-30m] for the bedtime-past-
	// midnight window: 09:30 EDT Jun 2 through 00:30 EDT Jun 3.
	wake := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 6, 3, 4, 30, 0, 0, time.UTC)
	for _, task := range result.Payload.Days[0].Tasks {
		at, err := time.Parse(time.RFC3339, task.ScheduledAt)
		require.NoError(t, err)
		assert.False(t, at.Before(wake), "%s scheduled before wake", task.Title)
		assert.False(t, at.After(windowEnd), "%s scheduled past bed-30m", task.Title)
	}

	// The run persisted a per-day row.
	row, err := service.GetPlan(ctx, planRepo, user, "2025-06-02")
	require.NoError(t, err)
	assert.True(t, row.Scheduled)
	assert.Equal(t, "Night owl reset", row.Payload.Title)

	// And the debounced writer eventually flushes it to disk.
	deadline := time.Now().Add(3 * time.Second)
	for {
		if info, err := os.Stat(plansFile); err == nil && info.Size() > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("plans file was never flushed")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
