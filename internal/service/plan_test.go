package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/lock"
)

// recordingLocker tracks acquire/release calls and can simulate a lost race.
type recordingLocker struct {
	acquired []string
	released []string
	deny     bool
}

func (l *recordingLocker) TryAcquire(ctx context.Context, userID, date string) bool {
	l.acquired = append(l.acquired, userID+"/"+date)
	return !l.deny
}

func (l *recordingLocker) Release(ctx context.Context, userID, date string) {
	l.released = append(l.released, userID+"/"+date)
}

var _ lock.Locker = (*recordingLocker)(nil)

func seedProfile(t *testing.T, repos *memRepos, tz string) {
	t.Helper()
	_, err := SubmitScreener(context.Background(), repos, demoUser(), &ScreenerRequest{
		SelfID:   "neither",
		WakeTime: "07:00",
		Bedtime:  "23:00",
		Timezone: "Europe/London",
	})
	require.NoError(t, err)
	if tz != "Europe/London" {
		// Corrupt the stored zone to simulate a profile the scheduler
		// cannot resolve.
		repos.profiles["u1"].Timezone = tz
	}
}

func samplePlan() internal.PlanPayload {
	return internal.PlanPayload{
		Title: "Foundation week",
		Days: []internal.DayPlan{
			{
				Date: "2025-06-02",
				Tasks: []internal.DayTask{
					{Type: internal.PillarMovement, Title: "Morning walk", TimeSuggestion: "morning"},
					{Type: internal.PillarSleep, Title: "Wind-down routine"},
				},
			},
			{
				Date: "2025-06-03",
				Tasks: []internal.DayTask{
					{Type: internal.PillarNutrition, Title: "Slow lunch", TimeSuggestion: "midday"},
				},
			},
		},
	}
}

func TestSchedulePlanForUser(t *testing.T) {
	repos := newMemRepos()
	seedProfile(t, repos, "Europe/London")
	locker := &recordingLocker{}

	result, err := SchedulePlanForUser(context.Background(), repos, repos, locker, internal.NopLogger{}, demoUser(), samplePlan())
	require.NoError(t, err)
	assert.True(t, result.Scheduled)
	require.Len(t, result.Payload.Days, 2)
	for _, day := range result.Payload.Days {
		for _, task := range day.Tasks {
			assert.NotEmpty(t, task.ScheduledAt)
		}
	}

	// One row per day, flagged scheduled.
	for _, date := range []string{"2025-06-02", "2025-06-03"} {
		row, err := GetPlan(context.Background(), repos, demoUser(), date)
		require.NoError(t, err)
		assert.True(t, row.Scheduled)
		assert.Equal(t, "Foundation week", row.Payload.Title)
		require.Len(t, row.Payload.Days, 1)
		assert.Equal(t, date, row.Payload.Days[0].Date)
	}

	assert.Equal(t, []string{"u1/2025-06-02", "u1/2025-06-03"}, locker.acquired)
}

func TestSchedulePlanFallsBackOnSchedulingFailure(t *testing.T) {
	repos := newMemRepos()
	seedProfile(t, repos, "Nowhere/Invalid")
	locker := &recordingLocker{}

	result, err := SchedulePlanForUser(context.Background(), repos, repos, locker, internal.NopLogger{}, demoUser(), samplePlan())
	require.NoError(t, err, "a scheduling failure must not fail the run")
	assert.False(t, result.Scheduled)

	// Tasks survive without scheduled_at, still orderable by suggestion.
	for _, day := range result.Payload.Days {
		require.NotEmpty(t, day.Tasks)
		for _, task := range day.Tasks {
			assert.Empty(t, task.ScheduledAt)
		}
	}

	row, err := GetPlan(context.Background(), repos, demoUser(), "2025-06-02")
	require.NoError(t, err)
	assert.False(t, row.Scheduled)
}

func TestSchedulePlanProceedsWithoutLock(t *testing.T) {
	repos := newMemRepos()
	seedProfile(t, repos, "Europe/London")
	locker := &recordingLocker{deny: true}

	result, err := SchedulePlanForUser(context.Background(), repos, repos, locker, internal.NopLogger{}, demoUser(), samplePlan())
	require.NoError(t, err)
	assert.True(t, result.Scheduled)
	// Denied locks are never released.
	assert.Empty(t, locker.released)
}

func TestSchedulePlanRequiresProfile(t *testing.T) {
	repos := newMemRepos()
	_, err := SchedulePlanForUser(context.Background(), repos, repos, &recordingLocker{}, internal.NopLogger{}, demoUser(), samplePlan())
	assert.Error(t, err)
}

func TestValidatePlanScheduleRequest(t *testing.T) {
	valid := &PlanScheduleRequest{
		Title: "Reset",
		Days: []DayPlanRequest{
			{Date: "2025-06-02", Tasks: []DayTaskRequest{{Type: "movement", Title: "Walk", TimeSuggestion: "morning"}}},
		},
	}
	assert.NoError(t, ValidatePlanScheduleRequest(valid))

	badPillar := &PlanScheduleRequest{
		Title: "Reset",
		Days: []DayPlanRequest{
			{Date: "2025-06-02", Tasks: []DayTaskRequest{{Type: "banana", Title: "Walk"}}},
		},
	}
	assert.Error(t, ValidatePlanScheduleRequest(badPillar))

	badBand := &PlanScheduleRequest{
		Title: "Reset",
		Days: []DayPlanRequest{
			{Date: "2025-06-02", Tasks: []DayTaskRequest{{Type: "movement", Title: "Walk", TimeSuggestion: "dawn"}}},
		},
	}
	assert.Error(t, ValidatePlanScheduleRequest(badBand))

	badDate := &PlanScheduleRequest{
		Title: "Reset",
		Days: []DayPlanRequest{
			{Date: "June 2", Tasks: []DayTaskRequest{{Type: "movement", Title: "Walk"}}},
		},
	}
	assert.Error(t, ValidatePlanScheduleRequest(badDate))

	noDays := &PlanScheduleRequest{Title: "Reset"}
	assert.Error(t, ValidatePlanScheduleRequest(noDays))
}
