package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/circadian"
	"github.com/AndDavies/rooted-companion/internal/lock"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

type PlanScheduleRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	Days        []DayPlanRequest `json:"days" validate:"required,min=1,dive"`
}

type DayPlanRequest struct {
	Date             string           `json:"date" validate:"required,datetime=2006-01-02"`
	Tasks            []DayTaskRequest `json:"tasks" validate:"required,min=1,dive"`
	ReflectionPrompt string           `json:"reflection_prompt"`
}

type DayTaskRequest struct {
	Type           string `json:"type" validate:"required,oneof=movement breathwork nutrition mindset sleep"`
	Title          string `json:"title" validate:"required"`
	Rationale      string `json:"rationale"`
	TimeSuggestion string `json:"time_suggestion" validate:"omitempty,oneof=morning midday afternoon evening flexible"`
	RecipeID       string `json:"recipe_id"`
}

func ValidatePlanScheduleRequest(body *PlanScheduleRequest) error {
	return validate.Struct(body)
}

func (r *PlanScheduleRequest) ToPayload() internal.PlanPayload {
	payload := internal.PlanPayload{
		Title:       r.Title,
		Description: r.Description,
		Days:        make([]internal.DayPlan, 0, len(r.Days)),
	}
	for _, d := range r.Days {
		day := internal.DayPlan{
			Date:             d.Date,
			Tasks:            make([]internal.DayTask, 0, len(d.Tasks)),
			ReflectionPrompt: d.ReflectionPrompt,
		}
		for _, t := range d.Tasks {
			day.Tasks = append(day.Tasks, internal.DayTask{
				Type:           t.Type,
				Title:          t.Title,
				Rationale:      t.Rationale,
				TimeSuggestion: t.TimeSuggestion,
				RecipeID:       t.RecipeID,
			})
		}
		payload.Days = append(payload.Days, day)
	}
	return payload
}

// PlanScheduleResult is the enriched payload plus whether every day was
// actually scheduled or some fell back to the unscheduled variant.
type PlanScheduleResult struct {
	Payload   internal.PlanPayload `json:"payload"`
	Scheduled bool                 `json:"scheduled"`
}

// SchedulePlanForUser runs the scheduling core over the payload with the
// user's stored circadian profile and persists one plan row per day.
//
// Each day is guarded by a best-effort advisory lock on (user, date):
// losing the race never blocks the run, it only means the per-day upsert is
// what reconciles concurrent writers. A scheduling failure downgrades that
// day to the unscheduled variant instead of failing the whole plan — tasks
// stay orderable by their time_suggestion.
func SchedulePlanForUser(ctx context.Context, profileRepo storage.ProfileRepository, planRepo storage.PlanRepository,
	locker lock.Locker, logger internal.Logger, user *internal.User, payload internal.PlanPayload) (*PlanScheduleResult, error) {

	profile, err := profileRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	inputs := circadian.Inputs{
		Chronotype:   profile.Derived.Chronotype,
		WakeTime:     profile.Derived.WakeTime,
		Bedtime:      profile.Derived.Bedtime,
		Timezone:     profile.Timezone,
		Availability: profile.Availability,
	}
	cfg := circadian.DefaultSchedulerConfig()

	result := &PlanScheduleResult{
		Payload: internal.PlanPayload{
			Title:       payload.Title,
			Description: payload.Description,
			Days:        make([]internal.DayPlan, 0, len(payload.Days)),
		},
		Scheduled: true,
	}

	for _, day := range payload.Days {
		if locker.TryAcquire(ctx, user.ID, day.Date) {
			defer locker.Release(ctx, user.ID, day.Date)
		} else {
			logger.Warnf("plan: proceeding without advisory lock for user=%s date=%s", user.ID, day.Date)
		}

		scheduled, dayOK := day, true
		if out, err := circadian.ScheduleDay(day, inputs, cfg); err != nil {
			// Keep the day without scheduled_at rather than losing
			// the plan.
			logger.Warnf("plan: scheduling failed for user=%s date=%s, falling back to unscheduled: %v", user.ID, day.Date, err)
			dayOK = false
		} else {
			scheduled = out
		}

		row := &internal.WellnessPlan{
			ID:       uuid.NewString(),
			UserID:   user.ID,
			PlanDate: day.Date,
			Payload: internal.PlanPayload{
				Title:       payload.Title,
				Description: payload.Description,
				Days:        []internal.DayPlan{scheduled},
			},
			Scheduled: dayOK,
			CreatedAt: time.Now().UTC(),
		}
		if err := planRepo.UpsertPlan(ctx, row); err != nil {
			return nil, err
		}

		result.Payload.Days = append(result.Payload.Days, scheduled)
		result.Scheduled = result.Scheduled && dayOK
	}

	return result, nil
}

func GetPlan(ctx context.Context, planRepo storage.PlanRepository, user *internal.User, date string) (*internal.WellnessPlan, error) {
	return planRepo.GetPlan(ctx, user.ID, date)
}
