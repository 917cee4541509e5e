package circadian

import (
	"fmt"
	"sort"
	"time"

	"github.com/AndDavies/rooted-companion/internal"
)

// Inputs are the per-run user parameters the scheduler works from,
// assembled by the caller out of the derived circadian profile, the profile
// timezone and the onboarding availability answer.
type Inputs struct {
	Chronotype   internal.Chronotype
	WakeTime     string // local HH:MM
	Bedtime      string // local HH:MM
	Timezone     string // IANA zone name
	Availability string // morning, midday, afternoon, evening, flexible or empty
}

// ScheduleDay assigns every task in the day a concrete UTC instant inside
// [wake, bed - buffer], resolving collisions with a deterministic forward
// nudge. The input day is never modified; the returned day holds fresh task
// values ordered by scheduled time.
func ScheduleDay(day internal.DayPlan, in Inputs, cfg SchedulerConfig) (internal.DayPlan, error) {
	loc, err := time.LoadLocation(in.Timezone)
	if err != nil {
		return internal.DayPlan{}, fmt.Errorf("circadian: unresolvable timezone %q: %w", in.Timezone, err)
	}

	wake, err := AtLocal(day.Date, in.WakeTime, loc)
	if err != nil {
		return internal.DayPlan{}, err
	}
	bed, err := AtLocal(day.Date, in.Bedtime, loc)
	if err != nil {
		return internal.DayPlan{}, err
	}
	if !bed.After(wake) {
		// Bedtime rolls past midnight onto the next calendar day.
		next, err := NextISODay(day.Date)
		if err != nil {
			return internal.DayPlan{}, err
		}
		bed, err = AtLocal(next, in.Bedtime, loc)
		if err != nil {
			return internal.DayPlan{}, err
		}
	}

	windowEnd := AddMinutes(bed, -cfg.PreBedBufferMin)

	ctx := &dayContext{
		cfg:          cfg,
		date:         day.Date,
		loc:          loc,
		wake:         wake,
		bed:          bed,
		chrono:       in.Chronotype,
		availability: in.Availability,
	}

	type placement struct {
		task internal.DayTask
		at   time.Time
	}
	placements := make([]placement, 0, len(day.Tasks))
	for _, task := range day.Tasks {
		target, err := ctx.resolveTarget(task)
		if err != nil {
			return internal.DayPlan{}, err
		}
		placements = append(placements, placement{task: task, at: Clamp(target, wake, windowEnd)})
	}

	// Stable sort keeps the input ordering for identical targets, so ties
	// always push later tasks later, never earlier.
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].at.Before(placements[j].at)
	})

	step := time.Duration(cfg.NudgeStepMin) * time.Minute
	maxNudges := int(windowEnd.Sub(wake)/step) + len(placements) + 1
	seen := make(map[int64]bool, len(placements))
	scheduled := internal.DayPlan{
		Date:             day.Date,
		Tasks:            make([]internal.DayTask, 0, len(placements)),
		ReflectionPrompt: day.ReflectionPrompt,
	}
	for _, p := range placements {
		at := p.at
		for n := 0; seen[at.Unix()] && n < maxNudges; n++ {
			at = Clamp(at.Add(step), wake, windowEnd)
		}
		seen[at.Unix()] = true

		task := p.task
		task.ScheduledAt = at.UTC().Format(time.RFC3339)
		scheduled.Tasks = append(scheduled.Tasks, task)
	}
	return scheduled, nil
}

// SchedulePlan schedules every day of the payload and returns an enriched
// copy; the caller's payload is left untouched.
func SchedulePlan(plan internal.PlanPayload, in Inputs, cfg SchedulerConfig) (internal.PlanPayload, error) {
	out := internal.PlanPayload{
		Title:       plan.Title,
		Description: plan.Description,
		Days:        make([]internal.DayPlan, 0, len(plan.Days)),
	}
	for _, day := range plan.Days {
		scheduled, err := ScheduleDay(day, in, cfg)
		if err != nil {
			return internal.PlanPayload{}, err
		}
		out.Days = append(out.Days, scheduled)
	}
	return out, nil
}
