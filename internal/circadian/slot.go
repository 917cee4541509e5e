package circadian

import (
	"regexp"
	"strings"
	"time"

	"github.com/AndDavies/rooted-companion/internal"
)

// OffsetRow holds per-band minute offsets for one chronotype. Morning,
// midday and afternoon count forward from wake; evening counts backward
// from bedtime.
type OffsetRow struct {
	Morning        int
	Midday         int
	Afternoon      int
	EveningFromBed int
}

// SchedulerConfig gathers every tunable the slot resolver and day scheduler
// use, so product adjustments never touch control flow. DefaultSchedulerConfig
// carries the shipped values.
type SchedulerConfig struct {
	Offsets map[internal.Chronotype]OffsetRow

	// Local wall-clock boundaries, "HH:MM" on the plan date.
	EveningFloor      string // earliest slot for sleep-pillar tasks
	MovementCap       string // latest slot for movement tasks
	AvailEveningFloor string // earliest evening availability center

	PreBedBufferMin int // window ends this early before bed
	NudgeStepMin    int // collision forward-nudge increment

	WindDownLeadMin     int // wind-down sleep tasks, before bed
	PreSleepLeadMin     int // pre-sleep sleep tasks, before bed
	SleepEveningLeadMin int // evening-hinted sleep tasks, before bed
	SleepDefaultLeadMin int // any other sleep task, before bed

	NoonHHMM                string // unhinted nutrition slot
	NutritionEveningLeadMin int    // evening-hinted nutrition, before bed
	DefaultMorningOffsetMin int    // unhinted movement/breathwork/mindset, after wake
	MinMorningOffsetMin     int    // floor for morning-hinted non-sleep tasks

	AvailMorningMin     int // availability centers, minutes after wake
	AvailMiddayMin      int
	AvailAfternoonMin   int
	AvailEveningLeadMin int // evening center, minutes before bed

	WindDownPattern *regexp.Regexp
	PreSleepPattern *regexp.Regexp
}

// DefaultSchedulerConfig returns the production scheduling constants.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Offsets: map[internal.Chronotype]OffsetRow{
			internal.ChronotypeLark:    {Morning: 0, Midday: 240, Afternoon: 360, EveningFromBed: 240},
			internal.ChronotypeNeutral: {Morning: 30, Midday: 270, Afternoon: 420, EveningFromBed: 210},
			internal.ChronotypeOwl:     {Morning: 45, Midday: 300, Afternoon: 480, EveningFromBed: 180},
		},
		EveningFloor:            "18:00",
		MovementCap:             "20:00",
		AvailEveningFloor:       "18:30",
		PreBedBufferMin:         30,
		NudgeStepMin:            15,
		WindDownLeadMin:         90,
		PreSleepLeadMin:         60,
		SleepEveningLeadMin:     180,
		SleepDefaultLeadMin:     120,
		NoonHHMM:                "12:00",
		NutritionEveningLeadMin: 180,
		DefaultMorningOffsetMin: 30,
		MinMorningOffsetMin:     15,
		AvailMorningMin:         45,
		AvailMiddayMin:          270,
		AvailAfternoonMin:       420,
		AvailEveningLeadMin:     180,
		// Matched against lowercased task titles.
		WindDownPattern: regexp.MustCompile(`wind[\s-]?down|digital sunset`),
		PreSleepPattern: regexp.MustCompile(`pre[\s-]?sleep|pre[\s-]?bed`),
	}
}

// dayContext carries the per-day geometry every slot resolution needs: the
// plan date, resolved zone, wake/bed instants and the user inputs.
type dayContext struct {
	cfg          SchedulerConfig
	date         string
	loc          *time.Location
	wake         time.Time
	bed          time.Time
	chrono       internal.Chronotype
	availability string
}

func (d *dayContext) offsets() OffsetRow {
	if row, ok := d.cfg.Offsets[d.chrono]; ok {
		return row
	}
	return d.cfg.Offsets[internal.ChronotypeNeutral]
}

// localAnchor places an "HH:MM" config boundary on the plan date.
func (d *dayContext) localAnchor(hhmm string) (time.Time, error) {
	return AtLocal(d.date, hhmm, d.loc)
}

// hasHint reports whether the task carries a concrete band. "flexible" and
// an absent suggestion behave identically everywhere.
func hasHint(task internal.DayTask) bool {
	return task.TimeSuggestion != "" && task.TimeSuggestion != internal.BandFlexible
}

// resolveTarget computes the ideal, pre-collision local instant for one
// task: pillar policy first, then availability blending for flexible tasks.
func (d *dayContext) resolveTarget(task internal.DayTask) (time.Time, error) {
	var target time.Time
	var err error
	switch task.Type {
	case internal.PillarSleep:
		target, err = d.sleepTarget(task)
	case internal.PillarNutrition:
		target, err = d.nutritionTarget(task)
	default:
		target, err = d.pillarTarget(task)
	}
	if err != nil {
		return time.Time{}, err
	}
	return d.blendWithAvailability(task, target)
}

// sleepTarget picks the slot for a sleep-pillar task. Wind-down work lands
// 90 minutes before bed, pre-sleep routines 60; everything else backs off
// the bedtime by band. The result always stays inside
// [evening floor, bed - buffer].
func (d *dayContext) sleepTarget(task internal.DayTask) (time.Time, error) {
	floor, err := d.localAnchor(d.cfg.EveningFloor)
	if err != nil {
		return time.Time{}, err
	}

	title := strings.ToLower(task.Title)
	var target time.Time
	switch {
	case d.cfg.WindDownPattern.MatchString(title):
		target = AddMinutes(d.bed, -d.cfg.WindDownLeadMin)
	case d.cfg.PreSleepPattern.MatchString(title):
		target = AddMinutes(d.bed, -d.cfg.PreSleepLeadMin)
	case task.TimeSuggestion == internal.BandEvening:
		target = AddMinutes(d.bed, -d.cfg.SleepEveningLeadMin)
	default:
		target = AddMinutes(d.bed, -d.cfg.SleepDefaultLeadMin)
	}

	latest := AddMinutes(d.bed, -d.cfg.PreBedBufferMin)
	return RoundToQuarter(Clamp(target, floor, latest)), nil
}

func (d *dayContext) nutritionTarget(task internal.DayTask) (time.Time, error) {
	if !hasHint(task) {
		noon, err := d.localAnchor(d.cfg.NoonHHMM)
		if err != nil {
			return time.Time{}, err
		}
		return RoundToQuarter(noon), nil
	}

	row := d.offsets()
	var target time.Time
	switch task.TimeSuggestion {
	case internal.BandMorning:
		target = AddMinutes(d.wake, row.Morning)
	case internal.BandMidday:
		target = AddMinutes(d.wake, row.Midday)
	case internal.BandAfternoon:
		target = AddMinutes(d.wake, row.Afternoon)
	default: // evening-ish
		target = AddMinutes(d.bed, -d.cfg.NutritionEveningLeadMin)
	}
	return RoundToQuarter(target), nil
}

// pillarTarget handles movement, breathwork and mindset. Movement never
// lands after the movement cap, whatever the band said.
func (d *dayContext) pillarTarget(task internal.DayTask) (time.Time, error) {
	row := d.offsets()
	var target time.Time
	switch task.TimeSuggestion {
	case internal.BandMorning:
		off := row.Morning
		if off < d.cfg.MinMorningOffsetMin {
			off = d.cfg.MinMorningOffsetMin
		}
		target = AddMinutes(d.wake, off)
	case internal.BandMidday:
		target = AddMinutes(d.wake, row.Midday)
	case internal.BandAfternoon:
		target = AddMinutes(d.wake, row.Afternoon)
	case internal.BandEvening:
		target = AddMinutes(d.bed, -row.EveningFromBed)
	default:
		var err error
		target, err = d.defaultSlot(task.Type)
		if err != nil {
			return time.Time{}, err
		}
	}

	if task.Type == internal.PillarMovement {
		latest, err := d.localAnchor(d.cfg.MovementCap)
		if err != nil {
			return time.Time{}, err
		}
		target = Clamp(target, d.wake, latest)
	}
	return RoundToQuarter(target), nil
}

// defaultSlot is the per-pillar fallback for tasks with no usable hint.
// Nutrition and sleep carry their own branches and only land here if a
// payload mislabels a task type.
func (d *dayContext) defaultSlot(pillar string) (time.Time, error) {
	switch pillar {
	case internal.PillarNutrition:
		return d.localAnchor(d.cfg.NoonHHMM)
	case internal.PillarSleep:
		return AddMinutes(d.bed, -d.cfg.SleepDefaultLeadMin), nil
	default:
		return AddMinutes(d.wake, d.cfg.DefaultMorningOffsetMin), nil
	}
}

// blendWithAvailability pulls a flexible, non-sleep task a quarter of the
// way toward the user's stated availability window: (3*target + center)/4,
// re-rounded. Hinted tasks and sleep tasks keep their computed slot.
func (d *dayContext) blendWithAvailability(task internal.DayTask, target time.Time) (time.Time, error) {
	if hasHint(task) || task.Type == internal.PillarSleep {
		return target, nil
	}
	if d.availability == "" || d.availability == internal.BandFlexible {
		return target, nil
	}

	center, err := d.availabilityCenter()
	if err != nil {
		return time.Time{}, err
	}
	blended := target.Add(center.Sub(target) / 4)
	return RoundToQuarter(blended), nil
}

func (d *dayContext) availabilityCenter() (time.Time, error) {
	switch d.availability {
	case internal.BandMorning:
		return AddMinutes(d.wake, d.cfg.AvailMorningMin), nil
	case internal.BandMidday:
		return AddMinutes(d.wake, d.cfg.AvailMiddayMin), nil
	case internal.BandAfternoon:
		return AddMinutes(d.wake, d.cfg.AvailAfternoonMin), nil
	default: // evening
		floor, err := d.localAnchor(d.cfg.AvailEveningFloor)
		if err != nil {
			return time.Time{}, err
		}
		center := AddMinutes(d.bed, -d.cfg.AvailEveningLeadMin)
		if center.Before(floor) {
			center = floor
		}
		return center, nil
	}
}
