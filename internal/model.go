package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// Chronotype is the three-way sleep-tendency classification used to bias
// scheduling earlier or later in the day.
type Chronotype string

const (
	ChronotypeLark    Chronotype = "lark"
	ChronotypeNeutral Chronotype = "neutral"
	ChronotypeOwl     Chronotype = "owl"
)

// Screener is the raw onboarding self-report. Times are local "HH:MM".
type Screener struct {
	SelfID    string `json:"selfId"` // morning, neither, evening
	WakeTime  string `json:"wakeTime"`
	Bedtime   string `json:"bedtime"`
	ShiftWork bool   `json:"shiftWork,omitempty"`
}

// DerivedCircadian is the deterministic product of a Screener. Recomputed
// whenever the screener changes or a drift suggestion is accepted.
type DerivedCircadian struct {
	Chronotype     Chronotype `json:"chronotype"`
	WakeTime       string     `json:"wakeTime"`
	Bedtime        string     `json:"bedtime"`
	CaffeineCutoff string     `json:"caffeineCutoff"`
	ShiftWork      bool       `json:"shiftWork"`
}

// CircadianProfile is the persisted per-user circadian state: the derived
// classification plus the profile timezone and stated availability window.
type CircadianProfile struct {
	UserID       string           `json:"user_id"`
	Derived      DerivedCircadian `json:"derived"`
	Timezone     string           `json:"tz"`
	Availability string           `json:"availability,omitempty"` // morning, midday, afternoon, evening, flexible
	UpdatedAt    time.Time        `json:"updated_at"`
}

// WearableSummary is an ephemeral aggregate of recent wearable sleep
// readings. Times are local "HH:MM"; Stable reports whether the window had
// enough consistent data to act on.
type WearableSummary struct {
	AvgSleepOnsetLocal string `json:"avgSleepOnsetLocal,omitempty"`
	AvgWakeLocal       string `json:"avgWakeLocal,omitempty"`
	MidpointLocal      string `json:"midpointLocal,omitempty"`
	Stable             bool   `json:"stable"`
}

// CircadianSuggestion proposes sharpening a neutral chronotype after a
// sustained midpoint shift.
type CircadianSuggestion struct {
	Reason              string     `json:"reason"`
	SuggestedChronotype Chronotype `json:"suggestedChronotype"`
	SuggestedWake       string     `json:"suggestedWake,omitempty"`
	SuggestedBed        string     `json:"suggestedBed,omitempty"`
}

// Pillar values for DayTask.Type.
const (
	PillarMovement   = "movement"
	PillarBreathwork = "breathwork"
	PillarNutrition  = "nutrition"
	PillarMindset    = "mindset"
	PillarSleep      = "sleep"
)

// Time-of-day bands for time_suggestion and availability.
const (
	BandMorning   = "morning"
	BandMidday    = "midday"
	BandAfternoon = "afternoon"
	BandEvening   = "evening"
	BandFlexible  = "flexible"
)

// DayTask is one abstract wellness task inside a day plan. ScheduledAt is
// empty on input and carries a Z-suffixed RFC3339 UTC instant on output.
type DayTask struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Rationale      string `json:"rationale"`
	TimeSuggestion string `json:"time_suggestion,omitempty"`
	RecipeID       string `json:"recipe_id,omitempty"`
	ScheduledAt    string `json:"scheduled_at,omitempty"`
}

// DayPlan is one calendar day of tasks. Date is a local ISO date with no
// embedded timezone; the zone comes from the user profile at scheduling time.
type DayPlan struct {
	Date             string    `json:"date"`
	Tasks            []DayTask `json:"tasks"`
	ReflectionPrompt string    `json:"reflection_prompt,omitempty"`
}

// PlanPayload is the abstract plan produced by the plan-generation
// collaborator. The scheduler returns an enriched copy and never mutates the
// original.
type PlanPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Days        []DayPlan `json:"days"`
}

// WellnessPlan is a persisted scheduled (or fallback-unscheduled) plan row.
type WellnessPlan struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	PlanDate  string      `json:"plan_date"`
	Payload   PlanPayload `json:"payload"`
	Scheduled bool        `json:"scheduled"`
	CreatedAt time.Time   `json:"created_at"`
}

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
