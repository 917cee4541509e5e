package service

import (
	"context"
	"time"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/circadian"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

type DriftCheckRequest struct {
	AvgSleepOnsetLocal string `json:"avgSleepOnsetLocal"`
	AvgWakeLocal       string `json:"avgWakeLocal"`
	MidpointLocal      string `json:"midpointLocal"`
	Stable             bool   `json:"stable"`
}

// EvaluateDrift runs the drift suggester against the stored profile. A nil
// suggestion is the normal "no change warranted" outcome, never an error.
func EvaluateDrift(ctx context.Context, profileRepo storage.ProfileRepository, user *internal.User, body *DriftCheckRequest) (*internal.CircadianSuggestion, error) {
	profile, err := profileRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	summary := &internal.WearableSummary{
		AvgSleepOnsetLocal: body.AvgSleepOnsetLocal,
		AvgWakeLocal:       body.AvgWakeLocal,
		MidpointLocal:      body.MidpointLocal,
		Stable:             body.Stable,
	}
	return circadian.SuggestChronotypeUpdate(profile.Derived, summary), nil
}

type AcceptSuggestionRequest struct {
	SuggestedChronotype string `json:"suggestedChronotype" validate:"required,oneof=lark owl"`
	SuggestedWake       string `json:"suggestedWake"`
	SuggestedBed        string `json:"suggestedBed"`
}

func ValidateAcceptSuggestionRequest(body *AcceptSuggestionRequest) error {
	return validate.Struct(body)
}

// AcceptSuggestion commits a drift suggestion to the profile: the sharpened
// chronotype, the measured wake/bed times when supplied, and a caffeine
// cutoff recomputed off the effective bedtime.
func AcceptSuggestion(ctx context.Context, profileRepo storage.ProfileRepository, user *internal.User, body *AcceptSuggestionRequest) (*internal.CircadianProfile, error) {
	profile, err := profileRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile.Derived.Chronotype = internal.Chronotype(body.SuggestedChronotype)
	if body.SuggestedWake != "" {
		if _, err := circadian.ParseHHMM(body.SuggestedWake); err != nil {
			return nil, err
		}
		profile.Derived.WakeTime = body.SuggestedWake
	}
	if body.SuggestedBed != "" {
		if _, err := circadian.ParseHHMM(body.SuggestedBed); err != nil {
			return nil, err
		}
		profile.Derived.Bedtime = body.SuggestedBed
	}
	cutoff, err := circadian.ComputeCaffeineCutoff(profile.Derived.Bedtime)
	if err != nil {
		return nil, err
	}
	profile.Derived.CaffeineCutoff = cutoff
	profile.UpdatedAt = time.Now().UTC()

	if err := profileRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
