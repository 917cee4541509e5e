package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/circadian"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

var validate = validator.New()

type ScreenerRequest struct {
	SelfID       string `json:"selfId" validate:"required,oneof=morning neither evening"`
	WakeTime     string `json:"wakeTime" validate:"required"`
	Bedtime      string `json:"bedtime" validate:"required"`
	ShiftWork    bool   `json:"shiftWork"`
	Timezone     string `json:"tz" validate:"required,timezone"`
	Availability string `json:"availability" validate:"omitempty,oneof=morning midday afternoon evening flexible"`
}

func ValidateScreenerRequest(body *ScreenerRequest) error {
	return validate.Struct(body)
}

// SubmitScreener derives the circadian profile from an onboarding screener
// and persists it. Resubmitting recomputes everything; the derivation is
// deterministic, so identical answers produce an identical profile.
func SubmitScreener(ctx context.Context, profileRepo storage.ProfileRepository, user *internal.User, body *ScreenerRequest) (*internal.CircadianProfile, error) {
	derived, err := circadian.Derive(internal.Screener{
		SelfID:    body.SelfID,
		WakeTime:  body.WakeTime,
		Bedtime:   body.Bedtime,
		ShiftWork: body.ShiftWork,
	})
	if err != nil {
		return nil, err
	}

	profile := &internal.CircadianProfile{
		UserID:       user.ID,
		Derived:      derived,
		Timezone:     body.Timezone,
		Availability: body.Availability,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := profileRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func GetProfile(ctx context.Context, profileRepo storage.ProfileRepository, user *internal.User) (*internal.CircadianProfile, error) {
	return profileRepo.GetProfile(ctx, user.ID)
}
