package storage

import (
	"context"
	"errors"

	"github.com/AndDavies/rooted-companion/internal"
)

var (
	ErrProfileNotFound = errors.New("storage: circadian profile not found")
	ErrPlanNotFound    = errors.New("storage: wellness plan not found")
)

type ProfileRepository interface {
	SaveProfile(ctx context.Context, profile *internal.CircadianProfile) error
	GetProfile(ctx context.Context, userID string) (*internal.CircadianProfile, error)
}

type PlanRepository interface {
	// UpsertPlan inserts or replaces the plan for (user, date). The upsert is
	// the conflict-safe reconciliation path for runs that proceeded without
	// the advisory lock.
	UpsertPlan(ctx context.Context, plan *internal.WellnessPlan) error
	GetPlan(ctx context.Context, userID, planDate string) (*internal.WellnessPlan, error)
}
