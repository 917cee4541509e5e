package api

import (
	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/lock"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

type App interface {
	Logger() internal.Logger
	ProfileRepo() storage.ProfileRepository
	PlanRepo() storage.PlanRepository
	Locker() lock.Locker
}
