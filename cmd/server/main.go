package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/api"
	"github.com/AndDavies/rooted-companion/internal/auth"
	"github.com/AndDavies/rooted-companion/internal/config"
	"github.com/AndDavies/rooted-companion/internal/lock"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

type app struct {
	logger      internal.Logger
	profileRepo storage.ProfileRepository
	planRepo    storage.PlanRepository
	locker      lock.Locker
}

func (a *app) Logger() internal.Logger                  { return a.logger }
func (a *app) ProfileRepo() storage.ProfileRepository   { return a.profileRepo }
func (a *app) PlanRepo() storage.PlanRepository         { return a.planRepo }
func (a *app) Locker() lock.Locker                      { return a.locker }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	var profileRepo storage.ProfileRepository
	var planRepo storage.PlanRepository
	switch cfg.DBType {
	case "postgres":
		profileRepo, planRepo, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		if _, statErr := os.Stat("data"); os.IsNotExist(statErr) {
			_ = os.Mkdir("data", 0755)
		}
		profileRepo, planRepo, err = storage.NewFileRepositories(cfg.FileProfile, cfg.FilePlans, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.LockBackend == "redis" {
		locker = lock.NewRedisLocker(cfg.RedisAddr, logger)
	}

	var provider auth.Provider
	if cfg.AuthMode == "remote" {
		provider = auth.NewRemoteAuthProvider(cfg.AuthURL, logger)
	} else {
		provider = auth.NewLocalAuthProvider(cfg.LocalToken, logger)
	}

	a := &app{logger: logger, profileRepo: profileRepo, planRepo: planRepo, locker: locker}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(api.RequestIDMiddleware())
	r.Use(auth.AuthMiddleware(provider, cfg))

	r.POST("/onboarding/screener", api.PostScreener(a))
	r.GET("/circadian", api.GetCircadian(a))
	r.POST("/circadian/drift", api.PostDriftCheck(a))
	r.POST("/circadian/drift/accept", api.PostDriftAccept(a))
	r.POST("/plans/schedule", api.PostSchedulePlan(a))
	r.GET("/plans/:date", api.GetPlanByDate(a))

	logger.Infof("server listening on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
