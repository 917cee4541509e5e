package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/service"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

func PostSchedulePlan(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.PlanScheduleRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidatePlanScheduleRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		result, err := service.SchedulePlanForUser(c.Request.Context(), app.ProfileRepo(), app.PlanRepo(),
			app.Locker(), app.Logger(), user, body.ToPayload())
		if err != nil {
			if errors.Is(err, storage.ErrProfileNotFound) {
				HandleError(c, app.Logger(), err, 404, "No circadian profile: complete onboarding first")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to schedule plan")
			return
		}

		HandleSuccess(c, app.Logger(), result.Payload, map[string]any{"scheduled": result.Scheduled})
	}
}

func GetPlanByDate(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		date := c.Param("date")

		plan, err := service.GetPlan(c.Request.Context(), app.PlanRepo(), user, date)
		if err != nil {
			if errors.Is(err, storage.ErrPlanNotFound) {
				HandleError(c, app.Logger(), err, 404, "No plan for date")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to fetch plan")
			return
		}

		HandleSuccess(c, app.Logger(), plan, nil)
	}
}
