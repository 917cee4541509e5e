package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AndDavies/rooted-companion/internal"
	"github.com/AndDavies/rooted-companion/internal/service"
	"github.com/AndDavies/rooted-companion/internal/storage"
)

func PostScreener(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.ScreenerRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateScreenerRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		profile, err := service.SubmitScreener(c.Request.Context(), app.ProfileRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Failed to derive circadian profile")
			return
		}

		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func GetCircadian(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		profile, err := service.GetProfile(c.Request.Context(), app.ProfileRepo(), user)
		if err != nil {
			if errors.Is(err, storage.ErrProfileNotFound) {
				HandleError(c, app.Logger(), err, 404, "No circadian profile")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to fetch circadian profile")
			return
		}

		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func PostDriftCheck(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.DriftCheckRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		suggestion, err := service.EvaluateDrift(c.Request.Context(), app.ProfileRepo(), user, &body)
		if err != nil {
			if errors.Is(err, storage.ErrProfileNotFound) {
				HandleError(c, app.Logger(), err, 404, "No circadian profile")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to evaluate drift")
			return
		}

		// A nil suggestion is the expected outcome for stable or missing
		// data, not an error.
		HandleSuccess(c, app.Logger(), gin.H{"suggestion": suggestion}, nil)
	}
}

func PostDriftAccept(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.AcceptSuggestionRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateAcceptSuggestionRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		profile, err := service.AcceptSuggestion(c.Request.Context(), app.ProfileRepo(), user, &body)
		if err != nil {
			if errors.Is(err, storage.ErrProfileNotFound) {
				HandleError(c, app.Logger(), err, 404, "No circadian profile")
				return
			}
			HandleError(c, app.Logger(), err, 400, "Failed to accept suggestion")
			return
		}

		HandleSuccess(c, app.Logger(), profile, nil)
	}
}
