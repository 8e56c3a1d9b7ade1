// Package controllers adapts HTTP requests to app/services calls.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
)

// fail writes the response for a service error. Unknown errors are logged
// and hidden behind a generic 500.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		c.SetHeader("WWW-Authenticate", "Bearer")
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidStatus):
		c.Error(http.StatusBadRequest, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// userID returns the caller set by middleware.RequireUser.
func userID(c *ctx.Context) uint {
	id, _ := middleware.UserIDFromCtx(c.Context())
	return id
}

func adminID(c *ctx.Context) uint {
	id, _ := middleware.AdminIDFromCtx(c.Context())
	return id
}
