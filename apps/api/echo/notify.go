package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/examally/examally/core/notify"
)

type (
	notificationApi struct {
		svc      *notify.Service
		validate *validator.Validate
	}

	VerificationResponse struct {
		Email     string `json:"email"`
		ExpiresAt string `json:"expires_at"`
		Message   string `json:"message"`
	}
)

func registerNotificationAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := notificationApi{svc: deps.NotifySvc, validate: deps.Validate}

	ng := g.Group("/notifications", authed...)
	ng.GET("/preferences", api.preferences)
	ng.PUT("/preferences", api.updatePreferences)
	ng.POST("/verification", api.requestCode)
	ng.POST("/verification/confirm", api.confirmCode)
	ng.GET("/contact", api.contact)
}

// Handlers

func (api *notificationApi) preferences(ctx echo.Context) error {
	prefs, err := api.svc.Preferences(ctx.Request().Context(), contextUser(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "getting preferences")
	}
	return ctx.JSON(http.StatusOK, prefs)
}

func (api *notificationApi) updatePreferences(ctx echo.Context) error {
	var data notify.UpdatePreferences
	if err := bind(ctx, &data, "UpdatePreferences"); err != nil {
		return err
	}
	if data.IsEmpty() {
		return errEmptyUpdate
	}

	prefs, err := api.svc.UpsertPreferences(ctx.Request().Context(), contextUser(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "updating preferences")
	}
	return ctx.JSON(http.StatusOK, prefs)
}

func (api *notificationApi) requestCode(ctx echo.Context) error {
	var data notify.VerificationRequest
	if err := bind(ctx, &data, "VerificationRequest"); err != nil {
		return err
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	pending, err := api.svc.RequestCode(ctx.Request().Context(), contextUser(ctx).ID, data.Email)
	if err != nil {
		return errors.Wrap(err, "requesting verification code")
	}
	return ctx.JSON(http.StatusAccepted, VerificationResponse{
		Email:     pending.Email,
		ExpiresAt: pending.ExpiresAt.Format(time.RFC3339),
		Message:   "Verification code sent to " + pending.Email,
	})
}

func (api *notificationApi) confirmCode(ctx echo.Context) error {
	var data notify.VerificationConfirm
	if err := bind(ctx, &data, "VerificationConfirm"); err != nil {
		return err
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	contact, err := api.svc.Confirm(ctx.Request().Context(), contextUser(ctx).ID, data.Email, data.Code)
	if err != nil {
		return errors.Wrap(err, "confirming verification code")
	}
	return ctx.JSON(http.StatusOK, contact)
}

func (api *notificationApi) contact(ctx echo.Context) error {
	contact, err := api.svc.Contact(ctx.Request().Context(), contextUser(ctx).ID)
	if err != nil {
		if errors.Is(err, notify.ErrContactNotFound) {
			return errNoVerifiedContact
		}
		return errors.Wrap(err, "getting verified contact")
	}
	return ctx.JSON(http.StatusOK, contact)
}
