package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "portal-service/app/utils/errors"
	"portal-service/app/utils/validator"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse = apperrors.Response

// respondError renders err as {error, code, details}. Server-side failures are logged.
func respondError(c echo.Context, logger *slog.Logger, err error) error {
	appErr := apperrors.FromDomain(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			"path", c.Path(),
			"code", appErr.Code,
			"error", err)
	}
	return c.JSON(appErr.StatusCode, appErr.Response())
}

// bindAndValidate decodes the JSON body into req and runs its validate tags
func bindAndValidate(c echo.Context, v *validator.Validator, req any) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewBadRequest("request body could not be parsed as JSON")
	}

	if err := v.Validate(req); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return apperrors.NewValidationError(verr.Error())
		}
		return apperrors.NewBadRequest(err.Error())
	}
	return nil
}
