package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"portal-service/app/domain"
	"portal-service/app/port"
	"portal-service/app/rest/middleware"
	apperrors "portal-service/app/utils/errors"
)

// SeedHandler exposes the demo roster provisioning trigger
type SeedHandler struct {
	seedUsecase port.SeedUsecase
	logger      *slog.Logger
}

// NewSeedHandler creates a seed handler. A nil usecase means the identity admin
// endpoint or its credential is missing, and every POST fails with 500.
func NewSeedHandler(seedUsecase port.SeedUsecase, logger *slog.Logger) *SeedHandler {
	return &SeedHandler{
		seedUsecase: seedUsecase,
		logger:      logger,
	}
}

// SeedDemoUsers provisions the demo roster and reports one result per entry
// @Summary Seed demo accounts
// @Description Idempotently create the demo roster and assign each account its role
// @Tags admin
// @Produce json
// @Success 200 {object} domain.SeedReport
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/admin/seed-demo-users [post]
func (h *SeedHandler) SeedDemoUsers(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return respondError(c, h.logger, apperrors.NewMethodNotAllowed(c.Request().Method))
	}

	if h.seedUsecase == nil {
		return respondError(c, h.logger, domain.ErrSeedNotConfigured)
	}

	log := h.logger
	if session, ok := middleware.SessionFromContext(c); ok {
		log = log.With("triggered_by", session.Account.Email)
	}

	results := h.seedUsecase.SeedDemoAccounts(c.Request().Context())
	if results == nil {
		results = []domain.SeedResult{}
	}

	report := domain.SeedReport{OK: true, Results: results}
	if failed := report.Failed(); len(failed) > 0 {
		log.Warn("demo seeding finished with failures",
			"total", len(results),
			"failed", len(failed))
	} else {
		log.Info("demo seeding finished", "total", len(results))
	}

	return c.JSON(http.StatusOK, report)
}
