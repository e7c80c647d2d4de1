package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solmarket/settler/internal/reconciler"
)

// CronRunner is the job set behind the cron trigger endpoints.
type CronRunner interface {
	AutoRelease(ctx context.Context) reconciler.Result
	ExpireWithdrawals(ctx context.Context) reconciler.Result
	QualifyBadges(ctx context.Context) reconciler.Result
}

type CronHandler struct {
	runner CronRunner
}

func NewCronHandler(runner CronRunner) *CronHandler {
	return &CronHandler{runner: runner}
}

// Jobs report partial results even when individual records failed, so the
// trigger always answers 200 with the structured summary.
func (h *CronHandler) AutoRelease(c echo.Context) error {
	return c.JSON(http.StatusOK, h.runner.AutoRelease(c.Request().Context()))
}

func (h *CronHandler) ExpireWithdrawals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.runner.ExpireWithdrawals(c.Request().Context()))
}

func (h *CronHandler) QualifyBadges(c echo.Context) error {
	return c.JSON(http.StatusOK, h.runner.QualifyBadges(c.Request().Context()))
}
