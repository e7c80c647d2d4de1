package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solmarket/settler/internal/ratelimit"
)

var ErrServerFailed = errors.New("http server failed")

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the cron triggers, the webhook management surface and the
// operational endpoints.
type Server struct {
	echo    *echo.Echo
	logger  *slog.Logger
	address string
}

func NewServer(logger *slog.Logger, address, cronToken string, cron *CronHandler, webhooks *WebhookHandler, limiter *ratelimit.Limiter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())

	s := &Server{
		echo:    e,
		logger:  logger.With(slog.String("module", "api")),
		address: address,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cronGroup := e.Group("/v1/cron", bearerAuth(cronToken))
	cronGroup.GET("/auto-release", cron.AutoRelease)
	cronGroup.GET("/expire-withdrawals", cron.ExpireWithdrawals)
	cronGroup.GET("/qualify-badges", cron.QualifyBadges)

	read := rateLimited(limiter, ratelimit.PresetRead)
	write := rateLimited(limiter, ratelimit.PresetWrite)

	e.POST("/v1/webhooks", webhooks.Create, write)
	e.GET("/v1/webhooks", webhooks.List, read)
	e.GET("/v1/webhooks/:id", webhooks.Get, read)
	e.PUT("/v1/webhooks/:id", webhooks.Update, write)
	e.DELETE("/v1/webhooks/:id", webhooks.Delete, write)
	e.GET("/v1/webhooks/:id/deliveries", webhooks.Deliveries, read)
	e.POST("/v1/webhooks/:id/test", webhooks.TestSend, write)

	return s
}

func (s *Server) Start() error {
	err := s.echo.Start(s.address)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrServerFailed, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// bearerAuth guards the cron triggers with a constant-time token
// comparison.
func bearerAuth(token string) echo.MiddlewareFunc {
	expected := []byte("Bearer " + token)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := []byte(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" || subtle.ConstantTimeCompare(header, expected) != 1 {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			}
			return next(c)
		}
	}
}

func rateLimited(limiter *ratelimit.Limiter, preset string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			identifier := ratelimit.Identifier(c.Request().Header.Get("X-User-ID"), c.Request())

			result, err := limiter.Check(identifier, c.Path(), preset)
			if err != nil {
				c.Logger().Warn(err)
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.ResetAt.IsZero() {
				c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			}

			if result.Limited {
				return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			}

			return next(c)
		}
	}
}
