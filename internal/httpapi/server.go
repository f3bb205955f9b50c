package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ikki-dali/hojokin-cleaner/internal/auth"
	"github.com/ikki-dali/hojokin-cleaner/internal/cleaner"
	"github.com/ikki-dali/hojokin-cleaner/internal/db"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	OpsUser         string
	OpsPasswordHash string
}

// Server is the small ops API: health, corpus stats, and a cleanup trigger.
// Real (non-dry-run) cleanup requires basic auth against the configured
// bcrypt hash.
type Server struct {
	pool   *db.Pool
	logger zerolog.Logger
	opts   Options
}

func NewServer(pool *db.Pool, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Host) == "" {
		opts.Host = "0.0.0.0"
	}
	if opts.Port <= 0 {
		opts.Port = 8091
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		pool:   pool,
		logger: logger,
		opts:   opts,
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	e.GET("/api/stats", s.handleStats)
	e.POST("/api/cleanup", s.handleCleanup)

	e.Server.ReadTimeout = s.opts.ReadTimeout
	e.Server.WriteTimeout = s.opts.WriteTimeout

	address := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info().Str("address", address).Msg("ops API listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			message = m
		}
		_ = fail(c, httpErr.Code, message)
		return
	}

	_ = internalError(c, "Internal server error")
}

func (s *Server) handleHealth(c echo.Context) error {
	row := s.pool.QueryRow(c.Request().Context(), "SELECT 1")
	var one int
	if err := row.Scan(&one); err != nil {
		return internalError(c, "database unreachable")
	}
	return success(c, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.pool.QueryCorpusStats(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("stats query failed")
		return internalError(c, "failed to query corpus stats")
	}
	return success(c, stats)
}

type cleanupRequest struct {
	DryRun *bool `json:"dry_run"`
}

func (s *Server) handleCleanup(c echo.Context) error {
	var req cleanupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	// Dry-run unless the caller explicitly opts out.
	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	if !dryRun && !s.authorized(c) {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="hojokin-cleaner"`)
		return fail(c, http.StatusUnauthorized, "cleanup without dry_run requires ops credentials")
	}

	ctx := c.Request().Context()
	runID, err := s.pool.StartCleanupRun(ctx, dryRun)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to start cleanup run")
		return internalError(c, "failed to start cleanup run")
	}

	svc := cleaner.NewService(s.pool, s.pool, s.logger)
	report, runErr := svc.Run(ctx, dryRun)
	if finishErr := s.pool.FinishCleanupRun(ctx, runID, report, runErr); finishErr != nil {
		s.logger.Error().Err(finishErr).Int64("run_id", runID).Msg("failed to finish cleanup run")
	}
	if runErr != nil {
		s.logger.Error().Err(runErr).Int64("run_id", runID).Msg("cleanup run failed")
		return internalError(c, "cleanup run failed")
	}

	return success(c, map[string]any{
		"run_id": runID,
		"report": report,
	})
}

func (s *Server) authorized(c echo.Context) bool {
	if strings.TrimSpace(s.opts.OpsPasswordHash) == "" {
		return false
	}
	user, password, ok := c.Request().BasicAuth()
	if !ok {
		return false
	}
	if user != s.opts.OpsUser {
		return false
	}
	return auth.VerifyPassword(password, s.opts.OpsPasswordHash)
}
