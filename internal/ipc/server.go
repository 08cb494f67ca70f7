package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/metrics"
)

// DefaultListenAddr keeps the backend on loopback.
const DefaultListenAddr = "127.0.0.1:7788"

// Server exposes a Router over HTTP.
type Server struct {
	App      *fiber.App
	router   *Router
	knownApp func(ctx context.Context, path string) (bool, error)
}

// RestrictOpenApp answers open-app with false, without dispatching, for any
// path known rejects.
func (s *Server) RestrictOpenApp(known func(ctx context.Context, path string) (bool, error)) {
	s.knownApp = known
}

// NewServer builds the fiber app. m may be nil, in which case /metrics is not mounted.
func NewServer(r *Router, m *metrics.Metrics) *Server {
	app := fiber.New(fiber.Config{
		AppName: "desksort",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := StatusFor(err)
			message := apperrors.PublicMessage(err)

			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				message = fe.Message
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("ipc request failed", "path", c.Path(), "status", code, "error", err)
			}
			return jsonError(c, code, message)
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{App: app, router: r}
	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
	app.Post("/ipc/:channel", s.handle)
	return s
}

func (s *Server) handle(c fiber.Ctx) error {
	channel := c.Params("channel")
	payload := bytes.Clone(c.Body())

	if s.router.IsSend(channel) {
		if err := s.router.Notify(channel, payload); err != nil {
			return err
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "ok"})
	}

	if channel == ChannelOpenApp && s.knownApp != nil {
		refused, err := s.refuseUnknownApp(c.Context(), payload)
		if err != nil {
			return err
		}
		if refused {
			return jsonSuccess(c, json.RawMessage("false"))
		}
	}

	data, err := s.router.Dispatch(c.Context(), channel, payload)
	if err != nil {
		return err
	}
	return jsonSuccess(c, data)
}

func (s *Server) refuseUnknownApp(ctx context.Context, payload json.RawMessage) (bool, error) {
	var path string
	if err := Decode(payload, &path); err != nil {
		return false, err
	}
	if strings.TrimSpace(path) == "" {
		return false, nil
	}
	ok, err := s.knownApp(ctx, path)
	if err != nil {
		return false, err
	}
	if !ok {
		slog.Warn("refusing to open unknown path", "path", path)
	}
	return !ok, nil
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultListenAddr
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	slog.Info("ipc server started", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down ipc server")
		return s.App.Shutdown()
	}
}

// StatusFor maps a dispatch error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ErrUnknownChannel), apperrors.Is(err, apperrors.KindNotFound):
		return fiber.StatusNotFound
	case apperrors.Is(err, apperrors.KindBusy):
		return fiber.StatusConflict
	case apperrors.Is(err, apperrors.KindValidation):
		return fiber.StatusBadRequest
	case apperrors.IsUpstream(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func jsonSuccess(c fiber.Ctx, data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
