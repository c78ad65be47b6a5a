package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/trapwire-labs/trapwire/pkg/config"
	"github.com/trapwire-labs/trapwire/pkg/httputil"
	"github.com/trapwire-labs/trapwire/pkg/logger"
	"github.com/trapwire-labs/trapwire/pkg/session"
	"github.com/trapwire-labs/trapwire/pkg/telemetry"
)

// messageRequest is the inbound turn payload from the transport
// adapter. ConversationHistory seeds sessions this node has not seen.
type messageRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             session.Message   `json:"message"`
	ConversationHistory []session.Message `json:"conversationHistory"`
}

func runServer(cfg *config.Config) {
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	engine, err := NewEngine(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}
	defer engine.Close()

	app := fiber.New(fiber.Config{
		AppName: "trapwire v" + Version,
	})

	var limiter *httputil.RateLimiter
	if cfg.RateLimitPerMin > 0 {
		limiter = httputil.NewRateLimiter(cfg.RateLimitPerMin)
	}

	// Auth and rate limiting. Health and stats stay open so liveness
	// checks and dashboards work without credentials.
	app.Use(func(c fiber.Ctx) error {
		path := c.Path()
		if path == "/health" || path == "/stats" {
			return c.Next()
		}

		key := c.Get("x-api-key")
		if cfg.APIKey != "" && key != cfg.APIKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "valid x-api-key header required",
			})
		}

		if limiter != nil {
			identifier := key
			if identifier == "" {
				identifier = c.IP()
			}
			if !limiter.Allow(identifier) {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error":   "Too Many Requests",
					"message": "rate limit exceeded",
				})
			}
		}
		return c.Next()
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "trapwire",
			"version": Version,
			"features": fiber.Map{
				"ensemble":   engine.classifier.UsingEnsemble(),
				"semantic":   engine.semantic != nil && engine.semantic.Ready(),
				"ner":        engine.ner != nil && engine.ner.Ready(),
				"enrichment": cfg.EnrichProvider != config.ProviderNone,
				"redis":      cfg.RedisAddr != "",
				"archive":    engine.archiver != nil,
				"reporting":  engine.reporter != nil,
			},
		})
	})

	app.Get("/stats", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"counters": telemetry.Global().Read(),
		}
		if provider, ok := engine.store.(session.StatsProvider); ok {
			if stats, err := provider.Stats(c.Context()); err == nil {
				payload["sessions"] = stats
			}
		}
		return c.JSON(payload)
	})

	app.Post("/api/message", func(c fiber.Ctx) error {
		start := time.Now()

		var req messageRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid request body",
			})
		}

		result, err := engine.orch.ProcessTurn(c.Context(), req.SessionID, req.Message, req.ConversationHistory)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrInvalidInput):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status": "error",
					"error":  err.Error(),
				})
			case errors.Is(err, session.ErrSessionArchived):
				return c.Status(fiber.StatusGone).JSON(fiber.Map{
					"status": "error",
					"error":  "session is archived, start a new session",
				})
			default:
				log.Error().Err(err).Str("session_id", req.SessionID).Msg("turn processing failed")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"status": "error",
					"error":  "internal error",
				})
			}
		}

		return c.JSON(fiber.Map{
			"status":       "success",
			"reply":        result.Reply,
			"engaged":      result.Engaged,
			"terminated":   result.Terminated,
			"scamDetected": result.ScamConfirmed,
			"metadata": fiber.Map{
				"confidence":       result.Confidence,
				"riskScore":        result.Intelligence.RiskScore,
				"replySource":      string(result.ReplyStatus),
				"processingTimeMs": time.Since(start).Milliseconds(),
			},
		})
	})

	log.Info().Str("addr", cfg.ListenAddr).Msg("engine listening")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
