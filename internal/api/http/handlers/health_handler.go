package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/observability"
	"github.com/storefront/admin-console/internal/persistence"
)

const readyTimeout = 2 * time.Second

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	backend     *apiclient.Client
	metrics     *observability.Metrics
}

// NewHealthHandler returns a new handler instance. A nil redis means sessions
// live in memory.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis, backend *apiclient.Client, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		postgres:    postgres,
		redis:       redis,
		backend:     backend,
		metrics:     metrics,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness. The backend and the session store must answer;
// the audit database is optional. Checks run concurrently under one deadline.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	var postgres, redis, backend depCheck
	var g errgroup.Group
	g.Go(func() error {
		postgres = checkDep(h.postgres.Ping(ctx), persistence.ErrPostgresDisabled)
		return nil
	})
	g.Go(func() error {
		if h.redis == nil {
			redis = depCheck{status: "disabled", ok: true}
			return nil
		}
		redis = checkDep(h.redis.Ping(ctx), nil)
		return nil
	})
	g.Go(func() error {
		backend = checkDep(h.backend.Ping(ctx), nil)
		return nil
	})
	_ = g.Wait()

	depStatus := fiber.Map{
		"postgres": postgres.status,
		"redis":    redis.status,
		"backend":  backend.status,
	}
	if postgres.ok && redis.ok && backend.ok {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

type depCheck struct {
	status string
	ok     bool
}

// checkDep maps a ping result to a status. An error matching disabled means
// the dependency is switched off, which is fine.
func checkDep(err, disabled error) depCheck {
	switch {
	case err == nil:
		return depCheck{status: "ok", ok: true}
	case disabled != nil && errors.Is(err, disabled):
		return depCheck{status: "disabled", ok: true}
	default:
		return depCheck{status: err.Error()}
	}
}

// Metrics serves the in-memory counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
