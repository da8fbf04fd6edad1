package controller

import (
	"context"
	"time"

	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 3 * time.Second

// Pinger reports whether the store is reachable.
type Pinger func(ctx context.Context) error

type BannerResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Service  string `json:"service"`
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	serviceName string
	version     string
	ping        Pinger
	logger      logger.ILogger
}

func NewHealthController(serviceName, version string, ping Pinger, logger logger.ILogger) IHealthController {
	return &healthController{
		serviceName: serviceName,
		version:     version,
		ping:        ping,
		logger:      logger,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Service is running", BannerResponse{
		Message: c.serviceName + " API",
		Status:  "running",
		Version: c.version,
	}))
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), healthCheckTimeout)
	defer cancel()

	if err := c.ping(pingCtx); err != nil {
		c.logger.Error("HealthController", "Database ping failed", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(&serverutils.BaseResponse[HealthResponse]{
			Success: false,
			Code:    fiber.StatusServiceUnavailable,
			Message: "Service unhealthy",
			Data: HealthResponse{
				Status:   "unhealthy",
				Database: "disconnected",
				Service:  c.serviceName,
			},
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Service is healthy", HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Service:  c.serviceName,
	}))
}
