package handlers

import (
	"crop-recommendation-service/internal/database/redis"
	"crop-recommendation-service/internal/event"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	db          *sqlx.DB
	redisClient *redis.Client
	publisher   *event.RecommendationPublisher
}

func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, publisher *event.RecommendationPublisher) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		publisher:   publisher,
	}
}

func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
}

// Health reports the service status and the state of each backing system.
func (h *HealthHandler) Health(c *gin.Context) {
	health := gin.H{
		"status":  "ok",
		"service": "crop-recommendation-service",
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			health["postgres"] = "down"
			health["status"] = "degraded"
		} else {
			health["postgres"] = "up"
		}
	}

	if h.redisClient != nil {
		if err := h.redisClient.HealthCheck(c.Request.Context()); err != nil {
			health["redis"] = "down"
			health["status"] = "degraded"
		} else {
			health["redis"] = "up"
		}
	}

	if h.publisher != nil {
		status := h.publisher.HealthCheck()
		if status.IsHealthy {
			health["rabbitmq"] = "up"
		} else {
			health["rabbitmq"] = "down"
			health["status"] = "degraded"
		}
	} else {
		health["rabbitmq"] = "disabled"
	}

	c.JSON(http.StatusOK, health)
}
