package handler

import (
	"net/http"
	"time"

	"shortlink/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthProbeKey = "health:probe"

// HealthHandler reports liveness and store reachability
type HealthHandler struct {
	store repository.KVStore
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store repository.KVStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if _, err := h.store.Exists(c.Request.Context(), healthProbeKey); err != nil {
		log.Warn().Err(err).Msg("Health check: store unreachable")
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"store":  h.store.Backend(),
		"time":   time.Now().Format(time.RFC3339),
	})
}
