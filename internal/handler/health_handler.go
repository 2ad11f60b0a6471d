package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/mcq-client/internal/response"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports liveness together with a few runtime figures and, when
// sessions live in Redis, whether Redis answers.
type HealthHandler struct {
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

type healthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	SessionStore string `json:"session_store"`
	Goroutines   int    `json:"goroutines"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	GoVersion    string `json:"go_version"`
}

// NewHealthHandler creates a HealthHandler. rdb is nil when sessions are kept in memory.
func NewHealthHandler(rdb *redis.Client, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	st := healthStatus{
		Status:       "ok",
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		SessionStore: "memory",
		Goroutines:   runtime.NumGoroutine(),
		HeapAlloc:    ms.HeapAlloc,
		GoVersion:    runtime.Version(),
	}

	if h.rdb != nil {
		st.SessionStore = "redis"
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("redis ping failed")
			st.Status = "degraded"
			response.Success(c, http.StatusServiceUnavailable, st)
			return
		}
	}

	response.Success(c, http.StatusOK, st)
}
