package health

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/eleven-am/voice-bridge/internal/gateway"
	"github.com/eleven-am/voice-bridge/internal/session"
	"github.com/eleven-am/voice-bridge/internal/usage"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines         int    `json:"goroutines"`
	MemoryAllocMB      uint64 `json:"memory_alloc_mb"`
	MemoryTotalAllocMB uint64 `json:"memory_total_alloc_mb"`
	MemorySysMB        uint64 `json:"memory_sys_mb"`
	NumGC              uint32 `json:"num_gc"`
}

type ConnectionStats struct {
	ActiveConnections int    `json:"active_connections"`
	ActiveSessions    int    `json:"active_sessions"`
	TotalRequests     uint64 `json:"total_requests"`
}

type UsageTotals struct {
	Sessions int64 `json:"sessions"`
	Tokens   int64 `json:"tokens"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status            Status                     `json:"status"`
	Timestamp         time.Time                  `json:"timestamp"`
	Version           string                     `json:"version"`
	UptimeSeconds     int64                      `json:"uptime_seconds"`
	ActiveConnections int                        `json:"active_connections"`
	Components        map[string]ComponentStatus `json:"components"`
}

type StatsResponse struct {
	Timestamp   time.Time          `json:"timestamp"`
	Connections ConnectionStats    `json:"connections"`
	Usage       UsageTotals        `json:"usage"`
	Hourly      []*session.Metrics `json:"hourly"`
	Runtime     RuntimeStats       `json:"runtime"`
}

type Handler struct {
	db        *gorm.DB
	redis     *redis.Client
	registry  *gateway.Registry
	sessions  *session.Store
	usage     *usage.Store
	version   string
	startTime time.Time

	totalRequests uint64
}

func NewHandler(
	db *gorm.DB,
	redisClient *redis.Client,
	registry *gateway.Registry,
	sessions *session.Store,
	usageStore *usage.Store,
	version string,
) *Handler {
	return &Handler{
		db:        db,
		redis:     redisClient,
		registry:  registry,
		sessions:  sessions,
		usage:     usageStore,
		version:   version,
		startTime: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/stats", h.Stats)
}

// IncrementRequests is called by the request-counting middleware.
func (h *Handler) IncrementRequests() {
	atomic.AddUint64(&h.totalRequests, 1)
}

// @Summary      Service banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  RootResponse
// @Router       / [get]
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Message: "voice bridge is running",
		Version: h.version,
		Status:  "ok",
	})
}

// @Summary      Readiness check
// @Description  Pings every critical dependency in parallel and reports per-component status
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	components := make(map[string]ComponentStatus)
	var mu sync.Mutex
	var wg sync.WaitGroup

	checks := []struct {
		name  string
		check func(context.Context) ComponentStatus
	}{
		{"database", h.checkDatabase},
		{"redis", h.checkRedis},
	}

	wg.Add(len(checks))
	for _, check := range checks {
		go func(name string, fn func(context.Context) ComponentStatus) {
			defer wg.Done()
			status := fn(ctx)
			mu.Lock()
			components[name] = status
			mu.Unlock()
		}(check.name, check.check)
	}
	wg.Wait()

	overallStatus := h.computeOverallStatus(components)

	resp := HealthResponse{
		Status:            overallStatus,
		Timestamp:         time.Now().UTC(),
		Version:           h.version,
		UptimeSeconds:     int64(time.Since(h.startTime).Seconds()),
		ActiveConnections: h.registry.Count(),
		Components:        components,
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, resp)
}

// @Summary      Bridge statistics
// @Description  Live connection counts, hourly counters and usage totals
// @Tags         health
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Router       /stats [get]
func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	activeSessions := 0
	if n, err := h.sessions.ActiveCount(ctx); err == nil {
		activeSessions = n
	}

	hourly, err := h.sessions.GetMetricsForLast24Hours(ctx)
	if err != nil {
		hourly = nil
	}

	var totals UsageTotals
	if count, tokens, err := h.usage.Totals(ctx); err == nil {
		totals = UsageTotals{Sessions: count, Tokens: tokens}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return c.JSON(http.StatusOK, StatsResponse{
		Timestamp: time.Now().UTC(),
		Connections: ConnectionStats{
			ActiveConnections: h.registry.Count(),
			ActiveSessions:    activeSessions,
			TotalRequests:     atomic.LoadUint64(&h.totalRequests),
		},
		Usage:  totals,
		Hourly: hourly,
		Runtime: RuntimeStats{
			Goroutines:         runtime.NumGoroutine(),
			MemoryAllocMB:      memStats.Alloc / 1024 / 1024,
			MemoryTotalAllocMB: memStats.TotalAlloc / 1024 / 1024,
			MemorySysMB:        memStats.Sys / 1024 / 1024,
			NumGC:              memStats.NumGC,
		},
	})
}

func (h *Handler) checkDatabase(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.db == nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "database not configured",
		}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "failed to get underlying db",
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    h.evaluateDBStats(sqlDB.Stats()),
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (h *Handler) evaluateDBStats(stats sql.DBStats) Status {
	if stats.OpenConnections >= stats.MaxOpenConnections && stats.MaxOpenConnections > 0 {
		return StatusDegraded
	}
	return StatusHealthy
}

func (h *Handler) checkRedis(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.redis == nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "redis not configured",
		}
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (h *Handler) computeOverallStatus(components map[string]ComponentStatus) Status {
	criticalComponents := []string{"database", "redis"}

	for _, name := range criticalComponents {
		if status, ok := components[name]; ok && status.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}

	for _, status := range components {
		if status.Status != StatusHealthy {
			return StatusDegraded
		}
	}
	return StatusHealthy
}
