package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/metrics"
	"github.com/ShareIt-Platform/service-sharing/internal/common/ratelimit"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

const (
	// HeaderSharerUserID carries the acting user's numeric id.
	HeaderSharerUserID = "X-Sharer-User-Id"
	// HeaderRequestID carries the correlation id of a request.
	HeaderRequestID = "X-Request-ID"

	ctxActorID   = "actor_id"
	ctxRequestID = "request_id"
)

// RecoveryMiddleware turns panics into 500 responses and logs them.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(ctxRequestID)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.APIResponse{
			Success: false,
			Error:   &response.ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
	})
}

// LoggerMiddleware writes one access log line per request and records HTTP metrics.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// RequestIDMiddleware propagates X-Request-ID or generates one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// CORSMiddleware allows cross-origin calls carrying the actor header.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", HeaderSharerUserID, HeaderRequestID},
		ExposeHeaders:   []string{HeaderRequestID},
		MaxAge:          12 * time.Hour,
	})
}

// SecurityHeadersMiddleware sets conservative response headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// SharerUserMiddleware requires a positive numeric X-Sharer-User-Id header and
// stores it for GetActorID.
func SharerUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderSharerUserID)
		if raw == "" {
			response.BadRequest(c, "missing "+HeaderSharerUserID+" header")
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "invalid "+HeaderSharerUserID+" header")
			return
		}
		c.Set(ctxActorID, id)
		c.Next()
	}
}

// GetActorID returns the actor set by SharerUserMiddleware.
func GetActorID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxActorID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// RateLimitMiddleware limits requests per actor, falling back to the client IP
// when the actor header is missing or not a positive id. Limiter errors let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, err := strconv.ParseInt(c.GetHeader(HeaderSharerUserID), 10, 64); err == nil && id > 0 {
			key = "user:" + strconv.FormatInt(id, 10)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			metrics.IncRateLimited()
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
