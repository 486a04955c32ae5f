package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader      = "X-Request-ID"
	logEventHTTP         = "http"
	logEventRateLimited  = "rate_limited"
	rateLimitedErrorCode = "too_many_requests"
	visitorIdleTimeout   = 3 * time.Minute
	// DefaultLoginAttemptsPerMinute bounds credential posts per client address.
	DefaultLoginAttemptsPerMinute = 10
)

// RequestLogger logs every request and tags the response with a request id.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(context *gin.Context) {
		start := time.Now()
		requestID := context.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		context.Header(requestIDHeader, requestID)
		context.Next()
		logger.Info(logEventHTTP,
			zap.String("method", context.Request.Method),
			zap.String("path", context.Request.URL.Path),
			zap.Int("status", context.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("ip", context.ClientIP()),
			zap.String("ua", context.Request.UserAgent()),
			zap.String("request_id", requestID),
		)
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles credential posts per client address. Idle visitors are pruned
// whenever a new request arrives, so no background goroutine is needed.
type LoginRateLimiter struct {
	mutex     sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewLoginRateLimiter allows attemptsPerMinute posts per address with an equal burst.
func NewLoginRateLimiter(attemptsPerMinute int, logger *zap.Logger) *LoginRateLimiter {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = DefaultLoginAttemptsPerMinute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginRateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Every(time.Minute / time.Duration(attemptsPerMinute)),
		burst:     attemptsPerMinute,
		idleAfter: visitorIdleTimeout,
		now:       time.Now,
		logger:    logger,
	}
}

// Middleware rejects requests over the limit with 429.
func (limiter *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := context.ClientIP()
		if !limiter.allow(clientIP) {
			limiter.logger.Warn(logEventRateLimited, zap.String("ip", clientIP), zap.String("path", context.Request.URL.Path))
			context.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateLimitedErrorCode})
			return
		}
		context.Next()
	}
}

func (limiter *LoginRateLimiter) allow(clientIP string) bool {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	now := limiter.now()
	for address, seen := range limiter.visitors {
		if now.Sub(seen.lastSeen) > limiter.idleAfter {
			delete(limiter.visitors, address)
		}
	}

	current, exists := limiter.visitors[clientIP]
	if !exists {
		current = &visitor{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.visitors[clientIP] = current
	}
	current.lastSeen = now
	return current.limiter.AllowN(now, 1)
}

func (limiter *LoginRateLimiter) trackedVisitors() int {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	return len(limiter.visitors)
}
