package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"auction-marketplace/internal/marketerrors"
	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the id the request logger assigns to every request
const RequestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(RequestIDHeader, requestID)

	c.Next() // process request

	fields := map[string]any{
		"request_id": requestID,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"client_ip":  c.ClientIP(),
	}
	if actor := helpers.CurrentActor(c); !actor.Anonymous() {
		fields["user_id"] = actor.UserID
	}
	utils.Info("HTTP Request", fields)
}

// Authenticator resolves a session token
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// SessionAuth resolves the session token of every request into the request actor. A missing,
// unknown or expired token leaves the request anonymous; guards decide whether that is enough.
func SessionAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			helpers.SetActor(c, market.Actor{UserID: session.UserID, Role: session.Role})
		case market.IsAuthError(err):
			utils.Debug("SessionAuth: ignoring invalid session token", map[string]any{"error": err.Error()})
		default:
			helpers.RespondError(c, "SessionAuth", err, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession rejects anonymous requests with 401
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if helpers.CurrentActor(c).Anonymous() {
			helpers.RespondError(c, "RequireSession", marketerrors.ErrUnauthorized, map[string]any{"path": c.FullPath()})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles rejects anonymous requests with 401 and callers without one of roles with 403
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := helpers.CurrentActor(c)
		if actor.Anonymous() {
			helpers.RespondError(c, "RequireRoles", marketerrors.ErrUnauthorized, map[string]any{"path": c.FullPath()})
			c.Abort()
			return
		}
		if !slices.Contains(roles, actor.Role) {
			helpers.RespondError(c, "RequireRoles", marketerrors.ErrForbidden, map[string]any{
				"path":  c.FullPath(),
				"role":  actor.Role,
				"roles": roles,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

var errTooManyRequests = errors.New("rate limit exceeded")

// limiterIdleTTL is how long an IP's bucket is kept after its last request
const limiterIdleTTL = 10 * time.Minute

// IPRateLimiter hands out one token bucket per client IP. Buckets idle longer than it takes to
// refill are dropped, so the map only holds recently active clients.
type IPRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows perMinute requests per minute per IP with the given burst.
// A non-positive perMinute disables limiting.
func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}

	idleTTL := limiterIdleTTL
	if perMinute > 0 {
		// a bucket idle for this long is full again
		if refill := time.Duration(burst) * time.Minute / time.Duration(perMinute); refill > idleTTL {
			idleTTL = refill
		}
	}

	return &IPRateLimiter{
		limiters: make(map[string]*ipLimiter),
		limit:    limit,
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.lim
}

// Prune drops the buckets of IPs that have been idle past the refill window and returns how
// many were removed
func (l *IPRateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweep(l.now())
}

func (l *IPRateLimiter) sweep(now time.Time) int {
	l.lastSweep = now
	removed := 0
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idleTTL {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked IPs
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware answers 429 once an IP runs out of tokens
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.limiter(ip).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, errTooManyRequests, "too many requests")
			utils.Warn("rate limit exceeded", map[string]any{"client_ip": ip, "path": c.FullPath()})
			c.Abort()
			return
		}
		c.Next()
	}
}
