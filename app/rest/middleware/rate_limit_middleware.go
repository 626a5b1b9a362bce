package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	apperrors "portal-service/app/utils/errors"
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// RatePolicy is the token bucket applied to one endpoint class
type RatePolicy struct {
	Limit rate.Limit
	Burst int
}

// Policies for the unauthenticated auth endpoints
var (
	LoginRatePolicy  = RatePolicy{Limit: rate.Every(12 * time.Second), Burst: 5}
	SignupRatePolicy = RatePolicy{Limit: rate.Every(time.Minute), Burst: 3}
)

// RateLimiter throttles callers per client IP and endpoint class
type RateLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter and starts its visitor cleanup loop. Call Stop to end it.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanupLoop()
	return rl
}

// Limit returns middleware enforcing policy for the named endpoint class
func (rl *RateLimiter) Limit(class string, policy RatePolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := class + "|" + c.RealIP()

			allowed, retryAfter := rl.allow(key, policy)
			if !allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				appErr := apperrors.NewRateLimitExceeded()
				return c.JSON(http.StatusTooManyRequests, appErr.Response())
			}

			return next(c)
		}
	}
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) allow(key string, policy RatePolicy) (bool, int) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(policy.Limit, policy.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}

	// Seconds until the next token, rounded up so clients never retry early.
	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, int(cleanupInterval.Seconds())
	}
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return false, int(math.Ceil(delay.Seconds()))
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}
