package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"showup/internal/platform/ratelimit"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/platform/httputil"
	"showup/pkg/requestcontext"
)

// Throttler caps request rates per caller. Authenticated requests are
// keyed by principal, anonymous ones by client IP.
type Throttler struct {
	store  ratelimit.Store
	limit  int
	window time.Duration
	logger *slog.Logger
}

func NewThrottler(store ratelimit.Store, limit int, window time.Duration, logger *slog.Logger) *Throttler {
	return &Throttler{store: store, limit: limit, window: window, logger: logger}
}

func (t *Throttler) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		key := "ip:" + requestcontext.ClientIP(ctx)
		if caller := requestcontext.CallerID(ctx); !caller.IsNil() {
			key = "principal:" + caller.String()
		}

		result, err := t.store.Allow(ctx, key, t.limit, t.window)
		if err != nil {
			// Fail open: a broken limiter must not take the API down.
			t.logger.Error("rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter(time.Now())))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
