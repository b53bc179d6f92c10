package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

// DefaultLimiterWait is how long a request waits for an extraction slot.
const DefaultLimiterWait = 10 * time.Second

// ExtractionLimiter bounds the number of workbook uploads decoded at once. Each decode
// holds a whole workbook in memory, so requests beyond the limit wait up to the
// configured time and are then rejected with 503.
type ExtractionLimiter struct {
	sem  *semaphore.Weighted
	wait time.Duration
}

// NewExtractionLimiter creates a limiter admitting n concurrent extractions.
func NewExtractionLimiter(n int64, wait time.Duration) *ExtractionLimiter {
	if n < 1 {
		n = 1
	}
	return &ExtractionLimiter{sem: semaphore.NewWeighted(n), wait: wait}
}

// Handler is the chi middleware.
func (l *ExtractionLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), l.wait)
		defer cancel()

		if err := l.sem.Acquire(ctx, 1); err != nil {
			log.Printf("[http] extraction limiter: rejecting request after %s: %v", l.wait, err)
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrServerBusy.Error(), "retry shortly")
			return
		}
		defer l.sem.Release(1)

		next.ServeHTTP(w, r)
	})
}
