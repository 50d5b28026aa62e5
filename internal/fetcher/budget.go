package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/go-github/v81/github"
)

// RateLimitedError reports that the shared request budget refused a request,
// either because the remaining allowance is spent or because a server-imposed
// cooldown is active. Values that could not be fetched because of it are
// recorded as unavailable; the run never waits for the window to reset.
type RateLimitedError struct {
	Reset time.Time
}

func (e *RateLimitedError) Error() string {
	if e.Reset.IsZero() {
		return "github request budget exhausted"
	}
	return fmt.Sprintf("github request budget exhausted until %s", e.Reset.Format(time.RFC3339))
}

// IsRateLimited reports whether err stems from rate limiting: the local
// budget accounting, or the API's primary and secondary limit responses.
func IsRateLimited(err error) bool {
	var budgetErr *RateLimitedError
	if errors.As(err, &budgetErr) {
		return true
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &abuseErr)
}

// RequestBudget tracks how many API requests the current rate-limit window
// still allows. It starts from a conservative guess and converges on the
// server's view as response headers arrive.
type RequestBudget struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	now       func() time.Time
	probed    bool
	cooldown  time.Time
}

func NewRequestBudget() *RequestBudget {
	return &RequestBudget{
		remaining: 5000, // Default conservative start
		reset:     time.Now().Add(1 * time.Hour),
		now:       time.Now,
	}
}

func (b *RequestBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Acquire reserves n requests. It never blocks: when the budget is spent or a
// cooldown is active it fails with a *RateLimitedError immediately. One probe
// request is allowed once the advertised reset time has passed, so a
// refreshed window can be observed without waiting out stale bookkeeping.
func (b *RequestBudget) Acquire(ctx context.Context, n int) error {
	if ctx == nil {
		return fmt.Errorf("Acquire: nil context")
	}
	if n <= 0 {
		return fmt.Errorf("Acquire: n must be > 0 (got %d)", n)
	}
	if b == nil {
		return fmt.Errorf("Acquire: nil RequestBudget")
	}
	if b.now == nil {
		return fmt.Errorf("Acquire: RequestBudget.now is nil (use NewRequestBudget)")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Before(b.cooldown) {
		return &RateLimitedError{Reset: b.cooldown}
	}

	if b.remaining >= n {
		b.remaining -= n
		return nil
	}

	if !now.Before(b.reset) {
		if !b.probed {
			b.probed = true
			return nil
		}
		return &RateLimitedError{Reset: b.reset}
	}

	return &RateLimitedError{Reset: b.reset}
}

// UpdateFromResponse folds the rate-limit headers of a GitHub response into
// the budget. Retry-After opens a cooldown; X-RateLimit-Remaining and
// X-RateLimit-Reset replace the local bookkeeping.
func (b *RequestBudget) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	if b == nil {
		return
	}
	if b.now == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	changed := false

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			if seconds > 0 {
				until := b.now().Add(time.Duration(seconds) * time.Second)
				if until.After(b.cooldown) {
					b.cooldown = until
					changed = true
				}
			}
		}
	}

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			if val >= 0 {
				if b.remaining != val {
					b.remaining = val
					changed = true
				}
			}
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if val > 0 {
				newReset := time.Unix(val, 0)
				if !b.reset.Equal(newReset) {
					b.reset = newReset
					changed = true
				}
			}
		}
	}

	if changed {
		b.probed = false
	}
}
