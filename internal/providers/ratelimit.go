package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket refilled continuously over a one minute
// window. All clients built from one LimitedFactory share it.
type RateLimiter struct {
	mu sync.Mutex

	perMinute int
	tokens    float64
	last      time.Time
	now       func() time.Time

	consumed    int64
	waited      time.Duration
	last429Time time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	TokensAvailable int           `json:"tokens_available"`
	TokensLimit     int           `json:"tokens_limit"`
	TotalConsumed   int64         `json:"total_consumed"`
	TotalWaited     time.Duration `json:"total_waited"`
	Last429Time     time.Time     `json:"last_429_time,omitempty"`
}

// NewRateLimiter returns a limiter allowing perMinute requests per minute,
// or nil when perMinute is not positive.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		perMinute: perMinute,
		tokens:    float64(perMinute),
		last:      time.Now(),
		now:       time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1 {
			r.tokens--
			r.consumed++
			r.mu.Unlock()
			return nil
		}
		wait := r.untilToken()
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			r.mu.Lock()
			r.waited += wait
			r.mu.Unlock()
		}
	}
}

// TryConsume takes a token without blocking.
func (r *RateLimiter) TryConsume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	if r.tokens < 1 {
		return false
	}
	r.tokens--
	r.consumed++
	return true
}

// Record429 notes a rate limited response. A positive retryAfter drains
// the bucket so the next callers back off.
func (r *RateLimiter) Record429(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last429Time = r.now()
	if retryAfter > 0 {
		r.tokens = 0
	}
}

// Status returns current limiter state.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return RateLimiterStatus{
		TokensAvailable: int(r.tokens),
		TokensLimit:     r.perMinute,
		TotalConsumed:   r.consumed,
		TotalWaited:     r.waited,
		Last429Time:     r.last429Time,
	}
}

// refill must be called with mu held.
func (r *RateLimiter) refill() {
	now := r.now()
	elapsed := now.Sub(r.last).Seconds()
	r.last = now
	r.tokens += elapsed * r.rate()
	if r.tokens > float64(r.perMinute) {
		r.tokens = float64(r.perMinute)
	}
}

func (r *RateLimiter) rate() float64 {
	return float64(r.perMinute) / 60
}

func (r *RateLimiter) untilToken() time.Duration {
	need := 1 - r.tokens
	return time.Duration(need / r.rate() * float64(time.Second))
}

// limitedClient waits on a shared limiter before each chat request.
type limitedClient struct {
	next    LLMClient
	limiter *RateLimiter
}

func (c *limitedClient) Name() string {
	return c.next.Name()
}

func (c *limitedClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ChatResult{
			Provider:     c.next.Name(),
			RequestID:    req.RequestID,
			ErrorType:    "context_cancelled",
			ErrorMessage: err.Error(),
		}, err
	}
	result, err := c.next.Chat(ctx, req)
	if rle, ok := IsRateLimitError(err); ok {
		c.limiter.Record429(rle.RetryAfter)
	}
	return result, err
}

// LimitedFactory wraps every client built by next with limiter. A nil
// limiter returns next unchanged.
func LimitedFactory(next ClientFactory, limiter *RateLimiter) ClientFactory {
	if limiter == nil {
		return next
	}
	return func(cfg ClientConfig) LLMClient {
		return &limitedClient{next: next(cfg), limiter: limiter}
	}
}

var _ LLMClient = (*limitedClient)(nil)
