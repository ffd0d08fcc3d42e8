package providers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model:    "test-model",
			Messages: []Message{{Role: RoleUser, Content: "test"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
	})

	t.Run("respond func", func(t *testing.T) {
		c := NewMockClient()
		c.Respond = func(req *ChatRequest) (string, error) {
			return "echo: " + req.Messages[0].Content, nil
		}
		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "ping"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "echo: ping" {
			t.Errorf("Content = %q", result.Content)
		}
		if got := c.Requests(); len(got) != 1 || got[0].Messages[0].Content != "ping" {
			t.Errorf("Requests() = %#v", got)
		}
	})

	t.Run("fail after", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 1
		req := &ChatRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}}
		if _, err := c.Chat(context.Background(), req); err != nil {
			t.Fatalf("first Chat() error = %v", err)
		}
		if _, err := c.Chat(context.Background(), req); err == nil {
			t.Fatal("second Chat() should fail")
		}
		c.Reset()
		if c.RequestCount() != 0 || len(c.Requests()) != 0 {
			t.Error("Reset() should clear state")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := NewMockClient()
		c.Latency = time.Minute
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Chat(ctx, &ChatRequest{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		if NewRateLimiter(0) != nil {
			t.Error("NewRateLimiter(0) should return nil")
		}
	})

	t.Run("allows initial burst", func(t *testing.T) {
		limiter := NewRateLimiter(600)
		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("request %d failed: %v", i, err)
			}
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("took too long: %v", elapsed)
		}
	})

	t.Run("try consume", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		if !limiter.TryConsume() {
			t.Error("first TryConsume should succeed")
		}
		if limiter.TryConsume() {
			t.Error("second TryConsume should fail")
		}
	})

	t.Run("refills over time", func(t *testing.T) {
		now := time.Unix(1000, 0)
		limiter := NewRateLimiter(60)
		limiter.now = func() time.Time { return now }
		limiter.last = now
		limiter.tokens = 0

		if limiter.TryConsume() {
			t.Fatal("empty bucket should refuse")
		}
		now = now.Add(2 * time.Second)
		if !limiter.TryConsume() || !limiter.TryConsume() {
			t.Fatal("two seconds at 60/min should refill two tokens")
		}
		if limiter.TryConsume() {
			t.Fatal("bucket should be empty again")
		}
	})

	t.Run("status", func(t *testing.T) {
		limiter := NewRateLimiter(60)
		status := limiter.Status()
		if status.TokensLimit != 60 {
			t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
		}
		if status.TokensAvailable <= 0 {
			t.Error("expected positive tokens available")
		}
	})

	t.Run("record 429 drains bucket", func(t *testing.T) {
		limiter := NewRateLimiter(60)
		limiter.Record429(time.Second)
		status := limiter.Status()
		if status.Last429Time.IsZero() {
			t.Error("Last429Time should be set")
		}
		if status.TokensAvailable != 0 {
			t.Errorf("TokensAvailable = %d, want 0", status.TokensAvailable)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("concurrent requests", func(t *testing.T) {
		limiter := NewRateLimiter(6000)
		var wg sync.WaitGroup
		var failures atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background()); err != nil {
					failures.Add(1)
				}
			}()
		}
		wg.Wait()
		if failures.Load() > 0 {
			t.Errorf("had %d errors", failures.Load())
		}
		if got := limiter.Status().TotalConsumed; got != 10 {
			t.Errorf("TotalConsumed = %d, want 10", got)
		}
	})
}

type rateLimitedMock struct{ calls int }

func (m *rateLimitedMock) Name() string { return "limited" }

func (m *rateLimitedMock) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	m.calls++
	return &ChatResult{}, &RateLimitError{Message: "slow down", RetryAfter: time.Second, StatusCode: 429}
}

func TestLimitedFactory(t *testing.T) {
	t.Run("nil limiter passes through", func(t *testing.T) {
		mock := NewMockClient()
		factory := LimitedFactory(StaticFactory(mock), nil)
		if got := factory(ClientConfig{}); got != LLMClient(mock) {
			t.Fatalf("expected unwrapped client, got %T", got)
		}
	})

	t.Run("consumes shared tokens", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		factory := LimitedFactory(StaticFactory(NewMockClient()), limiter)

		first := factory(ClientConfig{})
		if first.Name() != MockClientName {
			t.Errorf("Name() = %q", first.Name())
		}
		if _, err := first.Chat(context.Background(), &ChatRequest{}); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		result, err := factory(ClientConfig{}).Chat(ctx, &ChatRequest{})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		if result == nil || result.Success {
			t.Fatalf("expected failed result, got %#v", result)
		}
	})

	t.Run("rate limit response drains bucket", func(t *testing.T) {
		limiter := NewRateLimiter(60)
		mock := &rateLimitedMock{}
		client := LimitedFactory(StaticFactory(mock), limiter)(ClientConfig{})
		_, err := client.Chat(context.Background(), &ChatRequest{})
		if _, ok := IsRateLimitError(err); !ok {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if limiter.Status().Last429Time.IsZero() {
			t.Error("limiter should record the 429")
		}
		if limiter.TryConsume() {
			t.Error("bucket should be drained after a 429 with Retry-After")
		}
	})
}
