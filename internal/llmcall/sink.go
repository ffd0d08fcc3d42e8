package llmcall

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// SinkConfig configures the call sink.
type SinkConfig struct {
	Writer        io.Writer
	BatchSize     int           // Flush after N calls (default: 50)
	FlushInterval time.Duration // Or after duration (default: 2s)
	QueueSize     int           // Buffer size (default: 256)
	Logger        *slog.Logger
}

// Sink batches calls and appends them to a writer as JSON lines.
type Sink struct {
	w      io.Writer
	enc    *json.Encoder
	logger *slog.Logger

	batchSize     int
	flushInterval time.Duration

	queue   chan *Call
	batch   []*Call
	batchMu sync.Mutex
	writeMu sync.Mutex
	flushCh chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSink creates a new call sink.
func NewSink(cfg SinkConfig) *Sink {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Sink{
		w:             cfg.Writer,
		enc:           json.NewEncoder(cfg.Writer),
		logger:        cfg.Logger,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		queue:         make(chan *Call, cfg.QueueSize),
		batch:         make([]*Call, 0, cfg.BatchSize),
		flushCh:       make(chan struct{}, 1),
	}
}

// Start begins processing queued calls.
func (s *Sink) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.runBatcher()
}

// Stop gracefully shuts down the sink, writing remaining calls.
func (s *Sink) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
		s.wg.Wait()
		s.cancel()
	})
}

// Send queues a call (fire-and-forget).
func (s *Sink) Send(call *Call) {
	if call == nil {
		return
	}

	// Use recover to handle send on closed channel
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("sink closed, dropping call record", "call_id", call.ID)
		}
	}()

	select {
	case s.queue <- call:
	default:
		select {
		case s.queue <- call:
		case <-s.ctx.Done():
			s.logger.Warn("sink closed, dropping call record", "call_id", call.ID)
		}
	}
}

// Flush requests an immediate write of the current batch.
func (s *Sink) Flush() {
	select {
	case s.flushCh <- struct{}{}:
	default:
		// Flush already pending
	}
}

func (s *Sink) runBatcher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case call, ok := <-s.queue:
			if !ok {
				s.flushBatch()
				return
			}
			s.addToBatch(call)

		case <-ticker.C:
			s.flushBatch()

		case <-s.flushCh:
			s.flushBatch()
		}
	}
}

func (s *Sink) addToBatch(call *Call) {
	s.batchMu.Lock()
	s.batch = append(s.batch, call)
	shouldFlush := len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if shouldFlush {
		s.flushBatch()
	}
}

func (s *Sink) flushBatch() {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	calls := s.batch
	s.batch = make([]*Call, 0, s.batchSize)
	s.batchMu.Unlock()

	s.logger.Debug("flushing call records", "count", len(calls))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for _, c := range calls {
		if err := s.enc.Encode(c); err != nil {
			s.logger.Warn("failed to write call record", "call_id", c.ID, "error", err)
		}
	}
}
