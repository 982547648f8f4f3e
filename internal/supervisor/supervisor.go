package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval is the pause between readiness checks.
const DefaultInterval = time.Second

var errNotReady = errors.New("voice plugin not initialized")

// Readiness reports whether the voice plugin finished initializing.
type Readiness interface {
	IsPluginInitialized(strict bool) bool
}

// Enabler turns the radio on.
type Enabler interface {
	EnableRadio(state bool)
}

// Options tunes a Supervisor. Zero values select defaults.
type Options struct {
	Interval time.Duration
	Logger   *slog.Logger
	// OnAttempt is called after every readiness check with its result.
	OnAttempt func(ready bool)
	// OnEnabled is called once after the radio was enabled.
	OnEnabled func()
}

// Supervisor waits for plugin readiness and enables the radio exactly once.
type Supervisor struct {
	readiness Readiness
	enabler   Enabler
	opts      Options

	once    sync.Once
	done    chan struct{}
	mu      sync.Mutex
	enabled bool
	err     error
}

// New creates a supervisor. It does nothing until Run or Start is called.
func New(readiness Readiness, enabler Enabler, opts Options) *Supervisor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Supervisor{
		readiness: readiness,
		enabler:   enabler,
		opts:      opts,
		done:      make(chan struct{}),
	}
}

// Run blocks until the plugin is initialized and the radio was enabled, or
// until ctx is done. It returns ctx.Err() when cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	var err error
	ran := false
	s.once.Do(func() {
		ran = true
		defer close(s.done)
		err = s.run(ctx)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	})
	if !ran {
		<-s.done
		return s.Err()
	}
	return err
}

// Start runs the supervisor in its own goroutine. Use Done to wait for it.
func (s *Supervisor) Start(ctx context.Context) {
	go func() {
		_ = s.Run(ctx)
	}()
}

// Done is closed when the supervisor finished, either by enabling the radio
// or by cancellation.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Enabled reports whether the supervisor enabled the radio.
func (s *Supervisor) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Err returns the cancellation error of a finished run, or nil.
func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Supervisor) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	check := func() error {
		ready := s.readiness.IsPluginInitialized(true)
		if s.opts.OnAttempt != nil {
			s.opts.OnAttempt(ready)
		}
		if !ready {
			return errNotReady
		}
		return nil
	}

	attempts := 0
	notify := func(err error, next time.Duration) {
		attempts++
		s.opts.Logger.Debug("waiting for voice plugin", "attempt", attempts, "retry_in", next)
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(s.opts.Interval), ctx)
	if err := backoff.RetryNotify(check, b, notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.opts.Logger.Info("radio enable cancelled", "attempts", attempts+1)
			return ctxErr
		}
		return err
	}

	// Readiness was observed; enable even if ctx is cancelled by now.
	s.enabler.EnableRadio(true)
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()

	s.opts.Logger.Info("radio enabled", "attempts", attempts+1)
	if s.opts.OnEnabled != nil {
		s.opts.OnEnabled()
	}
	return nil
}
