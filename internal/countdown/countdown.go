// internal/countdown/countdown.go
//
// Server-side countdown ticker for live missions.
// Responsibilities:
//   - Run one repeating gocron duration job per key (mission id).
//   - Stop timers idempotently, guaranteeing no tick runs after Stop returns.
//   - Retire a timer when its tick function reports the mission is over.
//
// Notes:
//   - Each timer has its own mutex; the tick callback runs while holding it
//     and Stop takes it, so Stop waits out an in-flight tick.
//   - A tick function must not call Stop for its own key (it would wait on
//     itself). Return false instead.
package countdown

import (
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TickFunc is called once per interval. Returning false retires the timer.
type TickFunc func() bool

type timer struct {
	mu      sync.Mutex
	stopped bool
	jobID   uuid.UUID
}

// Countdown owns a scheduler and the live timers keyed by mission id.
type Countdown struct {
	sched    gocron.Scheduler
	interval time.Duration
	log      zerolog.Logger

	// startMu serializes Start so stop-then-register is atomic per call.
	startMu sync.Mutex

	mu     sync.Mutex
	timers map[string]*timer
}

// Option configures a Countdown.
type Option func(*config)

type config struct {
	log zerolog.Logger
}

// WithLogger routes countdown and scheduler logs to l.
func WithLogger(l zerolog.Logger) Option { return func(c *config) { c.log = l } }

// New starts a scheduler whose timers tick every interval.
func New(interval time.Duration, opts ...Option) (*Countdown, error) {
	if interval <= 0 {
		return nil, errors.New("countdown: interval must be positive")
	}
	cfg := config{log: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}
	sched, err := gocron.NewScheduler(gocron.WithLogger(gocronLogger{cfg.log}))
	if err != nil {
		return nil, err
	}
	sched.Start()
	return &Countdown{
		sched:    sched,
		interval: interval,
		log:      cfg.log,
		timers:   make(map[string]*timer),
	}, nil
}

// Start begins ticking key. A timer already running for key is stopped
// first.
func (c *Countdown) Start(key string, tick TickFunc) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	c.Stop(key)

	t := &timer{}
	t.mu.Lock()
	defer t.mu.Unlock()

	job, err := c.sched.NewJob(
		gocron.DurationJob(c.interval),
		gocron.NewTask(func() { c.run(key, t, tick) }),
		gocron.WithName("countdown:"+key),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	t.jobID = job.ID()

	c.mu.Lock()
	c.timers[key] = t
	c.mu.Unlock()
	c.log.Debug().Str("mission", key).Dur("interval", c.interval).Msg("countdown started")
	return nil
}

func (c *Countdown) run(key string, t *timer, tick TickFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if tick() {
		return
	}
	t.stopped = true
	// RemoveJob must not block this task, so retire from another goroutine.
	go c.retire(key, t)
}

func (c *Countdown) retire(key string, t *timer) {
	c.mu.Lock()
	if c.timers[key] == t {
		delete(c.timers, key)
	}
	c.mu.Unlock()
	c.removeJob(key, t.jobID)
	c.log.Debug().Str("mission", key).Msg("countdown finished")
}

// Stop cancels key's timer. It is safe to call for unknown or already
// stopped keys and reports whether a running timer was stopped. No tick for
// key runs after Stop returns.
func (c *Countdown) Stop(key string) bool {
	c.mu.Lock()
	t, ok := c.timers[key]
	delete(c.timers, key)
	c.mu.Unlock()
	if !ok {
		return false
	}

	t.mu.Lock()
	was := !t.stopped
	t.stopped = true
	id := t.jobID
	t.mu.Unlock()

	c.removeJob(key, id)
	if was {
		c.log.Debug().Str("mission", key).Msg("countdown stopped")
	}
	return was
}

func (c *Countdown) removeJob(key string, id uuid.UUID) {
	if err := c.sched.RemoveJob(id); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		c.log.Warn().Err(err).Str("mission", key).Msg("countdown: remove job")
	}
}

// Running reports whether key has a live timer.
func (c *Countdown) Running(key string) bool {
	c.mu.Lock()
	t, ok := c.timers[key]
	c.mu.Unlock()
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// Shutdown stops every timer and the scheduler.
func (c *Countdown) Shutdown() error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.timers))
	for k := range c.timers {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	for _, k := range keys {
		c.Stop(k)
	}
	return c.sched.Shutdown()
}

// gocronLogger adapts zerolog to gocron's Logger interface.
type gocronLogger struct{ l zerolog.Logger }

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debug().Fields(args).Msg(msg) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Error().Fields(args).Msg(msg) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Info().Fields(args).Msg(msg) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warn().Fields(args).Msg(msg) }
