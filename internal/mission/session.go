// internal/mission/session.go
//
// Session state machine for one mission.
// Responsibilities:
//   - Own status, countdown value, strikes and module instances.
//   - Serialize every mutation behind one mutex (ticks and actions may come
//     from different goroutines).
//   - Apply module actions through the module dispatch and derive strike,
//     win and explode transitions from the result.
//
// Notes:
//   - The session holds no timer. An external ticker (internal/countdown)
//     calls Tick once per interval while the session is active.
//   - Actions received while not active are ignored before any module sees
//     them.
//   - The finish hook runs after the mutex is released, once per terminal
//     transition.
package mission

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/rng"
)

// State is a point-in-time copy of a session.
type State struct {
	Mission
	TimerSeconds int        `json:"timerSeconds"`
	Strikes      int        `json:"strikes"`
	MaxStrikes   int        `json:"maxStrikes"`
	Status       Status     `json:"status"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
}

// Elapsed is the active play time: start to end, or start to now while
// running. Zero before the session starts.
func (st State) Elapsed(now time.Time) time.Duration {
	if st.StartTime == nil {
		return 0
	}
	if st.EndTime != nil {
		return st.EndTime.Sub(*st.StartTime)
	}
	return now.Sub(*st.StartTime)
}

func (st State) clone() State {
	c := st
	c.Globals = st.Globals.Clone()
	c.Modules = make([]Instance, len(st.Modules))
	for i, in := range st.Modules {
		c.Modules[i] = in.clone()
	}
	if st.StartTime != nil {
		t := *st.StartTime
		c.StartTime = &t
	}
	if st.EndTime != nil {
		t := *st.EndTime
		c.EndTime = &t
	}
	return c
}

// Session is a live mission. The zero value is not usable; call New.
type Session struct {
	mu    sync.Mutex
	clock clockwork.Clock
	log   zerolog.Logger
	rules modules.Rules

	// onFinish receives a snapshot after the session turns won or exploded.
	onFinish func(State)
	pending  *State

	state State
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for start and end timestamps.
func WithClock(c clockwork.Clock) Option { return func(s *Session) { s.clock = c } }

// WithLogger sets the transition logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// WithRules overrides the module rule policies.
func WithRules(r modules.Rules) Option { return func(s *Session) { s.rules = r } }

// WithFinishHook registers fn to run after every terminal transition. fn is
// called without the session lock held.
func WithFinishHook(fn func(State)) Option { return func(s *Session) { s.onFinish = fn } }

// New creates a session in the intro state. An empty seed is replaced by a
// fresh one, readable from Snapshot().Seed.
func New(mode Mode, difficulty Difficulty, seed string, opts ...Option) (*Session, error) {
	s := &Session{
		clock: clockwork.NewRealClock(),
		log:   zerolog.Nop(),
		rules: modules.DefaultRules,
	}
	for _, o := range opts {
		o(s)
	}
	if err := s.Initialize(mode, difficulty, seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize discards the current state and builds a new intro-state
// mission. On error the previous state is kept.
func (s *Session) Initialize(mode Mode, difficulty Difficulty, seed string) error {
	if seed == "" {
		seed = rng.NewSeed()
	}
	spec, err := mode.Spec()
	if err != nil {
		return err
	}
	m, err := Generate(mode, difficulty, seed)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		Mission:      m,
		TimerSeconds: spec.TimerSeconds,
		MaxStrikes:   spec.MaxStrikes,
		Status:       StatusIntro,
	}
	s.log.Info().
		Str("seed", seed).
		Str("mode", string(mode)).
		Str("difficulty", string(difficulty)).
		Int("modules", len(m.Modules)).
		Msg("mission initialized")
	return nil
}

// Reset rebuilds the session with the same mode and difficulty. An empty
// seed draws a fresh one. The caller stops any countdown first.
func (s *Session) Reset(seed string) error {
	s.mu.Lock()
	mode, difficulty := s.state.Mode, s.state.Difficulty
	s.mu.Unlock()
	return s.Initialize(mode, difficulty, seed)
}

// Start moves intro → active. It reports whether the transition happened.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusIntro {
		return false
	}
	now := s.clock.Now()
	s.state.Status = StatusActive
	s.state.StartTime = &now
	s.log.Info().Str("seed", s.state.Seed).Msg("mission started")
	return true
}

// Tick advances the countdown by one second and returns the resulting
// status. Reaching zero explodes the session.
func (s *Session) Tick() Status {
	s.mu.Lock()
	if s.state.Status != StatusActive {
		st := s.state.Status
		s.mu.Unlock()
		return st
	}
	s.state.TimerSeconds--
	if s.state.TimerSeconds <= 0 {
		s.state.TimerSeconds = 0
		s.finishLocked(StatusExploded, "timer expired")
	}
	return s.unlockAndNotify()
}

// Strike records a mistake outside any module. Ignored unless active.
func (s *Session) Strike() Status {
	s.mu.Lock()
	if s.state.Status == StatusActive {
		s.strikeLocked("")
	}
	return s.unlockAndNotify()
}

// ModuleAction validates a against module id and applies the outcome. The
// action's TimerSeconds is replaced with the session's countdown value.
//
// While the session is not active the action is ignored and a zero Result is
// returned. Actions on a solved module are invalid.
func (s *Session) ModuleAction(id string, a modules.Action) (modules.Result, error) {
	s.mu.Lock()
	if s.state.Status != StatusActive {
		s.mu.Unlock()
		return modules.Result{}, nil
	}

	idx := -1
	for i, in := range s.state.Modules {
		if in.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return modules.Result{}, fmt.Errorf("%w: %q", ErrModuleNotFound, id)
	}

	in := &s.state.Modules[idx]
	if in.Solved {
		res := modules.Result{State: modules.Clone(in.Data)}
		s.mu.Unlock()
		return res, nil
	}

	timer := s.state.TimerSeconds
	a.TimerSeconds = &timer
	res := s.rules.Validate(in.Data, a, s.state.Globals)
	if res.State != nil {
		in.Data = res.State
	}
	if res.Solved {
		in.Solved = true
	}
	s.log.Debug().
		Str("seed", s.state.Seed).
		Str("module", id).
		Str("action", string(a.Type)).
		Bool("valid", res.Valid).
		Bool("strike", res.Strike).
		Bool("solved", res.Solved).
		Msg("module action")

	if res.Strike {
		s.strikeLocked(id)
	}
	if s.state.Status == StatusActive && s.allSolvedLocked() {
		s.finishLocked(StatusWon, "all modules solved")
	}

	res.State = modules.Clone(in.Data)
	s.unlockAndNotify()
	return res, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

func (s *Session) strikeLocked(module string) {
	s.state.Strikes++
	if s.state.Difficulty != Novice {
		s.state.TimerSeconds = max(0, s.state.TimerSeconds-StrikePenaltySeconds)
	}
	s.log.Info().
		Str("seed", s.state.Seed).
		Str("module", module).
		Int("strikes", s.state.Strikes).
		Int("timer", s.state.TimerSeconds).
		Msg("strike")

	switch {
	case s.state.Strikes >= s.state.MaxStrikes:
		s.finishLocked(StatusExploded, "strike limit")
	case s.state.TimerSeconds == 0:
		s.finishLocked(StatusExploded, "penalty exhausted timer")
	}
}

func (s *Session) allSolvedLocked() bool {
	for _, in := range s.state.Modules {
		if !in.Solved {
			return false
		}
	}
	return len(s.state.Modules) > 0
}

func (s *Session) finishLocked(to Status, reason string) {
	now := s.clock.Now()
	s.state.Status = to
	s.state.EndTime = &now
	s.log.Info().
		Str("seed", s.state.Seed).
		Str("status", string(to)).
		Int("strikes", s.state.Strikes).
		Int("timer", s.state.TimerSeconds).
		Str("reason", reason).
		Msg("mission finished")
	if s.onFinish != nil {
		snap := s.state.clone()
		s.pending = &snap
	}
}

// unlockAndNotify releases the lock, then runs the finish hook if a terminal
// transition happened while it was held. It returns the status at unlock.
func (s *Session) unlockAndNotify() Status {
	st := s.state.Status
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p != nil {
		s.onFinish(*p)
	}
	return st
}
