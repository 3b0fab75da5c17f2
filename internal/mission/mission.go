// internal/mission/mission.go
//
// Mission vocabulary shared by generation and the session state machine.
// Defines:
//   - Mode / Difficulty / Status enums and their parsers.
//   - The per-mode table (module count, countdown, strike limit).
//   - Instance: one generated module inside a mission.
//   - Sentinel errors returned to callers.
package mission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/defuse/internal/modules"
)

// Mode selects the mission length.
type Mode string

const (
	ModeQuick Mode = "quick"
	ModeFull  Mode = "full"
)

// Difficulty selects the module pool and whether strikes cost time.
type Difficulty string

const (
	Novice Difficulty = "novice"
	Pro    Difficulty = "pro"
	Expert Difficulty = "expert"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusIntro    Status = "intro"
	StatusActive   Status = "active"
	StatusWon      Status = "won"
	StatusExploded Status = "exploded"
)

// Terminal reports whether no transition leaves s except a reset.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusExploded }

var (
	ErrUnknownMode       = errors.New("unknown mode")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrModuleNotFound    = errors.New("module not found")
)

// ModeSpec is the fixed shape of a mission mode.
type ModeSpec struct {
	Modules      int `json:"modules"`
	TimerSeconds int `json:"timerSeconds"`
	MaxStrikes   int `json:"maxStrikes"`
}

var modeSpecs = map[Mode]ModeSpec{
	ModeQuick: {Modules: 3, TimerSeconds: 5 * 60, MaxStrikes: 2},
	ModeFull:  {Modules: 5, TimerSeconds: 10 * 60, MaxStrikes: 3},
}

// StrikePenaltySeconds is taken off the countdown for every strike above
// novice difficulty.
const StrikePenaltySeconds = 10

// Spec returns the table entry for m.
func (m Mode) Spec() (ModeSpec, error) {
	s, ok := modeSpecs[m]
	if !ok {
		return ModeSpec{}, fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	return s, nil
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, err := m.Spec(); err != nil {
		return "", err
	}
	return m, nil
}

// ParseDifficulty accepts a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := pools[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// Instance is one module of a mission. Solved never reverts to false.
type Instance struct {
	ID     string       `json:"id"`
	Type   modules.Kind `json:"type"`
	Data   modules.Data `json:"data"`
	Solved bool         `json:"solved"`
}

func (in Instance) clone() Instance {
	in.Data = modules.Clone(in.Data)
	return in
}
