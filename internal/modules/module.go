// internal/modules/module.go
//
// Module contract shared by every puzzle type.
// Defines:
//   - Kind: the closed set of eleven module types.
//   - Data: sealed interface implemented only by the per-kind payloads below.
//   - Action / Result: what a player sends and what validation returns.
//   - Generate / Validate: the single dispatch from kind to behaviour.
//
// Notes:
//   - Validators never mutate the state they are given; they return a new
//     state in Result.State (the input state when nothing changed).
//   - Validators only see their own state, the action and the globals. Rules
//     that depend on the countdown read Action.TimerSeconds, which the
//     session fills in.
package modules

import (
	"errors"
	"fmt"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// Kind identifies a module type.
type Kind string

const (
	KindWires         Kind = "wires"
	KindButton        Kind = "button"
	KindSymbols       Kind = "symbols"
	KindMaze          Kind = "maze"
	KindMorse         Kind = "morse"
	KindPassword      Kind = "password"
	KindSequenceWires Kind = "sequenceWires"
	KindCapacitor     Kind = "capacitor"
	KindMemory        Kind = "memory"
	KindSimon         Kind = "simon"
	KindWordPanel     Kind = "wordPanel"
)

// Kinds lists every module type in canonical order.
var Kinds = []Kind{
	KindWires, KindButton, KindSymbols, KindMaze, KindMorse, KindPassword,
	KindSequenceWires, KindCapacitor, KindMemory, KindSimon, KindWordPanel,
}

// ErrUnknownKind is returned for a kind outside Kinds.
var ErrUnknownKind = errors.New("unknown module kind")

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, x := range Kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Data is the generated state of one module: the visible puzzle, its hidden
// solution and the player's progress. The unexported methods seal the set of
// implementations to this package.
type Data interface {
	Kind() Kind
	clone() Data
}

// Clone returns a deep copy of d.
func Clone(d Data) Data {
	if d == nil {
		return nil
	}
	return d.clone()
}

// ActionType names a player interaction.
type ActionType string

const (
	ActionCut      ActionType = "cut"      // wires
	ActionPress    ActionType = "press"    // button, symbols, memory, simon, wordPanel
	ActionHold     ActionType = "hold"     // button
	ActionRelease  ActionType = "release"  // button
	ActionMove     ActionType = "move"     // maze
	ActionTransmit ActionType = "transmit" // morse
	ActionSet      ActionType = "set"      // password
	ActionSubmit   ActionType = "submit"   // password
	ActionDecide   ActionType = "decide"   // sequenceWires
	ActionTick     ActionType = "tick"     // capacitor
	ActionVent     ActionType = "vent"     // capacitor
)

// ActionTypes lists every action type.
var ActionTypes = []ActionType{
	ActionCut, ActionPress, ActionHold, ActionRelease, ActionMove, ActionTransmit,
	ActionSet, ActionSubmit, ActionDecide, ActionTick, ActionVent,
}

// Valid reports whether t is one of ActionTypes.
func (t ActionType) Valid() bool {
	for _, x := range ActionTypes {
		if x == t {
			return true
		}
	}
	return false
}

// Direction is a maze move.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Action is one player input. Each module reads only the fields it needs.
type Action struct {
	Type      ActionType `json:"type"`
	Wire      int        `json:"wire"`
	Cut       bool       `json:"cut"`
	Symbol    int        `json:"symbol"`
	Direction Direction  `json:"direction,omitempty"`
	Frequency string     `json:"frequency,omitempty"`
	Column    int        `json:"column"`
	Letter    string     `json:"letter,omitempty"`
	Position  int        `json:"position"`
	Color     int        `json:"color"`

	// TimerSeconds is the countdown value at the moment of the action.
	// Set by the session; client-supplied values are overwritten.
	TimerSeconds *int `json:"timerSeconds,omitempty"`
}

// Result is the outcome of validating one action.
//
//   - Valid:  the action was well formed and applicable.
//   - Strike: the action was a mistake.
//   - Solved: the module is now fully solved.
//   - State:  the next module state.
type Result struct {
	Valid  bool `json:"valid"`
	Strike bool `json:"strike"`
	Solved bool `json:"solved"`
	State  Data `json:"-"`
}

// invalid is the no-op result: nothing happened, nothing changed.
func invalid(state Data) Result { return Result{State: state} }

// OverchargePolicy decides what happens when a capacitor tick lands exactly
// on the ceiling.
type OverchargePolicy int

const (
	// StrikeAtCeiling strikes as soon as charge reaches the ceiling.
	StrikeAtCeiling OverchargePolicy = iota
	// StrikeAboveCeiling caps charge at the ceiling and strikes only when a
	// tick would push it beyond.
	StrikeAboveCeiling
)

// ErrUnknownPolicy is returned by ParseOverchargePolicy.
var ErrUnknownPolicy = errors.New("unknown overcharge policy")

// ParseOverchargePolicy accepts "at-ceiling" or "above-ceiling".
func ParseOverchargePolicy(s string) (OverchargePolicy, error) {
	switch s {
	case "at-ceiling":
		return StrikeAtCeiling, nil
	case "above-ceiling":
		return StrikeAboveCeiling, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Rules carries the configurable rule policies.
type Rules struct {
	Overcharge OverchargePolicy
}

// DefaultRules matches the classic rule set.
var DefaultRules = Rules{Overcharge: StrikeAtCeiling}

// SubSeed derives a module's private seed from the mission seed so that
// adding or removing one module type never shifts another's draws.
func SubSeed(seed string, k Kind) string {
	return seed + "_" + string(k)
}

// Generate builds the module of kind k from its own sub-seed.
func Generate(k Kind, seed string, g device.Globals) (Data, error) {
	r := rng.New(SubSeed(seed, k))
	switch k {
	case KindWires:
		return generateWires(r, g), nil
	case KindButton:
		return generateButton(r, g), nil
	case KindSymbols:
		return generateSymbols(r), nil
	case KindMaze:
		return generateMaze(r, g), nil
	case KindMorse:
		return generateMorse(r, g), nil
	case KindPassword:
		return generatePassword(r), nil
	case KindSequenceWires:
		return generateSequenceWires(r), nil
	case KindCapacitor:
		return generateCapacitor(r, g), nil
	case KindMemory:
		return generateMemory(r), nil
	case KindSimon:
		return generateSimon(r, g), nil
	case KindWordPanel:
		return generateWordPanel(r, g), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
}

// Validate applies a with the default rules.
func Validate(state Data, a Action, g device.Globals) Result {
	return DefaultRules.Validate(state, a, g)
}

// Validate dispatches a to the validator of state's kind.
func (rules Rules) Validate(state Data, a Action, g device.Globals) Result {
	switch s := state.(type) {
	case *WiresData:
		return validateWires(s, a)
	case *ButtonData:
		return validateButton(s, a)
	case *SymbolsData:
		return validateSymbols(s, a)
	case *MazeData:
		return validateMaze(s, a)
	case *MorseData:
		return validateMorse(s, a)
	case *PasswordData:
		return validatePassword(s, a)
	case *SequenceWiresData:
		return validateSequenceWires(s, a)
	case *CapacitorData:
		return validateCapacitor(s, a, rules.Overcharge)
	case *MemoryData:
		return validateMemory(s, a)
	case *SimonData:
		return validateSimon(s, a)
	case *WordPanelData:
		return validateWordPanel(s, a)
	}
	return invalid(state)
}
