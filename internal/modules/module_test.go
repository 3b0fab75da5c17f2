package modules

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

func globalsFor(seed string) device.Globals {
	return device.Generate(rng.New(seed))
}

func TestGenerate_DeterministicPerKind(t *testing.T) {
	g := globalsFor("ABC123")
	for _, k := range Kinds {
		t.Run(string(k), func(t *testing.T) {
			a, err := Generate(k, "ABC123", g)
			require.NoError(t, err)
			b, err := Generate(k, "ABC123", g)
			require.NoError(t, err)
			assert.Equal(t, a, b)
			assert.Equal(t, k, a.Kind())
		})
	}
}

func TestGenerate_UnknownKind(t *testing.T) {
	_, err := Generate(Kind("fuse"), "ABC123", device.Globals{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.False(t, Kind("fuse").Valid())
	assert.True(t, KindSimon.Valid())
}

func TestSubSeed(t *testing.T) {
	assert.Equal(t, "ABC123_wires", SubSeed("ABC123", KindWires))
}

func TestClone_IsDeep(t *testing.T) {
	g := globalsFor("clone")
	for _, k := range Kinds {
		d, err := Generate(k, "clone", g)
		require.NoError(t, err)
		c := Clone(d)
		assert.Equal(t, d, c, k)
		assert.NotSame(t, d, c, k)
	}
	assert.Nil(t, Clone(nil))

	w := &WiresData{Wires: []Wire{{Color: "red"}}}
	c := Clone(w).(*WiresData)
	c.Wires[0].Cut = true
	assert.False(t, w.Wires[0].Cut)
}

// Validators must never touch the state they are handed.
func TestValidate_DoesNotMutateInput(t *testing.T) {
	actions := []Action{
		{Type: ActionCut, Wire: 0},
		{Type: ActionPress},
		{Type: ActionHold},
		{Type: ActionMove, Direction: Right},
		{Type: ActionSet, Column: 0, Letter: "A"},
		{Type: ActionDecide, Wire: 0, Cut: true},
		{Type: ActionTick},
		{Type: ActionVent},
		{Type: ActionPress, Position: 1},
		{Type: ActionPress, Color: 2},
	}
	for i := 0; i < 20; i++ {
		seed := fmt.Sprintf("mut-%d", i)
		g := globalsFor(seed)
		for _, k := range Kinds {
			d, err := Generate(k, seed, g)
			require.NoError(t, err)
			before := Clone(d)
			for _, a := range actions {
				Validate(d, a, g)
			}
			require.Equal(t, before, d, "%s/%s", seed, k)
		}
	}
}

func TestValidate_WrongActionTypeIsInvalid(t *testing.T) {
	g := globalsFor("ABC123")
	for _, k := range Kinds {
		d, err := Generate(k, "ABC123", g)
		require.NoError(t, err)
		res := Validate(d, Action{Type: "explode"}, g)
		assert.False(t, res.Valid, k)
		assert.False(t, res.Strike, k)
		assert.False(t, res.Solved, k)
		assert.Same(t, d, res.State, k)
	}
}

func TestParseOverchargePolicy(t *testing.T) {
	p, err := ParseOverchargePolicy("above-ceiling")
	require.NoError(t, err)
	assert.Equal(t, StrikeAboveCeiling, p)

	p, err = ParseOverchargePolicy("at-ceiling")
	require.NoError(t, err)
	assert.Equal(t, StrikeAtCeiling, p)

	_, err = ParseOverchargePolicy("never")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestActionType_Valid(t *testing.T) {
	for _, a := range ActionTypes {
		assert.True(t, a.Valid(), a)
	}
	assert.False(t, ActionType("juggle").Valid())
	assert.False(t, ActionType("").Valid())
}
