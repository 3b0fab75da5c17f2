package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectWire(t *testing.T) {
	tests := []struct {
		name   string
		colors []string
		odd    bool
		want   int
	}{
		{"3 last white", []string{"blue", "blue", "white"}, false, 2},
		{"3 no red", []string{"blue", "yellow", "green"}, false, 1},
		{"3 two blue", []string{"red", "blue", "blue"}, false, 2},
		{"3 two blue not last", []string{"blue", "blue", "red"}, false, 1},
		{"3 default", []string{"red", "yellow", "black"}, false, 2},
		{"4 reds odd", []string{"red", "blue", "red", "green"}, true, 2},
		{"4 reds even", []string{"red", "blue", "red", "green"}, false, 0},
		{"4 last yellow no red", []string{"blue", "white", "green", "yellow"}, false, 0},
		{"4 two yellow", []string{"yellow", "white", "yellow", "black"}, false, 3},
		{"4 default", []string{"black", "white", "green", "black"}, false, 1},
		{"5 last black odd", []string{"red", "red", "red", "red", "black"}, true, 3},
		{"5 one red two yellow", []string{"red", "yellow", "yellow", "blue", "white"}, false, 0},
		{"5 no black", []string{"red", "red", "blue", "blue", "white"}, false, 1},
		{"5 default", []string{"black", "red", "red", "blue", "white"}, false, 0},
		{"6 no yellow odd", []string{"red", "red", "blue", "blue", "white", "white"}, true, 2},
		{"6 one yellow two white", []string{"yellow", "white", "white", "blue", "red", "red"}, false, 3},
		{"6 no red", []string{"yellow", "blue", "blue", "blue", "green", "green"}, false, 5},
		{"6 default", []string{"yellow", "yellow", "red", "blue", "green", "green"}, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, correctWire(tt.colors, tt.odd))
		})
	}
}

func threeWires() *WiresData {
	return &WiresData{
		Wires:       []Wire{{Color: "blue"}, {Color: "blue"}, {Color: "white"}},
		CorrectWire: 2,
	}
}

func TestValidateWires_CorrectCutSolves(t *testing.T) {
	res := validateWires(threeWires(), Action{Type: ActionCut, Wire: 2})
	assert.True(t, res.Valid)
	assert.False(t, res.Strike)
	assert.True(t, res.Solved)
	assert.True(t, res.State.(*WiresData).Wires[2].Cut)
}

func TestValidateWires_WrongCutStrikes(t *testing.T) {
	res := validateWires(threeWires(), Action{Type: ActionCut, Wire: 0})
	assert.True(t, res.Valid)
	assert.True(t, res.Strike)
	assert.False(t, res.Solved)
	state := res.State.(*WiresData)
	assert.True(t, state.Wires[0].Cut)

	again := validateWires(state, Action{Type: ActionCut, Wire: 0})
	assert.False(t, again.Valid, "re-cutting is invalid")
	assert.False(t, again.Strike)
}

func TestValidateWires_OutOfRange(t *testing.T) {
	for _, i := range []int{-1, 3, 10} {
		res := validateWires(threeWires(), Action{Type: ActionCut, Wire: i})
		require.False(t, res.Valid, i)
		require.False(t, res.Strike, i)
	}
}
