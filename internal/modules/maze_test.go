package modules

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/defuse/internal/device"
)

func mazeFixture() *MazeData {
	return &MazeData{Family: "A", PlayerX: 1, PlayerY: 1, TargetX: 4, TargetY: 1, Walls: layoutWalls("A", 0)}
}

func layoutWalls(family string, variant int) [][]bool {
	layout := mazeLayouts[family][variant]
	walls := make([][]bool, mazeSize)
	for y := range walls {
		walls[y] = make([]bool, mazeSize)
		for x := range walls[y] {
			walls[y][x] = layout[y][x] == 1
		}
	}
	return walls
}

func TestMazeMovesToTarget_Unreachable(t *testing.T) {
	d := &MazeData{Family: "B", MazeID: 0, PlayerX: 1, PlayerY: 1, TargetX: 4, TargetY: 4, Walls: layoutWalls("B", 0)}
	_, err := d.MovesToTarget()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestMazeMovesToTarget(t *testing.T) {
	n, err := mazeFixture().MovesToTarget()
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestGenerateMaze_StartAndTarget(t *testing.T) {
	for i := 0; i < 100; i++ {
		seed := fmt.Sprintf("maze-%d", i)
		g := device.Globals{HasVowel: i%2 == 0}
		d, err := Generate(KindMaze, seed, g)
		require.NoError(t, err)
		m := d.(*MazeData)

		wantFamily := "B"
		if g.HasVowel {
			wantFamily = "A"
		}
		assert.Equal(t, wantFamily, m.Family)
		require.False(t, m.Walls[m.PlayerY][m.PlayerX], seed)
		require.False(t, m.Walls[m.TargetY][m.TargetX], seed)
		assert.GreaterOrEqual(t, manhattan(Cell{m.PlayerX, m.PlayerY}, Cell{m.TargetX, m.TargetY}), minMazeDistance, seed)
		assert.Len(t, m.CircleMarkers, 2)

		n, err := m.MovesToTarget()
		require.NoError(t, err, seed)
		assert.GreaterOrEqual(t, n, minMazeDistance, seed)
	}
}

func TestValidateMaze(t *testing.T) {
	s := mazeFixture()

	res := validateMaze(s, Action{Type: ActionMove, Direction: Up})
	assert.False(t, res.Valid, "wall")
	assert.True(t, res.Strike)
	assert.Same(t, s, res.State)

	res = validateMaze(s, Action{Type: ActionMove, Direction: Right})
	require.True(t, res.Valid)
	assert.False(t, res.Strike)
	moved := res.State.(*MazeData)
	assert.Equal(t, 2, moved.PlayerX)
	assert.Equal(t, 1, s.PlayerX)

	res = validateMaze(moved, Action{Type: ActionMove, Direction: Right})
	assert.False(t, res.Valid)
	assert.True(t, res.Strike)

	res = validateMaze(s, Action{Type: ActionMove, Direction: "sideways"})
	assert.False(t, res.Valid)
	assert.False(t, res.Strike)
}

func TestValidateMaze_OutOfBounds(t *testing.T) {
	s := &MazeData{PlayerX: 0, PlayerY: 0, TargetX: 1, TargetY: 0, Walls: [][]bool{
		{false, false}, {false, false},
	}}
	res := validateMaze(s, Action{Type: ActionMove, Direction: Left})
	assert.False(t, res.Valid)
	assert.True(t, res.Strike)
}

func TestValidateMaze_ReachTarget(t *testing.T) {
	s := mazeFixture()
	path := []Direction{Down, Down, Down, Right, Right, Right, Up, Up, Up}
	var state Data = s
	var res Result
	for _, d := range path {
		res = validateMaze(state.(*MazeData), Action{Type: ActionMove, Direction: d})
		require.True(t, res.Valid, d)
		state = res.State
	}
	assert.True(t, res.Solved)
}
