package modules

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// Cell is a maze coordinate; (0,0) is the top-left corner.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MazeData is the maze module. Walls[y][x] is true for blocked cells.
type MazeData struct {
	Family        string   `json:"family"`
	MazeID        int      `json:"mazeId"`
	PlayerX       int      `json:"playerX"`
	PlayerY       int      `json:"playerY"`
	TargetX       int      `json:"targetX"`
	TargetY       int      `json:"targetY"`
	Walls         [][]bool `json:"walls"`
	CircleMarkers []Cell   `json:"circleMarkers"`
}

func (*MazeData) Kind() Kind { return KindMaze }

func (d *MazeData) clone() Data {
	c := *d
	c.Walls = make([][]bool, len(d.Walls))
	for i, row := range d.Walls {
		c.Walls[i] = append([]bool(nil), row...)
	}
	c.CircleMarkers = append([]Cell(nil), d.CircleMarkers...)
	return &c
}

const (
	mazeSize        = 6
	minMazeDistance = 3
	maxTargetDraws  = 100
)

// mazeLayouts holds two families of two 6×6 layouts (1 = wall). Family A is
// used when the serial contains a vowel.
var mazeLayouts = map[string][2][mazeSize][mazeSize]int{
	"A": {
		{
			{1, 1, 1, 1, 1, 1},
			{1, 0, 0, 1, 0, 1},
			{1, 0, 1, 0, 0, 1},
			{1, 0, 1, 1, 0, 1},
			{1, 0, 0, 0, 0, 1},
			{1, 1, 1, 1, 1, 1},
		},
		{
			{1, 1, 1, 1, 1, 1},
			{1, 0, 1, 0, 0, 1},
			{1, 0, 0, 0, 1, 1},
			{1, 1, 0, 1, 0, 1},
			{1, 0, 0, 0, 0, 1},
			{1, 1, 1, 1, 1, 1},
		},
	},
	"B": {
		{
			{1, 1, 1, 1, 1, 1},
			{1, 0, 0, 0, 1, 1},
			{1, 1, 0, 1, 0, 1},
			{1, 0, 0, 1, 0, 1},
			{1, 0, 1, 0, 0, 1},
			{1, 1, 1, 1, 1, 1},
		},
		{
			{1, 1, 1, 1, 1, 1},
			{1, 0, 1, 0, 0, 1},
			{1, 0, 0, 1, 0, 1},
			{1, 1, 0, 0, 0, 1},
			{1, 0, 0, 1, 0, 1},
			{1, 1, 1, 1, 1, 1},
		},
	},
}

func manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func generateMaze(r *rng.Rand, g device.Globals) *MazeData {
	family := "B"
	if g.HasVowel {
		family = "A"
	}
	variant := r.NextInt(0, 1)
	layout := mazeLayouts[family][variant]

	walls := make([][]bool, mazeSize)
	for y := range walls {
		walls[y] = make([]bool, mazeSize)
		for x := range walls[y] {
			walls[y][x] = layout[y][x] == 1
		}
	}

	var open []Cell
	for y := 1; y < mazeSize-1; y++ {
		for x := 1; x < mazeSize-1; x++ {
			if layout[y][x] == 0 {
				open = append(open, Cell{X: x, Y: y})
			}
		}
	}

	start := rng.Choice(r, open)
	// Layout B/0 has two separate regions; only cells reachable from the
	// start are eligible targets.
	depth := mazeDepths(walls, start)
	reachable := make([]Cell, 0, len(open))
	for _, c := range open {
		if _, ok := depth[cellID(c.X, c.Y)]; ok {
			reachable = append(reachable, c)
		}
	}

	target, found := start, false
	for i := 0; i < maxTargetDraws; i++ {
		if c := rng.Choice(r, reachable); manhattan(start, c) >= minMazeDistance {
			target, found = c, true
			break
		}
	}
	if !found {
		for _, c := range reachable {
			if manhattan(start, c) > manhattan(start, target) {
				target = c
			}
		}
	}

	markers := make([]Cell, 2)
	for i := range markers {
		markers[i] = Cell{X: r.NextInt(1, 4), Y: r.NextInt(1, 4)}
	}

	return &MazeData{
		Family:        family,
		MazeID:        variant,
		PlayerX:       start.X,
		PlayerY:       start.Y,
		TargetX:       target.X,
		TargetY:       target.Y,
		Walls:         walls,
		CircleMarkers: markers,
	}
}

func validateMaze(s *MazeData, a Action) Result {
	if a.Type != ActionMove {
		return invalid(s)
	}
	x, y := s.PlayerX, s.PlayerY
	switch a.Direction {
	case Up:
		y--
	case Down:
		y++
	case Left:
		x--
	case Right:
		x++
	default:
		return invalid(s)
	}

	// Bumping into the edge or a wall is a mistake; the player stays put.
	if x < 0 || x >= mazeSize || y < 0 || y >= mazeSize || s.Walls[y][x] {
		return Result{Valid: false, Strike: true, State: s}
	}

	next := s.clone().(*MazeData)
	next.PlayerX, next.PlayerY = x, y
	return Result{Valid: true, Solved: x == s.TargetX && y == s.TargetY, State: next}
}

// ErrUnreachable is returned when no path joins two maze cells.
var ErrUnreachable = errors.New("maze target unreachable")

func cellID(x, y int) string { return fmt.Sprintf("%d_%d", x, y) }

// mazeGraph builds an undirected graph whose vertices are open cells and
// whose edges join orthogonally adjacent open cells.
func mazeGraph(walls [][]bool) (*core.Graph, error) {
	g := core.NewGraph()
	for y := range walls {
		for x := range walls[y] {
			if walls[y][x] {
				continue
			}
			if err := g.AddVertex(cellID(x, y)); err != nil {
				return nil, err
			}
			if x+1 < len(walls[y]) && !walls[y][x+1] {
				if _, err := g.AddEdge(cellID(x, y), cellID(x+1, y), 0); err != nil {
					return nil, err
				}
			}
			if y+1 < len(walls) && !walls[y+1][x] {
				if _, err := g.AddEdge(cellID(x, y), cellID(x, y+1), 0); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// mazeDepths returns the BFS depth of every open cell reachable from start,
// keyed by cellID. The graph only fails on empty vertex ids, which cellID
// never produces, so errors collapse to "only start is reachable".
func mazeDepths(walls [][]bool, start Cell) map[string]int {
	only := map[string]int{cellID(start.X, start.Y): 0}
	g, err := mazeGraph(walls)
	if err != nil {
		return only
	}
	res, err := bfs.BFS(g, cellID(start.X, start.Y))
	if err != nil {
		return only
	}
	return res.Depth
}

// MovesToTarget returns the fewest moves from the player's position to the
// target, or an error when the target is unreachable.
func (d *MazeData) MovesToTarget() (int, error) {
	g, err := mazeGraph(d.Walls)
	if err != nil {
		return 0, err
	}
	res, err := bfs.BFS(g, cellID(d.PlayerX, d.PlayerY))
	if err != nil {
		return 0, fmt.Errorf("maze bfs: %w", err)
	}
	depth, ok := res.Depth[cellID(d.TargetX, d.TargetY)]
	if !ok {
		return 0, fmt.Errorf("%w: maze %s/%d target (%d,%d)", ErrUnreachable, d.Family, d.MazeID, d.TargetX, d.TargetY)
	}
	return depth, nil
}
