package modules

import (
	"slices"

	"github.com/robalobadob/defuse/internal/rng"
)

// MemoryPress records a correct press: the position and the label on it.
type MemoryPress struct {
	Position int `json:"position"`
	Label    int `json:"label"`
}

// MemoryData is the memory module. Buttons[stage][position] is the label
// shown on that position.
type MemoryData struct {
	Stage          int           `json:"stage"`
	Displays       []int         `json:"displays"`
	Buttons        [][]int       `json:"buttons"`
	History        []MemoryPress `json:"history"`
	CurrentDisplay int           `json:"currentDisplay"`
	CurrentButtons []int         `json:"currentButtons"`
}

func (*MemoryData) Kind() Kind { return KindMemory }

func (d *MemoryData) clone() Data {
	c := *d
	c.Displays = slices.Clone(d.Displays)
	c.Buttons = make([][]int, len(d.Buttons))
	for i, b := range d.Buttons {
		c.Buttons[i] = slices.Clone(b)
	}
	c.History = slices.Clone(d.History)
	c.CurrentButtons = slices.Clone(d.CurrentButtons)
	return &c
}

const (
	memoryStages  = 5
	memoryButtons = 4
)

func generateMemory(r *rng.Rand) *MemoryData {
	displays := make([]int, memoryStages)
	buttons := make([][]int, memoryStages)
	for i := range memoryStages {
		displays[i] = r.NextInt(1, 4)
		buttons[i] = rng.Shuffle(r, []int{1, 2, 3, 4})
	}
	return &MemoryData{
		Displays:       displays,
		Buttons:        buttons,
		History:        []MemoryPress{},
		CurrentDisplay: displays[0],
		CurrentButtons: slices.Clone(buttons[0]),
	}
}

// correctPosition applies the stage/display rule table. Rules may refer to
// the position or label pressed in earlier stages.
func (d *MemoryData) correctPosition() int {
	buttons := d.Buttons[d.Stage]
	labelAt := func(label int) int { return slices.Index(buttons, label) }
	h := d.History

	switch d.Stage {
	case 0:
		return [...]int{1, 1, 2, 3}[d.Displays[0]-1]
	case 1:
		switch d.Displays[1] {
		case 1:
			return labelAt(4)
		case 3:
			return 0
		default:
			return h[0].Position
		}
	case 2:
		switch d.Displays[2] {
		case 1:
			return labelAt(h[1].Label)
		case 2:
			return labelAt(h[0].Label)
		case 3:
			return 2
		default:
			return labelAt(4)
		}
	case 3:
		switch d.Displays[3] {
		case 1:
			return h[0].Position
		case 2:
			return 0
		default:
			return h[1].Position
		}
	case 4:
		return labelAt(h[[...]int{0, 1, 3, 2}[d.Displays[4]-1]].Label)
	}
	return -1
}

func validateMemory(s *MemoryData, a Action) Result {
	if a.Type != ActionPress || a.Position < 0 || a.Position >= memoryButtons || s.Stage >= memoryStages {
		return invalid(s)
	}
	next := s.clone().(*MemoryData)
	if a.Position != s.correctPosition() {
		next.Stage = 0
		next.History = []MemoryPress{}
		next.CurrentDisplay = s.Displays[0]
		next.CurrentButtons = slices.Clone(s.Buttons[0])
		return Result{Valid: true, Strike: true, State: next}
	}

	next.History = append(next.History, MemoryPress{Position: a.Position, Label: s.Buttons[s.Stage][a.Position]})
	next.Stage++
	solved := next.Stage >= memoryStages
	if solved {
		next.CurrentDisplay = 0
		next.CurrentButtons = []int{}
	} else {
		next.CurrentDisplay = s.Displays[next.Stage]
		next.CurrentButtons = slices.Clone(s.Buttons[next.Stage])
	}
	return Result{Valid: true, Solved: solved, State: next}
}
