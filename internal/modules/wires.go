package modules

import (
	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// Wire is one cuttable wire.
type Wire struct {
	Color string `json:"color"`
	Cut   bool   `json:"cut"`
}

// WiresData is the simple-wires module.
type WiresData struct {
	Wires       []Wire `json:"wires"`
	CorrectWire int    `json:"correctWire"`
}

func (*WiresData) Kind() Kind { return KindWires }

func (d *WiresData) clone() Data {
	c := *d
	c.Wires = append([]Wire(nil), d.Wires...)
	return &c
}

var wireColors = []string{"red", "blue", "yellow", "white", "black", "green"}

func generateWires(r *rng.Rand, g device.Globals) *WiresData {
	n := r.NextInt(3, 6)
	wires := make([]Wire, n)
	for i := range wires {
		wires[i] = Wire{Color: rng.Choice(r, wireColors)}
	}
	colors := make([]string, n)
	for i, w := range wires {
		colors[i] = w.Color
	}
	return &WiresData{Wires: wires, CorrectWire: correctWire(colors, g.LastDigitOdd)}
}

// correctWire applies the per-count decision table. Returned indices are
// 0-based.
func correctWire(colors []string, lastDigitOdd bool) int {
	n := len(colors)
	last := n - 1
	count := func(c string) int {
		k := 0
		for _, x := range colors {
			if x == c {
				k++
			}
		}
		return k
	}
	lastIndex := func(c string) int {
		for i := last; i >= 0; i-- {
			if colors[i] == c {
				return i
			}
		}
		return -1
	}

	switch n {
	case 3:
		switch {
		case colors[last] == "white":
			return last
		case count("red") == 0:
			return 1
		case count("blue") > 1:
			return lastIndex("blue")
		default:
			return last
		}
	case 4:
		switch {
		case count("red") > 1 && lastDigitOdd:
			return lastIndex("red")
		case colors[last] == "yellow" && count("red") == 0:
			return 0
		case count("blue") == 1:
			return 0
		case count("yellow") > 1:
			return last
		default:
			return 1
		}
	case 5:
		switch {
		case colors[last] == "black" && lastDigitOdd:
			return 3
		case count("red") == 1 && count("yellow") > 1:
			return 0
		case count("black") == 0:
			return 1
		default:
			return 0
		}
	case 6:
		switch {
		case count("yellow") == 0 && lastDigitOdd:
			return 2
		case count("yellow") == 1 && count("white") > 1:
			return 3
		case count("red") == 0:
			return last
		default:
			return 3
		}
	}
	return 0
}

func validateWires(s *WiresData, a Action) Result {
	if a.Type != ActionCut || a.Wire < 0 || a.Wire >= len(s.Wires) || s.Wires[a.Wire].Cut {
		return invalid(s)
	}
	next := s.clone().(*WiresData)
	next.Wires[a.Wire].Cut = true
	ok := a.Wire == s.CorrectWire
	return Result{Valid: true, Strike: !ok, Solved: ok, State: next}
}
