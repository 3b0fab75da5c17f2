package modules

import (
	"github.com/robalobadob/defuse/internal/rng"
)

// SeqWire is one wire on the sequence panel. To is the destination
// (1 = A, 2 = B, 3 = C). Decided is set once the player has chosen to cut or
// leave it; Cut records that choice.
type SeqWire struct {
	From    string `json:"from"`
	To      int    `json:"to"`
	Decided bool   `json:"decided"`
	Cut     bool   `json:"cut"`
}

// SequenceWiresData is the sequence-wires module.
type SequenceWiresData struct {
	Stage     int       `json:"stage"`
	MaxStages int       `json:"maxStages"`
	Wires     []SeqWire `json:"wires"`
	RedCut    int       `json:"redCut"`
	BlueCut   int       `json:"blueCut"`
	BlackCut  int       `json:"blackCut"`
}

func (*SequenceWiresData) Kind() Kind { return KindSequenceWires }

func (d *SequenceWiresData) clone() Data {
	c := *d
	c.Wires = append([]SeqWire(nil), d.Wires...)
	return &c
}

const (
	seqStages        = 4
	seqWiresPerStage = 3
)

type cutRule int

const (
	cutA cutRule = iota
	cutB
	cutC
	cutAOrC
	cutBOrC
	cutAOrB
	cutNever
)

func (r cutRule) allows(to int) bool {
	switch r {
	case cutA:
		return to == 1
	case cutB:
		return to == 2
	case cutC:
		return to == 3
	case cutAOrC:
		return to == 1 || to == 3
	case cutBOrC:
		return to == 2 || to == 3
	case cutAOrB:
		return to == 1 || to == 2
	}
	return false
}

var seqColors = []string{"red", "blue", "black"}

// seqCutRules is indexed by color then by occurrence (1st..9th, 0-based).
var seqCutRules = map[string][9]cutRule{
	"red":   {cutC, cutB, cutA, cutAOrC, cutB, cutAOrC, cutNever, cutB, cutC},
	"blue":  {cutB, cutAOrC, cutB, cutA, cutB, cutBOrC, cutC, cutAOrC, cutA},
	"black": {cutNever, cutAOrC, cutB, cutAOrC, cutB, cutBOrC, cutAOrB, cutC, cutC},
}

func generateSequenceWires(r *rng.Rand) *SequenceWiresData {
	wires := make([]SeqWire, 0, seqStages*seqWiresPerStage)
	for range seqStages * seqWiresPerStage {
		color := rng.Choice(r, seqColors)
		wires = append(wires, SeqWire{From: color, To: r.NextInt(1, 3)})
	}
	return &SequenceWiresData{MaxStages: seqStages, Wires: wires}
}

// shouldCut reports the correct decision for wire i.
func (d *SequenceWiresData) shouldCut(i int) bool {
	w := d.Wires[i]
	n := 0
	for _, x := range d.Wires[:i+1] {
		if x.From == w.From {
			n++
		}
	}
	return seqCutRules[w.From][n-1].allows(w.To)
}

// nextWire is the index of the first undecided wire, or len(Wires).
func (d *SequenceWiresData) nextWire() int {
	for i, w := range d.Wires {
		if !w.Decided {
			return i
		}
	}
	return len(d.Wires)
}

func validateSequenceWires(s *SequenceWiresData, a Action) Result {
	if a.Type != ActionDecide || a.Wire != s.nextWire() || a.Wire >= len(s.Wires) {
		return invalid(s)
	}
	next := s.clone().(*SequenceWiresData)
	w := &next.Wires[a.Wire]
	w.Decided, w.Cut = true, a.Cut
	if a.Cut {
		switch w.From {
		case "red":
			next.RedCut++
		case "blue":
			next.BlueCut++
		case "black":
			next.BlackCut++
		}
	}
	next.Stage = (a.Wire + 1) / seqWiresPerStage
	ok := a.Cut == s.shouldCut(a.Wire)
	return Result{Valid: true, Strike: !ok, Solved: next.Stage >= next.MaxStages, State: next}
}
