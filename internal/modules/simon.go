package modules

import (
	"slices"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// Simon colors.
const (
	SimonRed = iota
	SimonYellow
	SimonGreen
	SimonBlue
)

// SimonData is the color-sequence module. Stage n requires the first n+1
// sequence entries; a pressed color is remapped through ColorMapping before
// comparison.
type SimonData struct {
	Sequence     []int `json:"sequence"`
	PlayerInput  []int `json:"playerInput"`
	Stage        int   `json:"stage"`
	MaxStages    int   `json:"maxStages"`
	ColorMapping []int `json:"colorMapping"`
	HasVowel     bool  `json:"hasVowel"`
	Strikes      int   `json:"strikes"`
}

func (*SimonData) Kind() Kind { return KindSimon }

func (d *SimonData) clone() Data {
	c := *d
	c.Sequence = slices.Clone(d.Sequence)
	c.PlayerInput = slices.Clone(d.PlayerInput)
	c.ColorMapping = slices.Clone(d.ColorMapping)
	return &c
}

const simonStages = 5

// simonMapping returns the remapping for (vowel, struck). The returned slice
// is fresh.
func simonMapping(vowel, struck bool) []int {
	switch {
	case vowel && !struck:
		return []int{0, 1, 3, 2}
	case vowel && struck:
		return []int{1, 3, 2, 0}
	case !vowel && !struck:
		return []int{1, 0, 2, 3}
	}
	return []int{3, 2, 0, 1}
}

func generateSimon(r *rng.Rand, g device.Globals) *SimonData {
	seq := make([]int, simonStages)
	for i := range seq {
		seq[i] = r.NextInt(SimonRed, SimonBlue)
	}
	return &SimonData{
		Sequence:     seq,
		PlayerInput:  []int{},
		MaxStages:    simonStages,
		ColorMapping: simonMapping(g.HasVowel, false),
		HasVowel:     g.HasVowel,
	}
}

func validateSimon(s *SimonData, a Action) Result {
	if a.Type != ActionPress || a.Color < SimonRed || a.Color > SimonBlue || s.Stage >= s.MaxStages {
		return invalid(s)
	}
	next := s.clone().(*SimonData)
	mapped := s.ColorMapping[a.Color]
	if mapped != s.Sequence[len(s.PlayerInput)] {
		next.PlayerInput = []int{}
		next.Strikes++
		next.ColorMapping = simonMapping(s.HasVowel, true)
		return Result{Valid: true, Strike: true, State: next}
	}

	next.PlayerInput = append(next.PlayerInput, mapped)
	if len(next.PlayerInput) < s.Stage+1 {
		return Result{Valid: true, State: next}
	}
	next.Stage++
	solved := next.Stage >= next.MaxStages
	if !solved {
		next.PlayerInput = []int{}
	}
	return Result{Valid: true, Solved: solved, State: next}
}
