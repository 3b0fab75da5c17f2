package mission

import (
	"fmt"
	"slices"

	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/rng"
)

type weighted struct {
	kind   modules.Kind
	weight int
}

// pools lists each difficulty's eligible module types in canonical order.
// Order matters: it fixes the layout of the weighted bag and therefore the
// outcome of every seeded draw.
var pools = map[Difficulty][]weighted{
	Novice: {
		{modules.KindWires, 3},
		{modules.KindButton, 3},
		{modules.KindSymbols, 3},
		{modules.KindMaze, 2},
		{modules.KindPassword, 2},
		{modules.KindWordPanel, 2},
	},
	Pro: {
		{modules.KindWires, 2},
		{modules.KindButton, 2},
		{modules.KindSymbols, 2},
		{modules.KindMaze, 2},
		{modules.KindPassword, 2},
		{modules.KindWordPanel, 1},
		{modules.KindMorse, 2},
		{modules.KindMemory, 2},
		{modules.KindSimon, 2},
		{modules.KindSequenceWires, 1},
	},
	Expert: {
		{modules.KindWires, 1},
		{modules.KindButton, 1},
		{modules.KindSymbols, 1},
		{modules.KindMaze, 2},
		{modules.KindPassword, 1},
		{modules.KindWordPanel, 1},
		{modules.KindMorse, 2},
		{modules.KindMemory, 2},
		{modules.KindSimon, 2},
		{modules.KindSequenceWires, 3},
		{modules.KindCapacitor, 3},
	},
}

// baseline types; every mission carries at least one.
var baseline = []modules.Kind{modules.KindWires, modules.KindButton, modules.KindSymbols}

// drawsPerModule bounds the weighted draw loop before the canonical fill.
const drawsPerModule = 64

// Pool returns the eligible types for d in canonical order.
func Pool(d Difficulty) ([]modules.Kind, error) {
	p, ok := pools[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	out := make([]modules.Kind, len(p))
	for i, w := range p {
		out[i] = w.kind
	}
	return out, nil
}

// SelectModules picks count distinct module types for difficulty d. The
// first entry is a baseline type chosen uniformly; the rest come from
// weighted draws. If the pool holds fewer than count types, every type is
// returned.
func SelectModules(r *rng.Rand, d Difficulty, count int) ([]modules.Kind, error) {
	pool, ok := pools[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	count = min(count, len(pool))
	if count <= 0 {
		return []modules.Kind{}, nil
	}

	var bag, bases []modules.Kind
	for _, w := range pool {
		for range w.weight {
			bag = append(bag, w.kind)
		}
		if slices.Contains(baseline, w.kind) {
			bases = append(bases, w.kind)
		}
	}

	selected := make([]modules.Kind, 0, count)
	if len(bases) > 0 {
		selected = append(selected, rng.Choice(r, bases))
	}
	for draws := 0; len(selected) < count && draws < drawsPerModule*count; draws++ {
		if k := rng.Choice(r, bag); !slices.Contains(selected, k) {
			selected = append(selected, k)
		}
	}
	for _, w := range pool {
		if len(selected) == count {
			break
		}
		if !slices.Contains(selected, w.kind) {
			selected = append(selected, w.kind)
		}
	}
	return selected, nil
}
