package mission

import (
	"fmt"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/rng"
)

// Mission is everything a seed determines: the device globals and the
// generated modules with their solutions.
type Mission struct {
	Seed       string         `json:"seed"`
	Mode       Mode           `json:"mode"`
	Difficulty Difficulty     `json:"difficulty"`
	Globals    device.Globals `json:"globals"`
	Modules    []Instance     `json:"modules"`
}

// ModulesSeed derives the selection stream's seed.
func ModulesSeed(seed string) string { return seed + "_modules" }

// Generate builds the mission for (mode, difficulty, seed). The same inputs
// always yield an identical mission.
func Generate(mode Mode, difficulty Difficulty, seed string) (Mission, error) {
	spec, err := mode.Spec()
	if err != nil {
		return Mission{}, err
	}
	globals := device.Generate(rng.New(seed))

	kinds, err := SelectModules(rng.New(ModulesSeed(seed)), difficulty, spec.Modules)
	if err != nil {
		return Mission{}, err
	}

	insts := make([]Instance, len(kinds))
	for i, k := range kinds {
		data, err := modules.Generate(k, seed, globals)
		if err != nil {
			return Mission{}, fmt.Errorf("generate %s: %w", k, err)
		}
		insts[i] = Instance{ID: fmt.Sprintf("%s_%d", k, i), Type: k, Data: data}
	}

	return Mission{
		Seed:       seed,
		Mode:       mode,
		Difficulty: difficulty,
		Globals:    globals,
		Modules:    insts,
	}, nil
}
