package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/lexicon"
	"github.com/robalobadob/defuse/internal/mission"
	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/rng"
)

type genFlags struct {
	seed       string
	mode       string
	difficulty string
	format     string
}

// report is the printed mission.
type report struct {
	Seed         string         `json:"seed"`
	Mode         mission.Mode   `json:"mode"`
	Difficulty   string         `json:"difficulty"`
	TimerSeconds int            `json:"timerSeconds"`
	MaxStrikes   int            `json:"maxStrikes"`
	Globals      device.Globals `json:"globals"`
	Modules      []moduleReport `json:"modules"`
}

type moduleReport struct {
	ID   string       `json:"id"`
	Type modules.Kind `json:"type"`
	Data modules.Data `json:"data"`
	// MazeMoves is the shortest solution length; maze modules only.
	MazeMoves *int `json:"mazeMoves,omitempty"`
}

func newRootCmd() *cobra.Command {
	var f genFlags
	cmd := &cobra.Command{
		Use:          "missiongen",
		Short:        "Print the mission generated for a seed",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return lexicon.Init()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := buildReport(f)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), f.format, rep)
		},
	}
	cmd.Flags().StringVar(&f.seed, "seed", "", "mission seed (random when empty)")
	cmd.Flags().StringVar(&f.mode, "mode", "quick", "quick | full")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "novice", "novice | pro | expert")
	cmd.PersistentFlags().StringVar(&f.format, "format", "json", "json | yaml")

	cmd.AddCommand(newDailyCmd(&f.format))
	return cmd
}

func buildReport(f genFlags) (report, error) {
	mode, err := mission.ParseMode(f.mode)
	if err != nil {
		return report{}, err
	}
	diff, err := mission.ParseDifficulty(f.difficulty)
	if err != nil {
		return report{}, err
	}
	seed := f.seed
	if seed == "" {
		seed = rng.NewSeed()
	}
	m, err := mission.Generate(mode, diff, seed)
	if err != nil {
		return report{}, err
	}
	spec, _ := mode.Spec()

	rep := report{
		Seed:         m.Seed,
		Mode:         m.Mode,
		Difficulty:   string(m.Difficulty),
		TimerSeconds: spec.TimerSeconds,
		MaxStrikes:   spec.MaxStrikes,
		Globals:      m.Globals,
		Modules:      make([]moduleReport, len(m.Modules)),
	}
	for i, in := range m.Modules {
		mr := moduleReport{ID: in.ID, Type: in.Type, Data: in.Data}
		if mz, ok := in.Data.(*modules.MazeData); ok {
			n, err := mz.MovesToTarget()
			if err != nil {
				return report{}, fmt.Errorf("%s: %w", in.ID, err)
			}
			mr.MazeMoves = &n
		}
		rep.Modules[i] = mr
	}
	return rep, nil
}

// write encodes v as indented JSON or as YAML. YAML goes through the JSON
// form so both formats share field names.
func write(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
