package modules

import (
	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// VentWindow is an inclusive charge range in which venting succeeds.
type VentWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// CapacitorData is the capacitor module. Charge grows by ChargeRate on each
// tick; the player vents while the charge sits inside the current window.
type CapacitorData struct {
	ChargeLevel   float64      `json:"chargeLevel"`
	MaxCharge     float64      `json:"maxCharge"`
	VentWindows   []VentWindow `json:"ventWindows"`
	CurrentWindow int          `json:"currentWindow"`
	IsCharging    bool         `json:"isCharging"`
	ChargeRate    float64      `json:"chargeRate"`
	VentCount     int          `json:"ventCount"`
	MaxVents      int          `json:"maxVents"`
}

func (*CapacitorData) Kind() Kind { return KindCapacitor }

func (d *CapacitorData) clone() Data {
	c := *d
	c.VentWindows = append([]VentWindow(nil), d.VentWindows...)
	return &c
}

const (
	capacitorMaxCharge = 100
	capacitorVents     = 5

	// Window i starts at ventFirst + ventStride*i ± ventJitter. With the
	// widest window the last one ends at 97, below the ceiling, and every
	// window is wider than the fastest charge rate, so each one holds a
	// reachable charge level.
	ventFirst  = 10
	ventStride = 16
	ventJitter = 3
)

func generateCapacitor(r *rng.Rand, g device.Globals) *CapacitorData {
	rate := 2 + 0.5*float64(g.Batteries)
	duration := 20.0
	if g.HasLit("CAR") || g.HasLit("SND") {
		duration = 15
	}

	windows := make([]VentWindow, capacitorVents)
	for i := range windows {
		start := float64(ventFirst + ventStride*i + r.NextInt(-ventJitter, ventJitter))
		windows[i] = VentWindow{Start: start, End: start + duration}
	}

	return &CapacitorData{
		MaxCharge:   capacitorMaxCharge,
		VentWindows: windows,
		IsCharging:  true,
		ChargeRate:  rate,
		MaxVents:    capacitorVents,
	}
}

func validateCapacitor(s *CapacitorData, a Action, policy OverchargePolicy) Result {
	switch a.Type {
	case ActionTick:
		if !s.IsCharging {
			return invalid(s)
		}
		next := s.clone().(*CapacitorData)
		charge := s.ChargeLevel + s.ChargeRate
		overcharged := charge >= s.MaxCharge
		if policy == StrikeAboveCeiling {
			overcharged = charge > s.MaxCharge
		}
		if overcharged {
			next.ChargeLevel = 0
			next.IsCharging = false
			return Result{Valid: true, Strike: true, State: next}
		}
		next.ChargeLevel = min(charge, s.MaxCharge)
		return Result{Valid: true, State: next}

	case ActionVent:
		if s.CurrentWindow >= len(s.VentWindows) {
			return invalid(s)
		}
		w := s.VentWindows[s.CurrentWindow]
		next := s.clone().(*CapacitorData)
		next.ChargeLevel = 0
		next.IsCharging = true
		if s.ChargeLevel < w.Start || s.ChargeLevel > w.End {
			return Result{Valid: true, Strike: true, State: next}
		}
		next.VentCount++
		next.CurrentWindow++
		return Result{Valid: true, Solved: next.VentCount >= next.MaxVents, State: next}
	}
	return invalid(s)
}
