package modules

import (
	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// ButtonData is the big-button module. When ShouldHold is set the player
// must hold the button and release it when the countdown's last digit
// equals ReleaseDigit.
type ButtonData struct {
	Color        string `json:"color"`
	Label        string `json:"label"`
	Held         bool   `json:"held"`
	ShouldHold   bool   `json:"shouldHold"`
	StripColor   string `json:"stripColor,omitempty"`
	ReleaseDigit *int   `json:"releaseDigit,omitempty"`
}

func (*ButtonData) Kind() Kind { return KindButton }

func (d *ButtonData) clone() Data {
	c := *d
	if d.ReleaseDigit != nil {
		v := *d.ReleaseDigit
		c.ReleaseDigit = &v
	}
	return &c
}

var (
	buttonColors = []string{"red", "blue", "yellow", "white"}
	buttonLabels = []string{"PRESS", "ABORT", "HOLD", "DETONATE"}

	// stripDigits maps the lit strip color to the release digit.
	stripDigits = map[string]int{"blue": 4, "yellow": 5, "red": 1, "white": 0}
)

func generateButton(r *rng.Rand, g device.Globals) *ButtonData {
	d := &ButtonData{
		Color: rng.Choice(r, buttonColors),
		Label: rng.Choice(r, buttonLabels),
	}
	d.ShouldHold = shouldHold(d.Color, d.Label, g)
	if d.ShouldHold {
		d.StripColor = rng.Choice(r, buttonColors)
		digit := stripDigits[d.StripColor]
		d.ReleaseDigit = &digit
	}
	return d
}

// shouldHold evaluates the hold/tap rules in priority order.
func shouldHold(color, label string, g device.Globals) bool {
	switch {
	case color == "blue" && label == "ABORT":
		return true
	case g.Batteries > 1 && label == "DETONATE":
		return false
	case color == "white" && g.HasLit("CAR"):
		return true
	case g.Batteries > 2 && g.HasLit("FRK"):
		return false
	case color == "yellow":
		return true
	case color == "red" && label == "HOLD":
		return false
	}
	return true
}

func validateButton(s *ButtonData, a Action) Result {
	switch a.Type {
	case ActionPress, ActionHold, ActionRelease:
	default:
		return invalid(s)
	}

	if a.Type == ActionPress && !s.ShouldHold {
		return Result{Valid: true, Solved: true, State: s}
	}
	if a.Type == ActionHold && s.ShouldHold {
		next := s.clone().(*ButtonData)
		next.Held = true
		return Result{Valid: true, State: next}
	}
	if a.Type == ActionRelease && s.Held && s.ReleaseDigit != nil && a.TimerSeconds != nil {
		next := s.clone().(*ButtonData)
		next.Held = false
		ok := *a.TimerSeconds%10 == *s.ReleaseDigit
		return Result{Valid: true, Strike: !ok, Solved: ok, State: next}
	}
	// Wrong interaction for this button.
	return Result{Valid: true, Strike: true, State: s}
}
