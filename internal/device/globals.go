// internal/device/globals.go
//
// Device-wide facts shared by every module of a mission.
// Globals are generated once per session from the top-level seed and
// are read-only afterwards; module generators and validators receive
// them by value.
package device

import (
	"strings"

	"github.com/robalobadob/defuse/internal/rng"
)

// Indicator is a labelled light on the device casing.
type Indicator struct {
	Label string `json:"label"`
	Lit   bool   `json:"lit"`
}

// Globals are the facts printed on the device itself.
type Globals struct {
	Serial       string      `json:"serial"`
	LastDigitOdd bool        `json:"lastDigitOdd"`
	HasVowel     bool        `json:"hasVowel"`
	Batteries    int         `json:"batteries"`
	Indicators   []Indicator `json:"indicators"`
	Ports        []string    `json:"ports"`
}

const (
	serialAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	serialLength   = 6
	maxBatteries   = 4
	maxIndicators  = 3
	maxPorts       = 3
)

// IndicatorLabels is the fixed indicator vocabulary, in draw order.
var IndicatorLabels = []string{"SND", "CLR", "CAR", "FRK", "IND", "MSA", "NSA", "SIG", "TRN"}

// PortTypes is the fixed port vocabulary, in draw order.
var PortTypes = []string{"USB", "HDMI", "Serial", "Parallel", "PS2", "RCA"}

// Generate draws a complete set of globals. It cannot fail.
func Generate(r *rng.Rand) Globals {
	alphabet := []byte(serialAlphabet)
	serial := make([]byte, serialLength)
	for i := range serial {
		serial[i] = rng.Choice(r, alphabet)
	}
	s := string(serial)

	batteries := r.NextInt(0, maxBatteries)

	n := r.NextInt(0, maxIndicators)
	labels := rng.Shuffle(r, IndicatorLabels)[:n]
	indicators := make([]Indicator, 0, n)
	for _, l := range labels {
		indicators = append(indicators, Indicator{Label: l, Lit: r.Next() > 0.5})
	}

	m := r.NextInt(0, maxPorts)
	ports := append([]string{}, rng.Shuffle(r, PortTypes)[:m]...)

	return Globals{
		Serial:       s,
		LastDigitOdd: lastDigitOdd(s),
		HasVowel:     strings.ContainsAny(s, "AEIOU"),
		Batteries:    batteries,
		Indicators:   indicators,
		Ports:        ports,
	}
}

// lastDigitOdd reports whether the serial ends in an odd digit.
func lastDigitOdd(serial string) bool {
	if serial == "" {
		return false
	}
	c := serial[len(serial)-1]
	return c >= '0' && c <= '9' && (c-'0')%2 == 1
}

// HasLit reports whether an indicator with the given label is present and lit.
func (g Globals) HasLit(label string) bool {
	for _, ind := range g.Indicators {
		if ind.Label == label && ind.Lit {
			return true
		}
	}
	return false
}

// AnyLit reports whether any indicator is lit.
func (g Globals) AnyLit() bool {
	for _, ind := range g.Indicators {
		if ind.Lit {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand globals out without
// sharing the backing slices.
func (g Globals) Clone() Globals {
	out := g
	out.Indicators = append([]Indicator{}, g.Indicators...)
	out.Ports = append([]string{}, g.Ports...)
	return out
}
