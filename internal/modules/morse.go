package modules

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/lexicon"
	"github.com/robalobadob/defuse/internal/rng"
)

// MorseData is the morse module. Frequencies are kept as the dictionary's
// strings so the display never reformats them.
type MorseData struct {
	TargetWord       string   `json:"targetWord"`
	MorseSequence    string   `json:"morseSequence"`
	CorrectFrequency string   `json:"correctFrequency"`
	Frequencies      []string `json:"frequencies"`
	PlaybackSpeed    float64  `json:"playbackSpeed"`
}

func (*MorseData) Kind() Kind { return KindMorse }

func (d *MorseData) clone() Data {
	c := *d
	c.Frequencies = append([]string(nil), d.Frequencies...)
	return &c
}

const morseDistractors = 5

var morseCode = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
}

// Encode renders word as morse: letters separated by one space, with a
// trailing space marking the end of the word.
func Encode(word string) string {
	codes := make([]string, 0, len(word))
	for _, c := range word {
		codes = append(codes, morseCode[c])
	}
	return strings.Join(codes, " ") + " "
}

func generateMorse(r *rng.Rand, g device.Globals) *MorseData {
	words := lexicon.MorseWords()
	target := rng.Choice(r, words)

	others := make([]string, 0, len(words)-1)
	for _, w := range words {
		if w.Frequency != target.Frequency {
			others = append(others, w.Frequency)
		}
	}
	distractors := rng.Shuffle(r, others)[:morseDistractors]
	options := rng.Shuffle(r, append([]string{target.Frequency}, distractors...))

	speed := 1.0
	if g.HasLit("FRK") && g.Batteries > 2 {
		speed = 1.5
	}

	return &MorseData{
		TargetWord:       target.Word,
		MorseSequence:    Encode(target.Word),
		CorrectFrequency: target.Frequency,
		Frequencies:      options,
		PlaybackSpeed:    speed,
	}
}

func validateMorse(s *MorseData, a Action) Result {
	if a.Type != ActionTransmit {
		return invalid(s)
	}
	got, err := decimal.NewFromString(strings.TrimSpace(a.Frequency))
	if err != nil {
		return invalid(s)
	}
	want, err := decimal.NewFromString(s.CorrectFrequency)
	if err != nil {
		return invalid(s)
	}
	ok := got.Equal(want)
	return Result{Valid: true, Strike: !ok, Solved: ok, State: s}
}
