package modules

import (
	"slices"

	"github.com/robalobadob/defuse/internal/device"
	"github.com/robalobadob/defuse/internal/rng"
)

// WordPanelData is the word-panel module.
type WordPanelData struct {
	Category      string   `json:"category"`
	DisplayWord   string   `json:"displayWord"`
	ButtonWords   []string `json:"buttonWords"`
	CorrectButton int      `json:"correctButton"`
}

func (*WordPanelData) Kind() Kind { return KindWordPanel }

func (d *WordPanelData) clone() Data {
	c := *d
	c.ButtonWords = slices.Clone(d.ButtonWords)
	return &c
}

type wordCategory struct {
	name    string
	display []string
	options []string
}

// wordCategories pairs display[i] with options[i]; options past the display
// list only ever appear as distractors.
var wordCategories = []wordCategory{
	{"COLORS",
		[]string{"RED", "BLUE", "GREEN", "YELLOW", "ORANGE", "PURPLE"},
		[]string{"CRIMSON", "AZURE", "EMERALD", "GOLDEN", "AMBER", "VIOLET", "SCARLET", "NAVY"}},
	{"ANIMALS",
		[]string{"CAT", "DOG", "BIRD", "FISH", "HORSE", "BEAR"},
		[]string{"FELINE", "CANINE", "AVIAN", "AQUATIC", "EQUINE", "URSINE", "LUPINE", "BOVINE"}},
	{"ACTIONS",
		[]string{"RUN", "JUMP", "WALK", "SWIM", "FLY", "CLIMB"},
		[]string{"SPRINT", "LEAP", "STRIDE", "DIVE", "SOAR", "ASCEND", "DASH", "GLIDE"}},
	{"OBJECTS",
		[]string{"BOOK", "CHAIR", "TABLE", "LAMP", "DOOR", "WINDOW"},
		[]string{"TOME", "SEAT", "DESK", "LIGHT", "PORTAL", "PANE", "VOLUME", "BENCH"}},
}

const wordPanelButtons = 6

// wordPanelRule returns the 1-based button for the display word at 1-based
// index i.
func wordPanelRule(i int, g device.Globals) int {
	pick := func(cond bool, yes, no int) int {
		if cond {
			return yes
		}
		return no
	}
	switch i {
	case 1:
		return pick(g.Batteries > 2, 2, 1)
	case 2:
		return pick(g.AnyLit(), 4, 2)
	case 3:
		return pick(len(g.Ports) > 1, 3, 5)
	case 4:
		return pick(g.LastDigitOdd, 1, 4)
	case 5:
		return pick(g.HasVowel, 2, 6)
	case 6:
		return pick(g.Batteries == 0, 3, 6)
	}
	return 1
}

func generateWordPanel(r *rng.Rand, g device.Globals) *WordPanelData {
	cat := rng.Choice(r, wordCategories)
	display := rng.Choice(r, cat.display)
	idx := slices.Index(cat.display, display)
	correct := cat.options[idx]

	others := make([]string, 0, len(cat.options)-1)
	for _, w := range cat.options {
		if w != correct {
			others = append(others, w)
		}
	}
	distractors := rng.Shuffle(r, others)[:wordPanelButtons-1]
	buttons := rng.Shuffle(r, append([]string{correct}, distractors...))

	return &WordPanelData{
		Category:      cat.name,
		DisplayWord:   display,
		ButtonWords:   buttons,
		CorrectButton: (wordPanelRule(idx+1, g) - 1) % len(buttons),
	}
}

func validateWordPanel(s *WordPanelData, a Action) Result {
	if a.Type != ActionPress || a.Position < 0 || a.Position >= len(s.ButtonWords) {
		return invalid(s)
	}
	ok := a.Position == s.CorrectButton
	return Result{Valid: true, Strike: !ok, Solved: ok, State: s}
}
