// internal/lexicon/lexicon.go
//
// Word tables used by the password and morse modules.
//
// Responsibilities:
//   - Embed the word lists so the binary never depends on files at runtime.
//   - Parse and validate them once (sync.Once) and expose read-only copies.
//
// Lists:
//   - passwords.txt: password targets, one uppercase word per line.
//   - morse.txt:     "<WORD> <FREQUENCY>" pairs for the morse module.
//
// Constraints:
//   - Lines that are empty or start with '#' are skipped.
//   - Words must be uppercase A–Z; frequencies must be unique.
//   - File order is significant: generators index into these lists with
//     seeded draws, so the order is part of the replay contract.
package lexicon

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
)

//go:embed passwords.txt
var embeddedPasswords string

//go:embed morse.txt
var embeddedMorse string

// MorseWord pairs a transmitted word with the frequency that disarms it.
type MorseWord struct {
	Word      string `json:"word"`
	Frequency string `json:"frequency"`
}

var (
	initOnce   sync.Once
	passwords  []string
	morseWords []MorseWord
	initialErr error
)

// Init parses the embedded lists. It is safe to call more than once and
// returns the same error every time.
func Init() error {
	initOnce.Do(load)
	return initialErr
}

func load() {
	pw, err := readWords(embeddedPasswords)
	if err != nil {
		initialErr = fmt.Errorf("passwords.txt: %w", err)
		return
	}
	mw, err := readMorse(embeddedMorse)
	if err != nil {
		initialErr = fmt.Errorf("morse.txt: %w", err)
		return
	}
	passwords, morseWords = pw, mw
}

// mustInit panics when the embedded data is malformed; that is a build
// defect, not a runtime condition.
func mustInit() {
	if err := Init(); err != nil {
		panic(err)
	}
}

// PasswordWords returns a copy of the password target list.
func PasswordWords() []string {
	mustInit()
	return append([]string(nil), passwords...)
}

// MorseWords returns a copy of the morse dictionary in file order.
func MorseWords() []MorseWord {
	mustInit()
	return append([]MorseWord(nil), morseWords...)
}

// Stats reports list sizes (for diagnostics).
func Stats() (passwordCount, morseCount int) {
	mustInit()
	return len(passwords), len(morseWords)
}

func lines(src string) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func readWords(src string) ([]string, error) {
	ls, err := lines(src)
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, errors.New("empty list")
	}
	seen := make(map[string]struct{}, len(ls))
	for _, w := range ls {
		if !isUpper(w) {
			return nil, fmt.Errorf("invalid word %q", w)
		}
		if _, dup := seen[w]; dup {
			return nil, fmt.Errorf("duplicate word %q", w)
		}
		seen[w] = struct{}{}
	}
	return ls, nil
}

func readMorse(src string) ([]MorseWord, error) {
	ls, err := lines(src)
	if err != nil {
		return nil, err
	}
	out := make([]MorseWord, 0, len(ls))
	freqs := make(map[string]struct{}, len(ls))
	for _, l := range ls {
		f := strings.Fields(l)
		if len(f) != 2 || !isUpper(f[0]) {
			return nil, fmt.Errorf("malformed entry %q", l)
		}
		if _, dup := freqs[f[1]]; dup {
			return nil, fmt.Errorf("duplicate frequency %q", f[1])
		}
		freqs[f[1]] = struct{}{}
		out = append(out, MorseWord{Word: f[0], Frequency: f[1]})
	}
	// The module offers the answer plus five distractors.
	if len(out) < 6 {
		return nil, fmt.Errorf("need at least 6 entries, got %d", len(out))
	}
	return out, nil
}

// isUpper checks that a string consists only of uppercase A–Z.
func isUpper(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
