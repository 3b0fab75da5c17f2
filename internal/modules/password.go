package modules

import (
	"slices"
	"strings"

	"github.com/robalobadob/defuse/internal/lexicon"
	"github.com/robalobadob/defuse/internal/rng"
)

// PasswordData is the password module: one letter column per target letter.
type PasswordData struct {
	TargetWord      string     `json:"targetWord"`
	Columns         [][]string `json:"columns"`
	CurrentPassword []string   `json:"currentPassword"`
}

func (*PasswordData) Kind() Kind { return KindPassword }

func (d *PasswordData) clone() Data {
	c := *d
	c.Columns = make([][]string, len(d.Columns))
	for i, col := range d.Columns {
		c.Columns[i] = slices.Clone(col)
	}
	c.CurrentPassword = slices.Clone(d.CurrentPassword)
	return &c
}

const passwordDistractors = 5

var alphabet = strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "")

func generatePassword(r *rng.Rand) *PasswordData {
	target := rng.Choice(r, lexicon.PasswordWords())

	columns := make([][]string, len(target))
	for i := range target {
		letter := target[i : i+1]
		distractors := make([]string, 0, passwordDistractors)
		for len(distractors) < passwordDistractors {
			c := rng.Choice(r, alphabet)
			if c != letter && !slices.Contains(distractors, c) {
				distractors = append(distractors, c)
			}
		}
		columns[i] = rng.Shuffle(r, append([]string{letter}, distractors...))
	}

	current := make([]string, len(columns))
	for i, col := range columns {
		current[i] = col[0]
	}

	return &PasswordData{TargetWord: target, Columns: columns, CurrentPassword: current}
}

func validatePassword(s *PasswordData, a Action) Result {
	switch a.Type {
	case ActionSet:
		if a.Column < 0 || a.Column >= len(s.Columns) || !slices.Contains(s.Columns[a.Column], a.Letter) {
			return invalid(s)
		}
		next := s.clone().(*PasswordData)
		next.CurrentPassword[a.Column] = a.Letter
		return Result{Valid: true, State: next}
	case ActionSubmit:
		ok := strings.Join(s.CurrentPassword, "") == s.TargetWord
		return Result{Valid: true, Strike: !ok, Solved: ok, State: s}
	}
	return invalid(s)
}
