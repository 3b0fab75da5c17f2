package modules

import (
	"slices"

	"github.com/robalobadob/defuse/internal/rng"
)

// SymbolsData is the keypad module. Symbols is the display order and Glyphs
// the matching characters; Order is the required press order; Pressed is the
// correct prefix entered so far.
type SymbolsData struct {
	Column  int      `json:"column"`
	Symbols []int    `json:"symbols"`
	Glyphs  []string `json:"glyphs"`
	Order   []int    `json:"order"`
	Pressed []int    `json:"pressed"`
}

func (*SymbolsData) Kind() Kind { return KindSymbols }

func (d *SymbolsData) clone() Data {
	return &SymbolsData{
		Column:  d.Column,
		Symbols: slices.Clone(d.Symbols),
		Glyphs:  slices.Clone(d.Glyphs),
		Order:   slices.Clone(d.Order),
		Pressed: slices.Clone(d.Pressed),
	}
}

// symbolColumns is the manual's symbol table. Within a column a symbol's row
// decides its press order.
var symbolColumns = [][]int{
	{1, 2, 3, 4, 5, 6, 7},
	{8, 1, 7, 9, 10, 6, 11},
	{12, 13, 10, 2, 14, 3, 15},
	{16, 17, 12, 18, 8, 19, 15},
	{20, 16, 21, 14, 18, 11, 9},
	{6, 21, 17, 5, 20, 19, 13},
}

const symbolsPerModule = 4

var glyphs = []string{"Ω", "Ѭ", "☆", "ټ", "ϕ", "∇", "※", "Ѯ", "Ϭ", "φ", "ʘ", "Җ", "ξ", "♦", "Ψ", "Ϩ", "Ѧ", "Ѽ", "ϑ", "Ѣ", "₪"}

// Glyph returns the display character for a symbol id, or "?".
func Glyph(id int) string {
	if id < 1 || id > len(glyphs) {
		return "?"
	}
	return glyphs[id-1]
}

func generateSymbols(r *rng.Rand) *SymbolsData {
	col := r.NextInt(0, len(symbolColumns)-1)
	column := symbolColumns[col]

	rows := make([]int, len(column))
	for i := range rows {
		rows[i] = i
	}
	picked := rng.Shuffle(r, rows)[:symbolsPerModule]

	symbols := make([]int, len(picked))
	for i, row := range picked {
		symbols[i] = column[row]
	}

	sorted := slices.Clone(picked)
	slices.Sort(sorted)
	order := make([]int, len(sorted))
	for i, row := range sorted {
		order[i] = column[row]
	}

	shown := rng.Shuffle(r, symbols)
	glyphs := make([]string, len(shown))
	for i, id := range shown {
		glyphs[i] = Glyph(id)
	}

	return &SymbolsData{
		Column:  col,
		Symbols: shown,
		Glyphs:  glyphs,
		Order:   order,
		Pressed: []int{},
	}
}

func validateSymbols(s *SymbolsData, a Action) Result {
	if a.Type != ActionPress || !slices.Contains(s.Symbols, a.Symbol) || len(s.Pressed) >= len(s.Order) {
		return invalid(s)
	}
	next := s.clone().(*SymbolsData)
	if a.Symbol != s.Order[len(s.Pressed)] {
		// Covers repeats too: an already-pressed symbol is never next.
		next.Pressed = []int{}
		return Result{Valid: true, Strike: true, State: next}
	}
	next.Pressed = append(next.Pressed, a.Symbol)
	return Result{Valid: true, Solved: len(next.Pressed) == len(s.Order), State: next}
}
