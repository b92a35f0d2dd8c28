package level

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// defaultLevelJSON is the built-in level used when no level file exists.
const defaultLevelJSON = `{
	"Playfield": [
		{"CardFace": 12, "CardSuit": 0, "Position": {"x": 250, "y": 1000}},
		{"CardFace": 2, "CardSuit": 0, "Position": {"x": 300, "y": 800}},
		{"CardFace": 2, "CardSuit": 1, "Position": {"x": 350, "y": 600}},
		{"CardFace": 2, "CardSuit": 0, "Position": {"x": 850, "y": 1000}},
		{"CardFace": 2, "CardSuit": 0, "Position": {"x": 800, "y": 800}},
		{"CardFace": 1, "CardSuit": 3, "Position": {"x": 750, "y": 600}}
	],
	"Stack": [
		{"CardFace": 2, "CardSuit": 0, "Position": {"x": 0, "y": 0}}
	],
	"Reserve": [
		{"CardFace": 5, "CardSuit": 1, "Position": {"x": 0, "y": 0}},
		{"CardFace": 8, "CardSuit": 2, "Position": {"x": 0, "y": 0}},
		{"CardFace": 3, "CardSuit": 3, "Position": {"x": 0, "y": 0}},
		{"CardFace": 10, "CardSuit": 0, "Position": {"x": 0, "y": 0}},
		{"CardFace": 7, "CardSuit": 1, "Position": {"x": 0, "y": 0}},
		{"CardFace": 4, "CardSuit": 2, "Position": {"x": 0, "y": 0}},
		{"CardFace": 9, "CardSuit": 3, "Position": {"x": 0, "y": 0}},
		{"CardFace": 6, "CardSuit": 0, "Position": {"x": 0, "y": 0}}
	]
}`

// Default returns the built-in level.
func Default() *Config {
	cfg, err := Parse([]byte(defaultLevelJSON), FormatJSON)
	if err != nil {
		panic(fmt.Sprintf("built-in level is invalid: %v", err))
	}
	return cfg
}

// Loader finds numbered level files in a directory.
type Loader struct {
	Dir string
}

// candidates lists the file names tried for level id, in order.
func (l Loader) candidates(id int) []string {
	base := fmt.Sprintf("level_%d", id)
	return []string{
		filepath.Join(l.Dir, base+".json"),
		filepath.Join(l.Dir, base+".yaml"),
		filepath.Join(l.Dir, base+".yml"),
	}
}

// Load returns level id from the directory. If no file exists for the id the
// built-in level is returned; a file that exists but is malformed is an
// error.
func (l Loader) Load(id int) (*Config, error) {
	if l.Dir != "" {
		for _, path := range l.candidates(id) {
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("stat level %s: %w", path, err)
			}
			return LoadFile(path)
		}
	}
	return Default(), nil
}

// Rand is the random source used by Generate.
type Rand interface {
	IntN(n int) int
}

// Difficulty bounds.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// tier sizes per difficulty: more playfield cards, fewer helpers.
var tiers = map[int]struct{ playfield, stack, reserve int }{
	DifficultyEasy:   {playfield: 6, stack: 2, reserve: 10},
	DifficultyMedium: {playfield: 9, stack: 1, reserve: 8},
	DifficultyHard:   {playfield: 12, stack: 0, reserve: 6},
}

// Generate builds a random level. Difficulty is clamped to 1..3.
func Generate(rng Rand, difficulty int) *Config {
	difficulty = min(max(difficulty, DifficultyEasy), DifficultyHard)
	t := tiers[difficulty]

	random := func(x, y float64) CardConfig {
		return NewCard(rng.IntN(13), rng.IntN(4), x, y)
	}

	cfg := &Config{}
	for i := 0; i < t.playfield; i++ {
		x := 250 + float64(i%3)*300
		y := 1000 - float64(i/3)*200
		cfg.Playfield = append(cfg.Playfield, random(x, y))
	}
	for i := 0; i < t.stack; i++ {
		cfg.Stack = append(cfg.Stack, random(200+float64(i)*120, 150))
	}
	for i := 0; i < t.reserve; i++ {
		cfg.Reserve = append(cfg.Reserve, random(0, 0))
	}
	return cfg
}
