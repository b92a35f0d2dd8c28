package level

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CaBe71/Card-Matching-Game/engine"
)

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"Playfield": [{"CardFace": 12, "CardSuit": 0, "Position": {"x": 250, "y": 1000}}],
		"Stack": [{"CardFace": 2, "CardSuit": 3, "Position": {"x": 0, "y": 0}}],
		"Reserve": [
			{"CardFace": 0, "CardSuit": 1, "Position": {"x": 0, "y": 0}},
			{"CardFace": 5, "CardSuit": 2, "Position": {"x": 0, "y": 0}}
		]
	}`)
	cfg, err := Parse(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.CardCount())

	l := cfg.Layout()
	require.Len(t, l.Playfield, 1)
	assert.Equal(t, engine.RankKing, l.Playfield[0].Rank)
	assert.Equal(t, engine.SuitClubs, l.Playfield[0].Suit)
	assert.Equal(t, engine.Position{X: 250, Y: 1000}, l.Playfield[0].Pos)
	require.Len(t, l.Hand, 1)
	assert.Equal(t, engine.SuitSpades, l.Hand[0].Suit)
	require.Len(t, l.Reserve, 2)
	assert.Equal(t, engine.RankAce, l.Reserve[0].Rank, "zero face is a valid Ace")
	assert.Equal(t, engine.RankSix, l.Reserve[1].Rank)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
Playfield:
  - CardFace: 7
    CardSuit: 2
    Position: {x: 300, y: 800}
Reserve:
  - CardFace: 6
    CardSuit: 0
    Position: {x: 0, y: 0}
`)
	cfg, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	l := cfg.Layout()
	require.Len(t, l.Playfield, 1)
	assert.Equal(t, engine.RankEight, l.Playfield[0].Rank)
	assert.Empty(t, l.Hand)
	assert.Len(t, l.Reserve, 1)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"syntax", FormatJSON, `{"Playfield": [`},
		{"missing face", FormatJSON, `{"Playfield": [{"CardSuit": 0, "Position": {"x": 1, "y": 1}}]}`},
		{"missing suit", FormatJSON, `{"Stack": [{"CardFace": 0, "Position": {"x": 1, "y": 1}}]}`},
		{"missing position", FormatJSON, `{"Reserve": [{"CardFace": 0, "CardSuit": 0}]}`},
		{"missing y", FormatJSON, `{"Reserve": [{"CardFace": 0, "CardSuit": 0, "Position": {"x": 1}}]}`},
		{"face too high", FormatJSON, `{"Playfield": [{"CardFace": 13, "CardSuit": 0, "Position": {"x": 1, "y": 1}}]}`},
		{"negative suit", FormatJSON, `{"Playfield": [{"CardFace": 1, "CardSuit": -1, "Position": {"x": 1, "y": 1}}]}`},
		{"wrong type", FormatJSON, `{"Playfield": [{"CardFace": "K", "CardSuit": 0, "Position": {"x": 1, "y": 1}}]}`},
		{"yaml suit too high", FormatYAML, "Reserve:\n  - {CardFace: 1, CardSuit: 4, Position: {x: 0, y: 0}}\n"},
		{"empty json", FormatJSON, ``},
		{"trailing json object", FormatJSON, `{"Playfield": []} {"Stack": []}`},
		{"trailing json junk", FormatJSON, `{"Playfield": []} xyz`},
		{"empty yaml", FormatYAML, ``},
		{"comment-only yaml", FormatYAML, "# nothing here\n"},
		{"null yaml document", FormatYAML, "---\n~\n"},
		{"two yaml documents", FormatYAML, "Playfield: []\n---\nStack: []\n"},
		{"unknown format", Format(9), `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, cfg)
		})
	}
}

func TestDefaultLevel(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.Playfield, 6)
	assert.Len(t, cfg.Stack, 1)
	assert.Len(t, cfg.Reserve, 8)

	e := engine.New(engine.DefaultRules(), engine.NewSource(1))
	require.NoError(t, e.Deal(cfg.Layout()))
	snap := e.Snapshot()
	require.NotNil(t, snap.Bottom)
	assert.Equal(t, engine.RankSeven, snap.Bottom.Rank, "top of the reserve becomes the bottom card")
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/level_1.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	f, err = FormatFromPath("level.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = FormatFromPath("level.toml")
	assert.Error(t, err)
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level_2.yaml"), "Playfield:\n  - {CardFace: 4, CardSuit: 1, Position: {x: 10, y: 20}}\n")
	writeFile(t, filepath.Join(dir, "level_3.json"), `{"Playfield": [{"CardFace": 99}]}`)

	l := Loader{Dir: dir}

	cfg, err := l.Load(2)
	require.NoError(t, err)
	require.Len(t, cfg.Playfield, 1)
	assert.Equal(t, 4, *cfg.Playfield[0].CardFace)

	cfg, err = l.Load(1)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "missing level falls back to the built-in one")

	_, err = l.Load(3)
	assert.ErrorIs(t, err, ErrMalformed)

	cfg, err = Loader{}.Load(5)
	require.NoError(t, err)
	assert.Len(t, cfg.Playfield, 6)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, tt := range []struct {
		difficulty                int
		playfield, stack, reserve int
	}{
		{0, 6, 2, 10}, // clamped to easy
		{DifficultyEasy, 6, 2, 10},
		{DifficultyMedium, 9, 1, 8},
		{DifficultyHard, 12, 0, 6},
		{7, 12, 0, 6}, // clamped to hard
	} {
		cfg := Generate(rng, tt.difficulty)
		assert.Len(t, cfg.Playfield, tt.playfield, "difficulty %d", tt.difficulty)
		assert.Len(t, cfg.Stack, tt.stack, "difficulty %d", tt.difficulty)
		assert.Len(t, cfg.Reserve, tt.reserve, "difficulty %d", tt.difficulty)
		assert.NoError(t, validate.Struct(cfg), "generated levels must validate")

		e := engine.New(engine.DefaultRules(), engine.NewSource(3))
		assert.NoError(t, e.Deal(cfg.Layout()))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestShippedLevels(t *testing.T) {
	l := Loader{Dir: filepath.Join("..", "..", "levels")}

	one, err := l.Load(1)
	require.NoError(t, err)
	assert.Equal(t, Default(), one)

	two, err := l.Load(2)
	require.NoError(t, err)
	assert.Len(t, two.Playfield, 8)
	assert.Len(t, two.Stack, 2)
	assert.Len(t, two.Reserve, 5)
}
