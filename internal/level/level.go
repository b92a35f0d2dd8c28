// Package level loads level definitions and turns them into engine layouts.
//
// The on-disk format is the level editor's JSON:
//
//	{
//	  "Playfield": [{"CardFace": 12, "CardSuit": 0, "Position": {"x": 250, "y": 1000}}],
//	  "Stack":     [...],
//	  "Reserve":   [...]
//	}
//
// YAML files with the same keys are accepted too. Loading is all-or-nothing:
// a single malformed record fails the whole level, as do empty files and
// anything after the first document.
package level

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/CaBe71/Card-Matching-Game/engine"
)

// ErrMalformed wraps every parse and validation failure.
var ErrMalformed = errors.New("malformed level")

// Format is a level file encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported level file extension %q", filepath.Ext(path))
	}
}

// Point is a layout coordinate. Both axes are required.
type Point struct {
	X *float64 `json:"x" yaml:"x" validate:"required"`
	Y *float64 `json:"y" yaml:"y" validate:"required"`
}

// CardConfig is one card record.
type CardConfig struct {
	CardFace *int   `json:"CardFace" yaml:"CardFace" validate:"required,min=0,max=12"`
	CardSuit *int   `json:"CardSuit" yaml:"CardSuit" validate:"required,min=0,max=3"`
	Position *Point `json:"Position" yaml:"Position" validate:"required"`
}

// Config is a whole level. Stack is the hand area; Reserve is ordered
// bottom-to-top.
type Config struct {
	Playfield []CardConfig `json:"Playfield" yaml:"Playfield" validate:"dive"`
	Stack     []CardConfig `json:"Stack" yaml:"Stack" validate:"dive"`
	Reserve   []CardConfig `json:"Reserve" yaml:"Reserve" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a level.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrMalformed, err)
		}
		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: decode json: trailing data after level", ErrMalformed)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: decode yaml: empty document", ErrMalformed)
			}
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrMalformed, err)
		}
		if emptyYAML(&doc) {
			return nil, fmt.Errorf("%w: decode yaml: empty document", ErrMalformed)
		}
		if err := doc.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrMalformed, err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: decode yaml: more than one document", ErrMalformed)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrMalformed, format)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &cfg, nil
}

// emptyYAML reports whether doc holds no content or only a null.
func emptyYAML(doc *yaml.Node) bool {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return true
		}
		doc = doc.Content[0]
	}
	return doc.Kind == 0 || (doc.Kind == yaml.ScalarNode && doc.Tag == "!!null")
}

// LoadFile reads and parses the level at path, picking the format from its
// extension.
func LoadFile(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return cfg, nil
}

// Layout converts the level to an engine layout.
func (c *Config) Layout() engine.Layout {
	return engine.Layout{
		Playfield: specs(c.Playfield),
		Hand:      specs(c.Stack),
		Reserve:   specs(c.Reserve),
	}
}

// CardCount returns the total number of records.
func (c *Config) CardCount() int {
	return len(c.Playfield) + len(c.Stack) + len(c.Reserve)
}

func specs(cards []CardConfig) []engine.CardSpec {
	out := make([]engine.CardSpec, len(cards))
	for i, cc := range cards {
		out[i] = engine.CardSpec{
			Rank: engine.Rank(*cc.CardFace),
			Suit: engine.Suit(*cc.CardSuit),
			Pos:  engine.Position{X: *cc.Position.X, Y: *cc.Position.Y},
		}
	}
	return out
}

// NewCard builds a record from plain values.
func NewCard(face, suit int, x, y float64) CardConfig {
	return CardConfig{CardFace: &face, CardSuit: &suit, Position: &Point{X: &x, Y: &y}}
}
