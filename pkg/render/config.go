// Package render draws a built timeline graph as SVG, PNG, or
// git-log style text.
package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/geometry"
)

// Config controls timeline drawing. Zero values fall back to the
// reference constants, so a partial YAML file only overrides what it
// names.
type Config struct {
	LaneWidth       float64 `yaml:"lane_width"`
	RowHeight       float64 `yaml:"row_height"`
	NodeRadius      float64 `yaml:"node_radius"`
	DiamondHalfSize float64 `yaml:"diamond_half_size"`
	StrokeWidth     float64 `yaml:"stroke_width"`

	// LabelWidth is the horizontal space reserved for row labels.
	LabelWidth float64 `yaml:"label_width"`
	Background string  `yaml:"background"`
	LaneColor  string  `yaml:"lane_color"`
	TextColor  string  `yaml:"text_color"`
}

// DefaultConfig returns the reference drawing configuration.
func DefaultConfig() Config {
	return Config{
		LaneWidth:       geometry.DefaultLaneWidth,
		RowHeight:       geometry.DefaultRowHeight,
		NodeRadius:      geometry.DefaultNodeRadius,
		DiamondHalfSize: geometry.DefaultDiamondHalfSize,
		StrokeWidth:     geometry.DefaultStrokeWidth,
		LabelWidth:      260,
		Background:      "#ffffff",
		LaneColor:       "#d1d5db",
		TextColor:       "#111827",
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read render config: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parse render config %s: %w", path, err)
	}
	cfg.apply(overlay)
	return cfg, nil
}

func (c *Config) apply(o Config) {
	if o.LaneWidth > 0 {
		c.LaneWidth = o.LaneWidth
	}
	if o.RowHeight > 0 {
		c.RowHeight = o.RowHeight
	}
	if o.NodeRadius > 0 {
		c.NodeRadius = o.NodeRadius
	}
	if o.DiamondHalfSize > 0 {
		c.DiamondHalfSize = o.DiamondHalfSize
	}
	if o.StrokeWidth > 0 {
		c.StrokeWidth = o.StrokeWidth
	}
	if o.LabelWidth > 0 {
		c.LabelWidth = o.LabelWidth
	}
	if o.Background != "" {
		c.Background = o.Background
	}
	if o.LaneColor != "" {
		c.LaneColor = o.LaneColor
	}
	if o.TextColor != "" {
		c.TextColor = o.TextColor
	}
}

// Mapper returns the geometry mapper for this configuration.
func (c Config) Mapper() geometry.Mapper {
	return geometry.Mapper{
		LaneWidth:       c.LaneWidth,
		RowHeight:       c.RowHeight,
		NodeRadius:      c.NodeRadius,
		DiamondHalfSize: c.DiamondHalfSize,
		StrokeWidth:     c.StrokeWidth,
	}
}
