// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/Faultbox/bbmod/internal/logger"
	"github.com/Faultbox/bbmod/pkg/bbmod"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds BBMOD encoding settings.
type ExportConfig struct {
	Revision         int      `yaml:"revision"`          // BBMOD version byte (2 or 3)
	Attributes       []string `yaml:"attributes"`        // Vertex format vocabulary names
	StrictAttributes bool     `yaml:"strict_attributes"` // Fail on unknown attribute names
	NodeLayout       string   `yaml:"node_layout"`       // single-root or per-object
	RejectEmpty      bool     `yaml:"reject_empty"`      // Fail when nothing is exportable
	OutputDir        string   `yaml:"output_dir"`        // Used when no output path is given
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Revision:   int(bbmod.LatestRevision),
			Attributes: []string{"position", "normal", "texcoord", "color", "tangentW"},
			NodeLayout: bbmod.NodeLayoutSingleRoot.String(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if _, err := bbmod.ParseRevision(c.Export.Revision); err != nil {
		return fmt.Errorf("export.revision: %w", err)
	}
	if _, err := bbmod.ParseNodeLayout(c.Export.NodeLayout); err != nil {
		return fmt.Errorf("export.node_layout: %w", err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Options converts the export settings to encoder options.
func (e ExportConfig) Options() (bbmod.Options, error) {
	rev, err := bbmod.ParseRevision(e.Revision)
	if err != nil {
		return bbmod.Options{}, err
	}
	layout, err := bbmod.ParseNodeLayout(e.NodeLayout)
	if err != nil {
		return bbmod.Options{}, err
	}
	return bbmod.Options{
		Revision:    rev,
		NodeLayout:  layout,
		RejectEmpty: e.RejectEmpty,
	}, nil
}

// VertexFormat parses the attribute list. Unknown names come back as an
// error wrapping bbmod.ErrInvalidVertexFormat together with the format
// built from the known names; StrictAttributes tells the caller whether
// to stop.
func (e ExportConfig) VertexFormat() (bbmod.VertexFormat, error) {
	return bbmod.ParseVertexFormat(e.Attributes...)
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
