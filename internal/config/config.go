package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/1broseidon/wingeom/internal/classify"
	"github.com/1broseidon/wingeom/internal/taskbar"
	"github.com/casbin/govaluate"
)

// Output formats for reports.
const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var validOutputs = []string{OutputAuto, OutputText, OutputJSON, OutputYAML}

var validLogLevels = []string{"debug", "info", "warning", "error"}

// Config is the effective configuration after defaults and all files have
// been merged.
type Config struct {
	LogLevel          string        `yaml:"log_level" json:"log_level"`
	Logging           LoggingConfig `yaml:"logging" json:"logging"`
	Output            string        `yaml:"output" json:"output"`
	SquareEdgeClasses []string      `yaml:"square_edge_classes" json:"square_edge_classes"`
	SquareEdgeRules   []string      `yaml:"square_edge_rules,omitempty" json:"square_edge_rules,omitempty"`
	TaskbarClass      string        `yaml:"taskbar_class" json:"taskbar_class"`
	// Fixture, when set, replaces the native window system with a YAML
	// fixture file.
	Fixture string `yaml:"fixture,omitempty" json:"fixture,omitempty"`
}

// LoggingConfig controls the optional log file. An empty File logs to
// stderr only.
type LoggingConfig struct {
	File      string `yaml:"file,omitempty" json:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Logging: LoggingConfig{
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Output:            OutputAuto,
		SquareEdgeClasses: slices.Clone(classify.DefaultSquareEdgeClasses),
		TaskbarClass:      taskbar.DefaultClass,
	}
}

// ClassifyOptions returns the classifier settings carried by c.
func (c *Config) ClassifyOptions() classify.Options {
	return classify.Options{
		SquareEdgeClasses: slices.Clone(c.SquareEdgeClasses),
		Rules:             slices.Clone(c.SquareEdgeRules),
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
// A leading ~ in the file path is expanded.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return DefaultConfig().Logging
	}
	cfg := c.Logging
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if strings.HasPrefix(cfg.File, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.File = filepath.Join(home, cfg.File[2:])
		}
	}
	return cfg
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: %s", strings.Join(validLogLevels, ", "))}
	}
	if !slices.Contains(validOutputs, c.Output) {
		return &ValidationError{Path: "output", Err: fmt.Errorf("output must be one of: %s", strings.Join(validOutputs, ", "))}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	if strings.TrimSpace(c.TaskbarClass) == "" {
		return &ValidationError{Path: "taskbar_class", Err: fmt.Errorf("taskbar_class must not be empty")}
	}
	for i, class := range c.SquareEdgeClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "square_edge_classes", Err: fmt.Errorf("entry %d is empty", i)}
		}
	}
	for i, rule := range c.SquareEdgeRules {
		if strings.TrimSpace(rule) == "" {
			return &ValidationError{Path: "square_edge_rules", Err: fmt.Errorf("rule %d is empty", i)}
		}
		if _, err := govaluate.NewEvaluableExpression(rule); err != nil {
			return &ValidationError{Path: "square_edge_rules", Err: fmt.Errorf("rule %d %q: %w", i, rule, err)}
		}
	}
	return nil
}

// ValidationError locates an invalid setting, with its file position when
// it came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
