package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawLogging mirrors LoggingConfig with every field optional.
type RawLogging struct {
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is one YAML file as written. Nil fields were not set and
// leave earlier values in place when files are merged.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	LogLevel          *string     `yaml:"log_level"`
	Logging           *RawLogging `yaml:"logging"`
	Output            *string     `yaml:"output"`
	SquareEdgeClasses []string    `yaml:"square_edge_classes"`
	SquareEdgeRules   []string    `yaml:"square_edge_rules"`
	TaskbarClass      *string     `yaml:"taskbar_class"`
	Fixture           *string     `yaml:"fixture"`
}

// merge returns r overlaid with other. Lists are replaced, not appended.
func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.Logging != nil {
		out.Logging = mergeRawLogging(out.Logging, other.Logging)
	}
	if other.Output != nil {
		out.Output = other.Output
	}
	if other.SquareEdgeClasses != nil {
		out.SquareEdgeClasses = other.SquareEdgeClasses
	}
	if other.SquareEdgeRules != nil {
		out.SquareEdgeRules = other.SquareEdgeRules
	}
	if other.TaskbarClass != nil {
		out.TaskbarClass = other.TaskbarClass
	}
	if other.Fixture != nil {
		out.Fixture = other.Fixture
	}
	return out
}

func mergeRawLogging(base, overlay *RawLogging) *RawLogging {
	if base == nil {
		cp := *overlay
		return &cp
	}
	out := *base
	if overlay.File != nil {
		out.File = overlay.File
	}
	if overlay.MaxSizeMB != nil {
		out.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxFiles != nil {
		out.MaxFiles = overlay.MaxFiles
	}
	return &out
}
