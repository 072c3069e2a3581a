package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	log_level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
//	output
//	square_edge_classes
//	square_edge_rules
//	taskbar_class
//	fixture
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// A value set through its parent mapping.
	if parent, _, ok := strings.Cut(path, "."); ok {
		if src, ok := res.Sources[parent]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "log_level":
		return cfg.LogLevel, nil
	case "logging":
		return cfg.Logging, nil
	case "logging.file":
		return cfg.Logging.File, nil
	case "logging.max_size_mb":
		return cfg.Logging.MaxSizeMB, nil
	case "logging.max_files":
		return cfg.Logging.MaxFiles, nil
	case "output":
		return cfg.Output, nil
	case "square_edge_classes":
		return cfg.SquareEdgeClasses, nil
	case "square_edge_rules":
		return cfg.SquareEdgeRules, nil
	case "taskbar_class":
		return cfg.TaskbarClass, nil
	case "fixture":
		return cfg.Fixture, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
