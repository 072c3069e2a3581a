package config

import (
	"fmt"
	"strings"
)

// BuildEffectiveConfig applies raw settings on top of DefaultConfig. It does
// not validate; callers run Validate afterwards.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = normalizeLogLevel(*raw.LogLevel)
	}
	if raw.Logging != nil {
		if raw.Logging.File != nil {
			cfg.Logging.File = strings.TrimSpace(*raw.Logging.File)
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
	}
	if raw.Output != nil {
		cfg.Output = strings.ToLower(strings.TrimSpace(*raw.Output))
	}
	if raw.SquareEdgeClasses != nil {
		cfg.SquareEdgeClasses = raw.SquareEdgeClasses
	}
	if raw.SquareEdgeRules != nil {
		cfg.SquareEdgeRules = raw.SquareEdgeRules
	}
	if raw.TaskbarClass != nil {
		cfg.TaskbarClass = *raw.TaskbarClass
	}
	if raw.Fixture != nil {
		cfg.Fixture = *raw.Fixture
	}

	if len(cfg.SquareEdgeClasses) == 0 {
		return nil, &ValidationError{Path: "square_edge_classes", Err: fmt.Errorf("square_edge_classes must not be empty")}
	}
	return cfg, nil
}

// normalizeLogLevel accepts "warn" for "warning" and ignores case.
func normalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warn" {
		return "warning"
	}
	return level
}
