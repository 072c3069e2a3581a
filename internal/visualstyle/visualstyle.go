// Package visualstyle reports the desktop rendering mode, the operating
// system family and the configured window border width.
package visualstyle

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/1broseidon/wingeom/internal/platform"
)

// Mode is the desktop rendering mode.
type Mode int

const (
	Classic Mode = iota
	Basic
	Composited
)

func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case Basic:
		return "basic"
	case Composited:
		return "composited"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// OS is an operating system family. Win8 covers 8 and everything later.
type OS int

const (
	Unknown OS = iota
	WinXP
	WinVista
	Win7
	Win8
)

func (o OS) String() string {
	switch o {
	case WinXP:
		return "winxp"
	case WinVista:
		return "winvista"
	case Win7:
		return "win7"
	case Win8:
		return "win8"
	default:
		return "unknown"
	}
}

func (o OS) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// compositionMajor is the first OS major version with desktop composition.
const compositionMajor = 6

// Border widths in pixels when the metric cannot be read.
const (
	defaultBorderWidth     = 1.0
	defaultBorderWidthWin8 = 2.0
)

// Resolver reads visual style facts. Nothing is cached: composition can be
// toggled at runtime.
type Resolver struct {
	q      platform.Query
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(q platform.Query, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{q: q, logger: logger}
}

// Resolve returns the active rendering mode. Composition state is only
// queried on systems that support it; a failed query means Basic.
func (r *Resolver) Resolve() Mode {
	themed := r.themingEnabled()

	v, err := r.q.OSVersion()
	if err != nil {
		r.logger.Debug("os version unavailable", "error", err)
	}
	if err != nil || v.Major < compositionMajor {
		if themed {
			return Basic
		}
		return Classic
	}

	if !themed {
		return Classic
	}
	composited, err := r.q.CompositionEnabled()
	if err != nil {
		r.logger.Debug("composition state unavailable", "error", err)
		return Basic
	}
	if composited {
		return Composited
	}
	return Basic
}

func (r *Resolver) themingEnabled() bool {
	themed, err := r.q.ThemingEnabled()
	if err != nil {
		r.logger.Debug("theming state unavailable", "error", err)
		return false
	}
	return themed
}

// OperatingSystem returns the OS family, Unknown if the version cannot be
// read.
func (r *Resolver) OperatingSystem() OS {
	v, err := r.q.OSVersion()
	if err != nil {
		r.logger.Debug("os version unavailable", "error", err)
		return Unknown
	}
	return Family(v)
}

// Family maps a version to its OS family. Each family boundary is
// exclusive: a version must be later than major.minor itself, and a
// bare major.minor with build 0 does not qualify.
func Family(v platform.OSVersion) OS {
	switch {
	case after(v, 6, 2):
		return Win8
	case after(v, 6, 1):
		return Win7
	case after(v, 6, 0):
		return WinVista
	case after(v, 5, 0):
		return WinXP
	default:
		return Unknown
	}
}

func after(v platform.OSVersion, major, minor uint32) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Build > 0
}

// BorderWidth returns the window border width in pixels. The registry
// stores it in twips-like negative units whose divisor changed in Win8.
func (r *Resolver) BorderWidth() float64 {
	family := r.OperatingSystem()
	width := defaultBorderWidth
	if family == Win8 {
		width = defaultBorderWidthWin8
	}

	raw, err := r.q.BorderWidthSetting()
	if err != nil {
		r.logger.Debug("border width setting unavailable", "error", err)
		return width
	}
	return ParseBorderWidth(raw, family, width)
}

// ParseBorderWidth converts a raw BorderWidth metric. An unparsable value
// returns fallback.
func ParseBorderWidth(raw string, family OS, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if family == Win8 {
		return math.Abs(v) / 10
	}
	return math.Abs(v) / 15
}
