// Package dpi computes the system DPI scale factor and converts rectangles
// between the coordinate spaces seen by DPI-aware and DPI-unaware processes.
package dpi

import (
	"log/slog"
	"math"

	"github.com/1broseidon/wingeom/internal/platform"
	"golang.org/x/exp/constraints"
)

// BaseDPI is the DPI at which no scaling is applied.
const BaseDPI = 96

// Scale is a DPI scale factor; 1.0 means 96 DPI.
type Scale float64

// Resolver answers DPI questions against live platform state. Nothing is
// cached; every call reads the platform afresh.
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

// ScaleFactor returns the global DPI setting divided by 96. An unreadable
// or non-positive setting yields 1.0.
func (r *Resolver) ScaleFactor() Scale {
	setting, err := r.q.DPISetting()
	if err != nil {
		r.logger.Debug("dpi setting unavailable", "error", err)
		return 1.0
	}
	if setting <= 0 {
		r.logger.Debug("ignoring non-positive dpi setting", "setting", setting)
		return 1.0
	}
	return Scale(float64(setting) / BaseDPI)
}

// IsTargetAware reports whether the process owning h opted into high-DPI
// awareness. Any failure counts as not aware.
func (r *Resolver) IsTargetAware(h platform.Handle) bool {
	pid, err := r.q.ProcessID(h)
	if err != nil {
		r.logger.Debug("target pid unavailable", "hwnd", uintptr(h), "error", err)
		return false
	}
	aware, err := r.q.ProcessDPIAware(pid)
	if err != nil {
		r.logger.Debug("target dpi awareness unavailable", "pid", pid, "error", err)
		return false
	}
	return aware
}

// SelfAware reports whether the calling process is DPI aware. Failure
// counts as not aware.
func (r *Resolver) SelfAware() bool {
	aware, err := r.q.SelfDPIAware()
	if err != nil {
		r.logger.Debug("self dpi awareness unavailable", "error", err)
		return false
	}
	return aware
}

// ExpandForDisplay scales a rectangle from unaware coordinates up to
// display coordinates.
func (r *Resolver) ExpandForDisplay(rect platform.Rect) platform.Rect {
	scale := r.ScaleFactor()
	out := Expand(rect, scale)
	if out != rect {
		r.logger.Debug("dpi adjusted", "direction", "expand", "scale", float64(scale), "from", rect.String(), "to", out.String())
	}
	return out
}

// ShrinkForComparison scales a rectangle down to unaware coordinates unless
// both this process and the target are DPI aware, in which case the
// rectangle is already in matching space and is returned unchanged.
func (r *Resolver) ShrinkForComparison(rect platform.Rect, h platform.Handle) platform.Rect {
	if r.SelfAware() && r.IsTargetAware(h) {
		return rect
	}
	scale := r.ScaleFactor()
	out := Shrink(rect, scale)
	if out != rect {
		r.logger.Debug("dpi adjusted", "direction", "shrink", "hwnd", uintptr(h), "scale", float64(scale), "from", rect.String(), "to", out.String())
	}
	return out
}

// Expand multiplies origin and size by scale. Results truncate toward zero
// and saturate at the int32 range.
func Expand(rect platform.Rect, scale Scale) platform.Rect {
	return scaleRect(rect, func(v float64) float64 { return v * float64(scale) })
}

// Shrink divides origin and size by scale. A non-positive scale leaves the
// rectangle unchanged.
func Shrink(rect platform.Rect, scale Scale) platform.Rect {
	if scale <= 0 {
		return rect
	}
	return scaleRect(rect, func(v float64) float64 { return v / float64(scale) })
}

// scaleRect applies f to origin and size separately, so edges follow from
// the truncated origin plus the truncated size.
func scaleRect(rect platform.Rect, f func(float64) float64) platform.Rect {
	left := saturate[int32](f(float64(rect.Left)))
	top := saturate[int32](f(float64(rect.Top)))
	width := saturate[int32](f(float64(rect.Right) - float64(rect.Left)))
	height := saturate[int32](f(float64(rect.Bottom) - float64(rect.Top)))
	return platform.Rect{
		Left:   left,
		Top:    top,
		Right:  saturate[int32](float64(left) + float64(width)),
		Bottom: saturate[int32](float64(top) + float64(height)),
	}
}

// saturate truncates v toward zero and clamps it to the range of T. NaN
// becomes zero.
func saturate[T constraints.Integer](v float64) T {
	lo, hi := limits[T]()
	switch {
	case math.IsNaN(v):
		return 0
	case v <= float64(lo):
		return lo
	case v >= float64(hi):
		return hi
	}
	return T(v)
}

func limits[T constraints.Integer]() (lo, hi T) {
	if hi = ^T(0); hi > 0 {
		return 0, hi
	}
	hi = 1
	for n := hi<<1 | 1; n > hi; n = hi<<1 | 1 {
		hi = n
	}
	return -hi - 1, hi
}
