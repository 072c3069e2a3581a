// Package geometry reconciles the rectangles a window system reports for a
// window into one authoritative on-screen rectangle.
package geometry

import (
	"log/slog"

	"github.com/1broseidon/wingeom/internal/platform"
)

// Policy names the reconciliation branch that produced a rectangle.
type Policy string

const (
	// PolicyEqual: base and extended agree.
	PolicyEqual Policy = "equal"
	// PolicyBaseLarger: base exceeds extended on both axes; keep base.
	PolicyBaseLarger Policy = "base-larger"
	// PolicyExtendedLarger: base under-reports on both axes; adopt extended.
	PolicyExtendedLarger Policy = "extended-larger"
	// PolicyMixedKeepBase: base is larger on one axis and smaller on the
	// other. No principled answer exists, so base is kept.
	PolicyMixedKeepBase Policy = "mixed-keep-base"
	// PolicyUnavailable: the base rectangle could not be read.
	PolicyUnavailable Policy = "unavailable"
)

// Maximizer is the part of the classifier the resolver depends on.
type Maximizer interface {
	IsMaximized(h platform.Handle) bool
}

// Resolution carries every rectangle considered by Resolve.
type Resolution struct {
	Base      platform.Rect `json:"base" yaml:"base"`
	Extended  platform.Rect `json:"extended" yaml:"extended"`
	Rect      platform.Rect `json:"rect" yaml:"rect"`
	Maximized bool          `json:"maximized" yaml:"maximized"`
	Policy    Policy        `json:"policy" yaml:"policy"`
}

// Resolver computes authoritative window rectangles. It applies no DPI
// correction.
type Resolver struct {
	q      platform.Query
	maxer  Maximizer
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(q platform.Query, maxer Maximizer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{q: q, maxer: maxer, logger: logger}
}

// Resolve returns the authoritative screen rectangle of h, or the zero
// rectangle when it cannot be read.
func (r *Resolver) Resolve(h platform.Handle) platform.Rect {
	return r.ResolveDetailed(h).Rect
}

// ResolveDetailed is Resolve with the intermediate rectangles and the
// policy that chose the result.
func (r *Resolver) ResolveDetailed(h platform.Handle) Resolution {
	res := Resolution{Maximized: r.maxer.IsMaximized(h)}

	var err error
	if res.Maximized {
		res.Base, err = r.q.WorkArea(h)
	} else {
		res.Base, err = r.q.WindowRect(h)
	}
	if err != nil {
		r.logger.Debug("base rect unavailable", "hwnd", uintptr(h), "maximized", res.Maximized, "error", err)
		res.Policy = PolicyUnavailable
		res.Base = platform.Rect{}
		return res
	}

	res.Extended, err = r.q.ExtendedFrameRect(h)
	if err != nil {
		// A zero extended rect is smaller on both axes than any real base.
		r.logger.Debug("extended frame unavailable", "hwnd", uintptr(h), "error", err)
		res.Extended = platform.Rect{}
	}

	res.Rect, res.Policy = Reconcile(res.Base, res.Extended)
	r.logger.Debug("geometry resolved", "hwnd", uintptr(h), "policy", string(res.Policy), "rect", res.Rect.String())
	return res
}

// Reconcile chooses between a base rectangle and the extended frame bounds
// by comparing their sizes.
func Reconcile(base, extended platform.Rect) (platform.Rect, Policy) {
	bw, bh := base.Width(), base.Height()
	ew, eh := extended.Width(), extended.Height()

	switch {
	case base == extended:
		return base, PolicyEqual
	case bw > ew && bh > eh:
		return base, PolicyBaseLarger
	case bw < ew && bh < eh:
		return extended, PolicyExtendedLarger
	default:
		return base, PolicyMixedKeepBase
	}
}
