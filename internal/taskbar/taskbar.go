// Package taskbar determines which screen edge hosts the system taskbar.
package taskbar

import (
	"log/slog"

	"github.com/1broseidon/wingeom/internal/platform"
)

// DefaultClass is the window class of the Windows taskbar.
const DefaultClass = "Shell_TrayWnd"

// Edge is the screen edge a taskbar is docked to.
type Edge int

const (
	Left Edge = iota
	Top
	Right
	Bottom
)

func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

func (e Edge) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// EdgeFor classifies an app-bar rectangle. The comparisons are between
// coordinates, not sizes: a bar docked left starts at the origin and is
// taller than it is wide. Anything matching no branch is Right.
func EdgeFor(r platform.Rect) Edge {
	switch {
	case r.Top == r.Left && r.Bottom > r.Right:
		return Left
	case r.Top == r.Left && r.Bottom < r.Right:
		return Top
	case r.Top > r.Left:
		return Bottom
	default:
		return Right
	}
}

// Locator finds the taskbar through the platform.
type Locator struct {
	q      platform.Query
	class  string
	logger *slog.Logger
}

// NewLocator creates a Locator searching for windows of class. An empty
// class means DefaultClass; a nil logger discards output.
func NewLocator(q platform.Query, class string, logger *slog.Logger) *Locator {
	if class == "" {
		class = DefaultClass
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{q: q, class: class, logger: logger}
}

// Rect returns the taskbar's app-bar rectangle, or the zero rectangle when
// the taskbar cannot be found.
func (l *Locator) Rect() platform.Rect {
	h, err := l.q.FindWindowByClass(l.class)
	if err != nil {
		l.logger.Debug("taskbar window unavailable", "class", l.class, "error", err)
		return platform.Rect{}
	}
	r, err := l.q.AppBarRect(h)
	if err != nil {
		l.logger.Debug("app-bar rect unavailable", "hwnd", uintptr(h), "error", err)
		return platform.Rect{}
	}
	return r
}

// Locate returns the edge hosting the taskbar. A failed query yields the
// zero rectangle, which classifies as Right.
func (l *Locator) Locate() Edge {
	return EdgeFor(l.Rect())
}
