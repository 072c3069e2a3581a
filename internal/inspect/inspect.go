// Package inspect assembles everything the resolvers know about a window or
// the desktop into serializable reports.
package inspect

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/wingeom/internal/classify"
	"github.com/1broseidon/wingeom/internal/dpi"
	"github.com/1broseidon/wingeom/internal/geometry"
	"github.com/1broseidon/wingeom/internal/platform"
	"github.com/1broseidon/wingeom/internal/taskbar"
	"github.com/1broseidon/wingeom/internal/visualstyle"
)

// Report describes one window. Facts that could not be read are zero.
type Report struct {
	Handle    string `json:"handle" yaml:"handle"`
	Class     string `json:"class" yaml:"class"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	PID       uint32 `json:"pid,omitempty" yaml:"pid,omitempty"`
	Maximized bool   `json:"maximized" yaml:"maximized"`

	SquareEdged    bool   `json:"square_edged" yaml:"square_edged"`
	SquareEdgeRule string `json:"square_edge_rule,omitempty" yaml:"square_edge_rule,omitempty"`
	DialogFramed   bool   `json:"dialog_framed" yaml:"dialog_framed"`
	Border         bool   `json:"border" yaml:"border"`
	DPIAware       bool   `json:"dpi_aware" yaml:"dpi_aware"`

	Geometry geometry.Resolution `json:"geometry" yaml:"geometry"`
	// Display is the resolved rect scaled up to display space; Comparison
	// is it scaled down to the caller's logical space.
	Display    platform.Rect `json:"display" yaml:"display"`
	Comparison platform.Rect `json:"comparison" yaml:"comparison"`
}

// DesktopReport describes desktop-wide state.
type DesktopReport struct {
	Scale        float64          `json:"scale" yaml:"scale"`
	SelfDPIAware bool             `json:"self_dpi_aware" yaml:"self_dpi_aware"`
	VisualStyle  visualstyle.Mode `json:"visual_style" yaml:"visual_style"`
	OS           visualstyle.OS   `json:"os" yaml:"os"`
	BorderWidth  float64          `json:"border_width" yaml:"border_width"`
	Taskbar      taskbar.Edge     `json:"taskbar" yaml:"taskbar"`
	TaskbarRect  platform.Rect    `json:"taskbar_rect" yaml:"taskbar_rect"`
	Foreground   string           `json:"foreground,omitempty" yaml:"foreground,omitempty"`
}

// Options configures an Inspector.
type Options struct {
	Classify     classify.Options
	TaskbarClass string
	Logger       *slog.Logger
}

// Inspector wires the resolvers over one platform.Query.
type Inspector struct {
	q        platform.Query
	classify *classify.Classifier
	dpi      *dpi.Resolver
	geometry *geometry.Resolver
	taskbar  *taskbar.Locator
	style    *visualstyle.Resolver
	logger   *slog.Logger
}

// New builds an Inspector. It fails only if the classifier rules do not
// compile.
func New(q platform.Query, opts Options) (*Inspector, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	copts := opts.Classify
	if copts.Logger == nil {
		copts.Logger = logger.With("component", "classify")
	}
	c, err := classify.New(q, copts)
	if err != nil {
		return nil, err
	}
	return &Inspector{
		q:        q,
		classify: c,
		dpi:      dpi.NewResolver(q, logger.With("component", "dpi")),
		geometry: geometry.NewResolver(q, c, logger.With("component", "geometry")),
		taskbar:  taskbar.NewLocator(q, opts.TaskbarClass, logger.With("component", "taskbar")),
		style:    visualstyle.NewResolver(q, logger.With("component", "visualstyle")),
		logger:   logger,
	}, nil
}

func (i *Inspector) Classifier() *classify.Classifier   { return i.classify }
func (i *Inspector) DPI() *dpi.Resolver                 { return i.dpi }
func (i *Inspector) Geometry() *geometry.Resolver       { return i.geometry }
func (i *Inspector) Taskbar() *taskbar.Locator          { return i.taskbar }
func (i *Inspector) VisualStyle() *visualstyle.Resolver { return i.style }

// FormatHandle renders a handle the way Windows tools print HWNDs.
func FormatHandle(h platform.Handle) string {
	return fmt.Sprintf("0x%x", uintptr(h))
}

// Window reports on h. Every fact is read independently; a window that
// changes during the call may produce a mixed report.
func (i *Inspector) Window(h platform.Handle) Report {
	r := Report{Handle: FormatHandle(h)}

	if class, err := i.q.ClassName(h); err == nil {
		r.Class = class
	}
	if title, err := i.q.WindowText(h); err == nil {
		r.Title = title
	}
	if pid, err := i.q.ProcessID(h); err == nil {
		r.PID = pid
	}

	r.Maximized = i.classify.IsMaximized(h)
	r.SquareEdgeRule = i.classify.Explain(h)
	r.SquareEdged = r.SquareEdgeRule != ""
	r.DialogFramed = i.classify.IsDialogFramed(h)
	r.Border = i.classify.HasNonClientBorder(h)
	r.DPIAware = i.dpi.IsTargetAware(h)

	r.Geometry = i.geometry.ResolveDetailed(h)
	r.Display = i.dpi.ExpandForDisplay(r.Geometry.Rect)
	r.Comparison = i.dpi.ShrinkForComparison(r.Geometry.Rect, h)

	i.logger.Debug("window inspected", "hwnd", r.Handle, "class", r.Class, "policy", string(r.Geometry.Policy))
	return r
}

// Foreground reports on the foreground window.
func (i *Inspector) Foreground() (Report, error) {
	h, err := i.q.ForegroundWindow()
	if err != nil {
		return Report{}, fmt.Errorf("no foreground window: %w", err)
	}
	return i.Window(h), nil
}

// Desktop reports desktop-wide facts.
func (i *Inspector) Desktop() DesktopReport {
	d := DesktopReport{
		Scale:        float64(i.dpi.ScaleFactor()),
		SelfDPIAware: i.dpi.SelfAware(),
		VisualStyle:  i.style.Resolve(),
		OS:           i.style.OperatingSystem(),
		BorderWidth:  i.style.BorderWidth(),
		TaskbarRect:  i.taskbar.Rect(),
	}
	d.Taskbar = taskbar.EdgeFor(d.TaskbarRect)
	if h, err := i.q.ForegroundWindow(); err == nil {
		d.Foreground = FormatHandle(h)
	}
	return d
}
