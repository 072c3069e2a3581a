// Package classify derives structural facts about a window from its style
// bits, class name and placement.
package classify

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/1broseidon/wingeom/internal/platform"
	"github.com/casbin/govaluate"
)

// DefaultSquareEdgeClasses lists window classes drawn without rounded
// corners regardless of style. UIX Render Window is a legacy 3D renderer.
var DefaultSquareEdgeClasses = []string{"UIX Render Window"}

// Facts is one read of the inputs to the square-edge table.
type Facts struct {
	ToolWindow bool
	WindowEdge bool
	Popup      bool
	Border     bool
	Dialog     bool
	Class      string
	Maximized  bool
}

func (f Facts) parameters() map[string]interface{} {
	return map[string]interface{}{
		"toolwindow": f.ToolWindow,
		"windowedge": f.WindowEdge,
		"popup":      f.Popup,
		"border":     f.Border,
		"dialog":     f.Dialog,
		"class":      f.Class,
		"maximized":  f.Maximized,
	}
}

// Rule is one row of the square-edge decision table.
type Rule struct {
	Name  string
	Match func(Facts) bool
	// Expr is set for rows compiled from configuration.
	Expr string
}

// Options configures a Classifier.
type Options struct {
	// SquareEdgeClasses replaces DefaultSquareEdgeClasses when non-empty.
	SquareEdgeClasses []string
	// Rules are extra boolean expressions over toolwindow, windowedge,
	// popup, border, dialog, class and maximized. A window matching any
	// of them is square-edged.
	Rules  []string
	Logger *slog.Logger
}

// Classifier answers per-window predicates. Each predicate queries the
// platform independently, so two calls on the same window may observe
// different states if the window changes in between.
type Classifier struct {
	q       platform.Query
	classes []string
	rules   []Rule
	logger  *slog.Logger
}

// New builds a Classifier. It fails only when a configured rule does not
// compile.
func New(q platform.Query, opts Options) (*Classifier, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	classes := opts.SquareEdgeClasses
	if len(classes) == 0 {
		classes = DefaultSquareEdgeClasses
	}

	c := &Classifier{
		q:       q,
		classes: slices.Clone(classes),
		logger:  logger,
	}
	c.rules = []Rule{
		{Name: "maximized", Match: func(f Facts) bool { return f.Maximized }},
		{Name: "toolwindow-without-edge", Match: func(f Facts) bool { return f.ToolWindow && !f.WindowEdge }},
		{Name: "popup-without-edge", Match: func(f Facts) bool { return f.Popup && !f.WindowEdge }},
		{Name: "square-edge-class", Match: func(f Facts) bool { return slices.Contains(c.classes, f.Class) }},
	}

	for i, src := range opts.Rules {
		rule, err := compileRule(fmt.Sprintf("rule[%d]", i), src, logger)
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, rule)
	}
	return c, nil
}

func compileRule(name, src string, logger *slog.Logger) (Rule, error) {
	expr, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return Rule{}, fmt.Errorf("square edge %s %q: %w", name, src, err)
	}
	return Rule{
		Name: name,
		Expr: src,
		Match: func(f Facts) bool {
			v, err := expr.Evaluate(f.parameters())
			if err != nil {
				logger.Warn("square edge rule failed", "rule", name, "expr", src, "error", err)
				return false
			}
			b, ok := v.(bool)
			if !ok {
				logger.Warn("square edge rule is not boolean", "rule", name, "expr", src, "value", v)
				return false
			}
			return b
		},
	}, nil
}

// Rules returns the square-edge decision table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return slices.Clone(c.rules)
}

// IsMaximized reports whether the placement show-state is exactly
// maximized. Rectangle comparison against the work area is not used.
func (c *Classifier) IsMaximized(h platform.Handle) bool {
	cmd, err := c.q.Placement(h)
	if err != nil {
		c.logger.Debug("placement unavailable", "hwnd", uintptr(h), "error", err)
		return false
	}
	return cmd == platform.ShowMaximized
}

// IsSquareEdged reports whether the window renders without rounded or
// bordered edges.
func (c *Classifier) IsSquareEdged(h platform.Handle) bool {
	return c.Explain(h) != ""
}

// Explain returns the name of the first decision-table row matching h, or
// "" when the window has regular edges.
func (c *Classifier) Explain(h platform.Handle) string {
	if c.IsMaximized(h) {
		return c.rules[0].Name
	}
	f := c.facts(h)
	for _, rule := range c.rules[1:] {
		if rule.Match(f) {
			return rule.Name
		}
	}
	return ""
}

// facts reads style bits and class name; unreadable values are zero.
func (c *Classifier) facts(h platform.Handle) Facts {
	var f Facts
	if style, err := c.q.WindowStyle(h); err == nil {
		f.Popup = style.Has(platform.StylePopup)
		f.Border = style.Has(platform.StyleBorder)
	} else {
		c.logger.Debug("style unavailable", "hwnd", uintptr(h), "error", err)
	}
	if ex, err := c.q.WindowExStyle(h); err == nil {
		f.ToolWindow = ex.Has(platform.ExStyleToolWindow)
		f.WindowEdge = ex.Has(platform.ExStyleWindowEdge)
		f.Dialog = ex.Has(platform.ExStyleDialogModalFrame)
	} else {
		c.logger.Debug("ex style unavailable", "hwnd", uintptr(h), "error", err)
	}
	if class, err := c.q.ClassName(h); err == nil {
		f.Class = class
	} else {
		c.logger.Debug("class name unavailable", "hwnd", uintptr(h), "error", err)
	}
	return f
}

// IsDialogFramed reports whether WS_EX_DLGMODALFRAME is set.
func (c *Classifier) IsDialogFramed(h platform.Handle) bool {
	ex, err := c.q.WindowExStyle(h)
	if err != nil {
		return false
	}
	return ex.Has(platform.ExStyleDialogModalFrame)
}

// HasNonClientBorder reports whether WS_BORDER is set.
func (c *Classifier) HasNonClientBorder(h platform.Handle) bool {
	style, err := c.q.WindowStyle(h)
	if err != nil {
		return false
	}
	return style.Has(platform.StyleBorder)
}
