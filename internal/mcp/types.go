package mcp

import "github.com/1broseidon/wingeom/internal/platform"

// WindowInput selects a window by handle.
type WindowInput struct {
	HWND string `json:"hwnd" jsonschema:"required,Window handle in hex (0x1a2b) or decimal"`
}

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// GeometryOutput is the output for the resolve_geometry tool.
type GeometryOutput struct {
	HWND      string        `json:"hwnd"`
	Base      platform.Rect `json:"base"`
	Extended  platform.Rect `json:"extended"`
	Rect      platform.Rect `json:"rect"`
	Maximized bool          `json:"maximized"`
	Policy    string        `json:"policy"`
	Display   platform.Rect `json:"display"`
}

// ClassifyOutput is the output for the classify_window tool.
type ClassifyOutput struct {
	HWND         string `json:"hwnd"`
	Class        string `json:"class"`
	Maximized    bool   `json:"maximized"`
	SquareEdged  bool   `json:"square_edged"`
	Rule         string `json:"rule,omitempty"`
	DialogFramed bool   `json:"dialog_framed"`
	Border       bool   `json:"border"`
}

// DesktopOutput is the output for the inspect_desktop tool.
type DesktopOutput struct {
	Scale        float64       `json:"scale"`
	SelfDPIAware bool          `json:"self_dpi_aware"`
	VisualStyle  string        `json:"visual_style"`
	OS           string        `json:"os"`
	BorderWidth  float64       `json:"border_width"`
	Taskbar      string        `json:"taskbar"`
	TaskbarRect  platform.Rect `json:"taskbar_rect"`
	Foreground   string        `json:"foreground,omitempty"`
}

// TaskbarOutput is the output for the taskbar_edge tool.
type TaskbarOutput struct {
	Edge string        `json:"edge"`
	Rect platform.Rect `json:"rect"`
}

// VisualStyleOutput is the output for the visual_style tool.
type VisualStyleOutput struct {
	Mode        string  `json:"mode"`
	OS          string  `json:"os"`
	BorderWidth float64 `json:"border_width"`
}
