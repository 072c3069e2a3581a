package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Handle is an opaque native window handle. Handles are borrowed from the
// window system; nothing in this module creates or destroys them.
type Handle uintptr

// Rect describes a rectangular region in screen pixels.
// A zero Rect means "unknown/empty".
type Rect struct {
	Left   int32 `json:"left" yaml:"left"`
	Top    int32 `json:"top" yaml:"top"`
	Right  int32 `json:"right" yaml:"right"`
	Bottom int32 `json:"bottom" yaml:"bottom"`
}

// RectFromBounds builds a Rect from an origin and a size.
func RectFromBounds(x, y, width, height int32) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("{X=%d,Y=%d,Width=%d,Height=%d}", r.Left, r.Top, r.Width(), r.Height())
}

// Style holds the GWL_STYLE bits of a window.
type Style uint32

// ExStyle holds the GWL_EXSTYLE bits of a window.
type ExStyle uint32

// Only the bits used for classification are named.
const (
	StyleBorder   Style = 0x00800000
	StyleMaximize Style = 0x01000000
	StylePopup    Style = 0x80000000

	ExStyleDialogModalFrame ExStyle = 0x00000001
	ExStyleToolWindow       ExStyle = 0x00000080
	ExStyleWindowEdge       ExStyle = 0x00000100
)

func (s Style) Has(bit Style) bool     { return s&bit != 0 }
func (s ExStyle) Has(bit ExStyle) bool { return s&bit != 0 }

// ShowCmd is the show-state reported by the window placement.
type ShowCmd uint32

const (
	ShowHidden    ShowCmd = 0
	ShowNormal    ShowCmd = 1
	ShowMinimized ShowCmd = 2
	ShowMaximized ShowCmd = 3
)

// OSVersion is the running operating system version.
type OSVersion struct {
	Major uint32 `json:"major" yaml:"major"`
	Minor uint32 `json:"minor" yaml:"minor"`
	Build uint32 `json:"build" yaml:"build"`
}

func (v OSVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// ErrUnavailable is wrapped by every failed query: the handle is gone,
// access was denied, or the API does not exist on this system.
var ErrUnavailable = errors.New("platform query unavailable")

// Unavailable wraps ErrUnavailable with the failing operation and an
// optional cause.
func Unavailable(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, cause)
}

// HighDPIAwareLayer is the compatibility layer token that marks a process
// as DPI aware.
const HighDPIAwareLayer = "HIGHDPIAWARE"

// HasHighDPIAwareLayer reports whether a compatibility layer string lists
// the HIGHDPIAWARE token.
func HasHighDPIAwareLayer(layers string) bool {
	for _, tok := range strings.Fields(layers) {
		if tok == HighDPIAwareLayer {
			return true
		}
	}
	return false
}

// Query abstracts the read-only window-system facts the resolvers need.
// Every method is a fresh read of live state; failures wrap ErrUnavailable.
type Query interface {
	WindowStyle(h Handle) (Style, error)
	WindowExStyle(h Handle) (ExStyle, error)
	WindowRect(h Handle) (Rect, error)
	ExtendedFrameRect(h Handle) (Rect, error)
	Placement(h Handle) (ShowCmd, error)
	// WorkArea returns the work area of the monitor containing h.
	WorkArea(h Handle) (Rect, error)
	ClassName(h Handle) (string, error)
	WindowText(h Handle) (string, error)
	ProcessID(h Handle) (uint32, error)
	ProcessDPIAware(pid uint32) (bool, error)
	SelfDPIAware() (bool, error)
	DPISetting() (int, error)
	// BorderWidthSetting returns the raw window-metrics border width value.
	BorderWidthSetting() (string, error)
	CompositionEnabled() (bool, error)
	OSVersion() (OSVersion, error)
	ThemingEnabled() (bool, error)
	FindWindowByClass(class string) (Handle, error)
	AppBarRect(h Handle) (Rect, error)
	ForegroundWindow() (Handle, error)
}
