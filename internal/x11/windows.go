package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// FrameExtents holds the decoration sizes the window manager adds around
// a client window.
type FrameExtents struct {
	Left, Right, Top, Bottom int
}

// IsZero reports whether the window manager draws no decorations.
func (e FrameExtents) IsZero() bool {
	return e == FrameExtents{}
}

// ClientGeometry returns the client window position in root coordinates
// and its size.
func (c *Connection) ClientGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// GetFrameExtents returns the window decoration sizes. Windows without
// _NET_FRAME_EXTENTS report zero extents.
func (c *Connection) GetFrameExtents(windowID xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return FrameExtents{}
	}
	return FrameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

// WindowStates returns the _NET_WM_STATE atoms set on a window. A window
// without the property has no states; a failed read is an error.
func (c *Connection) WindowStates(windowID xproto.Window) ([]string, error) {
	atom, err := xprop.Atm(c.XUtil, "_NET_WM_STATE")
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, windowID, atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get _NET_WM_STATE: %w", err)
	}
	if propertyMissing(reply) {
		return nil, nil
	}
	return xprop.PropValAtoms(c.XUtil, reply, nil)
}

func propertyMissing(reply *xproto.GetPropertyReply) bool {
	return reply == nil || reply.Format == 0
}

// WindowTypes returns the _NET_WM_WINDOW_TYPE atoms set on a window.
// A window without the property has no types.
func (c *Connection) WindowTypes(windowID xproto.Window) []string {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return nil
	}
	return types
}

// OverrideRedirect reports whether the window bypasses the window manager.
func (c *Connection) OverrideRedirect(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, fmt.Errorf("failed to get window attributes: %w", err)
	}
	return attrs.OverrideRedirect, nil
}

// WindowClass returns the WM_CLASS class part of a window.
func (c *Connection) WindowClass(windowID xproto.Window) (string, error) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(wmClass.Class), nil
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowPID returns _NET_WM_PID.
func (c *Connection) WindowPID(windowID xproto.Window) (uint32, error) {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0, err
	}
	return uint32(pid), nil
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// DockWindows lists managed clients typed _NET_WM_WINDOW_TYPE_DOCK.
func (c *Connection) DockWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	var docks []xproto.Window
	for _, windowID := range clients {
		if HasType(c.WindowTypes(windowID), TypeDock) {
			docks = append(docks, windowID)
		}
	}
	return docks, nil
}

// FindWindowByClass searches the EWMH client list for the first window
// whose WM_CLASS instance or class equals class.
func (c *Connection) FindWindowByClass(class string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		wmClass, err := icccm.WmClassGet(c.XUtil, win)
		if err != nil {
			continue
		}
		if wmClass.Class == class || wmClass.Instance == class {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window found with class %q", class)
}

// EWMH window types and states inspected by the backend.
const (
	TypeDialog  = "_NET_WM_WINDOW_TYPE_DIALOG"
	TypeDock    = "_NET_WM_WINDOW_TYPE_DOCK"
	TypeSplash  = "_NET_WM_WINDOW_TYPE_SPLASH"
	TypeToolbar = "_NET_WM_WINDOW_TYPE_TOOLBAR"
	TypeUtility = "_NET_WM_WINDOW_TYPE_UTILITY"
	TypeMenu    = "_NET_WM_WINDOW_TYPE_MENU"

	StateModal         = "_NET_WM_STATE_MODAL"
	StateHidden        = "_NET_WM_STATE_HIDDEN"
	StateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	StateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
)

// HasType reports whether any of names appears in types.
func HasType(types []string, names ...string) bool {
	for _, t := range types {
		for _, n := range names {
			if t == n {
				return true
			}
		}
	}
	return false
}
