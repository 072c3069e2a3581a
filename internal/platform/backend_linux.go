//go:build linux

package platform

import (
	"errors"
	"fmt"

	"github.com/1broseidon/wingeom/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// X11 has no registry or per-process DPI flag; these stand in for them.
const (
	x11DefaultDPI = 96
	x11DockClass  = "Shell_TrayWnd"
)

// LinuxBackend answers queries from an X11 connection using EWMH hints.
// Window-manager concepts are mapped onto the Windows style bits the
// resolvers understand.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Query = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewNativeBackend opens the X display and returns a backend with its
// close function.
func NewNativeBackend() (Query, func(), error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, conn.Close, nil
}

func (b *LinuxBackend) connection(op string) (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, Unavailable(op, errors.New("x11 backend connection is nil"))
	}
	return b.conn, nil
}

func (b *LinuxBackend) WindowStyle(h Handle) (Style, error) {
	conn, err := b.connection("WindowStyle")
	if err != nil {
		return 0, err
	}
	win := xproto.Window(h)
	overrideRedirect, err := conn.OverrideRedirect(win)
	if err != nil {
		return 0, Unavailable("WindowStyle", err)
	}
	states, err := conn.WindowStates(win)
	if err != nil {
		return 0, Unavailable("WindowStyle", err)
	}
	return styleFromX11(conn.WindowTypes(win), states, overrideRedirect, conn.GetFrameExtents(win)), nil
}

func (b *LinuxBackend) WindowExStyle(h Handle) (ExStyle, error) {
	conn, err := b.connection("WindowExStyle")
	if err != nil {
		return 0, err
	}
	win := xproto.Window(h)
	if _, err := conn.OverrideRedirect(win); err != nil {
		return 0, Unavailable("WindowExStyle", err)
	}
	states, err := conn.WindowStates(win)
	if err != nil {
		return 0, Unavailable("WindowExStyle", err)
	}
	return exStyleFromX11(conn.WindowTypes(win), states, conn.GetFrameExtents(win)), nil
}

// WindowRect returns the outer frame: client geometry grown by the
// decorations the window manager reports.
func (b *LinuxBackend) WindowRect(h Handle) (Rect, error) {
	conn, err := b.connection("WindowRect")
	if err != nil {
		return Rect{}, err
	}
	win := xproto.Window(h)
	x, y, w, hgt, err := conn.ClientGeometry(win)
	if err != nil {
		return Rect{}, Unavailable("WindowRect", err)
	}
	return outerRect(x, y, w, hgt, conn.GetFrameExtents(win)), nil
}

// ExtendedFrameRect returns the client geometry, the part of the window
// that is actually drawn by the client.
func (b *LinuxBackend) ExtendedFrameRect(h Handle) (Rect, error) {
	conn, err := b.connection("ExtendedFrameRect")
	if err != nil {
		return Rect{}, err
	}
	x, y, w, hgt, err := conn.ClientGeometry(xproto.Window(h))
	if err != nil {
		return Rect{}, Unavailable("ExtendedFrameRect", err)
	}
	return RectFromBounds(int32(x), int32(y), int32(w), int32(hgt)), nil
}

func (b *LinuxBackend) Placement(h Handle) (ShowCmd, error) {
	conn, err := b.connection("Placement")
	if err != nil {
		return 0, err
	}
	states, err := conn.WindowStates(xproto.Window(h))
	if err != nil {
		return 0, Unavailable("Placement", err)
	}
	return showCmdFromStates(states), nil
}

func (b *LinuxBackend) WorkArea(h Handle) (Rect, error) {
	conn, err := b.connection("WorkArea")
	if err != nil {
		return Rect{}, err
	}
	area, err := conn.WorkAreaForWindow(xproto.Window(h))
	if err != nil {
		return Rect{}, Unavailable("WorkArea", err)
	}
	return RectFromBounds(int32(area.X), int32(area.Y), int32(area.Width), int32(area.Height)), nil
}

func (b *LinuxBackend) ClassName(h Handle) (string, error) {
	conn, err := b.connection("ClassName")
	if err != nil {
		return "", err
	}
	class, err := conn.WindowClass(xproto.Window(h))
	if err != nil {
		return "", Unavailable("ClassName", err)
	}
	return class, nil
}

func (b *LinuxBackend) WindowText(h Handle) (string, error) {
	conn, err := b.connection("WindowText")
	if err != nil {
		return "", err
	}
	return conn.WindowTitle(xproto.Window(h)), nil
}

func (b *LinuxBackend) ProcessID(h Handle) (uint32, error) {
	conn, err := b.connection("ProcessID")
	if err != nil {
		return 0, err
	}
	pid, err := conn.WindowPID(xproto.Window(h))
	if err != nil || pid == 0 {
		return 0, Unavailable("ProcessID", err)
	}
	return pid, nil
}

// ProcessDPIAware always answers false: X11 clients scale themselves from
// Xft.dpi and carry no compatibility layers.
func (b *LinuxBackend) ProcessDPIAware(pid uint32) (bool, error) {
	return false, nil
}

func (b *LinuxBackend) SelfDPIAware() (bool, error) {
	return false, nil
}

// DPISetting reads Xft.dpi, defaulting to 96 when it is unset.
func (b *LinuxBackend) DPISetting() (int, error) {
	conn, err := b.connection("DPISetting")
	if err != nil {
		return 0, err
	}
	dpi, ok, err := conn.XftDPI()
	if err != nil || !ok {
		return x11DefaultDPI, nil
	}
	return dpi, nil
}

func (b *LinuxBackend) BorderWidthSetting() (string, error) {
	return "", Unavailable("BorderWidthSetting", errors.New("no border metric on X11"))
}

func (b *LinuxBackend) CompositionEnabled() (bool, error) {
	conn, err := b.connection("CompositionEnabled")
	if err != nil {
		return false, err
	}
	active, err := conn.CompositingActive()
	if err != nil {
		return false, Unavailable("CompositionEnabled", err)
	}
	return active, nil
}

// OSVersion reports a modern desktop so style detection takes the
// composition path.
func (b *LinuxBackend) OSVersion() (OSVersion, error) {
	return OSVersion{Major: 10, Minor: 0}, nil
}

func (b *LinuxBackend) ThemingEnabled() (bool, error) {
	return true, nil
}

// FindWindowByClass matches WM_CLASS. The Windows taskbar class is
// answered with the first dock window.
func (b *LinuxBackend) FindWindowByClass(class string) (Handle, error) {
	conn, err := b.connection("FindWindowByClass")
	if err != nil {
		return 0, err
	}
	if class == x11DockClass {
		docks, err := conn.DockWindows()
		if err != nil {
			return 0, Unavailable("FindWindowByClass", err)
		}
		if len(docks) == 0 {
			return 0, Unavailable("FindWindowByClass", errors.New("no dock window"))
		}
		return Handle(docks[0]), nil
	}
	win, err := conn.FindWindowByClass(class)
	if err != nil {
		return 0, Unavailable("FindWindowByClass", err)
	}
	return Handle(win), nil
}

// AppBarRect returns the geometry of the dock window h.
func (b *LinuxBackend) AppBarRect(h Handle) (Rect, error) {
	conn, err := b.connection("AppBarRect")
	if err != nil {
		return Rect{}, err
	}
	win := xproto.Window(h)
	if !x11.HasType(conn.WindowTypes(win), x11.TypeDock) {
		return Rect{}, Unavailable("AppBarRect", fmt.Errorf("window 0x%x is not a dock", uint32(win)))
	}
	x, y, w, hgt, err := conn.ClientGeometry(win)
	if err != nil {
		return Rect{}, Unavailable("AppBarRect", err)
	}
	return RectFromBounds(int32(x), int32(y), int32(w), int32(hgt)), nil
}

func (b *LinuxBackend) ForegroundWindow() (Handle, error) {
	conn, err := b.connection("ForegroundWindow")
	if err != nil {
		return 0, err
	}
	win, err := conn.GetActiveWindow()
	if err != nil || win == 0 {
		return 0, Unavailable("ForegroundWindow", err)
	}
	return Handle(win), nil
}

func showCmdFromStates(states []string) ShowCmd {
	var horz, vert bool
	for _, s := range states {
		switch s {
		case x11.StateHidden:
			return ShowMinimized
		case x11.StateMaximizedHorz:
			horz = true
		case x11.StateMaximizedVert:
			vert = true
		}
	}
	if horz && vert {
		return ShowMaximized
	}
	return ShowNormal
}

func styleFromX11(types, states []string, overrideRedirect bool, extents x11.FrameExtents) Style {
	var s Style
	if overrideRedirect || x11.HasType(types, x11.TypeDock, x11.TypeSplash, x11.TypeMenu) {
		s |= StylePopup
	}
	if !extents.IsZero() {
		s |= StyleBorder
	}
	if showCmdFromStates(states) == ShowMaximized {
		s |= StyleMaximize
	}
	return s
}

func exStyleFromX11(types, states []string, extents x11.FrameExtents) ExStyle {
	var ex ExStyle
	if x11.HasType(types, x11.TypeDialog) || x11.HasType(states, x11.StateModal) {
		ex |= ExStyleDialogModalFrame
	}
	if x11.HasType(types, x11.TypeUtility, x11.TypeToolbar) {
		ex |= ExStyleToolWindow
	}
	if !extents.IsZero() {
		ex |= ExStyleWindowEdge
	}
	return ex
}

func outerRect(x, y, w, h int, e x11.FrameExtents) Rect {
	return RectFromBounds(
		int32(x-e.Left),
		int32(y-e.Top),
		int32(w+e.Left+e.Right),
		int32(h+e.Top+e.Bottom),
	)
}
