//go:build windows

package platform

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/dblohm7/wingoes"
	"github.com/tailscale/win"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	moddwmapi  = windows.NewLazySystemDLL("dwmapi.dll")
	moduser32  = windows.NewLazySystemDLL("user32.dll")
	moduxtheme = windows.NewLazySystemDLL("uxtheme.dll")

	procDwmIsCompositionEnabled = moddwmapi.NewProc("DwmIsCompositionEnabled")
	procFindWindowW             = moduser32.NewProc("FindWindowW")
	procIsProcessDPIAware       = moduser32.NewProc("IsProcessDPIAware")
	procIsAppThemed             = moduxtheme.NewProc("IsAppThemed")
)

// DWMWA_EXTENDED_FRAME_BOUNDS
const dwmwaExtendedFrameBounds win.DWMWINDOWATTRIBUTE = 9

const (
	compatLayersKey  = `Software\Microsoft\Windows NT\CurrentVersion\AppCompatFlags\Layers`
	desktopKey       = `Control Panel\Desktop`
	windowMetricsKey = `Control Panel\Desktop\WindowMetrics`

	defaultLogPixels = 96
	maxClassName     = 256
)

// WindowsBackend answers queries with user32, dwmapi, uxtheme and the
// per-user registry.
type WindowsBackend struct{}

var _ Query = (*WindowsBackend)(nil)

// NewWindowsBackend creates the native Windows backend.
func NewWindowsBackend() *WindowsBackend {
	return &WindowsBackend{}
}

// NewNativeBackend returns the backend for the running platform.
func NewNativeBackend() (Query, func(), error) {
	return NewWindowsBackend(), func() {}, nil
}

func (b *WindowsBackend) checkWindow(op string, h Handle) (win.HWND, error) {
	if h == 0 || !windows.IsWindow(windows.HWND(h)) {
		return 0, Unavailable(op, fmt.Errorf("invalid window 0x%x", uintptr(h)))
	}
	return win.HWND(h), nil
}

func (b *WindowsBackend) WindowStyle(h Handle) (Style, error) {
	hwnd, err := b.checkWindow("WindowStyle", h)
	if err != nil {
		return 0, err
	}
	return Style(uint32(win.GetWindowLongPtr(hwnd, win.GWL_STYLE))), nil
}

func (b *WindowsBackend) WindowExStyle(h Handle) (ExStyle, error) {
	hwnd, err := b.checkWindow("WindowExStyle", h)
	if err != nil {
		return 0, err
	}
	return ExStyle(uint32(win.GetWindowLongPtr(hwnd, win.GWL_EXSTYLE))), nil
}

func (b *WindowsBackend) WindowRect(h Handle) (Rect, error) {
	hwnd, err := b.checkWindow("WindowRect", h)
	if err != nil {
		return Rect{}, err
	}
	var r win.RECT
	if !win.GetWindowRect(hwnd, &r) {
		return Rect{}, Unavailable("WindowRect", windows.GetLastError())
	}
	return rectFromRECT(r), nil
}

// ExtendedFrameRect asks DWM for the visible frame bounds. dwmapi.dll does
// not exist before Vista, so it is probed before use.
func (b *WindowsBackend) ExtendedFrameRect(h Handle) (Rect, error) {
	hwnd, err := b.checkWindow("ExtendedFrameRect", h)
	if err != nil {
		return Rect{}, err
	}
	if err := moddwmapi.Load(); err != nil {
		return Rect{}, Unavailable("ExtendedFrameRect", err)
	}
	var r win.RECT
	if hr := win.DwmGetWindowAttribute(hwnd, dwmwaExtendedFrameBounds, unsafe.Pointer(&r), uint32(unsafe.Sizeof(r))); win.FAILED(hr) {
		return Rect{}, Unavailable("ExtendedFrameRect", fmt.Errorf("HRESULT 0x%08x", uint32(hr)))
	}
	return rectFromRECT(r), nil
}

func (b *WindowsBackend) Placement(h Handle) (ShowCmd, error) {
	hwnd, err := b.checkWindow("Placement", h)
	if err != nil {
		return 0, err
	}
	var wp win.WINDOWPLACEMENT
	wp.Length = uint32(unsafe.Sizeof(wp))
	if !win.GetWindowPlacement(hwnd, &wp) {
		return 0, Unavailable("Placement", windows.GetLastError())
	}
	return ShowCmd(wp.ShowCmd), nil
}

func (b *WindowsBackend) WorkArea(h Handle) (Rect, error) {
	hwnd, err := b.checkWindow("WorkArea", h)
	if err != nil {
		return Rect{}, err
	}
	hmon := win.MonitorFromWindow(hwnd, win.MONITOR_DEFAULTTONEAREST)
	if hmon == 0 {
		return Rect{}, Unavailable("WorkArea", errors.New("no monitor for window"))
	}
	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(hmon, &mi) {
		return Rect{}, Unavailable("WorkArea", windows.GetLastError())
	}
	return rectFromRECT(mi.RcWork), nil
}

func (b *WindowsBackend) ClassName(h Handle) (string, error) {
	if _, err := b.checkWindow("ClassName", h); err != nil {
		return "", err
	}
	buf := make([]uint16, maxClassName)
	n, err := windows.GetClassName(windows.HWND(h), &buf[0], int32(len(buf)))
	if err != nil {
		return "", Unavailable("ClassName", err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

func (b *WindowsBackend) WindowText(h Handle) (string, error) {
	hwnd, err := b.checkWindow("WindowText", h)
	if err != nil {
		return "", err
	}
	n := win.GetWindowTextLength(hwnd)
	if n <= 0 {
		return "", nil
	}
	buf := make([]uint16, n+1)
	got := win.GetWindowText(hwnd, &buf[0], int32(len(buf)))
	return windows.UTF16ToString(buf[:got]), nil
}

func (b *WindowsBackend) ProcessID(h Handle) (uint32, error) {
	if _, err := b.checkWindow("ProcessID", h); err != nil {
		return 0, err
	}
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid); err != nil {
		return 0, Unavailable("ProcessID", err)
	}
	if pid == 0 {
		return 0, Unavailable("ProcessID", nil)
	}
	return pid, nil
}

// ProcessDPIAware reads the per-user compatibility layers recorded for the
// process image and looks for the HIGHDPIAWARE token.
func (b *WindowsBackend) ProcessDPIAware(pid uint32) (bool, error) {
	image, err := processImagePath(pid)
	if err != nil {
		return false, Unavailable("ProcessDPIAware", err)
	}

	k, err := registry.OpenKey(registry.CURRENT_USER, compatLayersKey, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, Unavailable("ProcessDPIAware", err)
	}
	defer k.Close()

	layers, _, err := k.GetStringValue(image)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, Unavailable("ProcessDPIAware", err)
	}
	return HasHighDPIAwareLayer(layers), nil
}

func processImagePath(pid uint32) (string, error) {
	proc, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(proc)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(proc, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("query image name of %d: %w", pid, err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (b *WindowsBackend) SelfDPIAware() (bool, error) {
	if err := procIsProcessDPIAware.Find(); err != nil {
		return false, Unavailable("SelfDPIAware", err)
	}
	r, _, _ := procIsProcessDPIAware.Call()
	return r != 0, nil
}

// DPISetting reads LogPixels; an absent value means the 96 DPI default.
func (b *WindowsBackend) DPISetting() (int, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, desktopKey, registry.QUERY_VALUE)
	if err != nil {
		return 0, Unavailable("DPISetting", err)
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("LogPixels")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return defaultLogPixels, nil
		}
		return 0, Unavailable("DPISetting", err)
	}
	return int(v), nil
}

// BorderWidthSetting returns the WindowMetrics BorderWidth string. Windows 11
// draws a fixed DWM frame that ignores this metric.
func (b *WindowsBackend) BorderWidthSetting() (string, error) {
	if wingoes.IsWin11OrGreater() {
		return "", Unavailable("BorderWidthSetting", errors.New("frame metrics are fixed on Windows 11"))
	}
	k, err := registry.OpenKey(registry.CURRENT_USER, windowMetricsKey, registry.QUERY_VALUE)
	if err != nil {
		return "", Unavailable("BorderWidthSetting", err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue("BorderWidth")
	if err != nil {
		return "", Unavailable("BorderWidthSetting", err)
	}
	return v, nil
}

func (b *WindowsBackend) CompositionEnabled() (bool, error) {
	if err := procDwmIsCompositionEnabled.Find(); err != nil {
		return false, Unavailable("CompositionEnabled", err)
	}
	var enabled int32 // Win32 BOOL
	hr, _, _ := procDwmIsCompositionEnabled.Call(uintptr(unsafe.Pointer(&enabled)))
	if int32(hr) < 0 {
		return false, Unavailable("CompositionEnabled", fmt.Errorf("HRESULT 0x%08x", uint32(hr)))
	}
	return enabled != 0, nil
}

func (b *WindowsBackend) OSVersion() (OSVersion, error) {
	v := windows.RtlGetVersion()
	if v == nil {
		return OSVersion{}, Unavailable("OSVersion", nil)
	}
	return OSVersion{Major: v.MajorVersion, Minor: v.MinorVersion, Build: v.BuildNumber}, nil
}

func (b *WindowsBackend) ThemingEnabled() (bool, error) {
	if err := procIsAppThemed.Find(); err != nil {
		return false, Unavailable("ThemingEnabled", err)
	}
	r, _, _ := procIsAppThemed.Call()
	return r != 0, nil
}

func (b *WindowsBackend) FindWindowByClass(class string) (Handle, error) {
	cls, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0, Unavailable("FindWindowByClass", err)
	}
	r, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(cls)), 0)
	if r == 0 {
		return 0, Unavailable("FindWindowByClass", fmt.Errorf("no window of class %q", class))
	}
	return Handle(r), nil
}

// AppBarRect asks the shell for the position of the taskbar h.
func (b *WindowsBackend) AppBarRect(h Handle) (Rect, error) {
	hwnd, err := b.checkWindow("AppBarRect", h)
	if err != nil {
		return Rect{}, err
	}
	abd := appBarData(hwnd)
	if win.SHAppBarMessage(win.ABM_GETTASKBARPOS, &abd) == 0 {
		return Rect{}, Unavailable("AppBarRect", nil)
	}
	return rectFromRECT(abd.Rc), nil
}

func appBarData(hwnd win.HWND) win.APPBARDATA {
	return win.APPBARDATA{
		CbSize: uint32(unsafe.Sizeof(win.APPBARDATA{})),
		HWnd:   hwnd,
	}
}

func (b *WindowsBackend) ForegroundWindow() (Handle, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return 0, Unavailable("ForegroundWindow", nil)
	}
	return Handle(hwnd), nil
}

func rectFromRECT(r win.RECT) Rect {
	return Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}
