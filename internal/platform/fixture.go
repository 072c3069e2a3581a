package platform

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// FixtureWindow describes one window in a Fixture. Optional fields left
// nil make the matching query fail.
type FixtureWindow struct {
	Class     string  `yaml:"class"`
	Title     string  `yaml:"title,omitempty"`
	PID       uint32  `yaml:"pid,omitempty"`
	Style     Style   `yaml:"style,omitempty"`
	ExStyle   ExStyle `yaml:"ex_style,omitempty"`
	ShowCmd   ShowCmd `yaml:"show_cmd,omitempty"`
	Rect      *Rect   `yaml:"rect,omitempty"`
	Extended  *Rect   `yaml:"extended,omitempty"`
	WorkArea  *Rect   `yaml:"work_area,omitempty"`
	AppBar    *Rect   `yaml:"app_bar,omitempty"`
	Unplaced  bool    `yaml:"unplaced,omitempty"`
	Unstyled  bool    `yaml:"unstyled,omitempty"`
	Unclassed bool    `yaml:"unclassed,omitempty"`
}

// Fixture is a Query backed by static data. It is loaded from YAML for
// offline inspection and used directly in tests. Nil desktop fields make
// the corresponding query fail.
type Fixture struct {
	DPI         *int                     `yaml:"dpi,omitempty"`
	SelfAware   *bool                    `yaml:"self_dpi_aware,omitempty"`
	AwarePIDs   []uint32                 `yaml:"dpi_aware_pids,omitempty"`
	Composition *bool                    `yaml:"composition,omitempty"`
	Theming     *bool                    `yaml:"theming,omitempty"`
	OS          *OSVersion               `yaml:"os,omitempty"`
	BorderWidth *string                  `yaml:"border_width,omitempty"`
	Foreground  Handle                   `yaml:"foreground,omitempty"`
	Windows     map[Handle]FixtureWindow `yaml:"windows,omitempty"`

	mu    sync.Mutex
	calls map[string]int
}

var _ Query = (*Fixture)(nil)

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFixture decodes a YAML fixture document. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Calls returns how many times op was queried.
func (f *Fixture) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Fixture) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *Fixture) window(op string, h Handle) (FixtureWindow, error) {
	f.record(op)
	w, ok := f.Windows[h]
	if !ok {
		return FixtureWindow{}, Unavailable(op, fmt.Errorf("no window 0x%x", uintptr(h)))
	}
	return w, nil
}

func (f *Fixture) WindowStyle(h Handle) (Style, error) {
	w, err := f.window("WindowStyle", h)
	if err != nil {
		return 0, err
	}
	if w.Unstyled {
		return 0, Unavailable("WindowStyle", nil)
	}
	return w.Style, nil
}

func (f *Fixture) WindowExStyle(h Handle) (ExStyle, error) {
	w, err := f.window("WindowExStyle", h)
	if err != nil {
		return 0, err
	}
	if w.Unstyled {
		return 0, Unavailable("WindowExStyle", nil)
	}
	return w.ExStyle, nil
}

func (f *Fixture) WindowRect(h Handle) (Rect, error) {
	return f.rect("WindowRect", h, func(w FixtureWindow) *Rect { return w.Rect })
}

func (f *Fixture) ExtendedFrameRect(h Handle) (Rect, error) {
	return f.rect("ExtendedFrameRect", h, func(w FixtureWindow) *Rect { return w.Extended })
}

func (f *Fixture) WorkArea(h Handle) (Rect, error) {
	return f.rect("WorkArea", h, func(w FixtureWindow) *Rect { return w.WorkArea })
}

func (f *Fixture) AppBarRect(h Handle) (Rect, error) {
	return f.rect("AppBarRect", h, func(w FixtureWindow) *Rect { return w.AppBar })
}

func (f *Fixture) rect(op string, h Handle, pick func(FixtureWindow) *Rect) (Rect, error) {
	w, err := f.window(op, h)
	if err != nil {
		return Rect{}, err
	}
	r := pick(w)
	if r == nil {
		return Rect{}, Unavailable(op, nil)
	}
	return *r, nil
}

func (f *Fixture) Placement(h Handle) (ShowCmd, error) {
	w, err := f.window("Placement", h)
	if err != nil {
		return 0, err
	}
	if w.Unplaced {
		return 0, Unavailable("Placement", nil)
	}
	return w.ShowCmd, nil
}

func (f *Fixture) ClassName(h Handle) (string, error) {
	w, err := f.window("ClassName", h)
	if err != nil {
		return "", err
	}
	if w.Unclassed {
		return "", Unavailable("ClassName", nil)
	}
	return w.Class, nil
}

func (f *Fixture) WindowText(h Handle) (string, error) {
	w, err := f.window("WindowText", h)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (f *Fixture) ProcessID(h Handle) (uint32, error) {
	w, err := f.window("ProcessID", h)
	if err != nil {
		return 0, err
	}
	if w.PID == 0 {
		return 0, Unavailable("ProcessID", nil)
	}
	return w.PID, nil
}

func (f *Fixture) ProcessDPIAware(pid uint32) (bool, error) {
	f.record("ProcessDPIAware")
	for _, p := range f.AwarePIDs {
		if p == pid {
			return true, nil
		}
	}
	return false, nil
}

func (f *Fixture) SelfDPIAware() (bool, error) {
	f.record("SelfDPIAware")
	if f.SelfAware == nil {
		return false, Unavailable("SelfDPIAware", nil)
	}
	return *f.SelfAware, nil
}

func (f *Fixture) DPISetting() (int, error) {
	f.record("DPISetting")
	if f.DPI == nil {
		return 0, Unavailable("DPISetting", nil)
	}
	return *f.DPI, nil
}

func (f *Fixture) BorderWidthSetting() (string, error) {
	f.record("BorderWidthSetting")
	if f.BorderWidth == nil {
		return "", Unavailable("BorderWidthSetting", nil)
	}
	return *f.BorderWidth, nil
}

func (f *Fixture) CompositionEnabled() (bool, error) {
	f.record("CompositionEnabled")
	if f.Composition == nil {
		return false, Unavailable("CompositionEnabled", nil)
	}
	return *f.Composition, nil
}

func (f *Fixture) OSVersion() (OSVersion, error) {
	f.record("OSVersion")
	if f.OS == nil {
		return OSVersion{}, Unavailable("OSVersion", nil)
	}
	return *f.OS, nil
}

func (f *Fixture) ThemingEnabled() (bool, error) {
	f.record("ThemingEnabled")
	if f.Theming == nil {
		return false, Unavailable("ThemingEnabled", nil)
	}
	return *f.Theming, nil
}

// FindWindowByClass returns the lowest handle whose class matches.
func (f *Fixture) FindWindowByClass(class string) (Handle, error) {
	f.record("FindWindowByClass")
	handles := make([]Handle, 0, len(f.Windows))
	for h := range f.Windows {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	for _, h := range handles {
		if f.Windows[h].Class == class {
			return h, nil
		}
	}
	return 0, Unavailable("FindWindowByClass", fmt.Errorf("no window of class %q", class))
}

func (f *Fixture) ForegroundWindow() (Handle, error) {
	f.record("ForegroundWindow")
	if f.Foreground == 0 {
		return 0, Unavailable("ForegroundWindow", nil)
	}
	return f.Foreground, nil
}
