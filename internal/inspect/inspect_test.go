package inspect

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/1broseidon/wingeom/internal/classify"
	"github.com/1broseidon/wingeom/internal/geometry"
	"github.com/1broseidon/wingeom/internal/platform"
	"github.com/1broseidon/wingeom/internal/taskbar"
	"github.com/1broseidon/wingeom/internal/visualstyle"
	"gopkg.in/yaml.v3"
)

const desktopYAML = `
dpi: 192
self_dpi_aware: false
dpi_aware_pids: [42]
composition: true
theming: true
os: {major: 10, minor: 0, build: 19045}
border_width: "-20"
foreground: 0x100
windows:
  0x100:
    class: Notepad
    title: Untitled - Notepad
    pid: 42
    show_cmd: 1
    ex_style: 0x80
    rect: {left: 100, top: 100, right: 500, bottom: 400}
    extended: {left: 107, top: 100, right: 493, bottom: 393}
  0x200:
    class: Shell_TrayWnd
    app_bar: {left: 0, top: 0, right: 62, bottom: 1080}
  0x300:
    class: CabinetWClass
    pid: 9
    show_cmd: 3
    style: 0x00800000
    rect: {left: -8, top: -8, right: 1928, bottom: 1048}
    extended: {left: 0, top: 0, right: 1920, bottom: 1040}
    work_area: {left: 62, top: 0, right: 1920, bottom: 1080}
`

func newInspector(t *testing.T, opts Options) *Inspector {
	t.Helper()
	f, err := platform.ParseFixture([]byte(desktopYAML))
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	in, err := New(f, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return in
}

func TestWindowReport(t *testing.T) {
	in := newInspector(t, Options{})
	r := in.Window(0x100)

	if r.Handle != "0x100" || r.Class != "Notepad" || r.Title != "Untitled - Notepad" || r.PID != 42 {
		t.Fatalf("identity = %+v", r)
	}
	if !r.SquareEdged || r.SquareEdgeRule != "toolwindow-without-edge" {
		t.Fatalf("square edge = %v %q", r.SquareEdged, r.SquareEdgeRule)
	}
	if r.Maximized || r.DialogFramed || r.Border {
		t.Fatalf("unexpected flags %+v", r)
	}
	if !r.DPIAware {
		t.Fatal("pid 42 should be dpi aware")
	}
	if r.Geometry.Policy != geometry.PolicyBaseLarger {
		t.Fatalf("policy = %s", r.Geometry.Policy)
	}
	want := platform.Rect{Left: 100, Top: 100, Right: 500, Bottom: 400}
	if r.Geometry.Rect != want {
		t.Fatalf("rect = %v", r.Geometry.Rect)
	}
	if r.Display != (platform.Rect{Left: 200, Top: 200, Right: 1000, Bottom: 800}) {
		t.Fatalf("display = %v", r.Display)
	}
	// Self is unaware, so the comparison rect is scaled down.
	if r.Comparison != (platform.Rect{Left: 50, Top: 50, Right: 250, Bottom: 200}) {
		t.Fatalf("comparison = %v", r.Comparison)
	}
}

func TestWindowReportMaximized(t *testing.T) {
	r := newInspector(t, Options{}).Window(0x300)
	if !r.Maximized || r.SquareEdgeRule != "maximized" || !r.Border {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Geometry.Base != (platform.Rect{Left: 62, Right: 1920, Bottom: 1080}) {
		t.Fatalf("base should be the work area, got %v", r.Geometry.Base)
	}
	if r.Geometry.Policy != geometry.PolicyMixedKeepBase {
		t.Fatalf("policy = %s", r.Geometry.Policy)
	}
}

func TestWindowReportVanishedHandle(t *testing.T) {
	r := newInspector(t, Options{}).Window(0xdead)
	if r.Class != "" || r.SquareEdged || r.Geometry.Policy != geometry.PolicyUnavailable || !r.Geometry.Rect.IsEmpty() {
		t.Fatalf("vanished handle report = %+v", r)
	}
}

func TestForeground(t *testing.T) {
	r, err := newInspector(t, Options{}).Foreground()
	if err != nil || r.Handle != "0x100" {
		t.Fatalf("Foreground() = %+v, %v", r, err)
	}

	in, err := New(&platform.Fixture{}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := in.Foreground(); err == nil {
		t.Fatal("expected error without a foreground window")
	}
}

func TestDesktopReport(t *testing.T) {
	d := newInspector(t, Options{}).Desktop()
	if d.Scale != 2.0 || d.SelfDPIAware {
		t.Fatalf("dpi = %v %v", d.Scale, d.SelfDPIAware)
	}
	if d.VisualStyle != visualstyle.Composited || d.OS != visualstyle.Win8 || d.BorderWidth != 2 {
		t.Fatalf("style = %+v", d)
	}
	if d.Taskbar != taskbar.Left || d.Foreground != "0x100" {
		t.Fatalf("taskbar/foreground = %+v", d)
	}
}

func TestOptionsReachClassifier(t *testing.T) {
	in := newInspector(t, Options{Classify: classify.Options{Rules: []string{`class == "Shell_TrayWnd"`}}})
	if got := in.Window(0x200).SquareEdgeRule; got != "rule[0]" {
		t.Fatalf("rule = %q", got)
	}

	_, err := New(&platform.Fixture{}, Options{Classify: classify.Options{Rules: []string{"(("}}})
	if err == nil {
		t.Fatal("expected invalid rule error")
	}
}

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    platform.Handle
		wantErr bool
	}{
		{"0x100", 0x100, false},
		{"0X1A2B", 0x1a2b, false},
		{"256", 256, false},
		{" 0x10 ", 0x10, false},
		{"0", 0, true},
		{"hwnd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHandle(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseHandle(%q) = %#x, %v", tt.in, uintptr(got), err)
		}
	}
}

func TestRender(t *testing.T) {
	in := newInspector(t, Options{})
	report := in.Window(0x100)

	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON, report); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["class"] != "Notepad" || decoded["square_edge_rule"] != "toolwindow-without-edge" {
		t.Fatalf("json = %s", buf.String())
	}

	buf.Reset()
	if err := Render(&buf, FormatYAML, in.Desktop()); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var desk map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &desk); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if desk["visual_style"] != "composited" || desk["taskbar"] != "left" {
		t.Fatalf("yaml = %s", buf.String())
	}

	buf.Reset()
	if err := Render(&buf, FormatText, report); err != nil {
		t.Fatalf("text: %v", err)
	}
	for _, want := range []string{"Class:", "Notepad", "toolwindow-without-edge", "{X=100,Y=100,Width=400,Height=300}"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("text output missing %q:\n%s", want, buf.String())
		}
	}

	if err := Render(&buf, "xml", report); err == nil {
		t.Fatal("expected unknown format error")
	}
}
