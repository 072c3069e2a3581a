package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const testFixture = `
dpi: 120
self_dpi_aware: false
composition: true
theming: true
os: {major: 6, minor: 2, build: 9200}
border_width: "-30"
foreground: 0x42
windows:
  0x42:
    class: Notepad
    title: notes.txt - Notepad
    pid: 77
    show_cmd: 1
    style: 0x00800000
    rect: {left: 10, top: 20, right: 410, bottom: 320}
    extended: {left: 10, top: 20, right: 410, bottom: 320}
  0x50:
    class: Shell_TrayWnd
    app_bar: {left: 0, top: 0, right: 1920, bottom: 40}
`

// runCLI runs the command with captured output and an isolated config path.
func runCLI(t *testing.T, args ...string) (code int, out, errOut string) {
	t.Helper()
	t.Setenv("WINGEOM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	var o, e bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &o, &e
	defer func() { stdout, stderr = prevOut, prevErr }()

	code = run(args)
	return code, o.String(), e.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunUsage(t *testing.T) {
	code, out, _ := runCLI(t)
	if code != 0 || !strings.Contains(out, "Usage: wingeom") {
		t.Fatalf("no args: code=%d out=%q", code, out)
	}
	code, _, errOut := runCLI(t, "bogus")
	if code != 2 || !strings.Contains(errOut, "Unknown command: bogus") {
		t.Fatalf("bogus: code=%d err=%q", code, errOut)
	}
}

func TestRunWindowJSON(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "desk.yaml", testFixture)
	code, out, errOut := runCLI(t, "window", "--fixture", fixture, "--output", "json", "0x42")
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	var report struct {
		Handle   string `json:"handle"`
		Class    string `json:"class"`
		Border   bool   `json:"border"`
		Geometry struct {
			Policy string `json:"policy"`
		} `json:"geometry"`
		Display struct {
			Right int `json:"right"`
		} `json:"display"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Handle != "0x42" || report.Class != "Notepad" || !report.Border || report.Geometry.Policy != "equal" {
		t.Fatalf("report = %+v", report)
	}
	// 120 DPI is a 1.25 scale: left 12, width 500.
	if report.Display.Right != 512 {
		t.Fatalf("display right = %d, want 512", report.Display.Right)
	}
}

func TestRunWindowUsageErrors(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "desk.yaml", testFixture)
	tests := []struct {
		name string
		args []string
	}{
		{"missing handle", []string{"window", "--fixture", fixture}},
		{"bad handle", []string{"window", "--fixture", fixture, "hwnd"}},
		{"extra args", []string{"window", "--fixture", fixture, "0x1", "0x2"}},
		{"unknown flag", []string{"window", "--nope", "0x1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != 2 {
				t.Fatalf("code = %d, want 2", code)
			}
		})
	}
}

func TestRunDesktopYAML(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "desk.yaml", testFixture)
	code, out, errOut := runCLI(t, "desktop", "--fixture", fixture, "--output", "yaml")
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	var desk map[string]any
	if err := yaml.Unmarshal([]byte(out), &desk); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if desk["visual_style"] != "composited" || desk["os"] != "win8" || desk["taskbar"] != "top" || fmt.Sprint(desk["border_width"]) != "3" {
		t.Fatalf("desktop = %v", desk)
	}
}

func TestRunSmallCommands(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "desk.yaml", testFixture)

	code, out, _ := runCLI(t, "taskbar", "--fixture", fixture, "--output", "json")
	if code != 0 || !strings.Contains(out, `"edge": "top"`) {
		t.Fatalf("taskbar: code=%d out=%s", code, out)
	}

	code, out, _ = runCLI(t, "style", "--fixture", fixture, "--output", "json")
	if code != 0 || !strings.Contains(out, `"mode": "composited"`) {
		t.Fatalf("style: code=%d out=%s", code, out)
	}

	code, out, _ = runCLI(t, "dpi", "--fixture", fixture, "--output", "json", "0x42")
	if code != 0 || !strings.Contains(out, `"dpi": 120`) || !strings.Contains(out, `"target_aware": false`) {
		t.Fatalf("dpi: code=%d out=%s", code, out)
	}

	code, out, _ = runCLI(t, "foreground", "--fixture", fixture, "--output", "text")
	if code != 0 || !strings.Contains(out, "notes.txt - Notepad") {
		t.Fatalf("foreground: code=%d out=%s", code, out)
	}
}

func TestRunForegroundWithoutFocus(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "empty.yaml", "windows: {}\n")
	if code, _, errOut := runCLI(t, "foreground", "--fixture", fixture); code != 1 || errOut == "" {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestFixtureFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "desk.yaml", testFixture)
	cfg := writeFile(t, dir, "config.yaml", "fixture: desk.yaml\noutput: json\ntaskbar_class: Shell_TrayWnd\n")

	code, out, errOut := runCLI(t, "taskbar", "--path", cfg)
	if code != 0 || !strings.Contains(out, `"edge": "top"`) {
		t.Fatalf("code=%d out=%s stderr=%s", code, out, errOut)
	}
}

func TestInvalidOutputFlag(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "desk.yaml", testFixture)
	if code, _, errOut := runCLI(t, "desktop", "--fixture", fixture, "--output", "xml"); code != 1 || !strings.Contains(errOut, "invalid output format") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		flag, cfg, want string
	}{
		{"", "auto", "json"},
		{"", "", "json"},
		{"", "yaml", "yaml"},
		{"TEXT", "json", "text"},
		{"json", "text", "json"},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.cfg, &buf)
		if err != nil || got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, %v; want %q", tt.flag, tt.cfg, got, err, tt.want)
		}
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "log_level: debug\ntaskbar_class: Dock\n")

	code, out, _ := runCLI(t, "config", "validate", "--path", cfg)
	if code != 0 || !strings.Contains(out, "config: ok") {
		t.Fatalf("validate: code=%d out=%q", code, out)
	}

	code, out, _ = runCLI(t, "config", "print", "--path", cfg)
	if code != 0 || !strings.Contains(out, "taskbar_class: Dock") {
		t.Fatalf("print: code=%d out=%q", code, out)
	}

	code, out, _ = runCLI(t, "config", "print", "--defaults")
	if code != 0 || !strings.Contains(out, "taskbar_class: Shell_TrayWnd") {
		t.Fatalf("print defaults: code=%d out=%q", code, out)
	}

	code, out, _ = runCLI(t, "config", "explain", "--path", cfg, "taskbar_class")
	if code != 0 || !strings.Contains(out, "source: file:") || !strings.Contains(out, "Dock") {
		t.Fatalf("explain: code=%d out=%q", code, out)
	}

	bad := writeFile(t, dir, "bad.yaml", "output: xml\n")
	if code, _, errOut := runCLI(t, "config", "validate", "--path", bad); code != 1 || !strings.Contains(errOut, "output") {
		t.Fatalf("invalid config: code=%d stderr=%q", code, errOut)
	}

	if code, _, _ := runCLI(t, "config", "explain", "--path", cfg); code != 2 {
		t.Fatalf("explain without path: code=%d", code)
	}
	if code, _, _ := runCLI(t, "config", "frob"); code != 2 {
		t.Fatalf("unknown subcommand: code=%d", code)
	}
}

func TestRunMCPUsage(t *testing.T) {
	if code, _, _ := runCLI(t, "mcp"); code != 2 {
		t.Fatalf("mcp without command: code=%d", code)
	}
	if code, out, _ := runCLI(t, "mcp", "help"); code != 0 || !strings.Contains(out, "serve") {
		t.Fatalf("mcp help: code=%d out=%q", code, out)
	}
	if code, _, _ := runCLI(t, "mcp", "serve", "extra"); code != 2 {
		t.Fatalf("mcp serve extra: code=%d", code)
	}
}
