package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warning", Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "hwnd", 0x100)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "hwnd=256") {
		t.Fatalf("expected warn record, got %q", out)
	}
}

func TestNew_TeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "wingeom.log")
	logger, closer, err := New(Options{Level: "debug", File: path, MaxSizeMB: 1, MaxFiles: 2, Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("geometry resolved", "policy", "equal")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "policy=equal") || !strings.Contains(buf.String(), "policy=equal") {
		t.Fatalf("expected record in both sinks; file=%q stderr=%q", data, buf.String())
	}
}

func TestRotatingFile_Rotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wingeom.log")
	f, err := OpenRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 4; i++ {
		if _, err := f.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, name := range []string{"wingeom.log", "wingeom.log.1", "wingeom.log.2"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "wingeom.log.3")); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 rotated files, stat err = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(len(chunk)) {
		t.Fatalf("live file size = %d, want %d", info.Size(), len(chunk))
	}
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	f, err := OpenRotatingFile(filepath.Join(t.TempDir(), "a.log"), 0, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.Write([]byte("x")); err == nil {
		t.Fatal("expected write after close to fail")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
