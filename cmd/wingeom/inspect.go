package main

import (
	"fmt"

	"github.com/1broseidon/wingeom/internal/dpi"
	"github.com/1broseidon/wingeom/internal/inspect"
	"github.com/1broseidon/wingeom/internal/platform"
	"github.com/1broseidon/wingeom/internal/taskbar"
	"github.com/1broseidon/wingeom/internal/visualstyle"
)

type taskbarOutput struct {
	Edge taskbar.Edge  `json:"edge" yaml:"edge"`
	Rect platform.Rect `json:"rect" yaml:"rect"`
}

type styleOutput struct {
	Mode        visualstyle.Mode `json:"mode" yaml:"mode"`
	OS          visualstyle.OS   `json:"os" yaml:"os"`
	BorderWidth float64          `json:"border_width" yaml:"border_width"`
}

type dpiOutput struct {
	DPI         int     `json:"dpi" yaml:"dpi"`
	Scale       float64 `json:"scale" yaml:"scale"`
	SelfAware   bool    `json:"self_aware" yaml:"self_aware"`
	HWND        string  `json:"hwnd,omitempty" yaml:"hwnd,omitempty"`
	TargetAware *bool   `json:"target_aware,omitempty" yaml:"target_aware,omitempty"`
}

// withSession parses flags, opens a session and runs fn with the remaining
// positional arguments.
func withSession(name, usage string, args []string, minArgs, maxArgs int, fn func(*session, []string) int) int {
	fs := newFlagSet(name, usage)
	common := addCommonFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() < minArgs || fs.NArg() > maxArgs {
		fs.Usage()
		return 2
	}

	s, err := openSession(common)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer s.Close()
	return fn(s, fs.Args())
}

func runWindow(args []string) int {
	return withSession("window", "window [options] <hwnd>", args, 1, 1, func(s *session, pos []string) int {
		h, err := inspect.ParseHandle(pos[0])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		return s.render(s.inspector.Window(h))
	})
}

func runForeground(args []string) int {
	return withSession("foreground", "foreground [options]", args, 0, 0, func(s *session, _ []string) int {
		report, err := s.inspector.Foreground()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return s.render(report)
	})
}

func runDesktop(args []string) int {
	return withSession("desktop", "desktop [options]", args, 0, 0, func(s *session, _ []string) int {
		return s.render(s.inspector.Desktop())
	})
}

func runTaskbar(args []string) int {
	return withSession("taskbar", "taskbar [options]", args, 0, 0, func(s *session, _ []string) int {
		rect := s.inspector.Taskbar().Rect()
		return s.render(taskbarOutput{Edge: taskbar.EdgeFor(rect), Rect: rect})
	})
}

func runStyle(args []string) int {
	return withSession("style", "style [options]", args, 0, 0, func(s *session, _ []string) int {
		vs := s.inspector.VisualStyle()
		return s.render(styleOutput{
			Mode:        vs.Resolve(),
			OS:          vs.OperatingSystem(),
			BorderWidth: vs.BorderWidth(),
		})
	})
}

func runDPI(args []string) int {
	return withSession("dpi", "dpi [options] [hwnd]", args, 0, 1, func(s *session, pos []string) int {
		r := s.inspector.DPI()
		scale := r.ScaleFactor()
		out := dpiOutput{
			DPI:       int(float64(scale) * dpi.BaseDPI),
			Scale:     float64(scale),
			SelfAware: r.SelfAware(),
		}
		if len(pos) == 1 {
			h, err := inspect.ParseHandle(pos[0])
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 2
			}
			aware := r.IsTargetAware(h)
			out.HWND = inspect.FormatHandle(h)
			out.TargetAware = &aware
		}
		return s.render(out)
	})
}
