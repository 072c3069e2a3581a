package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wingeom/internal/inspect"
	"github.com/1broseidon/wingeom/internal/platform"
	"github.com/1broseidon/wingeom/internal/taskbar"
)

func parseHWND(tool, raw string) (platform.Handle, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s: hwnd is required", tool)
	}
	h, err := inspect.ParseHandle(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", tool, err)
	}
	return h, nil
}

func (s *Server) handleInspectWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, inspect.Report, error) {
	h, err := parseHWND("inspect_window", args.HWND)
	if err != nil {
		return nil, inspect.Report{}, err
	}
	report := s.inspector.Window(h)
	s.logger.Debug("tool called", "tool", "inspect_window", "hwnd", report.Handle)
	return nil, report, nil
}

func (s *Server) handleInspectForeground(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, inspect.Report, error) {
	report, err := s.inspector.Foreground()
	if err != nil {
		return nil, inspect.Report{}, fmt.Errorf("inspect_foreground: %w", err)
	}
	s.logger.Debug("tool called", "tool", "inspect_foreground", "hwnd", report.Handle)
	return nil, report, nil
}

func (s *Server) handleResolveGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, GeometryOutput, error) {
	h, err := parseHWND("resolve_geometry", args.HWND)
	if err != nil {
		return nil, GeometryOutput{}, err
	}
	res := s.inspector.Geometry().ResolveDetailed(h)
	s.logger.Debug("tool called", "tool", "resolve_geometry", "hwnd", inspect.FormatHandle(h), "policy", string(res.Policy))
	return nil, GeometryOutput{
		HWND:      inspect.FormatHandle(h),
		Base:      res.Base,
		Extended:  res.Extended,
		Rect:      res.Rect,
		Maximized: res.Maximized,
		Policy:    string(res.Policy),
		Display:   s.inspector.DPI().ExpandForDisplay(res.Rect),
	}, nil
}

func (s *Server) handleClassifyWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ClassifyOutput, error) {
	h, err := parseHWND("classify_window", args.HWND)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}
	r := s.inspector.Window(h)
	return nil, ClassifyOutput{
		HWND:         r.Handle,
		Class:        r.Class,
		Maximized:    r.Maximized,
		SquareEdged:  r.SquareEdged,
		Rule:         r.SquareEdgeRule,
		DialogFramed: r.DialogFramed,
		Border:       r.Border,
	}, nil
}

func (s *Server) handleInspectDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	d := s.inspector.Desktop()
	return nil, DesktopOutput{
		Scale:        d.Scale,
		SelfDPIAware: d.SelfDPIAware,
		VisualStyle:  d.VisualStyle.String(),
		OS:           d.OS.String(),
		BorderWidth:  d.BorderWidth,
		Taskbar:      d.Taskbar.String(),
		TaskbarRect:  d.TaskbarRect,
		Foreground:   d.Foreground,
	}, nil
}

func (s *Server) handleTaskbarEdge(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, TaskbarOutput, error) {
	rect := s.inspector.Taskbar().Rect()
	return nil, TaskbarOutput{
		Edge: taskbar.EdgeFor(rect).String(),
		Rect: rect,
	}, nil
}

func (s *Server) handleVisualStyle(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, VisualStyleOutput, error) {
	vs := s.inspector.VisualStyle()
	return nil, VisualStyleOutput{
		Mode:        vs.Resolve().String(),
		OS:          vs.OperatingSystem().String(),
		BorderWidth: vs.BorderWidth(),
	}, nil
}
