// Package mcp exposes window inspection as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wingeom/internal/inspect"
)

const (
	ServerName    = "wingeom"
	ServerVersion = "0.1.0"
)

// Server is the MCP server. Every tool call queries the platform afresh.
type Server struct {
	mcpServer *mcpsdk.Server
	inspector *inspect.Inspector
	logger    *slog.Logger
}

// NewServer creates a server answering from in. A nil logger discards output.
func NewServer(in *inspect.Inspector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		inspector: in,
		logger:    logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio, blocking until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "inspect_window",
		Description: "Report everything known about one window: class, title, owning process, maximized state, square-edge classification with the matching rule, DPI awareness, and the reconciled bounding rectangle in raw, display and comparison coordinates.",
	}, s.handleInspectWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "inspect_foreground",
		Description: "Same as inspect_window for the current foreground window. Fails when no window has focus.",
	}, s.handleInspectForeground)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resolve_geometry",
		Description: "Reconcile a window's base rectangle (work area when maximized) with its extended frame bounds and report which policy chose the result.",
	}, s.handleResolveGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "classify_window",
		Description: "Report the structural classification of a window: maximized, square-edged (with the first matching rule), dialog frame and non-client border.",
	}, s.handleClassifyWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "inspect_desktop",
		Description: "Report desktop-wide state: DPI scale, this process's DPI awareness, visual style, OS family, border width, taskbar edge and foreground window.",
	}, s.handleInspectDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_edge",
		Description: "Report which screen edge the taskbar is docked to and its rectangle. Defaults to right when the taskbar cannot be located.",
	}, s.handleTaskbarEdge)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "visual_style",
		Description: "Report the active visual style (classic, basic, composited), the OS family and the effective window border width.",
	}, s.handleVisualStyle)
}
