package mcptools

import (
	"context"
	"errors"
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/logging"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

// Transports accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// Config selects how the MCP server is reached.
type Config struct {
	Transport string
	// Addr is the listen address for the HTTP transport.
	Addr string
}

// Server wraps the MCP server with the window controller it drives.
type Server struct {
	ctrl    *wm.Controller
	catalog *apps.Catalog
	log     *log.Logger
	mcp     *mcpserver.MCPServer
}

// New creates an MCP server with the window tools registered.
func New(ctrl *wm.Controller, catalog *apps.Catalog, logger *log.Logger, version string) *Server {
	if catalog == nil {
		catalog = apps.NewCatalog(nil)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		ctrl:    ctrl,
		catalog: catalog,
		log:     logger,
		mcp:     mcpserver.NewMCPServer("webtop", version),
	}
	s.registerTools()
	return s
}

// Serve runs the server on cfg's transport until ctx is done.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	switch cfg.Transport {
	case TransportStdio, "":
		s.log.Info("serving MCP over stdio")
		return mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	case TransportHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() {
			s.log.Info("serving MCP over HTTP", "addr", cfg.Addr)
			errCh <- httpServer.Start(cfg.Addr)
		}()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use %s or %s)", cfg.Transport, TransportStdio, TransportHTTP)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List desktop windows in taskbar order with geometry, stacking and focus"),
			mcp.WithBoolean("visible_only", mcp.Description("Only windows currently drawn, bottom to top")),
		),
		s.handleList,
	)
	s.mcp.AddTool(
		mcp.NewTool("open_app",
			mcp.WithDescription("Open a window for an app; single-instance apps are focused if already open"),
			mcp.WithString("app", mcp.Required(), mcp.Description("App id, e.g. 'notes' or 'calculator'")),
		),
		s.handleOpen,
	)
	s.mcp.AddTool(
		mcp.NewTool("focus_window",
			mcp.WithDescription("Raise a window to the top, restoring it if minimized"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Window id")),
		),
		s.actionHandler(ActionFocus),
	)
	s.mcp.AddTool(
		mcp.NewTool("minimize_window",
			mcp.WithDescription("Hide a window to the taskbar"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Window id")),
		),
		s.actionHandler(ActionMinimize),
	)
	s.mcp.AddTool(
		mcp.NewTool("toggle_window",
			mcp.WithDescription("Act like a taskbar click: minimize the active window, focus any other"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Window id")),
		),
		s.actionHandler(ActionToggle),
	)
	s.mcp.AddTool(
		mcp.NewTool("close_window",
			mcp.WithDescription("Close a window, running its app's close hooks"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Window id")),
		),
		s.actionHandler(ActionClose),
	)
	s.mcp.AddTool(
		mcp.NewTool("move_window",
			mcp.WithDescription("Set a window's position and optionally its size"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Window id")),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("Left column")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("Top row")),
			mcp.WithNumber("width", mcp.Description("New width; omit to keep")),
			mcp.WithNumber("height", mcp.Description("New height; omit to keep")),
		),
		s.handleMove,
	)
}

func (s *Server) handleList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	windows := ListWindows(s.ctrl.Registry(), request.GetBool("visible_only", false))
	b, err := yaml.Marshal(windows)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleOpen(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID, err := request.RequireString("app")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.catalog.Launch(s.ctrl, appID)
	if errors.Is(err, apps.ErrUnknownApp) {
		return mcp.NewToolResultError(fmt.Sprintf("%v (known apps: %v)", err, s.catalog.IDs())), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Info("app opened", "app", appID, "window", id, "via", "mcp")
	return mcp.NewToolResultText(id), nil
}

func (s *Server) actionHandler(action Action) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := Apply(s.ctrl, action, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.log.Debug("window action", "action", action, "id", id, "via", "mcp")
		return mcp.NewToolResultText(fmt.Sprintf("%s %s", action, id)), nil
	}
}

func (s *Server) handleMove(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := request.RequireInt("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	size := wm.Size{Width: request.GetInt("width", 0), Height: request.GetInt("height", 0)}

	g, err := Move(s.ctrl, id, wm.Point{X: x, Y: y}, size)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s at (%d, %d) size %s", id, g.Position.X, g.Position.Y, g.Size)), nil
}
