// Package main implements webtop, a desktop of widget windows in the
// terminal. The same desktop can be served locally, over SSH, to the
// browser, or driven by MCP clients and scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	configFile   string
	storageFlag  string
	themeName    string
	noAnimations bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webtop",
		Short: "A desktop of widget windows in your terminal",
		Long: `webtop - a desktop of widget windows in your terminal

Open calculators, clocks, notes and players as windows you can drag, resize,
minimize to the taskbar and maximize. Window layout is saved between runs and
shared by every view of the same process.`,
		Example: `  # Run the desktop
  webtop

  # Serve it over SSH
  webtop ssh --port 2222

  # Serve it to the browser
  webtop web --port 7681

  # Script the saved layout
  webtop windows list
  webtop windows open notes`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/webtop/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Storage backend: file, sqlite or memory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noAnimations, "no-animations", false, "Disable minimize and maximize animations")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			return os.Setenv("WEBTOP_CONFIG", configFile)
		}
		return nil
	}

	rootCmd.AddCommand(
		newSSHCmd(),
		newWebCmd(),
		newMCPCmd(),
		newWindowsCmd(),
		newAppsCmd(),
		newConfigCmd(),
		newKeybindsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newSSHCmd() *cobra.Command {
	var host, port, keyPath string
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve the desktop over SSH",
		Long: `Serve the desktop over SSH

Every connection gets its own view of the same windows. The host key is
generated on first start if it does not exist.`,
		Example: `  # Start on the default port
  webtop ssh

  # Listen on all interfaces with a custom key
  webtop ssh --host 0.0.0.0 --key-path /etc/webtop/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd.Context(), host, port, keyPath)
		},
	}
	cmd.Flags().StringVar(&port, "port", "2222", "SSH server port")
	cmd.Flags().StringVar(&host, "host", "localhost", "SSH server host")
	cmd.Flags().StringVar(&keyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	return cmd
}

func newWebCmd() *cobra.Command {
	var (
		host, port     string
		readOnly       bool
		maxConnections int
	)
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the desktop to the browser",
		Long: `Serve the desktop to the browser

Each browser tab gets its own view of the same windows.`,
		Example: `  # Start on the default port
  webtop web

  # Allow 4 viewers that cannot interact
  webtop web --read-only --max-connections 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer(cmd.Context(), host, port, readOnly, maxConnections)
		},
	}
	cmd.Flags().StringVar(&port, "port", "7681", "Web server port")
	cmd.Flags().StringVar(&host, "host", "localhost", "Web server host")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Disallow input from browser clients")
	cmd.Flags().IntVar(&maxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
	return cmd
}

func newMCPCmd() *cobra.Command {
	var transport, addr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the windows as MCP tools",
		Long: `Expose the windows as MCP tools

Agents can list, open, focus, minimize, toggle, move and close windows.
Changes are saved to the same storage as the desktop.`,
		Example: `  # For clients that launch the server themselves
  webtop mcp

  # Over HTTP
  webtop mcp --transport streamable-http --addr :8088`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServer(cmd.Context(), transport, addr)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport: stdio or streamable-http")
	cmd.Flags().StringVar(&addr, "addr", ":8088", "Listen address for streamable-http")
	return cmd
}
