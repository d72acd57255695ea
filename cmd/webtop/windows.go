package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Gaurav-Gosain/webtop/internal/mcptools"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/spf13/cobra"
)

func newWindowsCmd() *cobra.Command {
	windowsCmd := &cobra.Command{
		Use:     "windows",
		Aliases: []string{"win", "w"},
		Short:   "Inspect and change the saved window layout",
		Long: `Inspect and change the saved window layout

These commands edit the persisted registry directly. A desktop that is
already running picks the changes up the next time it starts.`,
	}

	var format string
	var visibleOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List windows in taskbar order",
		Example: `  webtop windows list
  webtop windows list --visible --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *runtime, out io.Writer) error {
				return writeWindows(out, format, mcptools.ListWindows(rt.ctrl.Registry(), visibleOnly))
			})
		},
	}
	listCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	listCmd.Flags().BoolVar(&visibleOnly, "visible", false, "Only windows that are not minimized, bottom to top")

	openCmd := &cobra.Command{
		Use:     "open <app>",
		Short:   "Open a window for an app and print its id",
		Example: "  webtop windows open notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *runtime, out io.Writer) error {
				id, err := rt.catalog.Launch(rt.ctrl, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, id)
				return err
			})
		},
	}

	var width, height int
	moveCmd := &cobra.Command{
		Use:     "move <id> <x> <y>",
		Short:   "Move a window and optionally resize it",
		Example: "  webtop windows move calendar 4 3 --width 40",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			return withRuntime(cmd, func(rt *runtime, out io.Writer) error {
				g, err := mcptools.Move(rt.ctrl, args[0], wm.Point{X: x, Y: y}, wm.Size{Width: width, Height: height})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s at %d,%d size %s\n", args[0], g.Position.X, g.Position.Y, g.Size)
				return err
			})
		},
	}
	moveCmd.Flags().IntVar(&width, "width", 0, "New width (0 keeps the current one)")
	moveCmd.Flags().IntVar(&height, "height", 0, "New height (0 keeps the current one)")

	windowsCmd.AddCommand(
		listCmd,
		openCmd,
		newWindowActionCmd(mcptools.ActionFocus, "Raise a window, restoring it if minimized"),
		newWindowActionCmd(mcptools.ActionMinimize, "Hide a window to the taskbar"),
		newWindowActionCmd(mcptools.ActionToggle, "Minimize the active window or focus another, like a taskbar click"),
		newWindowActionCmd(mcptools.ActionClose, "Close a window"),
		moveCmd,
	)
	return windowsCmd
}

func newWindowActionCmd(action mcptools.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *runtime, out io.Writer) error {
				return mcptools.Apply(rt.ctrl, action, args[0])
			})
		},
	}
}

// withRuntime runs fn against the persisted registry with quiet logging.
func withRuntime(cmd *cobra.Command, fn func(rt *runtime, out io.Writer) error) error {
	rt, err := bootstrap(cmd.Context(), logQuiet)
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(rt, cmd.OutOrStdout())
}
