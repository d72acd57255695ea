package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/webtop/internal/mcptools"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
	"gopkg.in/yaml.v3"
)

// Output formats for listing commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.CLITableHeader()).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use %s, %s or %s)", format, formatTable, formatJSON, formatYAML)
	}
}

func writeWindows(w io.Writer, format string, windows []mcptools.Window) error {
	if format != formatTable {
		return writeStructured(w, format, windows)
	}
	if len(windows) == 0 {
		_, err := fmt.Fprintln(w, lipgloss.NewStyle().Foreground(theme.CLITableDim()).Render("No windows open."))
		return err
	}

	t := newTable("ID", "App", "Title", "Position", "Size", "Z", "State")
	for _, win := range windows {
		state := "open"
		switch {
		case win.Active:
			state = "active"
		case win.Minimized:
			state = "minimized"
		}
		t.Row(
			win.ID,
			win.App,
			win.Title,
			fmt.Sprintf("%d,%d", win.X, win.Y),
			fmt.Sprintf("%dx%d", win.Width, win.Height),
			strconv.Itoa(win.Z),
			state,
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
