package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage webtop configuration",
		Long:  `Manage the webtop configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath(cmd.OutOrStdout())
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the webtop configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order. The file is validated after
the editor exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile(cmd.OutOrStdout())
		},
	}

	var assumeYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the webtop configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)
	return configCmd
}

func newKeybindsCmd() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}
	keybindsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all keybindings",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listKeybindings(cmd.OutOrStdout(), loadConfigOrDefault(cmd.ErrOrStderr()), false)
			},
		},
		&cobra.Command{
			Use:   "list-custom",
			Short: "List keybindings that differ from the defaults",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadUserConfig()
				if err != nil {
					return fmt.Errorf("error loading config: %w", err)
				}
				return listKeybindings(cmd.OutOrStdout(), cfg, true)
			},
		},
	)
	return keybindsCmd
}

func newAppsCmd() *cobra.Command {
	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "Inspect the app catalog",
	}
	var format string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the apps that can be opened",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := apps.NewCatalog(loadConfigOrDefault(cmd.ErrOrStderr()).Apps)
			return listApps(cmd.OutOrStdout(), format, catalog)
		},
	}
	listCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	appsCmd.AddCommand(listCmd)
	return appsCmd
}

func loadConfigOrDefault(stderr io.Writer) *config.UserConfig {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\nUsing defaults...\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func printConfigPath(out io.Writer) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	_, err = fmt.Fprintln(out, path)
	return err
}

func editConfigFile(out io.Writer) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return errors.New("no editor found, please set $EDITOR")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	if _, err := config.Load(configPath); err != nil {
		return fmt.Errorf("config saved but invalid: %w", err)
	}
	return nil
}

func resetConfigToDefaults(in io.Reader, out io.Writer, assumeYes bool) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !assumeYes {
		if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			return errors.New("refusing to overwrite the config without a terminal, pass --yes")
		}
		fmt.Fprintf(out, "Warning: This will overwrite your existing configuration at:\n")
		fmt.Fprintf(out, "  %s\n\n", configPath)
		fmt.Fprintf(out, "Are you sure you want to reset to defaults? (yes/no): ")

		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	if err := config.Save(config.DefaultConfig(), configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration reset to defaults\n")
	fmt.Fprintf(out, "  Location: %s\n", configPath)
	fmt.Fprintln(out, "\nYou can customize it with: webtop config edit")
	return nil
}

func listKeybindings(out io.Writer, cfg *config.UserConfig, customOnly bool) error {
	registry := config.NewKeybindRegistry(cfg)
	defaults := config.NewKeybindRegistry(config.DefaultConfig())

	title := "webtop Keybindings"
	if customOnly {
		title = "Custom Keybindings"
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Foreground(theme.CLITitle()).Render(title))
	fmt.Fprintln(out)

	printed := 0
	for _, section := range config.HelpSections {
		headers := []string{"Keys", "Action"}
		if customOnly {
			headers = []string{"Keys", "Default", "Action"}
		}
		t := newTable(headers...)
		rows := 0
		for _, action := range section.Actions {
			keys := registry.GetKeys(action)
			if len(keys) == 0 {
				continue
			}
			desc := config.ActionDescriptions[action]
			if desc == "" {
				desc = action
			}
			if !customOnly {
				t.Row(strings.Join(keys, ", "), desc)
				rows++
				continue
			}
			if def := defaults.GetKeys(action); !slices.Equal(keys, def) {
				t.Row(strings.Join(keys, ", "), strings.Join(def, ", "), desc)
				rows++
			}
		}
		if rows == 0 {
			continue
		}
		printed += rows
		fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey()).Render(section.Title))
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out)
	}

	if customOnly && printed == 0 {
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(theme.CLITableDim()).Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'webtop keybinds list' to see all keybindings.")
	}
	return nil
}

// appInfo is the listing view of a catalog entry.
type appInfo struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Width     int    `json:"width" yaml:"width"`
	Height    int    `json:"height" yaml:"height"`
	MinWidth  int    `json:"min_width" yaml:"min_width"`
	MinHeight int    `json:"min_height" yaml:"min_height"`
	Singleton bool   `json:"singleton" yaml:"singleton"`
}

func listApps(out io.Writer, format string, catalog *apps.Catalog) error {
	list := catalog.List()
	if format != formatTable {
		infos := make([]appInfo, 0, len(list))
		for _, a := range list {
			infos = append(infos, appInfo{
				ID:        a.ID,
				Name:      a.Name,
				Width:     a.DefaultSize.Width,
				Height:    a.DefaultSize.Height,
				MinWidth:  a.MinSize.Width,
				MinHeight: a.MinSize.Height,
				Singleton: a.Singleton,
			})
		}
		return writeStructured(out, format, infos)
	}

	t := newTable("#", "ID", "App", "Size", "Min", "Instances")
	for i, a := range list {
		instances := "many"
		if a.Singleton {
			instances = "one"
		}
		t.Row(
			fmt.Sprint(i+1),
			a.ID,
			a.Icon+" "+a.Name,
			a.DefaultSize.String(),
			a.MinSize.String(),
			instances,
		)
	}
	_, err := fmt.Fprintln(out, t.Render())
	return err
}
