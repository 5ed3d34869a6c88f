package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/settings"
)

// configCommand creates the config command for inspecting the settings file.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the settings file",
		Long: `The settings file holds the year filter and visual options used when a flag
is not given on the command line. It lives in $XDG_CONFIG_HOME/forcegraph/config.toml
unless --config points elsewhere.`,
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
		},
	})
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(c.configPath)
			if err != nil {
				return err
			}
			s.Normalize()
			if err := s.Validate(); err != nil {
				printWarning("%v", err)
			}
			printSettings(cmd.OutOrStdout(), c.configPath, s)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if force {
				if err := settings.Save(settings.Default(), c.configPath); err != nil {
					return err
				}
				printSuccess("Reset settings")
				printFile(c.configPath)
				return nil
			}

			created, err := settings.EnsureExists(c.configPath)
			if err != nil {
				return err
			}
			if !created {
				logger.Debug("settings file exists", "path", c.configPath)
				printInfo("Settings already exist")
				printFile(c.configPath)
				printNextStep("Overwrite with defaults", "forcegraph config init --force")
				return nil
			}
			printSuccess("Created settings")
			printFile(c.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// printSettings renders s as a two-column table.
func printSettings(w io.Writer, path string, s *settings.Settings) {
	rows := settingsRows(s)

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return valueStyle
		})

	fmt.Fprintln(w, StyleTitle.Render("Settings")+" "+StyleDim.Render(path))
	fmt.Fprintln(w, t.Render())
}

// settingsRows lists every setting in file order.
func settingsRows(s *settings.Settings) [][]string {
	return [][]string{
		{"year", strconv.Itoa(s.Year)},
		{"operator", s.Operator},
		{"limit", strconv.Itoa(s.Limit)},
		{"show_labels", strconv.FormatBool(s.Visual.ShowLabels)},
		{"show_relationships", strconv.FormatBool(s.Visual.ShowRelationships)},
		{"node_size", s.Visual.NodeSize},
		{"width", strconv.FormatFloat(s.Viewport.Width, 'f', -1, 64)},
		{"height", strconv.FormatFloat(s.Viewport.Height, 'f', -1, 64)},
	}
}
