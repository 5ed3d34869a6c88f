package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// legendCommand creates the legend command, which exports the legend panel
// on its own.
func (c *CLI) legendCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Export the legend as SVG",
		Long:  `Legend writes the fixed Movie/Person/Rating/Tags legend as a standalone SVG. Without --output it is printed to stdout.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := render.LegendSVG(scene.NewLegend())
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			return writeLegend(output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func writeLegend(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Wrote legend")
	printFile(path)
	return nil
}
