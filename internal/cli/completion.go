package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// datasetExtensions are the file types offered when completing a dataset
// argument.
var datasetExtensions = []string{"json", "yaml", "yml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for forcegraph.

Besides subcommands and flags, the scripts complete dataset files for
render and view, and the values of --format, --node-size and --operator.

  $ source <(forcegraph completion bash)
  $ forcegraph completion zsh > "${fpath[1]}/_forcegraph"
  $ forcegraph completion fish > ~/.config/fish/completions/forcegraph.fish
  PS> forcegraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}

	return cmd
}

// datasetCompletion completes the single dataset argument of render and view.
func datasetCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return datasetExtensions, cobra.ShellCompDirectiveFilterFileExt
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func nodeSizeNames() []string {
	out := make([]string, len(scene.NodeSizes))
	for i, s := range scene.NodeSizes {
		out[i] = string(s)
	}
	return out
}

func operatorNames() []string {
	out := make([]string, len(graph.Operators))
	for i, op := range graph.Operators {
		out[i] = string(op)
	}
	return out
}
