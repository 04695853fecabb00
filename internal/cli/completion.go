package cli

import (
	"github.com/spf13/cobra"
)

const completionHelp = `Print a shell completion script for tracegrid.

  bash        source <(tracegrid completion bash)
  zsh         tracegrid completion zsh > "${fpath[1]}/_tracegrid"
  fish        tracegrid completion fish > ~/.config/fish/completions/tracegrid.fish
  powershell  tracegrid completion powershell | Out-String | Invoke-Expression

Start a new shell after installing the script.`

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  completionHelp,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return root.GenBashCompletion(w)
			}
		},
	}
}

// completeComputationFiles offers JSON bundles for the input argument.
func completeComputationFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
