package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for plmgraph.

To load completions:

Bash:
  $ source <(plmgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ plmgraph completion bash > /etc/bash_completion.d/plmgraph
  # macOS:
  $ plmgraph completion bash > $(brew --prefix)/etc/bash_completion.d/plmgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ plmgraph completion zsh > "${fpath[1]}/_plmgraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ plmgraph completion fish | source

  # To load completions for each session, execute once:
  $ plmgraph completion fish > ~/.config/fish/completions/plmgraph.fish

PowerShell:
  PS> plmgraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> plmgraph completion powershell > plmgraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
