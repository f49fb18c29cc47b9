package cli

import (
	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a tab-completion script for the named shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a script that teaches your shell to complete nepdate commands,
flags and directions. Load it into the current shell, or save it where the
shell picks it up at startup.

Current shell only:
  bash        source <(nepdate completion bash)
  zsh         source <(nepdate completion zsh)
  fish        nepdate completion fish | source
  powershell  nepdate completion powershell | Out-String | Invoke-Expression

Every new shell:
  bash        nepdate completion bash > ~/.local/share/bash-completion/completions/nepdate
  zsh         nepdate completion zsh > "${fpath[1]}/_nepdate"   (needs compinit)
  fish        nepdate completion fish > ~/.config/fish/completions/nepdate.fish
  powershell  add the "current shell" line above to $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Skips the root pre-run, so a broken config file cannot block it.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(c.out)
			default:
				return root.GenBashCompletionV2(c.out, true)
			}
		},
	}
}
