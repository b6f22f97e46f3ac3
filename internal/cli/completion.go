package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/errors"
)

// completionCommand creates the completion command. Besides command names
// the scripts complete the fixed-value flags: --input, --digest, --color and
// --format.
func (c *CLI) completionCommand() *cobra.Command {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

The script completes the clrfp commands (text, image, serve, browse, cache)
and the values of their fixed-choice flags:

  -i, --input    key, fingerprint
  -d, --digest   sha256, md5
  -c, --color    background, foreground   (text)
      --format   png, svg                 (image)

Key files given to -f and browse are completed as paths.

Load it for the current session:

  $ source <(clrfp completion bash)
  $ source <(clrfp completion zsh)
  $ clrfp completion fish | source
  PS> clrfp completion powershell | Out-String | Invoke-Expression

Or install it once, e.g. clrfp completion zsh > "${fpath[1]}/_clrfp".`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)(cmd, args); err != nil {
				return errors.New(errors.ErrCodeInvalidOption, "%v (usage: %s)", err, cmd.UseLine())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}

	return cmd
}
