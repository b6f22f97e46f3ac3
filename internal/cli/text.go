package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/pipeline"
)

type textOpts struct {
	inputFlags
	color string
	plain bool
}

// textCommand creates the text command, the terminal rendering of a
// fingerprint.
func (c *CLI) textCommand() *cobra.Command {
	var opts textOpts

	cmd := &cobra.Command{
		Use:   "text [fingerprint]",
		Short: "Print colored randomart to the terminal",
		Long: `Print the randomart of a key fingerprint as a colored text block.

By default the key in --file is described with the chosen digest. With
--input fingerprint the file (or stdin) is scanned for ssh-keygen style
output, a colon-separated MD5 fingerprint or a bare hex token. A positional
argument is always taken as a fingerprint token.`,
		Example: `  clrfp text -f ~/.ssh/id_ed25519.pub
  ssh-keygen -lf ~/.ssh/id_rsa.pub | clrfp text -i fingerprint -c foreground
  clrfp text aa:bb:cc:dd:ee:ff:00:11:22:33:44:55:66:77:88:99`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runText(cmd, args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.color, "color", "c", "", "color mode: background (default) or foreground")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print without escape sequences")
	_ = cmd.RegisterFlagCompletionFunc("color", fixedCompletion("background", "foreground"))

	return cmd
}

func (c *CLI) runText(cmd *cobra.Command, args []string, flags *textOpts) error {
	opts := c.Config.Options()
	opts.Format = pipeline.FormatText
	opts.Logger = loggerFromContext(cmd.Context())
	flags.apply(cmd, &opts)
	if cmd.Flags().Changed("color") {
		opts.Color = flags.color
	}
	opts.Plain = flags.plain

	input, err := resolveInput(args, &opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Render(cmd.Context(), input, opts)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(res.Artifact)
	return err
}
