package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/pipeline"
)

// defaultImageName is the output file stem when --output is not given.
const defaultImageName = "graphic_fingerprint"

type imageOpts struct {
	inputFlags
	output string
	format string
	tile   int
}

// imageCommand creates the image command, which renders the 32x32 field
// as tiled shapes.
func (c *CLI) imageCommand() *cobra.Command {
	var opts imageOpts

	cmd := &cobra.Command{
		Use:   "image [fingerprint]",
		Short: "Render the fingerprint as a PNG or SVG image",
		Long: `Render the fingerprint on a 32x32 field where every visited cell holds a
shape whose kind and color follow its visit count. The start and end of
the walk are marked with S and E.`,
		Example: `  clrfp image -f ~/.ssh/id_ed25519.pub
  clrfp image --format svg -o key.svg SHA256:47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU
  clrfp image -o - aabbccddeeff00112233445566778899 > art.png`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImage(cmd, args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: graphic_fingerprint.<format>)")
	cmd.Flags().StringVar(&opts.format, "format", "", "image format: png (default) or svg")
	cmd.Flags().IntVar(&opts.tile, "tile", 0, "tile size in pixels (default 25)")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.FormatPNG, pipeline.FormatSVG))

	return cmd
}

func (c *CLI) runImage(cmd *cobra.Command, args []string, flags *imageOpts) error {
	opts := c.Config.Options()
	opts.Logger = loggerFromContext(cmd.Context())
	flags.apply(cmd, &opts)

	opts.Format = imageFormat(flags, opts.Format)
	if cmd.Flags().Changed("tile") {
		opts.Tile = flags.tile
	}
	if opts.Format != pipeline.FormatPNG && opts.Format != pipeline.FormatSVG {
		return errors.New(errors.ErrCodeInvalidOption, "invalid image format: %q (must be 'png' or 'svg')", opts.Format)
	}

	output := flags.output
	if output == "" {
		output = defaultImageName + "." + opts.Format
	}
	if output != "-" {
		if err := errors.ValidateOutputPath(output, opts.Format); err != nil {
			return err
		}
	}

	input, err := resolveInput(args, &opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(opts.Logger)
	res, err := runner.Render(cmd.Context(), input, opts)
	if err != nil {
		return err
	}
	prog.done("rendered " + opts.Format)

	if output == "-" {
		_, err = cmd.OutOrStdout().Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(output, res.Artifact, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}

	printSuccess("Rendered %s image", strings.ToUpper(opts.Format))
	printStats(string(res.Fingerprint.Meta.Digest), len(res.Fingerprint.Bytes), res.CacheHit)
	printFile(output)
	return nil
}

// imageFormat picks the format from --format, then the output extension,
// then the config file, falling back to png.
func imageFormat(flags *imageOpts, configured string) string {
	if flags.format != "" {
		return strings.ToLower(flags.format)
	}
	switch {
	case strings.HasSuffix(strings.ToLower(flags.output), ".svg"):
		return pipeline.FormatSVG
	case strings.HasSuffix(strings.ToLower(flags.output), ".png"):
		return pipeline.FormatPNG
	}
	if configured == pipeline.FormatPNG || configured == pipeline.FormatSVG {
		return configured
	}
	return pipeline.FormatPNG
}
