package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/pipeline"
)

// inputFlags are the flags shared by every rendering command.
type inputFlags struct {
	file   string
	input  string
	digest string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "file to read from (default: stdin)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input kind: key (default) or fingerprint; key requires --file")
	cmd.Flags().StringVarP(&f.digest, "digest", "d", "", "hash algorithm for key input: sha256 (default) or md5")

	_ = cmd.RegisterFlagCompletionFunc("input", fixedCompletion(pipeline.InputKey, pipeline.InputFingerprint))
	_ = cmd.RegisterFlagCompletionFunc("digest", fixedCompletion("sha256", "md5"))
}

// apply overlays explicitly set flags on opts, which carries the config
// file values.
func (f *inputFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("file") {
		opts.Source = f.file
	}
	if cmd.Flags().Changed("input") {
		opts.Input = f.input
	}
	if cmd.Flags().Changed("digest") {
		opts.Digest = f.digest
	}
}

// resolveInput returns the text to scan. A positional argument is taken as
// a bare fingerprint token and wins over --file.
func resolveInput(args []string, opts *pipeline.Options, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		opts.Input = pipeline.InputFingerprint
		opts.Source = ""
		return args[0], opts.ValidateAndSetDefaults()
	}
	return pipeline.Resolve(*opts, stdin)
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
