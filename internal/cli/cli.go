package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/buildinfo"
	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/config"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "clrfp"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	noCache    bool

	in  io.Reader
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Colorful SSH fingerprint randomart",
		Long: `clrfp draws the drunken bishop randomart of an SSH key fingerprint,
colored by a bias derived from the fingerprint itself, as terminal text or
as a PNG or SVG image.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.New(errors.ErrCodeInvalidOption, "%v (usage: %s)", err, cmd.UseLine())
	})
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/clrfp/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")

	root.AddCommand(c.textCommand())
	root.AddCommand(c.imageCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command tree and returns the process exit status.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)
	if c.in != nil {
		root.SetIn(c.in)
	}
	if c.out != nil {
		root.SetOut(c.out)
	}
	err := root.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitOK
	}
	if ctx.Err() != nil {
		return errors.ExitInterrupted
	}
	printError("%s", errorMessage(err))
	c.Logger.Debug("command failed", "code", errors.GetCode(err), "err", err)
	return errors.ExitCode(err)
}

// errorMessage returns the user-facing text of err including its cause.
func errorMessage(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

// maxArgs is cobra.MaximumNArgs with a usage error code.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return errors.New(errors.ErrCodeInvalidOption, "%v (usage: %s)", err, cmd.UseLine())
		}
		return nil
	}
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath(appName)
		if err != nil {
			c.Logger.Debug("no config directory", "err", err)
			return nil
		}
		path = p
	} else if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "config file %s", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.Config = cfg
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cc, err := c.newCache()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir(appName)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
