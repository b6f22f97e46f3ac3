package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/observability"
	"github.com/matzehuels/clrfp/pkg/pipeline"
	"github.com/matzehuels/clrfp/pkg/server"
)

// redisKeyPrefix scopes every key the server writes to a shared Redis.
const redisKeyPrefix = appName + ":"

const redisDialTimeout = 5 * time.Second

type serveOpts struct {
	addr  string
	redis string
}

// serveCommand creates the serve command, which exposes the renderer over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve randomart over HTTP",
		Long: `Start an HTTP server that renders fingerprints supplied by clients.

Rendered images are cached in Redis when --redis (or server.redis_url in the
config file) is set, otherwise in the local file cache.`,
		Example: `  clrfp serve --addr :8080
  clrfp serve --redis redis://localhost:6379/0`,
		Args: maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis URL for the shared artifact cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, flags *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := c.Config.Server
	if cmd.Flags().Changed("addr") {
		cfg.Addr = flags.addr
	}
	if cmd.Flags().Changed("redis") {
		cfg.RedisURL = flags.redis
	}

	ttl, err := cfg.TTL()
	if err != nil {
		return err
	}

	runner, err := c.serverRunner(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.TTL = ttl

	printKeyValue("Listening", cfg.Addr)
	printKeyValue("Cache TTL", ttl.String())
	printNextStep("Try", "curl 'http://localhost"+cfg.Addr+"/v1/art?fp=<fingerprint>'")

	counters := &observability.Counters{}
	observability.Register(counters)

	srv := server.New(runner, logger,
		server.WithDefaults(c.Config.Options()),
		server.WithCounters(counters))
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// serverRunner builds the runner behind the server, backed by Redis when a
// URL is given.
func (c *CLI) serverRunner(ctx context.Context, redisURL string) (*pipeline.Runner, error) {
	if redisURL == "" || c.noCache {
		if !c.noCache {
			printWarning("No Redis configured, caching to the local file cache")
		}
		return c.newRunner()
	}
	if err := errors.ValidateRedisURL(redisURL); err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()

	spin := newSpinner(dialCtx, statusOut, "Connecting to Redis...")
	spin.Start()
	rc, err := cache.NewRedisCache(dialCtx, redisURL)
	spin.Stop()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to redis")
	}
	printSuccess("Connected to Redis")

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix)
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}
