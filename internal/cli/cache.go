package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. With --redis it
// clears the shared cache used by `clrfp serve` instead of the local one.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisURL string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL != "" {
				return c.clearRedis(cmd.Context(), redisURL)
			}

			dir, err := cache.DefaultDir(appName)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "open cache")
			}

			count, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis", "", "clear the Redis cache at this URL instead")
	return cmd
}

func (c *CLI) clearRedis(ctx context.Context, url string) error {
	if err := errors.ValidateRedisURL(url); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx, url)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "connect to redis")
	}
	defer rc.Close()

	count, err := rc.Clear(ctx, redisKeyPrefix+"*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear redis cache")
	}
	printSuccess("Cleared %d cached entries", count)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cache.DefaultDir(appName)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
