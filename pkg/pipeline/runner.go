package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/field"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
	"github.com/matzehuels/clrfp/pkg/observability"
	"github.com/matzehuels/clrfp/pkg/palette"
	"github.com/matzehuels/clrfp/pkg/render/raster"
	"github.com/matzehuels/clrfp/pkg/render/text"
)

// Runner renders fingerprints with caching.
// Both CLI and server use this so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long image artifacts stay cached.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Render extracts the fingerprint from input and renders it in opts.Format.
// Image artifacts are cached; text is cheap enough to render every time.
func (r *Runner) Render(ctx context.Context, input string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extractStart := time.Now()
	fp, err := Find(input, opts.Input)
	if err != nil {
		observability.Pipeline().OnExtract(ctx, "", err)
		return nil, err
	}
	observability.Pipeline().OnExtract(ctx, string(fp.Meta.Digest), nil)
	result := &Result{
		Fingerprint: fp,
		ContentType: ContentTypes[opts.Format],
		Stats:       Stats{ExtractTime: time.Since(extractStart)},
	}
	r.Logger.Debug("extracted fingerprint",
		"digest", fp.Meta.Digest,
		"type", fp.Meta.KeyType,
		"size", fp.Meta.KeySize,
		"bytes", len(fp.Bytes))

	renderStart := time.Now()
	defer func() { result.Stats.RenderTime = time.Since(renderStart) }()

	if !opts.IsImage() {
		result.Field = field.Generate(fp.Bytes, field.TextDims)
		result.Bias = palette.Derive(fp.Bytes)
		result.Artifact = []byte(RenderText(result.Field, fp.Meta, result.Bias, opts))
		observability.Pipeline().OnRender(ctx, opts.Format, time.Since(renderStart), nil)
		return result, nil
	}

	result.Field = field.Generate(fp.Bytes, field.ImageDims)
	key := r.Keyer.ArtifactKey(fp.Bytes, opts.ArtifactKeyOpts(fp.Meta))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			r.Logger.Debug("artifact cache hit", "format", opts.Format)
			observability.Cache().OnCacheHit(ctx, opts.Format)
			result.Artifact = data
			result.CacheHit = true
			return result, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}

	observability.Cache().OnCacheMiss(ctx, opts.Format)

	data, err := RenderImage(result.Field, opts)
	observability.Pipeline().OnRender(ctx, opts.Format, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, opts.Format, len(data))
	}
	return result, nil
}

// Find locates the fingerprint in input. Fingerprint input that is a single
// token (hex, colon-grouped hex or SHA256: base64) goes straight to the token
// validator, so its length and character errors are reported as such; any
// other input is scanned as tool output.
func Find(input, kind string) (*fingerprint.Fingerprint, error) {
	if kind == InputFingerprint {
		token := strings.TrimSpace(input)
		if token != "" && !strings.ContainsAny(token, " \t\r\n") {
			return fingerprint.ParseToken(token)
		}
	}
	return fingerprint.Extract(input)
}

// RenderText renders the text block for f.
func RenderText(f *field.Field, meta fingerprint.Metadata, bias palette.Bias, opts Options) string {
	if opts.Plain {
		return text.Plain(f, meta)
	}
	return text.Render(f, meta, bias, opts.Mode())
}

// RenderImage renders f as PNG or SVG.
func RenderImage(f *field.Field, opts Options) ([]byte, error) {
	ropts := []raster.Option{raster.WithTileSize(opts.Tile)}
	switch opts.Format {
	case FormatPNG:
		data, err := raster.RenderPNG(f, ropts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
		}
		return data, nil
	case FormatSVG:
		return raster.RenderSVG(f, ropts...), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidOption, "format %q is not an image format", opts.Format)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
