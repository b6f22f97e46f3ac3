// Package pipeline turns fingerprint text into rendered randomart.
//
// It is the one place where the CLI and the HTTP service meet the engine
// packages, so both entry points resolve input, validate options and cache
// artifacts the same way.
//
// # Stages
//
//  1. Resolve: read the text to scan (key description or raw tool output)
//  2. Extract: find the fingerprint and its key metadata
//  3. Render: walk the field, derive the bias and produce the artifact
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Input: pipeline.InputKey, Source: "~/.ssh/id_ed25519.pub"}
//	text, err := pipeline.Resolve(opts, os.Stdin)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Render(ctx, text, opts)
//	os.Stdout.Write(result.Artifact)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/field"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
	"github.com/matzehuels/clrfp/pkg/palette"
	"github.com/matzehuels/clrfp/pkg/render/raster"
	"github.com/matzehuels/clrfp/pkg/render/text"
)

// Input kinds.
const (
	InputKey         = "key"
	InputFingerprint = "fingerprint"
)

// Output formats.
const (
	FormatText = "text"
	FormatPNG  = "png"
	FormatSVG  = "svg"
)

// Defaults shared by the CLI, the config file and the HTTP service.
const (
	DefaultInput  = InputKey
	DefaultDigest = "sha256"
	DefaultColor  = "background"
	DefaultFormat = FormatText
	DefaultTile   = raster.DefaultTileSize
)

// MaxTile bounds the tile size so a 32x32 image stays a sane size.
const MaxTile = 200

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatPNG:  true,
	FormatSVG:  true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatText: "text/plain; charset=utf-8",
	FormatPNG:  "image/png",
	FormatSVG:  "image/svg+xml",
}

// Options configures one render.
type Options struct {
	Input  string `json:"input,omitempty"`  // key or fingerprint
	Source string `json:"source,omitempty"` // file path; "" or "-" means stdin
	Digest string `json:"digest,omitempty"` // md5 or sha256, used for key input
	Format string `json:"format,omitempty"` // text, png or svg
	Color  string `json:"color,omitempty"`  // foreground or background, text only
	Plain  bool   `json:"plain,omitempty"`  // text without escape sequences
	Tile   int    `json:"tile,omitempty"`   // tile edge in pixels, images only

	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the outcome of one render.
type Result struct {
	Fingerprint *fingerprint.Fingerprint
	Field       *field.Field
	Bias        palette.Bias

	// Artifact holds the rendered bytes in the requested format.
	Artifact    []byte
	ContentType string
	CacheHit    bool

	Stats Stats
}

// Stats contains timing information.
type Stats struct {
	ExtractTime time.Duration
	RenderTime  time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid format: %q (must be one of: text, png, svg)", format)
	}
	return nil
}

// ValidateInput checks that an input kind is valid.
func ValidateInput(input string) error {
	if input != InputKey && input != InputFingerprint {
		return errors.New(errors.ErrCodeInvalidOption, "invalid input: %q (must be 'key' or 'fingerprint')", input)
	}
	return nil
}

// ValidateAndSetDefaults fills empty fields with defaults and validates the
// rest. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		o.Input = DefaultInput
	}
	if o.Digest == "" {
		o.Digest = DefaultDigest
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.Tile == 0 {
		o.Tile = DefaultTile
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := ValidateInput(o.Input); err != nil {
		return err
	}
	if _, ok := fingerprint.ParseDigest(o.Digest); !ok {
		return errors.New(errors.ErrCodeInvalidOption, "invalid digest: %q (must be 'md5' or 'sha256')", o.Digest)
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if _, err := text.ParseMode(o.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid color")
	}
	if o.Tile < 0 || o.Tile > MaxTile {
		return errors.New(errors.ErrCodeInvalidOption, "tile must be between 1 and %d", MaxTile)
	}
	o.validated = true
	return nil
}

// DigestValue returns the parsed digest. Call after ValidateAndSetDefaults.
func (o *Options) DigestValue() fingerprint.Digest {
	d, _ := fingerprint.ParseDigest(o.Digest)
	return d
}

// Mode returns the parsed color mode. Call after ValidateAndSetDefaults.
func (o *Options) Mode() text.Mode {
	m, _ := text.ParseMode(o.Color)
	return m
}

// IsImage reports whether the format is a raster or vector image.
func (o *Options) IsImage() bool {
	return o.Format == FormatPNG || o.Format == FormatSVG
}

// ArtifactKeyOpts returns the cache key options for fp rendered with o.
func (o *Options) ArtifactKeyOpts(meta fingerprint.Metadata) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  o.Format,
		KeyType: meta.KeyType,
		KeySize: meta.KeySize,
		Digest:  string(meta.Digest),
	}
	if o.IsImage() {
		k.Tile = o.Tile
	} else {
		k.Color = o.Color
		k.Plain = o.Plain
	}
	return k
}
