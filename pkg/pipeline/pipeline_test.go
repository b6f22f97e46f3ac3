package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/field"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
	"github.com/matzehuels/clrfp/pkg/observability"
	"github.com/matzehuels/clrfp/pkg/render/text"
)

const sampleOutput = "2048 MD5:aa:bb:cc:dd:ee:ff:00:11:22:33:44:55:66:77:88:99 user@host (RSA)\n"

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if o.Input != InputKey || o.Digest != "sha256" || o.Format != FormatText || o.Color != "background" || o.Tile != DefaultTile {
		t.Errorf("unexpected defaults: %+v", o)
	}
	if o.Logger == nil {
		t.Error("logger should default to a discard logger")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"input", Options{Input: "stdin"}},
		{"digest", Options{Digest: "sha1"}},
		{"format", Options{Format: "pdf"}},
		{"format case", Options{Format: "PNG"}},
		{"color", Options{Color: "rainbow"}},
		{"tile negative", Options{Tile: -1}},
		{"tile large", Options{Tile: MaxTile + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("error = %v, want INVALID_OPTION", err)
			}
		})
	}
}

func TestResolveConflict(t *testing.T) {
	for _, src := range []string{"", "-"} {
		_, err := Resolve(Options{Input: InputKey, Source: src}, strings.NewReader(sampleOutput))
		if !errors.Is(err, errors.ErrCodeInputConflict) {
			t.Errorf("Resolve(key, %q) error = %v, want INPUT_SOURCE_CONFLICT", src, err)
		}
	}
}

func TestResolveFingerprint(t *testing.T) {
	got, err := Resolve(Options{Input: InputFingerprint, Source: "-"}, strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatalf("Resolve stdin: %v", err)
	}
	if got != sampleOutput {
		t.Errorf("Resolve stdin = %q", got)
	}

	path := filepath.Join(t.TempDir(), "fp.txt")
	if err := os.WriteFile(path, []byte(sampleOutput), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = Resolve(Options{Input: InputFingerprint, Source: path}, nil)
	if err != nil {
		t.Fatalf("Resolve file: %v", err)
	}
	if got != sampleOutput {
		t.Errorf("Resolve file = %q", got)
	}

	_, err = Resolve(Options{Input: InputFingerprint, Source: filepath.Join(t.TempDir(), "missing")}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file error = %v, want INVALID_PATH", err)
	}
}

func TestResolveKeyUnavailable(t *testing.T) {
	_, err := Resolve(Options{Input: InputKey, Source: filepath.Join(t.TempDir(), "id_none")}, nil)
	if !errors.Is(err, errors.ErrCodeKeyUnavailable) {
		t.Errorf("error = %v, want KEY_SOURCE_UNAVAILABLE", err)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   string
		code   errors.Code
		nbytes int
	}{
		{"tool output", sampleOutput, InputKey, "", 16},
		{"bare hex", "aabbccddeeff00112233445566778899\n", InputFingerprint, "", 16},
		{"bare colon hex", "aa:bb:cc:dd:ee:ff:00:11:22:33:44:55", InputFingerprint, "", 12},
		{"bare token with key input", "aabbccddeeff00112233", InputKey, errors.ErrCodeFingerprintNotFound, 0},
		{"odd token", "abc", InputFingerprint, errors.ErrCodeOddLength, 0},
		{"short token", "aabbcc", InputFingerprint, errors.ErrCodeByteLength, 0},
		{"bad char token", "zzbbccddeeff001122334455", InputFingerprint, errors.ErrCodeBadChar, 0},
		{"20 byte token", strings.Repeat("ab", 20), InputFingerprint, "", 20},
		{"32 byte token", strings.Repeat("ab", 32), InputFingerprint, "", 32},
		{"20 colon groups", strings.TrimSuffix(strings.Repeat("ab:", 20), ":"), InputFingerprint, "", 20},
		{"token on stdin line", strings.Repeat("cd", 24) + "\n", InputFingerprint, "", 24},
		{"33 digit token", "a" + strings.Repeat("00", 16), InputFingerprint, errors.ErrCodeOddLength, 0},
		{"33 byte token", strings.Repeat("ab", 33), InputFingerprint, errors.ErrCodeByteLength, 0},
		{"long bad char token", "zz" + strings.Repeat("ab", 20), InputFingerprint, errors.ErrCodeBadChar, 0},
		{"single word", "nothing", InputFingerprint, errors.ErrCodeOddLength, 0},
		{"prose", "no fingerprint here", InputFingerprint, errors.ErrCodeFingerprintNotFound, 0},
		{"empty", "", InputFingerprint, errors.ErrCodeFingerprintNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := Find(tt.input, tt.kind)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("Find() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if len(fp.Bytes) != tt.nbytes {
				t.Errorf("Find() = %d bytes, want %d", len(fp.Bytes), tt.nbytes)
			}
			if tt.kind == InputFingerprint && tt.nbytes != 16 && fp.Meta.Digest != "" {
				t.Errorf("Find() digest = %q, want none for a %d byte token", fp.Meta.Digest, tt.nbytes)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Render(context.Background(), sampleOutput, Options{Format: FormatText, Plain: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	fp, _ := fingerprint.Extract(sampleOutput)
	want := text.Plain(field.Generate(fp.Bytes, field.TextDims), fp.Meta)
	if string(res.Artifact) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", res.Artifact, want)
	}
	if !strings.HasPrefix(string(res.Artifact), "+--[RSA 2048]") {
		t.Errorf("missing header: %q", res.Artifact)
	}
	if res.ContentType != ContentTypes[FormatText] {
		t.Errorf("ContentType = %q", res.ContentType)
	}
	if res.Field.Rows() != 9 || res.Field.Cols() != 17 {
		t.Errorf("text field is %dx%d", res.Field.Rows(), res.Field.Cols())
	}
}

func TestRenderTextColored(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Render(context.Background(), sampleOutput, Options{Color: "foreground"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(res.Artifact, []byte("\x1b[1m")) {
		t.Error("colored output has no bold escape")
	}
	if got := bytes.Count(res.Artifact, []byte("\n")); got != 11 {
		t.Errorf("colored output has %d lines, want 11", got)
	}
}

func TestRenderImageCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Format: FormatPNG, Tile: 10}
	first, err := r.Render(ctx, sampleOutput, opts)
	if err != nil {
		t.Fatalf("first Render: %v", err)
	}
	if first.CacheHit {
		t.Error("first render should miss the cache")
	}
	if !bytes.HasPrefix(first.Artifact, []byte("\x89PNG")) {
		t.Error("artifact is not a PNG")
	}
	if first.Field.Rows() != 32 || first.Field.Cols() != 32 {
		t.Errorf("image field is %dx%d", first.Field.Rows(), first.Field.Cols())
	}

	second, err := r.Render(ctx, sampleOutput, opts)
	if err != nil {
		t.Fatalf("second Render: %v", err)
	}
	if !second.CacheHit {
		t.Error("second render should hit the cache")
	}
	if !bytes.Equal(first.Artifact, second.Artifact) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Render(ctx, sampleOutput, opts)
	if err != nil {
		t.Fatalf("refresh Render: %v", err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	svg, err := r.Render(ctx, sampleOutput, Options{Format: FormatSVG, Tile: 10})
	if err != nil {
		t.Fatalf("svg Render: %v", err)
	}
	if svg.CacheHit {
		t.Error("svg must not reuse the png entry")
	}
	if !bytes.Contains(svg.Artifact, []byte(`width="320" height="320"`)) {
		t.Error("svg canvas should be 32 tiles of 10px")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Render(ctx, "nothing to see", Options{}); !errors.Is(err, errors.ErrCodeFingerprintNotFound) {
		t.Errorf("error = %v, want FINGERPRINT_NOT_FOUND", err)
	}
	if _, err := r.Render(ctx, sampleOutput, Options{Format: "gif"}); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("error = %v, want INVALID_OPTION", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Render(cancelled, sampleOutput, Options{}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	meta := fingerprint.Metadata{KeyType: "RSA", KeySize: "2048", Digest: fingerprint.MD5}
	img := Options{Format: FormatPNG, Tile: 25, Color: "foreground"}
	k := img.ArtifactKeyOpts(meta)
	if k.Color != "" || k.Tile != 25 {
		t.Errorf("image key should carry tile only: %+v", k)
	}

	txt := Options{Format: FormatText, Tile: 25, Color: "foreground"}
	k = txt.ArtifactKeyOpts(meta)
	if k.Tile != 0 || k.Color != "foreground" {
		t.Errorf("text key should carry color only: %+v", k)
	}
}

func TestRenderHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	var counters observability.Counters
	observability.Register(&counters)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	for _, format := range []string{FormatText, FormatSVG, FormatSVG} {
		if _, err := r.Render(ctx, sampleOutput, Options{Format: format}); err != nil {
			t.Fatalf("Render(%s): %v", format, err)
		}
	}
	if _, err := r.Render(ctx, "no fingerprint", Options{Input: InputFingerprint}); err == nil {
		t.Fatal("expected not found")
	}

	got := counters.Snapshot()
	if got.Renders != 2 || got.CacheHits != 1 || got.CacheMisses != 1 || got.ExtractErrors != 1 {
		t.Errorf("counters = %+v", got)
	}
}
