// Package pkg holds the libraries behind clrfp, which turns SSH key
// fingerprints into colored drunken bishop randomart.
//
// # Data flow
//
//	key file / ssh-keygen output / bare token
//	         ↓
//	    [keys] + [fingerprint] (describe key, extract fingerprint bytes)
//	         ↓
//	    [field] (walk the bishop over a 9x17 or 32x32 board, via [bitstream])
//	         ↓
//	    [palette] (color bias derived from the same bytes)
//	         ↓
//	    [render/text] or [render/raster] (ANSI text, PNG, SVG)
//
// [pipeline] runs these steps for both the CLI and [server] and caches image
// artifacts through [cache]. [errors] carries the error codes every layer
// returns, and [config] loads the TOML file that sets option defaults.
//
// # Quick Start
//
//	fp, err := fingerprint.Extract("256 SHA256:47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU me@host (ED25519)")
//	if err != nil {
//	    return err
//	}
//	f := field.Generate(fp.Bytes, field.TextDims)
//	fmt.Print(text.Render(f, fp.Meta, palette.Derive(fp.Bytes), text.Background))
//
// [keys]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/keys
// [fingerprint]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/fingerprint
// [field]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/field
// [bitstream]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/bitstream
// [palette]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/palette
// [render/text]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/render/text
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/render/raster
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/clrfp/pkg/config
package pkg
