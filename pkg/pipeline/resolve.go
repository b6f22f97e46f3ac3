package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/keys"
)

// maxInput caps how much text is read from a file or stdin.
const maxInput = 1 << 20

// Resolve returns the text the extractor should scan.
//
// Key input needs a file: the key is read and described like ssh-keygen -l
// would. Asking for key input from stdin fails with INPUT_SOURCE_CONFLICT.
// Fingerprint input reads the named file, or stdin when Source is "" or "-".
func Resolve(opts Options, stdin io.Reader) (string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}
	fromStdin := opts.Source == "" || opts.Source == "-"

	if opts.Input == InputKey {
		if fromStdin {
			return "", errors.New(errors.ErrCodeInputConflict, "key input requires a file; use --input fingerprint to read tool output from stdin")
		}
		opts.Logger.Debug("describing key", "path", opts.Source, "digest", opts.Digest)
		return keys.Describe(opts.Source, opts.DigestValue())
	}

	if fromStdin {
		if stdin == nil {
			return "", errors.New(errors.ErrCodeInputConflict, "no input available on stdin")
		}
		return readAll(stdin, "stdin")
	}

	f, err := os.Open(opts.Source)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", opts.Source)
	}
	defer f.Close()
	return readAll(f, opts.Source)
}

func readAll(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInput))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read %s", name)
	}
	return string(data), nil
}
