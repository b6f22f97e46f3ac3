package fingerprint

import (
	"encoding/hex"
	"strings"

	"github.com/matzehuels/clrfp/pkg/errors"
)

// Validate checks a bare hex fingerprint token and returns its bytes.
// Colon separators are stripped first. The checks run in a fixed order and
// each failure carries its own code:
//
//   - odd number of hex digits: INVALID_FINGERPRINT_ODD_LENGTH
//   - fewer than 12 or more than 32 bytes: INVALID_FINGERPRINT_LENGTH
//   - a character outside [0-9a-fA-F]: INVALID_FINGERPRINT_CHAR
func Validate(token string) ([]byte, error) {
	s := strings.ReplaceAll(token, ":", "")

	if len(s)%2 != 0 {
		return nil, errors.New(errors.ErrCodeOddLength, "odd number of characters (%d)", len(s))
	}
	if n := len(s) / 2; n < MinBytes || n > MaxBytes {
		return nil, errors.New(errors.ErrCodeByteLength, "key must be %d-%d bytes (%d given)", MinBytes, MaxBytes, n)
	}
	for _, r := range s {
		if !isHex(r) {
			return nil, errors.New(errors.ErrCodeBadChar, "invalid character (%q)", r)
		}
	}

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBadChar, err, "decode %q", token)
	}
	return data, nil
}

// ParseToken parses a bare fingerprint token: either SHA256:-prefixed base64
// or a hex string accepted by [Validate]. Hex tokens of 16 bytes are reported
// as MD5; any other length keeps an empty digest since the scheme is unknown.
func ParseToken(token string) (*Fingerprint, error) {
	token = strings.TrimSpace(token)

	if b64, ok := strings.CutPrefix(token, "SHA256:"); ok {
		data, err := decodeBase64(strings.TrimRight(b64, "="))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBadChar, err, "invalid base64 fingerprint")
		}
		if n := len(data); n < MinBytes || n > MaxBytes {
			return nil, errors.New(errors.ErrCodeByteLength, "key must be %d-%d bytes (%d given)", MinBytes, MaxBytes, n)
		}
		return &Fingerprint{Bytes: data, Meta: Metadata{Digest: SHA256}}, nil
	}

	data, err := Validate(strings.TrimPrefix(token, "MD5:"))
	if err != nil {
		return nil, err
	}
	fp := &Fingerprint{Bytes: data}
	if len(data) == 16 {
		fp.Meta.Digest = MD5
	}
	return fp, nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
