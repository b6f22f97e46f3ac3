package fingerprint

import (
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/matzehuels/clrfp/pkg/errors"
)

var (
	sha256Pattern   = regexp.MustCompile(`SHA256:([a-zA-Z0-9+/]{43,44})(?:\s|$|=)`)
	md5ColonPattern = regexp.MustCompile(`(?:MD5:)?((?:[a-fA-F0-9]{2}:){15}[a-fA-F0-9]{2})(?:\s|$)`)
	md5PlainPattern = regexp.MustCompile(`(?:MD5:)?((?:[a-fA-F0-9]{2}){16})(?:\s|$)`)

	keyTypePattern = regexp.MustCompile(`\((\w+)\)`)
	keySizePattern = regexp.MustCompile(`(?m)^(\d+)\s`)
)

// Extract finds the first fingerprint in text and returns its bytes with the
// key metadata found alongside it. It fails with FINGERPRINT_NOT_FOUND when
// none of the supported patterns match.
func Extract(text string) (*Fingerprint, error) {
	data, digest, ok := findSHA256(text)
	if !ok {
		data, digest, ok = findMD5(text)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeFingerprintNotFound, "fingerprint not found")
	}
	return &Fingerprint{
		Bytes: data,
		Meta: Metadata{
			KeyType: KeyType(text),
			KeySize: KeySize(text),
			Digest:  digest,
		},
	}, nil
}

func findSHA256(text string) ([]byte, Digest, bool) {
	m := sha256Pattern.FindStringSubmatch(text)
	if m == nil {
		return nil, "", false
	}
	data, err := decodeBase64(m[1])
	if err != nil {
		return nil, "", false
	}
	return data, SHA256, true
}

func findMD5(text string) ([]byte, Digest, bool) {
	for _, p := range []*regexp.Regexp{md5ColonPattern, md5PlainPattern} {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		data, err := hex.DecodeString(strings.ReplaceAll(m[1], ":", ""))
		if err != nil {
			continue
		}
		return data, MD5, true
	}
	return nil, "", false
}

// decodeBase64 pads s with '=' to a multiple of four and decodes it with the
// standard alphabet.
func decodeBase64(s string) ([]byte, error) {
	if r := len(s) % 4; r != 0 {
		s += strings.Repeat("=", 4-r)
	}
	return base64.StdEncoding.DecodeString(s)
}

// KeyType returns the first parenthesized word in text, or "".
func KeyType(text string) string {
	if m := keyTypePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// KeySize returns the first integer that starts a line and is followed by
// whitespace, or "".
func KeySize(text string) string {
	if m := keySizePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
