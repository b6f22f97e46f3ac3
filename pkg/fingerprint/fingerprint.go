package fingerprint

import "strings"

// Digest is the hashing scheme a fingerprint was expressed in.
type Digest string

// Supported digests.
const (
	MD5    Digest = "MD5"
	SHA256 Digest = "SHA256"
)

// Accepted fingerprint lengths in bytes for bare tokens.
const (
	MinBytes = 12
	MaxBytes = 32
)

// ParseDigest converts a flag or config value ("md5", "sha256") to a Digest.
// The match is case-insensitive. ok is false for unknown values.
func ParseDigest(s string) (d Digest, ok bool) {
	switch strings.ToLower(s) {
	case "md5":
		return MD5, true
	case "sha256":
		return SHA256, true
	}
	return "", false
}

// Lower returns the digest name as ssh-keygen's -E flag expects it.
func (d Digest) Lower() string {
	switch d {
	case MD5:
		return "md5"
	case SHA256:
		return "sha256"
	}
	return ""
}

// Metadata describes the key a fingerprint belongs to. It is read from the
// same text the fingerprint came from, never from the fingerprint bytes.
type Metadata struct {
	KeyType string // e.g. "RSA", "ED25519"; empty if absent
	KeySize string // e.g. "2048"; empty if absent
	Digest  Digest
}

// Fingerprint is a validated fingerprint byte sequence plus its metadata.
// Bytes must not be modified after construction.
type Fingerprint struct {
	Bytes []byte
	Meta  Metadata
}
