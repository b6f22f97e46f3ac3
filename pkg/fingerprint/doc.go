// Package fingerprint extracts raw fingerprint bytes from ssh-keygen style
// text and validates bare fingerprint tokens.
//
// # Extraction
//
// [Extract] searches loosely formatted text for a fingerprint. Patterns are
// tried in a fixed order and the first match wins:
//
//  1. SHA256:<43-44 base64 chars>, decoded after padding with '='
//  2. 16 colon-separated hex pairs, optionally prefixed with MD5:
//  3. 32 contiguous hex digits, optionally prefixed with MD5:
//
// The key type ("(ED25519)") and key size (a leading integer on any line) are
// read independently. Their absence yields empty [Metadata] fields and never
// fails the parse.
//
//	fp, err := fingerprint.Extract("256 SHA256:... user@host (ED25519)")
//	fmt.Println(len(fp.Bytes), fp.Meta.KeyType) // 32 ED25519
//
// # Validation
//
// [Validate] checks a bare hex token (colons allowed) and reports odd length,
// out-of-range length and illegal characters as distinct error codes.
// [ParseToken] additionally accepts SHA256:-prefixed base64 tokens.
package fingerprint
