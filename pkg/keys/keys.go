// Package keys reads OpenSSH key files and describes them the way
// `ssh-keygen -l` does, so the description can be fed to the fingerprint
// extractor.
//
// Both public keys (authorized_keys form) and unencrypted private keys are
// accepted. A passphrase-protected private key is described from its
// neighbouring .pub file when one exists.
package keys

import (
	"crypto/dsa" //nolint:staticcheck // DSA keys still show up in old key stores.
	"crypto/ecdsa"
	"crypto/rsa"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
)

// Info is the parsed form of a key file.
type Info struct {
	Key     ssh.PublicKey
	Comment string
}

// Describe reads the key at path and returns a single ssh-keygen style line:
//
//	<bits> <fingerprint> <comment> (<TYPE>)
func Describe(path string, digest fingerprint.Digest) (string, error) {
	info, err := Load(path)
	if err != nil {
		return "", err
	}
	return info.Line(digest), nil
}

// Load reads and parses the key at path.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeKeyUnavailable, err, "read key %s", path)
	}

	if pub, comment, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
		return &Info{Key: pub, Comment: comment}, nil
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return &Info{Key: signer.PublicKey()}, nil
	}

	var missing *ssh.PassphraseMissingError
	if stderrors.As(err, &missing) {
		if info, perr := loadPublic(path + ".pub"); perr == nil {
			return info, nil
		}
		if missing.PublicKey != nil {
			return &Info{Key: missing.PublicKey}, nil
		}
		return nil, errors.New(errors.ErrCodeKeyUnavailable, "%s is passphrase protected", path)
	}
	return nil, errors.Wrap(errors.ErrCodeKeyUnavailable, err, "%s is not a key file", path)
}

func loadPublic(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, err
	}
	return &Info{Key: pub, Comment: comment}, nil
}

// Line formats the key as ssh-keygen -l would for the given digest.
func (i *Info) Line(digest fingerprint.Digest) string {
	comment := i.Comment
	if comment == "" {
		comment = "no comment"
	}
	return fmt.Sprintf("%d %s %s (%s)", Bits(i.Key), Fingerprint(i.Key, digest), comment, TypeName(i.Key))
}

// Fingerprint returns the key fingerprint in ssh-keygen notation.
func Fingerprint(key ssh.PublicKey, digest fingerprint.Digest) string {
	if digest == fingerprint.MD5 {
		return "MD5:" + ssh.FingerprintLegacyMD5(key)
	}
	return ssh.FingerprintSHA256(key)
}

// TypeName returns the upper-case algorithm name ssh-keygen prints in
// parentheses.
func TypeName(key ssh.PublicKey) string {
	t := key.Type()
	switch {
	case t == ssh.KeyAlgoRSA:
		return "RSA"
	case t == ssh.KeyAlgoDSA:
		return "DSA"
	case t == ssh.KeyAlgoED25519:
		return "ED25519"
	case t == ssh.KeyAlgoSKED25519:
		return "ED25519-SK"
	case t == ssh.KeyAlgoSKECDSA256:
		return "ECDSA-SK"
	case strings.HasPrefix(t, "ecdsa-"):
		return "ECDSA"
	}
	return strings.ToUpper(strings.TrimPrefix(t, "ssh-"))
}

// Bits returns the key size in bits, or 0 when it cannot be determined.
func Bits(key ssh.PublicKey) int {
	switch key.Type() {
	case ssh.KeyAlgoED25519, ssh.KeyAlgoSKED25519:
		return 256
	case ssh.KeyAlgoSKECDSA256:
		return 256
	}

	ck, ok := key.(ssh.CryptoPublicKey)
	if !ok {
		return 0
	}
	switch k := ck.CryptoPublicKey().(type) {
	case *rsa.PublicKey:
		return k.N.BitLen()
	case *ecdsa.PublicKey:
		return k.Curve.Params().BitSize
	case *dsa.PublicKey:
		return k.P.BitLen()
	}
	return 0
}
