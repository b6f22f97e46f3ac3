package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func ed25519Key(t *testing.T) (ed25519.PrivateKey, ssh.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	return priv, sshPub
}

func authorizedLine(key ssh.PublicKey, comment string) []byte {
	line := strings.TrimSuffix(string(ssh.MarshalAuthorizedKey(key)), "\n")
	return []byte(line + " " + comment + "\n")
}

func TestDescribePublicKey(t *testing.T) {
	dir := t.TempDir()
	_, pub := ed25519Key(t)
	path := writeFile(t, dir, "id_ed25519.pub", authorizedLine(pub, "alice@example"))

	got, err := Describe(path, fingerprint.SHA256)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	want := "256 " + ssh.FingerprintSHA256(pub) + " alice@example (ED25519)"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	fp, err := fingerprint.Extract(got)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(fp.Bytes) != 32 || fp.Meta.KeyType != "ED25519" || fp.Meta.KeySize != "256" || fp.Meta.Digest != fingerprint.SHA256 {
		t.Errorf("extracted %d bytes, meta %+v", len(fp.Bytes), fp.Meta)
	}
}

func TestDescribeMD5(t *testing.T) {
	dir := t.TempDir()
	_, pub := ed25519Key(t)
	path := writeFile(t, dir, "key.pub", authorizedLine(pub, "bob"))

	got, err := Describe(path, fingerprint.MD5)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !strings.HasPrefix(got, "256 MD5:") {
		t.Errorf("Describe() = %q, want MD5 notation", got)
	}

	fp, err := fingerprint.Extract(got)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(fp.Bytes) != 16 || fp.Meta.Digest != fingerprint.MD5 {
		t.Errorf("extracted %d bytes with digest %q", len(fp.Bytes), fp.Meta.Digest)
	}
}

func TestDescribePrivateKey(t *testing.T) {
	dir := t.TempDir()
	priv, pub := ed25519Key(t)
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeFile(t, dir, "id_ed25519", pem.EncodeToMemory(block))

	got, err := Describe(path, fingerprint.SHA256)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	want := "256 " + ssh.FingerprintSHA256(pub) + " no comment (ED25519)"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestDescribeProtectedKeyUsesPub(t *testing.T) {
	dir := t.TempDir()
	priv, pub := ed25519Key(t)
	block, err := ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte("secret"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeFile(t, dir, "id_ed25519", pem.EncodeToMemory(block))
	writeFile(t, dir, "id_ed25519.pub", authorizedLine(pub, "carol@host"))

	got, err := Describe(path, fingerprint.SHA256)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !strings.HasSuffix(got, "carol@host (ED25519)") {
		t.Errorf("Describe() = %q, want comment from .pub file", got)
	}
}

func TestDescribeUnavailable(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope")},
		{"garbage", writeFile(t, dir, "garbage", []byte("not a key\n"))},
		{"empty", writeFile(t, dir, "empty", nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Describe(tt.path, fingerprint.SHA256)
			if !errors.Is(err, errors.ErrCodeKeyUnavailable) {
				t.Errorf("Describe() error = %v, want KEY_SOURCE_UNAVAILABLE", err)
			}
		})
	}
}

func TestBitsAndTypeName(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}
	rsaPub, err := ssh.NewPublicKey(&rsaKey.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	ecKey, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ecPub, err := ssh.NewPublicKey(&ecKey.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	_, edPub := ed25519Key(t)

	tests := []struct {
		name string
		key  ssh.PublicKey
		bits int
		typ  string
	}{
		{"rsa", rsaPub, 1024, "RSA"},
		{"ecdsa", ecPub, 384, "ECDSA"},
		{"ed25519", edPub, 256, "ED25519"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bits(tt.key); got != tt.bits {
				t.Errorf("Bits() = %d, want %d", got, tt.bits)
			}
			if got := TypeName(tt.key); got != tt.typ {
				t.Errorf("TypeName() = %q, want %q", got, tt.typ)
			}
		})
	}
}
