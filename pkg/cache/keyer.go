package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of fingerprint.
	ArtifactKey(fingerprint []byte, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes the rendered bytes.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Color   string `json:"color,omitempty"`
	Plain   bool   `json:"plain,omitempty"`
	Tile    int    `json:"tile,omitempty"`
	KeyType string `json:"key_type,omitempty"`
	KeySize string `json:"key_size,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form artifact:<sha256>.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the fingerprint bytes together with opts.
func (DefaultKeyer) ArtifactKey(fingerprint []byte, opts ArtifactKeyOpts) string {
	return hashKey("artifact", Hash(fingerprint), opts)
}

var _ Keyer = DefaultKeyer{}
