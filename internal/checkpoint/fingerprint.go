package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// Fingerprint identifies a source file by path and content hash.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
	SHA256  string
}

// HashFile stats and hashes a source file. The content hash, not the
// modtime, decides checkpoint validity.
func HashFile(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Fingerprint{}, fmt.Errorf("hash %s: %w", path, err)
	}

	return Fingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		SHA256:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}
