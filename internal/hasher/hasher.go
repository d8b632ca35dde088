package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex SHA-256 of the raw bytes. Identical bytes
// always yield the identical digest; the digest is the dedup key and
// part of every generated object name.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short is the digest fragment embedded in object keys. Twelve hex
// chars keep keys readable while collisions stay negligible at catalog
// scale.
func Short(digest string) string {
	if len(digest) < 12 {
		return digest
	}
	return digest[:12]
}
