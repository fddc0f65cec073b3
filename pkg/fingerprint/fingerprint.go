package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// SummaryNamespace tags summary keys so other key families can share the
// same store without collisions.
const SummaryNamespace = "summary:"

// Key maps arbitrary content to a fixed-length store key: the namespace tag
// followed by the hex-encoded SHA-256 of the content's UTF-8 bytes. No
// normalization is applied, so contents differing by a single character
// produce unrelated keys.
func Key(namespace, content string) string {
	sum := sha256.Sum256([]byte(content))
	return namespace + hex.EncodeToString(sum[:])
}
