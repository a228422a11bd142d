package legacyir

import (
	"crypto/sha256"
	"encoding/hex"
)

// OperationID returns the SHA-256 digest of the UTF-8 bytes of source as 64
// lowercase hexadecimal characters. Byte-identical input always produces the
// same identifier; this is the interoperability contract with
// persisted-query servers.
func OperationID(source string) string {
	sum := sha256.Sum256([]byte(source))

	return hex.EncodeToString(sum[:])
}
