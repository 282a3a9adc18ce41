// Package fingerprint produces short stable content fingerprints, used
// by watch mode to skip re-checking unchanged documents.
package fingerprint

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Sum returns a 16 hex character xxh3 fingerprint of data.
func Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}
