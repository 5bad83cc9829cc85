// Package primitives provides versioning utilities for Definition.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Fingerprint computes a deterministic version for a Definition from the
// sha256 of its canonical JSON (transitions sorted). The name is a label and
// is left out, so the same machine fingerprints equally whichever encoding it
// was loaded from.
func Fingerprint(def Definition) string {
	def.Name = ""
	data, err := json.Marshal(def)
	if err != nil {
		return "invalid"
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
