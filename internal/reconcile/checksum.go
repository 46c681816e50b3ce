package reconcile

import (
	"crypto/sha256"
	"encoding/hex"

	"medshift/internal/dataset"
)

// CombinedChecksum digests the CSV serialization of three tables
// concatenated in order. The source and target digests are expected to
// differ after transformation; they exist to detect dataset drift between
// runs, never to decide the verdict.
func CombinedChecksum(first, second, third *dataset.Table) string {
	h := sha256.New()
	h.Write([]byte(first.CSV()))
	h.Write([]byte(second.CSV()))
	h.Write([]byte(third.CSV()))
	return hex.EncodeToString(h.Sum(nil))
}
