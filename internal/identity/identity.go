// Package identity derives stable record identifiers from legacy primary
// keys. The derivation is a pure function: the same namespace and legacy id
// always produce the same identifier, across runs and across processes,
// which is what makes re-running the migration idempotent.
package identity

import (
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

// root seeds every namespace so identifiers from this tool never collide
// with identifiers another system derives from the same legacy keys.
const root = "medshift"

// Namespaces for the three migrated entities.
const (
	NamespacePatient   = "patient"
	NamespaceEncounter = "encounter"
	NamespaceInvoice   = "invoice"
)

// Derive returns a deterministic 128-bit identifier for a legacy key,
// rendered as 32 lowercase hex characters. Two name-based (SHA-1 UUID)
// steps: the namespace string "<root>_<namespace>" is hashed under the DNS
// namespace, then the stringified legacy id is hashed under that result.
func Derive(namespace string, legacyID int64) string {
	ns := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(root+"_"+namespace))
	id := uuid.NewSHA1(ns, []byte(strconv.FormatInt(legacyID, 10)))
	return hex.EncodeToString(id[:])
}
