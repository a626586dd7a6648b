package form

import (
	"sort"
	"strings"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Fingerprint summarises a schema's structure as its sorted top-level
// property names. Two schemas with equal fingerprints are treated as
// interchangeable for an in-progress form value.
type Fingerprint []string

// Equal reports whether two fingerprints list the same names.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if len(f) != len(other) {
		return false
	}
	for idx := range f {
		if f[idx] != other[idx] {
			return false
		}
	}
	return true
}

func (f Fingerprint) String() string {
	return strings.Join(f, ",")
}

// FingerprintOf computes the fingerprint of doc's resolved root.
func FingerprintOf(interp *jsonschema.Interpreter, doc *schema.Document) Fingerprint {
	if doc == nil {
		return nil
	}
	settled, _ := interp.Settle(doc, doc.Root())
	names := append(Fingerprint{}, doc.Node(settled).PropertyNames...)
	sort.Strings(names)
	return names
}
