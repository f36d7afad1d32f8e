// Package plate models the microplate inputs of a screening run: well
// identifiers, the plate-layout annotation table, and the per-well phenotype
// count matrix emitted by the upstream image classifier.
package plate

import (
	"regexp"
)

// rawWellPattern matches identifiers as emitted by the imaging instrument,
// e.g. "WA01_P1": plate row letter + column number, then the plate suffix.
var rawWellPattern = regexp.MustCompile(`^W([A-Z][0-9]{2})_P([0-9])$`)

// normalizedWellPattern matches identifiers in annotation-key form, e.g. "A01_01".
var normalizedWellPattern = regexp.MustCompile(`^[A-Z][0-9]{2}_[0-9]{2}$`)

// NormalizeWellID converts a raw instrument well identifier to the
// annotation-table key format: "WA01_P1" becomes "A01_01". Identifiers that
// do not match the instrument pattern are returned unchanged, so the function
// is idempotent on already-normalized keys. Callers that need to detect
// non-matching identifiers should check IsNormalized on the result.
func NormalizeWellID(raw string) string {
	m := rawWellPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return m[1] + "_0" + m[2]
}

// IsNormalized reports whether id is in the annotation-key format.
func IsNormalized(id string) bool {
	return normalizedWellPattern.MatchString(id)
}
