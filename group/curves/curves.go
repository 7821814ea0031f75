// Package curves is the curve-backend registry, adapted from the teacher's
// crypto/ecc/curves.New(curveType) switch.
package curves

import (
	"slices"

	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/group/bjj"
	"github.com/barnett-smart/mentalpoker-core/group/bn254g1"
)

// New creates a fresh identity-element point for the given curve type. It
// panics on an unsupported type — callers that accept curveType from
// untrusted input must check IsValid first, exactly as the teacher's
// curves.New does.
func New(curveType string) group.Point {
	switch curveType {
	case bjj.CurveType:
		return bjj.New()
	case bn254g1.CurveType:
		return bn254g1.New()
	default:
		panic("unsupported curve type: " + curveType)
	}
}

// Types returns the supported curve type identifiers.
func Types() []string {
	return []string{bjj.CurveType, bn254g1.CurveType}
}

// IsValid reports whether curveType names a supported backend.
func IsValid(curveType string) bool {
	return slices.Contains(Types(), curveType)
}
