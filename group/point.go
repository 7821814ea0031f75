// Package group defines the curve-agnostic point/scalar interface shared by
// every other package in this module. Concrete backends live in the bjj and
// bn254g1 subpackages; callers obtain one through curves.New in the
// group/curves registry.
package group

import "math/big"

// Point is a group element of a prime-order elliptic-curve group. The
// arithmetic and setter methods mutate the receiver in place and return
// nothing; New and SetPoint return freshly allocated points.
//
// Scalars passed to ScalarMult/ScalarBaseMult are reduced mod Order() by the
// implementation; callers are not required to pre-reduce.
type Point interface {
	// New returns a fresh, independently-allocated point on the same curve,
	// initialized to the identity element.
	New() Point

	// Order returns the (prime) order of the group.
	Order() *big.Int

	// Add sets the receiver to a+b.
	Add(a, b Point)

	// Neg sets the receiver to -a.
	Neg(a Point)

	// ScalarMult sets the receiver to k*a. ScalarMult(0, a) yields the
	// identity; ScalarMult(Order(), a) yields the identity.
	ScalarMult(a Point, k *big.Int)

	// ScalarBaseMult sets the receiver to k*G for the curve's generator G.
	ScalarBaseMult(k *big.Int)

	// SetGenerator sets the receiver to the curve's distinguished generator G.
	SetGenerator()

	// SetZero sets the receiver to the identity element O.
	SetZero()

	// Set copies a into the receiver.
	Set(a Point)

	// Equal reports whether the receiver and a denote the same group element.
	Equal(a Point) bool

	// IsIdentity reports whether the receiver is the identity element O.
	IsIdentity() bool

	// IsOnCurve reports whether the receiver's coordinates satisfy the curve
	// equation. Freshly decoded points must be checked with this before use.
	IsOnCurve() bool

	// Marshal returns the backend's own compressed encoding of the point.
	// encoding.EncodePoint defines the separate cross-backend wire format,
	// built from the affine coordinates returned by Point.
	Marshal() []byte

	// Unmarshal decodes a point previously produced by Marshal. It does not
	// itself enforce on-curve-ness beyond what the underlying library
	// guarantees; callers that need the §4.1 InvalidPoint contract should use
	// encoding.DecodePoint.
	Unmarshal(buf []byte) error

	// Point returns the affine (x, y) coordinates.
	Point() (x, y *big.Int)

	// SetPoint returns a new point (not necessarily the receiver — backends
	// mirror the teacher's ecc.Point.SetPoint semantics of allocating fresh
	// storage) with the given affine coordinates. Callers must confirm
	// IsOnCurve() before trusting the result.
	SetPoint(x, y *big.Int) Point

	// Type returns the backend's curve identifier (e.g. "bjj", "bn254g1").
	Type() string
}
