// Package pedersen implements the vector Pedersen commitment scheme of
// spec.md §4.3: Com(m;r) = r·H + Σ mᵢ·Gᵢ, with generators derived by
// hash-to-curve over disjoint domain tags (no trusted setup). Grounded on
// the teacher's hash-to-scalar-then-ScalarBaseMult pattern used throughout
// crypto/elgamal for deriving fresh curve points from transcript data, and
// generalized here into an explicit generator-derivation routine since the
// teacher has no vector commitment scheme of its own to adapt directly.
package pedersen

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/mperr"
)

const (
	tagG = "mentalpoker/pedersen/G"
	tagH = "mentalpoker/pedersen/H"
)

// Key holds k independent generators G[0..k) plus the blinding generator H.
type Key struct {
	G []group.Point
	H group.Point
}

// Derive builds a PedersenCommitKey of size k over curve, with each
// generator obtained as hash-to-curve(tag ‖ index ‖ k) per spec.md §4.3.
// Fails with InvalidParameters if k <= 0.
func Derive(curve group.Point, k int) (*Key, error) {
	if k <= 0 {
		return nil, mperr.New(mperr.InvalidParameters, "pedersen: k must be positive, got %d", k)
	}
	gens := make([]group.Point, k)
	for i := 0; i < k; i++ {
		gens[i] = hashToCurve(curve, tagG, int64(i), int64(k))
	}
	h := hashToCurve(curve, tagH, -1, int64(k))
	return &Key{G: gens, H: h}, nil
}

// hashToCurve implements spec.md §4.3's generator derivation: Poseidon the
// domain tag (plus index, when index >= 0) and k to a scalar, replace a
// zero result with 1, then scalar-multiply the curve's base generator.
func hashToCurve(curve group.Point, tag string, index, k int64) group.Point {
	inputs := []*big.Int{bytesToScalar(tag)}
	if index >= 0 {
		inputs = append(inputs, big.NewInt(index))
	}
	inputs = append(inputs, big.NewInt(k))

	digest, err := poseidon.Hash(inputs)
	if err != nil {
		panic("pedersen: poseidon hash failed: " + err.Error())
	}
	order := curve.Order()
	digest.Mod(digest, order)
	if digest.Sign() == 0 {
		digest.SetInt64(1)
	}
	p := curve.New()
	p.ScalarBaseMult(digest)
	return p
}

func bytesToScalar(s string) *big.Int {
	return new(big.Int).SetBytes([]byte(s))
}

// Commit computes Com(m;r) = r·H + Σ mᵢ·Gᵢ. Fails with InvalidParameters if
// len(m) != len(ck.G).
func Commit(ck *Key, m []*big.Int, r *big.Int) (group.Point, error) {
	if len(m) != len(ck.G) {
		return nil, mperr.New(mperr.InvalidParameters, "pedersen: commit expects %d messages, got %d", len(ck.G), len(m))
	}
	acc := ck.H.New()
	acc.ScalarMult(ck.H, r)
	term := ck.H.New()
	for i, mi := range m {
		term.ScalarMult(ck.G[i], mi)
		acc.Add(acc, term)
	}
	return acc, nil
}

// VerifyOpen reports whether commitment C opens to (m, r) under ck.
func VerifyOpen(ck *Key, commitment group.Point, m []*big.Int, r *big.Int) bool {
	expect, err := Commit(ck, m, r)
	if err != nil {
		return false
	}
	return commitment.Equal(expect)
}

// DeriveGenerator mints a single standalone generator via the same
// hash-to-curve routine Derive uses for Gᵢ/H, under an arbitrary
// domain tag, for an auxiliary generator independent of any particular
// commitment key. No package in this module calls it.
func DeriveGenerator(curve group.Point, tag string) group.Point {
	return hashToCurve(curve, tag, -1, 0)
}

// Add sets the homomorphic sum of two commitments: Com(m1,r1) + Com(m2,r2)
// = Com(m1+m2, r1+r2). Returned as a fresh point.
func Add(a, b group.Point) group.Point {
	out := a.New()
	out.Add(a, b)
	return out
}

// ScalarMul computes s·Com(m,r) = Com(s·m, s·r), returned as a fresh point.
func ScalarMul(c group.Point, s *big.Int) group.Point {
	out := c.New()
	out.ScalarMult(c, s)
	return out
}
