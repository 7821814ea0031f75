// Package bjj implements group.Point over the BabyJubJub twisted-Edwards
// curve, whose base field is the BN254 scalar field — the zk-friendly curve
// this module defaults to (spec.md §1's "prime-order elliptic-curve group
// suitable for zk-STARK friendliness"). It wraps iden3/go-iden3-crypto's
// babyjub implementation, adapted from the teacher's
// crypto/ecc/bjj_iden3.BJJ wrapper.
package bjj

import (
	"fmt"
	"math/big"

	babyjubjub "github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/barnett-smart/mentalpoker-core/group"
)

// CurveType identifies this backend in Parameters and encoded proofs.
const CurveType = "bjj"

// Point is the affine representation of a BabyJubJub group element.
type Point struct {
	inner *babyjubjub.Point
}

// New allocates a fresh BabyJubJub point, useful to obtain a group.Point
// value without an existing instance to call .New() on.
func New() group.Point {
	return &Point{inner: babyjubjub.NewPoint()}
}

func (p *Point) New() group.Point {
	return &Point{inner: babyjubjub.NewPoint()}
}

// Order returns the prime order of the BabyJubJub subgroup.
func (p *Point) Order() *big.Int {
	return babyjubjub.SubOrder
}

func (p *Point) Add(a, b group.Point) {
	p.inner = p.inner.Projective().Add(a.(*Point).inner.Projective(), b.(*Point).inner.Projective()).Affine()
}

// Neg sets the receiver to -a. On a twisted Edwards curve, negation flips
// the sign of the X coordinate; the field reduction happens implicitly when
// the projective representation is normalized back to affine.
func (p *Point) Neg(a group.Point) {
	p.Set(a)
	proj := p.inner.Projective()
	proj.X = proj.X.Neg(proj.X)
	p.inner = proj.Affine()
}

func (p *Point) ScalarMult(a group.Point, k *big.Int) {
	order := p.Order()
	kk := new(big.Int).Mod(k, order)
	p.inner = p.inner.Mul(kk, a.(*Point).inner)
}

func (p *Point) ScalarBaseMult(k *big.Int) {
	order := p.Order()
	kk := new(big.Int).Mod(k, order)
	p.inner = p.inner.Mul(kk, babyjubjub.B8)
}

func (p *Point) SetGenerator() {
	p.inner.X = new(big.Int).Set(babyjubjub.B8.X)
	p.inner.Y = new(big.Int).Set(babyjubjub.B8.Y)
}

func (p *Point) SetZero() {
	p.inner.X = big.NewInt(0)
	p.inner.Y = big.NewInt(1)
}

func (p *Point) Set(a group.Point) {
	ap := a.(*Point).inner
	p.inner.X = new(big.Int).Set(ap.X)
	p.inner.Y = new(big.Int).Set(ap.Y)
}

func (p *Point) Equal(a group.Point) bool {
	ap, ok := a.(*Point)
	if !ok {
		return false
	}
	return p.inner.X.Cmp(ap.inner.X) == 0 && p.inner.Y.Cmp(ap.inner.Y) == 0
}

func (p *Point) IsIdentity() bool {
	return p.inner.X.Sign() == 0 && p.inner.Y.Cmp(big.NewInt(1)) == 0
}

func (p *Point) IsOnCurve() bool {
	return p.inner.InCurve()
}

func (p *Point) Marshal() []byte {
	b := p.inner.Compress()
	return b[:]
}

func (p *Point) Unmarshal(buf []byte) error {
	if len(buf) != 32 {
		return fmt.Errorf("bjj: invalid encoding length %d, want 32", len(buf))
	}
	var b32 [32]byte
	copy(b32[:], buf)
	decoded, err := p.inner.Decompress(b32)
	if err != nil {
		return fmt.Errorf("bjj: decompress: %w", err)
	}
	p.inner = decoded
	return nil
}

func (p *Point) Point() (*big.Int, *big.Int) {
	return p.inner.X, p.inner.Y
}

func (p *Point) SetPoint(x, y *big.Int) group.Point {
	np := &Point{inner: babyjubjub.NewPoint()}
	np.inner.X = new(big.Int).Set(x)
	np.inner.Y = new(big.Int).Set(y)
	return np
}

func (p *Point) Type() string {
	return CurveType
}

func (p *Point) String() string {
	return fmt.Sprintf("%x", p.Marshal())
}
