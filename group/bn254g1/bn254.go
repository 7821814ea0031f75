// Package bn254g1 implements group.Point over the BN254 G1 curve group,
// adapted from the teacher's crypto/ecc/bn254.G1 wrapper around
// consensys/gnark-crypto. It is offered as the module's alternate backend
// (the group/curves registry has both bjj and bn254g1) so the facade is not hard-wired
// to one curve family, mirroring the teacher's multi-curve ecc registry.
package bn254g1

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/barnett-smart/mentalpoker-core/group"
)

// CurveType identifies this backend in Parameters and encoded proofs.
const CurveType = "bn254g1"

var generator bn254.G1Jac

func init() {
	generator.X.SetOne()
	generator.Y.SetUint64(2)
	generator.Z.SetOne()
}

// Point is the affine representation of a BN254 G1 element.
type Point struct {
	inner bn254.G1Affine
}

// New allocates a fresh BN254 G1 point, initialized to the identity.
func New() group.Point {
	return &Point{}
}

func (p *Point) New() group.Point {
	return &Point{}
}

func (p *Point) Order() *big.Int {
	return fr.Modulus()
}

func (p *Point) Add(a, b group.Point) {
	var tmp bn254.G1Affine
	tmp.Add(&a.(*Point).inner, &b.(*Point).inner)
	p.inner = tmp
}

func (p *Point) Neg(a group.Point) {
	var tmp bn254.G1Affine
	tmp.Neg(&a.(*Point).inner)
	p.inner = tmp
}

func (p *Point) ScalarMult(a group.Point, k *big.Int) {
	var tmp bn254.G1Affine
	tmp.ScalarMultiplication(&a.(*Point).inner, k)
	p.inner = tmp
}

func (p *Point) ScalarBaseMult(k *big.Int) {
	p.inner.ScalarMultiplicationBase(k)
}

func (p *Point) SetGenerator() {
	p.inner.FromJacobian(&generator)
}

func (p *Point) SetZero() {
	p.inner.X.SetZero()
	p.inner.Y.SetZero()
}

func (p *Point) Set(a group.Point) {
	p.inner = a.(*Point).inner
}

func (p *Point) Equal(a group.Point) bool {
	ap, ok := a.(*Point)
	if !ok {
		return false
	}
	return p.inner.Equal(&ap.inner)
}

func (p *Point) IsIdentity() bool {
	return p.inner.IsInfinity()
}

func (p *Point) IsOnCurve() bool {
	return p.inner.IsOnCurve()
}

func (p *Point) Marshal() []byte {
	b := p.inner.Bytes()
	return b[:]
}

func (p *Point) Unmarshal(buf []byte) error {
	_, err := p.inner.SetBytes(buf)
	if err != nil {
		return fmt.Errorf("bn254g1: %w", err)
	}
	return nil
}

func (p *Point) Point() (*big.Int, *big.Int) {
	return p.inner.X.BigInt(new(big.Int)), p.inner.Y.BigInt(new(big.Int))
}

func (p *Point) SetPoint(x, y *big.Int) group.Point {
	np := &Point{}
	np.inner.X.SetBigInt(x)
	np.inner.Y.SetBigInt(y)
	return np
}

func (p *Point) Type() string {
	return CurveType
}

func (p *Point) String() string {
	return fmt.Sprintf("%x", p.Marshal())
}
