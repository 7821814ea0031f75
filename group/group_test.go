package group_test

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/barnett-smart/mentalpoker-core/group/bjj"
	"github.com/barnett-smart/mentalpoker-core/group/bn254g1"
	"github.com/barnett-smart/mentalpoker-core/group/curves"
)

func TestGroupLaws(t *testing.T) {
	for _, curveType := range curves.Types() {
		curveType := curveType
		t.Run(curveType, func(t *testing.T) {
			c := qt.New(t)
			g := curves.New(curveType)

			base := g.New()
			base.SetGenerator()

			identity := g.New()
			identity.SetZero()

			sum := g.New()
			sum.Add(base, identity)
			c.Assert(sum.Equal(base), qt.IsTrue)

			neg := g.New()
			neg.Neg(base)
			sumZero := g.New()
			sumZero.Add(base, neg)
			c.Assert(sumZero.IsIdentity(), qt.IsTrue)

			a := big.NewInt(7)
			b := big.NewInt(11)
			aP := g.New()
			aP.ScalarMult(base, a)
			bP := g.New()
			bP.ScalarMult(base, b)
			sumAB := g.New()
			sumAB.Add(aP, bP)

			abSum := new(big.Int).Add(a, b)
			directP := g.New()
			directP.ScalarMult(base, abSum)
			c.Assert(sumAB.Equal(directP), qt.IsTrue)

			zeroP := g.New()
			zeroP.ScalarMult(base, big.NewInt(0))
			c.Assert(zeroP.IsIdentity(), qt.IsTrue)

			orderP := g.New()
			orderP.ScalarMult(base, g.Order())
			c.Assert(orderP.IsIdentity(), qt.IsTrue)

			c.Assert(base.IsOnCurve(), qt.IsTrue)
		})
	}
}

func TestCurveRegistryRejectsUnknown(t *testing.T) {
	c := qt.New(t)
	c.Assert(curves.IsValid(bjj.CurveType), qt.IsTrue)
	c.Assert(curves.IsValid(bn254g1.CurveType), qt.IsTrue)
	c.Assert(curves.IsValid("not-a-curve"), qt.IsFalse)
}
