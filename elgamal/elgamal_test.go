package elgamal_test

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/barnett-smart/mentalpoker-core/elgamal"
	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/group/bjj"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
)

func TestMaskCombineRoundTrip(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("elgamal-roundtrip"))

	kp1, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)
	kp2, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	pk := curve.New()
	pk.Add(kp1.PublicKey, kp2.PublicKey)

	card := curve.New()
	card.SetGenerator()

	alpha := big.NewInt(7)
	mc, err := elgamal.Mask(pk, card, alpha)
	c.Assert(err, qt.IsNil)

	t1 := elgamal.PartialDecrypt(kp1.SecretKey, mc.C1)
	t2 := elgamal.PartialDecrypt(kp2.SecretKey, mc.C1)

	recovered := elgamal.Combine([]group.Point{t1, t2}, mc.C2)
	c.Assert(recovered.Equal(card), qt.IsTrue)
}

func TestRemaskPreservesPlaintext(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("elgamal-remask"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	mc, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(1))
	c.Assert(err, qt.IsNil)

	rc, err := elgamal.Remask(kp.PublicKey, mc, big.NewInt(2))
	c.Assert(err, qt.IsNil)

	direct, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(3))
	c.Assert(err, qt.IsNil)
	c.Assert(rc.C1.Equal(direct.C1), qt.IsTrue)
	c.Assert(rc.C2.Equal(direct.C2), qt.IsTrue)

	token := elgamal.PartialDecrypt(kp.SecretKey, rc.C1)
	recovered := elgamal.Combine([]group.Point{token}, rc.C2)
	c.Assert(recovered.Equal(card), qt.IsTrue)
}

func TestMaskRejectsIdentityInputs(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("elgamal-reject"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	identity := curve.New()
	identity.SetZero()

	_, err = elgamal.Mask(identity, card, big.NewInt(1))
	c.Assert(err, qt.ErrorMatches, ".*identity.*")

	_, err = elgamal.Mask(kp.PublicKey, identity, big.NewInt(1))
	c.Assert(err, qt.ErrorMatches, ".*identity.*")

	_, err = elgamal.Mask(kp.PublicKey, card, big.NewInt(0))
	c.Assert(err, qt.ErrorMatches, ".*range.*")
}

func TestHomomorphicMasking(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("elgamal-homomorphic"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	m1 := curve.New()
	m1.SetGenerator()
	m2 := curve.New()
	m2.ScalarBaseMult(big.NewInt(2))

	a1 := big.NewInt(5)
	a2 := big.NewInt(9)

	mc1, err := elgamal.Mask(kp.PublicKey, m1, a1)
	c.Assert(err, qt.IsNil)
	mc2, err := elgamal.Mask(kp.PublicKey, m2, a2)
	c.Assert(err, qt.IsNil)

	sumC1 := curve.New()
	sumC1.Add(mc1.C1, mc2.C1)
	sumC2 := curve.New()
	sumC2.Add(mc1.C2, mc2.C2)

	sumM := curve.New()
	sumM.Add(m1, m2)
	sumA := new(big.Int).Add(a1, a2)
	sumA.Mod(sumA, curve.Order())

	direct, err := elgamal.Mask(kp.PublicKey, sumM, sumA)
	c.Assert(err, qt.IsNil)
	c.Assert(sumC1.Equal(direct.C1), qt.IsTrue)
	c.Assert(sumC2.Equal(direct.C2), qt.IsTrue)
}
