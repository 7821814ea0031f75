package sigma_test

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/barnett-smart/mentalpoker-core/elgamal"
	"github.com/barnett-smart/mentalpoker-core/group/bjj"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
	"github.com/barnett-smart/mentalpoker-core/sigma"
)

func TestKeyOwnershipRoundTrip(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-keyownership"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	playerInfo := []byte("player-1")
	proof, err := sigma.ProveKeyOwnership(curve, kp.SecretKey, kp.PublicKey, playerInfo, rng)
	c.Assert(err, qt.IsNil)
	c.Assert(sigma.VerifyKeyOwnership(curve, kp.PublicKey, playerInfo, proof), qt.IsTrue)
}

func TestKeyOwnershipRejectsWrongPlayerInfo(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-keyownership-wrong"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	proof, err := sigma.ProveKeyOwnership(curve, kp.SecretKey, kp.PublicKey, []byte("player-1"), rng)
	c.Assert(err, qt.IsNil)
	c.Assert(sigma.VerifyKeyOwnership(curve, kp.PublicKey, []byte("player-2"), proof), qt.IsFalse)
}

func TestMaskingRoundTrip(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-masking"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	alpha := big.NewInt(7)
	mc, err := elgamal.Mask(kp.PublicKey, card, alpha)
	c.Assert(err, qt.IsNil)

	proof, err := sigma.ProveMasking(curve, alpha, kp.PublicKey, card, mc.C1, mc.C2, rng)
	c.Assert(err, qt.IsNil)
	c.Assert(sigma.VerifyMasking(curve, kp.PublicKey, card, mc.C1, mc.C2, proof), qt.IsTrue)
}

func TestMaskingTamperedProofFails(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-masking-tamper"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	alpha := big.NewInt(7)
	mc, err := elgamal.Mask(kp.PublicKey, card, alpha)
	c.Assert(err, qt.IsNil)

	proof, err := sigma.ProveMasking(curve, alpha, kp.PublicKey, card, mc.C1, mc.C2, rng)
	c.Assert(err, qt.IsNil)

	tampered := &sigma.Proof{R1: proof.R1, R2: proof.R2, Z: new(big.Int).Add(proof.Z, big.NewInt(1))}
	c.Assert(sigma.VerifyMasking(curve, kp.PublicKey, card, mc.C1, mc.C2, tampered), qt.IsFalse)
}

func TestMaskingWrongCiphertextFails(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-masking-wrongct"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	mc, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(7))
	c.Assert(err, qt.IsNil)
	proof, err := sigma.ProveMasking(curve, big.NewInt(7), kp.PublicKey, card, mc.C1, mc.C2, rng)
	c.Assert(err, qt.IsNil)

	other, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(9))
	c.Assert(err, qt.IsNil)
	c.Assert(sigma.VerifyMasking(curve, kp.PublicKey, card, other.C1, other.C2, proof), qt.IsFalse)
}

func TestRemaskingRoundTrip(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-remasking"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	mc, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(3))
	c.Assert(err, qt.IsNil)

	beta := big.NewInt(5)
	rc, err := elgamal.Remask(kp.PublicKey, mc, beta)
	c.Assert(err, qt.IsNil)

	proof, err := sigma.ProveRemasking(curve, beta, kp.PublicKey, mc.C1, mc.C2, rc.C1, rc.C2, rng)
	c.Assert(err, qt.IsNil)
	c.Assert(sigma.VerifyRemasking(curve, kp.PublicKey, mc.C1, mc.C2, rc.C1, rc.C2, proof), qt.IsTrue)
}

func TestRevealRoundTrip(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-reveal"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	mc, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(4))
	c.Assert(err, qt.IsNil)

	token := elgamal.PartialDecrypt(kp.SecretKey, mc.C1)
	proof, err := sigma.ProveReveal(curve, kp.SecretKey, kp.PublicKey, mc.C1, token, rng)
	c.Assert(err, qt.IsNil)
	c.Assert(sigma.VerifyReveal(curve, kp.PublicKey, mc.C1, token, proof), qt.IsTrue)
}

func TestRevealTamperedTokenFails(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-reveal-tamper"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	card := curve.New()
	card.SetGenerator()

	mc, err := elgamal.Mask(kp.PublicKey, card, big.NewInt(4))
	c.Assert(err, qt.IsNil)

	token := elgamal.PartialDecrypt(kp.SecretKey, mc.C1)
	proof, err := sigma.ProveReveal(curve, kp.SecretKey, kp.PublicKey, mc.C1, token, rng)
	c.Assert(err, qt.IsNil)

	otherKp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)
	wrongToken := elgamal.PartialDecrypt(otherKp.SecretKey, mc.C1)
	c.Assert(sigma.VerifyReveal(curve, kp.PublicKey, mc.C1, wrongToken, proof), qt.IsFalse)
}

func TestProveRejectsOutOfRangeSecret(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	rng := randsource.NewDeterministic([]byte("sigma-oor"))

	kp, err := elgamal.Keygen(curve, rng)
	c.Assert(err, qt.IsNil)

	_, err = sigma.ProveKeyOwnership(curve, big.NewInt(0), kp.PublicKey, nil, rng)
	c.Assert(err, qt.ErrorMatches, ".*range.*")
}
