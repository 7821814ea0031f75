// Package elgamal implements the threshold ElGamal layer of spec.md §4.4
// over group.Point: keygen, masking, remasking, partial decryption, and
// combination. Grounded on the teacher's crypto/elgamal/elgamal.go, but
// unlike the teacher — which encodes the plaintext as a bounded scalar and
// recovers it with a baby-step-giant-step discrete-log search — our Card is
// already a group element supplied by an external encoding table (§6), so
// Combine returns the recovered point directly with no discrete-log search.
package elgamal

import (
	"math/big"

	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
	"github.com/barnett-smart/mentalpoker-core/mperr"
)

// KeyPair is a single player's ElGamal keypair: SecretKey in [1,q), and
// PublicKey = SecretKey*g.
type KeyPair struct {
	SecretKey *big.Int
	PublicKey group.Point
}

// Keygen draws sk uniformly from [1,q) via rng and sets pk = sk*g.
func Keygen(curve group.Point, rng randsource.Source) (*KeyPair, error) {
	sk, err := rng.NonZeroScalar(curve.Order())
	if err != nil {
		return nil, mperr.Wrap(mperr.CryptographicError, err, "elgamal: keygen failed to draw secret key")
	}
	pk := curve.New()
	pk.ScalarBaseMult(sk)
	return &KeyPair{SecretKey: sk, PublicKey: pk}, nil
}

// MaskedCard is an ElGamal ciphertext (c1, c2) under some aggregate key.
type MaskedCard struct {
	C1 group.Point
	C2 group.Point
}

// Mask computes (c1,c2) = (alpha*g, card + alpha*PK) for an externally
// supplied masking factor alpha in [1,q). Fails with InvalidParameters if PK
// or card is the identity, or with InvalidScalar if alpha is out of range.
func Mask(pk, card group.Point, alpha *big.Int) (*MaskedCard, error) {
	if pk.IsIdentity() {
		return nil, mperr.New(mperr.InvalidParameters, "elgamal: mask: aggregate key must not be the identity")
	}
	if card.IsIdentity() {
		return nil, mperr.New(mperr.InvalidParameters, "elgamal: mask: card must not be the identity")
	}
	order := pk.Order()
	if alpha.Sign() <= 0 || alpha.Cmp(order) >= 0 {
		return nil, mperr.New(mperr.InvalidScalar, "elgamal: mask: alpha out of range [1,q)")
	}
	c1 := pk.New()
	c1.ScalarBaseMult(alpha)
	term := pk.New()
	term.ScalarMult(pk, alpha)
	c2 := pk.New()
	c2.Add(card, term)
	return &MaskedCard{C1: c1, C2: c2}, nil
}

// MaskWithRandomness draws alpha from rng and calls Mask, returning both the
// ciphertext and the drawn alpha (needed by callers that must later prove
// correct masking).
func MaskWithRandomness(pk, card group.Point, rng randsource.Source) (*MaskedCard, *big.Int, error) {
	alpha, err := rng.NonZeroScalar(pk.Order())
	if err != nil {
		return nil, nil, mperr.Wrap(mperr.CryptographicError, err, "elgamal: mask: failed to draw alpha")
	}
	mc, err := Mask(pk, card, alpha)
	if err != nil {
		return nil, nil, err
	}
	return mc, alpha, nil
}

// Remask computes (c1', c2') = (c1 + beta*g, c2 + beta*PK), re-randomizing an
// existing ciphertext without changing the encrypted card.
func Remask(pk group.Point, mc *MaskedCard, beta *big.Int) (*MaskedCard, error) {
	if pk.IsIdentity() {
		return nil, mperr.New(mperr.InvalidParameters, "elgamal: remask: aggregate key must not be the identity")
	}
	order := pk.Order()
	if beta.Sign() <= 0 || beta.Cmp(order) >= 0 {
		return nil, mperr.New(mperr.InvalidScalar, "elgamal: remask: beta out of range [1,q)")
	}
	betaG := pk.New()
	betaG.ScalarBaseMult(beta)
	c1 := pk.New()
	c1.Add(mc.C1, betaG)

	betaPK := pk.New()
	betaPK.ScalarMult(pk, beta)
	c2 := pk.New()
	c2.Add(mc.C2, betaPK)

	return &MaskedCard{C1: c1, C2: c2}, nil
}

// RemaskWithRandomness draws beta from rng and calls Remask, returning the
// new ciphertext and the drawn beta.
func RemaskWithRandomness(pk group.Point, mc *MaskedCard, rng randsource.Source) (*MaskedCard, *big.Int, error) {
	beta, err := rng.NonZeroScalar(pk.Order())
	if err != nil {
		return nil, nil, mperr.Wrap(mperr.CryptographicError, err, "elgamal: remask: failed to draw beta")
	}
	rc, err := Remask(pk, mc, beta)
	if err != nil {
		return nil, nil, err
	}
	return rc, beta, nil
}

// PartialDecrypt computes a single player's reveal token T_i = sk_i * c1.
func PartialDecrypt(sk *big.Int, c1 group.Point) group.Point {
	t := c1.New()
	t.ScalarMult(c1, sk)
	return t
}

// Combine computes the plaintext card m = c2 - Sum(tokens). The caller is
// responsible for collecting every player's token; a short set simply
// produces an incorrect (but not erroneous) point, per spec.md §4.4.
func Combine(tokens []group.Point, c2 group.Point) group.Point {
	sum := c2.New()
	sum.SetZero()
	for _, t := range tokens {
		sum.Add(sum, t)
	}
	neg := c2.New()
	neg.Neg(sum)
	m := c2.New()
	m.Add(c2, neg)
	return m
}
