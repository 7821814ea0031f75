package mentalpoker_test

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/barnett-smart/mentalpoker-core/group/bjj"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
	"github.com/barnett-smart/mentalpoker-core/mentalpoker"
	"github.com/barnett-smart/mentalpoker-core/mperr"
)

// TestFullTableLifecycle walks a two-player table through setup, key
// aggregation, masking, a shuffle-and-remask, and a full reveal.
func TestFullTableLifecycle(t *testing.T) {
	c := qt.New(t)
	rng := randsource.NewDeterministic([]byte("mentalpoker-lifecycle"))

	params, err := mentalpoker.Setup(bjj.CurveType, 2, 2, rng)
	c.Assert(err, qt.IsNil)

	kp1, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)
	kp2, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)

	info1 := []byte("alice")
	info2 := []byte("bob")
	proof1, err := params.ProveKeyOwnership(kp1.PublicKey, kp1.SecretKey, info1, rng)
	c.Assert(err, qt.IsNil)
	proof2, err := params.ProveKeyOwnership(kp2.PublicKey, kp2.SecretKey, info2, rng)
	c.Assert(err, qt.IsNil)

	c.Assert(params.VerifyKeyOwnership(kp1.PublicKey, info1, proof1), qt.IsTrue)
	c.Assert(params.VerifyKeyOwnership(kp2.PublicKey, info2, proof2), qt.IsTrue)

	pk, err := params.ComputeAggregateKey([]mentalpoker.PlayerEntry{
		{PublicKey: kp1.PublicKey, Proof: proof1, PublicInfo: info1},
		{PublicKey: kp2.PublicKey, Proof: proof2, PublicInfo: info2},
	})
	c.Assert(err, qt.IsNil)

	curve := bjj.New()
	card1 := curve.New()
	card1.SetGenerator()
	card2 := curve.New()
	card2.ScalarBaseMult(big.NewInt(2))

	mc1, maskProof1, err := params.Mask(pk, card1, big.NewInt(7), rng)
	c.Assert(err, qt.IsNil)
	c.Assert(params.VerifyMask(pk, card1, mc1, maskProof1), qt.IsTrue)

	mc2, maskProof2, err := params.Mask(pk, card2, big.NewInt(11), rng)
	c.Assert(err, qt.IsNil)
	c.Assert(params.VerifyMask(pk, card2, mc2, maskProof2), qt.IsTrue)

	deck := []*mentalpoker.MaskedCard{mc1, mc2}
	perm := []int{1, 0}
	rhos := []*big.Int{big.NewInt(13), big.NewInt(17)}

	shuffled, shuffleProof, err := params.ShuffleAndRemask(pk, deck, rhos, perm, rng)
	c.Assert(err, qt.IsNil)
	c.Assert(params.VerifyShuffle(pk, deck, shuffled, shuffleProof), qt.IsTrue)

	// shuffled[0] came from deck[1] (card2); shuffled[1] from deck[0] (card1).
	token1a, revealProof1a, err := params.ComputeRevealToken(kp1.SecretKey, kp1.PublicKey, shuffled[0], rng)
	c.Assert(err, qt.IsNil)
	c.Assert(params.VerifyReveal(kp1.PublicKey, token1a, shuffled[0], revealProof1a), qt.IsTrue)

	token2a, revealProof2a, err := params.ComputeRevealToken(kp2.SecretKey, kp2.PublicKey, shuffled[0], rng)
	c.Assert(err, qt.IsNil)
	c.Assert(params.VerifyReveal(kp2.PublicKey, token2a, shuffled[0], revealProof2a), qt.IsTrue)

	revealed, err := params.Unmask([]mentalpoker.RevealShare{
		{PublicKey: kp1.PublicKey, Token: token1a, Proof: revealProof1a},
		{PublicKey: kp2.PublicKey, Token: token2a, Proof: revealProof2a},
	}, shuffled[0])
	c.Assert(err, qt.IsNil)
	c.Assert(revealed.Equal(card2), qt.IsTrue)
}

func TestUnmaskRejectsInsufficientShares(t *testing.T) {
	c := qt.New(t)
	rng := randsource.NewDeterministic([]byte("mentalpoker-insufficient"))

	params, err := mentalpoker.Setup(bjj.CurveType, 1, 2, rng)
	c.Assert(err, qt.IsNil)

	kp1, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)
	kp2, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)

	pk := bjj.New()
	pk.Add(kp1.PublicKey, kp2.PublicKey)

	card := bjj.New()
	card.SetGenerator()

	mc, _, err := params.Mask(pk, card, big.NewInt(9), rng)
	c.Assert(err, qt.IsNil)

	token1, revealProof1, err := params.ComputeRevealToken(kp1.SecretKey, kp1.PublicKey, mc, rng)
	c.Assert(err, qt.IsNil)

	_, err = params.Unmask([]mentalpoker.RevealShare{
		{PublicKey: kp1.PublicKey, Token: token1, Proof: revealProof1},
	}, mc)
	c.Assert(mperr.Is(err, mperr.InsufficientRevealTokens), qt.IsTrue)
}

func TestComputeAggregateKeyRejectsTamperedProof(t *testing.T) {
	c := qt.New(t)
	rng := randsource.NewDeterministic([]byte("mentalpoker-tamper"))

	params, err := mentalpoker.Setup(bjj.CurveType, 1, 2, rng)
	c.Assert(err, qt.IsNil)

	kp1, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)
	info1 := []byte("alice")
	proof1, err := params.ProveKeyOwnership(kp1.PublicKey, kp1.SecretKey, info1, rng)
	c.Assert(err, qt.IsNil)

	tampered := *proof1
	tampered.Z = new(big.Int).Add(tampered.Z, big.NewInt(1))

	_, err = params.ComputeAggregateKey([]mentalpoker.PlayerEntry{
		{PublicKey: kp1.PublicKey, Proof: &tampered, PublicInfo: info1},
	})
	c.Assert(mperr.Is(err, mperr.InvalidProof), qt.IsTrue)
}

func TestComputeAggregateKeyRejectsDuplicatePlayerInfo(t *testing.T) {
	c := qt.New(t)
	rng := randsource.NewDeterministic([]byte("mentalpoker-dup"))

	params, err := mentalpoker.Setup(bjj.CurveType, 1, 2, rng)
	c.Assert(err, qt.IsNil)

	kp1, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)
	kp2, err := params.PlayerKeygen(rng)
	c.Assert(err, qt.IsNil)

	info := []byte("alice")
	proof1, err := params.ProveKeyOwnership(kp1.PublicKey, kp1.SecretKey, info, rng)
	c.Assert(err, qt.IsNil)
	proof2, err := params.ProveKeyOwnership(kp2.PublicKey, kp2.SecretKey, info, rng)
	c.Assert(err, qt.IsNil)

	_, err = params.ComputeAggregateKey([]mentalpoker.PlayerEntry{
		{PublicKey: kp1.PublicKey, Proof: proof1, PublicInfo: info},
		{PublicKey: kp2.PublicKey, Proof: proof2, PublicInfo: info},
	})
	c.Assert(mperr.Is(err, mperr.InvalidParameters), qt.IsTrue)
}
