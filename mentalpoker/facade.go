// Package mentalpoker exposes the protocol façade of spec.md §4.7: the
// fourteen public operations (Setup plus thirteen methods on Parameters) of the Barnett-Smart/Bayer-Groth mental-poker
// core, composed from group, elgamal, sigma and shuffle. Parameters is a
// plain value type, never a singleton — spec.md §9's REDESIGN FLAG against
// the source's process-wide singleton façade.
package mentalpoker

import (
	"math/big"

	"github.com/google/uuid"

	"github.com/barnett-smart/mentalpoker-core/elgamal"
	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/group/curves"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
	"github.com/barnett-smart/mentalpoker-core/log"
	"github.com/barnett-smart/mentalpoker-core/mperr"
	"github.com/barnett-smart/mentalpoker-core/pedersen"
	"github.com/barnett-smart/mentalpoker-core/sigma"
	"github.com/barnett-smart/mentalpoker-core/shuffle"
)

// MaskedCard is a re-export of elgamal.MaskedCard for callers that only
// import this façade package.
type MaskedCard = elgamal.MaskedCard

// Parameters bundles everything a table needs: the curve, the deck size M,
// the player count N, and a Pedersen commitment key sized for shuffles of M
// cards. It is immutable for the lifetime of a table (spec.md §3) and is a
// plain value, freely shared read-only across players.
type Parameters struct {
	Curve     group.Point
	SessionID uuid.UUID
	M         int
	N         int
	CK        *pedersen.Key
}

// Setup derives g (implicitly, via Curve), the Pedersen commitment key sized
// >= M, and a fresh session identifier, drawn from rng, binding
// player_public_info to this table — resolving Open Question 3 of spec.md §9 in the affirmative.
func Setup(curveType string, m, n int, rng randsource.Source) (*Parameters, error) {
	if m <= 0 || n <= 0 {
		return nil, mperr.New(mperr.InvalidParameters, "mentalpoker: setup: M and N must be positive, got M=%d N=%d", m, n)
	}
	curve := curves.New(curveType)
	ck, err := pedersen.Derive(curve, nextPowerOfTwo(m))
	if err != nil {
		return nil, err
	}
	raw, err := rng.Scalar(new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, mperr.Wrap(mperr.CryptographicError, err, "mentalpoker: setup: failed to mint session id")
	}
	var sid uuid.UUID
	raw.FillBytes(sid[:])
	sid[6] = (sid[6] & 0x0f) | 0x40 // version 4
	sid[8] = (sid[8] & 0x3f) | 0x80 // RFC 4122 variant
	log.Debugf("mentalpoker: table %s set up with M=%d N=%d curve=%s", sid, m, n, curve.Type())
	return &Parameters{Curve: curve, SessionID: sid, M: m, N: n, CK: ck}, nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// playerInfoBytes binds a player's public_info to this table's session id,
// per spec.md §4.5's key-ownership binding requirement.
func (p *Parameters) playerInfoBytes(playerPublicInfo []byte) []byte {
	out := make([]byte, 0, len(p.SessionID)+len(playerPublicInfo))
	out = append(out, p.SessionID[:]...)
	out = append(out, playerPublicInfo...)
	return out
}

// PlayerKeygen draws a fresh ElGamal keypair for one player.
func (p *Parameters) PlayerKeygen(rng randsource.Source) (*elgamal.KeyPair, error) {
	return elgamal.Keygen(p.Curve, rng)
}

// ProveKeyOwnership proves knowledge of sk for pk, bound to playerPublicInfo
// and this table's session id.
func (p *Parameters) ProveKeyOwnership(pk group.Point, sk *big.Int, playerPublicInfo []byte, rng randsource.Source) (*sigma.Proof, error) {
	return sigma.ProveKeyOwnership(p.Curve, sk, pk, p.playerInfoBytes(playerPublicInfo), rng)
}

// VerifyKeyOwnership verifies a proof produced by ProveKeyOwnership.
func (p *Parameters) VerifyKeyOwnership(pk group.Point, playerPublicInfo []byte, proof *sigma.Proof) bool {
	return sigma.VerifyKeyOwnership(p.Curve, pk, p.playerInfoBytes(playerPublicInfo), proof)
}

// PlayerEntry is one player's verified contribution to the aggregate key.
type PlayerEntry struct {
	PublicKey  group.Point
	Proof      *sigma.Proof
	PublicInfo []byte
}

// ComputeAggregateKey verifies every entry's key-ownership proof and sums
// the public keys. Fails with InvalidProof if any proof is invalid, or
// InvalidParameters if any public_info repeats.
func (p *Parameters) ComputeAggregateKey(entries []PlayerEntry) (group.Point, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := string(e.PublicInfo)
		if seen[key] {
			return nil, mperr.New(mperr.InvalidParameters, "mentalpoker: compute_aggregate_key: duplicate player_public_info")
		}
		seen[key] = true
		if !p.VerifyKeyOwnership(e.PublicKey, e.PublicInfo, e.Proof) {
			return nil, mperr.New(mperr.InvalidProof, "mentalpoker: compute_aggregate_key: invalid key-ownership proof")
		}
	}
	pk := p.Curve.New()
	pk.SetZero()
	for _, e := range entries {
		pk.Add(pk, e.PublicKey)
	}
	return pk, nil
}

// Mask masks card under PK with the given masking factor, returning the
// ciphertext and a masking proof.
func (p *Parameters) Mask(pk, card group.Point, alpha *big.Int, rng randsource.Source) (*MaskedCard, *sigma.Proof, error) {
	mc, err := elgamal.Mask(pk, card, alpha)
	if err != nil {
		return nil, nil, err
	}
	proof, err := sigma.ProveMasking(p.Curve, alpha, pk, card, mc.C1, mc.C2, rng)
	if err != nil {
		return nil, nil, err
	}
	return mc, proof, nil
}

// VerifyMask verifies a proof produced by Mask.
func (p *Parameters) VerifyMask(pk, card group.Point, mc *MaskedCard, proof *sigma.Proof) bool {
	if mc == nil {
		return false
	}
	return sigma.VerifyMasking(p.Curve, pk, card, mc.C1, mc.C2, proof)
}

// Remask re-randomizes mc under PK with the given factor, returning the new
// ciphertext and a remasking proof.
func (p *Parameters) Remask(pk group.Point, mc *MaskedCard, beta *big.Int, rng randsource.Source) (*MaskedCard, *sigma.Proof, error) {
	rc, err := elgamal.Remask(pk, mc, beta)
	if err != nil {
		return nil, nil, err
	}
	proof, err := sigma.ProveRemasking(p.Curve, beta, pk, mc.C1, mc.C2, rc.C1, rc.C2, rng)
	if err != nil {
		return nil, nil, err
	}
	return rc, proof, nil
}

// VerifyRemask verifies a proof produced by Remask.
func (p *Parameters) VerifyRemask(pk group.Point, mc, rc *MaskedCard, proof *sigma.Proof) bool {
	if mc == nil || rc == nil {
		return false
	}
	return sigma.VerifyRemasking(p.Curve, pk, mc.C1, mc.C2, rc.C1, rc.C2, proof)
}

// ComputeRevealToken computes one player's reveal token for mc and a proof
// that it was computed correctly.
func (p *Parameters) ComputeRevealToken(sk *big.Int, pk group.Point, mc *MaskedCard, rng randsource.Source) (group.Point, *sigma.Proof, error) {
	token := elgamal.PartialDecrypt(sk, mc.C1)
	proof, err := sigma.ProveReveal(p.Curve, sk, pk, mc.C1, token, rng)
	if err != nil {
		return nil, nil, err
	}
	return token, proof, nil
}

// VerifyReveal verifies a proof produced by ComputeRevealToken.
func (p *Parameters) VerifyReveal(pk group.Point, token group.Point, mc *MaskedCard, proof *sigma.Proof) bool {
	if mc == nil {
		return false
	}
	return sigma.VerifyReveal(p.Curve, pk, mc.C1, token, proof)
}

// RevealShare is one player's contribution to an Unmask call.
type RevealShare struct {
	PublicKey group.Point
	Token     group.Point
	Proof     *sigma.Proof
}

// Unmask verifies every player's reveal proof and combines the tokens into
// the plaintext card. Fails with InsufficientRevealTokens if fewer than N
// distinct public keys are represented, or InvalidProof if any reveal proof
// is invalid.
func (p *Parameters) Unmask(shares []RevealShare, mc *MaskedCard) (group.Point, error) {
	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		x, _ := s.PublicKey.Point()
		seen[x.String()] = true
	}
	if len(seen) < p.N {
		return nil, mperr.New(mperr.InsufficientRevealTokens, "mentalpoker: unmask: need %d distinct reveal tokens, have %d", p.N, len(seen))
	}
	tokens := make([]group.Point, 0, len(shares))
	for _, s := range shares {
		if !p.VerifyReveal(s.PublicKey, s.Token, mc, s.Proof) {
			return nil, mperr.New(mperr.InvalidProof, "mentalpoker: unmask: invalid reveal proof")
		}
		tokens = append(tokens, s.Token)
	}
	return elgamal.Combine(tokens, mc.C2), nil
}

// ShuffleAndRemask produces a fresh deck that is a permutation-and-
// rerandomization of deck under PK, along with a shuffle proof.
func (p *Parameters) ShuffleAndRemask(pk group.Point, deck []*MaskedCard, rhos []*big.Int, perm []int, rng randsource.Source) ([]*MaskedCard, *shuffle.Proof, error) {
	if len(deck) != len(perm) || len(deck) != len(rhos) {
		return nil, nil, mperr.New(mperr.InvalidParameters, "mentalpoker: shuffle_and_remask: deck, permutation and rerandomizer vectors must share a length")
	}
	out := make([]*MaskedCard, len(deck))
	for i, src := range perm {
		rc, err := elgamal.Remask(pk, deck[src], rhos[i])
		if err != nil {
			return nil, nil, err
		}
		out[i] = rc
	}
	proof, err := shuffle.Prove(p.Curve, pk, p.CK, deck, out, perm, rhos, rng)
	if err != nil {
		return nil, nil, err
	}
	return out, proof, nil
}

// VerifyShuffle verifies a proof produced by ShuffleAndRemask.
func (p *Parameters) VerifyShuffle(pk group.Point, deck, deckPrime []*MaskedCard, proof *shuffle.Proof) bool {
	return shuffle.Verify(p.Curve, pk, p.CK, deck, deckPrime, proof)
}
