// instances.go assembles the four named DLEQ statements of spec.md §4.5's
// table onto the shared Prove/Verify pair in sigma.go.
package sigma

import (
	"math/big"

	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
	"github.com/barnett-smart/mentalpoker-core/transcript"
)

const (
	tagKeyOwnership = "mentalpoker/sigma/key-ownership"
	tagMasking      = "mentalpoker/sigma/masking"
	tagRemasking    = "mentalpoker/sigma/remasking"
	tagReveal       = "mentalpoker/sigma/reveal"
)

// newSeededTranscript opens a fresh transcript tagged for one of the four
// instances, appending playerInfo first when non-empty — spec.md §4.5
// requires player_public_info to be fed in "before the commitments so that
// the same (pk, sk) produces distinct, non-transferable proofs per binding
// context".
func newSeededTranscript(order *big.Int, tag string, playerInfo []byte) *transcript.Transcript {
	tr := transcript.New(order, tag)
	if len(playerInfo) > 0 {
		tr.AppendScalar(new(big.Int).SetBytes(playerInfo))
	}
	return tr
}

// sub returns a-b as a fresh point.
func sub(a, b group.Point) group.Point {
	nb := a.New()
	nb.Neg(b)
	out := a.New()
	out.Add(a, nb)
	return out
}

// ProveKeyOwnership proves knowledge of sk such that pk = sk*g, bound to
// playerInfo (spec.md §4.7 prove_key_ownership / §4.5's single-generator
// variant: U=V=g, A=B=pk).
func ProveKeyOwnership(curve group.Point, sk *big.Int, pk group.Point, playerInfo []byte, rng randsource.Source) (*Proof, error) {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: g, A: pk, B: pk}
	tr := newSeededTranscript(curve.Order(), tagKeyOwnership, playerInfo)
	return Prove(stmt, sk, tr, rng)
}

// VerifyKeyOwnership verifies a proof produced by ProveKeyOwnership.
func VerifyKeyOwnership(curve group.Point, pk group.Point, playerInfo []byte, proof *Proof) bool {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: g, A: pk, B: pk}
	tr := newSeededTranscript(curve.Order(), tagKeyOwnership, playerInfo)
	return Verify(stmt, proof, tr)
}

// ProveMasking proves that (c1,c2) correctly masks card under PK with
// factor alpha: U=g, V=PK, A=c1, B=c2-card.
func ProveMasking(curve group.Point, alpha *big.Int, pk, card, c1, c2 group.Point, rng randsource.Source) (*Proof, error) {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: pk, A: c1, B: sub(c2, card)}
	tr := transcript.New(curve.Order(), tagMasking)
	return Prove(stmt, alpha, tr, rng)
}

// VerifyMasking verifies a proof produced by ProveMasking.
func VerifyMasking(curve group.Point, pk, card, c1, c2 group.Point, proof *Proof) bool {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: pk, A: c1, B: sub(c2, card)}
	tr := transcript.New(curve.Order(), tagMasking)
	return Verify(stmt, proof, tr)
}

// ProveRemasking proves that (c1',c2') correctly remasks (c1,c2) under PK
// with factor beta: U=g, V=PK, A=c1'-c1, B=c2'-c2.
func ProveRemasking(curve group.Point, beta *big.Int, pk, c1, c2, c1p, c2p group.Point, rng randsource.Source) (*Proof, error) {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: pk, A: sub(c1p, c1), B: sub(c2p, c2)}
	tr := transcript.New(curve.Order(), tagRemasking)
	return Prove(stmt, beta, tr, rng)
}

// VerifyRemasking verifies a proof produced by ProveRemasking.
func VerifyRemasking(curve group.Point, pk, c1, c2, c1p, c2p group.Point, proof *Proof) bool {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: pk, A: sub(c1p, c1), B: sub(c2p, c2)}
	tr := transcript.New(curve.Order(), tagRemasking)
	return Verify(stmt, proof, tr)
}

// ProveReveal proves that token T correctly equals sk*c1 for the claimed
// pk = sk*g: U=g, V=c1, A=pk, B=T.
func ProveReveal(curve group.Point, sk *big.Int, pk, c1, token group.Point, rng randsource.Source) (*Proof, error) {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: c1, A: pk, B: token}
	tr := transcript.New(curve.Order(), tagReveal)
	return Prove(stmt, sk, tr, rng)
}

// VerifyReveal verifies a proof produced by ProveReveal.
func VerifyReveal(curve group.Point, pk, c1, token group.Point, proof *Proof) bool {
	g := curve.New()
	g.SetGenerator()
	stmt := Statement{U: g, V: c1, A: pk, B: token}
	tr := transcript.New(curve.Order(), tagReveal)
	return Verify(stmt, proof, tr)
}
