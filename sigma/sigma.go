// Package sigma implements the Chaum-Pedersen discrete-log-equality (DLEQ)
// sigma protocol of spec.md §4.5: one generic prove/verify pair, shared by
// the four named instances in instances.go. Grounded on the teacher's
// crypto/elgamal/proof.go (BuildDecryptionProof/VerifyDecryptionProof, the
// same (R1,R2,z) shape for a single fixed statement) and generalized, the
// way crypto/elgamal/dkg/proof.go generalizes it across per-player
// commitments, to the four distinct (U,V,A,B) statements spec.md §4.5
// requires.
package sigma

import (
	"math/big"

	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/internal/randsource"
	"github.com/barnett-smart/mentalpoker-core/mperr"
	"github.com/barnett-smart/mentalpoker-core/transcript"
)

// Proof is a non-interactive Chaum-Pedersen DLEQ proof: knowledge of x with
// A = x*U, B = x*V.
type Proof struct {
	R1 group.Point
	R2 group.Point
	Z  *big.Int
}

// Statement is the public instance (U,V,A,B) of a DLEQ proof, shared by
// prover and verifier.
type Statement struct {
	U group.Point
	V group.Point
	A group.Point
	B group.Point
}

// Prove builds a DLEQ proof of knowledge of x such that stmt.A = x*stmt.U
// and stmt.B = x*stmt.V. tr is a transcript already seeded with the proof's
// domain tag and any binding context (e.g. player_public_info); Prove
// appends U,V,A,B then the commitments, draws the challenge, and appends it
// to tr as the shared Challenge() call does.
//
// Fails with InvalidParameters if any of U,V,A,B is the identity, or with
// InvalidScalar if x is out of [1,q).
func Prove(stmt Statement, x *big.Int, tr *transcript.Transcript, rng randsource.Source) (*Proof, error) {
	if stmt.U.IsIdentity() || stmt.V.IsIdentity() || stmt.A.IsIdentity() || stmt.B.IsIdentity() {
		return nil, mperr.New(mperr.InvalidParameters, "sigma: statement must not contain the identity point")
	}
	order := stmt.U.Order()
	if x.Sign() <= 0 || x.Cmp(order) >= 0 {
		return nil, mperr.New(mperr.InvalidScalar, "sigma: x out of range [1,q)")
	}

	k, err := rng.NonZeroScalar(order)
	if err != nil {
		return nil, mperr.Wrap(mperr.CryptographicError, err, "sigma: failed to draw nonce")
	}

	r1 := stmt.U.New()
	r1.ScalarMult(stmt.U, k)
	r2 := stmt.V.New()
	r2.ScalarMult(stmt.V, k)

	c, err := deriveChallenge(tr, stmt, r1, r2)
	if err != nil {
		return nil, err
	}

	z := new(big.Int).Mul(c, x)
	z.Add(z, k)
	z.Mod(z, order)

	return &Proof{R1: r1, R2: r2, Z: z}, nil
}

// Verify checks a DLEQ proof against stmt using the same transcript
// convention as Prove. Never returns an error: any malformed input or
// arithmetic mismatch simply yields false, per spec.md §4.5's "Failure:
// verification returns false (not an error)".
func Verify(stmt Statement, proof *Proof, tr *transcript.Transcript) bool {
	if stmt.U == nil || stmt.V == nil || stmt.A == nil || stmt.B == nil || proof == nil {
		return false
	}
	if stmt.U.IsIdentity() || stmt.V.IsIdentity() || stmt.A.IsIdentity() || stmt.B.IsIdentity() {
		return false
	}
	if proof.R1 == nil || proof.R2 == nil || proof.Z == nil {
		return false
	}
	if proof.R1.IsIdentity() || proof.R2.IsIdentity() {
		return false
	}
	order := stmt.U.Order()
	if proof.Z.Sign() < 0 || proof.Z.Cmp(order) >= 0 {
		return false
	}

	c, err := deriveChallenge(tr, stmt, proof.R1, proof.R2)
	if err != nil {
		return false
	}

	// z*U == R1 + c*A
	lhs1 := stmt.U.New()
	lhs1.ScalarMult(stmt.U, proof.Z)
	ca := stmt.U.New()
	ca.ScalarMult(stmt.A, c)
	rhs1 := stmt.U.New()
	rhs1.Add(proof.R1, ca)
	if !lhs1.Equal(rhs1) {
		return false
	}

	// z*V == R2 + c*B
	lhs2 := stmt.V.New()
	lhs2.ScalarMult(stmt.V, proof.Z)
	cb := stmt.V.New()
	cb.ScalarMult(stmt.B, c)
	rhs2 := stmt.V.New()
	rhs2.Add(proof.R2, cb)
	return lhs2.Equal(rhs2)
}

// deriveChallenge appends the statement and the prover's commitments to tr,
// in the fixed order spec.md §4.5 names (U,V,A,B,R_U,R_V), and draws the
// challenge.
func deriveChallenge(tr *transcript.Transcript, stmt Statement, r1, r2 group.Point) (*big.Int, error) {
	for _, p := range []group.Point{stmt.U, stmt.V, stmt.A, stmt.B, r1, r2} {
		if err := tr.AppendPoint(p); err != nil {
			return nil, mperr.Wrap(mperr.InvalidPoint, err, "sigma: failed to append statement point")
		}
	}
	return tr.Challenge()
}
