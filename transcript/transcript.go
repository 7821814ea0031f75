// Package transcript implements the Fiat–Shamir transcript of spec.md §4.2:
// an append-only sequence of field elements, hashed with Poseidon to derive
// challenges. Adapted from the teacher's crypto/hash/poseidon.MultiPoseidon
// chunking strategy and the domain-separated hashing pattern in
// crypto/elgamal/proof.go's hashPointsToScalar.
package transcript

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/barnett-smart/mentalpoker-core/group"
	"github.com/barnett-smart/mentalpoker-core/mperr"
)

// maxPoseidonArity is the widest input Poseidon.Hash accepts directly;
// larger transcripts are folded in chunks, exactly as the teacher's
// MultiPoseidon does.
const maxPoseidonArity = 16

// Transcript accumulates canonically-encoded points and scalars for
// Fiat–Shamir challenge derivation. Create one with New; the zero value has
// no group order and is not usable.
type Transcript struct {
	order  *big.Int
	fields []*big.Int
}

// New returns an empty transcript over the given group order, seeded with a
// protocol domain tag as its first element — spec.md §4.2 requires every
// proof's transcript to start with "a fixed protocol tag and the
// statement's public inputs in a specified order".
func New(order *big.Int, domainTag string) *Transcript {
	t := &Transcript{order: order}
	t.appendBytesAsScalar([]byte(domainTag))
	return t
}

func (t *Transcript) appendBytesAsScalar(b []byte) {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, t.order)
	t.fields = append(t.fields, v)
}

// AppendPoint appends a point's canonical (x, y-parity) encoding: the
// affine x-coordinate, plus a second field element holding y mod 2 — the
// encoding spec.md §4.2 mandates ("Points are serialized as (x, y mod 2)").
// The identity point is not serializable and must never be appended.
func (t *Transcript) AppendPoint(p group.Point) error {
	if p.IsIdentity() {
		return mperr.New(mperr.InvalidPoint, "transcript: cannot append the identity point")
	}
	x, y := p.Point()
	t.fields = append(t.fields, new(big.Int).Set(x))
	t.fields = append(t.fields, new(big.Int).Mod(y, big.NewInt(2)))
	return nil
}

// AppendScalar appends a scalar reduced mod the transcript's group order.
func (t *Transcript) AppendScalar(s *big.Int) {
	t.fields = append(t.fields, new(big.Int).Mod(s, t.order))
}

// AppendUint64 appends a small integer (e.g. a padding count) as a scalar.
func (t *Transcript) AppendUint64(v uint64) {
	t.fields = append(t.fields, new(big.Int).SetUint64(v))
}

// Challenge derives the next challenge scalar by Poseidon-hashing the
// entire accumulated sequence so far, then appends the resulting scalar to
// the transcript before returning it — so a second call to Challenge never
// repeats the same value, and any further append after a draw changes every
// subsequent challenge (spec.md §4.2's "any further append invalidates
// proofs that used it").
func (t *Transcript) Challenge() (*big.Int, error) {
	digest, err := multiPoseidon(t.fields)
	if err != nil {
		return nil, mperr.Wrap(mperr.CryptographicError, err, "transcript: poseidon hash failed")
	}
	digest.Mod(digest, t.order)
	if digest.Sign() == 0 {
		digest.SetInt64(1)
	}
	t.fields = append(t.fields, digest)
	return digest, nil
}

// multiPoseidon hashes an arbitrary number of field elements, chunking into
// groups of maxPoseidonArity and recursively combining chunk digests,
// exactly as the teacher's MultiPoseidon does.
func multiPoseidon(inputs []*big.Int) (*big.Int, error) {
	if len(inputs) == 0 {
		return nil, mperr.New(mperr.InvalidParameters, "multiPoseidon: no inputs")
	}
	if len(inputs) <= maxPoseidonArity {
		return poseidon.Hash(inputs)
	}
	numChunks := (len(inputs) + maxPoseidonArity - 1) / maxPoseidonArity
	hashes := make([]*big.Int, 0, numChunks)
	for i := 0; i < len(inputs); i += maxPoseidonArity {
		end := i + maxPoseidonArity
		if end > len(inputs) {
			end = len(inputs)
		}
		h, err := poseidon.Hash(inputs[i:end])
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	if len(hashes) == 1 {
		return hashes[0], nil
	}
	return multiPoseidon(hashes)
}
