// debug.go provides CBOR-backed structured (non-wire-exact) serialization
// for debugging and logging, kept distinct from the fixed-layout encoders in
// encoding.go. Grounded on the teacher's types.BigInt CBOR marshaling
// pattern (MarshalCBOR/UnmarshalCBOR over a big.Int's byte form).
package encoding

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/barnett-smart/mentalpoker-core/group"
)

// PointDebug is a CBOR-friendly structured view of a group.Point, for logs
// and test fixtures; never used for transcript or protocol-binding bytes.
type PointDebug struct {
	Curve string `cbor:"curve"`
	X     []byte `cbor:"x"`
	Y     []byte `cbor:"y"`
}

// MarshalPointDebug renders p as CBOR via PointDebug.
func MarshalPointDebug(p group.Point) ([]byte, error) {
	x, y := p.Point()
	return cbor.Marshal(PointDebug{Curve: p.Type(), X: x.Bytes(), Y: y.Bytes()})
}

// UnmarshalPointDebug parses bytes produced by MarshalPointDebug back into
// affine coordinates bound to curve. It does not validate on-curve-ness;
// callers that need that should route through DecodePoint instead.
func UnmarshalPointDebug(curve group.Point, buf []byte) (group.Point, error) {
	var d PointDebug
	if err := cbor.Unmarshal(buf, &d); err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(d.X)
	y := new(big.Int).SetBytes(d.Y)
	return curve.SetPoint(x, y), nil
}
