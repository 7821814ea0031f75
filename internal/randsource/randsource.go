// Package randsource is the injected randomness seam of spec.md §6: the core
// never reads OS entropy directly, instead threading a Source through every
// prover call. Production callers use Default();
// tests use NewDeterministic for bit-reproducible proofs (spec.md §5,
// "Deterministic-RNG mode (seeded) is supported for testing only").
package randsource

import (
	"crypto/rand"
	"io"
	"math/big"

	"golang.org/x/crypto/chacha20"
)

// Source produces uniformly random scalars in [0,max) and [1,max).
type Source interface {
	// Scalar returns a uniform value in [0,max).
	Scalar(max *big.Int) (*big.Int, error)
	// NonZeroScalar returns a uniform value in [1,max), rejection-sampling
	// away zero.
	NonZeroScalar(max *big.Int) (*big.Int, error)
}

type csprng struct{ r io.Reader }

// Default returns a Source backed by crypto/rand.
func Default() Source { return csprng{r: rand.Reader} }

func (c csprng) Scalar(max *big.Int) (*big.Int, error) {
	return rand.Int(c.r, max)
}

func (c csprng) NonZeroScalar(max *big.Int) (*big.Int, error) {
	for {
		s, err := c.Scalar(max)
		if err != nil {
			return nil, err
		}
		if s.Sign() != 0 {
			return s, nil
		}
	}
}

// deterministic wraps a ChaCha20 keystream as an io.Reader, giving
// reproducible "randomness" for tests that must assert transcript
// determinism (spec.md §8, "Transcript determinism").
type deterministic struct {
	cipher *chacha20.Cipher
}

// NewDeterministic returns a Source seeded from seed (expanded/truncated to
// 32 bytes), suitable only for tests.
func NewDeterministic(seed []byte) Source {
	key := make([]byte, chacha20.KeySize)
	copy(key, seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		panic(err)
	}
	return &deterministic{cipher: c}
}

func (d *deterministic) read(n int) []byte {
	buf := make([]byte, n)
	d.cipher.XORKeyStream(buf, buf)
	return buf
}

func (d *deterministic) Scalar(max *big.Int) (*big.Int, error) {
	byteLen := (max.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	for {
		buf := d.read(byteLen + 8) // extra bytes to reduce modulo bias
		v := new(big.Int).SetBytes(buf)
		v.Mod(v, max)
		return v, nil
	}
}

func (d *deterministic) NonZeroScalar(max *big.Int) (*big.Int, error) {
	for {
		s, err := d.Scalar(max)
		if err != nil {
			return nil, err
		}
		if s.Sign() != 0 {
			return s, nil
		}
	}
}
