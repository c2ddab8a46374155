// Package paillier implements the Paillier partially homomorphic
// cryptosystem (spec component 3): key generation, encryption, two
// decryption variants (direct and CRT-accelerated), homomorphic addition,
// homomorphic scalar multiplication, and ciphertext rerandomisation.
//
// The key layout and arithmetic mirror
// github.com/bnb-chain/tss-lib's crypto/paillier package (fixed-base
// g = n+1 encryption, L(u) = (u-1)/n decryption), generalized from that
// package's GG18-specific API (safe primes, range proofs) to the plain
// Paillier contract of spec §3-§4.3, and extended with the CRT
// decryption variant spec §4.3.4 asks for.
package paillier

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/common"
	"github.com/shieldcrypt/paillier-go/primes"
)

// DefaultModulusBits is used by GenerateKeyPair when bits <= 0 is passed.
const DefaultModulusBits = 2048

var (
	// ErrPlaintextOutOfRange is spec §7 PlaintextOutOfRange.
	ErrPlaintextOutOfRange = errors.New("paillier: plaintext m is out of allowed range [0, n)")
	// ErrInvalidKey is spec §7 InvalidKey.
	ErrInvalidKey = errors.New("paillier: p == q, or gcd((p-1)(q-1), p*q) != 1")
	// ErrCiphertextOutOfRange guards c against the ciphertext space [0, n^2).
	ErrCiphertextOutOfRange = errors.New("paillier: ciphertext c is out of allowed range [0, n^2)")
)

// EncryptionKey is spec §3's EK = (n, n^2).
type EncryptionKey struct {
	N       bigint.Int
	NSquare bigint.Int
}

// Gamma returns the fixed base g = n+1 used by Encrypt (spec §4.3.2).
func (ek *EncryptionKey) Gamma() bigint.Int {
	return ek.N.Add(bigint.FromUint64(1))
}

// DecryptionKey is spec §3's direct decryption key DK = (p, q, n, n^2, λ, μ).
type DecryptionKey struct {
	EncryptionKey
	P, Q       bigint.Int
	Lambda, Mu bigint.Int
}

// DecryptionKeyCRT is spec §3's DK_crt, carrying the precomputed CRT
// coefficients that make Decrypt ~4x faster than the direct variant.
type DecryptionKeyCRT struct {
	EncryptionKey
	P, PSquare, PMinus1 bigint.Int
	Q, QSquare, QMinus1 bigint.Int
	PInvModQ            bigint.Int
	Hp, Hq              bigint.Int
}

// Decrypter is satisfied by both decryption key variants, letting callers
// (notably the bound package) pick either strategy behind one interface.
type Decrypter interface {
	Decrypt(c *Ciphertext) (bigint.Int, error)
}

var (
	_ Decrypter = (*DecryptionKey)(nil)
	_ Decrypter = (*DecryptionKeyCRT)(nil)
)

func newEncryptionKey(n bigint.Int) *EncryptionKey {
	return &EncryptionKey{N: n, NSquare: n.Mul(n)}
}

// GenerateKeyPair samples two independent primes of bits/2 length each,
// and constructs the encryption key and the CRT decryption key (spec
// §4.3.1). bits <= 0 selects DefaultModulusBits. Key generation never
// fails in a user-visible way: the negligibly-probable rejection cases
// (p == q, gcd((p-1)(q-1), n) != 1) are retried transparently.
func GenerateKeyPair(ctx context.Context, bits int) (*EncryptionKey, *DecryptionKeyCRT, error) {
	if bits <= 0 {
		bits = DefaultModulusBits
	}
	primeBits := uint(bits / 2)

	for {
		p, err := primes.SampleProbablePrime(primeBits)
		if err != nil {
			return nil, nil, errors.Wrap(err, "paillier: sampling p")
		}
		q, err := primes.SampleProbablePrime(primeBits)
		if err != nil {
			return nil, nil, errors.Wrap(err, "paillier: sampling q")
		}
		if p.Equal(q) {
			common.Logger.Debugf("paillier: rejected p == q, retrying")
			continue
		}

		dk, err := DecryptionKeyFromPrimes(p, q)
		if err != nil {
			common.Logger.Debugf("paillier: rejected candidate key pair (%v), retrying", err)
			continue
		}
		common.Logger.Debugf("paillier: generated key pair %s, fingerprint %s", dk.EncryptionKey.String(), dk.EncryptionKey.Fingerprint())
		return &dk.EncryptionKey, dk, nil
	}
}

// DecryptionKeyFromPrimes reconstructs a CRT decryption key from known
// factors, without sampling. Useful for interop/test vectors (spec §4
// supplement: "reconstructing keys from known factors").
func DecryptionKeyFromPrimes(p, q bigint.Int) (*DecryptionKeyCRT, error) {
	if p.Equal(q) {
		return nil, ErrInvalidKey
	}
	n := p.Mul(q)
	pMinus1 := p.Sub(bigint.FromUint64(1))
	qMinus1 := q.Sub(bigint.FromUint64(1))
	phiN := pMinus1.Mul(qMinus1)

	if _, _, gcd := bezout(n, phiN); !gcd.Equal(bigint.FromUint64(1)) {
		return nil, ErrInvalidKey
	}

	pSquare := p.Mul(p)
	qSquare := q.Mul(q)

	pInvModQ, err := p.ModInverse(q)
	if err != nil {
		return nil, errors.Wrap(err, "paillier: computing p^-1 mod q")
	}

	ek := newEncryptionKey(n)

	hp, err := computeH(p, pSquare, ek.N)
	if err != nil {
		return nil, errors.Wrap(err, "paillier: computing h_p")
	}
	hq, err := computeH(q, qSquare, ek.N)
	if err != nil {
		return nil, errors.Wrap(err, "paillier: computing h_q")
	}

	return &DecryptionKeyCRT{
		EncryptionKey: *ek,
		P:             p, PSquare: pSquare, PMinus1: pMinus1,
		Q: q, QSquare: qSquare, QMinus1: qMinus1,
		PInvModQ: pInvModQ,
		Hp:       hp, Hq: hq,
	}, nil
}

// DirectDecryptionKeyFromPrimes reconstructs the direct-variant decryption
// key DK = (p, q, n, n^2, lambda, mu) from known factors (spec §3's DK).
// Most callers want DecryptionKeyFromPrimes's ~4x faster CRT variant
// instead; this exists for interop and for property 5 ("two CRT variants
// agree"), which needs both decrypters over the same key material.
func DirectDecryptionKeyFromPrimes(p, q bigint.Int) (*DecryptionKey, error) {
	if p.Equal(q) {
		return nil, ErrInvalidKey
	}
	n := p.Mul(q)
	pMinus1 := p.Sub(bigint.FromUint64(1))
	qMinus1 := q.Sub(bigint.FromUint64(1))
	lambda := pMinus1.Mul(qMinus1)

	if _, _, gcd := bezout(n, lambda); !gcd.Equal(bigint.FromUint64(1)) {
		return nil, ErrInvalidKey
	}

	mu, err := lambda.ModInverse(n)
	if err != nil {
		return nil, errors.Wrap(err, "paillier: computing mu = lambda^-1 mod n")
	}

	return &DecryptionKey{
		EncryptionKey: *newEncryptionKey(n),
		P:             p, Q: q,
		Lambda: lambda, Mu: mu,
	}, nil
}

// computeH implements h_x = (L_x((1-n) mod x^2))^-1 mod x, spec §3.
func computeH(x, xSquare, n bigint.Int) (bigint.Int, error) {
	nModXSquare := n.Rem(xSquare)
	// (1 - n) mod x^2, kept nonnegative: (x^2 + 1 - (n mod x^2)) mod x^2
	oneMinusN := xSquare.Add(bigint.FromUint64(1)).Sub(nModXSquare).Rem(xSquare)
	u := L(oneMinusN, x)
	return u.ModInverse(x)
}

// bezout returns (s, t, gcd) such that s*a + t*b = gcd via the extended
// Euclidean algorithm exposed on bigint.Int (spec §4.1 egcd).
func bezout(a, b bigint.Int) (bigint.Int, bigint.Int, bigint.Int) {
	gcd, s, t := a.EGCD(b)
	return s, t, gcd
}

// L implements L(u, n) = (u - 1) / n, spec §3's L function — exact integer
// division, valid only because u is known to be congruent to 1 mod n.
func L(u, n bigint.Int) bigint.Int {
	return u.Sub(bigint.FromUint64(1)).Div(n)
}

func (ek *EncryptionKey) String() string {
	return fmt.Sprintf("paillier.EncryptionKey{N: %d bits}", ek.N.BitLen())
}

// Fingerprint returns a short hex digest of n, for logging and key
// comparison at a glance. It carries no cryptographic meaning of its own
// and must never be used as a key identifier in a security-sensitive
// context (two keys with equal N are the same key; this is a debug aid,
// not a commitment scheme).
func (ek *EncryptionKey) Fingerprint() string {
	sum := sha3.Sum256(ek.N.Bytes())
	return hex.EncodeToString(sum[:8])
}
