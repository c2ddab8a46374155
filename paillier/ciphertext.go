package paillier

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/shieldcrypt/paillier-go/bigint"
)

// Plaintext is spec §3's Plain(m), m in [0, n). Equality is value
// equality over the wrapped BigInt.
type Plaintext struct {
	M bigint.Int
}

func NewPlaintext(m bigint.Int) *Plaintext { return &Plaintext{M: m} }

func (p *Plaintext) Equal(o *Plaintext) bool { return p.M.Equal(o.M) }

// Ciphertext is spec §3's Ciph(c), c in [0, n^2). Equality is not
// meaningful here: rerandomisation intentionally changes the
// representative, so Ciphertext deliberately has no Equal method —
// comparing the wrapped BigInt directly (as the property tests do, to
// assert *inequality*) is the caller's job.
type Ciphertext struct {
	C bigint.Int
}

func (c *Ciphertext) String() string { return fmt.Sprintf("%x", c.C.Bytes()) }

func one() bigint.Int { return bigint.FromUint64(1) }

// Encrypt is spec §4.3.2: trivial encryption (g = n+1, so g^m = 1 + m*n
// mod n^2 with no exponentiation) followed by rerandomisation.
func (ek *EncryptionKey) Encrypt(m bigint.Int) (*Ciphertext, error) {
	if m.IsNegative() || m.Cmp(ek.N) >= 0 {
		return nil, errors.Wrapf(ErrPlaintextOutOfRange, "m=%s, n=%s", m, ek.N)
	}
	r, err := bigint.SampleUnit(ek.N)
	if err != nil {
		return nil, errors.Wrap(err, "paillier: Encrypt: sampling r")
	}
	return ek.EncryptWithR(m, r)
}

// EncryptWithR encrypts with caller-supplied randomness r. Exposed for
// property tests and for higher-level protocols that need to commit to r
// ahead of time (supplemented from original_source's EncryptWithR).
func (ek *EncryptionKey) EncryptWithR(m, r bigint.Int) (*Ciphertext, error) {
	if m.IsNegative() || m.Cmp(ek.N) >= 0 {
		return nil, errors.Wrapf(ErrPlaintextOutOfRange, "m=%s, n=%s", m, ek.N)
	}
	u := m.Mul(ek.N).Add(one()).Rem(ek.NSquare) // 1 + m*n mod n^2
	rn := r.ModPow(ek.N, ek.NSquare)
	c := u.Mul(rn).Rem(ek.NSquare)
	return &Ciphertext{C: c}, nil
}

func (ek *EncryptionKey) checkCiphertextRange(c *Ciphertext) error {
	if c.C.IsNegative() || c.C.Cmp(ek.NSquare) >= 0 {
		return ErrCiphertextOutOfRange
	}
	return nil
}

// Add is spec §4.3.5: Ciph(c1), Ciph(c2) -> Ciph(c1*c2 mod n^2), which
// decrypts to (m1+m2) mod n.
func (ek *EncryptionKey) Add(c1, c2 *Ciphertext) (*Ciphertext, error) {
	if err := ek.checkCiphertextRange(c1); err != nil {
		return nil, err
	}
	if err := ek.checkCiphertextRange(c2); err != nil {
		return nil, err
	}
	return &Ciphertext{C: c1.C.Mul(c2.C).Rem(ek.NSquare)}, nil
}

// Mul is spec §4.3.5: Ciph(c), Plain(k) -> Ciph(c^k mod n^2), which
// decrypts to (k*m) mod n.
func (ek *EncryptionKey) Mul(c *Ciphertext, k bigint.Int) (*Ciphertext, error) {
	if err := ek.checkCiphertextRange(c); err != nil {
		return nil, err
	}
	return &Ciphertext{C: c.C.ModPow(k, ek.NSquare)}, nil
}

// Rerandomise is spec §4.3.5: multiplies by a fresh r^n mod n^2, changing
// the ciphertext's representative without changing the plaintext it
// decrypts to.
func (ek *EncryptionKey) Rerandomise(c *Ciphertext) (*Ciphertext, error) {
	if err := ek.checkCiphertextRange(c); err != nil {
		return nil, err
	}
	r, err := bigint.SampleUnit(ek.N)
	if err != nil {
		return nil, errors.Wrap(err, "paillier: Rerandomise: sampling r")
	}
	rn := r.ModPow(ek.N, ek.NSquare)
	return &Ciphertext{C: c.C.Mul(rn).Rem(ek.NSquare)}, nil
}

// Decrypt is spec §4.3.3, the direct decryption variant.
func (dk *DecryptionKey) Decrypt(c *Ciphertext) (bigint.Int, error) {
	if err := dk.checkCiphertextRange(c); err != nil {
		return nil, err
	}
	u := c.C.ModPow(dk.Lambda, dk.NSquare)
	m := L(u, dk.N).Mul(dk.Mu).Rem(dk.N)
	return m, nil
}

// Decrypt is spec §4.3.4, the CRT-accelerated decryption variant: two
// exponentiations modulo p^2 and q^2 instead of one modulo n^2, then a
// CRT recombination.
func (dk *DecryptionKeyCRT) Decrypt(c *Ciphertext) (bigint.Int, error) {
	if err := dk.checkCiphertextRange(c); err != nil {
		return nil, err
	}

	cp := c.C.ModPow(dk.PMinus1, dk.PSquare)
	mp := L(cp, dk.P).Mul(dk.Hp).Rem(dk.P)

	cq := c.C.ModPow(dk.QMinus1, dk.QSquare)
	mq := L(cq, dk.Q).Mul(dk.Hq).Rem(dk.Q)

	// u = (mq - mp) * (p^-1 mod q) mod q, keeping the subtraction in Z/qZ
	diff := mq.Add(dk.Q).Sub(mp.Rem(dk.Q)).Rem(dk.Q) // mq - mp, wrapped into [0, q)
	u := diff.Mul(dk.PInvModQ).Rem(dk.Q)

	m := mp.Add(u.Mul(dk.P)).Rem(dk.N)
	return m, nil
}
