// Package packed implements spec component 5, the vector packing codec:
// a fixed-length vector of fixed-width unsigned integers packed into one
// Paillier plaintext via bit concatenation, carrying its shape
// (slot_count, slot_width) as metadata so ciphertext operations can check
// two operands agree before combining them.
//
// Grounded on original_source's src/packed/mod.rs for the wrapper shapes
// (EncryptionKey/DecryptionKey/Plaintext carrying a Coding) and on
// src/integral/vector.rs for the exact pack/unpack bit arithmetic and the
// (10, 64) default shape.
package packed

import (
	"github.com/pkg/errors"

	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/codec/integral"
	"github.com/shieldcrypt/paillier-go/paillier"
)

// Unsigned is the same width family codec/integral ranges over.
type Unsigned = integral.Unsigned

var (
	// ErrPackingOverflow is spec §7 PackingOverflow: a slot value doesn't
	// fit in slot_width bits, the vector's length doesn't match
	// slot_count, or the packed width exceeds the key's modulus.
	ErrPackingOverflow = errors.New("packed: vector does not fit the coding's shape")
	// ErrShapeMismatch is spec §7 ShapeMismatch: two ciphertexts/vectors
	// carry different (slot_count, slot_width) and cannot be combined.
	ErrShapeMismatch = errors.New("packed: slot_count/slot_width mismatch between operands")
)

// Coding is spec §4.5's packing configuration: slot_count fixed-width
// slots of slot_width bits each, packed into one BigInt. Coding is a
// stateless value type, safe to share and reuse across many vectors.
type Coding[T Unsigned] struct {
	SlotCount int
	SlotWidth int
}

// DefaultCoding matches original_source's Coding::default(): 10 slots of
// 64 bits each.
func DefaultCoding[T Unsigned]() Coding[T] {
	return Coding[T]{SlotCount: 10, SlotWidth: 64}
}

// VectorPlaintext is a packed vector plaintext tagged with the coding
// that produced it.
type VectorPlaintext[T Unsigned] struct {
	Coding Coding[T]
	Plain  *paillier.Plaintext
}

// VectorCiphertext carries the same shape metadata as VectorPlaintext,
// alongside the encrypted packed value.
type VectorCiphertext[T Unsigned] struct {
	Coding Coding[T]
	Cipher *paillier.Ciphertext
}

func (c Coding[T]) slotMask() bigint.Int {
	return bigint.FromUint64(1).Shl(uint(c.SlotWidth)).Sub(bigint.FromUint64(1))
}

// Encode packs xs into a single BigInt by concatenating each slot's
// slot_width low bits, most-significant slot first: for slots
// x[0..slot_count), the packed value is sum(x[i] << (slot_width * (slot_count-1-i))).
// Fails with ErrPackingOverflow if len(xs) != SlotCount or a value doesn't
// fit in SlotWidth bits.
func (c Coding[T]) Encode(xs []T) (*VectorPlaintext[T], error) {
	if len(xs) != c.SlotCount {
		return nil, errors.Wrapf(ErrPackingOverflow, "got %d slots, coding wants %d", len(xs), c.SlotCount)
	}
	mask := c.slotMask()
	packed := bigint.Zero()
	for i, x := range xs {
		v := bigint.FromUint64(uint64(x))
		if v.Cmp(mask) > 0 {
			return nil, errors.Wrapf(ErrPackingOverflow, "slot %d value %d does not fit in %d bits", i, x, c.SlotWidth)
		}
		shift := uint(c.SlotWidth * (c.SlotCount - 1 - i))
		packed = packed.Add(v.Shl(shift))
	}
	return &VectorPlaintext[T]{Coding: c, Plain: paillier.NewPlaintext(packed)}, nil
}

// Decode unpacks p's BigInt back into SlotCount values of SlotWidth bits
// each, the inverse of Encode: mask off the low slot_width bits, shift
// right, repeat from the least-significant slot upward.
func (c Coding[T]) Decode(p *VectorPlaintext[T]) ([]T, error) {
	if p.Coding != c {
		return nil, errors.Wrapf(ErrShapeMismatch, "decoding coding %+v with %+v", p.Coding, c)
	}
	mask := c.slotMask()
	xs := make([]T, c.SlotCount)
	v := p.Plain.M
	for i := c.SlotCount - 1; i >= 0; i-- {
		slot := v.Rem(mask.Add(bigint.FromUint64(1)))
		u, err := slot.Uint64()
		if err != nil {
			return nil, errors.Wrap(ErrPackingOverflow, "unpacked slot exceeds uint64")
		}
		xs[i] = T(u)
		v = v.Shr(uint(c.SlotWidth))
	}
	return xs, nil
}

// checkModulusFits rejects a coding whose packed width would not fit in
// the key's modulus — this can only be checked once the key is known, per
// spec §4.5 (the coding alone cannot validate it).
func (c Coding[T]) checkModulusFits(ek *paillier.EncryptionKey) error {
	packedBits := c.SlotCount * c.SlotWidth
	if packedBits >= ek.N.BitLen() {
		return errors.Wrapf(ErrPackingOverflow, "packed width %d bits does not fit modulus of %d bits", packedBits, ek.N.BitLen())
	}
	return nil
}

// Encrypt packs xs under c and encrypts the result under ek.
func (c Coding[T]) Encrypt(ek *paillier.EncryptionKey, xs []T) (*VectorCiphertext[T], error) {
	if err := c.checkModulusFits(ek); err != nil {
		return nil, err
	}
	p, err := c.Encode(xs)
	if err != nil {
		return nil, err
	}
	ct, err := ek.Encrypt(p.Plain.M)
	if err != nil {
		return nil, err
	}
	return &VectorCiphertext[T]{Coding: c, Cipher: ct}, nil
}

// Decrypt decrypts vc under dk and unpacks the result per vc's coding.
func (c Coding[T]) Decrypt(dk paillier.Decrypter, vc *VectorCiphertext[T]) ([]T, error) {
	if vc.Coding != c {
		return nil, errors.Wrapf(ErrShapeMismatch, "decrypting coding %+v with %+v", vc.Coding, c)
	}
	m, err := dk.Decrypt(vc.Cipher)
	if err != nil {
		return nil, err
	}
	return c.Decode(&VectorPlaintext[T]{Coding: c, Plain: paillier.NewPlaintext(m)})
}

// Add is spec §4.5's slotwise addition: the packed representation's
// homomorphic addition sums every slot simultaneously, as long as no slot
// overflows slot_width bits during the run of additions the caller
// performs — that bound is the caller's responsibility (spec §4.5 "bounded
// homomorphism"), not something this package can check after the fact.
func Add[T Unsigned](ek *paillier.EncryptionKey, a, b *VectorCiphertext[T]) (*VectorCiphertext[T], error) {
	if a.Coding != b.Coding {
		return nil, errors.Wrapf(ErrShapeMismatch, "adding coding %+v to %+v", a.Coding, b.Coding)
	}
	c, err := ek.Add(a.Cipher, b.Cipher)
	if err != nil {
		return nil, err
	}
	return &VectorCiphertext[T]{Coding: a.Coding, Cipher: c}, nil
}

// Mul scales every slot of a by the same scalar k (spec §4.5's
// "plaintext scalar multiplies every slot" rule).
func Mul[T Unsigned](ek *paillier.EncryptionKey, a *VectorCiphertext[T], k T) (*VectorCiphertext[T], error) {
	c, err := ek.Mul(a.Cipher, bigint.FromUint64(uint64(k)))
	if err != nil {
		return nil, err
	}
	return &VectorCiphertext[T]{Coding: a.Coding, Cipher: c}, nil
}

// Rerandomise changes a's representative without changing the vector it
// decrypts to or its shape metadata.
func Rerandomise[T Unsigned](ek *paillier.EncryptionKey, a *VectorCiphertext[T]) (*VectorCiphertext[T], error) {
	c, err := ek.Rerandomise(a.Cipher)
	if err != nil {
		return nil, err
	}
	return &VectorCiphertext[T]{Coding: a.Coding, Cipher: c}, nil
}
