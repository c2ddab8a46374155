// Package integral implements spec component 4, the integral scalar
// codec: embedding a fixed-width unsigned integer as a Paillier plaintext
// and extracting it back, typed by the native width so the type system
// records the encoding.
//
// Go has no phantom types, so the source's compile-time width tag
// (Design Note 2) collapses to a generic type parameter: Scalar[T] for
// T one of the fixed unsigned widths. Add/Mul/Rerandomise/Encrypt/Decrypt
// are direct delegations to github.com/shieldcrypt/paillier-go/paillier,
// matching spec §4.4's "no added behavior beyond the type tag".
package integral

import (
	"github.com/pkg/errors"

	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/paillier"
)

// Unsigned enumerates the native widths spec §3's scalar tag T ranges
// over.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ErrDecodeOverflow is spec §7 DecodeOverflow.
var ErrDecodeOverflow = errors.New("integral: decoded value does not fit in the target width")

// Scalar is a plaintext tagged with its native width T.
type Scalar[T Unsigned] struct {
	Plain *paillier.Plaintext
}

// ScalarCiphertext is a ciphertext tagged with its native width T.
type ScalarCiphertext[T Unsigned] struct {
	Cipher *paillier.Ciphertext
}

// EncodeScalar widens x to a BigInt and tags the result with T.
func EncodeScalar[T Unsigned](x T) Scalar[T] {
	return Scalar[T]{Plain: paillier.NewPlaintext(bigint.FromUint64(uint64(x)))}
}

// DecodeScalar narrows the plaintext's BigInt back to T, failing with
// ErrDecodeOverflow if it does not fit.
func DecodeScalar[T Unsigned](s Scalar[T]) (T, error) {
	u, err := s.Plain.M.Uint64()
	if err != nil {
		return 0, errors.Wrap(ErrDecodeOverflow, err.Error())
	}
	var zero T
	maxT := maxOf[T]()
	if u > maxT {
		return zero, ErrDecodeOverflow
	}
	return T(u), nil
}

func maxOf[T Unsigned]() uint64 {
	var t T
	switch any(t).(type) {
	case uint8:
		return 1<<8 - 1
	case uint16:
		return 1<<16 - 1
	case uint32:
		return 1<<32 - 1
	default:
		return ^uint64(0)
	}
}

// Encrypt encodes x and encrypts it under ek (spec §4.4 delegation).
func Encrypt[T Unsigned](ek *paillier.EncryptionKey, x T) (ScalarCiphertext[T], error) {
	c, err := ek.Encrypt(bigint.FromUint64(uint64(x)))
	if err != nil {
		return ScalarCiphertext[T]{}, err
	}
	return ScalarCiphertext[T]{Cipher: c}, nil
}

// Decrypt decrypts c under dk and decodes the resulting plaintext to T.
func Decrypt[T Unsigned](dk paillier.Decrypter, c ScalarCiphertext[T]) (T, error) {
	m, err := dk.Decrypt(c.Cipher)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeScalar(Scalar[T]{Plain: paillier.NewPlaintext(m)})
}

// Add delegates to the underlying Paillier primitive.
func Add[T Unsigned](ek *paillier.EncryptionKey, a, b ScalarCiphertext[T]) (ScalarCiphertext[T], error) {
	c, err := ek.Add(a.Cipher, b.Cipher)
	if err != nil {
		return ScalarCiphertext[T]{}, err
	}
	return ScalarCiphertext[T]{Cipher: c}, nil
}

// Mul delegates to the underlying Paillier primitive.
func Mul[T Unsigned](ek *paillier.EncryptionKey, a ScalarCiphertext[T], k T) (ScalarCiphertext[T], error) {
	c, err := ek.Mul(a.Cipher, bigint.FromUint64(uint64(k)))
	if err != nil {
		return ScalarCiphertext[T]{}, err
	}
	return ScalarCiphertext[T]{Cipher: c}, nil
}

// Rerandomise delegates to the underlying Paillier primitive.
func Rerandomise[T Unsigned](ek *paillier.EncryptionKey, a ScalarCiphertext[T]) (ScalarCiphertext[T], error) {
	c, err := ek.Rerandomise(a.Cipher)
	if err != nil {
		return ScalarCiphertext[T]{}, err
	}
	return ScalarCiphertext[T]{Cipher: c}, nil
}
