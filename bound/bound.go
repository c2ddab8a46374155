// Package bound implements spec component 6, the binding layer: pure
// façades that glue a Paillier key to a codec so callers can Encrypt and
// Decrypt native values directly, without separately invoking an encoder
// or decoder. Bindings borrow both key and codec for their lifetime and
// carry no cryptographic material of their own (spec §4.6).
package bound

import (
	"github.com/shieldcrypt/paillier-go/codec/integral"
	"github.com/shieldcrypt/paillier-go/paillier"
)

// Encoder maps a native value to a plaintext BigInt, the shape every
// codec's encrypt-facing half already has (codec/integral's
// EncodeScalar, codec/packed's Coding.Encode composed with its own
// plaintext-extraction).
type Encoder[T any] interface {
	Encode(x T) (*paillier.Plaintext, error)
}

// Decoder maps a decrypted plaintext BigInt back to a native value.
type Decoder[T any] interface {
	Decode(p *paillier.Plaintext) (T, error)
}

// BoundEncryptionKey routes Encrypt(bound, m) = EK.Encrypt(Enc.Encode(m)),
// spec §4.6.
type BoundEncryptionKey[T any] struct {
	EK  *paillier.EncryptionKey
	Enc Encoder[T]
}

// Encrypt encodes m with the bound encoder, then encrypts the result
// under the bound key.
func (b BoundEncryptionKey[T]) Encrypt(m T) (*paillier.Ciphertext, error) {
	p, err := b.Enc.Encode(m)
	if err != nil {
		return nil, err
	}
	return b.EK.Encrypt(p.M)
}

// Mul scales a ciphertext by a native scalar k, by encoding k through the
// same encoder the binding already carries (spec §4.6: "multiplication
// by a native scalar is supported through the binding").
func (b BoundEncryptionKey[T]) Mul(c *paillier.Ciphertext, k T) (*paillier.Ciphertext, error) {
	kp, err := b.Enc.Encode(k)
	if err != nil {
		return nil, err
	}
	return b.EK.Mul(c, kp.M)
}

// BoundDecryptionKey routes Decrypt(bound, c) = Dec.Decode(DK.Decrypt(c)).
// DK is paillier.Decrypter so either decryption variant can back a
// binding.
type BoundDecryptionKey[T any] struct {
	DK  paillier.Decrypter
	Dec Decoder[T]
}

// Decrypt decrypts c under the bound key, then decodes the resulting
// plaintext with the bound decoder.
func (b BoundDecryptionKey[T]) Decrypt(c *paillier.Ciphertext) (T, error) {
	m, err := b.DK.Decrypt(c)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Dec.Decode(paillier.NewPlaintext(m))
}

// scalarEncoder and scalarDecoder adapt codec/integral's generic
// EncodeScalar/DecodeScalar functions to the Encoder/Decoder interfaces
// above, so a binding can be constructed directly from an integral width.
type scalarEncoder[T integral.Unsigned] struct{}

func (scalarEncoder[T]) Encode(x T) (*paillier.Plaintext, error) {
	return integral.EncodeScalar(x).Plain, nil
}

type scalarDecoder[T integral.Unsigned] struct{}

func (scalarDecoder[T]) Decode(p *paillier.Plaintext) (T, error) {
	return integral.DecodeScalar(integral.Scalar[T]{Plain: p})
}

// ScalarEncryptionKey binds ek to the integral scalar codec for width T.
func ScalarEncryptionKey[T integral.Unsigned](ek *paillier.EncryptionKey) BoundEncryptionKey[T] {
	return BoundEncryptionKey[T]{EK: ek, Enc: scalarEncoder[T]{}}
}

// ScalarDecryptionKey binds dk to the integral scalar codec for width T.
func ScalarDecryptionKey[T integral.Unsigned](dk paillier.Decrypter) BoundDecryptionKey[T] {
	return BoundDecryptionKey[T]{DK: dk, Dec: scalarDecoder[T]{}}
}
