package integral_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/codec/integral"
	"github.com/shieldcrypt/paillier-go/paillier"
)

const testP = "148677972634832330983979593310074301486537017973460461278300587514468301043894574906886127642530475786889672304776052879927627556769456140664043088700743909632312483413393134504352834240399191134336344285483935856491230340093391784574980688823380828143810804684752914935441384845195613674104960646037368551517"
const testQ = "158741574437007245654463598139927898730476924736461654463975966787719309357536545869203069369466212089132653564188443272208127277664424448947476335413293018778018615899291704693105620242763173357203898195318179150836424196645745308205164116144020613415407736216097185962171301808761138424668335445923774195463"

func testKeyPair(t *testing.T) (*paillier.EncryptionKey, *paillier.DecryptionKeyCRT) {
	t.Helper()
	p, err := bigint.Parse(testP)
	require.NoError(t, err)
	q, err := bigint.Parse(testQ)
	require.NoError(t, err)
	dk, err := paillier.DecryptionKeyFromPrimes(p, q)
	require.NoError(t, err)
	return &dk.EncryptionKey, dk
}

func TestEncodeDecodeScalarRoundTrip(t *testing.T) {
	s := integral.EncodeScalar[uint32](424242)
	got, err := integral.DecodeScalar(s)
	require.NoError(t, err)
	assert.Equal(t, uint32(424242), got)
}

func TestEncryptDecryptScalar(t *testing.T) {
	ek, dk := testKeyPair(t)
	c, err := integral.Encrypt[uint64](ek, 123456789)
	require.NoError(t, err)
	got, err := integral.Decrypt[uint64](dk, c)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), got)
}

func TestScalarAdditiveHomomorphism(t *testing.T) {
	ek, dk := testKeyPair(t)
	a, err := integral.Encrypt[uint32](ek, 10)
	require.NoError(t, err)
	b, err := integral.Encrypt[uint32](ek, 20)
	require.NoError(t, err)
	sum, err := integral.Add(ek, a, b)
	require.NoError(t, err)
	got, err := integral.Decrypt[uint32](dk, sum)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), got)
}

func TestScalarMultiplicativeHomomorphism(t *testing.T) {
	ek, dk := testKeyPair(t)
	a, err := integral.Encrypt[uint32](ek, 7)
	require.NoError(t, err)
	product, err := integral.Mul(ek, a, uint32(6))
	require.NoError(t, err)
	got, err := integral.Decrypt[uint32](dk, product)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), got)
}

func TestScalarRerandomiseIsTransparent(t *testing.T) {
	ek, dk := testKeyPair(t)
	a, err := integral.Encrypt[uint16](ek, 99)
	require.NoError(t, err)
	b, err := integral.Rerandomise(ek, a)
	require.NoError(t, err)
	assert.False(t, a.Cipher.C.Equal(b.Cipher.C))
	got, err := integral.Decrypt[uint16](dk, b)
	require.NoError(t, err)
	assert.Equal(t, uint16(99), got)
}

func TestDecodeScalarOverflow(t *testing.T) {
	big := integral.EncodeScalar[uint32](1 << 20)
	// reinterpret at a narrower width by hand-building a Scalar over the
	// same plaintext, since EncodeScalar itself can't construct an
	// out-of-range uint8 value directly.
	narrow := integral.Scalar[uint8]{Plain: big.Plain}
	_, err := integral.DecodeScalar(narrow)
	assert.ErrorIs(t, err, integral.ErrDecodeOverflow)
}
