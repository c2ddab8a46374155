package packed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/codec/packed"
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

func smallCoding() packed.Coding[uint16] {
	return packed.Coding[uint16]{SlotCount: 3, SlotWidth: 16}
}

// Property 6: pack/unpack round trip.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := smallCoding()
	xs := []uint16{1, 2, 3}
	p, err := c.Encode(xs)
	require.NoError(t, err)
	got, err := c.Decode(p)
	require.NoError(t, err)
	assert.Equal(t, xs, got)
}

func TestDefaultCoding(t *testing.T) {
	c := packed.DefaultCoding[uint64]()
	assert.Equal(t, 10, c.SlotCount)
	assert.Equal(t, 64, c.SlotWidth)
}

// S4: vector (slot_count=3, slot_width=16) encrypt [1,2,3] + [1,2,3] ->
// decrypt -> [2,4,6].
func TestScenarioS4(t *testing.T) {
	ek, dk := testKeyPair(t)
	c := smallCoding()

	a, err := c.Encrypt(ek, []uint16{1, 2, 3})
	require.NoError(t, err)
	b, err := c.Encrypt(ek, []uint16{1, 2, 3})
	require.NoError(t, err)

	sum, err := packed.Add(ek, a, b)
	require.NoError(t, err)

	got, err := c.Decrypt(dk, sum)
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 4, 6}, got)
}

// S5: vector [1,2,3] * 4 -> [4,8,12].
func TestScenarioS5(t *testing.T) {
	ek, dk := testKeyPair(t)
	c := smallCoding()

	a, err := c.Encrypt(ek, []uint16{1, 2, 3})
	require.NoError(t, err)

	scaled, err := packed.Mul(ek, a, uint16(4))
	require.NoError(t, err)

	got, err := c.Decrypt(dk, scaled)
	require.NoError(t, err)
	assert.Equal(t, []uint16{4, 8, 12}, got)
}

// Property 7: bounded vector additive homomorphism holds slotwise as
// long as no slot overflows its width.
func TestPropertyVectorAdditiveHomomorphism(t *testing.T) {
	ek, dk := testKeyPair(t)
	c := smallCoding()

	a, err := c.Encrypt(ek, []uint16{100, 200, 300})
	require.NoError(t, err)
	b, err := c.Encrypt(ek, []uint16{10, 20, 30})
	require.NoError(t, err)

	sum, err := packed.Add(ek, a, b)
	require.NoError(t, err)

	got, err := c.Decrypt(dk, sum)
	require.NoError(t, err)
	assert.Equal(t, []uint16{110, 220, 330}, got)
}

func TestEncodeRejectsWrongLength(t *testing.T) {
	c := smallCoding()
	_, err := c.Encode([]uint16{1, 2})
	assert.ErrorIs(t, err, packed.ErrPackingOverflow)
}

func TestEncodeRejectsSlotTooWide(t *testing.T) {
	c := packed.Coding[uint32]{SlotCount: 2, SlotWidth: 4}
	_, err := c.Encode([]uint32{1, 1 << 10})
	assert.ErrorIs(t, err, packed.ErrPackingOverflow)
}

func TestDecodeRejectsShapeMismatch(t *testing.T) {
	a := packed.Coding[uint16]{SlotCount: 3, SlotWidth: 16}
	b := packed.Coding[uint16]{SlotCount: 4, SlotWidth: 16}
	p, err := a.Encode([]uint16{1, 2, 3})
	require.NoError(t, err)
	_, err = b.Decode(p)
	assert.ErrorIs(t, err, packed.ErrShapeMismatch)
}

func TestAddRejectsShapeMismatch(t *testing.T) {
	ek, _ := testKeyPair(t)
	a := packed.Coding[uint16]{SlotCount: 3, SlotWidth: 16}
	b := packed.Coding[uint16]{SlotCount: 2, SlotWidth: 16}

	ca, err := a.Encrypt(ek, []uint16{1, 2, 3})
	require.NoError(t, err)
	cb, err := b.Encrypt(ek, []uint16{1, 2})
	require.NoError(t, err)

	_, err = packed.Add(ek, ca, cb)
	assert.ErrorIs(t, err, packed.ErrShapeMismatch)
}

func TestEncryptRejectsCodingTooWideForModulus(t *testing.T) {
	ek, _ := testKeyPair(t)
	huge := packed.Coding[uint64]{SlotCount: 100, SlotWidth: 64}
	_, err := huge.Encrypt(ek, make([]uint64, 100))
	assert.ErrorIs(t, err, packed.ErrPackingOverflow)
}
