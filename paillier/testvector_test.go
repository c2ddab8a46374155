package paillier_test

import (
	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/paillier"
)

// testP and testQ are the two fixed 1024-bit primes spec §8 and
// original_source's own test suite use for deterministic conformance
// tests (scenarios S1-S6).
const (
	testP = "148677972634832330983979593310074301486537017973460461278300587514468301043894574906886127642530475786889672304776052879927627556769456140664043088700743909632312483413393134504352834240399191134336344285483935856491230340093391784574980688823380828143810804684752914935441384845195613674104960646037368551517"
	testQ = "158741574437007245654463598139927898730476924736461654463975966787719309357536545869203069369466212089132653564188443272208127277664424448947476335413293018778018615899291704693105620242763173357203898195318179150836424196645745308205164116144020613415407736216097185962171301808761138424668335445923774195463"
)

func testKeyPair() (*paillier.EncryptionKey, *paillier.DecryptionKeyCRT) {
	p, err := bigint.Parse(testP)
	if err != nil {
		panic(err)
	}
	q, err := bigint.Parse(testQ)
	if err != nil {
		panic(err)
	}
	dk, err := paillier.DecryptionKeyFromPrimes(p, q)
	if err != nil {
		panic(err)
	}
	return &dk.EncryptionKey, dk
}
