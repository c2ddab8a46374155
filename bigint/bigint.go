// Package bigint exposes the narrow arbitrary-precision integer contract
// the rest of this module depends on. Every other package talks to Int,
// never to math/big directly, so a different backend could be dropped in
// behind New/Zero/Parse/FromBytes without touching paillier, codec, or
// bound.
package bigint

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/shieldcrypt/paillier-go/common"
)

// Int is a nonnegative arbitrary-precision integer. All operations are
// defined for nonnegative operands unless stated otherwise; Sub requires
// the receiver to be >= the argument.
type Int interface {
	Add(o Int) Int
	Sub(o Int) Int
	Mul(o Int) Int
	Div(o Int) Int
	Rem(o Int) Int
	DivMod(m Int) (Int, Int)

	Shl(k uint) Int
	Shr(k uint) Int

	ModPow(e, m Int) Int
	ModInverse(m Int) (Int, error)
	// EGCD returns g = gcd(receiver, o) and Bezout coefficients with
	// s*receiver + t*o = g. s or t may be negative: this is the one
	// operation whose results are not always nonnegative.
	EGCD(o Int) (g, s, t Int)

	SetBit(i uint, v uint) Int
	Bit(i uint) uint

	Cmp(o Int) int
	Equal(o Int) bool
	IsZero() bool
	IsEven() bool
	IsNegative() bool
	BitLen() int

	Uint64() (uint64, error)
	Bytes() []byte
	String() string

	// ProbablyPrime runs a Miller-Rabin/Baillie-PSW compositeness test
	// with the given number of independent rounds (spec §4.2).
	ProbablyPrime(rounds int) bool

	// big exposes the underlying *big.Int for call sites inside this
	// package that must hand a value to a math/big-only stdlib facility
	// (e.g. ProbablyPrime). Never call this from outside bigint.
	big() *big.Int
}

type bigInt struct {
	v *big.Int
}

// New wraps a nonnegative *big.Int. Panics if v is negative, mirroring
// the package's "operations defined for nonnegative operands" contract.
func New(v *big.Int) Int {
	if v.Sign() < 0 {
		panic("bigint: negative value")
	}
	return &bigInt{v: new(big.Int).Set(v)}
}

// Zero returns the additive identity.
func Zero() Int { return &bigInt{v: new(big.Int)} }

// FromUint64 losslessly widens a machine integer.
func FromUint64(x uint64) Int { return &bigInt{v: new(big.Int).SetUint64(x)} }

// FromBytes interprets bz as a big-endian unsigned integer.
func FromBytes(bz []byte) Int { return &bigInt{v: new(big.Int).SetBytes(bz)} }

// ErrParse is returned by Parse when the input is not a valid nonnegative
// decimal integer literal (spec §7 ParseError).
var ErrParse = errors.New("bigint: not a valid nonnegative decimal integer")

// Parse reads a nonnegative decimal string.
func Parse(s string) (Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrParse
	}
	return &bigInt{v: v}, nil
}

// ErrArithmetic signals a modular inverse requested on a non-coprime pair
// (spec §7 ArithmeticError) — a precondition violation that, outside of
// test code deliberately exercising it, indicates corrupt key material.
var ErrArithmetic = errors.New("bigint: no modular inverse exists (gcd != 1)")

func (b *bigInt) big() *big.Int { return b.v }

func other(o Int) *big.Int { return o.big() }

func (b *bigInt) Add(o Int) Int { return &bigInt{v: new(big.Int).Add(b.v, other(o))} }

func (b *bigInt) Sub(o Int) Int {
	if b.v.Cmp(other(o)) < 0 {
		panic("bigint: Sub requires a >= b")
	}
	return &bigInt{v: new(big.Int).Sub(b.v, other(o))}
}

func (b *bigInt) Mul(o Int) Int { return &bigInt{v: new(big.Int).Mul(b.v, other(o))} }

func (b *bigInt) Div(o Int) Int { return &bigInt{v: new(big.Int).Div(b.v, other(o))} }

func (b *bigInt) Rem(o Int) Int { return &bigInt{v: new(big.Int).Mod(b.v, other(o))} }

func (b *bigInt) DivMod(m Int) (Int, Int) {
	q, r := new(big.Int), new(big.Int)
	q.DivMod(b.v, other(m), r)
	return &bigInt{v: q}, &bigInt{v: r}
}

func (b *bigInt) Shl(k uint) Int { return &bigInt{v: new(big.Int).Lsh(b.v, k)} }

func (b *bigInt) Shr(k uint) Int { return &bigInt{v: new(big.Int).Rsh(b.v, k)} }

func (b *bigInt) ModPow(e, m Int) Int {
	return &bigInt{v: common.ModInt(other(m)).Exp(b.v, other(e))}
}

func (b *bigInt) ModInverse(m Int) (Int, error) {
	inv := common.ModInt(other(m)).ModInverse(b.v)
	if inv == nil {
		return nil, ErrArithmetic
	}
	return &bigInt{v: inv}, nil
}

func (b *bigInt) EGCD(o Int) (Int, Int, Int) {
	g, s, t := new(big.Int), new(big.Int), new(big.Int)
	g.GCD(s, t, b.v, other(o))
	return &bigInt{v: g}, &bigInt{v: s}, &bigInt{v: t}
}

func (b *bigInt) SetBit(i uint, v uint) Int {
	return &bigInt{v: new(big.Int).SetBit(b.v, int(i), v)}
}

func (b *bigInt) Bit(i uint) uint { return b.v.Bit(int(i)) }

func (b *bigInt) Cmp(o Int) int { return b.v.Cmp(other(o)) }

func (b *bigInt) Equal(o Int) bool { return b.v.Cmp(other(o)) == 0 }

func (b *bigInt) IsZero() bool { return b.v.Sign() == 0 }

func (b *bigInt) IsEven() bool { return b.v.Bit(0) == 0 }

func (b *bigInt) IsNegative() bool { return b.v.Sign() < 0 }

func (b *bigInt) BitLen() int { return b.v.BitLen() }

func (b *bigInt) Uint64() (uint64, error) {
	if !b.v.IsUint64() {
		return 0, fmt.Errorf("bigint: value does not fit in uint64")
	}
	return b.v.Uint64(), nil
}

func (b *bigInt) Bytes() []byte { return b.v.Bytes() }

func (b *bigInt) String() string { return b.v.String() }

func (b *bigInt) ProbablyPrime(rounds int) bool { return b.v.ProbablyPrime(rounds) }

// SampleBelow returns a uniformly random Int in [0, upper) (spec §4.1
// sample_below), delegating to the teacher's common.GetRandomPositiveInt
// the same way ModPow/ModInverse delegate to common.ModInt.
func SampleBelow(upper Int) (Int, error) {
	n := common.GetRandomPositiveInt(other(upper))
	if n == nil {
		return nil, fmt.Errorf("bigint: SampleBelow: upper bound must be positive")
	}
	return &bigInt{v: n}, nil
}

// Sample returns a uniformly random Int of at most bits bits (spec §4.1
// sample), delegating to common.MustGetRandomInt.
func Sample(bits uint) (Int, error) {
	if bits == 0 {
		return nil, fmt.Errorf("bigint: Sample: bits must be positive")
	}
	return &bigInt{v: common.MustGetRandomInt(int(bits))}, nil
}

// SampleRange returns a uniformly random Int in [lower, upper).
func SampleRange(lower, upper Int) (Int, error) {
	span := upper.Sub(lower)
	if span.IsZero() {
		return nil, fmt.Errorf("bigint: SampleRange: empty range")
	}
	n, err := SampleBelow(span)
	if err != nil {
		return nil, errors.Wrap(err, "bigint: SampleRange")
	}
	return n.Add(lower), nil
}

// SampleUnit returns a uniformly random element of the multiplicative
// group (Z/nZ)*, i.e. coprime to n — the domain Paillier's encryption
// randomness r is drawn from (spec §4.3.2), delegating to the teacher's
// common.GetRandomPositiveRelativelyPrimeInt.
func SampleUnit(n Int) (Int, error) {
	v := common.GetRandomPositiveRelativelyPrimeInt(other(n))
	if v == nil {
		return nil, fmt.Errorf("bigint: SampleUnit: modulus must be positive")
	}
	return &bigInt{v: v}, nil
}
