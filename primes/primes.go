// Package primes implements the prime sampler of spec component 2: a
// uniformly random probable prime of a given bit length, found by trial
// division against a sieve of small primes followed by a probabilistic
// compositeness test.
//
// The trial-division sieve and the goroutine fan-out/first-result/cancel
// shape are both grounded on github.com/bnb-chain/tss-lib's
// crypto/paillier (the otiai10/primes cache primed in init()) and
// common/safe_prime.go (GetRandomSafePrimesConcurrent) respectively,
// generalized from safe (Sophie Germain) primes to plain probable primes
// since spec §4.2 asks only for the latter.
package primes

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/otiai10/primes"

	"github.com/shieldcrypt/paillier-go/bigint"
	"github.com/shieldcrypt/paillier-go/common"
)

const (
	// TrialDivisionBound is how far the small-prime sieve reaches before
	// falling back to the probabilistic test. Several hundred primes (the
	// 550 primes below 4000), as spec §4.2 calls for.
	TrialDivisionBound = 4000

	// MillerRabinRounds is the number of independent-base rounds run by
	// the compositeness test. Spec §4.2 requires at least 40; Go's
	// math/big.ProbablyPrime additionally always runs a Baillie-PSW test
	// first regardless of this count.
	MillerRabinRounds = 40
)

func init() {
	// warm the small-prime cache once, like crypto/paillier's init().
	_ = primes.Globally.Until(TrialDivisionBound)
}

// SampleProbablePrime returns a probable prime p with 2^(bits-1) <= p <
// 2^bits. It never imposes a retry limit — spec §4.2 guarantees
// termination in practice.
func SampleProbablePrime(bits uint) (bigint.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("primes: bits must be >= 2, got %d", bits)
	}
	smallPrimes := primes.Until(TrialDivisionBound).List()

	attempts := 0
	for {
		attempts++
		candidate, err := bigint.Sample(bits)
		if err != nil {
			return nil, err
		}
		candidate = candidate.SetBit(bits-1, 1) // top bit set: >= 2^(bits-1)
		candidate = candidate.SetBit(0, 1)      // odd

		if divisibleBySmallPrime(candidate, smallPrimes) {
			continue
		}
		if candidate.ProbablyPrime(MillerRabinRounds) {
			common.Logger.Debugf("primes: found %d-bit probable prime after %d attempts", bits, attempts)
			return candidate, nil
		}
	}
}

func divisibleBySmallPrime(candidate bigint.Int, smallPrimes []int64) bool {
	for _, p := range smallPrimes {
		prime := bigint.FromUint64(uint64(p))
		if candidate.Cmp(prime) == 0 {
			continue // the candidate itself may legitimately be a tiny prime in tests
		}
		if candidate.Rem(prime).IsZero() {
			return true
		}
	}
	return false
}

// SampleProbablePrimeConcurrent fans `workers` goroutines out to search for
// a prime independently and returns the first one found. The workers'
// context is checked only before a worker starts its search: cancelling it
// (after the first result, or through ctx) does not interrupt a search
// already running, which goes on until it finds its own prime and that
// result is discarded. If ctx is done first, this function returns
// ctx.Err() without waiting for the workers. Errors from workers that fail
// before any success is found are aggregated with go-multierror, matching
// the fan-out shape of common.GetRandomSafePrimesConcurrent.
func SampleProbablePrimeConcurrent(ctx context.Context, bits uint, workers int) (bigint.Int, error) {
	if workers < 1 {
		workers = 1
	}

	resultCh := make(chan bigint.Int, workers)
	errCh := make(chan error, workers)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := sampleWithCancel(workerCtx, bits)
			if err != nil {
				select {
				case errCh <- err:
				default:
				}
				return
			}
			select {
			case resultCh <- p:
			default:
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
		close(errCh)
	}()

	var errs *multierror.Error
	for {
		select {
		case p, ok := <-resultCh:
			if ok {
				cancel()
				return p, nil
			}
			resultCh = nil
		case err, ok := <-errCh:
			if ok {
				errs = multierror.Append(errs, err)
			} else {
				errCh = nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if resultCh == nil && errCh == nil {
			return nil, errs.ErrorOrNil()
		}
	}
}

func sampleWithCancel(ctx context.Context, bits uint) (bigint.Int, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return SampleProbablePrime(bits)
}
