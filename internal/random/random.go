// Package random provides a seedable xorshift128+ generator with unbiased bounded
// sampling. Output is bit-for-bit reproducible for a given seed pair.
package random

import (
	"errors"
	"fmt"
	"math"
)

// Default seed pair used when none is configured.
const (
	DefaultSeed0 uint64 = 0xDEAD177EA71511
	DefaultSeed1 uint64 = 0x12340978ABCDCDAA
)

// ErrOutOfRange reports a sampled value outside its requested range. It is only ever
// raised through panic: it indicates a generator or arithmetic bug.
var ErrOutOfRange = errors.New("random: sample out of range")

// Source is a xorshift128+ generator. It is not safe for concurrent use.
type Source struct {
	s0, s1 uint64
}

// New creates a generator from two seed words. An all-zero state never produces output,
// so it is replaced by s1 = 1.
func New(seed0, seed1 uint64) *Source {
	if seed0 == 0 && seed1 == 0 {
		seed1 = 1
	}
	return &Source{s0: seed0, s1: seed1}
}

// NewDefault creates a generator seeded with DefaultSeed0 and DefaultSeed1.
func NewDefault() *Source {
	return New(DefaultSeed0, DefaultSeed1)
}

// Uint64 advances the state and returns the next value.
func (s *Source) Uint64() uint64 {
	x := s.s0
	y := s.s1
	s.s0 = y
	x ^= x << 23
	x ^= x >> 17
	x ^= y
	x ^= y >> 26
	s.s1 = x
	return s.s0 + s.s1
}

// Bounded returns a value uniformly distributed in [0, max). Raw draws below
// 2^64 mod max are rejected so the final reduction carries no modulo bias.
func (s *Source) Bounded(max uint64) uint64 {
	if max == 0 {
		panic("random: Bounded called with max == 0")
	}
	threshold := -max % max
	for {
		u := s.Uint64()
		if u >= threshold {
			return u % max
		}
	}
}

// IntClosed returns a value uniformly distributed in [lo, hi].
func (s *Source) IntClosed(lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("random: empty range [%d, %d]", lo, hi))
	}
	span := uint64(hi) - uint64(lo) + 1
	var v int
	if span == 0 {
		// [MinInt64, MaxInt64]: every bit pattern is in range.
		v = int(s.Uint64())
	} else {
		v = lo + int(s.Bounded(span))
	}
	if v < lo || v > hi {
		panic(fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, lo, hi))
	}
	return v
}

// float resolution: 53 bits of mantissa.
const (
	floatSteps = 1 << 53
	floatScale = 1.0 / floatSteps
)

// FloatClosed returns a value uniformly distributed in [lo, hi].
func (s *Source) FloatClosed(lo, hi float64) float64 {
	checkFloatRange(lo, hi)
	f := float64(s.Bounded(floatSteps+1)) * floatScale
	v := lo + (hi-lo)*f
	if f == 1 || v > hi {
		v = hi
	}
	if !(v >= lo && v <= hi) {
		panic(fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, v, lo, hi))
	}
	return v
}

// FloatHalfOpen returns a value uniformly distributed in [lo, hi).
func (s *Source) FloatHalfOpen(lo, hi float64) float64 {
	checkFloatRange(lo, hi)
	if lo == hi {
		panic(fmt.Sprintf("random: empty range [%g, %g)", lo, hi))
	}
	f := float64(s.Bounded(floatSteps)) * floatScale
	v := lo + (hi-lo)*f
	if v >= hi {
		v = math.Nextafter(hi, lo)
	}
	if !(v >= lo && v < hi) {
		panic(fmt.Errorf("%w: %g not in [%g, %g)", ErrOutOfRange, v, lo, hi))
	}
	return v
}

func checkFloatRange(lo, hi float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(hi-lo, 0) || lo > hi {
		panic(fmt.Sprintf("random: invalid range [%g, %g]", lo, hi))
	}
}

// Shuffle permutes s in place with a Fisher-Yates pass driven by src.
func Shuffle[T any](src *Source, s []T) {
	n := len(s)
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		j := i + src.IntClosed(0, n-1-i)
		if j == i {
			continue
		}
		s[i], s[j] = s[j], s[i]
	}
}
