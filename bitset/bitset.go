// Package bitset provides fixed-width dense bit vectors backed by 64-bit
// words. It is the storage primitive for the dataset index and the reversible
// cover: one bit per transaction, bitwise AND against attribute vectors, and
// word-level access for the cover's trail.
package bitset

import "math/bits"

// WordBits is the number of bits per backing word.
const WordBits = 64

// A Set is a fixed-width bit vector. The width is fixed at creation; bits
// beyond the width are always zero so population counts never see dead bits.
type Set struct {
	words []uint64
	n     int
}

// WordCount returns the number of 64-bit words needed to hold n bits.
func WordCount(n int) int {
	return (n + WordBits - 1) / WordBits
}

// New creates an all-zero set of n bits.
func New(n int) *Set {
	return &Set{words: make([]uint64, WordCount(n)), n: n}
}

// NewFull creates a set of n bits with every bit set.
func NewFull(n int) *Set {
	s := New(n)
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	s.maskTail()
	return s
}

// maskTail clears the dead bits of the last word.
func (s *Set) maskTail() {
	if rem := s.n % WordBits; rem != 0 && len(s.words) > 0 {
		s.words[len(s.words)-1] &= (uint64(1) << rem) - 1
	}
}

// Len returns the width of the set in bits.
func (s *Set) Len() int {
	return s.n
}

// Set sets bit i.
func (s *Set) Set(i int) {
	s.words[i/WordBits] |= uint64(1) << (i % WordBits)
}

// Clear clears bit i.
func (s *Set) Clear(i int) {
	s.words[i/WordBits] &^= uint64(1) << (i % WordBits)
}

// Test reports whether bit i is set.
func (s *Set) Test(i int) bool {
	return s.words[i/WordBits]&(uint64(1)<<(i%WordBits)) != 0
}

// Count returns the number of set bits.
func (s *Set) Count() int {
	count := 0
	for _, w := range s.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Word returns backing word i. The tail word is pre-masked, so callers may
// AND words blindly.
func (s *Set) Word(i int) uint64 {
	return s.words[i]
}

// Words returns the backing words. The slice must not be mutated.
func (s *Set) Words() []uint64 {
	return s.words
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &Set{words: words, n: s.n}
}

// AndCount returns the population count of s AND other without allocating.
func (s *Set) AndCount(other *Set) int {
	count := 0
	for i, w := range s.words {
		count += bits.OnesCount64(w & other.words[i])
	}
	return count
}

// AndNotCount returns the population count of s AND NOT other.
func (s *Set) AndNotCount(other *Set) int {
	count := 0
	for i, w := range s.words {
		count += bits.OnesCount64(w &^ other.words[i])
	}
	return count
}
