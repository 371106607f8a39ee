package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected int
	}{
		{"Zero", 0, 0},
		{"One", 1, 1},
		{"FullWord", 64, 1},
		{"WordPlusOne", 65, 2},
		{"TwoWords", 128, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WordCount(tt.n))
		})
	}
}

func TestSetClearTest(t *testing.T) {
	s := New(130)

	s.Set(0)
	s.Set(64)
	s.Set(129)

	assert.True(t, s.Test(0))
	assert.True(t, s.Test(64))
	assert.True(t, s.Test(129))
	assert.False(t, s.Test(1))
	assert.Equal(t, 3, s.Count())

	s.Clear(64)
	assert.False(t, s.Test(64))
	assert.Equal(t, 2, s.Count())
}

func TestNewFullMasksTail(t *testing.T) {
	s := NewFull(70)

	assert.Equal(t, 70, s.Count())
	assert.Equal(t, 70, s.Len())

	// Dead bits of the tail word stay zero.
	assert.Equal(t, uint64(1)<<6-1, s.Word(1))
}

func TestAndCount(t *testing.T) {
	a := New(100)
	b := New(100)

	for i := 0; i < 100; i += 2 {
		a.Set(i)
	}
	for i := 0; i < 100; i += 3 {
		b.Set(i)
	}

	// Multiples of 6 in [0, 100).
	assert.Equal(t, 17, a.AndCount(b))
	assert.Equal(t, 50-17, a.AndNotCount(b))
}

func TestClone(t *testing.T) {
	a := NewFull(65)
	b := a.Clone()

	b.Clear(64)

	assert.True(t, a.Test(64))
	assert.False(t, b.Test(64))
	assert.Equal(t, 65, a.Count())
	assert.Equal(t, 64, b.Count())
}
