package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	c := Crypto{}
	for i := 0; i < 100; i++ {
		v := c.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

func TestSeeded_deterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}

	c := NewSeeded(43)
	same := true
	a = NewSeeded(42)
	for i := 0; i < 20; i++ {
		if a.Intn(100) != c.Intn(100) {
			same = false
		}
	}
	assert.False(t, same)
}
