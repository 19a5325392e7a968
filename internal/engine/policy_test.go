package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryN(t *testing.T) {
	p := NewEveryN(2)
	assert.Equal(t, []bool{false, true, false, true},
		[]bool{p.ShouldPersist(), p.ShouldPersist(), p.ShouldPersist(), p.ShouldPersist()})

	one := NewEveryN(0)
	assert.True(t, one.ShouldPersist())
	assert.True(t, one.ShouldPersist())
}

func TestSampled(t *testing.T) {
	roll := 0.05
	p := NewSampled(0.1, func() float64 { return roll })
	assert.True(t, p.ShouldPersist())

	roll = 0.5
	assert.False(t, p.ShouldPersist())
}

func TestFixedPolicies(t *testing.T) {
	assert.True(t, Always.ShouldPersist())
	assert.False(t, Never.ShouldPersist())
}
