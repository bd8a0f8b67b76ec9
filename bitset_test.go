package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsetSetClearTest(t *testing.T) {
	var b bitset

	require.False(t, b.test(0))
	b.set(3)
	b.set(130) // forces a word beyond the first

	assert.True(t, b.test(3))
	assert.True(t, b.test(130))
	assert.False(t, b.test(4))

	b.clear(3)
	assert.False(t, b.test(3))
	assert.True(t, b.test(130))
}

func TestBitsetSupersetOf(t *testing.T) {
	var required bitset
	required.set(1)
	required.set(5)

	var owns bitset
	owns.set(1)
	assert.False(t, owns.supersetOf(required))

	owns.set(5)
	assert.True(t, owns.supersetOf(required))

	owns.set(200)
	assert.True(t, owns.supersetOf(required))
}

func TestBitsetDisjoint(t *testing.T) {
	var a, b bitset
	a.set(2)
	b.set(9)
	assert.True(t, a.disjoint(b))

	b.set(2)
	assert.False(t, a.disjoint(b))
}

func TestBitsetIsEmptyAndClone(t *testing.T) {
	var b bitset
	assert.True(t, b.isEmpty())

	b.set(64)
	assert.False(t, b.isEmpty())

	clone := b.clone()
	clone.clear(64)
	assert.True(t, b.test(64), "clone must not alias the original")
	assert.False(t, clone.test(64))
}
