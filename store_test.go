package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntityAssignsDistinctIDs(t *testing.T) {
	s := newTestStore()
	e1 := s.CreateEntity()
	e2 := s.CreateEntity()
	assert.NotEqual(t, e1.ID(), e2.ID())
}

func TestRemoveEntityForceDestroysImmediately(t *testing.T) {
	s := newTestStore()
	e := s.CreateEntity()
	id := e.ID()

	require.NoError(t, e.Remove(true))

	_, ok := s.EntityByID(id)
	assert.False(t, ok)
	assert.False(t, e.Alive())
}

func TestRemoveEntityDeferredStaysUntilFlush(t *testing.T) {
	s := newTestStore()
	e := s.CreateEntity()
	id := e.ID()

	require.NoError(t, e.Remove(false))
	_, ok := s.EntityByID(id)
	assert.True(t, ok, "deferred removal must not destroy immediately")

	s.ProcessDeferred()
	_, ok = s.EntityByID(id)
	assert.False(t, ok)
}

func TestRemoveUnknownEntityErrors(t *testing.T) {
	s := newTestStore()
	e := s.CreateEntity()
	require.NoError(t, e.Remove(true))

	err := e.Remove(true)
	require.Error(t, err)
	var target *UnknownEntityError
	assert.ErrorAs(t, err, &target)
}

func TestEntityPoolReusesReleasedEntities(t *testing.T) {
	s := newTestStore()
	e1 := s.CreateEntity()
	id1 := e1.ID()
	require.NoError(t, e1.Remove(true))

	totalBefore, _, _ := s.entityPool.Stats()
	e2 := s.CreateEntity()
	totalAfter, _, _ := s.entityPool.Stats()

	assert.Equal(t, totalBefore, totalAfter, "reusing a released entity must not grow the pool")
	assert.NotEqual(t, id1, e2.ID(), "EntityID must keep incrementing even across reuse")
}

func TestByTagReturnsOnlyTaggedEntities(t *testing.T) {
	s := newTestStore()
	tagged := s.CreateEntity()
	tagged.AddTag("npc")
	s.CreateEntity()

	result := s.ByTag("npc")
	require.Len(t, result, 1)
	assert.Equal(t, tagged.ID(), result[0].ID())
}

func TestDestroyEntityClearsTagIndex(t *testing.T) {
	s := newTestStore()
	e := s.CreateEntity()
	e.AddTag("npc")

	require.NoError(t, e.Remove(true))
	assert.Empty(t, s.ByTag("npc"))
}
