package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyQueryErrorMessage(t *testing.T) {
	err := newEmptyQueryError("position")
	assert.Contains(t, err.Error(), "position")

	var target *EmptyQueryError
	assert.True(t, errors.As(err, &target))
}

func TestImmutableWriteErrorMessage(t *testing.T) {
	err := newImmutableWriteError("Position", "X")
	assert.Contains(t, err.Error(), "Position")
	assert.Contains(t, err.Error(), "X")

	var target *ImmutableWriteError
	assert.True(t, errors.As(err, &target))
}

func TestUnknownEntityErrorMessage(t *testing.T) {
	err := newUnknownEntityError(EntityID(7))
	assert.Contains(t, err.Error(), "7")

	var target *UnknownEntityError
	assert.True(t, errors.As(err, &target))
}
