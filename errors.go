package ecs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Unknown-component and double-add are silent no-ops by design (not
// errors) and so have no type here.

// EmptyQueryError is returned when a query is constructed with zero
// required component types.
type EmptyQueryError struct {
	Key string
}

func (e *EmptyQueryError) Error() string {
	return fmt.Sprintf("ecs: query %q has an empty required component set", e.Key)
}

func newEmptyQueryError(key string) error {
	return errors.WithStack(&EmptyQueryError{Key: key})
}

// ImmutableWriteError is produced when a caller attempts to write through a
// read-only ComponentView. It always carries the component type name and
// the field the caller tried to set.
type ImmutableWriteError struct {
	Component string
	Field     string
}

func (e *ImmutableWriteError) Error() string {
	return fmt.Sprintf("ecs: cannot write field %q of immutable component %q", e.Field, e.Component)
}

func newImmutableWriteError(component, field string) error {
	return errors.WithStack(&ImmutableWriteError{Component: component, Field: field})
}

// UnknownEntityError is returned by Entity.Remove for an entity the store no
// longer (or never did) track.
type UnknownEntityError struct {
	Entity EntityID
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("ecs: unknown entity %d", e.Entity)
}

func newUnknownEntityError(id EntityID) error {
	return errors.WithStack(&UnknownEntityError{Entity: id})
}
