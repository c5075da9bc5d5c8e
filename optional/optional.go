// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package optional models values that may be absent and provides the
// combinators needed to carry absence through a computation without
// branching at every step.
//
// The zero value of Optional is the single canonical absent value. Any
// value wrapped with Some is present, including zero numbers, empty strings
// and empty collections.
package optional

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

// Value returns the wrapped value or the zero value of T when absent.
func (self Optional[T]) Value() T {
	return self.value
}

func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// ValueOr returns the wrapped value or d when absent.
func (self Optional[T]) ValueOr(d T) T {
	if !self.present {
		return d
	}
	return self.value
}

// Ptr returns a pointer to a copy of the wrapped value or nil when absent.
func (self Optional[T]) Ptr() *T {
	if !self.present {
		return nil
	}
	v := self.value
	return &v
}

func (self Optional[T]) String() string {
	if !self.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", self.value)
}

// MarshalJSON renders an absent value as null and a present value as its
// own JSON encoding.
func (self Optional[T]) MarshalJSON() ([]byte, error) {
	if !self.present {
		return []byte("null"), nil
	}
	return json.Marshal(self.value)
}

// UnmarshalJSON treats null as absent. Every other JSON value, including
// 0, "" and [], produces a present value.
func (self *Optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*self = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*self = Some(v)
	return nil
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Empty returns the canonical absent value. It is the same value as None.
func Empty[T any]() Optional[T] {
	return None[T]()
}

// FromPtr converts a nil pointer into an absent value and any other pointer
// into a present copy of the value it points to.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func IsNothing[T any](x Optional[T]) bool {
	return !x.present
}

func IsJust[T any](x Optional[T]) bool {
	return !IsNothing(x)
}
