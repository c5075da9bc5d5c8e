// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"

	"gopkg.microglot.org/maybe.go/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

// Iterator produces values until Next returns None.
type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

// NewSlice converts a slice of values into an Iterator implementation.
func NewSlice[T any](vs []T) Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	it.offset = it.offset + 1
	if it.offset >= len(it.slice) {
		return optional.None[T]()
	}
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// NewIteratorFilter wraps an iterator with a filter so that only values that
// pass the filter are returned.
func NewIteratorFilter[T any](it Iterator[T], f Filter[T]) Iterator[T] {
	return &iteratorFilter[T]{
		iter:   it,
		filter: f,
	}
}

type iteratorFilter[T any] struct {
	iter   Iterator[T]
	filter Filter[T]
}

func (it *iteratorFilter[T]) Next(ctx context.Context) optional.Optional[T] {
	for {
		v := it.iter.Next(ctx)
		if !v.IsPresent() {
			return v
		}
		if it.filter.Keep(ctx, v.Value()) {
			return v
		}
	}
}

func (it *iteratorFilter[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}

// FilterFunc is an adaptor for simple filter functions that makes them
// compatible with the Filter interface. Use like:
//
//	FilterFunc[T](func(ctx context.Context, val T) bool { return true })
//
// Note that this type should never be referenced directly in any signature.
// Always use Filter as an input or output type.
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}

// Sequence drains an iterator of optional values into an optional slice.
// Reading stops at the first absent element so any remaining elements are
// left in the iterator. An exhausted iterator yields a present empty slice.
func Sequence[T any](ctx context.Context, it Iterator[optional.Optional[T]]) optional.Optional[[]T] {
	out := make([]T, 0)
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		elem := v.Value()
		if optional.IsNothing(elem) {
			return optional.Empty[[]T]()
		}
		out = append(out, elem.Value())
	}
	return optional.Some(out)
}

// Traverse is the iterator form of optional.Traverse. Every element is read
// and passed to f before the results are sequenced.
func Traverse[T any, U any](f func(T) optional.Optional[U]) func(context.Context, Iterator[T]) optional.Optional[[]U] {
	return func(ctx context.Context, it Iterator[T]) optional.Optional[[]U] {
		var mapped []optional.Optional[U]
		for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
			mapped = append(mapped, f(v.Value()))
		}
		return optional.Sequence(mapped)
	}
}

// Indexed pairs a value with its 0-based position in the source iterator.
type Indexed[T any] struct {
	Index int
	Value T
}

// NewEnumerate wraps an iterator so that each value carries its position.
// Positions are assigned before any downstream filtering.
func NewEnumerate[T any](it Iterator[T]) Iterator[Indexed[T]] {
	return &enumerate[T]{iter: it}
}

type enumerate[T any] struct {
	iter Iterator[T]
	next int
}

func (it *enumerate[T]) Next(ctx context.Context) optional.Optional[Indexed[T]] {
	return optional.Fmap(func(v T) Indexed[T] {
		i := it.next
		it.next = it.next + 1
		return Indexed[T]{Index: i, Value: v}
	})(it.iter.Next(ctx))
}

func (it *enumerate[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}
