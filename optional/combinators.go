// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package optional

func Id[T any](x T) T {
	return x
}

// Fmap lifts f so that it operates on optional values. The returned function
// yields None for an absent input and otherwise calls f exactly once.
func Fmap[T any, U any](f func(T) U) func(Optional[T]) Optional[U] {
	return func(x Optional[T]) Optional[U] {
		if IsNothing(x) {
			return Empty[U]()
		}
		return Some(f(x.value))
	}
}

// Bind is Fmap for functions that may themselves produce an absent value.
// The result is not nested: an absent result of f is returned as is.
func Bind[T any, U any](f func(T) Optional[U]) func(Optional[T]) Optional[U] {
	return func(x Optional[T]) Optional[U] {
		if IsNothing(x) {
			return Empty[U]()
		}
		return f(x.value)
	}
}

// Sequence collapses a slice of optional values into an optional slice. The
// result is None as soon as any element is absent; otherwise it holds every
// value in the original order. An empty input yields a present empty slice.
func Sequence[T any](xs []Optional[T]) Optional[[]T] {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if IsNothing(x) {
			return Empty[[]T]()
		}
		out = append(out, x.value)
	}
	return Some(out)
}

// Traverse returns a function that applies f to every element of its input
// and then sequences the results. f is called for each element even when an
// earlier one has already produced None.
func Traverse[T any, U any](f func(T) Optional[U]) func([]T) Optional[[]U] {
	return func(xs []T) Optional[[]U] {
		mapped := make([]Optional[U], len(xs))
		for i, x := range xs {
			mapped[i] = f(x)
		}
		return Sequence(mapped)
	}
}
