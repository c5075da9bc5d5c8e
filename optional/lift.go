// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package optional

// LiftSlice lifts a variadic function over optional arguments. The lifted
// function returns None without calling f if any argument is absent.
// Otherwise f receives the unwrapped arguments in their original order.
func LiftSlice[T any, R any](f func(...T) R) func(...Optional[T]) Optional[R] {
	return func(args ...Optional[T]) Optional[R] {
		return Fmap(func(vs []T) R {
			return f(vs...)
		})(Sequence(args))
	}
}

// Lift0 exists for symmetry with the other arities. With no arguments there
// is nothing to be absent so f is always called.
func Lift0[R any](f func() R) func() Optional[R] {
	return func() Optional[R] {
		return Some(f())
	}
}

func Lift1[A any, R any](f func(A) R) func(Optional[A]) Optional[R] {
	return Fmap(f)
}

func Lift2[A any, B any, R any](f func(A, B) R) func(Optional[A], Optional[B]) Optional[R] {
	return func(a Optional[A], b Optional[B]) Optional[R] {
		if !allPresent(a.present, b.present) {
			return Empty[R]()
		}
		return Some(f(a.value, b.value))
	}
}

func Lift3[A any, B any, C any, R any](f func(A, B, C) R) func(Optional[A], Optional[B], Optional[C]) Optional[R] {
	return func(a Optional[A], b Optional[B], c Optional[C]) Optional[R] {
		if !allPresent(a.present, b.present, c.present) {
			return Empty[R]()
		}
		return Some(f(a.value, b.value, c.value))
	}
}

func Lift4[A any, B any, C any, D any, R any](f func(A, B, C, D) R) func(Optional[A], Optional[B], Optional[C], Optional[D]) Optional[R] {
	return func(a Optional[A], b Optional[B], c Optional[C], d Optional[D]) Optional[R] {
		if !allPresent(a.present, b.present, c.present, d.present) {
			return Empty[R]()
		}
		return Some(f(a.value, b.value, c.value, d.value))
	}
}

func Lift5[A any, B any, C any, D any, E any, R any](f func(A, B, C, D, E) R) func(Optional[A], Optional[B], Optional[C], Optional[D], Optional[E]) Optional[R] {
	return func(a Optional[A], b Optional[B], c Optional[C], d Optional[D], e Optional[E]) Optional[R] {
		if !allPresent(a.present, b.present, c.present, d.present, e.present) {
			return Empty[R]()
		}
		return Some(f(a.value, b.value, c.value, d.value, e.value))
	}
}

func Lift6[A any, B any, C any, D any, E any, F any, R any](f func(A, B, C, D, E, F) R) func(Optional[A], Optional[B], Optional[C], Optional[D], Optional[E], Optional[F]) Optional[R] {
	return func(a Optional[A], b Optional[B], c Optional[C], d Optional[D], e Optional[E], g Optional[F]) Optional[R] {
		if !allPresent(a.present, b.present, c.present, d.present, e.present, g.present) {
			return Empty[R]()
		}
		return Some(f(a.value, b.value, c.value, d.value, e.value, g.value))
	}
}

// Arguments are checked left to right and the first absent one stops the scan.
func allPresent(present ...bool) bool {
	for _, p := range present {
		if !p {
			return false
		}
	}
	return true
}
