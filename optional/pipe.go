// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package optional

// Pipe composes fs from left to right. Pipe() is the identity function.
//
// Pipe knows nothing about absence. Compose with Fmap, Bind or Traverse when
// an intermediate None should stop the chain.
func Pipe[T any](fs ...func(T) T) func(T) T {
	return func(a T) T {
		acc := a
		for _, f := range fs {
			acc = f(acc)
		}
		return acc
	}
}

func Pipe2[A any, B any, C any](f func(A) B, g func(B) C) func(A) C {
	return func(a A) C {
		return g(f(a))
	}
}

func Pipe3[A any, B any, C any, D any](f func(A) B, g func(B) C, h func(C) D) func(A) D {
	return func(a A) D {
		return h(g(f(a)))
	}
}

func Pipe4[A any, B any, C any, D any, E any](f func(A) B, g func(B) C, h func(C) D, i func(D) E) func(A) E {
	return func(a A) E {
		return i(h(g(f(a))))
	}
}
