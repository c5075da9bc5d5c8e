// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package optionalpb converts between optional values and the protobuf
// representations of absence: nil wrapper messages, the null struct value
// and unpopulated fields.
package optionalpb

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.microglot.org/maybe.go/optional"
)

// wrapper matches the well-known wrapper messages such as
// wrapperspb.Int64Value and wrapperspb.StringValue.
type wrapper[T any] interface {
	proto.Message
	GetValue() T
}

// FromWrapper returns None for a nil wrapper and the wrapped value otherwise.
// A wrapper holding the zero value is present. Use like:
//
//	FromWrapper[int64](msg.GetTimeout())
func FromWrapper[T any, W wrapper[T]](w W) optional.Optional[T] {
	if !w.ProtoReflect().IsValid() {
		return optional.None[T]()
	}
	return optional.Some(w.GetValue())
}

// ToWrapper is the inverse of FromWrapper. The wrap function is usually one
// of the wrapperspb constructors. None produces a nil message.
func ToWrapper[T any, W any](o optional.Optional[T], wrap func(T) W) W {
	v, ok := o.Get()
	if !ok {
		var zero W
		return zero
	}
	return wrap(v)
}

// FromValue treats a nil value, a value with no kind set and the null value
// as absent.
func FromValue(v *structpb.Value) optional.Optional[*structpb.Value] {
	if v == nil || v.GetKind() == nil {
		return optional.None[*structpb.Value]()
	}
	if _, ok := v.GetKind().(*structpb.Value_NullValue); ok {
		return optional.None[*structpb.Value]()
	}
	return optional.Some(v)
}

// ToValue renders None, and a present nil pointer, as the null value.
func ToValue(o optional.Optional[*structpb.Value]) *structpb.Value {
	v, ok := o.Get()
	if !ok || v == nil {
		return structpb.NewNullValue()
	}
	return v
}

// Field reads the named field of m. The result is None when the field does
// not exist, is not populated or does not hold a T. Population follows
// protobuf presence rules: a proto3 optional field set to zero is present
// while a plain proto3 scalar set to zero is not.
func Field[T any](m proto.Message, name protoreflect.Name) optional.Optional[T] {
	if m == nil {
		return optional.None[T]()
	}
	r := m.ProtoReflect()
	if !r.IsValid() {
		return optional.None[T]()
	}
	fd := r.Descriptor().Fields().ByName(name)
	if fd == nil || !r.Has(fd) {
		return optional.None[T]()
	}
	v, ok := r.Get(fd).Interface().(T)
	if !ok {
		return optional.None[T]()
	}
	return optional.Some(v)
}
