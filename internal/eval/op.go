// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"math"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.microglot.org/maybe.go/internal/exc"
	"gopkg.microglot.org/maybe.go/internal/iter"
	"gopkg.microglot.org/maybe.go/optional"
	"gopkg.microglot.org/maybe.go/optional/optionalpb"
)

// Op names the combinator applied to each input line.
type Op string

const (
	// OpSequence prints the line unchanged or null if any element is null.
	OpSequence Op = "sequence"
	// OpTraverse keeps elements strictly greater than the configured minimum
	// and prints null if any element fails.
	OpTraverse Op = "traverse"
	OpSum      Op = "sum"
	OpProduct  Op = "product"
	// OpMax prints null for an empty line since there is no maximum.
	OpMax Op = "max"
)

func Ops() []Op {
	return []Op{OpSequence, OpTraverse, OpSum, OpProduct, OpMax}
}

func ParseOp(s string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Ops() {
		if op == known {
			return op, nil
		}
	}
	return "", exc.Newf(exc.Location{URI: "--op"}, exc.CodeUnknownOperation, "unknown operation %q", s)
}

// apply runs the configured operation over one line. Results that cannot be
// represented in JSON, such as an overflowing sum, are absent.
func (self *evaluator) apply(ctx context.Context, values []optional.Optional[float64]) optional.Optional[*structpb.Value] {
	switch self.Op {
	case OpTraverse:
		traverse := iter.Traverse(optional.Bind(above(self.Min)))
		return optional.Bind(listValue)(traverse(ctx, iter.NewSlice(values)))
	case OpSum:
		return optional.Bind(numberValue)(optional.LiftSlice(sum)(values...))
	case OpProduct:
		return optional.Bind(numberValue)(optional.LiftSlice(product)(values...))
	case OpMax:
		return optional.Pipe2(optional.Bind(maxOf), optional.Bind(numberValue))(optional.Sequence(values))
	default:
		return optional.Bind(listValue)(iter.Sequence(ctx, iter.NewSlice(values)))
	}
}

func numberValue(x float64) optional.Optional[*structpb.Value] {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return optional.None[*structpb.Value]()
	}
	return optional.Some(structpb.NewNumberValue(x))
}

func listValue(xs []float64) optional.Optional[*structpb.Value] {
	return optional.Fmap(func(vs []*structpb.Value) *structpb.Value {
		return structpb.NewListValue(&structpb.ListValue{Values: vs})
	})(optional.Traverse(numberValue)(xs))
}

// parseLine decodes a JSON array of numbers and nulls.
func parseLine(loc exc.Location, text string) ([]optional.Optional[float64], exc.Exception) {
	list := &structpb.ListValue{}
	if err := protojson.Unmarshal([]byte(text), list); err != nil {
		return nil, exc.Wrap(loc, exc.CodeInvalidJSON, err)
	}
	values := make([]optional.Optional[float64], 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		n, e := number(loc, i, v)
		if e != nil {
			return nil, e
		}
		values = append(values, n)
	}
	return values, nil
}

func number(loc exc.Location, index int, v *structpb.Value) (optional.Optional[float64], exc.Exception) {
	o := optionalpb.FromValue(v)
	if optional.IsNothing(o) {
		return optional.None[float64](), nil
	}
	n, ok := o.Value().GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return optional.None[float64](), exc.Newf(loc, exc.CodeUnsupportedValue, "element %d is not a number or null", index)
	}
	return optional.Some(n.NumberValue), nil
}

func above(threshold float64) func(float64) optional.Optional[float64] {
	return func(x float64) optional.Optional[float64] {
		if x > threshold {
			return optional.Some(x)
		}
		return optional.None[float64]()
	}
}

func sum(xs ...float64) float64 {
	total := 0.0
	for _, x := range xs {
		total = total + x
	}
	return total
}

func product(xs ...float64) float64 {
	total := 1.0
	for _, x := range xs {
		total = total * x
	}
	return total
}

func maxOf(xs []float64) optional.Optional[float64] {
	if len(xs) == 0 {
		return optional.None[float64]()
	}
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return optional.Some(m)
}
