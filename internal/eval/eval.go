// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/encoding/protojson"

	"gopkg.microglot.org/maybe.go/internal/exc"
	"gopkg.microglot.org/maybe.go/internal/iter"
	"gopkg.microglot.org/maybe.go/optional/optionalpb"
)

// Input is one named stream of JSON array lines.
type Input struct {
	URI   string
	Lines iter.Iterator[string]
}

type Evaluator interface {
	// Evaluate applies the configured operation to every line of every input
	// and writes one JSON result per line to out. Outputs are written in input
	// order. Reported exceptions are returned together as a MultiException.
	Evaluate(ctx context.Context, inputs []Input, out io.Writer) error
}

type Option func(e *evaluator) error

func OptionWithOp(op Op) Option {
	return func(e *evaluator) error {
		parsed, err := ParseOp(string(op))
		if err != nil {
			return err
		}
		e.Op = parsed
		return nil
	}
}

func OptionWithMin(threshold float64) Option {
	return func(e *evaluator) error {
		e.Min = threshold
		return nil
	}
}

func OptionWithMaxConcurrency(n int) Option {
	return func(e *evaluator) error {
		e.MaxConcurrency = n
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(e *evaluator) error {
		e.Reporter = reporter
		return nil
	}
}

func OptionWithLogger(logger *zap.Logger) Option {
	return func(e *evaluator) error {
		e.Logger = logger
		return nil
	}
}

func New(opts ...Option) (Evaluator, error) {
	e := &evaluator{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.Op == "" {
		e.Op = OpSequence
	}
	if e.MaxConcurrency <= 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		e.MaxConcurrency = max
	}
	if e.Reporter == nil {
		e.Reporter = exc.NewReporter(nil)
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	return e, nil
}

type evaluator struct {
	Op             Op
	Min            float64
	MaxConcurrency int
	Reporter       exc.Reporter
	Logger         *zap.Logger
}

func (self *evaluator) Evaluate(ctx context.Context, inputs []Input, out io.Writer) error {
	outputs := make([]bytes.Buffer, len(inputs))
	g := &errgroup.Group{}
	g.SetLimit(self.MaxConcurrency)
	for i := range inputs {
		i := i
		g.Go(func() error {
			self.evaluateInput(ctx, inputs[i], &outputs[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range outputs {
		if _, err := outputs[i].WriteTo(out); err != nil {
			return err
		}
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return MultiException(caught)
	}
	return nil
}

// evaluateInput stops at the first fatal exception. Everything written before
// that point is kept.
func (self *evaluator) evaluateInput(ctx context.Context, in Input, w io.Writer) {
	logger := self.Logger.With(zap.String("uri", in.URI), zap.String("op", string(self.Op)))
	lines := iter.NewIteratorFilter(iter.NewEnumerate(in.Lines), iter.Filter[iter.Indexed[string]](iter.FilterFunc[iter.Indexed[string]](skipBlank)))
	for line := lines.Next(ctx); line.IsPresent(); line = lines.Next(ctx) {
		loc := exc.Location{URI: in.URI, Line: line.Value().Index + 1}
		result, e := self.evaluateLine(ctx, loc, line.Value().Value)
		if e != nil {
			logger.Warn("line rejected", zap.Int("line", loc.Line), zap.String("code", e.Code()), zap.String("message", e.Message()))
			if fatal := self.Reporter.Report(e); fatal != nil {
				break
			}
			continue
		}
		logger.Debug("line evaluated", zap.Int("line", loc.Line), zap.ByteString("result", result))
		_, _ = w.Write(append(result, '\n'))
	}
	if err := lines.Close(ctx); err != nil && ctx.Err() == nil {
		_ = self.Reporter.Report(exc.Wrap(exc.Location{URI: in.URI}, exc.CodeReadFailure, err))
	}
}

func (self *evaluator) evaluateLine(ctx context.Context, loc exc.Location, text string) ([]byte, exc.Exception) {
	values, e := parseLine(loc, text)
	if e != nil {
		return nil, e
	}
	b, err := protojson.Marshal(optionalpb.ToValue(self.apply(ctx, values)))
	if err != nil {
		return nil, exc.WrapUnknown(loc, err)
	}
	return b, nil
}

func skipBlank(ctx context.Context, line iter.Indexed[string]) bool {
	trimmed := strings.TrimSpace(line.Value)
	return trimmed != "" && !strings.HasPrefix(trimmed, "#")
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
