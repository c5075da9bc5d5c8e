// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gopkg.microglot.org/maybe.go/internal/eval"
	"gopkg.microglot.org/maybe.go/internal/exc"
	"gopkg.microglot.org/maybe.go/internal/iter"
)

type opts struct {
	Op             string
	Min            float64
	KeepGoing      bool
	Verbose        bool
	MaxConcurrency int
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flags := pflag.NewFlagSet("maybe", pflag.ExitOnError)
	flags.String("op", string(eval.OpSequence), "Operation applied to each line: sequence, traverse, sum, product or max.")
	flags.Float64("min", 3, "Exclusive lower bound used by the traverse operation.")
	flags.Bool("keep-going", false, "Report malformed lines and continue instead of stopping the input.")
	flags.Bool("verbose", false, "Log every evaluated line to STDERR.")
	flags.Int("max-concurrency", 0, "Number of inputs evaluated at once. Zero uses the CPU count.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	v := viper.New()
	v.SetEnvPrefix("MAYBE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	op := &opts{
		Op:             v.GetString("op"),
		Min:            v.GetFloat64("min"),
		KeepGoing:      v.GetBool("keep-going"),
		Verbose:        v.GetBool("verbose"),
		MaxConcurrency: v.GetInt("max-concurrency"),
	}

	logger := zap.NewNop()
	if op.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	var nonFatal []string
	if op.KeepGoing {
		nonFatal = []string{exc.CodeInvalidJSON, exc.CodeUnsupportedValue}
	}
	reporter := exc.NewReporter(nonFatal)

	ev, err := eval.New(
		eval.OptionWithOp(eval.Op(op.Op)),
		eval.OptionWithMin(op.Min),
		eval.OptionWithMaxConcurrency(op.MaxConcurrency),
		eval.OptionWithExcReporter(reporter),
		eval.OptionWithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	inputs, err := openInputs(targets, os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	err = ev.Evaluate(ctx, inputs, os.Stdout)
	if err != nil {
		var me eval.MultiException
		if errors.As(err, &me) {
			for _, err := range me {
				fmt.Fprintln(os.Stderr, err.Error())
			}
			os.Exit(1)
		}
		panic(err)
	}
}

// openInputs opens every target in order. "-" names stdin and may appear at
// most once since stdin can only be read by one input.
func openInputs(targets []string, stdin io.Reader) ([]eval.Input, error) {
	if len(targets) == 0 {
		return []eval.Input{{URI: "-", Lines: iter.NewLines(stdin)}}, nil
	}
	inputs := make([]eval.Input, 0, len(targets))
	usedStdin := false
	for _, target := range targets {
		if target == "-" {
			if usedStdin {
				closeInputs(inputs)
				return nil, exc.New(exc.Location{URI: target}, exc.CodeDuplicateInput, "stdin given more than once")
			}
			usedStdin = true
			inputs = append(inputs, eval.Input{URI: target, Lines: iter.NewLines(stdin)})
			continue
		}
		f, err := os.Open(target)
		if err != nil {
			code := exc.CodeUnknownFatal
			switch {
			case errors.Is(err, fs.ErrNotExist):
				code = exc.CodeFileNotFound
			case errors.Is(err, fs.ErrPermission):
				code = exc.CodePermissionDenied
			}
			closeInputs(inputs)
			return nil, exc.Wrap(exc.Location{URI: target}, code, err)
		}
		inputs = append(inputs, eval.Input{URI: target, Lines: iter.NewLines(f)})
	}
	return inputs, nil
}

func closeInputs(inputs []eval.Input) {
	for _, in := range inputs {
		_ = in.Lines.Close(context.Background())
	}
}
