// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"gopkg.microglot.org/maybe.go/internal/exc"
	"gopkg.microglot.org/maybe.go/internal/iter"
)

func input(uri string, text string) Input {
	return Input{URI: uri, Lines: iter.NewLines(strings.NewReader(text))}
}

// requireJSONLines compares output line by line as JSON since protojson does
// not promise stable whitespace.
func requireJSONLines(t *testing.T, expected []string, out string) {
	t.Helper()
	require.True(t, strings.HasSuffix(out, "\n") || out == "")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if out == "" {
		lines = nil
	}
	require.Len(t, lines, len(expected), out)
	for i := range expected {
		require.JSONEq(t, expected[i], lines[i], "line %d", i+1)
	}
}

func TestParseOp(t *testing.T) {
	t.Parallel()

	for _, op := range Ops() {
		parsed, err := ParseOp(" " + strings.ToUpper(string(op)) + " ")
		require.NoError(t, err)
		require.Equal(t, op, parsed)
	}

	_, err := ParseOp("fold")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeUnknownOperation, e.Code())
	require.Equal(t, exc.Location{URI: "--op"}, e.Location())
	require.Equal(t, `--op -- M0008: unknown operation "fold"`, err.Error())

	_, err = New(OptionWithOp("fold"))
	require.Error(t, err)
}

func TestEvaluateOps(t *testing.T) {
	t.Parallel()

	lines := strings.Join([]string{
		"[5, 6, 7]",
		"[0, 1, 2]",
		"[5, 6, 1]",
		"[]",
		"[5, null, 7]",
		"[0]",
	}, "\n")

	testCases := []struct {
		name     string
		opts     []Option
		expected []string
	}{
		{
			name:     "default is sequence",
			expected: []string{"[5,6,7]", "[0,1,2]", "[5,6,1]", "[]", "null", "[0]"},
		},
		{
			name:     "traverse",
			opts:     []Option{OptionWithOp(OpTraverse), OptionWithMin(3)},
			expected: []string{"[5,6,7]", "null", "null", "[]", "null", "null"},
		},
		{
			name:     "traverse negative minimum",
			opts:     []Option{OptionWithOp(OpTraverse), OptionWithMin(-1)},
			expected: []string{"[5,6,7]", "[0,1,2]", "[5,6,1]", "[]", "null", "[0]"},
		},
		{
			name:     "sum",
			opts:     []Option{OptionWithOp(OpSum)},
			expected: []string{"18", "3", "12", "0", "null", "0"},
		},
		{
			name:     "product",
			opts:     []Option{OptionWithOp(OpProduct)},
			expected: []string{"210", "0", "30", "1", "null", "0"},
		},
		{
			name:     "max",
			opts:     []Option{OptionWithOp(OpMax)},
			expected: []string{"7", "2", "6", "null", "null", "0"},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			ev, err := New(testCase.opts...)
			require.NoError(t, err)
			var out bytes.Buffer
			err = ev.Evaluate(context.Background(), []Input{input("test", lines)}, &out)
			require.NoError(t, err)
			requireJSONLines(t, testCase.expected, out.String())
		})
	}
}

func TestEvaluateSkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	ev, err := New(OptionWithOp(OpSum))
	require.NoError(t, err)
	var out bytes.Buffer
	err = ev.Evaluate(context.Background(), []Input{input("test", "# header\n\n  \n[1.5, 2]\n")}, &out)
	require.NoError(t, err)
	requireJSONLines(t, []string{"3.5"}, out.String())
}

func TestEvaluateReportsExceptions(t *testing.T) {
	t.Parallel()

	text := "[1]\n[1, \"two\"]\nnot json\n[2]\n"

	t.Run("fatal stops the input", func(t *testing.T) {
		t.Parallel()
		ev, err := New()
		require.NoError(t, err)
		var out bytes.Buffer
		err = ev.Evaluate(context.Background(), []Input{input("a.jsonl", text)}, &out)
		var me MultiException
		require.True(t, errors.As(err, &me))
		require.Len(t, me, 1)
		require.Equal(t, exc.CodeUnsupportedValue, me[0].Code())
		require.Equal(t, exc.Location{URI: "a.jsonl", Line: 2}, me[0].Location())
		requireJSONLines(t, []string{"[1]"}, out.String())
	})

	t.Run("non-fatal codes continue", func(t *testing.T) {
		t.Parallel()
		reporter := exc.NewReporter([]string{exc.CodeUnsupportedValue, exc.CodeInvalidJSON})
		ev, err := New(OptionWithExcReporter(reporter))
		require.NoError(t, err)
		var out bytes.Buffer
		err = ev.Evaluate(context.Background(), []Input{input("a.jsonl", text)}, &out)
		var me MultiException
		require.True(t, errors.As(err, &me))
		require.Len(t, me, 2)
		require.Equal(t, exc.CodeUnsupportedValue, me[0].Code())
		require.Equal(t, exc.CodeInvalidJSON, me[1].Code())
		require.Equal(t, 3, me[1].Location().Line)
		requireJSONLines(t, []string{"[1]", "[2]"}, out.String())
		require.Contains(t, err.Error(), "; ")
	})
}

func TestEvaluateNonFiniteResultsAreNull(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		op       Op
		expected []string
	}{
		{name: "sum overflow", op: OpSum, expected: []string{"null", "1", "1"}},
		{name: "product overflow", op: OpProduct, expected: []string{"null", "1", "3"}},
		{name: "max", op: OpMax, expected: []string{"1e+308", "1", "3"}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			ev, err := New(OptionWithOp(testCase.op))
			require.NoError(t, err)
			var out bytes.Buffer
			err = ev.Evaluate(context.Background(), []Input{input("a", "[1e308, 1e308]\n[1]\n[-1, 3, -1]\n")}, &out)
			require.NoError(t, err)
			requireJSONLines(t, testCase.expected, out.String())
		})
	}
}

func TestEvaluateLongLine(t *testing.T) {
	t.Parallel()

	long := "[" + strings.Repeat("1,", 40000) + "1]"
	require.Greater(t, len(long), 64*1024)
	ev, err := New(OptionWithOp(OpSum))
	require.NoError(t, err)
	var out bytes.Buffer
	err = ev.Evaluate(context.Background(), []Input{input("a", long+"\n[2]\n")}, &out)
	require.NoError(t, err)
	requireJSONLines(t, []string{"40001", "2"}, out.String())
}

func TestEvaluateFatalInputDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	ev, err := New(OptionWithOp(OpSum), OptionWithMaxConcurrency(2))
	require.NoError(t, err)
	var out bytes.Buffer
	err = ev.Evaluate(context.Background(), []Input{
		input("a.jsonl", "[1]\n[2]\n"),
		input("b.jsonl", "[3]\n[true]\n[4]\n"),
		input("c.jsonl", "[5]\n"),
	}, &out)
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Len(t, me, 1)
	require.Equal(t, exc.CodeUnsupportedValue, me[0].Code())
	require.Equal(t, exc.Location{URI: "b.jsonl", Line: 2}, me[0].Location())
	requireJSONLines(t, []string{"1", "2", "3", "5"}, out.String())
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestEvaluateReadFailure(t *testing.T) {
	t.Parallel()

	ev, err := New()
	require.NoError(t, err)
	err = ev.Evaluate(context.Background(), []Input{{URI: "dev", Lines: iter.NewLines(brokenReader{})}}, &bytes.Buffer{})
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeReadFailure, me[0].Code())
	require.Equal(t, "device not ready", me[0].Message())
}

func TestEvaluateOrdersOutputByInput(t *testing.T) {
	t.Parallel()

	inputs := make([]Input, 0, 8)
	for x := 0; x < 8; x = x + 1 {
		inputs = append(inputs, input("in", "["+strings.Repeat("1,", x)+"1]"))
	}
	ev, err := New(OptionWithOp(OpSum), OptionWithMaxConcurrency(3))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, ev.Evaluate(context.Background(), inputs, &out))
	requireJSONLines(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, out.String())
}

func TestEvaluateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ev, err := New()
	require.NoError(t, err)
	var out bytes.Buffer
	err = ev.Evaluate(ctx, []Input{input("a", "[1]\n")}, &out)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, out.String())
}

func TestEvaluateLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ev, err := New(OptionWithLogger(zap.New(core)), OptionWithExcReporter(exc.NewReporter([]string{exc.CodeInvalidJSON})))
	require.NoError(t, err)
	_ = ev.Evaluate(context.Background(), []Input{input("a", "[1]\n{\n")}, &bytes.Buffer{})

	require.Equal(t, 1, logs.FilterMessage("line evaluated").Len())
	rejected := logs.FilterMessage("line rejected").All()
	require.Len(t, rejected, 1)
	require.Equal(t, exc.CodeInvalidJSON, rejected[0].ContextMap()["code"])
	require.Equal(t, int64(2), rejected[0].ContextMap()["line"])
}
