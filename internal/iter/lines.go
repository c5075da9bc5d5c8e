// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"io"

	"gopkg.microglot.org/maybe.go/optional"
)

// MaxLineSize bounds a single line read by NewLines. Longer lines fail the
// iterator with bufio.ErrTooLong.
const MaxLineSize = 64 << 20

// NewLines converts a reader into an iterator of lines without their line
// endings. If r is also an io.Closer it is closed by Close.
func NewLines(r io.Reader) Iterator[string] {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	scanner.Split(bufio.ScanLines)
	l := &lines{scanner: scanner}
	if rc, ok := r.(io.Closer); ok {
		l.closer = rc
	}
	return l
}

type lines struct {
	closer  io.Closer
	scanner *bufio.Scanner
	ctxErr  error
}

func (l *lines) Next(ctx context.Context) optional.Optional[string] {
	if err := ctx.Err(); err != nil {
		l.ctxErr = err
		return optional.None[string]()
	}
	if !l.scanner.Scan() {
		return optional.None[string]()
	}
	return optional.Some(l.scanner.Text())
}

// Close reports a read failure or a cancellation observed by Next.
func (l *lines) Close(context.Context) error {
	if l.closer != nil {
		_ = l.closer.Close()
	}
	if err := l.scanner.Err(); err != nil {
		return err
	}
	return l.ctxErr
}
