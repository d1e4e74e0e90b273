// Package console is the operator I/O collaborator: line input and
// prompt-aware output. Both sides are injectable, so tests script a
// session without a terminal.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"cipherlink/internal/domain"
)

// LineReader reads operator input one line at a time.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps r, typically os.Stdin.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{scanner: bufio.NewScanner(r)}
}

// ReadLine returns the next line without its terminator. io.EOF signals
// the input is exhausted.
func (l *LineReader) ReadLine() (string, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return l.scanner.Text(), nil
}

// Printer writes chat traffic and status lines for the operator,
// serialising the concurrent send and receive duties onto one stream.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter wraps out, typically os.Stdout.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Message prints a decrypted message from the peer.
func (p *Printer) Message(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[peer] %s\n", text)
}

// Status prints a session status line.
func (p *Printer) Status(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Error prints a failure the operator should see.
func (p *Printer) Error(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "error: "+format+"\n", args...)
}

var (
	_ domain.LineReader = (*LineReader)(nil)
	_ domain.Printer    = (*Printer)(nil)
)
