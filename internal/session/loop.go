package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Loop is the terminal front-end for a single session: it reads one line per
// turn and renders both sides of the exchange.
type Loop struct {
	session  *Session
	in       *bufio.Scanner
	out      io.Writer
	greeting string
	provider string
}

func NewLoop(s *Session, in io.Reader, out io.Writer, greeting, provider string) *Loop {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Loop{
		session:  s,
		in:       scanner,
		out:      out,
		greeting: greeting,
		provider: provider,
	}
}

// Run blocks until the input ends or ctx is cancelled, including while it is
// waiting for a line. Remote failures are rendered like any other reply and
// the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	l.render("advisor", l.greeting)

	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		for l.in.Scan() {
			select {
			case lines <- l.in.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = l.in.Err()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(l.out, "you> ")

		var raw string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			return nil
		case raw, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(l.out)
			return scanErr
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fmt.Fprintf(l.out, "Processing request via %s...\n", l.provider)
		reply, err := l.session.Submit(ctx, line)
		if err != nil {
			return fmt.Errorf("submit turn: %w", err)
		}
		l.render("advisor", reply.Content)
	}
}

func (l *Loop) render(who, text string) {
	fmt.Fprintf(l.out, "%s> %s\n\n", who, text)
}
