package game

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode"
)

// Source yields input tokens one at a time. Next blocks until a token is
// available or ctx is done.
type Source interface {
	Next(ctx context.Context) (rune, error)
}

// Queue is the in-process Source fed by Handle.SubmitInput.
type Queue struct {
	ch   chan rune
	done <-chan struct{}
}

// NewQueue buffers up to size tokens. Submit fails once done is closed.
func NewQueue(size int, done <-chan struct{}) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan rune, size), done: done}
}

// Submit enqueues token, blocking while the buffer is full.
func (q *Queue) Submit(token rune) error {
	select {
	case <-q.done:
		return ErrGameOver
	default:
	}
	select {
	case q.ch <- token:
		return nil
	case <-q.done:
		return ErrGameOver
	}
}

func (q *Queue) Next(ctx context.Context) (rune, error) {
	select {
	case tok := <-q.ch:
		return tok, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Pending is the number of buffered tokens.
func (q *Queue) Pending() int {
	return len(q.ch)
}

// ForwardReader is the listener task for a blocking reader such as stdin. It
// forwards every non-space rune to submit, and submits QuitToken at EOF so the
// round ends when the input closes. It returns when submit reports the game is
// over, when ctx is done between reads, or on a read error. A read already
// blocked in r is not interrupted; callers that need that run it in its own
// goroutine and stop waiting on it.
func ForwardReader(ctx context.Context, r io.Reader, submit func(rune) error) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		tok, _, err := br.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if err := submit(QuitToken); err != nil && !errors.Is(err, ErrGameOver) {
					return err
				}
				return nil
			}
			return err
		}
		if unicode.IsSpace(tok) {
			continue
		}
		if err := submit(tok); err != nil {
			if errors.Is(err, ErrGameOver) {
				return nil
			}
			return err
		}
	}
}
