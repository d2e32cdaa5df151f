package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("game: invalid config")
	ErrResourceInit  = errors.New("game: resource init failed")
	ErrWorkerPanic   = errors.New("game: worker panic")
	ErrGameOver      = errors.New("game: game over")
)

// PanicError carries a recovered worker panic.
type PanicError struct {
	Worker string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrWorkerPanic, e.Worker, e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrWorkerPanic
}
