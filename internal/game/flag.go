package game

import (
	"context"
	"sync/atomic"
)

// Reason records why a round ended.
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonQuit
	ReasonWin
	ReasonCancelled
	ReasonFault
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "running"
	case ReasonQuit:
		return "quit"
	case ReasonWin:
		return "win"
	case ReasonCancelled:
		return "cancelled"
	case ReasonFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Flag is the write-once termination flag. The first Set wins; later calls are
// no-ops. Its context is cancelled by that first Set so blocked workers wake.
type Flag struct {
	reason atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
}

// NewFlag derives the flag from parent; cancelling parent sets ReasonCancelled.
func NewFlag(parent context.Context) *Flag {
	ctx, cancel := context.WithCancel(parent)
	f := &Flag{ctx: ctx, cancel: cancel}
	context.AfterFunc(ctx, func() {
		f.Set(ReasonCancelled)
	})
	return f
}

// Set transitions the flag and reports whether this call did it.
func (f *Flag) Set(reason Reason) bool {
	if reason == ReasonNone {
		return false
	}
	if !f.reason.CompareAndSwap(int32(ReasonNone), int32(reason)) {
		return false
	}
	f.cancel()
	return true
}

func (f *Flag) IsSet() bool {
	return f.reason.Load() != int32(ReasonNone)
}

func (f *Flag) Reason() Reason {
	return Reason(f.reason.Load())
}

func (f *Flag) Done() <-chan struct{} {
	return f.ctx.Done()
}

// Context is cancelled once the flag is set.
func (f *Flag) Context() context.Context {
	return f.ctx
}
