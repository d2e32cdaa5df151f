// Package gate bounds how many moles may be up at the same time.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var ErrInvalidCapacity = errors.New("gate: invalid capacity")

// Gate is a counting semaphore with observable occupancy.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	held     atomic.Int64
	peak     atomic.Int64
}

func New(capacity int) (*Gate, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}, nil
}

// Acquire blocks until a permit is free or ctx is done.
// On error no permit is held.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.track()
	return nil
}

// TryAcquire takes a permit without blocking.
func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.track()
	return true
}

// Release returns a permit taken by Acquire or TryAcquire.
func (g *Gate) Release() {
	if g.held.Add(-1) < 0 {
		panic("gate: release without matching acquire")
	}
	g.sem.Release(1)
}

func (g *Gate) Capacity() int {
	return int(g.capacity)
}

// Held is the number of permits currently out.
func (g *Gate) Held() int {
	return int(g.held.Load())
}

// Peak is the highest Held value observed since construction.
func (g *Gate) Peak() int {
	return int(g.peak.Load())
}

func (g *Gate) track() {
	n := g.held.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			return
		}
	}
}
