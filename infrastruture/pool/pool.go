// Package pool provides a bounded pool of reusable connections.
//
// Acquire blocks while every connection is in use; Release hands a connection
// back and wakes one waiting caller.
package pool

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("pool closed")

// Pool is a fixed size set of connections of type T.
type Pool[T any] struct {
	conns  chan T
	all    []T
	done   chan struct{}
	closed sync.Once
}

// New creates a pool of size connections built by factory. If factory fails,
// the connections built so far are handed to discard, when it is not nil.
func New[T any](size int, factory func() (T, error), discard func(T)) (*Pool[T], error) {
	if size <= 0 {
		return nil, errors.New("pool size must be positive")
	}

	p := &Pool[T]{
		conns: make(chan T, size),
		done:  make(chan struct{}),
	}
	for n := 0; n < size; n++ {
		c, err := factory()
		if err != nil {
			if discard != nil {
				for _, built := range p.all {
					discard(built)
				}
			}
			return nil, err
		}
		p.all = append(p.all, c)
		p.conns <- c
	}

	return p, nil
}

// Acquire takes a connection, blocking until one is free, ctx is done or the pool is closed.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-p.done:
		return zero, ErrClosed
	default:
	}

	select {
	case c := <-p.conns:
		return c, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.done:
		return zero, ErrClosed
	}
}

// Release returns a connection taken with Acquire.
func (p *Pool[T]) Release(c T) {
	select {
	case p.conns <- c:
	default:
	}
}

// With runs fn with an acquired connection and releases it afterwards.
func (p *Pool[T]) With(ctx context.Context, fn func(T) error) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(c)

	return fn(c)
}

// Available returns the number of idle connections.
func (p *Pool[T]) Available() int {
	return len(p.conns)
}

// Close wakes every waiter with ErrClosed and returns all connections so the
// caller can release them.
func (p *Pool[T]) Close() []T {
	p.closed.Do(func() { close(p.done) })
	return p.all
}
