package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter() func() (int, error) {
	n := 0
	return func() (int, error) {
		n++
		return n, nil
	}
}

func TestNew(t *testing.T) {
	_, err := New(0, counter(), nil)
	assert.Error(t, err)

	failing := errors.New("dial failed")
	_, err = New(2, func() (int, error) { return 0, failing }, nil)
	assert.ErrorIs(t, err, failing)

	p, err := New(3, counter(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Available())
}

func TestNewDiscardsPartialPool(t *testing.T) {
	failing := errors.New("dial failed")
	next := counter()
	factory := func() (int, error) {
		c, _ := next()
		if c == 3 {
			return 0, failing
		}
		return c, nil
	}

	var discarded []int
	_, err := New(4, factory, func(c int) { discarded = append(discarded, c) })
	assert.ErrorIs(t, err, failing)
	assert.Equal(t, []int{1, 2}, discarded)
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	p, err := New(1, counter(), nil)
	require.NoError(t, err)

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, p.Available())

	got := make(chan int)
	go func() {
		c2, err := p.Acquire(context.Background())
		if err == nil {
			got <- c2
		}
	}()

	select {
	case <-got:
		t.Fatal("acquire returned while pool was exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release(c)
	select {
	case c2 := <-got:
		assert.Equal(t, c, c2)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by release")
	}
}

func TestAcquireHonorsContext(t *testing.T) {
	p, err := New(1, counter(), nil)
	require.NoError(t, err)
	_, err = p.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWith(t *testing.T) {
	p, err := New(2, counter(), nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = p.With(context.Background(), func(c int) error {
		assert.Equal(t, 1, p.Available())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, p.Available())
}

func TestClose(t *testing.T) {
	p, err := New(1, counter(), nil)
	require.NoError(t, err)
	_, err = p.Acquire(context.Background())
	require.NoError(t, err)

	errs := make(chan error)
	go func() {
		_, err := p.Acquire(context.Background())
		errs <- err
	}()

	assert.Equal(t, []int{1}, p.Close())
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by close")
	}

	_, err = p.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.Len(t, p.Close(), 1)
}
