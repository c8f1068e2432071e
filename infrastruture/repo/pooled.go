package repo

import (
	"context"
	"errors"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/beka-birhanu/vinom-roads/infrastruture/pool"
	"github.com/beka-birhanu/vinom-roads/service/i"
)

// PooledRepo spreads calls over a bounded set of repository connections.
// A call blocks while every connection is busy.
type PooledRepo struct {
	pool *pool.Pool[i.RetiredRepo]
}

// NewPooledRepo opens size connections with dial. When a dial fails, the
// connections already opened are closed.
func NewPooledRepo(size int, dial func() (i.RetiredRepo, error)) (*PooledRepo, error) {
	p, err := pool.New(size, dial, func(conn i.RetiredRepo) {
		_ = conn.Close(context.Background())
	})
	if err != nil {
		return nil, err
	}
	return &PooledRepo{pool: p}, nil
}

// WriteRetired saves records on a pooled connection.
func (r *PooledRepo) WriteRetired(ctx context.Context, records []domain.RetiredPlayer) error {
	return r.SaveRetired(ctx, records)
}

// SaveRetired saves records on a pooled connection.
func (r *PooledRepo) SaveRetired(ctx context.Context, records []domain.RetiredPlayer) error {
	return r.pool.With(ctx, func(conn i.RetiredRepo) error {
		return conn.SaveRetired(ctx, records)
	})
}

// Retired reads a ranking page on a pooled connection.
func (r *PooledRepo) Retired(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error) {
	var out []domain.RetiredPlayer
	err := r.pool.With(ctx, func(conn i.RetiredRepo) error {
		var err error
		out, err = conn.Retired(ctx, start, maxItems)
		return err
	})
	return out, err
}

// Close closes every connection of the pool.
func (r *PooledRepo) Close(ctx context.Context) error {
	var errs []error
	for _, conn := range r.pool.Close() {
		if err := conn.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
