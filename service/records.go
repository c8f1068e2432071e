package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/beka-birhanu/vinom-roads/service/i"
)

// MaxRecordsPage is the largest page Records hands out.
const MaxRecordsPage = 100

var ErrInvalidArgument = errors.New("invalid argument")

// RecordsService serves the retired players ranking.
type RecordsService struct {
	repo   i.RetiredRepo
	logger i.Logger
}

// NewRecordsService creates a RecordsService reading from repo.
func NewRecordsService(repo i.RetiredRepo, logger i.Logger) *RecordsService {
	return &RecordsService{repo: repo, logger: logger}
}

// Records returns up to maxItems retired players starting at start, best first.
func (s *RecordsService) Records(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: start must not be negative", ErrInvalidArgument)
	}
	if maxItems <= 0 || maxItems > MaxRecordsPage {
		return nil, fmt.Errorf("%w: maxItems must be in 1..%d", ErrInvalidArgument, MaxRecordsPage)
	}

	records, err := s.repo.Retired(ctx, start, maxItems)
	if err != nil {
		s.logger.Error(fmt.Sprintf("reading records: %s", err))
		return nil, err
	}
	return records, nil
}
