package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// SizeSource reports a user's total stored bytes, typically the file repo.
type SizeSource interface {
	SumFileSizes(ctx context.Context, userId uuid.UUID) (int64, error)
}

// Usage is one user's storage snapshot.
type Usage struct {
	UsedBytes  int64
	LimitBytes int64
}

func (u Usage) PercentUsed() float64 {
	if u.LimitBytes == 0 {
		return 0
	}
	return float64(u.UsedBytes) / float64(u.LimitBytes) * 100
}

// UsageService computes per-user storage totals against the configured
// quota. Snapshots are cached briefly; usage questions tolerate slight
// staleness and the sum query scans every file row.
type UsageService struct {
	source SizeSource
	quota  int64
	cache  *gocache.Cache
}

func NewUsageService(source SizeSource, quotaBytes int64) *UsageService {
	return &UsageService{
		source: source,
		quota:  quotaBytes,
		cache:  gocache.New(60*time.Second, 5*time.Minute),
	}
}

func (s *UsageService) Usage(ctx context.Context, userId uuid.UUID) (Usage, error) {
	if cached, found := s.cache.Get(userId.String()); found {
		return cached.(Usage), nil
	}

	used, err := s.source.SumFileSizes(ctx, userId)
	if err != nil {
		return Usage{}, err
	}

	usage := Usage{UsedBytes: used, LimitBytes: s.quota}
	s.cache.Set(userId.String(), usage, gocache.DefaultExpiration)
	return usage, nil
}

// Invalidate drops a user's cached snapshot after a mutation.
func (s *UsageService) Invalidate(userId uuid.UUID) {
	s.cache.Delete(userId.String())
}
