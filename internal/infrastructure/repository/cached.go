package repository

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/starcharter/orbits/internal/domain"
	"github.com/starcharter/orbits/internal/usecase"
)

// CachedRecordRepository is a read-through cache over another record
// repository. Mutations invalidate the cached entry for their key.
type CachedRecordRepository struct {
	inner usecase.RecordRepository
	cache *gocache.Cache
}

func NewCachedRecordRepository(inner usecase.RecordRepository, ttl time.Duration) *CachedRecordRepository {
	return &CachedRecordRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func cacheKey(repo, collection, rkey string) string {
	return repo + "/" + collection + "/" + rkey
}

func (r *CachedRecordRepository) CreateRecord(ctx context.Context, rec domain.Record) error {
	if err := r.inner.CreateRecord(ctx, rec); err != nil {
		return err
	}
	r.cache.Delete(cacheKey(rec.Repo, rec.Collection, rec.Rkey))
	return nil
}

func (r *CachedRecordRepository) GetRecord(ctx context.Context, repo, collection, rkey string) (*domain.Record, error) {
	key := cacheKey(repo, collection, rkey)

	if cached, ok := r.cache.Get(key); ok {
		rec := cached.(domain.Record)
		return &rec, nil
	}

	rec, err := r.inner.GetRecord(ctx, repo, collection, rkey)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, *rec, gocache.DefaultExpiration)
	return rec, nil
}

func (r *CachedRecordRepository) ListRecords(ctx context.Context, repo, collection string, limit int) ([]domain.Record, error) {
	return r.inner.ListRecords(ctx, repo, collection, limit)
}

func (r *CachedRecordRepository) PutRecord(ctx context.Context, rec domain.Record) error {
	if err := r.inner.PutRecord(ctx, rec); err != nil {
		return err
	}
	r.cache.Delete(cacheKey(rec.Repo, rec.Collection, rec.Rkey))
	return nil
}
