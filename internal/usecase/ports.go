package usecase

import (
	"context"

	"github.com/starcharter/orbits/internal/domain"
)

// RecordRepository is the external repository collaborator. Every
// durable-storage concern lives behind this interface; the usecase
// never probes the concrete adapter's shape.
type RecordRepository interface {
	CreateRecord(ctx context.Context, rec domain.Record) error
	GetRecord(ctx context.Context, repo, collection, rkey string) (*domain.Record, error)
	ListRecords(ctx context.Context, repo, collection string, limit int) ([]domain.Record, error)
	PutRecord(ctx context.Context, rec domain.Record) error
}

// EventPublisher broadcasts record mutations to realtime subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
