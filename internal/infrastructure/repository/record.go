// Package repository provides the concrete adapters behind the
// usecase.RecordRepository port.
package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/starcharter/orbits/internal/domain"
	"github.com/starcharter/orbits/internal/infrastructure/database/models"
)

// RecordRepository persists records in Postgres through gorm.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) CreateRecord(ctx context.Context, rec domain.Record) error {
	if r.db == nil {
		return domain.ErrServiceUnavailable
	}

	model, err := toModel(rec)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return errors.Wrap(err, "insert record")
	}
	return nil
}

func (r *RecordRepository) GetRecord(ctx context.Context, repo, collection, rkey string) (*domain.Record, error) {
	if r.db == nil {
		return nil, domain.ErrServiceUnavailable
	}

	var model models.Record
	err := r.db.WithContext(ctx).
		Where("repo = ? AND collection = ? AND rkey = ?", repo, collection, rkey).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError{Resource: "record"}
		}
		return nil, errors.Wrap(err, "select record")
	}

	return fromModel(model)
}

func (r *RecordRepository) ListRecords(ctx context.Context, repo, collection string, limit int) ([]domain.Record, error) {
	if r.db == nil {
		return nil, domain.ErrServiceUnavailable
	}

	var rows []models.Record
	err := r.db.WithContext(ctx).
		Where("repo = ? AND collection = ?", repo, collection).
		Order("c_date ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "select records")
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *RecordRepository) PutRecord(ctx context.Context, rec domain.Record) error {
	if r.db == nil {
		return domain.ErrServiceUnavailable
	}

	value, err := json.Marshal(rec.Value)
	if err != nil {
		return errors.Wrap(err, "marshal record value")
	}

	result := r.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("repo = ? AND collection = ? AND rkey = ?", rec.Repo, rec.Collection, rec.Rkey).
		Updates(map[string]any{
			"cid":   rec.CID,
			"value": string(value),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update record")
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "record"}
	}
	return nil
}

func toModel(rec domain.Record) (models.Record, error) {
	value, err := json.Marshal(rec.Value)
	if err != nil {
		return models.Record{}, errors.Wrap(err, "marshal record value")
	}
	return models.Record{
		Repo:       rec.Repo,
		Collection: rec.Collection,
		Rkey:       rec.Rkey,
		URI:        rec.URI,
		CID:        rec.CID,
		Value:      string(value),
	}, nil
}

func fromModel(model models.Record) (*domain.Record, error) {
	var value map[string]any
	if err := json.Unmarshal([]byte(model.Value), &value); err != nil {
		return nil, errors.Wrap(err, "unmarshal record value")
	}
	return &domain.Record{
		Repo:       model.Repo,
		Collection: model.Collection,
		Rkey:       model.Rkey,
		URI:        model.URI,
		CID:        model.CID,
		Value:      value,
	}, nil
}
