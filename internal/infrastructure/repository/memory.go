package repository

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/starcharter/orbits/internal/domain"
)

const tblRecords = "records"

var memorySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblRecords: {
			Name: tblRecords,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Repo"},
							&memdb.StringFieldIndex{Field: "Collection"},
							&memdb.StringFieldIndex{Field: "Rkey"},
						},
					},
				},
				"list": {
					Name:   "list",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Repo"},
							&memdb.StringFieldIndex{Field: "Collection"},
							&memdb.UintFieldIndex{Field: "Seq"},
						},
					},
				},
			},
		},
	},
}

// memoryRecord is the stored row. Value is kept serialized so callers
// never alias the stored map.
type memoryRecord struct {
	Repo       string
	Collection string
	Rkey       string
	URI        string
	CID        string
	Value      string
	Seq        uint64
}

// MemoryRecordRepository is an in-memory adapter for the record
// repository port, used in mock mode and in tests. Iteration over the
// list index follows insertion order.
type MemoryRecordRepository struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

func NewMemoryRecordRepository() (*MemoryRecordRepository, error) {
	db, err := memdb.NewMemDB(memorySchema)
	if err != nil {
		return nil, errors.Wrap(err, "new memdb")
	}
	return &MemoryRecordRepository{db: db}, nil
}

func (r *MemoryRecordRepository) CreateRecord(ctx context.Context, rec domain.Record) error {
	value, err := json.Marshal(rec.Value)
	if err != nil {
		return errors.Wrap(err, "marshal record value")
	}

	txn := r.db.Txn(true)
	defer txn.Abort()

	row := &memoryRecord{
		Repo:       rec.Repo,
		Collection: rec.Collection,
		Rkey:       rec.Rkey,
		URI:        rec.URI,
		CID:        rec.CID,
		Value:      string(value),
		Seq:        r.seq.Add(1),
	}

	if err := txn.Insert(tblRecords, row); err != nil {
		return errors.Wrap(err, "insert record")
	}

	txn.Commit()
	return nil
}

func (r *MemoryRecordRepository) GetRecord(ctx context.Context, repo, collection, rkey string) (*domain.Record, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblRecords, "id", repo, collection, rkey)
	if err != nil {
		return nil, errors.Wrap(err, "lookup record")
	}
	if raw == nil {
		return nil, domain.NotFoundError{Resource: "record"}
	}

	return fromMemory(raw.(*memoryRecord))
}

func (r *MemoryRecordRepository) ListRecords(ctx context.Context, repo, collection string, limit int) ([]domain.Record, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblRecords, "list_prefix", repo, collection)
	if err != nil {
		return nil, errors.Wrap(err, "iterate records")
	}

	records := make([]domain.Record, 0, limit)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if len(records) >= limit {
			break
		}
		rec, err := fromMemory(raw.(*memoryRecord))
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, nil
}

func (r *MemoryRecordRepository) PutRecord(ctx context.Context, rec domain.Record) error {
	value, err := json.Marshal(rec.Value)
	if err != nil {
		return errors.Wrap(err, "marshal record value")
	}

	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblRecords, "id", rec.Repo, rec.Collection, rec.Rkey)
	if err != nil {
		return errors.Wrap(err, "lookup record")
	}
	if raw == nil {
		return domain.NotFoundError{Resource: "record"}
	}
	existing := raw.(*memoryRecord)

	row := &memoryRecord{
		Repo:       rec.Repo,
		Collection: rec.Collection,
		Rkey:       rec.Rkey,
		URI:        existing.URI,
		CID:        rec.CID,
		Value:      string(value),
		Seq:        existing.Seq,
	}

	if err := txn.Insert(tblRecords, row); err != nil {
		return errors.Wrap(err, "replace record")
	}

	txn.Commit()
	return nil
}

func fromMemory(row *memoryRecord) (*domain.Record, error) {
	var value map[string]any
	if err := json.Unmarshal([]byte(row.Value), &value); err != nil {
		return nil, errors.Wrap(err, "unmarshal record value")
	}
	return &domain.Record{
		Repo:       row.Repo,
		Collection: row.Collection,
		Rkey:       row.Rkey,
		URI:        row.URI,
		CID:        row.CID,
		Value:      value,
	}, nil
}
