package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/starcharter/orbits/internal/domain"
	"github.com/starcharter/orbits/internal/identifier"
	"github.com/starcharter/orbits/internal/lexicon"
)

// CreateOrbitInput is the validated input for creating an orbit record.
type CreateOrbitInput struct {
	Name        string
	Description string
	Feeds       map[string]string
}

// OrbitRef names a record and its current content fingerprint.
type OrbitRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// OrbitView is a record as stored, returned verbatim.
type OrbitView struct {
	URI   string         `json:"uri"`
	CID   string         `json:"cid"`
	Value map[string]any `json:"value"`
}

type OrbitUsecase struct {
	config    domain.Config
	repo      RecordRepository
	validator *lexicon.Validator
	publisher EventPublisher
}

func NewOrbitUsecase(
	config domain.Config,
	repo RecordRepository,
	validator *lexicon.Validator,
	publisher EventPublisher,
) *OrbitUsecase {
	return &OrbitUsecase{
		config:    config,
		repo:      repo,
		validator: validator,
		publisher: publisher,
	}
}

func (uc *OrbitUsecase) Create(ctx context.Context, input CreateOrbitInput) (*OrbitRef, error) {

	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.InvalidRequestError{Detail: "name must not be empty"}
	}

	feeds := map[string]any{}
	for label, uri := range input.Feeds {
		feeds[label] = uri
	}

	value := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"feeds":       feeds,
		"createdAt":   time.Now().UTC().Format(time.RFC3339),
	}

	if err := uc.validator.Validate(domain.NSIDOrbitRecord, value); err != nil {
		return nil, domain.InvalidRequestError{Detail: err.Error()}
	}

	fingerprint, err := identifier.Fingerprint(value)
	if err != nil {
		return nil, errors.Wrap(err, "compute fingerprint")
	}

	rkey := identifier.NewRecordKey()
	uri, err := identifier.MakeURI(uc.config.ServiceDID, domain.NSIDOrbitRecord, rkey)
	if err != nil {
		return nil, errors.Wrap(err, "compose uri")
	}

	rec := domain.Record{
		Repo:       uc.config.ServiceDID,
		Collection: domain.NSIDOrbitRecord,
		Rkey:       rkey,
		URI:        uri.String(),
		CID:        fingerprint.String(),
		Value:      value,
	}

	if err := uc.repo.CreateRecord(ctx, rec); err != nil {
		slog.ErrorContext(
			ctx, "failed to persist record",
			slog.String("operation", "create"),
			slog.String("uri", rec.URI),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, errors.Wrap(err, "create record")
	}

	uc.publish(ctx, domain.Event{Kind: domain.EventKindCreate, URI: rec.URI, CID: rec.CID})

	return &OrbitRef{URI: rec.URI, CID: rec.CID}, nil
}

func (uc *OrbitUsecase) Get(ctx context.Context, rawURI string) (*OrbitView, error) {

	if rawURI == "" {
		return nil, domain.InvalidRequestError{Detail: "uri parameter is required"}
	}

	repo, collection, rkey, err := identifier.ParseURI(rawURI)
	if err != nil {
		return nil, domain.InvalidRequestError{Detail: err.Error()}
	}

	rec, err := uc.repo.GetRecord(ctx, repo, collection, rkey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		slog.ErrorContext(
			ctx, "failed to fetch record",
			slog.String("operation", "get"),
			slog.String("uri", rawURI),
			slog.String("error", err.Error()),
		)
		return nil, errors.Wrap(err, "get record")
	}

	return &OrbitView{URI: rec.URI, CID: rec.CID, Value: rec.Value}, nil
}

func (uc *OrbitUsecase) List(ctx context.Context, limit int) ([]OrbitView, error) {

	if limit <= 0 {
		limit = domain.DefaultListLimit
	}

	records, err := uc.repo.ListRecords(ctx, uc.config.ServiceDID, domain.NSIDOrbitRecord, limit)
	if err != nil {
		slog.ErrorContext(
			ctx, "failed to list records",
			slog.String("operation", "list"),
			slog.String("error", err.Error()),
		)
		return nil, errors.Wrap(err, "list records")
	}

	views := make([]OrbitView, 0, len(records))
	for _, rec := range records {
		views = append(views, OrbitView{URI: rec.URI, CID: rec.CID, Value: rec.Value})
	}

	return views, nil
}

func (uc *OrbitUsecase) Update(ctx context.Context, rawURI string, fields map[string]any) (*OrbitRef, error) {

	if rawURI == "" {
		return nil, domain.InvalidRequestError{Detail: "uri is required"}
	}

	repo, collection, rkey, err := identifier.ParseURI(rawURI)
	if err != nil {
		return nil, domain.InvalidRequestError{Detail: err.Error()}
	}

	existing, err := uc.repo.GetRecord(ctx, repo, collection, rkey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		slog.ErrorContext(
			ctx, "failed to fetch record",
			slog.String("operation", "update"),
			slog.String("uri", rawURI),
			slog.String("error", err.Error()),
		)
		return nil, errors.Wrap(err, "get record for update")
	}

	merged := make(map[string]any, len(existing.Value)+len(fields))
	for k, v := range existing.Value {
		merged[k] = v
	}
	for k, v := range fields {
		switch k {
		case "uri", "createdAt", "updatedAt":
			// uri and timestamps are owned by the service
			continue
		}
		merged[k] = v
	}
	merged["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := uc.validator.Validate(domain.NSIDOrbitRecord, merged); err != nil {
		return nil, domain.InvalidRequestError{Detail: err.Error()}
	}

	fingerprint, err := identifier.Fingerprint(merged)
	if err != nil {
		return nil, errors.Wrap(err, "compute fingerprint")
	}

	rec := domain.Record{
		Repo:       repo,
		Collection: collection,
		Rkey:       rkey,
		URI:        existing.URI,
		CID:        fingerprint.String(),
		Value:      merged,
	}

	if err := uc.repo.PutRecord(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		slog.ErrorContext(
			ctx, "failed to persist record",
			slog.String("operation", "update"),
			slog.String("uri", rec.URI),
			slog.String("error", err.Error()),
		)
		return nil, errors.Wrap(err, "put record")
	}

	uc.publish(ctx, domain.Event{Kind: domain.EventKindUpdate, URI: rec.URI, CID: rec.CID})

	return &OrbitRef{URI: rec.URI, CID: rec.CID}, nil
}

// publish is best effort: a dropped event never fails the mutation.
func (uc *OrbitUsecase) publish(ctx context.Context, event domain.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(
			ctx, "failed to publish event",
			slog.String("uri", event.URI),
			slog.String("error", err.Error()),
		)
	}
}
