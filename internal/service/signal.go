package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/starcharter/orbits/internal/domain"
)

const signalChannel = "orbits:events"

// Stream fans record events out to realtime subscribers.
type Stream interface {
	Publish(ctx context.Context, event domain.Event) error
	Subscribe(ctx context.Context) (<-chan domain.Event, func())
}

// SignalService broadcasts record events through redis pub/sub so
// subscribers on any node of the deployment see them.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, signalChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

func (s *SignalService) Subscribe(ctx context.Context) (<-chan domain.Event, func()) {
	sub := s.rdb.Subscribe(ctx, signalChannel)
	out := make(chan domain.Event, 16)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event domain.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.WarnContext(
						ctx, "dropping malformed event",
						slog.String("error", err.Error()),
					)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cancel := func() {
		sub.Close()
	}
	return out, cancel
}
