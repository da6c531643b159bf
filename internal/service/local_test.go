package service

import (
	"context"
	"testing"
	"time"

	"github.com/starcharter/orbits/internal/domain"
)

func TestLocalSignalPublishSubscribe(t *testing.T) {
	stream := NewLocalSignalService()
	ctx := context.Background()

	events, cancel := stream.Subscribe(ctx)
	defer cancel()

	sent := domain.Event{Kind: domain.EventKindCreate, URI: "at://x/y/z", CID: "cid"}
	if err := stream.Publish(ctx, sent); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-events:
		if got != sent {
			t.Fatalf("expected %+v got %+v", sent, got)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event received")
	}
}

func TestLocalSignalCancelStopsDelivery(t *testing.T) {
	stream := NewLocalSignalService()
	ctx := context.Background()

	events, cancel := stream.Subscribe(ctx)
	cancel()

	if _, ok := <-events; ok {
		t.Fatalf("expected channel to be closed after cancel")
	}

	// publishing after cancel must not panic on a closed channel
	if err := stream.Publish(ctx, domain.Event{Kind: domain.EventKindUpdate}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}
