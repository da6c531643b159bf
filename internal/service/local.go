package service

import (
	"context"
	"sync"

	"github.com/starcharter/orbits/internal/domain"
)

// LocalSignalService is a process-local Stream for single-node
// deployments without redis. Slow subscribers drop events rather than
// blocking publishers.
type LocalSignalService struct {
	mu   sync.Mutex
	subs map[int]chan domain.Event
	next int
}

func NewLocalSignalService() *LocalSignalService {
	return &LocalSignalService{
		subs: map[int]chan domain.Event{},
	}
}

func (s *LocalSignalService) Publish(ctx context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (s *LocalSignalService) Subscribe(ctx context.Context) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}
