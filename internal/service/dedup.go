package service

import (
	"context"
	"sync"
)

// DedupStore remembers which (domain, transaction id) pairs already
// produced a notification.
type DedupStore interface {
	// CheckAndMark atomically records the pair and reports whether this
	// call was the first occurrence. An implementation must not suspend
	// between the check and the mark.
	CheckAndMark(ctx context.Context, domain, txID string) (bool, error)
}

// InMemDedupStore 进程内实现。重启丢失记录是可接受的：重复通知只是浪费，
// 不会破坏状态。
type InMemDedupStore struct {
	mu       sync.Mutex
	notified map[string]struct{}
}

func NewInMemDedupStore() *InMemDedupStore {
	return &InMemDedupStore{notified: make(map[string]struct{})}
}

func (s *InMemDedupStore) CheckAndMark(_ context.Context, domain, txID string) (bool, error) {
	key := domain + ":" + txID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.notified[key]; seen {
		return false, nil
	}
	s.notified[key] = struct{}{}
	return true, nil
}
