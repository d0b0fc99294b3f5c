package repository

import (
	"context"
)

// RedisDedupStore tracks notified transaction ids across gateway instances.
// SETNX makes check-and-mark a single atomic step on the server.
type RedisDedupStore struct {
	client *RedisClient
	prefix string
}

func NewRedisDedupStore(client *RedisClient) *RedisDedupStore {
	return &RedisDedupStore{client: client, prefix: "notified:"}
}

// CheckAndMark returns true exactly once per (domain, txID). Keys do not
// expire: a transaction id never becomes notifiable again.
func (s *RedisDedupStore) CheckAndMark(ctx context.Context, domain, txID string) (bool, error) {
	key := s.prefix + domain + ":" + txID
	return s.client.Client.SetNX(ctx, key, 1, 0).Result()
}
