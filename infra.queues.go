package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Predefinied Queue IDs.
const (
	ArchiveQueue = "orders.archive"
)

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of accepted order records.
type Queuer interface {
	Push(ctx context.Context, qid string, record OrderRecord) error
	Pop(ctx context.Context, qids ...string) (string, OrderRecord, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues an order record onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, record OrderRecord) error {
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, recordBytes).Err()
}

// Pop returns the first dequeued order record from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, OrderRecord, error) {
	var record OrderRecord
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, record, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &record); err != nil {
		return qid, record, err
	}
	qid = infos[0]
	return qid, record, nil
}
