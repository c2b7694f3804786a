package events

import (
	"context"
	"encoding/json"
	"log"

	domain "annuity-exchange/internal/domain/events"

	"github.com/redis/go-redis/v9"
)

const DefaultStream = "ledger:events"

// RedisSink publishes events onto a redis stream for off-core consumers.
// Delivery is best-effort: a failed publish is logged, never surfaced to the
// operation that produced the event.
type RedisSink struct {
	rdb    *redis.Client
	stream string
}

func NewRedisSink(rdb *redis.Client, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{rdb: rdb, stream: stream}
}

func (s *RedisSink) Emit(ctx context.Context, e domain.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("event sink: marshal: %v", err)
		return
	}
	err = s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{"event": payload},
	}).Err()
	if err != nil {
		log.Printf("event sink: publish %s: %v", e.Type, err)
	}
}
