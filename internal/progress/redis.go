package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisBroker fans events out over Redis Pub/Sub so a horizontally-scaled
// deployment of vroom watchers can subscribe to a run regardless of which
// process is actually solving it.
type redisBroker struct {
	rdb *redis.Client
}

// NewRedisBroker builds a Broker backed by the Redis instance at url.
func NewRedisBroker(url string) (Broker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &redisBroker{rdb: redis.NewClient(opt)}, nil
}

func (b *redisBroker) Subscribe(runID string) chan Event {
	ch := make(chan Event, 32)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, channelName(runID))
	_, _ = ps.Receive(ctx)
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *redisBroker) Unsubscribe(_ string, ch chan Event) {
	close(ch)
}

func (b *redisBroker) Publish(runID string, evt Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, channelName(runID), data).Err()
}

func channelName(runID string) string { return "vroom:run:" + runID }
