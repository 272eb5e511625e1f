package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const feedChannel = "feed:posts"

// RedisFeedBroker implements FeedBroker over redis pub/sub.
type RedisFeedBroker struct {
	client *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
}

func NewRedisFeedBroker(redisURL string) (*RedisFeedBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisFeedBroker{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisFeedBroker) Publish(event PostEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, feedChannel, data).Err()
}

func (r *RedisFeedBroker) Subscribe() (<-chan PostEvent, error) {
	r.pubsub = r.client.Subscribe(r.ctx, feedChannel)

	eventChan := make(chan PostEvent, 100)

	go func() {
		defer close(eventChan)

		for redisMsg := range r.pubsub.Channel() {
			var event PostEvent

			if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
				continue
			}

			eventChan <- event
		}
	}()

	return eventChan, nil
}

func (r *RedisFeedBroker) Close() error {
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	return r.client.Close()
}
