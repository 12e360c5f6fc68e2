package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
)

func profileChannel(id model.Identity) string {
	return "profile:" + string(id)
}

var _ model.ProfilePublisher = (*Publisher)(nil)

// Publisher broadcasts fresh profile documents over redis pub/sub.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a profile publisher over the given redis client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishProfile broadcasts the document to that profile's channel.
func (p *Publisher) PublishProfile(ctx context.Context, profile model.UserProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := p.rdb.Publish(ctx, profileChannel(profile.ID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish profile update: %w", err)
	}
	return nil
}

var _ model.ProfileWatcher = (*Watcher)(nil)

// Watcher implements live profile subscriptions over redis pub/sub.
// Deliveries follow redis channel order; the output channel is closed when
// the subscription is cancelled or the connection drops.
type Watcher struct {
	rdb    *redis.Client
	logger *logger.Logger
}

// NewWatcher creates a profile watcher over the given redis client.
func NewWatcher(rdb *redis.Client, logger *logger.Logger) *Watcher {
	return &Watcher{rdb: rdb, logger: logger}
}

// Watch subscribes to a profile's channel. The cancel func is idempotent.
func (w *Watcher) Watch(ctx context.Context, id model.Identity) (<-chan model.UserProfile, func(), error) {
	sub := w.rdb.Subscribe(ctx, profileChannel(id))

	// Force the subscription onto the wire before returning so updates
	// published right after Watch are not missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to profile channel: %w", err)
	}

	out := make(chan model.UserProfile)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var profile model.UserProfile
			if err := json.Unmarshal([]byte(msg.Payload), &profile); err != nil {
				w.logger.Error("realtime: dropping malformed profile update",
					"identity", id,
					"error", err.Error())
				continue
			}

			select {
			case out <- profile:
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			if err := sub.Close(); err != nil {
				w.logger.Debug("realtime: subscription close", "identity", id, "error", err.Error())
			}
		})
	}

	return out, cancel, nil
}
