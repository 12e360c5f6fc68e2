package push

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/snackradar/snackradar/internal/model"
)

// CampusTopic returns the notification topic for a campus.
func CampusTopic(campusID string) string {
	return "campus_" + campusID
}

var _ model.PushRegistry = (*Registry)(nil)

// Registry tracks device token membership in notification topics using redis
// sets, one set per topic.
type Registry struct {
	rdb *redis.Client
}

// NewRegistry creates a topic registry over the given redis client.
func NewRegistry(rdb *redis.Client) *Registry {
	return &Registry{rdb: rdb}
}

func topicKey(topic string) string {
	return "topic:" + topic
}

// Subscribe adds a token to a topic.
func (r *Registry) Subscribe(ctx context.Context, token, topic string) error {
	if err := r.rdb.SAdd(ctx, topicKey(topic), token).Err(); err != nil {
		return fmt.Errorf("failed to subscribe token to topic %s: %w", topic, err)
	}
	return nil
}

// Unsubscribe removes a token from a topic.
func (r *Registry) Unsubscribe(ctx context.Context, token, topic string) error {
	if err := r.rdb.SRem(ctx, topicKey(topic), token).Err(); err != nil {
		return fmt.Errorf("failed to unsubscribe token from topic %s: %w", topic, err)
	}
	return nil
}

// TopicTokens returns all tokens subscribed to a topic.
func (r *Registry) TopicTokens(ctx context.Context, topic string) ([]string, error) {
	tokens, err := r.rdb.SMembers(ctx, topicKey(topic)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list topic %s tokens: %w", topic, err)
	}
	return tokens, nil
}
