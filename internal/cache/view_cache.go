package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spyroom/internal/model"
)

// ViewCache holds the polled room+players snapshot. Entries live barely
// longer than one client poll tick and every mutation invalidates, so a
// stale read is bounded by the poll interval either way.
type ViewCache interface {
	Get(ctx context.Context, code string) (*model.RoomView, error)
	Set(ctx context.Context, code string, view *model.RoomView) error
	Invalidate(ctx context.Context, code string) error
}

type viewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewViewCache(client *redis.Client) ViewCache {
	return &viewCache{
		client: client,
		ttl:    2 * time.Second, // matches the client poll interval
	}
}

func (c *viewCache) key(code string) string {
	return fmt.Sprintf("room:view:%s", code)
}

func (c *viewCache) Get(ctx context.Context, code string) (*model.RoomView, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var view model.RoomView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *viewCache) Set(ctx context.Context, code string, view *model.RoomView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(code), data, c.ttl).Err()
}

func (c *viewCache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

type noopCache struct{}

// Noop returns a cache that never hits, for the memory store mode and tests.
func Noop() ViewCache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, code string) (*model.RoomView, error) { return nil, nil }
func (noopCache) Set(ctx context.Context, code string, view *model.RoomView) error {
	return nil
}
func (noopCache) Invalidate(ctx context.Context, code string) error { return nil }
