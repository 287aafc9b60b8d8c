package client

import (
	"context"
	"time"

	"spyroom/internal/model"
)

// DefaultPollInterval matches the web client's refetch interval.
const DefaultPollInterval = 2 * time.Second

// Watch polls the room on a fixed interval and delivers each fetched view
// until ctx is cancelled. Fetch errors are skipped; the next tick retries.
// The first fetch happens immediately.
func (c *Client) Watch(ctx context.Context, roomCode string, interval time.Duration) <-chan *model.RoomView {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	out := make(chan *model.RoomView)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if view, err := c.GetRoom(ctx, roomCode); err == nil {
				select {
				case out <- view:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
