package state

import (
	"context"
	"log/slog"
)

// Watch consumes the gateway's task change feed and performs a full
// reload per event. No incremental merging: redundant refetching is
// accepted in exchange for never needing conflict resolution. Blocks
// until the context is cancelled or the feed closes.
func (s *Store) Watch(ctx context.Context) {
	ch, cancel := s.gw.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("reload after task change failed",
					slog.Int64("task_id", ev.TaskID),
					slog.String("error", err.Error()))
			}
		}
	}
}
