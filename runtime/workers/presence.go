package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-rooms/contract"
	"chat-rooms/domain/event"
	"chat-rooms/repositories"
)

// PresenceSweeper periodically marks users offline when their LastSeen is
// older than the staleness window. Clients flip themselves offline on a
// clean exit; the sweeper covers the ones that vanish without a goodbye.
type PresenceSweeper struct {
	log        *slog.Logger
	users      repositories.IUserRepository
	publisher  contract.Publisher
	interval   time.Duration
	staleAfter time.Duration
}

func NewPresenceSweeper(log *slog.Logger, users repositories.IUserRepository,
	publisher contract.Publisher, interval, staleAfter time.Duration) *PresenceSweeper {
	return &PresenceSweeper{
		log:        log,
		users:      users,
		publisher:  publisher,
		interval:   interval,
		staleAfter: staleAfter,
	}
}

func (w *PresenceSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence sweep")
			return nil
		case <-ticker.C:
			if err := w.Sweep(); err != nil {
				return err
			}
		}
	}
}

func (w *PresenceSweeper) Sweep() error {
	users, err := w.users.List()
	if err != nil {
		return err
	}
	deadline := time.Now().UTC().Add(-w.staleAfter)
	for _, user := range users {
		if !user.IsOnline || user.LastSeen.After(deadline) {
			continue
		}
		// Keep the original LastSeen: the user was last seen then, not now.
		if err := w.users.SetPresence(user.ID, false, user.LastSeen); err != nil {
			w.log.Warn("Presence sweep failed for user", "user", user.ID, "error", err)
			continue
		}
		w.publisher.Publish(event.PresenceChanged{User: user.ID, Online: false})
		w.log.Debug("User swept offline", "user", user.ID)
	}
	return nil
}
