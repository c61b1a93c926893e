package daemon

import (
	"context"
	"errors"
	"fmt"

	"shortlist/internal/identity"
	"shortlist/internal/logging"
)

// seedTaskTexts are the placeholder tasks created for the bootstrap account
// when the store starts out empty.
var seedTaskTexts = []string{
	"First Task",
	"Second Task",
	"Third Task",
	"Fourth Task",
	"Fifth Task",
	"Sixth Task",
	"Seventh Task",
}

// seed ensures the bootstrap account exists and, when the task table is
// empty, populates it with the placeholder tasks.
func (d *Daemon) seed(ctx context.Context) error {
	username := d.cfg.Auth.SeedUsername

	user, err := d.users.FindByUsername(ctx, username)
	if errors.Is(err, identity.ErrUserNotFound) {
		user, err = d.users.CreateUser(ctx, username, d.cfg.Auth.SeedPassword)
		if err != nil {
			return fmt.Errorf("create seed user %q: %w", username, err)
		}
		d.logger.Info("created seed user", logging.String("username", username))
	} else if err != nil {
		return fmt.Errorf("lookup seed user %q: %w", username, err)
	}

	count, err := d.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, text := range seedTaskTexts {
		if _, err := d.store.Insert(ctx, user.ID, text); err != nil {
			return fmt.Errorf("insert seed task %q: %w", text, err)
		}
	}
	d.logger.Info("seeded placeholder tasks", logging.Int("count", len(seedTaskTexts)))
	return nil
}
