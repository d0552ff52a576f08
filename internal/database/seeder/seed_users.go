package seeder

import (
	"context"
	"encoding/json"
	"time"

	"user-service/internal/database"
	"user-service/internal/domain/user"
)

// Fixed ids so local tokens minted with cmd/devtoken keep working across reseeds.
const (
	DemoUserID        = "6f1c9a52-7a0e-4d43-9d57-2f3f3b8f6c10"
	DemoDeletedUserID = "0b4a2f6e-52c1-4b1e-8d7e-5a9c3d2e1f00"
	demoProfileID     = "a3d1c4e7-1f2b-4c5d-9e8f-7a6b5c4d3e21"
)

type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "demo_users" }

func (DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "first_name", "last_name", "email", "is_deleted", "deleted_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "profiles", "id", "user_id", "username", "social_links", "timezones"); err != nil {
		return err
	}

	links, err := json.Marshal(map[string]string{
		"github":   "https://github.com/ada",
		"linkedin": "https://www.linkedin.com/in/ada",
	})
	if err != nil {
		return err
	}
	tz, err := json.Marshal(user.Timezone{Timezone: "Europe/London", GMTOffset: "+00:00", Description: "London"})
	if err != nil {
		return err
	}
	deletedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return database.WithinTx(ctx, db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `
INSERT INTO users (id, first_name, last_name, email, phone)
VALUES ($1, 'Ada', 'Lovelace', 'ada@example.com', '+441234567890')
ON CONFLICT (id) DO NOTHING`, DemoUserID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
INSERT INTO profiles (id, user_id, username, bio, job_title, language, pronouns, department, social_links, timezones)
VALUES ($1, $2, 'ada', 'First programmer.', 'Engineer', 'en', 'she/her', 'Research', $3, $4)
ON CONFLICT (user_id) DO NOTHING`, demoProfileID, DemoUserID, links, tz); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
INSERT INTO users (id, first_name, last_name, email, is_deleted, deleted_at)
VALUES ($1, 'Gone', 'User', 'gone@example.com', true, $2)
ON CONFLICT (id) DO NOTHING`, DemoDeletedUserID, deletedAt)
		return err
	})
}
