package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"user-service/internal/database"
	dbpostgres "user-service/internal/database/postgres"
	"user-service/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const usernameConstraint = "profiles_username_key"

const selectUserByID = `
SELECT
	u.id::text, u.first_name, u.last_name, u.email, u.phone,
	u.is_deleted, u.deleted_at, u.created_at, u.updated_at,
	p.id::text, p.username, p.bio, p.job_title, p.language, p.pronouns, p.department,
	p.social_links, p.timezones, p.avatar_url, p.created_at, p.updated_at
FROM users u
LEFT JOIN profiles p ON p.user_id = u.id
WHERE u.id = $1`

const updateUserColumns = `
UPDATE users SET
	first_name = COALESCE($2::text, first_name),
	last_name = COALESCE($3::text, last_name),
	phone = COALESCE($4::text, phone),
	updated_at = now()
WHERE id = $1`

const upsertProfile = `
INSERT INTO profiles (
	id, user_id, username, bio, job_title, language, pronouns, department,
	social_links, timezones, avatar_url
) VALUES (
	$1, $2, $3::text,
	COALESCE($4::text, ''), COALESCE($5::text, ''), COALESCE($6::text, ''),
	COALESCE($7::text, ''), COALESCE($8::text, ''),
	COALESCE($9::jsonb, '{}'::jsonb), $10::jsonb, COALESCE($11::text, '')
)
ON CONFLICT (user_id) DO UPDATE SET
	username = COALESCE($3::text, profiles.username),
	bio = COALESCE($4::text, profiles.bio),
	job_title = COALESCE($5::text, profiles.job_title),
	language = COALESCE($6::text, profiles.language),
	pronouns = COALESCE($7::text, profiles.pronouns),
	department = COALESCE($8::text, profiles.department),
	social_links = COALESCE($9::jsonb, profiles.social_links),
	timezones = COALESCE($10::jsonb, profiles.timezones),
	avatar_url = COALESCE($11::text, profiles.avatar_url),
	updated_at = now()`

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUserByID, id))
}

// ApplyPatch updates the user row and upserts its profile in one transaction. The
// user update always runs so a missing user is reported even for profile-only patches.
func (r *UserRepository) ApplyPatch(ctx context.Context, id string, patch user.Patch) error {
	return database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx, updateUserColumns, id, patch.FirstName, patch.LastName, patch.Phone)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if n == 0 {
			return user.ErrNotFound
		}

		if !patch.TouchesProfile() {
			return nil
		}

		links, err := marshalNullable(patch.SocialLinks, patch.SocialLinks != nil)
		if err != nil {
			return fmt.Errorf("encode social links: %w", err)
		}
		tz, err := marshalNullable(patch.Timezones, patch.Timezones != nil)
		if err != nil {
			return fmt.Errorf("encode timezones: %w", err)
		}

		_, err = tx.Exec(ctx, upsertProfile,
			uuid.NewString(), id, patch.Username,
			patch.Bio, patch.JobTitle, patch.Language, patch.Pronouns, patch.Department,
			links, tz, patch.AvatarURL,
		)
		if dbpostgres.IsUniqueViolation(err, usernameConstraint) {
			return user.ErrUsernameTaken
		}
		if err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		return nil
	})
}

func marshalNullable(v any, present bool) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}

type profileColumns struct {
	ID          *string
	Username    *string
	Bio         *string
	JobTitle    *string
	Language    *string
	Pronouns    *string
	Department  *string
	SocialLinks []byte
	Timezones   []byte
	AvatarURL   *string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var p profileColumns
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.IsDeleted, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
		&p.ID, &p.Username, &p.Bio, &p.JobTitle, &p.Language, &p.Pronouns, &p.Department,
		&p.SocialLinks, &p.Timezones, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}

	if p.ID == nil {
		return u, nil
	}

	prof := &user.Profile{
		ID:         *p.ID,
		Username:   deref(p.Username),
		Bio:        deref(p.Bio),
		JobTitle:   deref(p.JobTitle),
		Language:   deref(p.Language),
		Pronouns:   deref(p.Pronouns),
		Department: deref(p.Department),
		AvatarURL:  deref(p.AvatarURL),
	}
	if p.CreatedAt != nil {
		prof.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		prof.UpdatedAt = *p.UpdatedAt
	}
	if len(p.SocialLinks) > 0 {
		if err := json.Unmarshal(p.SocialLinks, &prof.SocialLinks); err != nil {
			return user.User{}, fmt.Errorf("decode social links: %w", err)
		}
	}
	if len(p.Timezones) > 0 {
		var tz user.Timezone
		if err := json.Unmarshal(p.Timezones, &tz); err != nil {
			return user.User{}, fmt.Errorf("decode timezones: %w", err)
		}
		prof.Timezones = &tz
	}

	u.Profile = prof
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
