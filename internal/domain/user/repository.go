package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Patch lists the fields an update may touch. Nil means "leave as is".
type Patch struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Username    *string
	Bio         *string
	JobTitle    *string
	Language    *string
	Pronouns    *string
	Department  *string
	SocialLinks map[string]string
	Timezones   *Timezone
	AvatarURL   *string
}

func (p Patch) TouchesUser() bool {
	return p.FirstName != nil || p.LastName != nil || p.Phone != nil
}

func (p Patch) TouchesProfile() bool {
	return p.Username != nil || p.Bio != nil || p.JobTitle != nil || p.Language != nil ||
		p.Pronouns != nil || p.Department != nil || p.SocialLinks != nil ||
		p.Timezones != nil || p.AvatarURL != nil
}

type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	ApplyPatch(ctx context.Context, id string, patch Patch) error
}
