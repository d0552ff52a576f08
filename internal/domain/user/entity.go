package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	DeletedAt *time.Time `json:"deletedAt"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Profile   *Profile   `json:"profile"`
}

// IsSoftDeleted reports whether either deletion marker is set. The two markers are
// kept in sync by writers but neither is assumed authoritative.
func (u *User) IsSoftDeleted() bool {
	if u == nil {
		return false
	}
	return u.DeletedAt != nil || u.IsDeleted
}

type Profile struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Bio         string            `json:"bio"`
	JobTitle    string            `json:"job_title"`
	Language    string            `json:"language"`
	Pronouns    string            `json:"pronouns"`
	Department  string            `json:"department"`
	SocialLinks map[string]string `json:"social_links"`
	Timezones   *Timezone         `json:"timezones"`
	AvatarURL   string            `json:"avatar_url"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type Timezone struct {
	Timezone    string `json:"timezone"`
	GMTOffset   string `json:"gmtOffset"`
	Description string `json:"description"`
}

// IsValidID reports whether id is a UUID in canonical 8-4-4-4-12 form.
func IsValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	return uuid.Validate(id) == nil
}
