package dto

import "user-service/internal/domain/user"

// ProfileResponse is the public projection of a user and its profile. Profile fields
// are null when the user has no profile.
type ProfileResponse struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	ProfileID   *string           `json:"profile_id"`
	Username    *string           `json:"username"`
	Bio         *string           `json:"bio"`
	JobTitle    *string           `json:"job_title"`
	Language    *string           `json:"language"`
	Pronouns    *string           `json:"pronouns"`
	Department  *string           `json:"department"`
	SocialLinks map[string]string `json:"social_links"`
	Timezones   *user.Timezone    `json:"timezones"`
}

func NewProfileResponse(u *user.User) ProfileResponse {
	res := ProfileResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}

	p := u.Profile
	if p == nil {
		return res
	}
	res.ProfileID = &p.ID
	res.Username = &p.Username
	res.Bio = &p.Bio
	res.JobTitle = &p.JobTitle
	res.Language = &p.Language
	res.Pronouns = &p.Pronouns
	res.Department = &p.Department
	res.SocialLinks = p.SocialLinks
	res.Timezones = p.Timezones
	return res
}
