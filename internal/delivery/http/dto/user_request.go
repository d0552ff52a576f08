package dto

// UpdateUserRequest is the body of PUT /user/:id. Every field is optional.
type UpdateUserRequest struct {
	FirstName   *string           `json:"first_name"`
	LastName    *string           `json:"last_name"`
	Phone       *string           `json:"phone"`
	Username    *string           `json:"username"`
	JobTitle    *string           `json:"jobTitle"`
	Pronouns    *string           `json:"pronouns"`
	SocialLinks map[string]string `json:"social_links"`
	Bio         *string           `json:"bio"`
	Department  *string           `json:"department"`
	Language    *string           `json:"language"`
	Timezones   *TimezoneRequest  `json:"timezones"`
}

type TimezoneRequest struct {
	Timezone    string `json:"timezone"`
	GMTOffset   string `json:"gmtOffset"`
	Description string `json:"description"`
}
