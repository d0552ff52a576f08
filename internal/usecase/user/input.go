package user

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"user-service/internal/domain/user"
	"user-service/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// UpdateProfileInput is a partial update. Nil pointers and a nil SocialLinks map
// leave the stored value untouched.
type UpdateProfileInput struct {
	FirstName   *string           `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName    *string           `json:"last_name" validate:"omitnil,min=1,max=100"`
	Phone       *string           `json:"phone" validate:"omitnil,e164"`
	Username    *string           `json:"username" validate:"omitnil,username"`
	Bio         *string           `json:"bio" validate:"omitnil,max=500"`
	JobTitle    *string           `json:"jobTitle" validate:"omitnil,max=100"`
	Language    *string           `json:"language" validate:"omitnil,max=35"`
	Pronouns    *string           `json:"pronouns" validate:"omitnil,max=40"`
	Department  *string           `json:"department" validate:"omitnil,max=100"`
	SocialLinks map[string]string `json:"social_links" validate:"omitempty,max=20,dive,keys,min=1,max=32,endkeys,http_url"`
	Timezones   *TimezoneInput    `json:"timezones"`
}

type TimezoneInput struct {
	Timezone    string `json:"timezone" validate:"required,timezone"`
	GMTOffset   string `json:"gmtOffset" validate:"omitempty,max=10"`
	Description string `json:"description" validate:"omitempty,max=100"`
}

func (in UpdateProfileInput) toPatch() user.Patch {
	p := user.Patch{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Username:    in.Username,
		Bio:         in.Bio,
		JobTitle:    in.JobTitle,
		Language:    in.Language,
		Pronouns:    in.Pronouns,
		Department:  in.Department,
		SocialLinks: in.SocialLinks,
	}
	if in.Timezones != nil {
		p.Timezones = &user.Timezone{
			Timezone:    in.Timezones.Timezone,
			GMTOffset:   in.Timezones.GMTOffset,
			Description: in.Timezones.Description,
		}
	}
	return p
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)

type inputValidator struct {
	v      *validator.Validate
	policy *bluemonday.Policy
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	return &inputValidator{v: v, policy: bluemonday.StrictPolicy()}
}

// normalize trims every text field and strips markup from free text. Social link keys
// are case-insensitive; two keys that fold to the same platform are rejected.
func (iv *inputValidator) normalize(in UpdateProfileInput) (UpdateProfileInput, error) {
	in.FirstName = iv.clean(in.FirstName)
	in.LastName = iv.clean(in.LastName)
	in.Phone = trim(in.Phone)
	in.Username = trim(in.Username)
	in.Bio = iv.clean(in.Bio)
	in.JobTitle = iv.clean(in.JobTitle)
	in.Language = trim(in.Language)
	in.Pronouns = iv.clean(in.Pronouns)
	in.Department = iv.clean(in.Department)

	if in.SocialLinks != nil {
		links := make(map[string]string, len(in.SocialLinks))
		for k, v := range in.SocialLinks {
			key := strings.ToLower(strings.TrimSpace(k))
			if _, dup := links[key]; dup {
				return in, apperror.BadRequest("Duplicate social_links entry for " + key).
					WithData(map[string]any{"fields": []string{"social_links[" + key + "]"}})
			}
			links[key] = strings.TrimSpace(v)
		}
		in.SocialLinks = links
	}
	if in.Timezones != nil {
		tz := *in.Timezones
		tz.Timezone = strings.TrimSpace(tz.Timezone)
		tz.GMTOffset = strings.TrimSpace(tz.GMTOffset)
		tz.Description = iv.policy.Sanitize(strings.TrimSpace(tz.Description))
		in.Timezones = &tz
	}
	return in, nil
}

func (iv *inputValidator) check(in UpdateProfileInput) error {
	err := iv.v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		fields := make([]string, 0, len(fieldErrs))
		for _, f := range fieldErrs {
			fields = append(fields, fieldName(f))
		}
		return apperror.BadRequest(fmt.Sprintf("Invalid value for %s", fieldName(fe))).
			WithData(map[string]any{"fields": fields}).
			WithCause(err)
	}
	return apperror.BadRequest("Invalid request payload").WithCause(err)
}

// fieldName drops the struct prefix from the namespace: "UpdateProfileInput.timezones.timezone"
// becomes "timezones.timezone".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func (iv *inputValidator) clean(s *string) *string {
	if s == nil {
		return nil
	}
	out := strings.TrimSpace(iv.policy.Sanitize(*s))
	return &out
}

func trim(s *string) *string {
	if s == nil {
		return nil
	}
	out := strings.TrimSpace(*s)
	return &out
}
