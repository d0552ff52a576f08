package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"user-service/internal/delivery/http/dto"
	"user-service/internal/delivery/http/middleware"
	"user-service/internal/domain/user"
	"user-service/internal/pkg/apperror"
	"user-service/internal/pkg/response"
	"user-service/internal/usecase"
	useruc "user-service/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

const (
	MessageMissingUserID = "Unauthorized! User Id not found"
	MessageInvalidUserID = "Unauthorized! Invalid User Id Format"
	MessageUserNotFound  = "User not found!"
	MessageInvalidBody   = "Invalid request payload"

	MessageProfileFetched = "User profile retrieved successfully"
	MessageProfileUpdated = "User profile updated successfully"

	formFileProfilePicture = "profile_picture"
)

type UserHandler struct {
	users usecase.UserService
}

func NewUserHandler(users usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile serves GET /users/me for the authenticated caller.
func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || strings.TrimSpace(identity.ID) == "" {
		return apperror.BadRequest(MessageMissingUserID)
	}
	if !user.IsValidID(identity.ID) {
		return apperror.BadRequest(MessageInvalidUserID)
	}

	u, err := h.users.GetUserByID(c.Context(), identity.ID)
	if errors.Is(err, user.ErrNotFound) {
		return apperror.ResourceNotFound(MessageUserNotFound)
	}
	if err != nil {
		return err
	}
	if u == nil || u.IsSoftDeleted() {
		return apperror.ResourceNotFound(MessageUserNotFound)
	}

	return response.Success(c, fiber.StatusOK, MessageProfileFetched, dto.NewProfileResponse(u))
}

// UpdateUser serves PUT /user/:id. Id format, existence and payload rules belong to
// the service; this only decodes the request.
func (h *UserHandler) UpdateUser(c fiber.Ctx) error {
	req, file, err := decodeUpdateRequest(c)
	if err != nil {
		return err
	}

	updated, err := h.users.UpdateUserProfile(c.Context(), c.Params("id"), toUpdateInput(req), file)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, MessageProfileUpdated, updated)
}

func decodeUpdateRequest(c fiber.Ctx) (dto.UpdateUserRequest, *multipart.FileHeader, error) {
	var req dto.UpdateUserRequest

	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return req, nil, apperror.BadRequest(MessageInvalidBody).WithCause(err)
		}
		if err := decodeForm(form, &req); err != nil {
			return req, nil, err
		}
		var file *multipart.FileHeader
		if files := form.File[formFileProfilePicture]; len(files) > 0 {
			file = files[0]
		}
		return req, file, nil
	}

	if len(c.Body()) == 0 {
		return req, nil, nil
	}
	if err := c.Bind().JSON(&req); err != nil {
		return req, nil, apperror.BadRequest(MessageInvalidBody).WithCause(err)
	}
	return req, nil, nil
}

// decodeForm maps multipart values onto the request. Map and object fields arrive as
// JSON-encoded strings.
func decodeForm(form *multipart.Form, req *dto.UpdateUserRequest) error {
	value := func(key string) *string {
		vs, ok := form.Value[key]
		if !ok || len(vs) == 0 {
			return nil
		}
		v := vs[0]
		return &v
	}

	req.FirstName = value("first_name")
	req.LastName = value("last_name")
	req.Phone = value("phone")
	req.Username = value("username")
	req.JobTitle = value("jobTitle")
	req.Pronouns = value("pronouns")
	req.Bio = value("bio")
	req.Department = value("department")
	req.Language = value("language")

	if raw := value("social_links"); raw != nil && strings.TrimSpace(*raw) != "" {
		if err := json.Unmarshal([]byte(*raw), &req.SocialLinks); err != nil {
			return apperror.BadRequest("Invalid value for social_links").WithCause(err)
		}
	}
	if raw := value("timezones"); raw != nil && strings.TrimSpace(*raw) != "" {
		var tz dto.TimezoneRequest
		if err := json.Unmarshal([]byte(*raw), &tz); err != nil {
			return apperror.BadRequest("Invalid value for timezones").WithCause(err)
		}
		req.Timezones = &tz
	}
	return nil
}

func toUpdateInput(req dto.UpdateUserRequest) useruc.UpdateProfileInput {
	in := useruc.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Username:    req.Username,
		Bio:         req.Bio,
		JobTitle:    req.JobTitle,
		Language:    req.Language,
		Pronouns:    req.Pronouns,
		Department:  req.Department,
		SocialLinks: req.SocialLinks,
	}
	if req.Timezones != nil {
		in.Timezones = &useruc.TimezoneInput{
			Timezone:    req.Timezones.Timezone,
			GMTOffset:   req.Timezones.GMTOffset,
			Description: req.Timezones.Description,
		}
	}
	return in
}
