package usecase

import (
	"context"
	"mime/multipart"

	"user-service/internal/domain/user"
	ucuser "user-service/internal/usecase/user"
)

// UserService is what the HTTP layer needs from the user use cases.
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
	UpdateUserProfile(ctx context.Context, id string, in ucuser.UpdateProfileInput, file *multipart.FileHeader) (*user.User, error)
}

var _ UserService = (*ucuser.Service)(nil)
