package user

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"user-service/internal/domain/user"
	"user-service/internal/infrastructure/storage"
	"user-service/internal/pkg/apperror"

	"go.uber.org/zap"
)

const (
	MessageInvalidUserID = "Invalid User Id Format"
	MessageUserNotFound  = "User not found!"
	MessageUsernameTaken = "Username already taken"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type FileStore interface {
	SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, url string) error
}

type Service struct {
	users    user.Repository
	cache    Cache
	files    FileStore
	validate *inputValidator
	logger   *zap.Logger
	cacheTTL time.Duration
}

type Option func(*Service)

func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithFileStore(fs FileStore) Option {
	return func(s *Service) { s.files = fs }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(users user.Repository, opts ...Option) *Service {
	s := &Service{
		users:    users,
		validate: newInputValidator(),
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func cacheKey(id string) string { return "user:" + id }

// GetUserByID returns the stored user, soft-deleted or not. Absent users yield
// user.ErrNotFound. Cache problems are logged and otherwise ignored.
func (s *Service) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	if s.cache != nil {
		var cached user.User
		ok, err := s.cache.GetJSON(ctx, cacheKey(id), &cached)
		if err != nil {
			s.logger.Debug("user cache read failed", zap.String("user_id", id), zap.Error(err))
		}
		if ok {
			return &cached, nil
		}
	}

	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey(id), u, s.cacheTTL); err != nil {
			s.logger.Debug("user cache write failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return &u, nil
}

// UpdateUserProfile validates and applies a partial update, optionally storing a new
// profile picture, and returns the record as persisted.
func (s *Service) UpdateUserProfile(ctx context.Context, id string, in UpdateProfileInput, file *multipart.FileHeader) (*user.User, error) {
	if !user.IsValidID(id) {
		return nil, apperror.BadRequest(MessageInvalidUserID)
	}

	current, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) || err == nil && current.IsSoftDeleted() {
		return nil, apperror.ResourceNotFound(MessageUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	var previousAvatar string
	if current.Profile != nil {
		previousAvatar = current.Profile.AvatarURL
	}

	in, err = s.validate.normalize(in)
	if err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	patch := in.toPatch()
	if file != nil {
		if s.files == nil {
			return nil, apperror.BadRequest("File uploads are not enabled")
		}
		url, err := s.files.SaveImage(ctx, file)
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return nil, apperror.BadRequest("Profile picture is too large").WithCause(err)
		case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmptyFile):
			return nil, apperror.BadRequest("Profile picture must be a JPEG, PNG, GIF or WebP image").WithCause(err)
		case err != nil:
			return nil, fmt.Errorf("store profile picture: %w", err)
		}
		patch.AvatarURL = &url
	}

	err = s.users.ApplyPatch(ctx, id, patch)
	if err != nil && patch.AvatarURL != nil {
		s.removeUpload(ctx, id, *patch.AvatarURL)
	}
	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		return nil, apperror.BadRequest(MessageUsernameTaken).WithCause(err)
	case errors.Is(err, user.ErrNotFound):
		return nil, apperror.ResourceNotFound(MessageUserNotFound)
	case err != nil:
		return nil, fmt.Errorf("apply profile patch: %w", err)
	}

	if patch.AvatarURL != nil && previousAvatar != "" && previousAvatar != *patch.AvatarURL {
		s.removeUpload(ctx, id, previousAvatar)
	}

	s.invalidate(ctx, id)
	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	// A concurrent read may have refilled the key with the pre-update row.
	s.invalidate(ctx, id)
	return &updated, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("user cache invalidation failed", zap.String("user_id", id), zap.Error(err))
	}
}

// removeUpload is best effort; a leftover file is logged, never surfaced.
func (s *Service) removeUpload(ctx context.Context, id, url string) {
	if s.files == nil {
		return
	}
	if err := s.files.Remove(context.WithoutCancel(ctx), url); err != nil {
		s.logger.Warn("profile picture cleanup failed",
			zap.String("user_id", id), zap.String("url", url), zap.Error(err))
	}
}
