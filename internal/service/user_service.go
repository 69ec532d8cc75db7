package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// UserService covers profile reads, updates and avatar upload.
type UserService interface {
	Get(ctx context.Context, id string) (*dto.UserResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID, ext string, body io.Reader) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	store  storage.ObjectStore
	logger *zap.Logger
}

// NewUserService creates the UserService.
func NewUserService(repo *repository.Repository, store storage.ObjectStore, logger *zap.Logger) UserService {
	return &userService{repo: repo, store: store, logger: logger}
}

func (s *userService) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(ctx, s.store, user), nil
}

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return toUserResponse(ctx, s.store, user), nil
}

// UploadAvatar stores the new avatar, points the profile at it and drops the
// old object.
func (s *userService) UploadAvatar(ctx context.Context, userID, ext string, body io.Reader) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)
	if err := s.store.Upload(ctx, storage.UtilityBucket, key, body); err != nil {
		s.logger.Error("upload avatar failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	oldKey := user.Avatar
	user.Avatar = key
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update avatar failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if oldKey != "" {
		if err := s.store.Delete(ctx, storage.UtilityBucket, oldKey); err != nil {
			s.logger.Warn("delete old avatar failed", zap.String("key", oldKey), zap.Error(err))
		}
	}

	return toUserResponse(ctx, s.store, user), nil
}
