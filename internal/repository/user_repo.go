package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/model"
)

// UserRepository is the user and auth-code data access interface.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error

	CreateAuthCode(ctx context.Context, code *model.AuthCode) error
	GetValidAuthCode(ctx context.Context, userID, code string) (*model.AuthCode, error)
	DeleteAuthCodes(ctx context.Context, userID string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates the gorm-backed UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) CreateAuthCode(ctx context.Context, code *model.AuthCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *userRepo) GetValidAuthCode(ctx context.Context, userID, code string) (*model.AuthCode, error) {
	var authCode model.AuthCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND valid_until > ?", userID, code, time.Now()).
		First(&authCode).Error
	if err != nil {
		return nil, err
	}
	return &authCode, nil
}

func (r *userRepo) DeleteAuthCodes(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AuthCode{}).Error
}
