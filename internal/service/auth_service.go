package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/config"
	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/jwt"
	"github.com/michalwarchol/slash-api/pkg/mailer"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// authCodeTTL is how long a mailed verification code stays valid.
const authCodeTTL = 5 * time.Minute

// TokenBlacklist revokes JWTs by their ID until natural expiry.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService covers registration, email verification, login, token refresh,
// logout and the mailed-code password-change flow.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MutationResult[dto.UserResponse], error)
	Activate(ctx context.Context, req *dto.ActivateRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	RequestPasswordChange(ctx context.Context, req *dto.RequestPasswordChangeRequest) error
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg       *config.AuthConfig
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	mail      mailer.Mailer
	resolver  storage.LinkResolver
	logger    *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(cfg *config.AuthConfig, repo *repository.Repository, jwtMgr *jwt.Manager, blacklist TokenBlacklist, mail mailer.Mailer, resolver storage.LinkResolver, logger *zap.Logger) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		mail:      mail,
		resolver:  resolver,
		logger:    logger,
	}
}

// ────────────────────── registration ──────────────────────

// Register creates an unverified account and mails the activation code. A
// taken email comes back as a soft field error.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MutationResult[dto.UserResponse], error) {
	existing, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return &dto.MutationResult[dto.UserResponse]{
			Success: false,
			Errors:  map[string]string{"email": "emailTaken"},
		}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hash),
		Type:      req.Type,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	if err := s.issueCode(ctx, user, s.mail.SendActivationCode); err != nil {
		return nil, err
	}

	return &dto.MutationResult[dto.UserResponse]{
		Success: true,
		Result:  *toUserResponse(ctx, s.resolver, user),
	}, nil
}

// Activate verifies the mailed code and marks the account verified.
func (s *authService) Activate(ctx context.Context, req *dto.ActivateRequest) error {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if _, err := s.repo.User.GetValidAuthCode(ctx, user.ID, req.Code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAuthCode
		}
		return err
	}

	user.IsVerified = true
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("verify user failed", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	if err := s.repo.User.DeleteAuthCodes(ctx, user.ID); err != nil {
		s.logger.Warn("cleanup auth codes failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ────────────────────── sessions ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrAccountNotVerified
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the old token is blacklisted for its
// remaining lifetime and a fresh pair is issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("blacklist check failed", zap.Error(err))
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("blacklist refresh token failed", zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented token for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	return s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// ────────────────────── password change ──────────────────────

// RequestPasswordChange mails a confirmation code. An unknown email is
// silently accepted so the endpoint does not leak which addresses exist.
func (s *authService) RequestPasswordChange(ctx context.Context, req *dto.RequestPasswordChangeRequest) error {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return err
	}

	return s.issueCode(ctx, user, s.mail.SendPasswordChangeCode)
}

func (s *authService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if _, err := s.repo.User.GetValidAuthCode(ctx, user.ID, req.Code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAuthCode
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.Password = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update password failed", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	if err := s.repo.User.DeleteAuthCodes(ctx, user.ID); err != nil {
		s.logger.Warn("cleanup auth codes failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ────────────────────── helpers ──────────────────────

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Type)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Type)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
		User:         *toUserResponse(ctx, s.resolver, user),
	}, nil
}

// issueCode generates a 6-digit code, stores it and hands it to the given
// mail sender. Old codes for the user are dropped first, so only the latest
// code works.
func (s *authService) issueCode(ctx context.Context, user *model.User, send func(to, firstName, code string) error) error {
	if err := s.repo.User.DeleteAuthCodes(ctx, user.ID); err != nil {
		s.logger.Warn("cleanup auth codes failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	authCode := &model.AuthCode{
		Code:       code,
		ValidUntil: time.Now().Add(authCodeTTL),
		UserID:     user.ID,
	}
	if err := s.repo.User.CreateAuthCode(ctx, authCode); err != nil {
		s.logger.Error("store auth code failed", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	if err := send(user.Email, user.FirstName, code); err != nil {
		return err
	}
	return nil
}

func (s *authService) userByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
