package service

import (
	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/config"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/jwt"
	"github.com/michalwarchol/slash-api/pkg/mailer"
	"github.com/michalwarchol/slash-api/pkg/redis"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// Service aggregates all business services.
type Service struct {
	Auth       AuthService
	User       UserService
	Course     CourseService
	Video      VideoService
	Statistics StatisticsService
	Export     ExportService
}

// NewService wires the services onto their shared dependencies. The Redis
// client serves both as token blacklist and popularity cache.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	store storage.ObjectStore,
	mail mailer.Mailer,
	logger *zap.Logger,
) *Service {
	stats := NewStatisticsService(repo, cache, store, logger)
	return &Service{
		Auth:       NewAuthService(&cfg.Auth, repo, jwtMgr, cache, mail, store, logger),
		User:       NewUserService(repo, store, logger),
		Course:     NewCourseService(repo, cache, store, logger),
		Video:      NewVideoService(repo, store, logger),
		Statistics: stats,
		Export:     NewExportService(stats, logger),
	}
}
