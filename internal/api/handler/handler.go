package handler

import "github.com/michalwarchol/slash-api/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Course     *CourseHandler
	Video      *VideoHandler
	Statistics *StatisticsHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Course:     NewCourseHandler(svc.Course),
		Video:      NewVideoHandler(svc.Video),
		Statistics: NewStatisticsHandler(svc.Statistics, svc.Export),
	}
}
