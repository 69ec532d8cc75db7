package service

import "errors"

// Business errors shared across services. Handlers map these onto HTTP
// statuses; everything else bubbles up as an internal error.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrProgressNotFound = errors.New("progress not found")

	ErrNotCourseOwner   = errors.New("caller does not own this course")
	ErrNotCommentAuthor = errors.New("caller is not the comment author")
	ErrNotEducator      = errors.New("caller is not an educator")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotVerified = errors.New("account email not verified")
	ErrInvalidAuthCode    = errors.New("invalid or expired verification code")
	ErrInvalidToken       = errors.New("invalid or revoked token")
)
