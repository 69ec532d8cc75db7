package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	User     UserRepository
	Course   CourseRepository
	Video    VideoRepository
	Progress ProgressRepository
}

// NewRepository wires the gorm implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Course:   NewCourseRepo(db),
		Video:    NewVideoRepo(db),
		Progress: NewProgressRepo(db),
	}
}
