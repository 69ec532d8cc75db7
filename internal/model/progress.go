package model

import "time"

// UserCourseProgress is the durable watch-progress record. One row per
// (user, course); the row tracks the video the user is currently on.
// WatchTime is monotonic for the current video — updates never regress it
// unless the row moves forward to a strictly newer video.
type UserCourseProgress struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	HasEnded      bool      `gorm:"not null;default:false"                         json:"hasEnded"`
	WatchTime     int       `gorm:"not null;default:0"                             json:"watchTime"`
	UserID        string    `gorm:"type:uuid;not null;index;uniqueIndex:uniq_user_course" json:"-"`
	CourseID      string    `gorm:"type:uuid;not null;uniqueIndex:uniq_user_course"       json:"-"`
	CourseVideoID string    `gorm:"type:uuid;not null"                             json:"-"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`

	Course      *Course      `gorm:"foreignKey:CourseID"      json:"course,omitempty"`
	CourseVideo *CourseVideo `gorm:"foreignKey:CourseVideoID" json:"courseVideo,omitempty"`
}

func (UserCourseProgress) TableName() string { return "user_course_progress" }
