package model

import "time"

// CourseVideo maps to the course_videos table. CreatedAt establishes the
// strict watch order of videos within a course.
type CourseVideo struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string    `gorm:"type:varchar(250);not null"                     json:"name"`
	Description   string    `gorm:"type:text;not null;default:''"                  json:"description"`
	Link          string    `gorm:"type:varchar(255);not null"                     json:"link"`
	ThumbnailLink string    `gorm:"type:varchar(255);not null"                     json:"thumbnailLink"`
	Duration      int       `gorm:"not null;default:0"                             json:"duration"`
	Views         int64     `gorm:"not null;default:0"                             json:"views"`
	CourseID      string    `gorm:"type:uuid;not null;index"                       json:"-"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (CourseVideo) TableName() string { return "course_videos" }

// VideoRating is a per-user 1-5 rating of a video, unique per (video, author).
type VideoRating struct {
	ID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Rating   int16  `gorm:"not null"                                       json:"rating"`
	VideoID  string `gorm:"type:uuid;not null;uniqueIndex:uniq_video_author" json:"-"`
	AuthorID string `gorm:"type:uuid;not null;uniqueIndex:uniq_video_author" json:"-"`
}

func (VideoRating) TableName() string { return "video_ratings" }

// VideoComment is a user comment under a video.
type VideoComment struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Text      string    `gorm:"type:text;not null"                             json:"text"`
	VideoID   string    `gorm:"type:uuid;not null;index"                       json:"-"`
	AuthorID  string    `gorm:"type:uuid;not null"                             json:"-"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (VideoComment) TableName() string { return "video_comments" }
