package model

import "time"

// CourseType is the top level of the two-level category taxonomy. Labels come
// in two language variants for localized display.
type CourseType struct {
	ID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name    string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"name"`
	ValuePl string `gorm:"type:varchar(20);not null"                      json:"valuePl"`
	ValueEn string `gorm:"type:varchar(20);not null"                      json:"valueEn"`

	SubTypes []CourseSubType `gorm:"foreignKey:MainTypeID" json:"subTypes,omitempty"`
}

func (CourseType) TableName() string { return "course_types" }

// CourseSubType is the category a course is filed under. Each subtype belongs
// to exactly one main type.
type CourseSubType struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"name"`
	ValuePl    string `gorm:"type:varchar(20);not null"                      json:"valuePl"`
	ValueEn    string `gorm:"type:varchar(20);not null"                      json:"valueEn"`
	MainTypeID string `gorm:"type:uuid;not null"                             json:"-"`

	MainType *CourseType `gorm:"foreignKey:MainTypeID" json:"mainType,omitempty"`
}

func (CourseSubType) TableName() string { return "course_sub_types" }

// Course maps to the courses table.
type Course struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(250);not null"                     json:"name"`
	Description string    `gorm:"type:text;not null;default:''"                  json:"description"`
	CreatorID   string    `gorm:"type:uuid;not null;index"                       json:"-"`
	TypeID      string    `gorm:"type:uuid;not null;index"                       json:"-"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`

	Creator   *User            `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Type      *CourseSubType   `gorm:"foreignKey:TypeID"    json:"type,omitempty"`
	Videos    []CourseVideo    `gorm:"foreignKey:CourseID"  json:"videos,omitempty"`
	Materials []CourseMaterial `gorm:"foreignKey:CourseID"  json:"materials,omitempty"`
}

func (Course) TableName() string { return "courses" }

// CourseMaterial is a downloadable file attached to a course. Link is an
// opaque storage key until resolved by the link resolver.
type CourseMaterial struct {
	ID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string `gorm:"type:varchar(250);not null"                     json:"name"`
	Link     string `gorm:"type:varchar(255);not null"                     json:"link"`
	Type     string `gorm:"type:varchar(50);not null"                      json:"type"`
	Size     int64  `gorm:"not null"                                       json:"size"`
	CourseID string `gorm:"type:uuid;not null;index"                       json:"-"`
}

func (CourseMaterial) TableName() string { return "course_materials" }

// CourseLike is the many-to-many "currently liked" relation. Row presence is
// the only state; there is no history of unliking.
type CourseLike struct {
	CourseID string `gorm:"type:uuid;primaryKey" json:"courseId"`
	UserID   string `gorm:"type:uuid;primaryKey" json:"userId"`
}

func (CourseLike) TableName() string { return "course_likes" }
