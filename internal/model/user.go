package model

import "time"

// User roles. The role decides which statistics dashboard a user sees and
// which mutations they may perform.
const (
	RoleStudent  = "STUDENT"
	RoleEducator = "EDUCATOR"
)

// User maps to the users table.
type User struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName  string    `gorm:"type:varchar(100);not null"                     json:"firstName"`
	LastName   string    `gorm:"type:varchar(100);not null"                     json:"lastName"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Password   string    `gorm:"type:varchar(255);not null"                     json:"-"`
	IsVerified bool      `gorm:"not null;default:false"                         json:"-"`
	Avatar     string    `gorm:"type:varchar(255)"                              json:"avatar,omitempty"`
	Type       string    `gorm:"type:varchar(20);not null"                      json:"type"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`

	Courses []Course `gorm:"foreignKey:CreatorID" json:"-"`
}

func (User) TableName() string { return "users" }

// AuthCode is a short-lived verification code mailed to a user. Used for both
// account activation and password-change confirmation.
type AuthCode struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code       string    `gorm:"type:varchar(6);not null"                       json:"-"`
	ValidUntil time.Time `gorm:"not null"                                       json:"validUntil"`
	UserID     string    `gorm:"type:uuid;not null"                             json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (AuthCode) TableName() string { return "auth_codes" }
