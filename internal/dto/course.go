package dto

import "time"

// SubTypeResponse is a localized category label with its main type.
type SubTypeResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	ValuePl  string            `json:"valuePl"`
	ValueEn  string            `json:"valueEn"`
	MainType *CourseTypeLabel  `json:"mainType,omitempty"`
}

// CourseTypeLabel is a main category label.
type CourseTypeLabel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ValuePl string `json:"valuePl"`
	ValueEn string `json:"valueEn"`
}

// CourseTypeResponse is one entry of the localized taxonomy listing.
type CourseTypeResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Value    string             `json:"value"`
	SubTypes []CourseTypeEntry  `json:"subTypes"`
}

// CourseTypeEntry is a localized subtype entry.
type CourseTypeEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	Creator     *UserResponse    `json:"creator,omitempty"`
	Type        *SubTypeResponse `json:"type,omitempty"`
}

// FullCourseResponse adds videos, materials and the like count.
type FullCourseResponse struct {
	CourseResponse
	Videos     []VideoResponse    `json:"videos"`
	Materials  []MaterialResponse `json:"materials"`
	LikesCount int64              `json:"likesCount"`
}

// CourseResult is one recommendation feed entry: the course, its first
// chronological video and the total video count.
type CourseResult struct {
	Course      CourseResponse `json:"course"`
	FirstVideo  *VideoResponse `json:"firstVideo,omitempty"`
	TotalVideos int64          `json:"totalVideos"`
}

// CourseWithLikes pairs a course with its like count.
type CourseWithLikes struct {
	CourseResponse
	Likes int64 `json:"likes"`
}

// CourseWithViews pairs a course with its summed video views.
type CourseWithViews struct {
	CourseResponse
	Views int64 `json:"views"`
}

// CreateCourseRequest creates a course.
type CreateCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SubTypeID   string `json:"subTypeId"`
}

// UpdateCourseRequest edits a course.
type UpdateCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SubTypeID   string `json:"subTypeId"`
}

// CreatorCourseResponse is one row of the creator course listing.
type CreatorCourseResponse struct {
	CourseResponse
	NumberOfVideos int64 `json:"numberOfVideos"`
	NumberOfLikes  int64 `json:"numberOfLikes"`
}

// CreatorCoursesRequest lists an educator's courses. OrderBy is matched
// against an allow-list of sortable columns.
type CreatorCoursesRequest struct {
	PaginationRequest
	CreatorID string `form:"creatorId"`
	OrderBy   string `form:"orderBy"`
	Order     string `form:"order"`
}

// CourseSearchRequest is the catalog search query.
type CourseSearchRequest struct {
	PaginationRequest
	Search string `form:"search"`
	Lang   string `form:"lang"`
}

// BestCoursesRequest is the popularity-ranked category query.
type BestCoursesRequest struct {
	PaginationRequest
	Category string `form:"category" binding:"required"`
}

// LikeRequest toggles the like relation.
type LikeRequest struct {
	IsLike bool `json:"isLike"`
}

// CourseUserStatistics reports the caller's relation to a course.
type CourseUserStatistics struct {
	IsLiked bool `json:"isLiked"`
}

// MaterialResponse is a course material with a resolved download link.
type MaterialResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}
