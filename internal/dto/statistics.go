package dto

import "time"

// ProgressInput records or updates watch progress. WatchTime and HasEnded are
// pointers so the service can distinguish "absent" from zero values and report
// soft validation errors per field.
type ProgressInput struct {
	VideoID   string `json:"videoId"`
	WatchTime *int   `json:"watchTime"`
	HasEnded  *bool  `json:"hasEnded"`
}

// ProgressResponse is one watch-progress record.
type ProgressResponse struct {
	ID          string          `json:"id"`
	HasEnded    bool            `json:"hasEnded"`
	WatchTime   int             `json:"watchTime"`
	CreatedAt   time.Time       `json:"createdAt"`
	Course      *CourseResponse `json:"course,omitempty"`
	CourseVideo *VideoResponse  `json:"courseVideo,omitempty"`
}

// ProgressListRequest is the paginated progress query.
type ProgressListRequest struct {
	PaginationRequest
	WithEnded bool `form:"withEnded"`
}

// StudentStats is the student dashboard. Favourite fields are nil for users
// with no watch history.
type StudentStats struct {
	CoursesEnded      int64            `json:"coursesEnded"`
	CoursesInProgress int64            `json:"coursesInProgress"`
	WatchTime         int64            `json:"watchTime"`
	FavEducator       *UserResponse    `json:"favEducator"`
	FavCategory       *SubTypeResponse `json:"favCategory"`
}

// EducatorStats is the educator dashboard: three independent top-10 lists
// scoped to the educator's own courses.
type EducatorStats struct {
	MostLikedCourses   []CourseWithLikes `json:"mostLikedCourses"`
	MostPopularCourses []CourseWithViews `json:"mostPopularCourses"`
	MostViewedVideos   []VideoResponse   `json:"mostViewedVideos"`
}
