package dto

import "time"

// VideoResponse is the public view of a course video. Link and ThumbnailLink
// are resolved signed URLs where the endpoint exposes them, otherwise opaque
// storage keys.
type VideoResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Link          string    `json:"link,omitempty"`
	ThumbnailLink string    `json:"thumbnailLink,omitempty"`
	Duration      int       `json:"duration"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FullVideoResponse adds the owning course, chronological neighbours and the
// average rating.
type FullVideoResponse struct {
	VideoResponse
	Course          *CourseResponse `json:"course,omitempty"`
	PreviousVideoID string          `json:"previousVideoId,omitempty"`
	NextVideoID     string          `json:"nextVideoId,omitempty"`
	Rating          float64         `json:"rating"`
}

// VideoInput creates or edits a video.
type VideoInput struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

// RateVideoRequest sets the caller's 1-5 rating.
type RateVideoRequest struct {
	Rating int16 `json:"rating" binding:"required,min=1,max=5"`
}

// RatingResponse reports the caller's stored rating, nil when absent.
type RatingResponse struct {
	Rating *int16 `json:"rating"`
}

// CommentRequest creates or edits a comment.
type CommentRequest struct {
	Text      string `json:"text" binding:"required"`
	CommentID string `json:"commentId"`
}

// CommentResponse is one comment with its author.
type CommentResponse struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
	Author    *UserResponse `json:"author,omitempty"`
}

// CommentListRequest is the paginated comment query. OrderBy is matched
// against an allow-list of sortable columns.
type CommentListRequest struct {
	PaginationRequest
	OrderBy string `form:"orderBy"`
	Order   string `form:"order"`
}
