package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// VideoUpload carries the video object and its thumbnail for a new course
// video. Extensions include the leading dot.
type VideoUpload struct {
	Video        io.Reader
	VideoExt     string
	Thumbnail    io.Reader
	ThumbnailExt string
	Duration     int
}

// VideoService covers course videos, their ratings and comments.
type VideoService interface {
	Create(ctx context.Context, callerID, courseID string, input *dto.VideoInput, upload *VideoUpload) (*dto.MutationResult[dto.VideoResponse], error)
	Update(ctx context.Context, callerID, videoID string, input *dto.VideoInput) (*dto.VideoResponse, error)
	Delete(ctx context.Context, callerID, videoID string) error
	GetFull(ctx context.Context, videoID string) (*dto.FullVideoResponse, error)

	IncreaseViews(ctx context.Context, videoID string) error

	Rate(ctx context.Context, userID, videoID string, rating int16) error
	GetRating(ctx context.Context, userID, videoID string) (*dto.RatingResponse, error)

	Comment(ctx context.Context, userID, videoID string, req *dto.CommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, videoID string, req *dto.CommentListRequest) (*dto.PaginatedResult[dto.CommentResponse], error)
}

type videoService struct {
	repo   *repository.Repository
	store  storage.ObjectStore
	logger *zap.Logger
}

// NewVideoService creates the VideoService.
func NewVideoService(repo *repository.Repository, store storage.ObjectStore, logger *zap.Logger) VideoService {
	return &videoService{repo: repo, store: store, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *videoService) Create(ctx context.Context, callerID, courseID string, input *dto.VideoInput, upload *VideoUpload) (*dto.MutationResult[dto.VideoResponse], error) {
	fieldErrors := make(map[string]string)
	if input.Name == "" {
		fieldErrors["name"] = "required"
	}
	if upload.Video == nil {
		fieldErrors["video"] = "required"
	}
	if upload.Thumbnail == nil {
		fieldErrors["thumbnail"] = "required"
	}
	if len(fieldErrors) > 0 {
		return &dto.MutationResult[dto.VideoResponse]{Success: false, Errors: fieldErrors}, nil
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.CreatorID != callerID {
		return nil, ErrNotCourseOwner
	}

	videoKey := fmt.Sprintf("videos/%s/%s%s", courseID, uuid.New().String(), upload.VideoExt)
	if err := s.store.Upload(ctx, storage.VideoBucket, videoKey, upload.Video); err != nil {
		s.logger.Error("upload video failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	thumbKey := fmt.Sprintf("thumbnails/%s/%s%s", courseID, uuid.New().String(), upload.ThumbnailExt)
	if err := s.store.Upload(ctx, storage.UtilityBucket, thumbKey, upload.Thumbnail); err != nil {
		s.logger.Error("upload thumbnail failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	video := &model.CourseVideo{
		Name:          input.Name,
		Description:   input.Description,
		Link:          videoKey,
		ThumbnailLink: thumbKey,
		Duration:      upload.Duration,
		CourseID:      courseID,
	}
	if err := s.repo.Video.Create(ctx, video); err != nil {
		s.logger.Error("save video failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	return &dto.MutationResult[dto.VideoResponse]{
		Success: true,
		Result:  toVideoResponse(ctx, s.store, video),
	}, nil
}

func (s *videoService) Update(ctx context.Context, callerID, videoID string, input *dto.VideoInput) (*dto.VideoResponse, error) {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		video.Name = input.Name
	}
	if input.Description != "" {
		video.Description = input.Description
	}

	if err := s.repo.Video.Update(ctx, video); err != nil {
		s.logger.Error("update video failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}

	resp := toVideoResponse(ctx, s.store, video)
	return &resp, nil
}

func (s *videoService) Delete(ctx context.Context, callerID, videoID string) error {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return err
	}

	// The database row is the source of truth; stale objects in storage are
	// tolerable, so object deletion failures only warn.
	if err := s.store.Delete(ctx, storage.VideoBucket, video.Link); err != nil {
		s.logger.Warn("delete video object failed", zap.String("key", video.Link), zap.Error(err))
	}
	if err := s.store.Delete(ctx, storage.UtilityBucket, video.ThumbnailLink); err != nil {
		s.logger.Warn("delete thumbnail object failed", zap.String("key", video.ThumbnailLink), zap.Error(err))
	}

	if err := s.repo.Video.Delete(ctx, videoID); err != nil {
		s.logger.Error("delete video failed", zap.String("video_id", videoID), zap.Error(err))
		return err
	}
	return nil
}

func (s *videoService) GetFull(ctx context.Context, videoID string) (*dto.FullVideoResponse, error) {
	video, err := s.repo.Video.GetFull(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	previousID, nextID, err := s.repo.Video.NeighbourIDs(ctx, video)
	if err != nil {
		s.logger.Error("neighbour lookup failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}

	rating, err := s.repo.Video.AverageRating(ctx, videoID)
	if err != nil {
		s.logger.Error("average rating failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}

	resp := &dto.FullVideoResponse{
		VideoResponse:   toVideoResponse(ctx, s.store, video),
		PreviousVideoID: previousID,
		NextVideoID:     nextID,
		Rating:          rating,
	}
	if video.Course != nil {
		course := toCourseResponse(ctx, s.store, video.Course)
		resp.Course = &course
	}

	return resp, nil
}

// IncreaseViews bumps the view counter. The increment is a single atomic
// update in the store, so concurrent calls all land.
func (s *videoService) IncreaseViews(ctx context.Context, videoID string) error {
	err := s.repo.Video.IncrementViews(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVideoNotFound
	}
	return err
}

// ────────────────────── ratings ──────────────────────

func (s *videoService) Rate(ctx context.Context, userID, videoID string, rating int16) error {
	if _, err := s.repo.Video.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	err := s.repo.Video.UpsertRating(ctx, &model.VideoRating{
		Rating:   rating,
		VideoID:  videoID,
		AuthorID: userID,
	})
	if err != nil {
		s.logger.Error("save rating failed", zap.String("video_id", videoID), zap.Error(err))
	}
	return err
}

func (s *videoService) GetRating(ctx context.Context, userID, videoID string) (*dto.RatingResponse, error) {
	rating, err := s.repo.Video.GetRating(ctx, videoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.RatingResponse{}, nil
		}
		return nil, err
	}
	return &dto.RatingResponse{Rating: &rating.Rating}, nil
}

// ────────────────────── comments ──────────────────────

// Comment creates a comment, or edits one when CommentID is set. Edits are
// restricted to the comment's author.
func (s *videoService) Comment(ctx context.Context, userID, videoID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	if req.CommentID != "" {
		return s.editComment(ctx, userID, req)
	}

	if _, err := s.repo.Video.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	comment := &model.VideoComment{
		Text:     req.Text,
		VideoID:  videoID,
		AuthorID: userID,
	}
	if err := s.repo.Video.SaveComment(ctx, comment); err != nil {
		s.logger.Error("save comment failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Video.GetComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	resp := toCommentResponse(ctx, s.store, saved)
	return &resp, nil
}

func (s *videoService) editComment(ctx context.Context, userID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.repo.Video.GetComment(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, ErrNotCommentAuthor
	}

	comment.Text = req.Text
	if err := s.repo.Video.SaveComment(ctx, comment); err != nil {
		s.logger.Error("edit comment failed", zap.String("comment_id", comment.ID), zap.Error(err))
		return nil, err
	}

	resp := toCommentResponse(ctx, s.store, comment)
	return &resp, nil
}

func (s *videoService) ListComments(ctx context.Context, videoID string, req *dto.CommentListRequest) (*dto.PaginatedResult[dto.CommentResponse], error) {
	page, perPage := req.GetPage(), req.GetPerPage()

	comments, total, err := s.repo.Video.ListComments(ctx, videoID, req.OrderBy, req.Order, (page-1)*perPage, perPage)
	if err != nil {
		s.logger.Error("list comments failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, toCommentResponse(ctx, s.store, &comments[i]))
	}

	result := dto.NewPaginatedResult(items, total, page, perPage)
	return &result, nil
}

// ────────────────────── helpers ──────────────────────

func (s *videoService) ownedVideo(ctx context.Context, callerID, videoID string) (*model.CourseVideo, error) {
	video, err := s.repo.Video.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.Course == nil || video.Course.CreatorID != callerID {
		return nil, ErrNotCourseOwner
	}
	return video, nil
}
