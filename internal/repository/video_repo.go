package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/michalwarchol/slash-api/internal/model"
)

// commentsSortable is the allow-list of sortable comment columns.
var commentsSortable = map[string]string{
	"createdAt": "video_comments.created_at",
	"text":      "video_comments.text",
}

// VideoRepository is the course video data access interface.
type VideoRepository interface {
	Create(ctx context.Context, video *model.CourseVideo) error
	GetByID(ctx context.Context, id string) (*model.CourseVideo, error)
	GetFull(ctx context.Context, id string) (*model.CourseVideo, error)
	Update(ctx context.Context, video *model.CourseVideo) error
	Delete(ctx context.Context, id string) error

	FirstOfCourse(ctx context.Context, courseID string) (*model.CourseVideo, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	NeighbourIDs(ctx context.Context, video *model.CourseVideo) (previousID, nextID string, err error)

	IncrementViews(ctx context.Context, id string) error

	AverageRating(ctx context.Context, videoID string) (float64, error)
	GetRating(ctx context.Context, videoID, authorID string) (*model.VideoRating, error)
	UpsertRating(ctx context.Context, rating *model.VideoRating) error

	SaveComment(ctx context.Context, comment *model.VideoComment) error
	GetComment(ctx context.Context, id string) (*model.VideoComment, error)
	ListComments(ctx context.Context, videoID, orderBy, order string, offset, limit int) ([]model.VideoComment, int64, error)

	TopViewedByCreator(ctx context.Context, creatorID string, limit int) ([]model.CourseVideo, error)
}

type videoRepo struct {
	db *gorm.DB
}

// NewVideoRepo creates the gorm-backed VideoRepository.
func NewVideoRepo(db *gorm.DB) VideoRepository {
	return &videoRepo{db: db}
}

func (r *videoRepo) Create(ctx context.Context, video *model.CourseVideo) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepo) GetByID(ctx context.Context, id string) (*model.CourseVideo, error) {
	var video model.CourseVideo
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("id = ?", id).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) GetFull(ctx context.Context, id string) (*model.CourseVideo, error) {
	var video model.CourseVideo
	err := r.db.WithContext(ctx).
		Preload("Course.Creator").
		Preload("Course.Type.MainType").
		Where("id = ?", id).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) Update(ctx context.Context, video *model.CourseVideo) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *videoRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CourseVideo{}).Error
}

// FirstOfCourse returns the chronologically first video of a course, nil when
// the course has no videos.
func (r *videoRepo) FirstOfCourse(ctx context.Context, courseID string) (*model.CourseVideo, error) {
	var video model.CourseVideo
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		First(&video).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseVideo{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// NeighbourIDs returns the ids of the chronologically previous and next
// videos within the same course. Either may be empty at the edges.
func (r *videoRepo) NeighbourIDs(ctx context.Context, video *model.CourseVideo) (string, string, error) {
	var previous model.CourseVideo
	err := r.db.WithContext(ctx).
		Select("id").
		Where("course_id = ? AND created_at < ?", video.CourseID, video.CreatedAt).
		Order("created_at DESC").
		First(&previous).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", "", err
	}

	var next model.CourseVideo
	err = r.db.WithContext(ctx).
		Select("id").
		Where("course_id = ? AND created_at > ?", video.CourseID, video.CreatedAt).
		Order("created_at ASC").
		First(&next).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", "", err
	}

	return previous.ID, next.ID, nil
}

// IncrementViews bumps the view counter with a single atomic update, so
// concurrent increments never lose writes.
func (r *videoRepo) IncrementViews(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.CourseVideo{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *videoRepo) AverageRating(ctx context.Context, videoID string) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&model.VideoRating{}).
		Select("AVG(rating)").
		Where("video_id = ?", videoID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *videoRepo) GetRating(ctx context.Context, videoID, authorID string) (*model.VideoRating, error) {
	var rating model.VideoRating
	err := r.db.WithContext(ctx).
		Where("video_id = ? AND author_id = ?", videoID, authorID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *videoRepo) UpsertRating(ctx context.Context, rating *model.VideoRating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}, {Name: "author_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).
		Create(rating).Error
}

func (r *videoRepo) SaveComment(ctx context.Context, comment *model.VideoComment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *videoRepo) GetComment(ctx context.Context, id string) (*model.VideoComment, error) {
	var comment model.VideoComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *videoRepo) ListComments(ctx context.Context, videoID, orderBy, order string, offset, limit int) ([]model.VideoComment, int64, error) {
	column, ok := commentsSortable[orderBy]
	if !ok {
		column = "video_comments.created_at"
	}
	direction := "ASC"
	if order == "DESC" {
		direction = "DESC"
	}

	var comments []model.VideoComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("video_id = ?", videoID).
		Order(column + " " + direction).
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.WithContext(ctx).
		Model(&model.VideoComment{}).
		Where("video_id = ?", videoID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *videoRepo) TopViewedByCreator(ctx context.Context, creatorID string, limit int) ([]model.CourseVideo, error) {
	var videos []model.CourseVideo
	err := r.db.WithContext(ctx).
		Joins("JOIN courses ON course_videos.course_id = courses.id").
		Where("courses.creator_id = ?", creatorID).
		Order("course_videos.views DESC, course_videos.id").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}
