package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/model"
)

// ProgressRepository is the durable watch-progress store. One row per
// (user, course); rows are created on first report, updated afterwards and
// never deleted by normal operation.
type ProgressRepository interface {
	Create(ctx context.Context, progress *model.UserCourseProgress) error
	Update(ctx context.Context, progress *model.UserCourseProgress) error
	FindForCourse(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error)

	List(ctx context.Context, userID string, withEnded bool, offset, limit int) ([]model.UserCourseProgress, error)
	CountAll(ctx context.Context, userID string) (int64, error)
	CountByEnded(ctx context.Context, userID string, ended bool) (int64, error)
	TotalWatchTime(ctx context.Context, userID string) (int64, error)

	Affinity(ctx context.Context, userID string) (categories, creators []string, err error)
	CourseIDs(ctx context.Context, userID string) ([]string, error)

	FavEducator(ctx context.Context, userID string) (*model.User, error)
	FavCategory(ctx context.Context, userID string) (*model.CourseSubType, error)
}

type progressRepo struct {
	db *gorm.DB
}

// NewProgressRepo creates the gorm-backed ProgressRepository.
func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) Create(ctx context.Context, progress *model.UserCourseProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *progressRepo) Update(ctx context.Context, progress *model.UserCourseProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

// FindForCourse returns the user's progress row for a course with its current
// video loaded, or gorm.ErrRecordNotFound.
func (r *progressRepo) FindForCourse(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	var progress model.UserCourseProgress
	err := r.db.WithContext(ctx).
		Preload("CourseVideo").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepo) List(ctx context.Context, userID string, withEnded bool, offset, limit int) ([]model.UserCourseProgress, error) {
	q := r.db.WithContext(ctx).
		Preload("Course.Creator").
		Preload("Course.Type.MainType").
		Preload("CourseVideo").
		Where("user_id = ?", userID)

	if !withEnded {
		q = q.Where("has_ended = ?", false)
	}

	var rows []model.UserCourseProgress
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *progressRepo) CountAll(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserCourseProgress{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *progressRepo) CountByEnded(ctx context.Context, userID string, ended bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserCourseProgress{}).
		Where("user_id = ? AND has_ended = ?", userID, ended).
		Count(&count).Error
	return count, err
}

// TotalWatchTime sums, per course, the full duration of every video the user
// has moved past and the recorded watch time of the video they are currently
// on (or its full duration once the course has ended). Videos newer than the
// current one do not count.
func (r *progressRepo) TotalWatchTime(ctx context.Context, userID string) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT SUM(
			CASE
				WHEN p.has_ended = FALSE AND cv.id = cur.id THEN p.watch_time
				ELSE cv.duration
			END
		)
		FROM user_course_progress p
		JOIN course_videos cur ON p.course_video_id = cur.id
		JOIN course_videos cv ON cv.course_id = p.course_id AND cv.created_at <= cur.created_at
		WHERE p.user_id = ?`,
		userID,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// Affinity extracts the distinct category and creator ids across the user's
// entire watch history. Both slices are empty for a fresh user.
func (r *progressRepo) Affinity(ctx context.Context, userID string) ([]string, []string, error) {
	var rows []struct {
		TypeID    string
		CreatorID string
	}
	err := r.db.WithContext(ctx).
		Model(&model.UserCourseProgress{}).
		Select("DISTINCT c.type_id, c.creator_id").
		Joins("JOIN courses c ON user_course_progress.course_id = c.id").
		Where("user_course_progress.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	categorySet := make(map[string]struct{}, len(rows))
	creatorSet := make(map[string]struct{}, len(rows))
	var categories, creators []string
	for _, row := range rows {
		if _, seen := categorySet[row.TypeID]; !seen {
			categorySet[row.TypeID] = struct{}{}
			categories = append(categories, row.TypeID)
		}
		if _, seen := creatorSet[row.CreatorID]; !seen {
			creatorSet[row.CreatorID] = struct{}{}
			creators = append(creators, row.CreatorID)
		}
	}

	return categories, creators, nil
}

func (r *progressRepo) CourseIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserCourseProgress{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error
	return ids, err
}

// FavEducator returns the creator whose courses account for most of the
// user's progress rows, nil when the user has no history. Ties fall to
// storage order.
func (r *progressRepo) FavEducator(ctx context.Context, userID string) (*model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.*
		FROM user_course_progress p
		JOIN courses c ON p.course_id = c.id
		JOIN users u ON c.creator_id = u.id
		WHERE p.user_id = ?
		GROUP BY u.id
		ORDER BY COUNT(*) DESC
		LIMIT 1`,
		userID,
	).Scan(&users).Error
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// FavCategory mirrors FavEducator for course categories.
func (r *progressRepo) FavCategory(ctx context.Context, userID string) (*model.CourseSubType, error) {
	var subTypes []model.CourseSubType
	err := r.db.WithContext(ctx).Raw(`
		SELECT st.*
		FROM user_course_progress p
		JOIN courses c ON p.course_id = c.id
		JOIN course_sub_types st ON c.type_id = st.id
		WHERE p.user_id = ?
		GROUP BY st.id
		ORDER BY COUNT(*) DESC
		LIMIT 1`,
		userID,
	).Scan(&subTypes).Error
	if err != nil {
		return nil, err
	}
	if len(subTypes) == 0 {
		return nil, nil
	}
	return &subTypes[0], nil
}
