package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/model"
)

// CourseWithCount pairs a course row with an aggregate (likes or views),
// scanned from grouped queries.
type CourseWithCount struct {
	model.Course `gorm:"embedded"`
	Count        int64 `gorm:"column:cnt"`
}

// CreatorCourseStats is one row of the creator course listing with its video
// and like counts.
type CreatorCourseStats struct {
	model.Course   `gorm:"embedded"`
	NumberOfVideos int64 `gorm:"column:number_of_videos"`
	NumberOfLikes  int64 `gorm:"column:number_of_likes"`
}

// creatorCoursesSortable is the allow-list of sortable columns for the
// creator course listing. Caller-supplied sort keys never reach SQL directly.
var creatorCoursesSortable = map[string]string{
	"name":           "courses.name",
	"createdAt":      "courses.created_at",
	"numberOfVideos": "number_of_videos",
	"numberOfLikes":  "number_of_likes",
}

// CourseRepository is the course catalog data access interface. It doubles as
// the popularity aggregator: every like count in the system comes from here.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetFull(ctx context.Context, id string) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error

	ListTypes(ctx context.Context) ([]model.CourseType, error)
	Search(ctx context.Context, search, langColumn string, offset, limit int) ([]model.Course, int64, error)
	ListByCreator(ctx context.Context, creatorID, orderBy, order string, offset, limit int) ([]CreatorCourseStats, int64, error)
	BestByCategory(ctx context.Context, category string, offset, limit int) ([]CourseWithCount, int64, error)

	LikeCount(ctx context.Context, courseID string) (int64, error)
	LikeCounts(ctx context.Context, courseIDs []string) (map[string]int64, error)
	SetLike(ctx context.Context, courseID, userID string, isLike bool) error
	IsLiked(ctx context.Context, courseID, userID string) (bool, error)

	Candidates(ctx context.Context, categories, creators, excludeCourseIDs []string) ([]model.Course, error)

	TopLikedByCreator(ctx context.Context, creatorID string, limit int) ([]CourseWithCount, error)
	TopViewedByCreator(ctx context.Context, creatorID string, limit int) ([]CourseWithCount, error)

	CreateMaterial(ctx context.Context, material *model.CourseMaterial) error
	GetMaterial(ctx context.Context, id string) (*model.CourseMaterial, error)
	DeleteMaterial(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates the gorm-backed CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Type.MainType").
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetFull(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Type.MainType").
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_videos.created_at ASC")
		}).
		Preload("Materials").
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{}).Error
}

func (r *courseRepo) ListTypes(ctx context.Context) ([]model.CourseType, error) {
	var types []model.CourseType
	err := r.db.WithContext(ctx).
		Preload("SubTypes").
		Order("name ASC").
		Find(&types).Error
	return types, err
}

// Search matches course names and localized category labels. Zero-popularity
// courses are kept; like counts are attached by the service where needed.
func (r *courseRepo) Search(ctx context.Context, search, langColumn string, offset, limit int) ([]model.Course, int64, error) {
	// langColumn is fixed by the service to value_en or value_pl, never
	// caller input.
	pattern := "%" + search + "%"
	base := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Joins("JOIN course_sub_types st ON courses.type_id = st.id").
		Where(fmt.Sprintf("courses.name ILIKE ? OR st.%s ILIKE ?", langColumn), pattern, pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := base.Session(&gorm.Session{}).
		Preload("Creator").
		Preload("Type.MainType").
		Offset(offset).Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepo) ListByCreator(ctx context.Context, creatorID, orderBy, order string, offset, limit int) ([]CreatorCourseStats, int64, error) {
	column, ok := creatorCoursesSortable[orderBy]
	if !ok {
		column = "courses.created_at"
	}
	direction := "ASC"
	if order == "DESC" {
		direction = "DESC"
	}

	var rows []CreatorCourseStats
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT courses.*,
		       COUNT(DISTINCT cv.id) AS number_of_videos,
		       COUNT(DISTINCT cl.user_id) AS number_of_likes
		FROM courses
		LEFT JOIN course_videos cv ON cv.course_id = courses.id
		LEFT JOIN course_likes cl ON cl.course_id = courses.id
		WHERE courses.creator_id = ?
		GROUP BY courses.id
		ORDER BY %s %s, courses.id
		LIMIT ? OFFSET ?`, column, direction),
		creatorID, limit, offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("creator_id = ?", creatorID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// BestByCategory ranks a category's courses by like count. Both the page and
// the total run against the grouped likes subquery, so courses without a
// single like never appear here (unlike Search, which keeps them).
func (r *courseRepo) BestByCategory(ctx context.Context, category string, offset, limit int) ([]CourseWithCount, int64, error) {
	var rows []CourseWithCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT courses.*, pop.cnt AS cnt
		FROM courses
		JOIN (
			SELECT course_id, COUNT(*) AS cnt
			FROM course_likes
			GROUP BY course_id
		) pop ON pop.course_id = courses.id
		JOIN course_sub_types st ON courses.type_id = st.id
		WHERE st.name = ?
		ORDER BY pop.cnt DESC, courses.id
		LIMIT ? OFFSET ?`,
		category, limit, offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM courses
		JOIN (
			SELECT course_id, COUNT(*) AS cnt
			FROM course_likes
			GROUP BY course_id
		) pop ON pop.course_id = courses.id
		JOIN course_sub_types st ON courses.type_id = st.id
		WHERE st.name = ?`,
		category,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *courseRepo) LikeCount(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseLike{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *courseRepo) LikeCounts(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID string
		Cnt      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.CourseLike{}).
		Select("course_id, COUNT(*) AS cnt").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CourseID] = row.Cnt
	}
	return counts, nil
}

func (r *courseRepo) SetLike(ctx context.Context, courseID, userID string, isLike bool) error {
	if isLike {
		return r.db.WithContext(ctx).Create(&model.CourseLike{
			CourseID: courseID,
			UserID:   userID,
		}).Error
	}
	return r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&model.CourseLike{}).Error
}

func (r *courseRepo) IsLiked(ctx context.Context, courseID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseLike{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

// candidateQuery applies the recommendation candidate filter: exclude courses
// the user already touched, keep courses matching an affinity category OR an
// affinity creator. Empty affinity sets match nothing.
func (r *courseRepo) candidateQuery(ctx context.Context, categories, creators, excludeCourseIDs []string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Course{})

	if len(excludeCourseIDs) > 0 {
		q = q.Where("courses.id NOT IN ?", excludeCourseIDs)
	}

	switch {
	case len(categories) > 0 && len(creators) > 0:
		q = q.Where("courses.type_id IN ? OR courses.creator_id IN ?", categories, creators)
	case len(categories) > 0:
		q = q.Where("courses.type_id IN ?", categories)
	case len(creators) > 0:
		q = q.Where("courses.creator_id IN ?", creators)
	default:
		// no affinity yet, nothing to recommend
		q = q.Where("1 = 0")
	}

	return q
}

func (r *courseRepo) Candidates(ctx context.Context, categories, creators, excludeCourseIDs []string) ([]model.Course, error) {
	var courses []model.Course
	err := r.candidateQuery(ctx, categories, creators, excludeCourseIDs).
		Preload("Creator").
		Preload("Type.MainType").
		Order("courses.created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) TopLikedByCreator(ctx context.Context, creatorID string, limit int) ([]CourseWithCount, error) {
	var rows []CourseWithCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT courses.*, COUNT(cl.user_id) AS cnt
		FROM course_likes cl
		JOIN courses ON cl.course_id = courses.id
		WHERE courses.creator_id = ?
		GROUP BY courses.id
		ORDER BY cnt DESC, courses.id
		LIMIT ?`,
		creatorID, limit,
	).Scan(&rows).Error
	return rows, err
}

func (r *courseRepo) TopViewedByCreator(ctx context.Context, creatorID string, limit int) ([]CourseWithCount, error) {
	var rows []CourseWithCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT courses.*, SUM(cv.views) AS cnt
		FROM course_videos cv
		JOIN courses ON cv.course_id = courses.id
		WHERE courses.creator_id = ?
		GROUP BY courses.id
		ORDER BY cnt DESC, courses.id
		LIMIT ?`,
		creatorID, limit,
	).Scan(&rows).Error
	return rows, err
}

func (r *courseRepo) CreateMaterial(ctx context.Context, material *model.CourseMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *courseRepo) GetMaterial(ctx context.Context, id string) (*model.CourseMaterial, error) {
	var material model.CourseMaterial
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&material).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *courseRepo) DeleteMaterial(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CourseMaterial{}).Error
}
