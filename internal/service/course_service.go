package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// MaterialUpload carries an uploaded course material file.
type MaterialUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CourseService covers the course catalog: CRUD, taxonomy, search, the
// popularity-ranked category listing, likes and materials.
type CourseService interface {
	Create(ctx context.Context, creatorID string, req *dto.CreateCourseRequest) (*dto.MutationResult[dto.CourseResponse], error)
	Update(ctx context.Context, callerID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, callerID, courseID string) error
	Get(ctx context.Context, courseID string) (*dto.CourseResponse, error)
	GetFull(ctx context.Context, courseID string) (*dto.FullCourseResponse, error)

	ListTypes(ctx context.Context, lang string) ([]dto.CourseTypeResponse, error)
	Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.PaginatedResult[dto.CourseResult], error)
	ListByCreator(ctx context.Context, req *dto.CreatorCoursesRequest) (*dto.PaginatedResult[dto.CreatorCourseResponse], error)
	BestByCategory(ctx context.Context, req *dto.BestCoursesRequest) (*dto.PaginatedResult[dto.CourseWithLikes], error)

	Like(ctx context.Context, userID, courseID string, isLike bool) error
	GetUserStatistics(ctx context.Context, userID, courseID string) (*dto.CourseUserStatistics, error)

	UploadMaterial(ctx context.Context, callerID, courseID string, upload *MaterialUpload) (*dto.MaterialResponse, error)
	DeleteMaterial(ctx context.Context, callerID, materialID string) error
}

type courseService struct {
	repo   *repository.Repository
	cache  PopularityCache
	store  storage.ObjectStore
	logger *zap.Logger
}

// NewCourseService creates the CourseService.
func NewCourseService(repo *repository.Repository, cache PopularityCache, store storage.ObjectStore, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, cache: cache, store: store, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *courseService) Create(ctx context.Context, creatorID string, req *dto.CreateCourseRequest) (*dto.MutationResult[dto.CourseResponse], error) {
	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "required"
	}
	if req.SubTypeID == "" {
		fieldErrors["subTypeId"] = "required"
	}
	if len(fieldErrors) > 0 {
		return &dto.MutationResult[dto.CourseResponse]{Success: false, Errors: fieldErrors}, nil
	}

	creator, err := s.repo.User.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if creator.Type != model.RoleEducator {
		return nil, ErrNotEducator
	}

	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   creatorID,
		TypeID:      req.SubTypeID,
	}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("create course failed", zap.String("creator_id", creatorID), zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Course.GetByID(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	return &dto.MutationResult[dto.CourseResponse]{
		Success: true,
		Result:  toCourseResponse(ctx, s.store, created),
	}, nil
}

func (s *courseService) Update(ctx context.Context, callerID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.ownedCourse(ctx, callerID, courseID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.SubTypeID != "" {
		course.TypeID = req.SubTypeID
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("update course failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(ctx, s.store, updated)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, callerID, courseID string) error {
	course, err := s.ownedCourse(ctx, callerID, courseID)
	if err != nil {
		return err
	}

	if err := s.repo.Course.Delete(ctx, course.ID); err != nil {
		s.logger.Error("delete course failed", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	s.cache.InvalidatePopularity(ctx, course.ID)
	return nil
}

func (s *courseService) Get(ctx context.Context, courseID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toCourseResponse(ctx, s.store, course)
	return &resp, nil
}

func (s *courseService) GetFull(ctx context.Context, courseID string) (*dto.FullCourseResponse, error) {
	course, err := s.repo.Course.GetFull(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	likes, err := s.likeCount(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := &dto.FullCourseResponse{
		CourseResponse: toCourseResponse(ctx, s.store, course),
		Videos:         make([]dto.VideoResponse, 0, len(course.Videos)),
		Materials:      make([]dto.MaterialResponse, 0, len(course.Materials)),
		LikesCount:     likes,
	}
	for i := range course.Videos {
		resp.Videos = append(resp.Videos, toVideoResponse(ctx, s.store, &course.Videos[i]))
	}
	for i := range course.Materials {
		resp.Materials = append(resp.Materials, toMaterialResponse(ctx, s.store, &course.Materials[i]))
	}

	return resp, nil
}

// ────────────────────── listings ──────────────────────

func (s *courseService) ListTypes(ctx context.Context, lang string) ([]dto.CourseTypeResponse, error) {
	types, err := s.repo.Course.ListTypes(ctx)
	if err != nil {
		s.logger.Error("list course types failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseTypeResponse, 0, len(types))
	for i := range types {
		t := &types[i]
		entry := dto.CourseTypeResponse{
			ID:       t.ID,
			Name:     t.Name,
			Value:    localizedValue(lang, t.ValuePl, t.ValueEn),
			SubTypes: make([]dto.CourseTypeEntry, 0, len(t.SubTypes)),
		}
		for j := range t.SubTypes {
			st := &t.SubTypes[j]
			entry.SubTypes = append(entry.SubTypes, dto.CourseTypeEntry{
				ID:    st.ID,
				Name:  st.Name,
				Value: localizedValue(lang, st.ValuePl, st.ValueEn),
			})
		}
		result = append(result, entry)
	}

	return result, nil
}

func (s *courseService) Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.PaginatedResult[dto.CourseResult], error) {
	page, perPage := req.GetPage(), req.GetPerPage()

	langColumn := "value_en"
	if req.Lang == "pl" {
		langColumn = "value_pl"
	}

	courses, total, err := s.repo.Course.Search(ctx, req.Search, langColumn, (page-1)*perPage, perPage)
	if err != nil {
		s.logger.Error("course search failed", zap.String("search", req.Search), zap.Error(err))
		return nil, err
	}

	items := make([]dto.CourseResult, 0, len(courses))
	for i := range courses {
		item, err := s.toCourseResult(ctx, &courses[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	result := dto.NewPaginatedResult(items, total, page, perPage)
	return &result, nil
}

func (s *courseService) ListByCreator(ctx context.Context, req *dto.CreatorCoursesRequest) (*dto.PaginatedResult[dto.CreatorCourseResponse], error) {
	page, perPage := req.GetPage(), req.GetPerPage()

	rows, total, err := s.repo.Course.ListByCreator(ctx, req.CreatorID, req.OrderBy, req.Order, (page-1)*perPage, perPage)
	if err != nil {
		s.logger.Error("creator courses failed", zap.String("creator_id", req.CreatorID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.CreatorCourseResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.CreatorCourseResponse{
			CourseResponse: toCourseResponse(ctx, s.store, &rows[i].Course),
			NumberOfVideos: rows[i].NumberOfVideos,
			NumberOfLikes:  rows[i].NumberOfLikes,
		})
	}

	result := dto.NewPaginatedResult(items, total, page, perPage)
	return &result, nil
}

func (s *courseService) BestByCategory(ctx context.Context, req *dto.BestCoursesRequest) (*dto.PaginatedResult[dto.CourseWithLikes], error) {
	page, perPage := req.GetPage(), req.GetPerPage()

	rows, total, err := s.repo.Course.BestByCategory(ctx, req.Category, (page-1)*perPage, perPage)
	if err != nil {
		s.logger.Error("best courses failed", zap.String("category", req.Category), zap.Error(err))
		return nil, err
	}

	items := make([]dto.CourseWithLikes, 0, len(rows))
	for i := range rows {
		items = append(items, dto.CourseWithLikes{
			CourseResponse: toCourseResponse(ctx, s.store, &rows[i].Course),
			Likes:          rows[i].Count,
		})
	}

	result := dto.NewPaginatedResult(items, total, page, perPage)
	return &result, nil
}

// ────────────────────── likes ──────────────────────

// Like toggles the like relation. Re-liking or re-unliking is a no-op.
func (s *courseService) Like(ctx context.Context, userID, courseID string, isLike bool) error {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	liked, err := s.repo.Course.IsLiked(ctx, courseID, userID)
	if err != nil {
		return err
	}
	if liked == isLike {
		return nil
	}

	if err := s.repo.Course.SetLike(ctx, courseID, userID, isLike); err != nil {
		s.logger.Error("toggle like failed", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	s.cache.InvalidatePopularity(ctx, courseID)
	return nil
}

func (s *courseService) GetUserStatistics(ctx context.Context, userID, courseID string) (*dto.CourseUserStatistics, error) {
	liked, err := s.repo.Course.IsLiked(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CourseUserStatistics{IsLiked: liked}, nil
}

// ────────────────────── materials ──────────────────────

func (s *courseService) UploadMaterial(ctx context.Context, callerID, courseID string, upload *MaterialUpload) (*dto.MaterialResponse, error) {
	course, err := s.ownedCourse(ctx, callerID, courseID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("materials/%s/%s%s", course.ID, uuid.New().String(), path.Ext(upload.Name))
	if err := s.store.Upload(ctx, storage.UtilityBucket, key, upload.Body); err != nil {
		s.logger.Error("upload material failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	material := &model.CourseMaterial{
		Name:     upload.Name,
		Link:     key,
		Type:     upload.ContentType,
		Size:     upload.Size,
		CourseID: course.ID,
	}
	if err := s.repo.Course.CreateMaterial(ctx, material); err != nil {
		s.logger.Error("save material failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	resp := toMaterialResponse(ctx, s.store, material)
	return &resp, nil
}

func (s *courseService) DeleteMaterial(ctx context.Context, callerID, materialID string) error {
	material, err := s.repo.Course.GetMaterial(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	if _, err := s.ownedCourse(ctx, callerID, material.CourseID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, storage.UtilityBucket, material.Link); err != nil {
		s.logger.Warn("delete material object failed", zap.String("key", material.Link), zap.Error(err))
	}

	return s.repo.Course.DeleteMaterial(ctx, materialID)
}

// ────────────────────── helpers ──────────────────────

// ownedCourse loads a course and checks the caller is its creator.
func (s *courseService) ownedCourse(ctx context.Context, callerID, courseID string) (*model.Course, error) {
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
	return course, nil
}

// likeCount serves the like count from the popularity cache, falling back to
// the database on a miss.
func (s *courseService) likeCount(ctx context.Context, courseID string) (int64, error) {
	if n, ok := s.cache.GetPopularity(ctx, courseID); ok {
		return n, nil
	}
	n, err := s.repo.Course.LikeCount(ctx, courseID)
	if err != nil {
		return 0, err
	}
	s.cache.SetPopularity(ctx, courseID, n)
	return n, nil
}

func (s *courseService) toCourseResult(ctx context.Context, course *model.Course) (dto.CourseResult, error) {
	result := dto.CourseResult{Course: toCourseResponse(ctx, s.store, course)}

	first, err := s.repo.Video.FirstOfCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseResult{}, err
	}
	if first != nil {
		video := toVideoResponse(ctx, s.store, first)
		result.FirstVideo = &video
	}

	total, err := s.repo.Video.CountByCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseResult{}, err
	}
	result.TotalVideos = total

	return result, nil
}
