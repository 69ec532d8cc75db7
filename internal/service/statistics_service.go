package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// topListLimit caps each educator dashboard list.
const topListLimit = 10

// PopularityCache is a short-lived cache of per-course like counts. A miss is
// not an error; the caller falls back to the database.
type PopularityCache interface {
	GetPopularity(ctx context.Context, courseID string) (int64, bool)
	SetPopularity(ctx context.Context, courseID string, count int64)
	InvalidatePopularity(ctx context.Context, courseID string)
}

// StatisticsService covers watch progress, the student and educator
// dashboards and the recommendation feed.
type StatisticsService interface {
	// RecordProgress creates or updates the caller's progress on the course
	// that owns the given video. Validation and duplicate conflicts come back
	// as a soft MutationResult, not an error.
	RecordProgress(ctx context.Context, userID string, input *dto.ProgressInput, isUpdate bool) (*dto.MutationResult[dto.ProgressResponse], error)
	ListProgress(ctx context.Context, userID string, req *dto.ProgressListRequest) (*dto.PaginatedResult[dto.ProgressResponse], error)
	GetCourseProgress(ctx context.Context, userID, courseID string) (*dto.ProgressResponse, error)

	GetStudentStats(ctx context.Context, userID string) (*dto.StudentStats, error)
	GetEducatorStats(ctx context.Context, educatorID string) (*dto.EducatorStats, error)

	GetRecommended(ctx context.Context, userID string, req *dto.PaginationRequest) (*dto.PaginatedResult[dto.CourseResult], error)
}

type statisticsService struct {
	repo     *repository.Repository
	cache    PopularityCache
	resolver storage.LinkResolver
	logger   *zap.Logger
}

// NewStatisticsService creates the StatisticsService.
func NewStatisticsService(repo *repository.Repository, cache PopularityCache, resolver storage.LinkResolver, logger *zap.Logger) StatisticsService {
	return &statisticsService{repo: repo, cache: cache, resolver: resolver, logger: logger}
}

// ────────────────────── progress ──────────────────────

func (s *statisticsService) RecordProgress(ctx context.Context, userID string, input *dto.ProgressInput, isUpdate bool) (*dto.MutationResult[dto.ProgressResponse], error) {
	if fieldErrors := validateProgressInput(input); len(fieldErrors) > 0 {
		return &dto.MutationResult[dto.ProgressResponse]{Success: false, Errors: fieldErrors}, nil
	}

	video, err := s.repo.Video.GetByID(ctx, input.VideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		s.logger.Error("load video failed", zap.String("video_id", input.VideoID), zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.Progress.FindForCourse(ctx, userID, video.CourseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load progress failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if !isUpdate {
		return s.createProgress(ctx, userID, video, input, existing)
	}
	return s.updateProgress(ctx, video, input, existing)
}

func validateProgressInput(input *dto.ProgressInput) map[string]string {
	fieldErrors := make(map[string]string)
	if input.VideoID == "" {
		fieldErrors["videoId"] = "required"
	}
	if input.WatchTime != nil && *input.WatchTime < 0 {
		fieldErrors["watchTime"] = "invalid"
	}
	return fieldErrors
}

// createProgress inserts the first progress row for a (user, course) pair.
// Any existing row on the course blocks the insert with a soft error.
func (s *statisticsService) createProgress(ctx context.Context, userID string, video *model.CourseVideo, input *dto.ProgressInput, existing *model.UserCourseProgress) (*dto.MutationResult[dto.ProgressResponse], error) {
	if existing != nil {
		return &dto.MutationResult[dto.ProgressResponse]{
			Success: false,
			Errors:  map[string]string{"videoId": "duplicated"},
		}, nil
	}

	progress := &model.UserCourseProgress{
		UserID:        userID,
		CourseID:      video.CourseID,
		CourseVideoID: video.ID,
		WatchTime:     derefInt(input.WatchTime),
		HasEnded:      derefBool(input.HasEnded),
	}
	if err := s.repo.Progress.Create(ctx, progress); err != nil {
		s.logger.Error("create progress failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	progress.CourseVideo = video

	return &dto.MutationResult[dto.ProgressResponse]{
		Success: true,
		Result:  s.toProgressResponse(ctx, progress),
	}, nil
}

// updateProgress overwrites the row's watch time, ended flag and video
// linkage, unless the update would move backwards. A rewind to an earlier
// video, or a watch time at or below the stored value for the same video, is
// a no-op that returns the unchanged prior record as success.
func (s *statisticsService) updateProgress(ctx context.Context, video *model.CourseVideo, input *dto.ProgressInput, existing *model.UserCourseProgress) (*dto.MutationResult[dto.ProgressResponse], error) {
	if existing == nil {
		return nil, ErrProgressNotFound
	}

	noop := false
	switch {
	case existing.CourseVideoID == video.ID:
		noop = derefInt(input.WatchTime) <= existing.WatchTime
	case existing.CourseVideo != nil && existing.CourseVideo.CreatedAt.After(video.CreatedAt):
		noop = true
	}
	if noop {
		return &dto.MutationResult[dto.ProgressResponse]{
			Success: true,
			Result:  s.toProgressResponse(ctx, existing),
		}, nil
	}

	existing.CourseVideoID = video.ID
	existing.WatchTime = derefInt(input.WatchTime)
	existing.HasEnded = derefBool(input.HasEnded)
	existing.CourseVideo = video

	if err := s.repo.Progress.Update(ctx, existing); err != nil {
		s.logger.Error("update progress failed", zap.String("progress_id", existing.ID), zap.Error(err))
		return nil, err
	}

	return &dto.MutationResult[dto.ProgressResponse]{
		Success: true,
		Result:  s.toProgressResponse(ctx, existing),
	}, nil
}

func (s *statisticsService) ListProgress(ctx context.Context, userID string, req *dto.ProgressListRequest) (*dto.PaginatedResult[dto.ProgressResponse], error) {
	page, perPage := req.GetPage(), req.GetPerPage()

	rows, err := s.repo.Progress.List(ctx, userID, req.WithEnded, (page-1)*perPage, perPage)
	if err != nil {
		s.logger.Error("list progress failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// The total deliberately counts every progress row for the user, not just
	// the filtered subset.
	total, err := s.repo.Progress.CountAll(ctx, userID)
	if err != nil {
		s.logger.Error("count progress failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.ProgressResponse, 0, len(rows))
	for i := range rows {
		items = append(items, s.toProgressResponse(ctx, &rows[i]))
	}

	result := dto.NewPaginatedResult(items, total, page, perPage)
	return &result, nil
}

func (s *statisticsService) GetCourseProgress(ctx context.Context, userID, courseID string) (*dto.ProgressResponse, error) {
	progress, err := s.repo.Progress.FindForCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		s.logger.Error("load progress failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := s.toProgressResponse(ctx, progress)
	return &resp, nil
}

// ────────────────────── dashboards ──────────────────────

// GetStudentStats assembles the student dashboard. "New user, no history" is
// an expected steady state, so every aggregation failure degrades to a zeroed
// field instead of failing the whole response.
func (s *statisticsService) GetStudentStats(ctx context.Context, userID string) (*dto.StudentStats, error) {
	stats := &dto.StudentStats{}

	if n, err := s.repo.Progress.CountByEnded(ctx, userID, true); err != nil {
		s.logger.Warn("count ended courses failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		stats.CoursesEnded = n
	}

	if n, err := s.repo.Progress.CountByEnded(ctx, userID, false); err != nil {
		s.logger.Warn("count in-progress courses failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		stats.CoursesInProgress = n
	}

	if n, err := s.repo.Progress.TotalWatchTime(ctx, userID); err != nil {
		s.logger.Warn("sum watch time failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		stats.WatchTime = n
	}

	if educator, err := s.repo.Progress.FavEducator(ctx, userID); err != nil {
		s.logger.Warn("favourite educator failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		stats.FavEducator = toUserResponse(ctx, s.resolver, educator)
	}

	if category, err := s.repo.Progress.FavCategory(ctx, userID); err != nil {
		s.logger.Warn("favourite category failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		stats.FavCategory = toSubTypeResponse(category)
	}

	return stats, nil
}

func (s *statisticsService) GetEducatorStats(ctx context.Context, educatorID string) (*dto.EducatorStats, error) {
	liked, err := s.repo.Course.TopLikedByCreator(ctx, educatorID, topListLimit)
	if err != nil {
		s.logger.Error("top liked courses failed", zap.String("educator_id", educatorID), zap.Error(err))
		return nil, err
	}

	popular, err := s.repo.Course.TopViewedByCreator(ctx, educatorID, topListLimit)
	if err != nil {
		s.logger.Error("top viewed courses failed", zap.String("educator_id", educatorID), zap.Error(err))
		return nil, err
	}

	videos, err := s.repo.Video.TopViewedByCreator(ctx, educatorID, topListLimit)
	if err != nil {
		s.logger.Error("top viewed videos failed", zap.String("educator_id", educatorID), zap.Error(err))
		return nil, err
	}

	stats := &dto.EducatorStats{
		MostLikedCourses:   make([]dto.CourseWithLikes, 0, len(liked)),
		MostPopularCourses: make([]dto.CourseWithViews, 0, len(popular)),
		MostViewedVideos:   make([]dto.VideoResponse, 0, len(videos)),
	}
	for i := range liked {
		stats.MostLikedCourses = append(stats.MostLikedCourses, dto.CourseWithLikes{
			CourseResponse: toCourseResponse(ctx, s.resolver, &liked[i].Course),
			Likes:          liked[i].Count,
		})
	}
	for i := range popular {
		stats.MostPopularCourses = append(stats.MostPopularCourses, dto.CourseWithViews{
			CourseResponse: toCourseResponse(ctx, s.resolver, &popular[i].Course),
			Views:          popular[i].Count,
		})
	}
	for i := range videos {
		stats.MostViewedVideos = append(stats.MostViewedVideos, toVideoResponse(ctx, s.resolver, &videos[i]))
	}

	return stats, nil
}

// ────────────────────── recommendation feed ──────────────────────

// GetRecommended ranks every unwatched course matching the caller's category
// or creator affinity, then pages the sorted list. A user with no history gets
// an empty page, not an error.
func (s *statisticsService) GetRecommended(ctx context.Context, userID string, req *dto.PaginationRequest) (*dto.PaginatedResult[dto.CourseResult], error) {
	page, perPage := req.GetPage(), req.GetPerPage()

	categories, creators, err := s.repo.Progress.Affinity(ctx, userID)
	if err != nil {
		s.logger.Error("affinity extraction failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	watched, err := s.repo.Progress.CourseIDs(ctx, userID)
	if err != nil {
		s.logger.Error("watched course lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	candidates, err := s.repo.Course.Candidates(ctx, categories, creators, watched)
	if err != nil {
		s.logger.Error("candidate query failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	popularity, err := s.popularityFor(ctx, candidates)
	if err != nil {
		return nil, err
	}

	categorySet := toSet(categories)
	creatorSet := toSet(creators)

	type scored struct {
		course *model.Course
		score  float64
	}
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		course := &candidates[i]
		ranked = append(ranked, scored{
			course: course,
			score:  recommendationScore(course, categorySet, creatorSet, popularity[course.ID]),
		})
	}

	// The full candidate set is scored and sorted before paging, so every
	// page holds the globally next-best courses. Stable sort keeps the
	// newest-first candidate order on score ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	start := (page - 1) * perPage
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + perPage
	if end > len(ranked) {
		end = len(ranked)
	}

	items := make([]dto.CourseResult, 0, end-start)
	for _, entry := range ranked[start:end] {
		result, err := s.toCourseResult(ctx, entry.course)
		if err != nil {
			return nil, err
		}
		items = append(items, result)
	}

	result := dto.NewPaginatedResult(items, int64(len(ranked)), page, perPage)
	return &result, nil
}

// popularityFor resolves like counts for the candidate set, serving from the
// cache where possible and back-filling misses from one grouped query.
func (s *statisticsService) popularityFor(ctx context.Context, candidates []model.Course) (map[string]int64, error) {
	counts := make(map[string]int64, len(candidates))
	missing := make([]string, 0, len(candidates))

	for i := range candidates {
		id := candidates[i].ID
		if n, ok := s.cache.GetPopularity(ctx, id); ok {
			counts[id] = n
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		fetched, err := s.repo.Course.LikeCounts(ctx, missing)
		if err != nil {
			s.logger.Error("like count query failed", zap.Error(err))
			return nil, err
		}
		for _, id := range missing {
			counts[id] = fetched[id]
			s.cache.SetPopularity(ctx, id, fetched[id])
		}
	}

	return counts, nil
}

// recommendationScore combines category affinity, creator affinity and
// popularity. The popularity term saturates at 100 likes, so the score stays
// within [0, 1].
func recommendationScore(course *model.Course, categories, creators map[string]struct{}, popularity int64) float64 {
	score := 0.0
	if _, ok := categories[course.TypeID]; ok {
		score += 0.5
	}
	if _, ok := creators[course.CreatorID]; ok {
		score += 0.3
	}
	ratio := float64(popularity) / 100
	if ratio > 1 {
		ratio = 1
	}
	return score + 0.2*ratio
}

func (s *statisticsService) toCourseResult(ctx context.Context, course *model.Course) (dto.CourseResult, error) {
	result := dto.CourseResult{Course: toCourseResponse(ctx, s.resolver, course)}

	first, err := s.repo.Video.FirstOfCourse(ctx, course.ID)
	if err != nil {
		s.logger.Error("first video lookup failed", zap.String("course_id", course.ID), zap.Error(err))
		return dto.CourseResult{}, err
	}
	if first != nil {
		video := toVideoResponse(ctx, s.resolver, first)
		result.FirstVideo = &video
	}

	total, err := s.repo.Video.CountByCourse(ctx, course.ID)
	if err != nil {
		s.logger.Error("video count failed", zap.String("course_id", course.ID), zap.Error(err))
		return dto.CourseResult{}, err
	}
	result.TotalVideos = total

	return result, nil
}

// ────────────────────── helpers ──────────────────────

func (s *statisticsService) toProgressResponse(ctx context.Context, p *model.UserCourseProgress) dto.ProgressResponse {
	resp := dto.ProgressResponse{
		ID:        p.ID,
		HasEnded:  p.HasEnded,
		WatchTime: p.WatchTime,
		CreatedAt: p.CreatedAt,
	}
	if p.Course != nil {
		course := toCourseResponse(ctx, s.resolver, p.Course)
		resp.Course = &course
	}
	if p.CourseVideo != nil {
		video := toVideoResponse(ctx, s.resolver, p.CourseVideo)
		resp.CourseVideo = &video
	}
	return resp
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefBool(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}
