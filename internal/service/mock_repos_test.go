package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/repository"
	"github.com/michalwarchol/slash-api/pkg/storage"
)

// ts returns a fixed base time shifted by n minutes, for deterministic
// creation-order fixtures.
func ts(n int) time.Time {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(n) * time.Minute)
}

// ── mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	codes []*model.AuthCode
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		m.seq++
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) CreateAuthCode(_ context.Context, code *model.AuthCode) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *mockUserRepo) GetValidAuthCode(_ context.Context, userID, code string) (*model.AuthCode, error) {
	for _, c := range m.codes {
		if c.UserID == userID && c.Code == code && c.ValidUntil.After(time.Now()) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) DeleteAuthCodes(_ context.Context, userID string) error {
	kept := m.codes[:0]
	for _, c := range m.codes {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	m.codes = kept
	return nil
}

// ── mock CourseRepository ──

type mockCourseRepo struct {
	users     *mockUserRepo
	courses   map[string]*model.Course
	subTypes  map[string]*model.CourseSubType
	types     []model.CourseType
	likes     map[string]map[string]bool
	materials map[string]*model.CourseMaterial
	videos    *mockVideoRepo
	seq       int
}

func newMockCourseRepo(users *mockUserRepo) *mockCourseRepo {
	return &mockCourseRepo{
		users:     users,
		courses:   make(map[string]*model.Course),
		subTypes:  make(map[string]*model.CourseSubType),
		likes:     make(map[string]map[string]bool),
		materials: make(map[string]*model.CourseMaterial),
	}
}

func (m *mockCourseRepo) attach(c *model.Course) *model.Course {
	course := *c
	course.Creator = m.users.users[c.CreatorID]
	course.Type = m.subTypes[c.TypeID]
	return &course
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.ID == "" {
		m.seq++
		course.ID = fmt.Sprintf("course-%d", m.seq)
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = ts(m.seq)
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return m.attach(c), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetFull(ctx context.Context, id string) (*model.Course, error) {
	course, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, v := range m.videos.sortedByCourse(id) {
		course.Videos = append(course.Videos, *v)
	}
	for _, mat := range m.materials {
		if mat.CourseID == id {
			course.Materials = append(course.Materials, *mat)
		}
	}
	return course, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) ListTypes(_ context.Context) ([]model.CourseType, error) {
	return m.types, nil
}

func (m *mockCourseRepo) Search(_ context.Context, search, _ string, offset, limit int) ([]model.Course, int64, error) {
	var matched []model.Course
	for _, c := range m.sortedCourses() {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			matched = append(matched, *m.attach(c))
		}
	}
	total := int64(len(matched))
	return pageSlice(matched, offset, limit), total, nil
}

func (m *mockCourseRepo) ListByCreator(_ context.Context, creatorID, _, _ string, offset, limit int) ([]repository.CreatorCourseStats, int64, error) {
	var rows []repository.CreatorCourseStats
	for _, c := range m.sortedCourses() {
		if c.CreatorID != creatorID {
			continue
		}
		rows = append(rows, repository.CreatorCourseStats{
			Course:         *m.attach(c),
			NumberOfVideos: int64(len(m.videos.sortedByCourse(c.ID))),
			NumberOfLikes:  m.likeCount(c.ID),
		})
	}
	total := int64(len(rows))
	return pageSlice(rows, offset, limit), total, nil
}

func (m *mockCourseRepo) BestByCategory(_ context.Context, category string, offset, limit int) ([]repository.CourseWithCount, int64, error) {
	var rows []repository.CourseWithCount
	for _, c := range m.sortedCourses() {
		st := m.subTypes[c.TypeID]
		if st == nil || st.Name != category {
			continue
		}
		likes := m.likeCount(c.ID)
		if likes == 0 {
			continue
		}
		rows = append(rows, repository.CourseWithCount{Course: *m.attach(c), Count: likes})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	total := int64(len(rows))
	return pageSlice(rows, offset, limit), total, nil
}

func (m *mockCourseRepo) likeCount(courseID string) int64 {
	return int64(len(m.likes[courseID]))
}

func (m *mockCourseRepo) LikeCount(_ context.Context, courseID string) (int64, error) {
	return m.likeCount(courseID), nil
}

func (m *mockCourseRepo) LikeCounts(_ context.Context, courseIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, id := range courseIDs {
		if n := m.likeCount(id); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *mockCourseRepo) SetLike(_ context.Context, courseID, userID string, isLike bool) error {
	if m.likes[courseID] == nil {
		m.likes[courseID] = make(map[string]bool)
	}
	if isLike {
		m.likes[courseID][userID] = true
	} else {
		delete(m.likes[courseID], userID)
	}
	return nil
}

func (m *mockCourseRepo) IsLiked(_ context.Context, courseID, userID string) (bool, error) {
	return m.likes[courseID][userID], nil
}

func (m *mockCourseRepo) Candidates(_ context.Context, categories, creators, excludeCourseIDs []string) ([]model.Course, error) {
	if len(categories) == 0 && len(creators) == 0 {
		return nil, nil
	}
	excluded := make(map[string]bool)
	for _, id := range excludeCourseIDs {
		excluded[id] = true
	}
	categorySet := make(map[string]bool)
	for _, id := range categories {
		categorySet[id] = true
	}
	creatorSet := make(map[string]bool)
	for _, id := range creators {
		creatorSet[id] = true
	}

	var result []model.Course
	for _, c := range m.sortedCourses() {
		if excluded[c.ID] {
			continue
		}
		if categorySet[c.TypeID] || creatorSet[c.CreatorID] {
			result = append(result, *m.attach(c))
		}
	}
	return result, nil
}

func (m *mockCourseRepo) TopLikedByCreator(_ context.Context, creatorID string, limit int) ([]repository.CourseWithCount, error) {
	var rows []repository.CourseWithCount
	for _, c := range m.sortedCourses() {
		if c.CreatorID != creatorID {
			continue
		}
		if likes := m.likeCount(c.ID); likes > 0 {
			rows = append(rows, repository.CourseWithCount{Course: *m.attach(c), Count: likes})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *mockCourseRepo) TopViewedByCreator(_ context.Context, creatorID string, limit int) ([]repository.CourseWithCount, error) {
	var rows []repository.CourseWithCount
	for _, c := range m.sortedCourses() {
		if c.CreatorID != creatorID {
			continue
		}
		var views int64
		for _, v := range m.videos.sortedByCourse(c.ID) {
			views += v.Views
		}
		if views > 0 {
			rows = append(rows, repository.CourseWithCount{Course: *m.attach(c), Count: views})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *mockCourseRepo) CreateMaterial(_ context.Context, material *model.CourseMaterial) error {
	if material.ID == "" {
		m.seq++
		material.ID = fmt.Sprintf("material-%d", m.seq)
	}
	m.materials[material.ID] = material
	return nil
}

func (m *mockCourseRepo) GetMaterial(_ context.Context, id string) (*model.CourseMaterial, error) {
	if mat, ok := m.materials[id]; ok {
		return mat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) DeleteMaterial(_ context.Context, id string) error {
	delete(m.materials, id)
	return nil
}

func (m *mockCourseRepo) sortedCourses() []*model.Course {
	result := make([]*model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		result = append(result, c)
	}
	// newest first, matching the candidate query order
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// ── mock VideoRepository ──

type mockVideoRepo struct {
	courses  *mockCourseRepo
	videos   map[string]*model.CourseVideo
	ratings  map[string]*model.VideoRating
	comments map[string]*model.VideoComment
	users    *mockUserRepo
	seq      int
}

func newMockVideoRepo(users *mockUserRepo) *mockVideoRepo {
	return &mockVideoRepo{
		users:    users,
		videos:   make(map[string]*model.CourseVideo),
		ratings:  make(map[string]*model.VideoRating),
		comments: make(map[string]*model.VideoComment),
	}
}

func (m *mockVideoRepo) attach(v *model.CourseVideo) *model.CourseVideo {
	video := *v
	if c, ok := m.courses.courses[v.CourseID]; ok {
		video.Course = m.courses.attach(c)
	}
	return &video
}

func (m *mockVideoRepo) Create(_ context.Context, video *model.CourseVideo) error {
	if video.ID == "" {
		m.seq++
		video.ID = fmt.Sprintf("video-%d", m.seq)
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = ts(100 + m.seq)
	}
	m.videos[video.ID] = video
	return nil
}

func (m *mockVideoRepo) GetByID(_ context.Context, id string) (*model.CourseVideo, error) {
	if v, ok := m.videos[id]; ok {
		return m.attach(v), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVideoRepo) GetFull(ctx context.Context, id string) (*model.CourseVideo, error) {
	return m.GetByID(ctx, id)
}

func (m *mockVideoRepo) Update(_ context.Context, video *model.CourseVideo) error {
	stored := *video
	stored.Course = nil
	m.videos[video.ID] = &stored
	return nil
}

func (m *mockVideoRepo) Delete(_ context.Context, id string) error {
	delete(m.videos, id)
	return nil
}

func (m *mockVideoRepo) sortedByCourse(courseID string) []*model.CourseVideo {
	var result []*model.CourseVideo
	for _, v := range m.videos {
		if v.CourseID == courseID {
			result = append(result, v)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (m *mockVideoRepo) FirstOfCourse(_ context.Context, courseID string) (*model.CourseVideo, error) {
	videos := m.sortedByCourse(courseID)
	if len(videos) == 0 {
		return nil, nil
	}
	return videos[0], nil
}

func (m *mockVideoRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	return int64(len(m.sortedByCourse(courseID))), nil
}

func (m *mockVideoRepo) NeighbourIDs(_ context.Context, video *model.CourseVideo) (string, string, error) {
	videos := m.sortedByCourse(video.CourseID)
	var previousID, nextID string
	for i, v := range videos {
		if v.ID == video.ID {
			if i > 0 {
				previousID = videos[i-1].ID
			}
			if i < len(videos)-1 {
				nextID = videos[i+1].ID
			}
		}
	}
	return previousID, nextID, nil
}

func (m *mockVideoRepo) IncrementViews(_ context.Context, id string) error {
	v, ok := m.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Views++
	return nil
}

func (m *mockVideoRepo) AverageRating(_ context.Context, videoID string) (float64, error) {
	var sum, count float64
	for _, r := range m.ratings {
		if r.VideoID == videoID {
			sum += float64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

func (m *mockVideoRepo) GetRating(_ context.Context, videoID, authorID string) (*model.VideoRating, error) {
	if r, ok := m.ratings[videoID+"/"+authorID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVideoRepo) UpsertRating(_ context.Context, rating *model.VideoRating) error {
	m.ratings[rating.VideoID+"/"+rating.AuthorID] = rating
	return nil
}

func (m *mockVideoRepo) SaveComment(_ context.Context, comment *model.VideoComment) error {
	if comment.ID == "" {
		m.seq++
		comment.ID = fmt.Sprintf("comment-%d", m.seq)
		comment.CreatedAt = ts(200 + m.seq)
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockVideoRepo) GetComment(_ context.Context, id string) (*model.VideoComment, error) {
	if c, ok := m.comments[id]; ok {
		comment := *c
		comment.Author = m.users.users[c.AuthorID]
		return &comment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVideoRepo) ListComments(_ context.Context, videoID, _, _ string, offset, limit int) ([]model.VideoComment, int64, error) {
	var result []model.VideoComment
	for _, c := range m.comments {
		if c.VideoID != videoID {
			continue
		}
		comment := *c
		comment.Author = m.users.users[c.AuthorID]
		result = append(result, comment)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	total := int64(len(result))
	return pageSlice(result, offset, limit), total, nil
}

func (m *mockVideoRepo) TopViewedByCreator(_ context.Context, creatorID string, limit int) ([]model.CourseVideo, error) {
	var result []model.CourseVideo
	for _, v := range m.videos {
		c, ok := m.courses.courses[v.CourseID]
		if !ok || c.CreatorID != creatorID {
			continue
		}
		result = append(result, *v)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Views > result[j].Views })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── mock ProgressRepository ──

type mockProgressRepo struct {
	rows    map[string]*model.UserCourseProgress
	courses *mockCourseRepo
	videos  *mockVideoRepo
	users   *mockUserRepo
	seq     int
}

func newMockProgressRepo(users *mockUserRepo, courses *mockCourseRepo, videos *mockVideoRepo) *mockProgressRepo {
	return &mockProgressRepo{
		rows:    make(map[string]*model.UserCourseProgress),
		courses: courses,
		videos:  videos,
		users:   users,
	}
}

func (m *mockProgressRepo) Create(_ context.Context, progress *model.UserCourseProgress) error {
	if progress.ID == "" {
		m.seq++
		progress.ID = fmt.Sprintf("prog-%d", m.seq)
		progress.CreatedAt = ts(300 + m.seq)
	}
	stored := *progress
	stored.Course = nil
	stored.CourseVideo = nil
	m.rows[progress.ID] = &stored
	return nil
}

func (m *mockProgressRepo) Update(_ context.Context, progress *model.UserCourseProgress) error {
	stored := *progress
	stored.Course = nil
	stored.CourseVideo = nil
	m.rows[progress.ID] = &stored
	return nil
}

func (m *mockProgressRepo) attach(p *model.UserCourseProgress) *model.UserCourseProgress {
	row := *p
	if c, ok := m.courses.courses[p.CourseID]; ok {
		row.Course = m.courses.attach(c)
	}
	if v, ok := m.videos.videos[p.CourseVideoID]; ok {
		video := *v
		row.CourseVideo = &video
	}
	return &row
}

func (m *mockProgressRepo) FindForCourse(_ context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	for _, p := range m.rows {
		if p.UserID == userID && p.CourseID == courseID {
			return m.attach(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) userRows(userID string) []*model.UserCourseProgress {
	var result []*model.UserCourseProgress
	for _, p := range m.rows {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *mockProgressRepo) List(_ context.Context, userID string, withEnded bool, offset, limit int) ([]model.UserCourseProgress, error) {
	var result []model.UserCourseProgress
	for _, p := range m.userRows(userID) {
		if !withEnded && p.HasEnded {
			continue
		}
		result = append(result, *m.attach(p))
	}
	return pageSlice(result, offset, limit), nil
}

func (m *mockProgressRepo) CountAll(_ context.Context, userID string) (int64, error) {
	return int64(len(m.userRows(userID))), nil
}

func (m *mockProgressRepo) CountByEnded(_ context.Context, userID string, ended bool) (int64, error) {
	var count int64
	for _, p := range m.userRows(userID) {
		if p.HasEnded == ended {
			count++
		}
	}
	return count, nil
}

func (m *mockProgressRepo) TotalWatchTime(_ context.Context, userID string) (int64, error) {
	var total int64
	for _, p := range m.userRows(userID) {
		current, ok := m.videos.videos[p.CourseVideoID]
		if !ok {
			continue
		}
		for _, v := range m.videos.sortedByCourse(p.CourseID) {
			if v.CreatedAt.After(current.CreatedAt) {
				continue
			}
			if v.ID == current.ID && !p.HasEnded {
				total += int64(p.WatchTime)
			} else {
				total += int64(v.Duration)
			}
		}
	}
	return total, nil
}

func (m *mockProgressRepo) Affinity(_ context.Context, userID string) ([]string, []string, error) {
	var categories, creators []string
	seenCategory := make(map[string]bool)
	seenCreator := make(map[string]bool)
	for _, p := range m.userRows(userID) {
		c, ok := m.courses.courses[p.CourseID]
		if !ok {
			continue
		}
		if !seenCategory[c.TypeID] {
			seenCategory[c.TypeID] = true
			categories = append(categories, c.TypeID)
		}
		if !seenCreator[c.CreatorID] {
			seenCreator[c.CreatorID] = true
			creators = append(creators, c.CreatorID)
		}
	}
	return categories, creators, nil
}

func (m *mockProgressRepo) CourseIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, p := range m.userRows(userID) {
		ids = append(ids, p.CourseID)
	}
	return ids, nil
}

func (m *mockProgressRepo) FavEducator(_ context.Context, userID string) (*model.User, error) {
	counts := make(map[string]int)
	for _, p := range m.userRows(userID) {
		if c, ok := m.courses.courses[p.CourseID]; ok {
			counts[c.CreatorID]++
		}
	}
	var bestID string
	best := 0
	for id, n := range counts {
		if n > best {
			best, bestID = n, id
		}
	}
	if bestID == "" {
		return nil, nil
	}
	return m.users.users[bestID], nil
}

func (m *mockProgressRepo) FavCategory(_ context.Context, userID string) (*model.CourseSubType, error) {
	counts := make(map[string]int)
	for _, p := range m.userRows(userID) {
		if c, ok := m.courses.courses[p.CourseID]; ok {
			counts[c.TypeID]++
		}
	}
	var bestID string
	best := 0
	for id, n := range counts {
		if n > best {
			best, bestID = n, id
		}
	}
	if bestID == "" {
		return nil, nil
	}
	return m.courses.subTypes[bestID], nil
}

// ── fake object store ──

type fakeStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) ResolveLink(_ context.Context, _ storage.Bucket, key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

func (f *fakeStore) Upload(_ context.Context, _ storage.Bucket, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, _ storage.Bucket, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) Download(_ context.Context, _ storage.Bucket, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s", key)
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

// ── fake cache and blacklist ──

type fakeCache struct {
	counts      map[string]int64
	blacklisted map[string]bool
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int64), blacklisted: make(map[string]bool)}
}

func (f *fakeCache) GetPopularity(_ context.Context, courseID string) (int64, bool) {
	n, ok := f.counts[courseID]
	return n, ok
}

func (f *fakeCache) SetPopularity(_ context.Context, courseID string, count int64) {
	f.counts[courseID] = count
}

func (f *fakeCache) InvalidatePopularity(_ context.Context, courseID string) {
	delete(f.counts, courseID)
	f.invalidated = append(f.invalidated, courseID)
}

func (f *fakeCache) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	f.blacklisted[jti] = true
	return nil
}

func (f *fakeCache) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.blacklisted[jti], nil
}

// ── fake mailer ──

type sentMail struct {
	to   string
	code string
}

type fakeMailer struct {
	activations     []sentMail
	passwordChanges []sentMail
}

func (f *fakeMailer) SendActivationCode(to, _, code string) error {
	f.activations = append(f.activations, sentMail{to: to, code: code})
	return nil
}

func (f *fakeMailer) SendPasswordChangeCode(to, _, code string) error {
	f.passwordChanges = append(f.passwordChanges, sentMail{to: to, code: code})
	return nil
}

// ── fixture ──

type fixture struct {
	users    *mockUserRepo
	courses  *mockCourseRepo
	videos   *mockVideoRepo
	progress *mockProgressRepo
	repo     *repository.Repository
	store    *fakeStore
	cache    *fakeCache
	mail     *fakeMailer
}

func newFixture() *fixture {
	users := newMockUserRepo()
	courses := newMockCourseRepo(users)
	videos := newMockVideoRepo(users)
	courses.videos = videos
	videos.courses = courses
	progress := newMockProgressRepo(users, courses, videos)

	return &fixture{
		users:    users,
		courses:  courses,
		videos:   videos,
		progress: progress,
		repo: &repository.Repository{
			User:     users,
			Course:   courses,
			Video:    videos,
			Progress: progress,
		},
		store: newFakeStore(),
		cache: newFakeCache(),
		mail:  &fakeMailer{},
	}
}

func (f *fixture) addUser(id, role string) *model.User {
	user := &model.User{
		ID:         id,
		FirstName:  "Test",
		LastName:   id,
		Email:      id + "@example.com",
		Type:       role,
		IsVerified: true,
	}
	f.users.users[id] = user
	return user
}

func (f *fixture) addSubType(id, name string) *model.CourseSubType {
	st := &model.CourseSubType{ID: id, Name: name, ValuePl: name, ValueEn: name, MainTypeID: "type-1"}
	f.courses.subTypes[id] = st
	return st
}

func (f *fixture) addCourse(id, creatorID, typeID string, createdAt time.Time) *model.Course {
	course := &model.Course{
		ID:        id,
		Name:      "Course " + id,
		CreatorID: creatorID,
		TypeID:    typeID,
		CreatedAt: createdAt,
	}
	f.courses.courses[id] = course
	return course
}

func (f *fixture) addVideo(id, courseID string, duration int, createdAt time.Time) *model.CourseVideo {
	video := &model.CourseVideo{
		ID:        id,
		Name:      "Video " + id,
		Link:      "videos/" + id,
		Duration:  duration,
		CourseID:  courseID,
		CreatedAt: createdAt,
	}
	f.videos.videos[id] = video
	return video
}

func (f *fixture) like(courseID string, userIDs ...string) {
	if f.courses.likes[courseID] == nil {
		f.courses.likes[courseID] = make(map[string]bool)
	}
	for _, id := range userIDs {
		f.courses.likes[courseID][id] = true
	}
}

func pageSlice[T any](items []T, offset, limit int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
