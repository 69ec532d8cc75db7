//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/internal/repository"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=slash password=slash dbname=slash_test sslmode=disable"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	err = testDB.AutoMigrate(
		&model.User{},
		&model.AuthCode{},
		&model.CourseType{},
		&model.CourseSubType{},
		&model.Course{},
		&model.CourseMaterial{},
		&model.CourseVideo{},
		&model.VideoRating{},
		&model.VideoComment{},
		&model.CourseLike{},
		&model.UserCourseProgress{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "automigrate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupCatalog creates an educator with one categorized course and returns a
// cleanup function removing everything it created.
func setupCatalog(t *testing.T) (educator *model.User, course *model.Course, subType *model.CourseSubType, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	educator = &model.User{
		FirstName:  "Integration",
		LastName:   "Educator",
		Email:      fmt.Sprintf("educator-%d@example.com", suffix),
		Password:   "irrelevant",
		IsVerified: true,
		Type:       model.RoleEducator,
	}
	if err := testDB.WithContext(ctx).Create(educator).Error; err != nil {
		t.Fatalf("create educator: %v", err)
	}

	mainType := &model.CourseType{
		Name:    fmt.Sprintf("main-%d", suffix),
		ValuePl: "programowanie",
		ValueEn: "programming",
	}
	if err := testDB.WithContext(ctx).Create(mainType).Error; err != nil {
		t.Fatalf("create main type: %v", err)
	}

	subType = &model.CourseSubType{
		Name:       fmt.Sprintf("sub-%d", suffix),
		ValuePl:    "frontend",
		ValueEn:    "frontend",
		MainTypeID: mainType.ID,
	}
	if err := testDB.WithContext(ctx).Create(subType).Error; err != nil {
		t.Fatalf("create sub type: %v", err)
	}

	course = &model.Course{
		Name:      fmt.Sprintf("Course %d", suffix),
		CreatorID: educator.ID,
		TypeID:    subType.ID,
	}
	if err := testDB.WithContext(ctx).Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	cleanup = func() {
		testDB.Where("course_id = ?", course.ID).Delete(&model.UserCourseProgress{})
		testDB.Where("course_id = ?", course.ID).Delete(&model.CourseLike{})
		testDB.Where("course_id = ?", course.ID).Delete(&model.CourseVideo{})
		testDB.Delete(course)
		testDB.Delete(subType)
		testDB.Delete(mainType)
		testDB.Delete(educator)
	}
	return educator, course, subType, cleanup
}

func addVideo(t *testing.T, courseID string, duration int, createdAt time.Time) *model.CourseVideo {
	t.Helper()
	video := &model.CourseVideo{
		Name:          "video",
		Link:          "videos/key",
		ThumbnailLink: "thumbnails/key",
		Duration:      duration,
		CourseID:      courseID,
		CreatedAt:     createdAt,
	}
	if err := testDB.Create(video).Error; err != nil {
		t.Fatalf("create video: %v", err)
	}
	return video
}

func addStudent(t *testing.T) *model.User {
	t.Helper()
	student := &model.User{
		FirstName:  "Integration",
		LastName:   "Student",
		Email:      fmt.Sprintf("student-%d@example.com", time.Now().UnixNano()),
		Password:   "irrelevant",
		IsVerified: true,
		Type:       model.RoleStudent,
	}
	if err := testDB.Create(student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return student
}

func TestProgressRepo_TotalWatchTime(t *testing.T) {
	_, course, _, cleanup := setupCatalog(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	addVideo(t, course.ID, 100, base)
	v2 := addVideo(t, course.ID, 150, base.Add(time.Minute))
	addVideo(t, course.ID, 999, base.Add(2*time.Minute)) // unreached

	student := addStudent(t)
	defer testDB.Delete(student)

	repo := repository.NewProgressRepo(testDB)
	if err := repo.Create(ctx, &model.UserCourseProgress{
		UserID:        student.ID,
		CourseID:      course.ID,
		CourseVideoID: v2.ID,
		WatchTime:     40,
	}); err != nil {
		t.Fatalf("create progress: %v", err)
	}
	defer testDB.Where("user_id = ?", student.ID).Delete(&model.UserCourseProgress{})

	// v1 at full duration, v2 at watch time, v3 excluded.
	total, err := repo.TotalWatchTime(ctx, student.ID)
	if err != nil {
		t.Fatalf("TotalWatchTime: %v", err)
	}
	if total != 140 {
		t.Errorf("expected 140, got %d", total)
	}
}

func TestProgressRepo_UniquePerCourse(t *testing.T) {
	_, course, _, cleanup := setupCatalog(t)
	defer cleanup()
	ctx := context.Background()

	video := addVideo(t, course.ID, 100, time.Now().Add(-time.Hour))
	student := addStudent(t)
	defer testDB.Delete(student)

	repo := repository.NewProgressRepo(testDB)
	row := &model.UserCourseProgress{UserID: student.ID, CourseID: course.ID, CourseVideoID: video.ID}
	if err := repo.Create(ctx, row); err != nil {
		t.Fatalf("create progress: %v", err)
	}
	defer testDB.Where("user_id = ?", student.ID).Delete(&model.UserCourseProgress{})

	dup := &model.UserCourseProgress{UserID: student.ID, CourseID: course.ID, CourseVideoID: video.ID}
	if err := repo.Create(ctx, dup); err == nil {
		t.Error("expected unique violation for a second row on the same course")
		testDB.Delete(dup)
	}
}

func TestCourseRepo_CandidatesExcludeWatched(t *testing.T) {
	educator, watched, subType, cleanup := setupCatalog(t)
	defer cleanup()
	ctx := context.Background()

	fresh := &model.Course{
		Name:      "fresh course",
		CreatorID: educator.ID,
		TypeID:    subType.ID,
	}
	if err := testDB.Create(fresh).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	defer testDB.Delete(fresh)

	repo := repository.NewCourseRepo(testDB)

	candidates, err := repo.Candidates(ctx, []string{subType.ID}, nil, []string{watched.ID})
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	for _, c := range candidates {
		if c.ID == watched.ID {
			t.Error("watched course must not be a candidate")
		}
	}
	found := false
	for _, c := range candidates {
		if c.ID == fresh.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected the unwatched same-category course as a candidate")
	}

	// Both affinity sets empty: no candidates at all.
	empty, err := repo.Candidates(ctx, nil, nil, nil)
	if err != nil {
		t.Fatalf("Candidates (empty affinity): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no candidates for empty affinity, got %d", len(empty))
	}
}

func TestCourseRepo_BestByCategoryCountsLikes(t *testing.T) {
	_, course, subType, cleanup := setupCatalog(t)
	defer cleanup()
	ctx := context.Background()

	s1 := addStudent(t)
	s2 := addStudent(t)
	defer testDB.Delete(s1)
	defer testDB.Delete(s2)

	repo := repository.NewCourseRepo(testDB)
	for _, userID := range []string{s1.ID, s2.ID} {
		if err := repo.SetLike(ctx, course.ID, userID, true); err != nil {
			t.Fatalf("SetLike: %v", err)
		}
	}

	rows, total, err := repo.BestByCategory(ctx, subType.ID, 0, 10)
	if err != nil {
		t.Fatalf("BestByCategory: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if len(rows) != 1 || rows[0].Count != 2 {
		t.Fatalf("expected one row with 2 likes, got %+v", rows)
	}
}
