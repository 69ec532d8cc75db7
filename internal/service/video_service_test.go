package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/internal/dto"
	"github.com/michalwarchol/slash-api/internal/model"
)

func newVideoSvc(f *fixture) VideoService {
	return NewVideoService(f.repo, f.store, zap.NewNop())
}

func TestVideoService_Create_Success(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	svc := newVideoSvc(f)

	result, err := svc.Create(context.Background(), "edu-1", "course-1",
		&dto.VideoInput{Name: "Intro", Description: "First lesson"},
		&VideoUpload{
			Video:        strings.NewReader("video-bytes"),
			VideoExt:     ".mp4",
			Thumbnail:    strings.NewReader("thumb-bytes"),
			ThumbnailExt: ".png",
			Duration:     321,
		})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Errors)
	}
	if result.Result.Duration != 321 {
		t.Errorf("expected duration=321, got %d", result.Result.Duration)
	}
	if len(f.store.objects) != 2 {
		t.Errorf("expected video and thumbnail stored, got %d objects", len(f.store.objects))
	}
}

func TestVideoService_Create_Validation(t *testing.T) {
	f := newFixture()
	svc := newVideoSvc(f)

	result, err := svc.Create(context.Background(), "edu-1", "course-1", &dto.VideoInput{}, &VideoUpload{})
	if err != nil {
		t.Fatalf("validation should not error: %v", err)
	}
	if result.Success {
		t.Fatal("expected soft failure")
	}
	for _, field := range []string{"name", "video", "thumbnail"} {
		if result.Errors[field] != "required" {
			t.Errorf("expected %s=required, got %v", field, result.Errors)
		}
	}
}

func TestVideoService_Create_NotOwner(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	svc := newVideoSvc(f)

	_, err := svc.Create(context.Background(), "someone-else", "course-1",
		&dto.VideoInput{Name: "Intro"},
		&VideoUpload{Video: strings.NewReader("v"), Thumbnail: strings.NewReader("t")})
	if !errors.Is(err, ErrNotCourseOwner) {
		t.Errorf("expected ErrNotCourseOwner, got %v", err)
	}
}

func TestVideoService_GetFull_NeighboursAndRating(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	f.addVideo("video-1", "course-1", 100, ts(11))
	f.addVideo("video-2", "course-1", 100, ts(12))
	f.addVideo("video-3", "course-1", 100, ts(13))
	// A video of another course must not show up as a neighbour.
	f.addCourse("course-2", "edu-1", "cat-frontend", ts(2))
	f.addVideo("video-x", "course-2", 100, ts(14))

	f.videos.ratings["video-2/u1"] = &model.VideoRating{Rating: 4, VideoID: "video-2", AuthorID: "u1"}
	f.videos.ratings["video-2/u2"] = &model.VideoRating{Rating: 5, VideoID: "video-2", AuthorID: "u2"}
	svc := newVideoSvc(f)

	full, err := svc.GetFull(context.Background(), "video-2")
	if err != nil {
		t.Fatalf("GetFull failed: %v", err)
	}
	if full.PreviousVideoID != "video-1" || full.NextVideoID != "video-3" {
		t.Errorf("expected neighbours video-1/video-3, got %q/%q", full.PreviousVideoID, full.NextVideoID)
	}
	if full.Rating != 4.5 {
		t.Errorf("expected rating=4.5, got %v", full.Rating)
	}
	if full.Course == nil || full.Course.ID != "course-1" {
		t.Error("expected owning course attached")
	}
}

func TestVideoService_IncreaseViews(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	f.addVideo("video-1", "course-1", 100, ts(11))
	svc := newVideoSvc(f)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := svc.IncreaseViews(ctx, "video-1"); err != nil {
			t.Fatalf("IncreaseViews failed: %v", err)
		}
	}
	if f.videos.videos["video-1"].Views != 3 {
		t.Errorf("expected 3 views, got %d", f.videos.videos["video-1"].Views)
	}

	if err := svc.IncreaseViews(ctx, "nope"); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoService_Rate_Upserts(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addUser("student-1", model.RoleStudent)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	f.addVideo("video-1", "course-1", 100, ts(11))
	svc := newVideoSvc(f)

	ctx := context.Background()
	if err := svc.Rate(ctx, "student-1", "video-1", 3); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if err := svc.Rate(ctx, "student-1", "video-1", 5); err != nil {
		t.Fatalf("re-Rate failed: %v", err)
	}

	rating, err := svc.GetRating(ctx, "student-1", "video-1")
	if err != nil {
		t.Fatalf("GetRating failed: %v", err)
	}
	if rating.Rating == nil || *rating.Rating != 5 {
		t.Errorf("expected rating 5, got %+v", rating.Rating)
	}

	// No rating stored yet for another user.
	none, err := svc.GetRating(ctx, "student-2", "video-1")
	if err != nil {
		t.Fatalf("GetRating failed: %v", err)
	}
	if none.Rating != nil {
		t.Errorf("expected nil rating, got %v", *none.Rating)
	}
}

func TestVideoService_Comments(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addUser("student-1", model.RoleStudent)
	f.addUser("student-2", model.RoleStudent)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	f.addVideo("video-1", "course-1", 100, ts(11))
	svc := newVideoSvc(f)

	ctx := context.Background()
	comment, err := svc.Comment(ctx, "student-1", "video-1", &dto.CommentRequest{Text: "Great lesson"})
	if err != nil {
		t.Fatalf("Comment failed: %v", err)
	}
	if comment.Author == nil || comment.Author.ID != "student-1" {
		t.Error("expected author attached")
	}

	// Editing someone else's comment is forbidden.
	if _, err := svc.Comment(ctx, "student-2", "video-1", &dto.CommentRequest{Text: "edit", CommentID: comment.ID}); !errors.Is(err, ErrNotCommentAuthor) {
		t.Errorf("expected ErrNotCommentAuthor, got %v", err)
	}

	edited, err := svc.Comment(ctx, "student-1", "video-1", &dto.CommentRequest{Text: "Updated", CommentID: comment.ID})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Text != "Updated" {
		t.Errorf("expected updated text, got %q", edited.Text)
	}

	list, err := svc.ListComments(ctx, "video-1", &dto.CommentListRequest{})
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(list.Data) != 1 || list.PaginatorInfo.Total != 1 {
		t.Errorf("expected 1 comment, got %d (total %d)", len(list.Data), list.PaginatorInfo.Total)
	}
}

func TestVideoService_Delete_RemovesObjects(t *testing.T) {
	f := newFixture()
	f.addUser("edu-1", model.RoleEducator)
	f.addSubType("cat-frontend", "frontend")
	f.addCourse("course-1", "edu-1", "cat-frontend", ts(1))
	video := f.addVideo("video-1", "course-1", 100, ts(11))
	video.ThumbnailLink = "thumbnails/video-1"
	svc := newVideoSvc(f)

	if err := svc.Delete(context.Background(), "edu-1", "video-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := f.videos.videos["video-1"]; ok {
		t.Error("expected video row removed")
	}
	if len(f.store.deleted) != 2 {
		t.Errorf("expected 2 object deletions, got %d", len(f.store.deleted))
	}
}
