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

func newUserSvc(f *fixture) UserService {
	return NewUserService(f.repo, f.store, zap.NewNop())
}

func TestUserService_Get(t *testing.T) {
	f := newFixture()
	user := f.addUser("student-1", model.RoleStudent)
	user.Avatar = "avatars/abc.png"
	svc := newUserSvc(f)

	resp, err := svc.Get(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.Avatar != "https://cdn.test/avatars/abc.png" {
		t.Errorf("expected resolved avatar link, got %q", resp.Avatar)
	}

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_PartialFields(t *testing.T) {
	f := newFixture()
	f.addUser("student-1", model.RoleStudent)
	svc := newUserSvc(f)

	newName := "Ola"
	resp, err := svc.Update(context.Background(), "student-1", &dto.UpdateUserRequest{FirstName: &newName})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.FirstName != "Ola" {
		t.Errorf("expected firstName=Ola, got %q", resp.FirstName)
	}
	if resp.LastName != "student-1" {
		t.Errorf("lastName must stay untouched, got %q", resp.LastName)
	}
}

func TestUserService_UploadAvatar_ReplacesOldObject(t *testing.T) {
	f := newFixture()
	user := f.addUser("student-1", model.RoleStudent)
	user.Avatar = "avatars/old.png"
	f.store.objects["avatars/old.png"] = []byte("old")
	svc := newUserSvc(f)

	resp, err := svc.UploadAvatar(context.Background(), "student-1", ".png", strings.NewReader("new-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar failed: %v", err)
	}
	if !strings.HasPrefix(resp.Avatar, "https://cdn.test/avatars/") {
		t.Errorf("expected resolved avatar link, got %q", resp.Avatar)
	}
	if user.Avatar == "avatars/old.png" {
		t.Error("expected avatar key replaced")
	}
	if _, ok := f.store.objects["avatars/old.png"]; ok {
		t.Error("expected old avatar object deleted")
	}
}
