package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"weblog/internal/domain"
)

type mockPostRepo struct {
	createFn  func(ctx context.Context, userID int64, title, content string) (*domain.Post, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Post, error)
	listFn    func(ctx context.Context) ([]domain.Post, error)
	updateFn  func(ctx context.Context, id int64, title, content string) (*domain.Post, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockPostRepo) Create(ctx context.Context, userID int64, title, content string) (*domain.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, title, content)
	}
	return &domain.Post{ID: 1, Title: title, Content: content, UserID: userID, CreatedAt: time.Now()}, nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) Update(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, title, content)
	}
	return &domain.Post{ID: id, Title: title, Content: content}, nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

var (
	alice = &domain.User{ID: 1, Username: "alice"}
	bob   = &domain.User{ID: 2, Username: "bob"}
)

func TestPostService_Create_Success(t *testing.T) {
	ctx := context.Background()

	repo := &mockPostRepo{
		createFn: func(ctx context.Context, userID int64, title, content string) (*domain.Post, error) {
			if userID != alice.ID {
				t.Errorf("expected owner %d, got %d", alice.ID, userID)
			}
			return &domain.Post{ID: 7, Title: title, Content: content, UserID: userID}, nil
		},
	}

	svc := NewPostService(repo)
	post, err := svc.Create(ctx, alice, "T", "C")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post.ID != 7 || post.Title != "T" {
		t.Errorf("unexpected post %+v", post)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(&mockPostRepo{})

	if _, err := svc.Create(ctx, alice, "  ", "C"); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, "T", ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestPostService_Update_ByOwner(t *testing.T) {
	ctx := context.Background()

	repo := &mockPostRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, Title: "T", Content: "C", UserID: alice.ID}, nil
		},
		updateFn: func(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
			return &domain.Post{ID: id, Title: title, Content: content, UserID: alice.ID}, nil
		},
	}

	svc := NewPostService(repo)
	post, err := svc.Update(ctx, alice, 1, "T2", "C2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post.Title != "T2" || post.Content != "C2" {
		t.Errorf("unexpected post %+v", post)
	}
}

func TestPostService_Update_NotOwner(t *testing.T) {
	ctx := context.Background()

	updated := false
	repo := &mockPostRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, Title: "T", Content: "C", UserID: alice.ID}, nil
		},
		updateFn: func(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
			updated = true
			return nil, nil
		},
	}

	svc := NewPostService(repo)
	_, err := svc.Update(ctx, bob, 1, "T2", "C2")
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if updated {
		t.Error("post must be left unchanged on a failed ownership check")
	}
}

func TestPostService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(&mockPostRepo{})

	_, err := svc.Update(ctx, alice, 99, "T", "C")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostService_Update_VanishedAfterCheck(t *testing.T) {
	ctx := context.Background()

	// The post passes the ownership check but is gone by the time the
	// repository runs the update.
	repo := &mockPostRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, Title: "T", Content: "C", UserID: alice.ID}, nil
		},
		updateFn: func(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
			return nil, nil
		},
	}

	svc := NewPostService(repo)
	_, err := svc.Update(ctx, alice, 1, "T2", "C2")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostService_Delete_NotOwner(t *testing.T) {
	ctx := context.Background()

	deleted := false
	repo := &mockPostRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, UserID: alice.ID}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}

	svc := NewPostService(repo)
	err := svc.Delete(ctx, bob, 1)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if deleted {
		t.Error("post must not be deleted by a non-owner")
	}
}

func TestPostService_Delete_ByOwner(t *testing.T) {
	ctx := context.Background()

	var deletedID int64
	repo := &mockPostRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, UserID: alice.ID}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}

	svc := NewPostService(repo)
	if err := svc.Delete(ctx, alice, 4); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deletedID != 4 {
		t.Errorf("expected delete of post 4, got %d", deletedID)
	}
}

func TestPostService_Get_OwnershipMirrorsUpdate(t *testing.T) {
	ctx := context.Background()

	repo := &mockPostRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, UserID: alice.ID}, nil
		},
	}

	svc := NewPostService(repo)
	if _, err := svc.Get(ctx, bob, 1); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.Get(ctx, alice, 1); err != nil {
		t.Errorf("expected no error for owner, got %v", err)
	}
}
