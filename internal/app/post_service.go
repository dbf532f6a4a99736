package app

import (
	"context"
	"errors"
	"strings"

	"weblog/internal/domain"
)

var (
	// ErrNotFound indicates that no post with the given id exists.
	ErrNotFound = errors.New("post not found")
	// ErrNotOwner indicates that the acting user does not own the post.
	ErrNotOwner = errors.New("not the owner of this post")
	// ErrEmptyTitle indicates a missing or blank title.
	ErrEmptyTitle = errors.New("title must not be empty")
	// ErrEmptyContent indicates missing or blank content.
	ErrEmptyContent = errors.New("content must not be empty")
)

// PostService encapsulates the post CRUD use cases. Ownership is the only
// authorization rule: no admin overrides, no shared ownership.
type PostService struct {
	repo domain.PostRepository
}

// NewPostService creates a PostService backed by the given repository.
func NewPostService(repo domain.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// ListAll returns every post in creation order.
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.repo.ListAll(ctx)
}

// Create validates and stores a new post owned by owner.
func (s *PostService) Create(ctx context.Context, owner *domain.User, title, content string) (*domain.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, owner.ID, title, content)
}

// Get returns the post with the given id, for edit prefill. The ownership
// check mirrors Update so a non-owner cannot read the edit view.
func (s *PostService) Get(ctx context.Context, actingUser *domain.User, id int64) (*domain.Post, error) {
	return s.authorize(ctx, actingUser, id)
}

// Update overwrites title and content of the post in place. The acting
// user must own the post.
func (s *PostService) Update(ctx context.Context, actingUser *domain.User, id int64, title, content string) (*domain.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, actingUser, id); err != nil {
		return nil, err
	}
	post, err := s.repo.Update(ctx, id, title, content)
	if err != nil {
		return nil, err
	}
	// The row can vanish between the ownership check and the update.
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Delete permanently removes the post. The acting user must own the post.
func (s *PostService) Delete(ctx context.Context, actingUser *domain.User, id int64) error {
	if _, err := s.authorize(ctx, actingUser, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *PostService) authorize(ctx context.Context, actingUser *domain.User, id int64) (*domain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.UserID != actingUser.ID {
		return nil, ErrNotOwner
	}
	return post, nil
}

func validatePost(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}
