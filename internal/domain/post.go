package domain

import (
	"context"
	"time"
)

// Post is a text entry owned by exactly one user. UserID is fixed at
// creation; there is no reassignment of ownership.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"userId"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostRepository defines the port for post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, userID int64, title, content string) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	// ListAll returns every post in creation order.
	ListAll(ctx context.Context) ([]Post, error)
	Update(ctx context.Context, id int64, title, content string) (*Post, error)
	Delete(ctx context.Context, id int64) error
}
