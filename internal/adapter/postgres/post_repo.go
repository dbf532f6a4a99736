package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weblog/internal/domain"
)

// PostRepo implements post repository operations on DB.
type PostRepo struct {
	db *DB
}

// NewPostRepo wraps a DB as a PostRepository.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create inserts a new post owned by userID.
func (r *PostRepo) Create(ctx context.Context, userID int64, title, content string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO posts (title, content, user_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id, title, content, user_id, created_at",
		title, content, userID, time.Now(),
	).Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a post by ID, including the owner's username.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = $1",
		id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.Author, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every post in insertion order.
func (r *PostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at FROM posts p JOIN users u ON u.id = p.user_id ORDER BY p.id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.Author, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites title and content of the post in place.
func (r *PostRepo) Update(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		"UPDATE posts SET title = $1, content = $2 WHERE id = $3 RETURNING id, title, content, user_id, created_at",
		title, content, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the post permanently.
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}
