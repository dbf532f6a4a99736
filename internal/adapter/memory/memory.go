// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"weblog/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	posts    []domain.Post
	sessions map[string]*domain.Session

	userIDCounter int64
	postIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.PostRepository = (*PostRepo)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username, exact match.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// RemoveUser deletes a user row directly, bypassing the repository ports.
// It stands in for the out-of-band administrative removal that leaves
// stale sessions behind.
func (db *DB) RemoveUser(username string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, u := range db.users {
		if u.Username == username {
			db.users = append(db.users[:i], db.users[i+1:]...)
			return
		}
	}
}

// --- PostRepository ---

// PostRepo implements post persistence.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new post repository.
func (db *DB) NewPostRepo() *PostRepo {
	return &PostRepo{db: db}
}

// Create appends a new post owned by userID.
func (r *PostRepo) Create(ctx context.Context, userID int64, title, content string) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.postIDCounter++
	p := domain.Post{
		ID:        r.db.postIDCounter,
		Title:     title,
		Content:   content,
		UserID:    userID,
		Author:    r.db.usernameByID(userID),
		CreatedAt: time.Now().UTC(),
	}
	r.db.posts = append(r.db.posts, p)
	return &p, nil
}

// GetByID retrieves a post by ID.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.posts {
		if r.db.posts[i].ID == id {
			p := r.db.posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

// ListAll returns every post in insertion order.
func (r *PostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.Post, len(r.db.posts))
	copy(result, r.db.posts)
	return result, nil
}

// Update overwrites title and content in place.
func (r *PostRepo) Update(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.posts {
		if r.db.posts[i].ID == id {
			r.db.posts[i].Title = title
			r.db.posts[i].Content = content
			p := r.db.posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Delete removes the post permanently.
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.posts {
		if r.db.posts[i].ID == id {
			r.db.posts = append(r.db.posts[:i], r.db.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

// usernameByID is called with db.mu held.
func (db *DB) usernameByID(id int64) string {
	for _, u := range db.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, username, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
