package memory

import (
	"context"
	"testing"
	"time"
)

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Create(ctx, "alice", "digest")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}

	// Duplicate username rejected
	if _, err := db.Create(ctx, "alice", "other"); err == nil {
		t.Error("expected error for duplicate username")
	}

	got, err := db.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Errorf("expected user %d, got %+v", u.ID, got)
	}
	if got.PasswordHash != "digest" {
		t.Errorf("expected stored digest, got %q", got.PasswordHash)
	}

	// Exact case-sensitive match only
	miss, _ := db.GetByUsername(ctx, "Alice")
	if miss != nil {
		t.Error("expected case-sensitive lookup to miss")
	}

	byID, _ := db.GetByID(ctx, u.ID)
	if byID == nil || byID.Username != "alice" {
		t.Errorf("expected alice by id, got %+v", byID)
	}
}

func TestPostRepository(t *testing.T) {
	db := New()
	repo := db.NewPostRepo()
	ctx := context.Background()

	owner, _ := db.Create(ctx, "alice", "digest")

	first, err := repo.Create(ctx, owner.ID, "first", "one")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, _ := repo.Create(ctx, owner.ID, "second", "two")

	if first.Author != "alice" {
		t.Errorf("expected author 'alice', got %q", first.Author)
	}

	// Insertion order
	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("expected posts in creation order, got %+v", all)
	}

	// Update in place
	updated, err := repo.Update(ctx, first.ID, "renamed", "one")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("expected title 'renamed', got %q", updated.Title)
	}
	got, _ := repo.GetByID(ctx, first.ID)
	if got.Title != "renamed" {
		t.Error("expected update to be visible in GetByID")
	}

	// Hard delete, no tombstone
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, _ := repo.GetByID(ctx, first.ID)
	if gone != nil {
		t.Errorf("expected post %d gone, got %+v", first.ID, gone)
	}
	all, _ = repo.ListAll(ctx)
	if len(all) != 1 {
		t.Errorf("expected 1 post remaining, got %d", len(all))
	}

	// Missing ids resolve to nil, not errors
	missing, err := repo.GetByID(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for missing post, got (%+v, %v)", missing, err)
	}
}

func TestSessionRepository(t *testing.T) {
	db := New()
	repo := db.NewSessionRepo()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	if err := repo.Create(ctx, "alice", "tok", expires); err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, err := repo.GetByToken(ctx, "tok")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if s == nil || s.Username != "alice" {
		t.Errorf("expected session for alice, got %+v", s)
	}

	if err := repo.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	s, _ = repo.GetByToken(ctx, "tok")
	if s != nil {
		t.Error("expected session gone after delete")
	}

	// Expired sweep
	_ = repo.Create(ctx, "alice", "old", time.Now().Add(-time.Minute))
	_ = repo.Create(ctx, "alice", "fresh", time.Now().Add(time.Hour))
	if err := repo.DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "old"); s != nil {
		t.Error("expected expired session swept")
	}
	if s, _ := repo.GetByToken(ctx, "fresh"); s == nil {
		t.Error("expected fresh session kept")
	}
}
