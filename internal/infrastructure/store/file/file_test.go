package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/factoryhq/console/internal/core/domain"
)

func sampleSession() *domain.Session {
	return &domain.Session{
		Token: "tok-1",
		User: domain.User{
			ID:    "u1",
			Email: "a@b.test",
			Name:  "Ada",
			Role:  domain.RoleAdmin,
		},
		Factory: &domain.Factory{ID: "f1", Name: "Acme", Code: "ACM"},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	if err := s.Save(ctx, "sid-1", sampleSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "tok-1" || got.User.Email != "a@b.test" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Factory == nil || got.Factory.Code != "ACM" {
		t.Fatalf("factory did not survive the round trip: %+v", got.Factory)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "sid-1.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := s.Load(context.Background(), "sid-1")
	if !errors.Is(err, domain.ErrSessionCorrupt) {
		t.Fatalf("expected ErrSessionCorrupt, got %v", err)
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	if err := s.Save(ctx, "sid-1", sampleSession()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := s.Load(ctx, "sid-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestStore_RejectsPathTraversal(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		if err := s.Save(ctx, id, sampleSession()); err == nil {
			t.Fatalf("save with id %q should fail", id)
		}
		if _, err := s.Load(ctx, id); err == nil {
			t.Fatalf("load with id %q should fail", id)
		}
	}
}

func TestStore_PingCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	s := NewStore(dir)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist, err=%v", err)
	}
}
