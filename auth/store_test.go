package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"github.com/kbukum/reqkit/redis/redistest"
)

func testStore(t *testing.T, store TokenStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on empty store, got %v", err)
	}

	want := &Token{
		AccessToken:  "a1",
		RefreshToken: "r1",
		TokenType:    "Bearer",
		ExpiresAt:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken ||
		got.TokenType != want.TokenType || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound after Delete, got %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Errorf("Delete() of missing token should succeed, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	s := NewMemoryStore()
	tok := &Token{AccessToken: "a"}
	_ = s.Save(context.Background(), tok)
	tok.AccessToken = "mutated"

	got, _ := s.Load(context.Background())
	if got.AccessToken != "a" {
		t.Error("store must keep its own copy")
	}
}

func TestKeyringStore(t *testing.T) {
	testStore(t, NewKeyringStore(keyring.NewArrayKeyring(nil), "work"))
}

func TestKeyringStore_Profiles(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	ctx := context.Background()
	work := NewKeyringStore(ring, "work")
	home := NewKeyringStore(ring, "")

	_ = work.Save(ctx, &Token{AccessToken: "w"})
	if _, err := home.Load(ctx); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("profiles must not share tokens, got %v", err)
	}
	if _, err := ring.Get("token:work"); err != nil {
		t.Errorf("expected item under token:work, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	srv, client := redistest.Start(t)
	testStore(t, NewRedisStore(client, "reqkit", "ci"))

	ctx := context.Background()
	_ = NewRedisStore(client, "reqkit", "ci").Save(ctx, &Token{AccessToken: "a"})
	if _, err := srv.Get("reqkit:token:ci"); err != nil {
		t.Errorf("expected key reqkit:token:ci, got %v", err)
	}
}

func TestRedisStore_SharedBetweenProviders(t *testing.T) {
	_, client := redistest.Start(t)
	ctx := context.Background()

	var calls int32
	first := NewTokenProvider(countingRefresher(&calls, nil, &Token{AccessToken: "shared"}, nil),
		WithStore(NewRedisStore(client, "reqkit", "default")),
		WithInitialToken(&Token{RefreshToken: "r1"}))
	if _, err := first.AccessToken(ctx); err != nil {
		t.Fatal(err)
	}

	second := NewTokenProvider(nil, WithStore(NewRedisStore(client, "reqkit", "default")))
	got, err := second.AccessToken(ctx)
	if err != nil || got != "shared" {
		t.Errorf("second provider got %q, %v", got, err)
	}
}
