package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

func newTestSessions(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSessionStore(rdb, time.Hour), mr
}

func TestSessionLoginLoadLogout(t *testing.T) {
	store, _ := newTestSessions(t)
	ctx := context.Background()

	token, err := store.Login(ctx, "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	username, ok, err := store.Load(ctx, token)
	if err != nil || !ok || username != "alice" {
		t.Fatalf("load: got %q ok=%v err=%v", username, ok, err)
	}

	if err := store.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := store.Load(ctx, token); ok {
		t.Fatal("session still valid after logout")
	}
}

func TestSessionLoadUnknownToken(t *testing.T) {
	store, _ := newTestSessions(t)

	for _, token := range []string{"", "does-not-exist"} {
		username, ok, err := store.Load(context.Background(), token)
		if err != nil || ok || username != "" {
			t.Fatalf("Load(%q) = %q, %v, %v", token, username, ok, err)
		}
	}
}

func TestSessionSecondLoginReplacesFirst(t *testing.T) {
	store, _ := newTestSessions(t)
	ctx := context.Background()

	first, _ := store.Login(ctx, "alice")
	second, err := store.Login(ctx, "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if first == second {
		t.Fatal("tokens must rotate")
	}
	if _, ok, _ := store.Load(ctx, first); ok {
		t.Fatal("old session should be invalidated")
	}
	if _, ok, _ := store.Load(ctx, second); !ok {
		t.Fatal("new session should be valid")
	}

	// Logging out the stale token must not kill the live one.
	if err := store.Logout(ctx, first); err != nil {
		t.Fatalf("logout stale: %v", err)
	}
	if _, ok, _ := store.Load(ctx, second); !ok {
		t.Fatal("live session dropped by stale logout")
	}
}

func TestSessionInvalidateUser(t *testing.T) {
	store, mr := newTestSessions(t)
	ctx := context.Background()

	token, _ := store.Login(ctx, "alice")
	if err := store.InvalidateUser(ctx, "alice"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := store.Load(ctx, token); ok {
		t.Fatal("session survived InvalidateUser")
	}
	if mr.Exists(UserSessionKeyPrefix + "alice") {
		t.Fatal("reverse mapping survived InvalidateUser")
	}

	// no session at all is fine
	if err := store.InvalidateUser(ctx, "nobody"); err != nil {
		t.Fatalf("invalidate unknown: %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	store, mr := newTestSessions(t)
	ctx := context.Background()

	token, _ := store.Login(ctx, "alice")
	mr.FastForward(2 * time.Hour)

	if _, ok, _ := store.Load(ctx, token); ok {
		t.Fatal("session should have expired")
	}
}

func TestFlashesArePoppedOnceInOrder(t *testing.T) {
	store, mr := newTestSessions(t)
	ctx := context.Background()

	_ = store.AddFlash(ctx, "tok", models.Flash{Category: models.FlashWarning, Message: "first"})
	_ = store.AddFlash(ctx, "tok", models.Flash{Category: models.FlashSuccess, Message: "second"})

	if ttl := mr.TTL(FlashKeyPrefix + "tok"); ttl <= 0 || ttl > FlashTTL {
		t.Fatalf("unexpected flash ttl %s", ttl)
	}

	flashes, err := store.PopFlashes(ctx, "tok")
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if len(flashes) != 2 || flashes[0].Message != "first" || flashes[1].Category != models.FlashSuccess {
		t.Fatalf("unexpected flashes %+v", flashes)
	}

	again, err := store.PopFlashes(ctx, "tok")
	if err != nil || len(again) != 0 {
		t.Fatalf("flashes must be consumed, got %+v err=%v", again, err)
	}
}
