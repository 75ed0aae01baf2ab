package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

func TestInMemoryStoreCascadeDelete(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_ = s.Insert(ctx, &models.User{Username: "alice", Email: "a@x.com"})
	_ = s.Insert(ctx, &models.User{Username: "bob", Email: "b@x.com"})
	for _, owner := range []string{"alice", "alice", "bob"} {
		if err := s.Create(ctx, models.NewFeedback("t", "c", owner)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := s.DeleteWithFeedback(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if left, _ := s.ListByUser(ctx, "alice"); len(left) != 0 {
		t.Fatalf("alice's feedback survived: %+v", left)
	}
	if left, _ := s.ListByUser(ctx, "bob"); len(left) != 1 {
		t.Fatalf("bob's feedback touched: %+v", left)
	}
	if _, err := s.GetByUsername(ctx, "alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestInMemoryStoreUpdateKeepsOwner(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Insert(ctx, &models.User{Username: "alice", Email: "a@x.com"})

	fb := models.NewFeedback("t1", "c1", "alice")
	_ = s.Create(ctx, fb)

	fb.Apply("t2", "c2")
	fb.Username = "bob"
	if err := s.Update(ctx, fb); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.Get(ctx, fb.ID)
	if got.Title != "t2" || got.Content != "c2" || got.Username != "alice" {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestInMemoryStoreFeedbackNeedsUser(t *testing.T) {
	s := NewInMemoryStore()
	err := s.Create(context.Background(), models.NewFeedback("t", "c", "ghost"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
