package models

import "testing"

func TestFeedbackApplyKeepsIdentity(t *testing.T) {
	fb := NewFeedback("t1", "c1", "alice")
	fb.ID = 42

	fb.Apply("t2", "c2")

	if fb.Title != "t2" || fb.Content != "c2" {
		t.Fatalf("title/content not updated: %+v", fb)
	}
	if fb.ID != 42 || fb.Username != "alice" {
		t.Fatalf("id/username must not change: %+v", fb)
	}
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace"}
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Fatalf("unexpected full name %q", got)
	}
	u.LastName = ""
	if got := u.FullName(); got != "Ada" {
		t.Fatalf("unexpected full name %q", got)
	}
}
