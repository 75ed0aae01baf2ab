package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/pkg/utils"
)

var cheapParams = utils.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestIdentity() (*IdentityService, *repositories.InMemoryStore) {
	store := repositories.NewInMemoryStore()
	svc := NewIdentityService(store)
	svc.PasswordParams = cheapParams
	return svc, store
}

func TestNewUserHashesAndDoesNotPersist(t *testing.T) {
	u, err := NewUser("alice", "pw1", " A@X.com ", "A", "L")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if u.Password == "pw1" || !strings.HasPrefix(u.Password, "$argon2id$") {
		t.Fatalf("password not hashed: %q", u.Password)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if ok, _ := utils.VerifyPassword("pw1", u.Password); !ok {
		t.Fatal("hash does not verify")
	}
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc, store := newTestIdentity()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "a@x.com", "A", "L"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if stored, _ := store.GetByUsername(ctx, "alice"); stored.Password == "pw1" {
		t.Fatal("plaintext password persisted")
	}

	u, err := svc.Authenticate(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Username != "alice" || u.Email != "a@x.com" || u.FirstName != "A" || u.LastName != "L" {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUserLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newTestIdentity()

	_, err := svc.Authenticate(context.Background(), "nobody", "pw1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateCorruptHash(t *testing.T) {
	svc, store := newTestIdentity()
	if err := store.Insert(context.Background(), &models.User{Username: "broken", Password: "plaintext", Email: "b@x.com"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(context.Background(), "broken", "plaintext"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newTestIdentity()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "a@x.com", "A", "L"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "pw2", "other@x.com", "A", "L"); !errors.Is(err, repositories.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice2", "pw2", "A@x.com", "A", "L"); !errors.Is(err, repositories.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestConcurrentRegistrationsOnlyOneWins(t *testing.T) {
	svc, _ := newTestIdentity()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), "alice", "pw", strings.Repeat("x", i+1)+"@x.com", "A", "L")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repositories.ErrUsernameTaken):
			taken++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if ok != 1 || taken != 1 {
		t.Fatalf("expected exactly one success, got ok=%d taken=%d", ok, taken)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestIdentity()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "a@x.com", "A", "L"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Delete(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "alice"); !errors.Is(err, repositories.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "alice"); !errors.Is(err, repositories.ErrUserNotFound) {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}
