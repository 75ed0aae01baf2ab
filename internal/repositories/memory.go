package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

// InMemoryStore implements UserStore and FeedbackStore over maps with the same
// uniqueness and ownership rules as the PostgreSQL schema.
type InMemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	feedback map[int64]models.Feedback
	nextID   int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[string]models.User),
		feedback: make(map[int64]models.Feedback),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return fmt.Errorf("insert user %q: %w", user.Username, ErrUsernameTaken)
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("insert user %q: %w", user.Username, ErrEmailTaken)
		}
	}
	s.users[user.Username] = *user
	return nil
}

func (s *InMemoryStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *InMemoryStore) DeleteWithFeedback(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; !exists {
		return ErrUserNotFound
	}
	for id, fb := range s.feedback {
		if fb.Username == username {
			delete(s.feedback, id)
		}
	}
	delete(s.users, username)
	return nil
}

func (s *InMemoryStore) Create(_ context.Context, fb *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[fb.Username]; !exists {
		return fmt.Errorf("create feedback for %q: %w", fb.Username, ErrUserNotFound)
	}
	s.nextID++
	fb.ID = s.nextID
	s.feedback[fb.ID] = *fb
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fb, exists := s.feedback[id]
	if !exists {
		return nil, ErrFeedbackNotFound
	}
	return &fb, nil
}

func (s *InMemoryStore) Update(_ context.Context, fb *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.feedback[fb.ID]
	if !exists {
		return ErrFeedbackNotFound
	}
	stored.Title = fb.Title
	stored.Content = fb.Content
	s.feedback[fb.ID] = stored
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.feedback[id]; !exists {
		return ErrFeedbackNotFound
	}
	delete(s.feedback, id)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, username string) ([]models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Feedback, 0)
	for _, fb := range s.feedback {
		if fb.Username == username {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var (
	_ UserStore     = (*InMemoryStore)(nil)
	_ FeedbackStore = (*InMemoryStore)(nil)
)
