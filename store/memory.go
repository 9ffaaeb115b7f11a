package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/medimatch/api/model"
)

type memorySession struct {
	email     string
	expiresAt time.Time
}

// memoryStore keeps everything in process memory behind a single mutex. It is
// the `memory` driver and the backbone of the handler test suites. Slices keep
// insertion order so catalog iteration matches the relational stores.
type memoryStore struct {
	mu sync.Mutex

	users     []model.User
	nextID    uint
	sessions  map[string]memorySession
	hospitals []model.HospitalProfile
	matches   []model.Match
	counters  model.StatCounters
	views     map[string]int64
	legalText string
	legalSet  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		nextID:   1,
		sessions: make(map[string]memorySession),
		views:    make(map[string]int64),
	}
}

func (s *memoryStore) GetUser(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = model.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *memoryStore) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = model.NormalizeEmail(user.Email)
	for i, u := range s.users {
		if u.Email == user.Email {
			user.ID = u.ID
			user.CreatedAt = u.CreatedAt
			user.UpdatedAt = time.Now()
			s.users[i] = *user
			return nil
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users = append(s.users, *user)
	return nil
}

func (s *memoryStore) DeleteUser(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = model.NormalizeEmail(email)
	for i, u := range s.users {
		if u.Email == email {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	for token, sess := range s.sessions {
		if sess.email == email {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *memoryStore) GetAllUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *memoryStore) SaveAllUsers(ctx context.Context, users []model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]model.User, len(users))
	for i, u := range users {
		u.Email = model.NormalizeEmail(u.Email)
		if u.ID == 0 {
			u.ID = s.nextID
			s.nextID++
		}
		s.users[i] = u
	}
	return nil
}

func (s *memoryStore) SetSession(ctx context.Context, token, email string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{email: model.NormalizeEmail(email), expiresAt: expiresAt}
	return nil
}

func (s *memoryStore) GetSessionUser(ctx context.Context, token string) (model.User, error) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	if ok && time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return model.User{}, ErrNotFound
	}
	return s.GetUser(ctx, sess.email)
}

func (s *memoryStore) ClearSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memoryStore) GetHospitals(ctx context.Context) ([]model.HospitalProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.HospitalProfile, len(s.hospitals))
	copy(out, s.hospitals)
	return out, nil
}

func (s *memoryStore) GetHospital(ctx context.Context, id string) (model.HospitalProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hospitals {
		if h.ID == id {
			return h, nil
		}
	}
	return model.HospitalProfile{}, ErrNotFound
}

func (s *memoryStore) SaveHospitals(ctx context.Context, hospitals []model.HospitalProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hospitals = make([]model.HospitalProfile, len(hospitals))
	copy(s.hospitals, hospitals)
	for i := range s.hospitals {
		s.hospitals[i].SortIndex = i
	}
	return nil
}

func (s *memoryStore) AddHospital(ctx context.Context, hospital model.HospitalProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hospitals = append([]model.HospitalProfile{hospital}, s.hospitals...)
	for i := range s.hospitals {
		s.hospitals[i].SortIndex = i
	}
	return nil
}

func (s *memoryStore) UpdateHospital(ctx context.Context, hospital model.HospitalProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.hospitals {
		if h.ID == hospital.ID {
			hospital.SortIndex = h.SortIndex
			s.hospitals[i] = hospital
			return nil
		}
	}
	// Unknown id: deliberate no-op.
	return nil
}

func (s *memoryStore) DeleteHospital(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.hospitals {
		if h.ID == id {
			s.hospitals = append(s.hospitals[:i], s.hospitals[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memoryStore) GetMatches(ctx context.Context, userEmail string) ([]model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userEmail = model.NormalizeEmail(userEmail)
	var out []model.Match
	for _, m := range s.matches {
		if m.UserEmail == userEmail {
			out = append(out, cloneMatch(m))
		}
	}
	return out, nil
}

func (s *memoryStore) GetMatch(ctx context.Context, id string) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			return cloneMatch(m), nil
		}
	}
	return model.Match{}, ErrNotFound
}

func (s *memoryStore) SaveMatch(ctx context.Context, match model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match.UserEmail = model.NormalizeEmail(match.UserEmail)
	for _, m := range s.matches {
		if m.UserEmail == match.UserEmail && m.HospitalID == match.HospitalID {
			return cloneMatch(m), nil
		}
	}
	match.CreatedAt = time.Now()
	match.UpdatedAt = match.CreatedAt
	s.matches = append(s.matches, cloneMatch(match))
	return match, nil
}

func (s *memoryStore) UpdateMatch(ctx context.Context, match model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.matches {
		if m.ID == match.ID {
			match.UserEmail = m.UserEmail
			match.CreatedAt = m.CreatedAt
			match.UpdatedAt = time.Now()
			s.matches[i] = cloneMatch(match)
			return nil
		}
	}
	return nil
}

func (s *memoryStore) GetStats(ctx context.Context) (model.AppStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := model.AppStats{
		TotalLogins:        s.counters.TotalLogins,
		TotalRegistrations: s.counters.TotalRegistrations,
		TotalMessages:      s.counters.TotalMessages,
		HospitalViews:      make(map[string]int64, len(s.views)),
	}
	for id, n := range s.views {
		stats.HospitalViews[id] = n
	}
	return stats, nil
}

func (s *memoryStore) IncrementStat(ctx context.Context, kind StatKind, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case StatLogin:
		s.counters.TotalLogins++
	case StatRegistration:
		s.counters.TotalRegistrations++
	case StatMessage:
		s.counters.TotalMessages++
	case StatView:
		if entityID == "" {
			return ErrMissingEntityID
		}
		s.views[entityID]++
	default:
		return fmt.Errorf("increment stat: unknown kind %q", kind)
	}
	return nil
}

func (s *memoryStore) GetLegalText(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.legalSet {
		return model.DefaultLegalText, nil
	}
	return s.legalText, nil
}

func (s *memoryStore) SaveLegalText(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legalText = text
	s.legalSet = true
	return nil
}

func cloneMatch(m model.Match) model.Match {
	out := m
	out.Messages = make([]model.ChatMessage, len(m.Messages))
	copy(out.Messages, m.Messages)
	return out
}
