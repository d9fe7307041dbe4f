package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/ports"
)

// In-memory fakes for the ports. They mirror the adapters' observable
// behavior closely enough for the use-case tests, including unique
// constraints among live rows and lazy window purging.

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[int64]domain.User
	nextID  int64
	lookups int // credential-store reads, for throttle-gate assertions
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) liveConflict(username, email string, excludeID int64) bool {
	for _, u := range r.users {
		if u.ID == excludeID || u.DeletedAt != nil {
			continue
		}
		if u.Username == username || u.Email == email {
			return true
		}
	}
	return false
}

func (r *fakeUserRepo) Create(_ context.Context, p ports.CreateUserParams) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.liveConflict(p.Username, p.Email, 0) {
		return domain.User{}, fmt.Errorf("%w: username or email already in use", domain.ErrConflict)
	}
	u := domain.User{
		ID:           r.nextID,
		Name:         p.Name,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		StatusID:     p.StatusID,
		LevelID:      p.LevelID,
		GenderID:     p.GenderID,
	}
	r.nextID++
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	for _, u := range r.users {
		if u.DeletedAt == nil && u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DeletedAt == nil && u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, f ports.UserFilter, limit, offset int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.User
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Name, f.Search) &&
			!strings.Contains(u.Username, f.Search) && !strings.Contains(u.Email, f.Search) {
			continue
		}
		if f.StatusID != 0 && u.StatusID != f.StatusID {
			continue
		}
		if f.LevelID != 0 && u.LevelID != f.LevelID {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, p ports.UpdateUserParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	if p.Email != nil && r.liveConflict("", *p.Email, id) {
		return fmt.Errorf("%w: email already in use", domain.ErrConflict)
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.StatusID != nil {
		u.StatusID = *p.StatusID
	}
	if p.LevelID != nil {
		u.LevelID = *p.LevelID
	}
	if p.GenderID != nil {
		u.GenderID = *p.GenderID
	}
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdateLastAccess(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastAccess = &at
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpires = &expiresAt
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.DeletedAt != nil || u.ResetTokenHash == "" || u.ResetTokenHash != tokenHash {
			continue
		}
		if u.ResetTokenExpires == nil || now.After(*u.ResetTokenExpires) {
			continue
		}
		u.PasswordHash = passwordHash
		u.ResetTokenHash = ""
		u.ResetTokenExpires = nil
		r.users[id] = u
		return id, nil
	}
	return 0, domain.ErrNotFound
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	u.DeletedAt = &at
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) Restore(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt == nil {
		return domain.ErrNotFound
	}
	if r.liveConflict(u.Username, u.Email, id) {
		return fmt.Errorf("%w: username or email reused since deletion", domain.ErrConflict)
	}
	u.DeletedAt = nil
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) HardDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt == nil {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]domain.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s domain.Session) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = s
	return s, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) TouchActivity(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.LastActivityAt = at
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.RevokedAt = &at
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) RevokeAllByUser(_ context.Context, userID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &at
			r.sessions[id] = s
		}
	}
	return nil
}

func (r *fakeSessionRepo) liveCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeAccessLogRepo struct {
	mu       sync.Mutex
	entries  []domain.AccessLogEntry
	failWith error
}

func (r *fakeAccessLogRepo) Record(_ context.Context, e domain.AccessLogEntry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, e)
	return e.ID, nil
}

func (r *fakeAccessLogRepo) List(_ context.Context, f ports.AccessLogFilter, limit, offset int) ([]domain.AccessLogEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.AccessLogEntry
	for _, e := range r.entries {
		if f.EventType != 0 && e.EventType != f.EventType {
			continue
		}
		if f.Success != nil && e.Success != *f.Success {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeAccessLogRepo) GetByID(_ context.Context, id int64) (domain.AccessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.AccessLogEntry{}, domain.ErrNotFound
}

func (r *fakeAccessLogRepo) last() (domain.AccessLogEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return domain.AccessLogEntry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

type fakeLookupRepo struct {
	rows []domain.Lookup
}

func (r *fakeLookupRepo) List(_ context.Context) ([]domain.Lookup, error) {
	return r.rows, nil
}

func (r *fakeLookupRepo) GetByID(_ context.Context, id int64) (domain.Lookup, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return domain.Lookup{}, domain.ErrNotFound
}

// fakeHasher makes hashes inspectable without bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Compare(hash, plaintext string) (bool, error) {
	return hash == "hashed:"+plaintext, nil
}

type fakeAttemptStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[string][]time.Time{}}
}

func (s *fakeAttemptStore) snapshot(key string, now time.Time, window time.Duration) ports.AttemptSnapshot {
	kept := s.attempts[key][:0]
	for _, at := range s.attempts[key] {
		if now.Sub(at) < window {
			kept = append(kept, at)
		}
	}
	s.attempts[key] = kept
	snap := ports.AttemptSnapshot{Count: len(kept)}
	if len(kept) > 0 {
		snap.OldestAt = kept[0]
	}
	return snap
}

func (s *fakeAttemptStore) Record(_ context.Context, key string, now time.Time, window time.Duration) (ports.AttemptSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(key, now, window)
	s.attempts[key] = append(s.attempts[key], now)
	return s.snapshot(key, now, window), nil
}

func (s *fakeAttemptStore) Snapshot(_ context.Context, key string, now time.Time, window time.Duration) (ports.AttemptSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(key, now, window), nil
}

func (s *fakeAttemptStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, key)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.PasswordResetMail
}

func (m *fakeMailer) EnqueuePasswordReset(_ context.Context, mail ports.PasswordResetMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) last() (ports.PasswordResetMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ports.PasswordResetMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}
