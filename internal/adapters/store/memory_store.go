package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mikey/recruitflow-ingest/internal/core"
)

// MemoryStore is an in-process repository for local runs and tests
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]core.User
	projects   map[int64]core.Project
	members    map[int64]map[int64]struct{} // project -> users
	positions  map[int64]core.Position
	candidates map[int64]core.Candidate
	lastID     int64
}

// NewMemoryStore creates an empty in-memory repository
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]core.User),
		projects:   make(map[int64]core.Project),
		members:    make(map[int64]map[int64]struct{}),
		positions:  make(map[int64]core.Position),
		candidates: make(map[int64]core.Candidate),
	}
}

func (s *MemoryStore) nextID() int64 {
	s.lastID++
	return s.lastID
}

// UsersWithMailCredentials lists users whose mailbox can be read
func (s *MemoryStore) UsersWithMailCredentials(context.Context) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []core.User
	for _, u := range s.users {
		if u.HasMailCredentials() {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// PositionsForUser returns the distinct positions of the user's projects,
// oldest first
func (s *MemoryStore) PositionsForUser(_ context.Context, userID int64) ([]core.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positionsFor(userID), nil
}

func (s *MemoryStore) positionsFor(userID int64) []core.Position {
	var positions []core.Position
	for _, p := range s.positions {
		if _, ok := s.members[p.ProjectID][userID]; ok {
			positions = append(positions, p)
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })
	return positions
}

// GetPosition loads one position
func (s *MemoryStore) GetPosition(_ context.Context, positionID int64) (*core.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.positions[positionID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

// CreateCandidate stores the candidate and returns its id
func (s *MemoryStore) CreateCandidate(_ context.Context, c *core.Candidate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *c
	stored.ID = s.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.candidates[stored.ID] = stored

	c.CreatedAt, c.UpdatedAt = now, now
	return stored.ID, nil
}

// AttachResume records the stored resume reference on the candidate
func (s *MemoryStore) AttachResume(_ context.Context, candidateID int64, fileRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[candidateID]
	if !ok {
		return core.ErrNotFound
	}
	c.CVFile = fileRef
	c.UpdatedAt = time.Now().UTC()
	s.candidates[candidateID] = c
	return nil
}

// CandidatesForUser lists candidates of every position the user can see
func (s *MemoryStore) CandidatesForUser(_ context.Context, userID int64) ([]core.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make(map[int64]struct{})
	for _, p := range s.positionsFor(userID) {
		visible[p.ID] = struct{}{}
	}

	var candidates []core.Candidate
	for _, c := range s.candidates {
		if _, ok := visible[c.PositionID]; ok {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates, nil
}

// CreateUser stores a user and returns its id
func (s *MemoryStore) CreateUser(_ context.Context, u *core.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID()
	s.users[u.ID] = *u
	return u.ID, nil
}

// CreateProject stores a project and returns its id
func (s *MemoryStore) CreateProject(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	s.projects[id] = core.Project{ID: id, Name: name, CreatedAt: time.Now().UTC()}
	return id, nil
}

// AddProjectMember grants the user access to the project
func (s *MemoryStore) AddProjectMember(_ context.Context, projectID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return core.ErrNotFound
	}
	if s.members[projectID] == nil {
		s.members[projectID] = make(map[int64]struct{})
	}
	s.members[projectID][userID] = struct{}{}
	return nil
}

// CreatePosition stores a position and returns its id
func (s *MemoryStore) CreatePosition(_ context.Context, p *core.Position) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	p.CreatedAt = time.Now().UTC()
	s.positions[p.ID] = *p
	return p.ID, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
