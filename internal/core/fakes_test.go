package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

type fakeLedger struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{keys: make(map[string]struct{})}
}

func (l *fakeLedger) IsMember(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.keys[key]
	return ok, nil
}

func (l *fakeLedger) Add(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys[key] = struct{}{}
	return nil
}

func (l *fakeLedger) MarkIfAbsent(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.keys[key]; ok {
		return false, nil
	}
	l.keys[key] = struct{}{}
	return true, nil
}

func (l *fakeLedger) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

type fakeMailbox struct {
	messages map[string][]Message
	failFor  map[string]error
}

func (m *fakeMailbox) FetchRecent(_ context.Context, address, _ string, limit int) ([]Message, error) {
	if err := m.failFor[address]; err != nil {
		return nil, err
	}
	msgs := m.messages[address]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

type fakeRepo struct {
	mu         sync.Mutex
	users      []User
	positions  map[int64][]Position
	candidates []Candidate
	nextID     int64
	createErr  error
	attachErr  error
}

func (r *fakeRepo) UsersWithMailCredentials(context.Context) ([]User, error) {
	return r.users, nil
}

func (r *fakeRepo) PositionsForUser(_ context.Context, userID int64) ([]Position, error) {
	return r.positions[userID], nil
}

func (r *fakeRepo) GetPosition(_ context.Context, id int64) (*Position, error) {
	for _, list := range r.positions {
		for _, p := range list {
			if p.ID == id {
				p := p
				return &p, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) CreateCandidate(_ context.Context, c *Candidate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	stored := *c
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.candidates = append(r.candidates, stored)
	return r.nextID, nil
}

func (r *fakeRepo) AttachResume(_ context.Context, id int64, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachErr != nil {
		return r.attachErr
	}
	for i := range r.candidates {
		if r.candidates[i].ID == id {
			r.candidates[i].CVFile = ref
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) CandidatesForUser(context.Context, int64) ([]Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out, nil
}

func (r *fakeRepo) all() []Candidate {
	out, _ := r.CandidatesForUser(context.Background(), 0)
	return out
}

type fakeFiles struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (f *fakeFiles) Save(_ context.Context, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	ref := "resumes/" + filename
	f.saved[ref] = data
	return ref, nil
}

// fakeAnalyzer classifies by subject keyword, extracts the subject as the
// full name and the body as programming languages, and scores relevance by
// checking that every comma-separated requirement appears in the summary.
type fakeAnalyzer struct {
	mu            sync.Mutex
	classifyCalls int
	extractCalls  int
	scoreCalls    []string
	classifyErr   error
	extractErr    error
	extractEmpty  bool
	onClassify    func()
}

func (a *fakeAnalyzer) ClassifyIsResume(_ context.Context, subject, _, _ string) (bool, error) {
	a.mu.Lock()
	a.classifyCalls++
	a.mu.Unlock()
	if a.onClassify != nil {
		a.onClassify()
	}
	if a.classifyErr != nil {
		return false, a.classifyErr
	}
	return strings.Contains(strings.ToLower(subject), "cv"), nil
}

func (a *fakeAnalyzer) ExtractCandidate(_ context.Context, subject, body, _ string) (*ExtractedCandidateInfo, error) {
	a.mu.Lock()
	a.extractCalls++
	a.mu.Unlock()
	if a.extractErr != nil {
		return nil, a.extractErr
	}
	if a.extractEmpty {
		return &ExtractedCandidateInfo{}, nil
	}
	return &ExtractedCandidateInfo{
		FullName:             strings.TrimPrefix(subject, "CV "),
		ProgrammingLanguages: body,
		SpokenLanguages:      "English B2\nRussian Native",
	}, nil
}

func (a *fakeAnalyzer) ScoreRelevance(_ context.Context, summary, requirements string) (bool, error) {
	a.mu.Lock()
	a.scoreCalls = append(a.scoreCalls, requirements)
	a.mu.Unlock()
	if strings.TrimSpace(requirements) == "" {
		return true, nil
	}
	for _, req := range strings.Split(requirements, ",") {
		if !strings.Contains(summary, strings.TrimSpace(req)) {
			return false, nil
		}
	}
	return true, nil
}

type fakeLLM struct {
	mu        sync.Mutex
	calls     []*StructuredRequest
	responses map[string]string
	err       error
}

func (l *fakeLLM) GenerateStructured(_ context.Context, req *StructuredRequest) (string, error) {
	l.mu.Lock()
	l.calls = append(l.calls, req)
	l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	resp, ok := l.responses[req.Schema.Name]
	if !ok {
		return "", fmt.Errorf("no response for schema %s", req.Schema.Name)
	}
	return resp, nil
}

type fakeExtractor map[string]string

func (f fakeExtractor) Extract(filename string, _ []byte) string {
	return f[filename]
}

var errBoom = errors.New("boom")
