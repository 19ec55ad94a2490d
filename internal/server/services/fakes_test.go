package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/dbx"
	"github.com/dmitrijs2005/heartlink/internal/server/events"
	"github.com/dmitrijs2005/heartlink/internal/server/llm"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/proposals"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/sentproposals"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type memUsers struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	createErr error
	getErr    error
}

func newMemUsers(us ...*models.User) *memUsers {
	m := &memUsers{byID: map[string]*models.User{}}
	for _, u := range us {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, common.ErrEmailInUse
		}
	}
	u.CreatedAt = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if match(u) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) GetByProvider(_ context.Context, provider, subject string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Provider == provider && u.ProviderSubject == subject })
}

// --- refresh tokens ---

type memRefresh struct {
	mu        sync.Mutex
	tokens    map[string]*models.RefreshToken
	createErr error
	findErr   error
	deleteErr error
}

func newMemRefresh() *memRefresh {
	return &memRefresh{tokens: map[string]*models.RefreshToken{}}
}

func (m *memRefresh) Create(_ context.Context, userID, token string, validity time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (m *memRefresh) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	rt, ok := m.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rt, nil
}

func (m *memRefresh) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(m.tokens, token)
	return nil
}

// --- proposals ---

type memProposals struct {
	mu        sync.Mutex
	byID      map[string]*models.Proposal
	createErr error
	// beforeUpdate runs before UpdateStatus, to simulate a concurrent answer.
	beforeUpdate func()
}

func newMemProposals(ps ...*models.Proposal) *memProposals {
	m := &memProposals{byID: map[string]*models.Proposal{}}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProposals) Create(_ context.Context, p *models.Proposal) (*models.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	cp := *p
	m.byID[p.ID] = &cp
	return p, nil
}

func (m *memProposals) GetByID(_ context.Context, id string) (*models.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProposals) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok || p.Status != from {
		return common.ErrorNotFound
	}
	p.Status = to
	p.RespondedAt = &at
	return nil
}

func (m *memProposals) SetRingModelKey(_ context.Context, id, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.RingModelKey = key
	return nil
}

func (m *memProposals) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

// --- sent proposals ---

type memSent struct {
	mu        sync.Mutex
	rows      []models.SentProposal
	createErr error
}

func (m *memSent) Create(_ context.Context, sp *models.SentProposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.rows = append(m.rows, *sp)
	return nil
}

func (m *memSent) ListByUser(_ context.Context, userID string) ([]models.SentProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SentProposal, 0)
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memSent) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.UserID == userID && r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- manager ---

type fakeRepoManager struct {
	users     *memUsers
	refresh   *memRefresh
	proposals *memProposals
	sent      *memSent
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newMemUsers(),
		refresh:   newMemRefresh(),
		proposals: newMemProposals(),
		sent:      &memSent{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Proposals(dbx.DBTX) proposals.Repository         { return m.proposals }
func (m *fakeRepoManager) SentProposals(dbx.DBTX) sentproposals.Repository { return m.sent }

// --- collaborators ---

type fakeGenerator struct {
	mu    sync.Mutex
	calls []llm.Request
	out   string
	err   error
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, req llm.Request, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.out), out)
}

type fakeLetters struct {
	letter string
	err    error
	calls  int
}

func (f *fakeLetters) Generate(context.Context, string, string) (string, error) {
	f.calls++
	return f.letter, f.err
}

type fakeRings struct {
	getKeys []string
	getErr  error
	putKey  string
	putErr  error
}

func (f *fakeRings) PresignGet(_ context.Context, key string) (string, error) {
	f.getKeys = append(f.getKeys, key)
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://s3/get/" + key, nil
}

func (f *fakeRings) PresignPut(context.Context) (string, string, error) {
	if f.putErr != nil {
		return "", "", f.putErr
	}
	return f.putKey, "https://s3/put/" + f.putKey, nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.Event
	err error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
	return r.err
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}
