package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/client/client"
	"github.com/dmitrijs2005/heartlink/internal/client/session"
	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
)

type fakeClient struct {
	addr   string
	tokens client.Tokens
	notify func(client.Tokens)
	closed bool

	err error

	// issued by Signup/Login; refreshed is pushed through OnTokens by the
	// next authenticated call when set.
	issued    client.Tokens
	refreshed *client.Tokens

	proposals map[string]*rpcapi.Proposal
	list      []rpcapi.SentProposal
	letter    string
	ringKey   string

	gotSignup    []string
	gotLogin     []string
	gotCreate    []string
	gotDelete    string
	gotLetter    []string
	gotRing      []byte
	usedToken    string
	pingDeadline time.Time
}

func (f *fakeClient) UseTokens(t client.Tokens)       { f.tokens = t }
func (f *fakeClient) Tokens() client.Tokens           { return f.tokens }
func (f *fakeClient) OnTokens(fn func(client.Tokens)) { f.notify = fn }
func (f *fakeClient) Close() error                    { f.closed = true; return nil }
func (f *fakeClient) Ping(ctx context.Context) error {
	f.pingDeadline, _ = ctx.Deadline()
	return f.err
}

func (f *fakeClient) setTokens(t client.Tokens) {
	f.tokens = t
	if f.notify != nil {
		f.notify(t)
	}
}

// call simulates an authenticated round trip.
func (f *fakeClient) call() error {
	if f.err != nil {
		return f.err
	}
	if f.refreshed != nil {
		f.setTokens(*f.refreshed)
		f.refreshed = nil
	}
	f.usedToken = f.tokens.AccessToken
	return nil
}

func (f *fakeClient) Signup(_ context.Context, username, email, password string) (string, error) {
	f.gotSignup = []string{username, email, password}
	if f.err != nil {
		return "", f.err
	}
	f.setTokens(f.issued)
	return "u1", nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) error {
	f.gotLogin = []string{email, password}
	if f.err != nil {
		return f.err
	}
	f.setTokens(f.issued)
	return nil
}

func (f *fakeClient) CreateProposal(_ context.Context, recipientName, letter, keywords string) (*rpcapi.Proposal, error) {
	f.gotCreate = []string{recipientName, letter, keywords}
	if err := f.call(); err != nil {
		return nil, err
	}
	return &rpcapi.Proposal{ID: "p1", RecipientName: recipientName, ShareURL: "http://hl.test/p/p1"}, nil
}

func (f *fakeClient) ListProposals(context.Context) ([]rpcapi.SentProposal, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.list, nil
}

func (f *fakeClient) GetProposal(_ context.Context, id string) (*rpcapi.Proposal, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.proposals[id], nil
}

func (f *fakeClient) DeleteProposal(_ context.Context, id string) error {
	f.gotDelete = id
	return f.call()
}

func (f *fakeClient) GenerateLetter(_ context.Context, recipientName, keywords string) (string, error) {
	f.gotLetter = []string{recipientName, keywords}
	if err := f.call(); err != nil {
		return "", err
	}
	return f.letter, nil
}

func (f *fakeClient) UploadRing(_ context.Context, proposalID string, model []byte) (string, error) {
	f.gotRing = model
	if err := f.call(); err != nil {
		return "", err
	}
	return f.ringKey, nil
}

type harness struct {
	client      *fakeClient
	sessionFile string
	store       *session.FileStore
}

func newHarness(t *testing.T, f *fakeClient) *harness {
	t.Helper()
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("HOME", cfgHome)

	stubTerminal(t, false, "", nil)

	old := dial
	dial = func(addr string) (apiClient, error) {
		f.addr = addr
		return f, nil
	}
	t.Cleanup(func() { dial = old })

	path := filepath.Join(t.TempDir(), "session.json")
	return &harness{client: f, sessionFile: path, store: session.NewFileStore(path)}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if err := h.store.Save(&session.Session{Email: "romeo@verona.it", AccessToken: "A1", RefreshToken: "R1"}); err != nil {
		t.Fatal(err)
	}
}

// run executes heartctl with args against the fake client; stdin feeds
// prompts.
func (h *harness) run(stdin string, args ...string) (string, error) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--session", h.sessionFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
