package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(unix int64) *fakeClock { return &fakeClock{now: time.Unix(unix, 0).UTC()} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(unix int64) {
	c.mu.Lock()
	c.now = time.Unix(unix, 0).UTC()
	c.mu.Unlock()
}

// fixture wires the services over in-memory storage.
type fixture struct {
	clock    *fakeClock
	server   *signature.KeyPair
	manager  *repomanager.MemoryRepositoryManager
	registry *IdentityRegistry
	issuer   *ChallengeIssuer
	replay   *ReplayGuard
	ledger   *AttendanceLedger
	protocol *AuthenticationProtocol
}

func newFixture(t *testing.T, start int64) *fixture {
	t.Helper()

	server, err := signature.GenerateKeyPair()
	require.NoError(t, err)

	f := &fixture{
		clock:   newFakeClock(start),
		server:  server,
		manager: repomanager.NewMemoryRepositoryManager(filepath.Join(t.TempDir(), "server_keys.json")),
		replay:  NewReplayGuard(300 * time.Second),
	}
	f.registry = NewIdentityRegistry(dbx.NoTx{}, f.manager, f.clock.Now, nil, nil)
	f.issuer = NewChallengeIssuer(server, 10*time.Second, f.clock.Now, nil)
	f.ledger = NewAttendanceLedger(dbx.NoTx{}, f.manager, time.UTC)
	f.protocol = NewAuthenticationProtocol(f.registry, server.PublicKeyString(), f.replay, f.ledger, ProtocolOptions{
		Grace: 30 * time.Second,
		Clock: f.clock.Now,
	})
	return f
}

func (f *fixture) register(t *testing.T, id string) *signature.KeyPair {
	t.Helper()
	_, kp, err := f.registry.Register(context.Background(), id, models.Profile{DisplayName: "Name " + id})
	require.NoError(t, err)
	return kp
}

// present builds a signed submission for the challenge of slot.
func (f *fixture) present(holder *signature.KeyPair, slot int64, confirm bool) SubmitRequest {
	ch := f.issuer.IssueAt(time.Unix(slot, 0))
	return SubmitRequest{
		Challenge:       *ch,
		HolderPublicKey: holder.PublicKeyString(),
		HolderSignature: signature.SignString(holder.PrivateKey, ch.Message),
		ConfirmCheckout: confirm,
	}
}

func (f *fixture) submitAt(t *testing.T, now int64, req SubmitRequest) (*SubmitResult, error) {
	t.Helper()
	f.clock.Set(now)
	return f.protocol.Submit(context.Background(), req)
}

// recordingMetrics captures every event it receives.
type recordingMetrics struct {
	mu            sync.Mutex
	challenges    int
	submissions   []string
	registrations []string
}

func (m *recordingMetrics) ChallengeIssued() {
	m.mu.Lock()
	m.challenges++
	m.mu.Unlock()
}

func (m *recordingMetrics) SubmissionObserved(o Outcome, reason string) {
	m.mu.Lock()
	m.submissions = append(m.submissions, string(o)+"/"+reason)
	m.mu.Unlock()
}

func (m *recordingMetrics) RegistrationObserved(reason string) {
	m.mu.Lock()
	m.registrations = append(m.registrations, reason)
	m.mu.Unlock()
}
