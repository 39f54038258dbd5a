package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/attendance"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/employees"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/serverkeys"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ReturnsUsableKeyPair(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	e, kp, err := f.registry.Register(ctx, " E1 ", models.Profile{DisplayName: "Alice", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "E1", e.ID)
	assert.Equal(t, kp.PublicKeyString(), e.PublicKey)
	assert.Equal(t, int64(1000), e.RegisteredAt.Unix())

	priv, format, err := signature.DecodePrivateKey(kp.PrivateKeyString())
	require.NoError(t, err)
	assert.Equal(t, signature.FormatSeedAndPublic, format)
	assert.Equal(t, kp.PublicKey, signature.KeyPairFromPrivate(priv).PublicKey)
}

func TestRegister_DuplicateIdentityKeepsKey(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	first := f.register(t, "E1")

	_, _, err := f.registry.Register(ctx, "E1", models.Profile{DisplayName: "Mallory"})
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)

	stored, err := f.registry.Get(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, first.PublicKeyString(), stored.PublicKey)
	assert.Equal(t, "Name E1", stored.DisplayName)
}

func TestEnroll_DuplicatePublicKey(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	kp := f.register(t, "E1")

	_, err := f.registry.Enroll(ctx, "E2", models.Profile{DisplayName: "Bob"}, kp.PublicKeyString())
	assert.ErrorIs(t, err, common.ErrDuplicatePublicKey)

	_, err = f.registry.Get(ctx, "E2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestEnroll_Validation(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	kp, err := signature.GenerateKeyPair()
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		p    models.Profile
		key  string
	}{
		{"blank id", "  ", models.Profile{DisplayName: "A"}, kp.PublicKeyString()},
		{"blank name", "E1", models.Profile{DisplayName: " "}, kp.PublicKeyString()},
		{"bad key", "E1", models.Profile{DisplayName: "A"}, "0OIl"},
		{"short key", "E1", models.Profile{DisplayName: "A"}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.registry.Enroll(ctx, tt.id, tt.p, tt.key)
			assert.ErrorIs(t, err, common.ErrInvalidRegistration)
		})
	}
}

func TestFindByPublicKey_AfterRandomOrderRegistration(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	const n = 40
	keys := make(map[string]string, n)
	for _, i := range rand.Perm(n) {
		id := fmt.Sprintf("E%02d", i)
		keys[id] = f.register(t, id).PublicKeyString()
	}

	for id, pub := range keys {
		e, err := f.registry.FindByPublicKey(ctx, pub)
		require.NoError(t, err)
		assert.Equal(t, id, e.ID)
	}

	other, err := signature.GenerateKeyPair()
	require.NoError(t, err)
	_, err = f.registry.FindByPublicKey(ctx, other.PublicKeyString())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := f.registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestRegister_Metrics(t *testing.T) {
	f := newFixture(t, 1000)
	m := &recordingMetrics{}
	f.registry = NewIdentityRegistry(dbx.NoTx{}, f.manager, f.clock.Now, nil, m)

	f.register(t, "E1")
	_, _, err := f.registry.Register(context.Background(), "E1", models.Profile{DisplayName: "x"})
	require.Error(t, err)

	assert.Equal(t, []string{"", common.ReasonDuplicateIdentity}, m.registrations)
}

type failingEmployees struct{ err error }

func (f failingEmployees) Create(context.Context, *models.Employee) error { return f.err }
func (f failingEmployees) GetByID(context.Context, string) (*models.Employee, error) {
	return nil, f.err
}
func (f failingEmployees) GetByPublicKey(context.Context, string) (*models.Employee, error) {
	return nil, f.err
}
func (f failingEmployees) List(context.Context) ([]*models.Employee, error) { return nil, f.err }

type failingManager struct {
	employees employees.Repository
}

func (m *failingManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *failingManager) Employees(dbx.DBTX) employees.Repository      { return m.employees }
func (m *failingManager) Attendance(dbx.DBTX) attendance.Repository    { return nil }
func (m *failingManager) ServerKeys(dbx.DBTX) serverkeys.Repository    { return nil }

func TestRegistry_StorageErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewIdentityRegistry(dbx.NoTx{}, &failingManager{employees: failingEmployees{err: boom}}, nil, nil, nil)
	ctx := context.Background()

	_, _, err := r.Register(ctx, "E1", models.Profile{DisplayName: "A"})
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, err = r.FindByPublicKey(ctx, "pk")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.False(t, common.IsVerificationFailure(err))
}
