package auth

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/users"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryUserStore struct {
	byEmail map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byEmail: make(map[string]*models.User)}
}

func (m *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[users.NormalizeEmail(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	if _, exists := m.byEmail[user.Email]; exists {
		// Same shape lib/pq reports for a unique index hit.
		return nil, &duplicateKeyError{}
	}
	user.ID = uuid.New()
	m.byEmail[user.Email] = user
	return user, nil
}

type duplicateKeyError struct{}

func (d *duplicateKeyError) Error() string {
	return `pq: duplicate key value violates unique constraint "idx_users_email"`
}

type memorySessions struct {
	active map[string]uuid.UUID
}

func newMemorySessions() *memorySessions {
	return &memorySessions{active: make(map[string]uuid.UUID)}
}

func (m *memorySessions) Start(_ context.Context, accessID string, userID uuid.UUID) error {
	m.active[accessID] = userID
	return nil
}

func (m *memorySessions) Revoke(_ context.Context, accessID string) error {
	delete(m.active, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopworks-test",
		ExpirationMinutes: 15,
		SessionTTLMinutes: 60,
	}
}

func newTestService(t *testing.T, env string) (Service, *memoryUserStore, *memorySessions) {
	t.Helper()
	store := newMemoryUserStore()
	sessions := newMemorySessions()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	svc, err := NewService(store, sessions, config.AppConfig{Env: env}, testJWTConfig(), config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}, logg)
	require.NoError(t, err)
	return svc, store, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, sessions := newTestService(t, "dev")

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Shopper@Example.com",
		Password: "correct horse",
		Name:     "Shopper",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "shopper@example.com", registered.User.Email)
	assert.Equal(t, "customer", registered.User.Role)
	assert.Len(t, sessions.active, 1)

	loggedIn, err := svc.Login(context.Background(), LoginInput{
		Email:    "shopper@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.AccessToken)
	assert.Len(t, sessions.active, 2)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t, "dev")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "shopper@example.com",
		Password: "correct horse",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "shopper@example.com",
		Password: "wrong horse",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t, "dev")

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	svc, _, _ := newTestService(t, "dev")

	input := RegisterInput{Email: "shopper@example.com", Password: "correct horse", Name: "Shopper"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAdminRegistrationGatedOffProd(t *testing.T) {
	devSvc, _, _ := newTestService(t, "dev")
	_, err := devSvc.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Password: "correct horse",
		Name:     "Admin",
		Role:     "admin",
	})
	require.NoError(t, err)

	prodSvc, _, _ := newTestService(t, "prod")
	_, err = prodSvc.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Password: "correct horse",
		Name:     "Admin",
		Role:     "admin",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestService(t, "dev")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "shopper@example.com",
		Password: "correct horse",
		Name:     "Shopper",
	})
	require.NoError(t, err)
	require.Len(t, sessions.active, 1)

	var accessID string
	for id := range sessions.active {
		accessID = id
	}
	require.NoError(t, svc.Logout(context.Background(), accessID))
	assert.Empty(t, sessions.active)
}
