package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"github.com/lmorales/shopworks-backend/pkg/enums"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/security"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersDDL).Error)
	return db
}

func seedUser(t *testing.T, repo *Repository, password string) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), &models.User{
		ID:           uuid.New(),
		Email:        "jamie@example.com",
		PasswordHash: hash,
		Name:         "Jamie Doe",
		Role:         enums.UserRoleCustomer,
	})
	require.NoError(t, err)
	return user
}

func newUsersService(t *testing.T, repo *Repository) Service {
	t.Helper()

	svc, err := NewService(repo, config.PasswordConfig{})
	require.NoError(t, err)
	return svc
}

func TestMeReturnsProfile(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc := newUsersService(t, repo)
	seeded := seedUser(t, repo, "original-pass")

	dto, err := svc.Me(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, dto.ID)
	assert.Equal(t, "jamie@example.com", dto.Email)
	assert.Equal(t, "Jamie Doe", dto.Name)
	assert.Equal(t, "customer", dto.Role)
}

func TestMeMissingUser(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc := newUsersService(t, repo)

	_, err := svc.Me(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateMeRenames(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc := newUsersService(t, repo)
	seeded := seedUser(t, repo, "original-pass")

	name := "  Jordan Reyes  "
	dto, err := svc.UpdateMe(context.Background(), seeded.ID, UpdateMeInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jordan Reyes", dto.Name)

	stored, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Reyes", stored.Name)
}

func TestUpdateMeRejectsBlankName(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc := newUsersService(t, repo)
	seeded := seedUser(t, repo, "original-pass")

	blank := "   "
	_, err := svc.UpdateMe(context.Background(), seeded.ID, UpdateMeInput{Name: &blank})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateMeRehashesPassword(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc := newUsersService(t, repo)
	seeded := seedUser(t, repo, "original-pass")

	replacement := "brand-new-pass"
	_, err := svc.UpdateMe(context.Background(), seeded.ID, UpdateMeInput{Password: &replacement})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)

	ok, err := security.VerifyPassword(replacement, stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	old, err := security.VerifyPassword("original-pass", stored.PasswordHash)
	require.NoError(t, err)
	assert.False(t, old)
}

func TestUpdateMeRejectsShortPassword(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc := newUsersService(t, repo)
	seeded := seedUser(t, repo, "original-pass")

	short := "short"
	_, err := svc.UpdateMe(context.Background(), seeded.ID, UpdateMeInput{Password: &short})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
