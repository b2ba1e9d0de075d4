package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/users"
	pkgauth "github.com/lmorales/shopworks-backend/pkg/auth"
	"github.com/lmorales/shopworks-backend/pkg/auth/session"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"github.com/lmorales/shopworks-backend/pkg/enums"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/security"
	"gorm.io/gorm"
)

// Service exposes registration, login, and logout.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, accessID string) error
}

// RegisterInput is the validated signup payload. Role defaults to customer;
// admin signup exists for bootstrap and is rejected in prod.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// LoginInput is the validated login payload.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult pairs the issued token with the account it belongs to.
type AuthResult struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

type sessionManager interface {
	Start(ctx context.Context, accessID string, userID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	store    userStore
	sessions sessionManager
	appCfg   config.AppConfig
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs an auth service instance.
func NewService(store userStore, sessions sessionManager, appCfg config.AppConfig, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:    store,
		sessions: sessions,
		appCfg:   appCfg,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Register creates the account and logs it in.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := users.NormalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	role := enums.UserRoleCustomer
	if input.Role != "" {
		parsed, err := enums.ParseUserRole(input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if parsed == enums.UserRoleAdmin && s.appCfg.IsProd() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin registration is disabled")
		}
		role = parsed
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if _, err := s.store.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "account registered")
	return s.issueSession(ctx, user)
}

// Login verifies credentials and issues a fresh token + session. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.store.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the live session for the given token ID.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token id")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: revoke session")
	}
	return nil
}

func (s *service) issueSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	if err := s.sessions.Start(ctx, accessID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: start session")
	}
	return &AuthResult{AccessToken: token, User: users.ToUserDTO(user)}, nil
}
