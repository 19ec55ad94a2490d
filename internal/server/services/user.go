// Package services contains server-side business logic: accounts and
// tokens, proposals, letters, the No-button persuasion and ring storage.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/cryptox"
	"github.com/dmitrijs2005/heartlink/internal/dbx"
	"github.com/dmitrijs2005/heartlink/internal/server/auth"
	"github.com/dmitrijs2005/heartlink/internal/server/config"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService handles sign-up, password and federated sign-in, and token
// rotation.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Signup creates a password account and signs it in.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" {
		return nil, nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: a valid email is required", common.ErrorValidation)
	}
	if len(password) < common.MinPasswordLength {
		return nil, nil, common.ErrWeakPassword
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Provider: models.ProviderPassword,
		Salt:     salt,
		Verifier: cryptox.MakeVerifier([]byte(password), salt),
	}

	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		var err error
		pair, err = s.generateTokenPair(ctx, user.ID, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailInUse) {
			return nil, nil, common.ErrEmailInUse
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, pair, nil
}

// Login checks an email and password. Unknown emails, federated accounts and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Spend the same time as a real check.
			cryptox.CheckPassword([]byte(password), cryptox.NewSalt(), nil)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if user.Provider != models.ProviderPassword || !cryptox.CheckPassword([]byte(password), user.Salt, user.Verifier) {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// SocialLogin signs in a federated identity, creating the user record on the
// first visit.
func (s *UserService) SocialLogin(ctx context.Context, id *auth.Identity) (*models.User, *TokenPair, error) {
	users := s.repomanager.Users(s.db)

	user, err := users.GetByProvider(ctx, id.Provider, id.Subject)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		email := normalizeEmail(id.Email)
		if _, err := users.GetByEmail(ctx, email); err == nil {
			return nil, nil, common.ErrAccountExistsWithDifferentCredential
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInternal
		}

		username := strings.TrimSpace(id.DisplayName)
		if username == "" {
			username = email
		}
		user, err = users.Create(ctx, &models.User{
			ID:              uuid.NewString(),
			Username:        username,
			Email:           email,
			Provider:        id.Provider,
			ProviderSubject: id.Subject,
		})
		if err != nil {
			if errors.Is(err, common.ErrEmailInUse) {
				return nil, nil, common.ErrAccountExistsWithDifferentCredential
			}
			return nil, nil, fmt.Errorf("error creating user: %w", err)
		}
	default:
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken redeems a refresh token for a new pair. The old token is
// deleted in the same transaction, so it works once.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return err
		}
		var err error
		pair, err = s.generateTokenPair(ctx, token.UserID, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return pair, nil
}

// Profile returns the signed-in user.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// UserIDFromAccessToken validates an access token issued by this service.
func (s *UserService) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
