// Package services contains server-side business logic. This file implements
// UserService, which handles login, issuing/refreshing JWTs plus server-stored
// refresh tokens, and the admin user directory.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/auth"
	"github.com/dmitrijs2005/waulty/internal/server/config"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
)

// LoginResult bundles a short-lived access token, a long-lived refresh token
// and the authenticated user.
type LoginResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login checks the credentials and returns fresh tokens. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials; disabled accounts yield
// ErrAccountDisabled.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}
	return s.issueTokens(ctx, user, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns fresh tokens. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*LoginResult, error) {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading user: %w", err)
		}
		if !user.IsActive {
			return nil, common.ErrAccountDisabled
		}
		return s.issueTokens(ctx, user, tx)
	})
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Create adds an active account. The role defaults to MANAGER.
func (s *UserService) Create(ctx context.Context, nu models.NewUser) (*models.User, error) {
	nu.Email = strings.TrimSpace(nu.Email)
	if nu.Email == "" || nu.Password == "" || strings.TrimSpace(nu.Name) == "" {
		return nil, fmt.Errorf("%w: email, name and password are required", common.ErrorValidation)
	}
	if nu.Role == "" {
		nu.Role = models.RoleManager
	}
	if !nu.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, nu.Role)
	}

	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	return s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: hash,
		Role:         nu.Role,
		IsActive:     true,
	})
}

// Update edits an account. The password is re-hashed only when a non-empty
// one is supplied. Deactivating an account revokes its refresh tokens.
func (s *UserService) Update(ctx context.Context, id string, upd models.UserUpdate, password string) (*models.User, error) {
	if upd.Role != nil && !upd.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, *upd.Role)
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		upd.PasswordHash = &hash
	} else {
		upd.PasswordHash = nil
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		u, err := s.repomanager.Users(tx).Update(ctx, id, upd)
		if err != nil {
			return nil, err
		}
		if !u.IsActive {
			if err := s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, id); err != nil {
				return nil, err
			}
		}
		return u, nil
	})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}

// SeedAdmin creates the first ADMIN account when no users exist yet. It
// reports whether an account was created.
func (s *UserService) SeedAdmin(ctx context.Context, email, name, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	n, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if name == "" {
		name = "Admin"
	}
	if _, err := s.Create(ctx, models.NewUser{Email: email, Name: name, Password: password, Role: models.RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User, tx dbx.DBTX) (*LoginResult, error) {
	access, err := auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &LoginResult{Token: access, RefreshToken: refresh, User: user}, nil
}
