// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nelsonportela/BackLogus/internal/database"
	"github.com/nelsonportela/BackLogus/internal/logging"
	"github.com/nelsonportela/BackLogus/internal/models"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so responses never reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the subset of the database layer the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string, firstName, lastName *string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements account registration and login.
type Service struct {
	store      UserStore
	jwtManager *JWTManager
	bcryptCost int
	dummyHash  string
	security   *logging.SecurityLogger
}

// NewService creates the auth service. The bcrypt cost comes from
// SecurityConfig and applies to all passwords hashed by this instance.
func NewService(store UserStore, jwtManager *JWTManager, bcryptCost int) *Service {
	// Hash a throwaway value once so login can burn the same bcrypt
	// work for unknown emails as for wrong passwords.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("timing-equalization"), bcryptCost)
	return &Service{
		store:      store,
		jwtManager: jwtManager,
		bcryptCost: bcryptCost,
		dummyHash:  string(dummy),
		security:   logging.NewSecurityLogger(),
	}
}

// Register creates an account and returns a signed token for it.
// A duplicate email surfaces as database.ErrUserExists for the handler
// layer to translate into a conflict response.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, ip string) (*models.AuthResponse, error) {
	passwordHash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, req.Email, passwordHash, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.security.LogRegistration(user.ID, user.Email, ip)
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

// Login verifies credentials and returns a signed token on success.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, ip string) (*models.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			CheckPassword(s.dummyHash, req.Password)
			s.security.LogLoginFailure(req.Email, ip, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		s.security.LogLoginFailure(req.Email, ip, "wrong credentials")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.security.LogLoginSuccess(user.ID, user.Email, ip)
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}
