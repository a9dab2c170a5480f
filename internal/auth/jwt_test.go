// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nelsonportela/BackLogus/internal/config"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret: "unit-test-secret-0123456789abcdef",
		JWTExpiry: time.Hour,
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "", JWTExpiry: time.Hour})
	if err == nil {
		t.Error("expected error for empty secret, got nil")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	token, expiresAt, err := manager.GenerateToken(42, "reader@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expected future expiry, got %v", expiresAt)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "reader@example.com" {
		t.Errorf("expected email reader@example.com, got %s", claims.Email)
	}
	if claims.Subject != "42" {
		t.Errorf("expected subject 42, got %s", claims.Subject)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := &JWTManager{
		secret: []byte("unit-test-secret-0123456789abcdef"),
		expiry: -time.Hour,
	}

	token, _, err := manager.GenerateToken(1, "old@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	verifier, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: "another-secret-entirely-fedcba9876543210",
		JWTExpiry: time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	token, _, err := issuer.GenerateToken(7, "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected error for token signed with a different secret, got nil")
	}
}

func TestValidateTokenRejectsUnsignedAlgorithm(t *testing.T) {
	manager, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	claims := &Claims{UserID: 99, Email: "attacker@example.com"}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	_, err = manager.ValidateToken(token)
	if err == nil {
		t.Fatal("expected error for alg=none token, got nil")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("expected token error, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := manager.ValidateToken(input); err == nil {
			t.Errorf("expected error for input %q, got nil", input)
		}
	}
}
