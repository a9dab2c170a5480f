// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package auth

import (
	"strings"
	"testing"
)

// testBcryptCost keeps hashing fast in tests. Production cost comes
// from config and is validated to be at least 10.
const testBcryptCost = 10

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", testBcryptCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword(hash, "correct horse battery") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected non-matching password to fail")
	}
	if CheckPassword("", "correct horse battery") {
		t.Error("expected empty hash to fail")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("same input", testBcryptCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	second, err := HashPassword("same input", testBcryptCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if first == second {
		t.Error("expected distinct hashes for the same password")
	}
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	// bcrypt only reads the first 72 bytes; the library rejects longer
	// inputs outright and request validation caps passwords at 72.
	_, err := HashPassword(strings.Repeat("a", 80), testBcryptCost)
	if err == nil {
		t.Error("expected error for password longer than 72 bytes, got nil")
	}
}
