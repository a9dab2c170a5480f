// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/nelsonportela/BackLogus/internal/models"
)

func TestUpsertCredentialCreatesAndReplaces(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "creds@example.com")

	created, err := db.UpsertCredential(ctx, user.ID, &models.UpsertCredentialRequest{
		Provider:     models.ProviderIGDB,
		ClientID:     "client-one",
		ClientSecret: ptrStr("secret-one"),
	})
	if err != nil {
		t.Fatalf("expected upsert to succeed, got %v", err)
	}
	if created.ClientID != "client-one" {
		t.Errorf("expected client-one, got %q", created.ClientID)
	}

	replaced, err := db.UpsertCredential(ctx, user.ID, &models.UpsertCredentialRequest{
		Provider:    models.ProviderIGDB,
		ClientID:    "client-two",
		AccessToken: ptrStr("token-two"),
	})
	if err != nil {
		t.Fatalf("expected replace to succeed, got %v", err)
	}
	if replaced.ID != created.ID {
		t.Errorf("expected replace to keep row ID %d, got %d", created.ID, replaced.ID)
	}
	if replaced.ClientID != "client-two" {
		t.Errorf("expected client-two after replace, got %q", replaced.ClientID)
	}
	if replaced.ClientSecret != nil {
		t.Errorf("expected client secret cleared on replace, got %v", replaced.ClientSecret)
	}
	if replaced.AccessToken == nil || *replaced.AccessToken != "token-two" {
		t.Errorf("expected access token token-two, got %v", replaced.AccessToken)
	}
}

func TestListCredentialsScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bruno := seedUser(t, db, "bruno@example.com")

	for _, provider := range []string{models.ProviderIGDB, models.ProviderTMDB} {
		if _, err := db.UpsertCredential(ctx, alice.ID, &models.UpsertCredentialRequest{
			Provider: provider, ClientID: "alice-" + provider,
		}); err != nil {
			t.Fatalf("failed to seed credential: %v", err)
		}
	}
	if _, err := db.UpsertCredential(ctx, bruno.ID, &models.UpsertCredentialRequest{
		Provider: models.ProviderIGDB, ClientID: "bruno-igdb",
	}); err != nil {
		t.Fatalf("failed to seed credential: %v", err)
	}

	creds, err := db.ListCredentials(ctx, alice.ID)
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("expected 2 credentials for alice, got %d", len(creds))
	}
	for _, cred := range creds {
		if cred.UserID != alice.ID {
			t.Errorf("expected only alice's credentials, got user %d", cred.UserID)
		}
	}
}

func TestDeleteCredential(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "creds@example.com")
	if _, err := db.UpsertCredential(ctx, user.ID, &models.UpsertCredentialRequest{
		Provider: models.ProviderTMDB, ClientID: "client",
	}); err != nil {
		t.Fatalf("failed to seed credential: %v", err)
	}

	if err := db.DeleteCredential(ctx, user.ID, models.ProviderTMDB); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if err := db.DeleteCredential(ctx, user.ID, models.ProviderTMDB); !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound on second delete, got %v", err)
	}
}
