// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package database

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// listToJSON converts a string slice to JSON array text for storage.
// Nil and empty slices store as NULL so reads round-trip to nil.
func listToJSON(list []string) any {
	if len(list) == 0 {
		return nil
	}
	bytes, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	return string(bytes)
}

// jsonToList converts stored JSON array text back to a string slice.
// NULL, empty and malformed values all produce nil.
func jsonToList(v sql.NullString) []string {
	if !v.Valid || v.String == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(v.String), &list); err != nil {
		return nil
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// nullableString converts a *string to a driver-friendly value.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a scanned sql.NullString to a *string.
func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// nullableInt converts a *int to a driver-friendly value.
func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

// intPtr converts a scanned sql.NullInt32 to a *int.
func intPtr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

// nullableFloat converts a *float64 to a driver-friendly value.
func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// floatPtr converts a scanned sql.NullFloat64 to a *float64.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// isUniqueConstraintError checks if an error is a unique constraint
// violation. DuckDB error messages contain "unique constraint" or
// "Duplicate key".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") || strings.Contains(errMsg, "duplicate key")
}
