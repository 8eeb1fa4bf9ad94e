// Copyright (c) 2026 LinkUp. All rights reserved.

// Package uuidutil wraps identifier generation and validation for the application.
//
// All primary keys are UUIDv7 so identifiers sort by creation time, which keeps
// index pages hot and makes log correlation pleasant.
package uuidutil

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a new UUIDv7 string.
//
// It falls back to UUIDv4 in the extremely unlikely case the monotonic clock
// source is unavailable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Parse validates that s is a well-formed UUID and returns its canonical form.
func Parse(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("uuid_parse_failed: %w", err)
	}
	return id.String(), nil
}

// IsValid reports whether s is a well-formed UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
