// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkup-app/linkup/internal/users/telegram"
)

/*
TestParseInitData_Complete verifies parsing of a fully populated payload.
*/
func TestParseInitData_Complete(t *testing.T) {
	raw := "auth_date=1700000000&hash=deadbeef&user=%7B%22id%22%3A555%2C%22first_name%22%3A%22Ann%22%2C%22username%22%3A%22ann_k%22%2C%22photo_url%22%3A%22https%3A%2F%2Ft.me%2Fi%2Fa.jpg%22%7D"

	assertion := telegram.ParseInitData(raw)

	assert.Equal(t, int64(555), assertion.TelegramID)
	assert.Equal(t, "Ann", assertion.FirstName)
	assert.Equal(t, "ann_k", assertion.Username)
	assert.Equal(t, "https://t.me/i/a.jpg", assertion.PhotoURL)
	assert.Equal(t, int64(1700000000), assertion.AuthDate)
	assert.Equal(t, "deadbeef", assertion.Hash)
	assert.True(t, assertion.Usable())
}

/*
TestParseInitData_Malformed verifies that parsing never fails and instead
yields zero-valued fields for every kind of broken input.
*/
func TestParseInitData_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty_string", ""},
		{"no_equals_sign", "garbage-without-structure"},
		{"invalid_user_json", "auth_date=1700000000&user=%7Bnot-json"},
		{"missing_user", "auth_date=1700000000&hash=abc"},
		{"invalid_percent_escape", "user=%ZZ&auth_date=1"},
		{"non_numeric_auth_date", "auth_date=yesterday&user=%7B%22id%22%3A1%7D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertion := telegram.ParseInitData(tt.raw)

			// Unusable payloads must surface as TelegramID == 0, never a panic
			if tt.name == "non_numeric_auth_date" {
				assert.True(t, assertion.Usable())
				assert.Zero(t, assertion.AuthDate)
				return
			}
			assert.False(t, assertion.Usable())
		})
	}
}

/*
TestParseInitData_PartialUser verifies defaults for sparse user objects.
*/
func TestParseInitData_PartialUser(t *testing.T) {
	raw := "auth_date=1700000000&user=%7B%22id%22%3A987%7D"

	assertion := telegram.ParseInitData(raw)

	assert.Equal(t, int64(987), assertion.TelegramID)
	assert.Empty(t, assertion.FirstName)
	assert.Empty(t, assertion.Username)
	assert.Empty(t, assertion.PhotoURL)
	assert.True(t, assertion.Usable())
}

/*
TestAssertion_DisplayName verifies name fallback order.
*/
func TestAssertion_DisplayName(t *testing.T) {
	tests := []struct {
		name      string
		assertion telegram.Assertion
		expected  string
	}{
		{"first_name_wins", telegram.Assertion{FirstName: "Ann", Username: "ann_k"}, "Ann"},
		{"username_fallback", telegram.Assertion{Username: "ann_k"}, "ann_k"},
		{"nothing", telegram.Assertion{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.assertion.DisplayName())
		})
	}
}
