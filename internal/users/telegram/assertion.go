// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package telegram implements sign-in with Telegram WebApp identity assertions.

A mini-app client submits the opaque `initData` string Telegram hands it at
launch. This package parses that payload, verifies its HMAC signature against
the bot token, and reconciles the asserted Telegram identity with the user
directory. When the assertion is unusable it degrades to a synthesized guest
identity instead of refusing service.

# Architecture

  - Parsing: ParseInitData (total, never fails).
  - Verification: Verifier (freshness + HMAC tag).
  - Reconciliation: Service.Authenticate (resolve or synthesize).
  - Caching: RedisIdentityCache (resolved users keyed by Telegram ID).
*/
package telegram

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// # Identity Assertion

// Assertion is the parsed, unverified content of a Telegram initData payload.
type Assertion struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	Username   string `json:"username"`
	PhotoURL   string `json:"photo_url"`
	AuthDate   int64  `json:"auth_date"`
	Hash       string `json:"hash"`
}

// initDataUser mirrors the JSON object Telegram packs into the `user`
// query parameter.
type initDataUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

/*
ParseInitData decodes a raw Telegram WebApp initData string into an [Assertion].

Description: The payload is a URL-encoded query string whose `user` parameter
carries a JSON object. Parsing is total: any malformed section simply leaves
the corresponding fields at their zero values, and the caller decides
usability via [Assertion.Usable].

Parameters:
  - raw: string (Opaque initData payload from the client)

Returns:
  - Assertion: Parsed fields, zero-valued where the input was unusable
*/
func ParseInitData(raw string) Assertion {
	var assertion Assertion

	values, err := url.ParseQuery(raw)
	if err != nil {
		return assertion
	}

	if encoded := values.Get("user"); encoded != "" {
		var user initDataUser
		if err := json.Unmarshal([]byte(encoded), &user); err == nil {
			assertion.TelegramID = user.ID
			assertion.FirstName = user.FirstName
			assertion.Username = user.Username
			assertion.PhotoURL = user.PhotoURL
		}
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		if parsed, err := strconv.ParseInt(authDate, 10, 64); err == nil {
			assertion.AuthDate = parsed
		}
	}

	assertion.Hash = values.Get("hash")

	return assertion
}

// Usable reports whether the assertion names a real Telegram identity.
//
// An assertion without a Telegram ID cannot be verified or resolved; the
// caller falls back to a synthesized guest.
func (assertion Assertion) Usable() bool {
	return assertion.TelegramID != 0
}

// DisplayName returns the best human-readable name the assertion offers.
func (assertion Assertion) DisplayName() string {
	if assertion.FirstName != "" {
		return assertion.FirstName
	}
	if assertion.Username != "" {
		return assertion.Username
	}
	return ""
}
