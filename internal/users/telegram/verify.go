// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linkup-app/linkup/internal/platform/constants"
)

// # Verification Errors

var (
	// ErrStaleAssertion means the assertion's auth_date is older than the
	// allowed freshness window.
	ErrStaleAssertion = errors.New("telegram assertion is stale")

	// ErrSignatureMismatch means the HMAC tag does not match the payload.
	ErrSignatureMismatch = errors.New("telegram assertion signature mismatch")
)

// # Signature Verifier

// Verifier validates the integrity and freshness of Telegram assertions.
//
// The verification key is SHA-256 of the bot token, as issued by the Telegram
// WebApp platform; the tag is a hex-encoded HMAC-SHA-256 over the canonical
// check string.
type Verifier struct {
	secret [sha256.Size]byte
	maxAge time.Duration
	now    func() time.Time
}

// NewVerifier derives a [Verifier] from the bot token.
func NewVerifier(botToken string) *Verifier {
	return &Verifier{
		secret: sha256.Sum256([]byte(botToken)),
		maxAge: constants.AssertionMaxAge,
		now:    time.Now,
	}
}

/*
Verify checks an assertion's freshness and HMAC signature.

Description: Freshness is checked first, regardless of the tag: an expired
assertion is rejected even if its signature would have matched. The check
string concatenates the non-empty fields except `hash`, each as `key=value`,
newline-joined, in the fixed order id, first_name, username, photo_url,
auth_date. Field order and formatting are a byte-for-byte contract with the
issuing platform.

Parameters:
  - assertion: Assertion (Parsed payload)

Returns:
  - error: ErrStaleAssertion, ErrSignatureMismatch, or nil
*/
func (verifier *Verifier) Verify(assertion Assertion) error {
	issuedAt := time.Unix(assertion.AuthDate, 0)
	if verifier.now().Sub(issuedAt) > verifier.maxAge {
		return ErrStaleAssertion
	}

	expected := verifier.tag(assertion)

	// Constant-time compare keeps the tag check timing-independent
	if !hmac.Equal([]byte(expected), []byte(assertion.Hash)) {
		return ErrSignatureMismatch
	}

	return nil
}

// tag computes the hex HMAC-SHA-256 tag for an assertion's check string.
func (verifier *Verifier) tag(assertion Assertion) string {
	mac := hmac.New(sha256.New, verifier.secret[:])
	mac.Write([]byte(checkString(assertion)))
	return hex.EncodeToString(mac.Sum(nil))
}

// checkString builds the canonical newline-joined check string.
//
// Empty fields are omitted; present fields keep the declared order.
func checkString(assertion Assertion) string {
	pairs := make([]string, 0, 5)

	if assertion.TelegramID != 0 {
		pairs = append(pairs, "id="+strconv.FormatInt(assertion.TelegramID, 10))
	}
	if assertion.FirstName != "" {
		pairs = append(pairs, "first_name="+assertion.FirstName)
	}
	if assertion.Username != "" {
		pairs = append(pairs, "username="+assertion.Username)
	}
	if assertion.PhotoURL != "" {
		pairs = append(pairs, "photo_url="+assertion.PhotoURL)
	}
	if assertion.AuthDate != 0 {
		pairs = append(pairs, "auth_date="+strconv.FormatInt(assertion.AuthDate, 10))
	}

	return strings.Join(pairs, "\n")
}

// Sign computes the valid tag for an assertion. Exposed for issuing test
// credentials; production assertions are signed by Telegram.
func (verifier *Verifier) Sign(assertion Assertion) string {
	return verifier.tag(assertion)
}

// String implements fmt.Stringer without leaking the derived secret.
func (verifier *Verifier) String() string {
	return fmt.Sprintf("telegram.Verifier{maxAge: %s}", verifier.maxAge)
}
