// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup-app/linkup/internal/users/telegram"
)

const testBotToken = "123456:TEST-TOKEN-do-not-use"

// freshAssertion returns a usable assertion issued just now.
func freshAssertion() telegram.Assertion {
	return telegram.Assertion{
		TelegramID: 555,
		FirstName:  "Ann",
		Username:   "ann_k",
		PhotoURL:   "https://t.me/i/a.jpg",
		AuthDate:   time.Now().Unix(),
	}
}

/*
TestVerifier_ValidSignature verifies the round trip: an assertion signed with
the bot token's derived key passes verification.
*/
func TestVerifier_ValidSignature(t *testing.T) {
	verifier := telegram.NewVerifier(testBotToken)

	assertion := freshAssertion()
	assertion.Hash = verifier.Sign(assertion)

	require.NoError(t, verifier.Verify(assertion))
}

/*
TestVerifier_SignatureMismatch verifies rejection of a forged tag.
*/
func TestVerifier_SignatureMismatch(t *testing.T) {
	verifier := telegram.NewVerifier(testBotToken)

	assertion := freshAssertion()
	assertion.Hash = "abc"

	err := verifier.Verify(assertion)
	assert.ErrorIs(t, err, telegram.ErrSignatureMismatch)
}

/*
TestVerifier_WrongToken verifies that a tag issued under a different bot
token does not validate.
*/
func TestVerifier_WrongToken(t *testing.T) {
	issuer := telegram.NewVerifier("999999:OTHER-TOKEN")
	verifier := telegram.NewVerifier(testBotToken)

	assertion := freshAssertion()
	assertion.Hash = issuer.Sign(assertion)

	err := verifier.Verify(assertion)
	assert.ErrorIs(t, err, telegram.ErrSignatureMismatch)
}

/*
TestVerifier_StaleAssertion verifies that an assertion past the freshness
window is rejected even when its tag is correct.
*/
func TestVerifier_StaleAssertion(t *testing.T) {
	verifier := telegram.NewVerifier(testBotToken)

	assertion := freshAssertion()
	assertion.AuthDate = time.Now().Add(-25 * time.Hour).Unix()
	assertion.Hash = verifier.Sign(assertion)

	err := verifier.Verify(assertion)
	assert.ErrorIs(t, err, telegram.ErrStaleAssertion)
}

/*
TestVerifier_StaleWithBadTag verifies staleness takes precedence over tag
validation.
*/
func TestVerifier_StaleWithBadTag(t *testing.T) {
	verifier := telegram.NewVerifier(testBotToken)

	assertion := freshAssertion()
	assertion.AuthDate = time.Now().Add(-48 * time.Hour).Unix()
	assertion.Hash = "definitely-wrong"

	err := verifier.Verify(assertion)
	assert.ErrorIs(t, err, telegram.ErrStaleAssertion)
}

/*
TestVerifier_OmitsEmptyFields verifies the check string skips absent fields:
a signature over a sparse assertion must validate without the optional parts.
*/
func TestVerifier_OmitsEmptyFields(t *testing.T) {
	verifier := telegram.NewVerifier(testBotToken)

	assertion := telegram.Assertion{
		TelegramID: 987,
		AuthDate:   time.Now().Unix(),
	}
	assertion.Hash = verifier.Sign(assertion)

	require.NoError(t, verifier.Verify(assertion))

	// Adding a field after signing must break the tag
	assertion.FirstName = "Mallory"
	assert.ErrorIs(t, verifier.Verify(assertion), telegram.ErrSignatureMismatch)
}
