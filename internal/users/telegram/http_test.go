// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup-app/linkup/internal/users/telegram"
)

// authEnvelope mirrors the response envelope of the sign-in endpoint.
type authEnvelope struct {
	Data telegram.AuthResult `json:"data"`
}

func postAuth(t *testing.T, handler *telegram.Handler, body string) (*httptest.ResponseRecorder, authEnvelope) {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/auth", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handler.Authenticate(recorder, request)

	var envelope authEnvelope
	if recorder.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	}
	return recorder, envelope
}

/*
TestAuthenticate_CamelCaseInitDataKey verifies the wire contract of the
endpoint: the mini-app frontend posts the credential as {"initData": ...},
and a validly signed payload under that key resolves the real identity
instead of degrading to a guest.
*/
func TestAuthenticate_CamelCaseInitDataKey(t *testing.T) {
	directory := newFakeDirectory()
	verifier := telegram.NewVerifier(testBotToken)
	service := newTestService(t, directory, verifier, false)
	handler := telegram.NewHandler(service)

	initData := signedInitData(t, verifier, freshAssertion())
	body, err := json.Marshal(map[string]string{"initData": initData})
	require.NoError(t, err)

	recorder, envelope := postAuth(t, handler, string(body))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, envelope.Data.User)
	assert.Equal(t, int64(555), envelope.Data.User.TelegramID)
	assert.Equal(t, "Ann", envelope.Data.User.Name)
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

/*
TestAuthenticate_UnreadableBody verifies a malformed body is treated as an
empty credential and still answers 200 with a guest.
*/
func TestAuthenticate_UnreadableBody(t *testing.T) {
	directory := newFakeDirectory()
	service := newTestService(t, directory, telegram.NewVerifier(testBotToken), false)
	handler := telegram.NewHandler(service)

	recorder, envelope := postAuth(t, handler, "{not-json")

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, envelope.Data.User)
	assert.GreaterOrEqual(t, envelope.Data.User.TelegramID, syntheticFloor)
	assert.Equal(t, "Guest", envelope.Data.User.Name)
}
