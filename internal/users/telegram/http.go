// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram

import (
	"net/http"

	requestutil "github.com/linkup-app/linkup/internal/platform/request"
	"github.com/linkup-app/linkup/internal/platform/respond"
)

// Handler exposes the Telegram sign-in endpoint.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new telegram [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// authRequest defines the expected JSON payload for Telegram sign-in. The
// mini-app frontend sends the credential under the camelCase key.
type authRequest struct {
	InitData string `json:"initData"`
}

/*
POST /api/v1/users/auth.

Description: Signs a caller in from a raw Telegram initData credential. Nearly
every outcome is a 200 with a usable identity: unusable or unverifiable
credentials degrade to a synthesized guest unless strict mode is configured.

Request:
  - body: authRequest

Response:
  - 200: AuthResult: Resolved or synthesized user with an access token
  - 401: ErrUnauthorized: Strict mode only, on a stale or forged assertion
  - 500: ErrInternal: Storage faults
*/
func (handler *Handler) Authenticate(writer http.ResponseWriter, request *http.Request) {
	var input authRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {

		// An unreadable body is just another unusable credential
		input.InitData = ""
	}

	result, err := handler.authService.Authenticate(request.Context(), input.InitData)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
