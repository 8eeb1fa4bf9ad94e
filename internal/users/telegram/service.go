// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/platform/constants"
	"github.com/linkup-app/linkup/internal/platform/dberr"
	"github.com/linkup-app/linkup/internal/platform/sec"
	"github.com/linkup-app/linkup/internal/users/identity"
	uuidutil "github.com/linkup-app/linkup/pkg/uuid"
)

// # Fallback Synthesis

// SynthesisCause classifies why a real Telegram identity could not be used.
type SynthesisCause int

const (
	// CauseEmptyCredential: the client submitted no initData at all.
	CauseEmptyCredential SynthesisCause = iota
	// CauseUnusablePayload: initData parsed to a zero Telegram ID.
	CauseUnusablePayload
	// CauseStaleAssertion: the assertion aged out of the freshness window.
	CauseStaleAssertion
	// CauseBadSignature: the HMAC tag did not match the payload.
	CauseBadSignature
	// CauseVerificationBypass: no bot token is configured, so no assertion
	// can be verified.
	CauseVerificationBypass
)

// syntheticIDBase is the floor of the reserved synthetic Telegram ID range.
//
// Real Telegram identifiers stay far below 10^16; synthesized ones start
// there, and each cause claims its own 10^16-wide band so the failure mode is
// readable from the identifier's magnitude.
const syntheticIDBase int64 = 10_000_000_000_000_000

// syntheticSlots is the number of identities one millisecond can hold.
const syntheticSlots int64 = 1000

// syntheticSequence spreads identities minted in the same millisecond across
// the slot space. Seeded randomly so separate instances diverge.
var syntheticSequence atomic.Int64

func init() {
	syntheticSequence.Store(rand.Int63n(syntheticSlots))
}

// syntheticTelegramID derives a unique Telegram ID inside the cause's band.
func syntheticTelegramID(cause SynthesisCause, at time.Time) int64 {
	slot := syntheticSequence.Add(1) % syntheticSlots
	return syntheticIDBase*(int64(cause)+1) + at.UnixMilli()*syntheticSlots + slot
}

func (cause SynthesisCause) String() string {
	switch cause {
	case CauseEmptyCredential:
		return "empty_credential"
	case CauseUnusablePayload:
		return "unusable_payload"
	case CauseStaleAssertion:
		return "stale_assertion"
	case CauseBadSignature:
		return "bad_signature"
	case CauseVerificationBypass:
		return "verification_bypass"
	default:
		return "unknown"
	}
}

// # Identity Cache Contract

// IdentityCache is a read-through cache of resolved users keyed by Telegram ID.
//
// A cache miss returns (nil, nil); only infrastructure faults produce errors.
type IdentityCache interface {
	Get(context context.Context, telegramID int64) (*identity.User, error)
	Set(context context.Context, user *identity.User) error
	Invalidate(context context.Context, telegramID int64) error
}

// # Service Layer

// AuthResult is the outcome of a successful sign-in.
type AuthResult struct {
	User        *identity.User `json:"user"`
	AccessToken string         `json:"access_token"`
}

// Service reconciles Telegram identity assertions with the user directory.
//
// A nil verifier means verification is bypassed; strict mode then has no
// effect because there is nothing to reject against.
type Service struct {
	directory identity.Directory
	cache     IdentityCache
	verifier  *Verifier
	tokens    *sec.TokenService
	strict    bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs the Telegram authentication [Service].
func NewService(
	directory identity.Directory,
	cache IdentityCache,
	verifier *Verifier,
	tokens *sec.TokenService,
	strict bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		directory: directory,
		cache:     cache,
		verifier:  verifier,
		tokens:    tokens,
		strict:    strict,
		logger:    logger,
		now:       time.Now,
	}
}

/*
Authenticate signs a caller in from a raw Telegram initData credential.

Description: Parsing never fails; unusable payloads degrade to a synthesized
guest identity. Usable assertions are verified against the bot token: a valid
tag resolves the asserted identity against the directory, while a stale or
forged assertion either synthesizes a guest (permissive mode) or rejects with
401 (strict mode). Every terminal state except the strict rejection returns a
persisted user plus a session token.

Parameters:
  - context: context.Context
  - initData: string (Raw credential from the mini-app client)

Returns:
  - *AuthResult: The resolved or synthesized user with an access token
  - error: apperr.Unauthorized in strict mode, or storage failures
*/
func (service *Service) Authenticate(context context.Context, initData string) (*AuthResult, error) {
	if initData == "" {
		return service.synthesize(context, CauseEmptyCredential)
	}

	assertion := ParseInitData(initData)
	if !assertion.Usable() {
		return service.synthesize(context, CauseUnusablePayload)
	}

	// Degraded mode: without a bot token no assertion can be trusted
	if service.verifier == nil {
		return service.synthesize(context, CauseVerificationBypass)
	}

	if err := service.verifier.Verify(assertion); err != nil {
		cause := CauseBadSignature
		if errors.Is(err, ErrStaleAssertion) {
			cause = CauseStaleAssertion
		}

		if service.strict {
			service.logger.Warn("telegram_auth_rejected",
				slog.Int64("telegram_id", assertion.TelegramID),
				slog.String("cause", cause.String()),
			)
			return nil, apperr.Unauthorized("Telegram credential rejected")
		}

		return service.synthesize(context, cause)
	}

	user, err := service.resolve(context, assertion.TelegramID, assertion.DisplayName(), assertion.PhotoURL)
	if err != nil {
		return nil, err
	}

	return service.issue(user)
}

// # Identity Resolution

/*
resolve reconciles an asserted Telegram ID with the user directory.

Description: A cached or stored user is returned unchanged; the asserted
profile never overwrites an established account. A missing user is inserted
with the asserted name and avatar; losing the insert race to a concurrent
first sign-in resolves by re-fetching the winner, so exactly one record per
Telegram ID survives any interleaving.

Parameters:
  - context: context.Context
  - telegramID: int64
  - name: string (Asserted display name, used only for creation)
  - avatarURL: string (Asserted avatar, used only for creation)

Returns:
  - *identity.User: The canonical user for this Telegram ID
  - error: Storage failures
*/
func (service *Service) resolve(context context.Context, telegramID int64, name, avatarURL string) (*identity.User, error) {

	// Fast path: cached resolution
	if cached, err := service.cache.Get(context, telegramID); err != nil {
		service.logger.Warn("identity_cache_get_failed",
			slog.Int64("telegram_id", telegramID),
			slog.String("error", err.Error()),
		)
	} else if cached != nil {
		return cached, nil
	}

	existing, err := service.directory.FindByTelegramID(context, telegramID)
	if err == nil {
		service.cacheResolution(context, existing)
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("telegram_service_resolve_lookup_failed: %w", err)
	}

	if name == "" {
		name = constants.FallbackDisplayName
	}

	now := service.now()
	user := &identity.User{
		ID:         uuidutil.New(),
		TelegramID: telegramID,
		Name:       name,
		AvatarURL:  avatarURL,
		Interests:  []string{},
		Photos:     []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := service.directory.Insert(context, user); err != nil {

		// A concurrent first sign-in won the insert; their row is canonical
		if dberr.IsUniqueViolation(err) || apperr.IsConflict(err) {
			winner, findErr := service.directory.FindByTelegramID(context, telegramID)
			if findErr != nil {
				return nil, fmt.Errorf("telegram_service_resolve_race_lookup_failed: %w", findErr)
			}
			service.cacheResolution(context, winner)
			return winner, nil
		}

		return nil, fmt.Errorf("telegram_service_resolve_insert_failed: %w", err)
	}

	service.logger.Info("telegram_identity_created",
		slog.String("user_id", user.ID),
		slog.Int64("telegram_id", telegramID),
	)

	service.cacheResolution(context, user)
	return user, nil
}

/*
synthesize creates and persists a guest identity for an unauthenticatable caller.

Description: The synthesized Telegram ID lands in the reserved range for the
given cause, so it can never collide with a real Telegram identity and the
failure mode stays visible in stored data. The guest flows through the same
resolver as real identities and therefore shares its race handling.

Parameters:
  - context: context.Context
  - cause: SynthesisCause

Returns:
  - *AuthResult: The persisted guest with an access token
  - error: Storage failures
*/
func (service *Service) synthesize(context context.Context, cause SynthesisCause) (*AuthResult, error) {
	telegramID := syntheticTelegramID(cause, service.now())

	service.logger.Info("telegram_identity_synthesized",
		slog.Int64("telegram_id", telegramID),
		slog.String("cause", cause.String()),
	)

	user, err := service.resolve(context, telegramID, constants.FallbackDisplayName, "")
	if err != nil {
		return nil, err
	}

	return service.issue(user)
}

// issue attaches a signed session token to a resolved user.
func (service *Service) issue(user *identity.User) (*AuthResult, error) {
	token, err := service.tokens.GenerateAccessToken(user.ID, user.TelegramID, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("telegram_service_issue_token_failed: %w", err)
	}

	return &AuthResult{User: user, AccessToken: token}, nil
}

// cacheResolution stores a resolved user; cache faults are logged, not fatal.
func (service *Service) cacheResolution(context context.Context, user *identity.User) {
	if err := service.cache.Set(context, user); err != nil {
		service.logger.Warn("identity_cache_set_failed",
			slog.Int64("telegram_id", user.TelegramID),
			slog.String("error", err.Error()),
		)
	}
}
