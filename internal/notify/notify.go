// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package notify delivers out-of-band notifications to users over Telegram.

The event and response services call it fire-and-forget: a failed delivery is
logged and dropped, never surfaced to the API caller.

# Capability Object

Callers always hold a non-nil [Notifier]. When no bot token is configured the
composition root wires [Disabled], so call sites need no nil checks and no
feature flags.
*/
package notify

import "context"

// Notifier is the capability for reaching a user outside the request cycle.
//
// Recipients are addressed by Telegram ID. Synthesized guest identities live
// in a reserved ID range no real chat answers to; deliveries to them simply
// fail and are dropped, which is the intended outcome.
type Notifier interface {
	/*
		EventInvitation tells a responder their request to join was accepted.

		Parameters:
		  - context: context.Context
		  - telegramID: int64 (Recipient)
		  - eventTitle: string

		Returns:
		  - error: Delivery failures
	*/
	EventInvitation(context context.Context, telegramID int64, eventTitle string) error

	/*
		EventUpdated tells an accepted responder the event's details changed.

		Parameters:
		  - context: context.Context
		  - telegramID: int64 (Recipient)
		  - eventTitle: string

		Returns:
		  - error: Delivery failures
	*/
	EventUpdated(context context.Context, telegramID int64, eventTitle string) error

	/*
		ResponseReceived tells an event creator someone wants to join.

		Parameters:
		  - context: context.Context
		  - telegramID: int64 (Recipient: the creator)
		  - eventTitle: string
		  - responderName: string

		Returns:
		  - error: Delivery failures
	*/
	ResponseReceived(context context.Context, telegramID int64, eventTitle, responderName string) error
}

// Disabled is a [Notifier] that silently drops every notification.
type Disabled struct{}

// EventInvitation implements [Notifier] as a no-op.
func (Disabled) EventInvitation(context.Context, int64, string) error { return nil }

// EventUpdated implements [Notifier] as a no-op.
func (Disabled) EventUpdated(context.Context, int64, string) error { return nil }

// ResponseReceived implements [Notifier] as a no-op.
func (Disabled) ResponseReceived(context.Context, int64, string, string) error { return nil }
