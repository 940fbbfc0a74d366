package errors

import "net/http"

// Push-dispatch error kinds (§7). Each wraps BaseError so every
// failure surfaced across package boundaries still satisfies AppError.
var (
	// ErrStoreTransient marks a persistence failure the caller should
	// retry (connection reset, deadlock victim, statement timeout).
	ErrStoreTransient = NewBaseError(
		http.StatusServiceUnavailable,
		"STORE_TRANSIENT",
		"Store is temporarily unavailable",
		"",
	)

	// ErrStorePermanent marks a persistence failure that will not heal
	// on retry (constraint violation, missing row, malformed data).
	ErrStorePermanent = NewBaseError(
		http.StatusInternalServerError,
		"STORE_PERMANENT",
		"Store rejected the operation",
		"",
	)

	// ErrSenderConnect marks a transport-level failure reaching the
	// push gateway itself, distinct from a per-token rejection.
	ErrSenderConnect = NewBaseError(
		http.StatusBadGateway,
		"SENDER_CONNECT_FAILED",
		"Could not reach push transport",
		"",
	)

	// ErrSenderPayloadTooLarge marks a batch the transport refused
	// because the serialized message exceeded its size limit.
	ErrSenderPayloadTooLarge = NewBaseError(
		http.StatusRequestEntityTooLarge,
		"SENDER_PAYLOAD_TOO_LARGE",
		"Push payload exceeds transport limit",
		"",
	)

	// ErrTokenRejected marks a single recipient token the transport
	// will never accept again (unregistered, mismatched sender id).
	ErrTokenRejected = NewBaseError(
		http.StatusGone,
		"TOKEN_REJECTED",
		"Recipient token rejected by transport",
		"",
	)

	// ErrTriggerExhausted marks a TriggerLoop redelivery that ran out
	// of attempts while a job was still incomplete (§4.9).
	ErrTriggerExhausted = NewBaseError(
		http.StatusInternalServerError,
		"TRIGGER_EXHAUSTED",
		"Trigger redelivery budget exhausted before completion",
		"",
	)
)
