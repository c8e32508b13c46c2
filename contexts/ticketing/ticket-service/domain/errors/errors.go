package errors

import "errors"

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrEventNotPublished      = errors.New("event is not published")
	ErrEventPassed            = errors.New("event registration deadline has passed")
	ErrSeatUnavailable        = errors.New("seat unavailable")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrProviderNetworkError   = errors.New("provider network error")
	ErrProviderUnexpectedResp = errors.New("provider returned an unexpected response")
	ErrIdempotencyConflict    = errors.New("idempotency key reused with a different payload")
	ErrIdempotencyCorrupt     = errors.New("idempotency record is missing its ticket id")
	ErrFailedSyncEvent        = errors.New("pre-registration sync could not complete")
)
