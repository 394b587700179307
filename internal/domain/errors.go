package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when a request to the remote storefront
	// service fails (network error, timeout, non-2xx status)
	ErrStoreUnavailable = errors.New("storefront service request failed")

	// ErrUnexpectedPayload is returned when a response body is not the array
	// or {results: [...]} shape the service contract promises
	ErrUnexpectedPayload = errors.New("unexpected payload shape from storefront service")

	// ErrRemoveFailed is returned when a server-backed cart line could not be
	// deleted remotely; the line is kept locally to avoid desynchronizing
	ErrRemoveFailed = errors.New("cart item removal failed")

	// ErrCartStale is returned when a remote mutation succeeded but the
	// follow-up cart fetch failed, so the in-memory cart may lag the server
	ErrCartStale = errors.New("cart view is stale")

	// ErrInvalidOrder is returned when an order fails client-side validation
	ErrInvalidOrder = errors.New("invalid order")

	// ErrNotAuthenticated is returned when the service rejects the session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrOrderRejected is returned when the service answers an order
	// submission with a non-success status
	ErrOrderRejected = errors.New("order rejected by storefront service")
)
