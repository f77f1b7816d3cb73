// Package models defines data structures for mystock
package models

import "errors"

// Sentinel errors returned by the watchlist, portfolio, and quote services.
// Services wrap these with context via fmt.Errorf("...: %w", err); callers
// classify with errors.Is.
var (
	// ErrNotFound covers missing users, portfolios, holdings, and watchlist
	// entries. An entity owned by a different user is reported identically,
	// so existence is never disclosed across users.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSymbol is returned when a symbol is already present in the
	// target watchlist or portfolio.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrAlreadyExists is returned when creating a user aggregate that is
	// already provisioned.
	ErrAlreadyExists = errors.New("already exists")

	// ErrLimitExceeded is returned when a collection is at capacity.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrInvalidInput covers malformed symbols, non-positive quantities or
	// prices, over-long notes, and update requests carrying no fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIncompleteOrder is returned by watchlist reorder when the supplied
	// sequence is not a total permutation of the current symbols.
	ErrIncompleteOrder = errors.New("incomplete order")

	// ErrQuoteUnavailable is returned when no cached or fresh quote exists
	// for a symbol.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)
