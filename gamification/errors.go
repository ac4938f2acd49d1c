package gamification

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user row does not exist.
	// The enclosing transaction is rolled back.
	ErrUserNotFound = errors.New("gamification: user not found")

	// ErrNoTierForBalance means the tier table is empty: there is no floor
	// tier to fall back to. An administrative misconfiguration, not a
	// retryable failure.
	ErrNoTierForBalance = errors.New("gamification: no tier resolves for balance")
)
