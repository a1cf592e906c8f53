package repository

import (
	"errors"
	"fmt"
)

// Generic storage errors. Implementations must translate their native errors
// into these before returning them; callers never see driver error types.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a write violated a uniqueness constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases. The caller knows which lookup failed, so these stay
// aliases of ErrNotFound rather than distinct sentinels.
var (
	ErrUserNotFound        = ErrNotFound
	ErrRoomNotFound        = ErrNotFound
	ErrPlayerNotFound      = ErrNotFound
	ErrCodeNotFound        = ErrNotFound
	ErrAchievementNotFound = ErrNotFound
)

// Recognized uniqueness violations. These wrap ErrDuplicateEntry so that
// errors.Is(err, ErrDuplicateEntry) still holds.
var (
	ErrTitleTaken    = fmt.Errorf("%w: room title", ErrDuplicateEntry)
	ErrUsernameTaken = fmt.Errorf("%w: username", ErrDuplicateEntry)
	ErrEmailTaken    = fmt.Errorf("%w: email", ErrDuplicateEntry)
)
