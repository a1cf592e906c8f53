package service

import "errors"

// Business errors surfaced by the services. Handlers map each of these to
// exactly one HTTP status and message; repository errors never cross this
// boundary.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrAchievementNotFound = errors.New("achievement not found")

	ErrTitleTaken    = errors.New("room title already in use")
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")

	ErrUserInRoom          = errors.New("user is already in a room")
	ErrInvalidMaxPlayers   = errors.New("max players below current occupancy")
	ErrNoSlot              = errors.New("no free slots left")
	ErrInvalidRoomPassword = errors.New("invalid room password")
	ErrBlacklisted         = errors.New("user is banned from this room")

	ErrNotAdmin = errors.New("user is not an admin")
	ErrNotHost  = errors.New("user is not the room host")

	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserNotActive        = errors.New("account is not activated")
	ErrUserDisabled         = errors.New("account is disabled")
	ErrUserAlreadyActive    = errors.New("account is already activated")
	ErrInvalidCode          = errors.New("invalid verification code")

	ErrInternalServer = errors.New("internal server error")
)
