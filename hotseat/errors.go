/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the registry wraps exactly one of these,
// so callers can branch with errors.Is and still show the message to the player.
var (
	ErrValidation   = errors.New("validation error")
	ErrPermission   = errors.New("permission error")
	ErrInvalidPhase = errors.New("invalid phase")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// Error carries a player-facing message and the kind it belongs to.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}
