package accounts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoEmptyString is returned when an empty password is hashed
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrMismatchedHashAndPassword is the generic credential mismatch error
var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash")

// ErrAccountNotFound is the error we return for non found accounts
var ErrAccountNotFound = errors.New("account not found")

// ErrTooManyLoginAttempts is returned while the login cool-down is active
var ErrTooManyLoginAttempts = errors.New("too many login attempts")

// ErrUnableToDecodeSession is returned when a session token cannot be parsed
var ErrUnableToDecodeSession = errors.New("unable to decode session")

const (
	// TextCodeAccountDisabled marks establishment failures on disabled accounts
	TextCodeAccountDisabled = "ACCOUNT_DISABLED"
	// TextCodeAccountLocked marks establishment failures on locked accounts
	TextCodeAccountLocked = "ACCOUNT_LOCKED"
	// TextCodeSessionRevoked marks tokens whose id has been invalidated
	TextCodeSessionRevoked = "SESSION_REVOKED"
	// TextCodeTokenExpired marks expired session tokens
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeLoginNameFrozen marks login-name edits without the capability
	TextCodeLoginNameFrozen = "LOGIN_NAME_FROZEN"
)

// ErrAccountDisabled is returned when a disabled account tries to
// establish a session
var ErrAccountDisabled = goerrors.New("account is disabled", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountLocked is returned when a locked account tries to establish
// a session
var ErrAccountLocked = goerrors.New("account is locked", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountLocked).
	WithCode(goerrors.CodeUnauthorized)

// ErrSessionRevoked is returned when a token id has been explicitly
// invalidated
var ErrSessionRevoked = goerrors.New("session has been invalidated", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionRevoked).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for session tokens past their expiry
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)
