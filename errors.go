package accounts

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeEmptyPassword      = "account_empty_password"
	TextCodePasswordTooLong    = "account_password_too_long"
	TextCodePasswordMismatch   = "account_password_mismatch"
	TextCodeInvalidCredentials = "account_invalid_credentials"
	TextCodeAccountInactive    = "account_inactive"
	TextCodeEmailRegistered    = "account_email_registered"
	TextCodeTokenExpired       = "account_token_expired"
	TextCodeTokenMalformed     = "account_token_malformed"
	TextCodeMissingCredentials = "account_missing_credentials"
	TextCodeCredentialsInvalid = "account_credentials_invalid"
)

// ErrNoEmptyPassword is returned when a caller tries to hash an empty password.
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(422)

// ErrPasswordTooLong is returned when a password exceeds the bcrypt byte limit.
// We reject instead of silently truncating.
var ErrPasswordTooLong = errors.New("password must be 72 bytes or fewer", errors.CategoryValidation).
	WithTextCode(TextCodePasswordTooLong).
	WithCode(422)

// ErrMismatchedHashAndPassword is returned when a password does not match its hash.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is the single error returned for both unknown emails
// and wrong passwords so callers cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive is returned when a deactivated account attempts to authenticate.
var ErrAccountInactive = errors.New("account is inactive", errors.CategoryAuth).
	WithTextCode(TextCodeAccountInactive).
	WithCode(errors.CodeBadRequest)

// ErrEmailRegistered is returned when registering or updating to an email
// that already belongs to another account.
var ErrEmailRegistered = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailRegistered).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token is valid but past its expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed or verified.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMissingCredentials is returned when a request carries no usable
// Authorization header.
var ErrMissingCredentials = errors.New("missing authorization credentials", errors.CategoryAuth).
	WithTextCode(TextCodeMissingCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrCredentialsInvalid is returned when a token verifies but no longer maps
// to a live account.
var ErrCredentialsInvalid = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeCredentialsInvalid).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUniqueViolation detects duplicate key failures across the drivers we
// support: pgdriver surfaces SQLSTATE 23505, sqlite its constraint message.
// The whole unwrap chain is inspected because repository layers wrap the
// driver error in rich errors whose own text drops the constraint detail.
func IsUniqueViolation(err error) bool {
	for err != nil {
		msg := err.Error()
		if strings.Contains(msg, "23505") ||
			strings.Contains(msg, "duplicate key value") ||
			strings.Contains(msg, "UNIQUE constraint failed") {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
