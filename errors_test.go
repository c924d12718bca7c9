package accounts_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "sqlite constraint",
			err:  errors.New("constraint failed: UNIQUE constraint failed: users.email"),
			want: true,
		},
		{
			name: "postgres duplicate key",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE=23505)`),
			want: true,
		},
		{
			name: "postgres sqlstate only",
			err:  errors.New("SQLSTATE=23505"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "constraint detail buried in a wrap chain",
			err: goerrors.Wrap(
				errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"),
				goerrors.CategoryInternal,
				"failed to update record",
			),
			want: true,
		},
		{
			name: "wrap chain with no constraint anywhere",
			err: goerrors.Wrap(
				errors.New("connection refused"),
				goerrors.CategoryInternal,
				"failed to update record",
			),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounts.IsUniqueViolation(tt.err))
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, accounts.IsTokenExpiredError(nil))
	assert.True(t, accounts.IsTokenExpiredError(accounts.ErrTokenExpired))
	assert.True(t, accounts.IsTokenExpiredError(errors.New("token is expired")))
	assert.False(t, accounts.IsTokenExpiredError(errors.New("token is malformed")))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, accounts.IsMalformedError(nil))
	assert.True(t, accounts.IsMalformedError(accounts.ErrTokenMalformed))
	assert.True(t, accounts.IsMalformedError(errors.New("token is malformed")))
	assert.True(t, accounts.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, accounts.IsMalformedError(errors.New("token is expired")))
}

func TestSentinelErrorShapes(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		code     int
		category goerrors.Category
		textCode string
	}{
		{
			name:     "invalid credentials",
			err:      accounts.ErrInvalidCredentials,
			code:     http.StatusUnauthorized,
			category: goerrors.CategoryAuth,
			textCode: accounts.TextCodeInvalidCredentials,
		},
		{
			name:     "inactive account",
			err:      accounts.ErrAccountInactive,
			code:     http.StatusBadRequest,
			category: goerrors.CategoryAuth,
			textCode: accounts.TextCodeAccountInactive,
		},
		{
			name:     "email registered",
			err:      accounts.ErrEmailRegistered,
			code:     http.StatusBadRequest,
			category: goerrors.CategoryConflict,
			textCode: accounts.TextCodeEmailRegistered,
		},
		{
			name:     "token expired",
			err:      accounts.ErrTokenExpired,
			code:     http.StatusUnauthorized,
			category: goerrors.CategoryAuth,
			textCode: accounts.TextCodeTokenExpired,
		},
		{
			name:     "missing credentials",
			err:      accounts.ErrMissingCredentials,
			code:     http.StatusUnauthorized,
			category: goerrors.CategoryAuth,
			textCode: accounts.TextCodeMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}
