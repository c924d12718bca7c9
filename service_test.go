package accounts_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestAccountsRegister(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, accounts.RegisterAccountInput{
		Email:    "New.User@Example.com",
		Password: "secret-password-123",
		FullName: "New User",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "new.user@example.com", user.Email)
	assert.Equal(t, "New User", user.FullName)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret-password-123", user.PasswordHash)
	assert.NoError(t, accounts.ComparePasswordAndHash("secret-password-123", user.PasswordHash))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, accounts.RegisterAccountInput{
			Email:    "new.user@example.com",
			Password: "another-password-456",
		})
		require.ErrorIs(t, err, accounts.ErrEmailRegistered)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := svc.Register(ctx, accounts.RegisterAccountInput{
			Email: "empty@example.com",
		})
		require.ErrorIs(t, err, accounts.ErrNoEmptyPassword)
	})
}

func TestAccountsRegisterDeterministicIDs(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTestService(t, db)
	svc = svc.WithDeterministicIDs()
	ctx := context.Background()

	user, err := svc.Register(ctx, accounts.RegisterAccountInput{
		Email:    "stable@example.com",
		Password: "secret-password-123",
	})
	require.NoError(t, err)

	expected, err := hashid.NewUUID("stable@example.com")
	require.NoError(t, err)
	assert.Equal(t, expected, user.ID)
}

func TestAccountsLogin(t *testing.T) {
	db := setupTestDB(t)
	svc, _, tokens := newTestService(t, db)
	ctx := context.Background()

	user := registerTestUser(t, svc, "login@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(ctx, "login@example.com", "secret-password-123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, user.Email, claims.UserEmail())
	})

	t.Run("mixed case email", func(t *testing.T) {
		_, err := svc.Login(ctx, "LOGIN@Example.com", "secret-password-123")
		require.NoError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret-password-123")
		require.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "login@example.com", "wrong-password")
		require.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})
}

func TestAccountsLoginInactive(t *testing.T) {
	db := setupTestDB(t)
	svc, repo, _ := newTestService(t, db)
	ctx := context.Background()

	hash, err := accounts.HashPassword("secret-password-123")
	require.NoError(t, err)

	_, err = repo.Users().Register(ctx, &accounts.User{
		Email:        "inactive@example.com",
		PasswordHash: hash,
		IsActive:     false,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "inactive@example.com", "secret-password-123")
	require.ErrorIs(t, err, accounts.ErrAccountInactive)
}

func TestAccountsRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc, _, tokens := newTestService(t, db)
	ctx := context.Background()

	user := registerTestUser(t, svc, "refresh@example.com")

	token, err := svc.Refresh(ctx, user)
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID())

	t.Run("nil user", func(t *testing.T) {
		_, err := svc.Refresh(ctx, nil)
		require.ErrorIs(t, err, accounts.ErrCredentialsInvalid)
	})

	t.Run("inactive user", func(t *testing.T) {
		user.IsActive = false
		_, err := svc.Refresh(ctx, user)
		require.ErrorIs(t, err, accounts.ErrAccountInactive)
	})
}

func TestAccountsUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc, repo, _ := newTestService(t, db)
	ctx := context.Background()

	user := registerTestUser(t, svc, "profile@example.com")

	t.Run("change name only keeps the hash", func(t *testing.T) {
		before, err := repo.Users().GetByEmail(ctx, "profile@example.com")
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, user, accounts.UpdateProfileInput{
			FullName: strptr("Renamed User"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed User", updated.FullName)
		assert.Equal(t, "profile@example.com", updated.Email)

		after, err := repo.Users().GetByEmail(ctx, "profile@example.com")
		require.NoError(t, err)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)
	})

	t.Run("empty name clears the field", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, user, accounts.UpdateProfileInput{
			FullName: strptr(""),
		})
		require.NoError(t, err)
		assert.Empty(t, updated.FullName)

		stored, err := repo.Users().GetByEmail(ctx, "profile@example.com")
		require.NoError(t, err)
		assert.Empty(t, stored.FullName)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, user, accounts.UpdateProfileInput{})
		require.NoError(t, err)
		assert.Equal(t, user.ID, updated.ID)
	})

	t.Run("change email normalizes", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, user, accounts.UpdateProfileInput{
			Email: strptr("  Profile.Two@Example.com "),
		})
		require.NoError(t, err)
		assert.Equal(t, "profile.two@example.com", updated.Email)

		_, err = svc.Login(ctx, "profile.two@example.com", "secret-password-123")
		require.NoError(t, err)
	})

	t.Run("change password re-hashes", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user, accounts.UpdateProfileInput{
			Password: strptr("brand-new-password"),
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "profile.two@example.com", "brand-new-password")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "profile.two@example.com", "secret-password-123")
		require.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})

	t.Run("email collision", func(t *testing.T) {
		registerTestUser(t, svc, "taken@example.com")

		_, err := svc.UpdateProfile(ctx, user, accounts.UpdateProfileInput{
			Email: strptr("taken@example.com"),
		})
		require.ErrorIs(t, err, accounts.ErrEmailRegistered)
	})

	t.Run("nil user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, nil, accounts.UpdateProfileInput{})
		require.ErrorIs(t, err, accounts.ErrCredentialsInvalid)
	})
}

func TestAccountsDeleteAccount(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	user := registerTestUser(t, svc, "doomed@example.com")

	require.NoError(t, svc.DeleteAccount(ctx, user))

	_, err := svc.Login(ctx, "doomed@example.com", "secret-password-123")
	require.ErrorIs(t, err, accounts.ErrInvalidCredentials)

	t.Run("already deleted", func(t *testing.T) {
		err := svc.DeleteAccount(ctx, user)
		require.ErrorIs(t, err, accounts.ErrCredentialsInvalid)
	})

	t.Run("nil user", func(t *testing.T) {
		err := svc.DeleteAccount(ctx, nil)
		require.ErrorIs(t, err, accounts.ErrCredentialsInvalid)
	})
}
