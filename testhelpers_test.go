package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// setupTestDB returns an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared&mode=memory")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	err = db.ResetModel(ctx,
		(*accounts.User)(nil),
		(*accounts.Material)(nil),
		(*accounts.Product)(nil),
		(*accounts.ProductEntry)(nil),
		(*accounts.MaterialSnapshot)(nil),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func registerTestUser(t *testing.T, svc *accounts.Accounts, email string) *accounts.User {
	t.Helper()

	user, err := svc.Register(context.Background(), accounts.RegisterAccountInput{
		Email:    email,
		Password: "secret-password-123",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return user
}

func newTestService(t *testing.T, db *bun.DB) (*accounts.Accounts, accounts.RepositoryManager, accounts.TokenService) {
	t.Helper()

	repo := accounts.NewRepositoryManager(db)
	tokens := accounts.NewTokenService([]byte("test-signing-key"), 60, "go-accounts-test", nil, nil)
	svc := accounts.NewAccounts(repo, tokens)
	return svc, repo, tokens
}
