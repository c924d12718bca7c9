package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// The unknown-email login path compares against loginDecoyHash; it only
// equalizes timing if the value is a real hash at the configured cost.
func TestLoginDecoyHashIsRealHash(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(loginDecoyHash))
	require.NoError(t, err)
	require.Equal(t, passwordHashCost(), cost)
}
