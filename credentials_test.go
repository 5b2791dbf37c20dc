package accounts_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/0bjects/go-accounts"
)

func TestCredentialManagerCommitAndVerify(t *testing.T) {
	credentials := accounts.NewCredentialManager(nil)

	account := accounts.NewAccount()
	account.SetClearPassword("secret123")

	require.NoError(t, credentials.Commit(account))
	require.NotEmpty(t, account.PasswordHash)
	assert.Empty(t, account.ClearPassword(), "commit should erase the clear password")

	require.NoError(t, credentials.Verify(account, "secret123"))
	require.ErrorIs(t, credentials.Verify(account, "nope"), accounts.ErrMismatchedHashAndPassword)
}

func TestCredentialManagerCommitIsNoOpWithoutChanges(t *testing.T) {
	credentials := accounts.NewCredentialManager(nil)

	account := accounts.NewAccount()
	account.SetClearPassword("secret123")
	require.NoError(t, credentials.Commit(account))

	hash := account.PasswordHash
	account.ID = uuid.New()

	require.NoError(t, credentials.Commit(account))
	assert.Equal(t, hash, account.PasswordHash, "no pending password, the digest stays put")
}

func TestCredentialManagerAssignsRandomPasswordToNewAccounts(t *testing.T) {
	credentials := accounts.NewCredentialManager(nil)

	account := accounts.NewAccount()
	require.NoError(t, credentials.Commit(account))

	assert.NotEmpty(t, account.PasswordHash, "new accounts get a random password")
}

func TestCredentialManagerBcrypt(t *testing.T) {
	credentials := accounts.NewCredentialManager(&accounts.BcryptHasher{})

	account := accounts.NewAccount()
	account.SetClearPassword("secret123")

	require.NoError(t, credentials.Commit(account))
	require.NoError(t, credentials.Verify(account, "secret123"))
	require.Error(t, credentials.Verify(account, "other"))
}
