package accounts_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/0bjects/go-accounts"
)

func TestNewAccountDefaults(t *testing.T) {
	account := accounts.NewAccount()

	assert.True(t, account.IsNew())
	assert.True(t, account.Enabled)
	assert.False(t, account.Locked)
	assert.NotEmpty(t, account.Salt)
	assert.NotEmpty(t, account.ConfirmationCode)
	require.NotNil(t, account.CreatedAt)
}

func TestNewAccountsGetDistinctSecrets(t *testing.T) {
	a := accounts.NewAccount()
	b := accounts.NewAccount()

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.ConfirmationCode, b.ConfirmationCode)
}

func TestSetClearPasswordResetsDigest(t *testing.T) {
	account := accounts.NewAccount()
	account.PasswordHash = "stale-digest"

	account.SetClearPassword("secret123")

	assert.Empty(t, account.PasswordHash)
	assert.Equal(t, "secret123", account.ClearPassword())

	account.EraseCredentials()
	assert.Empty(t, account.ClearPassword())
}

func TestDisplayName(t *testing.T) {
	account := accounts.NewAccount()

	account.FirstName = "Pepe"
	assert.Equal(t, "Pepe", account.DisplayName())

	account.LastName = "Rone"
	assert.Equal(t, "Pepe Rone", account.DisplayName())
}

func TestAccountSerializationHidesSecrets(t *testing.T) {
	account := accounts.NewAccount()
	account.LoginName = "pepe"
	account.Email = "pepe@example.com"
	account.PasswordHash = "digest"
	account.SetClearPassword("secret123")
	account.PasswordHash = "digest"

	raw, err := json.Marshal(account)
	require.NoError(t, err)

	payload := string(raw)
	assert.NotContains(t, payload, "digest")
	assert.NotContains(t, payload, "secret123")
	assert.NotContains(t, payload, account.Salt)
	assert.NotContains(t, payload, account.ConfirmationCode)
	assert.Contains(t, payload, "pepe@example.com")
}

func TestGenderString(t *testing.T) {
	assert.Equal(t, "Female", accounts.GenderFemale.String())
	assert.Equal(t, "Male", accounts.GenderMale.String())
}
