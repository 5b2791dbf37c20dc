package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	accounts "github.com/0bjects/go-accounts"
)

func TestGrantRoleIsIdempotent(t *testing.T) {
	account := accounts.NewAccount()

	account.GrantRole(accounts.RoleUser)
	account.GrantRole(accounts.RoleUser)

	assert.Equal(t, []accounts.Role{accounts.RoleUser}, account.Roles)
}

func TestActivateSwapsPendingForActive(t *testing.T) {
	account := accounts.NewAccount()
	account.GrantRole(accounts.RoleNotActiveUser)

	assert.True(t, account.IsPendingActivation())
	assert.False(t, account.IsActive())

	account.Activate()

	assert.True(t, account.IsActive())
	assert.False(t, account.IsPendingActivation(), "active and pending are mutually exclusive")
}

func TestDeactivateSwapsActiveForPending(t *testing.T) {
	account := accounts.NewAccount()
	account.GrantRole(accounts.RoleUser)

	account.Deactivate()

	assert.False(t, account.IsActive())
	assert.True(t, account.IsPendingActivation())
}

func TestRevokeRoleLeavesOthersAlone(t *testing.T) {
	account := accounts.NewAccount()
	account.GrantRole(accounts.RoleUser)
	account.GrantRole(accounts.RoleUpdatableUsername)

	account.RevokeRole(accounts.RoleUpdatableUsername)

	assert.False(t, account.CanChangeLoginName())
	assert.True(t, account.IsActive())
}

func TestIsAdmin(t *testing.T) {
	account := accounts.NewAccount()
	assert.False(t, account.IsAdmin())

	account.GrantRole(accounts.RoleAdmin)
	assert.True(t, account.IsAdmin())
}

func TestIsKnownRole(t *testing.T) {
	for _, role := range accounts.KnownRoles() {
		assert.True(t, accounts.IsKnownRole(role))
	}
	assert.False(t, accounts.IsKnownRole("ROLE_WIZARD"))
}
