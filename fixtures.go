package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// SeedAccounts loads a small set of development accounts: an admin, an
// active member and one still pending activation. Each password matches
// its login name.
func SeedAccounts(ctx context.Context, store AccountStore, credentials *CredentialManager) error {
	if credentials == nil {
		credentials = NewCredentialManager(nil)
	}

	fixtures := []struct {
		loginName string
		email     string
		role      Role
	}{
		{"admin", "admin@example.com", RoleAdmin},
		{"user", "user@example.com", RoleUser},
		{"notactive", "notactive@example.com", RoleNotActiveUser},
	}

	for _, f := range fixtures {
		account := NewAccount()
		account.LoginName = f.loginName
		account.Email = f.email
		account.FirstName = f.loginName
		account.GrantRole(f.role)
		account.GrantRole(RoleUpdatableUsername)
		account.SetClearPassword(f.loginName)

		if err := credentials.Commit(account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to hash fixture password")
		}

		if _, err := store.Save(ctx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to seed account").
				WithMetadata(map[string]any{
					"login_name": f.loginName,
				})
		}
	}

	return nil
}
