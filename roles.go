package accounts

// HasRole reports whether the account carries the given role tag
func (a *Account) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GrantRole adds a role tag. Granting a role the account already holds is
// a no-op.
func (a *Account) GrantRole(role Role) *Account {
	if !a.HasRole(role) {
		a.Roles = append(a.Roles, role)
	}
	return a
}

// RevokeRole removes a role tag if present
func (a *Account) RevokeRole(role Role) *Account {
	for i, r := range a.Roles {
		if r == role {
			a.Roles = append(a.Roles[:i], a.Roles[i+1:]...)
			return a
		}
	}
	return a
}

// Activate swaps ROLE_NOTACTIVE_USER for ROLE_USER. An account is active
// XOR pending, never both.
func (a *Account) Activate() *Account {
	a.RevokeRole(RoleNotActiveUser)
	a.GrantRole(RoleUser)
	return a
}

// Deactivate swaps ROLE_USER for ROLE_NOTACTIVE_USER, sending the account
// back through email activation
func (a *Account) Deactivate() *Account {
	a.RevokeRole(RoleUser)
	a.GrantRole(RoleNotActiveUser)
	return a
}

// IsActive reports whether the account has completed activation
func (a *Account) IsActive() bool {
	return a.HasRole(RoleUser)
}

// IsPendingActivation reports whether the account still needs to redeem a
// confirmation code
func (a *Account) IsPendingActivation() bool {
	return a.HasRole(RoleNotActiveUser)
}

// IsAdmin reports whether the account holds ROLE_ADMIN
func (a *Account) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// CanChangeLoginName reports whether the holder may still edit their
// login name
func (a *Account) CanChangeLoginName() bool {
	return a.HasRole(RoleUpdatableUsername)
}

// KnownRoles returns the role tags this package understands
func KnownRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleUser,
		RoleNotActiveUser,
		RoleUpdatableUsername,
	}
}

// IsKnownRole reports whether the tag is one of the predefined roles
func IsKnownRole(role Role) bool {
	for _, r := range KnownRoles() {
		if r == role {
			return true
		}
	}
	return false
}
