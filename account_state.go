package accounts

// AccountState is the capability surface a session layer needs to decide
// whether an account may authenticate. Account implements it directly;
// adapters can wrap foreign user types.
type AccountState interface {
	IsAccountNonExpired() bool
	IsAccountNonLocked() bool
	IsCredentialsNonExpired() bool
	IsEnabled() bool
}

var _ AccountState = (*Account)(nil)

// IsAccountNonExpired always reports true: accounts do not expire
func (a *Account) IsAccountNonExpired() bool {
	return true
}

// IsAccountNonLocked reports whether the account is free of an
// administrative lock
func (a *Account) IsAccountNonLocked() bool {
	return !a.Locked
}

// IsCredentialsNonExpired always reports true: credentials do not expire
func (a *Account) IsCredentialsNonExpired() bool {
	return true
}

// IsEnabled reports whether the account may be used at all
func (a *Account) IsEnabled() bool {
	return a.Enabled
}
