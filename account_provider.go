package accounts

import (
	"context"
	"errors"

	"github.com/goliatone/go-repository-bun"
)

var (
	// MaxLoginAttempts is how many failed attempts an account gets
	// before the cool down period kicks in.
	MaxLoginAttempts = 5
	// CoolDownPeriod is how long an account stays throttled after
	// exhausting its login attempts.
	CoolDownPeriod = "24h"
)

// AccountTracker is the slice of the repository the provider needs to
// verify credentials and keep attempt counters.
type AccountTracker interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Account, error)
	TrackAttemptedLogin(ctx context.Context, account *Account) error
	TrackSuccessfulLogin(ctx context.Context, account *Account) error
}

// AccountProvider resolves identities and checks passwords against the
// stored digest.
type AccountProvider struct {
	store       AccountTracker
	credentials *CredentialManager
	logger      Logger
}

func NewAccountProvider(store AccountTracker, credentials *CredentialManager) *AccountProvider {
	if credentials == nil {
		credentials = NewCredentialManager(nil)
	}
	return &AccountProvider{
		store:       store,
		credentials: credentials,
		logger:      &defLogger{},
	}
}

func (p *AccountProvider) SetLogger(logger Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// VerifyIdentity checks the candidate password for the account matching
// identifier. A missing account reports the same error as a wrong
// password so callers cannot probe which identifiers exist.
func (p *AccountProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	if identifier == "" || password == "" {
		return nil, ErrNoEmptyString
	}

	account, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if !account.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	if !account.IsAccountNonLocked() {
		return nil, ErrAccountLocked
	}

	if err := p.checkCoolDown(account); err != nil {
		return nil, err
	}

	if err := p.credentials.Verify(account, password); err != nil {
		if trackErr := p.store.TrackAttemptedLogin(ctx, account); trackErr != nil {
			p.logger.Error("unable to track attempted login for %s: %v", account.ID, trackErr)
		}
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := p.store.TrackSuccessfulLogin(ctx, account); err != nil {
		p.logger.Error("unable to track successful login for %s: %v", account.ID, err)
	}

	return newAccountIdentity(account), nil
}

// FindIdentityByIdentifier resolves an account without touching its
// credentials, e.g. to hydrate a session subject.
func (p *AccountProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	if identifier == "" {
		return nil, ErrNoEmptyString
	}

	account, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return newAccountIdentity(account), nil
}

func (p *AccountProvider) checkCoolDown(account *Account) error {
	if account.LoginAttempts < MaxLoginAttempts {
		return nil
	}

	if account.LoginAttemptAt == nil {
		return nil
	}

	outside, err := IsOutsideThresholdPeriod(*account.LoginAttemptAt, CoolDownPeriod)
	if err != nil {
		p.logger.Warn("invalid cool down period %q: %v", CoolDownPeriod, err)
		return nil
	}

	if outside {
		return nil
	}

	return ErrTooManyLoginAttempts
}

type accountIdentity struct {
	id        string
	loginName string
	email     string
	roles     []string
}

func newAccountIdentity(account *Account) *accountIdentity {
	roles := make([]string, len(account.Roles))
	copy(roles, account.Roles)

	return &accountIdentity{
		id:        account.ID.String(),
		loginName: account.LoginName,
		email:     account.Email,
		roles:     roles,
	}
}

func (i *accountIdentity) ID() string        { return i.id }
func (i *accountIdentity) LoginName() string { return i.loginName }
func (i *accountIdentity) Email() string     { return i.email }
func (i *accountIdentity) Roles() []string   { return i.roles }

var _ Identity = (*accountIdentity)(nil)
