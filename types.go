package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Logger is the minimal logging surface this package needs
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Session holds attributes that are part of an authenticated session
type Session interface {
	GetAccountID() string
	GetAccountUUID() (uuid.UUID, error)
	GetTokenID() string
	GetAudience() []string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetData() map[string]any
}

// SessionAuthority establishes and invalidates sessions. Flows treat an
// Establish failure as "invalidate the current session and ask for a
// re-login", never as a hard error.
type SessionAuthority interface {
	Establish(ctx context.Context, account *Account, opts ...EstablishOption) (Session, error)
	Invalidate(ctx context.Context, session Session) error
}

// Notification template names understood by the bundled notifier
const (
	// NotificationWelcomeActive greets an auto-activated signup
	NotificationWelcomeActive = "welcome-active"
	// NotificationWelcomePending greets a signup that still must activate
	NotificationWelcomePending = "welcome-pending"
	// NotificationReactivation is sent after an email change demotes the account
	NotificationReactivation = "reactivate"
	// NotificationPasswordReset carries a fresh confirmation code
	NotificationPasswordReset = "password-reset"
)

// Notifier delivers templated notifications. Delivery happens after the
// triggering state change is persisted; a failure surfaces to the caller
// but never rolls the change back.
type Notifier interface {
	Send(ctx context.Context, template, recipient string, data map[string]any) error
}

// Identity holds the attributes of a verified identity
type Identity interface {
	ID() string
	LoginName() string
	Email() string
	Roles() []Role
}

// Config holds the options the lifecycle and session layer consume
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetTokenExpiration() int
	GetAutoActivate() bool
}

// AccountStore is the narrow persistence surface the lifecycle depends
// on. The bun-backed Accounts repository implements it; mongostore
// provides a document-database alternative.
type AccountStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindForActivation(ctx context.Context, email, code string) (*Account, error)
	Save(ctx context.Context, account *Account) (*Account, error)
	Delete(ctx context.Context, account *Account) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
