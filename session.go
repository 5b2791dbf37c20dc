package accounts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SessionClaims is the JWT payload carried by account sessions.
type SessionClaims struct {
	jwt.RegisteredClaims
	LoginName            string   `json:"login_name,omitempty"`
	Roles                []string `json:"roles,omitempty"`
	ForcedPasswordChange bool     `json:"forced_password_change,omitempty"`
}

// SessionObject is the decoded session handed to callers after a
// successful Establish or token parse.
type SessionObject struct {
	AccountID string
	TokenID   string
	Audience  []string
	Issuer    string
	IssuedAt  *time.Time
	Token     string
	Data      map[string]any
}

func (s SessionObject) GetAccountID() string { return s.AccountID }

func (s SessionObject) GetAccountUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(s.AccountID)
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "session subject is not a valid account id").
			WithCode(goerrors.CodeBadRequest)
	}
	return id, nil
}

func (s SessionObject) GetTokenID() string      { return s.TokenID }
func (s SessionObject) GetAudience() []string   { return s.Audience }
func (s SessionObject) GetIssuer() string       { return s.Issuer }
func (s SessionObject) GetIssuedAt() *time.Time { return s.IssuedAt }
func (s SessionObject) GetData() map[string]any { return s.Data }

var _ Session = (*SessionObject)(nil)

type establishConfig struct {
	forcedPasswordChange bool
}

// EstablishOption tweaks how a session gets established.
type EstablishOption func(*establishConfig)

// WithForcedPasswordChange marks the session as one the account holder
// should only use to pick a new password.
func WithForcedPasswordChange() EstablishOption {
	return func(c *establishConfig) {
		c.forcedPasswordChange = true
	}
}

// TokenSessionAuthority mints and revokes HS256 signed sessions.
// Revocation is tracked in memory by token id, which is enough for a
// single process; a shared cache would back it in a multi node setup.
type TokenSessionAuthority struct {
	signingKey    []byte
	expirationHrs int
	issuer        string
	audience      []string
	logger        Logger

	mu      sync.RWMutex
	revoked map[string]struct{}
}

var _ SessionAuthority = (*TokenSessionAuthority)(nil)

func NewTokenSessionAuthority(cfg Config) *TokenSessionAuthority {
	return &TokenSessionAuthority{
		signingKey:    []byte(cfg.GetSigningKey()),
		expirationHrs: cfg.GetTokenExpiration(),
		issuer:        cfg.GetIssuer(),
		audience:      cfg.GetAudience(),
		logger:        &defLogger{},
		revoked:       map[string]struct{}{},
	}
}

func (t *TokenSessionAuthority) SetLogger(logger Logger) {
	if logger != nil {
		t.logger = logger
	}
}

func (t *TokenSessionAuthority) Establish(_ context.Context, account *Account, opts ...EstablishOption) (Session, error) {
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if !account.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	if !account.IsAccountNonLocked() {
		return nil, ErrAccountLocked
	}

	cfg := &establishConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings(t.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(t.expirationHrs) * time.Hour)),
		},
		LoginName:            account.LoginName,
		Roles:                account.Roles,
		ForcedPasswordChange: cfg.forcedPasswordChange,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to sign session token")
	}

	issuedAt := now
	return &SessionObject{
		AccountID: claims.Subject,
		TokenID:   claims.ID,
		Audience:  t.audience,
		Issuer:    t.issuer,
		IssuedAt:  &issuedAt,
		Token:     signed,
		Data: map[string]any{
			"login_name":             account.LoginName,
			"roles":                  account.Roles,
			"forced_password_change": cfg.forcedPasswordChange,
		},
	}, nil
}

func (t *TokenSessionAuthority) Invalidate(_ context.Context, session Session) error {
	if session == nil {
		return nil
	}

	id := session.GetTokenID()
	if id == "" {
		return nil
	}

	t.mu.Lock()
	t.revoked[id] = struct{}{}
	t.mu.Unlock()

	t.logger.Debug("session invalidated: %s", id)

	return nil
}

func (t *TokenSessionAuthority) isRevoked(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.revoked[id]
	return ok
}

// SessionFromToken parses and verifies a signed token and returns the
// session it carries.
func (t *TokenSessionAuthority) SessionFromToken(raw string) (Session, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, goerrors.New("unexpected signing method", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized)
		}
		return t.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, ErrUnableToDecodeSession.Error()).
			WithCode(goerrors.CodeUnauthorized)
	}

	if !token.Valid {
		return nil, goerrors.New(ErrUnableToDecodeSession.Error(), goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	if t.isRevoked(claims.ID) {
		return nil, ErrSessionRevoked
	}

	var issuedAt *time.Time
	if claims.IssuedAt != nil {
		at := claims.IssuedAt.Time
		issuedAt = &at
	}

	return &SessionObject{
		AccountID: claims.Subject,
		TokenID:   claims.ID,
		Audience:  claims.Audience,
		Issuer:    claims.Issuer,
		IssuedAt:  issuedAt,
		Token:     raw,
		Data: map[string]any{
			"login_name":             claims.LoginName,
			"roles":                  claims.Roles,
			"forced_password_change": claims.ForcedPasswordChange,
		},
	}, nil
}
