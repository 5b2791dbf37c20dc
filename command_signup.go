package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type SignupMessage struct {
	LoginName string  `json:"login_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Gender    *Gender `json:"gender"`
	UseHashid bool
	// Session is the caller's current session, invalidated if the fresh
	// account cannot be logged in.
	Session    Session
	OnResponse func(resp *SignupResponse)
}

func (e SignupMessage) Type() string { return "account.signup" }

type SignupResponse struct {
	Account  *Account
	Session  Session
	LoggedIn bool
}

// SignupHandler opens a new account, sends the welcome notification and
// logs the fresh account in.
type SignupHandler struct {
	repo        RepositoryManager
	sessions    SessionAuthority
	notifier    Notifier
	config      Config
	credentials *CredentialManager
	logger      Logger
}

func NewSignupHandler(repo RepositoryManager, sessions SessionAuthority, notifier Notifier, config Config) *SignupHandler {
	return &SignupHandler{
		repo:        repo,
		sessions:    sessions,
		notifier:    notifier,
		config:      config,
		credentials: NewCredentialManager(nil),
		logger:      &defLogger{},
	}
}

func (h *SignupHandler) WithLogger(logger Logger) *SignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *SignupHandler) WithCredentials(credentials *CredentialManager) *SignupHandler {
	if credentials != nil {
		h.credentials = credentials
	}
	return h
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	payload := SignupPayload{
		LoginName: event.LoginName,
		Email:     event.Email,
		Password:  event.Password,
		FirstName: event.FirstName,
		LastName:  event.LastName,
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid signup payload").
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	account := NewAccount()
	account.LoginName = event.LoginName
	account.Email = event.Email
	account.FirstName = event.FirstName
	account.LastName = event.LastName
	account.Gender = event.Gender

	if account.FirstName == "" {
		account.FirstName = account.LoginName
	}

	if h.config.GetAutoActivate() {
		account.Activate()
	} else {
		account.GrantRole(RoleNotActiveUser)
	}
	account.GrantRole(RoleUpdatableUsername)

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			account.ID = id
		}
	}

	account.SetClearPassword(event.Password)
	if err := h.credentials.Commit(account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Accounts().CreateTx(ctx, tx, account)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}
		account = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	resp := &SignupResponse{Account: account}

	if err := h.sendWelcome(ctx, account); err != nil {
		return err
	}

	session, err := h.sessions.Establish(ctx, account)
	if err != nil {
		h.logger.Warn("unable to establish session for %s: %v", account.Email, err)
		if event.Session != nil {
			if err := h.sessions.Invalidate(ctx, event.Session); err != nil {
				h.logger.Error("unable to invalidate previous session: %v", err)
			}
		}
	} else {
		resp.Session = session
		resp.LoggedIn = true
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *SignupHandler) sendWelcome(ctx context.Context, account *Account) error {
	template := NotificationWelcomePending
	if account.IsActive() {
		template = NotificationWelcomeActive
	}

	err := h.notifier.Send(ctx, template, account.Email, map[string]any{
		"DisplayName": account.DisplayName(),
		"LoginName":   account.LoginName,
		"Email":       account.Email,
		"Code":        account.ConfirmationCode,
	})

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "account created but welcome notification failed").
			WithMetadata(map[string]any{
				"email": account.Email,
			})
	}

	return nil
}
