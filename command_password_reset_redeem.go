package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

type RedeemPasswordResetMessage struct {
	Email      string `json:"email"`
	Code       string `json:"code"`
	OnResponse func(resp *RedeemPasswordResetResponse)
}

func (e RedeemPasswordResetMessage) Type() string { return "account.password_reset_redeem" }

type RedeemPasswordResetResponse struct {
	Account *Account
	// Session is scoped to changing the password.
	Session  Session
	LoggedIn bool
}

// RedeemPasswordResetHandler turns a mailed reset code into a session
// whose only sanctioned use is picking a new password.
type RedeemPasswordResetHandler struct {
	repo     RepositoryManager
	sessions SessionAuthority
	logger   Logger
}

func NewRedeemPasswordResetHandler(repo RepositoryManager, sessions SessionAuthority) *RedeemPasswordResetHandler {
	return &RedeemPasswordResetHandler{
		repo:     repo,
		sessions: sessions,
		logger:   &defLogger{},
	}
}

func (h *RedeemPasswordResetHandler) WithLogger(logger Logger) *RedeemPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RedeemPasswordResetHandler) Execute(ctx context.Context, event RedeemPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset redemption",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RedeemPasswordResetHandler) execute(ctx context.Context, event RedeemPasswordResetMessage) error {
	if event.Email == "" || event.Code == "" {
		return goerrors.New("email and reset code are required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	account, err := h.repo.Accounts().FindForActivation(ctx, event.Email, event.Code)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return goerrors.New("no account matches that reset code", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound).
				WithMetadata(map[string]any{
					"email": event.Email,
				})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for password reset")
	}

	resp := &RedeemPasswordResetResponse{Account: account}

	session, err := h.sessions.Establish(ctx, account, WithForcedPasswordChange())
	if err != nil {
		h.logger.Warn("unable to establish reset session for %s: %v", account.Email, err)
	} else {
		resp.Session = session
		resp.LoggedIn = true
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
