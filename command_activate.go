package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type ActivateAccountMessage struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	// Session is the caller's current session, invalidated if the
	// activated account cannot be logged in.
	Session    Session
	OnResponse func(resp *ActivateAccountResponse)
}

func (e ActivateAccountMessage) Type() string { return "account.activate" }

type ActivateAccountResponse struct {
	Account  *Account
	Session  Session
	LoggedIn bool
}

// ActivateAccountHandler redeems a confirmation code, promoting the
// account to full membership and logging it in.
type ActivateAccountHandler struct {
	repo     RepositoryManager
	sessions SessionAuthority
	logger   Logger
}

func NewActivateAccountHandler(repo RepositoryManager, sessions SessionAuthority) *ActivateAccountHandler {
	return &ActivateAccountHandler{
		repo:     repo,
		sessions: sessions,
		logger:   &defLogger{},
	}
}

func (h *ActivateAccountHandler) WithLogger(logger Logger) *ActivateAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account activation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateAccountHandler) execute(ctx context.Context, event ActivateAccountMessage) error {
	if event.Email == "" || event.Code == "" {
		return goerrors.New("email and confirmation code are required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var account *Account

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Accounts().FindForActivationTx(ctx, tx, event.Email, event.Code)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.New("no account matches that confirmation code", goerrors.CategoryNotFound).
					WithCode(goerrors.CodeNotFound).
					WithMetadata(map[string]any{
						"email": event.Email,
					})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for activation")
		}

		record.Activate()

		if account, err = h.repo.Accounts().UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist activation")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account activation transaction failed")
	}

	resp := &ActivateAccountResponse{Account: account}

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
