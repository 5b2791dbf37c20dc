package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type RequestPasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *RequestPasswordResetResponse)
}

func (e RequestPasswordResetMessage) Type() string { return "account.password_reset_request" }

type RequestPasswordResetResponse struct {
	// Found reports whether an account matched the email. No
	// notification goes out when it is false.
	Found   bool
	Account *Account
}

// RequestPasswordResetHandler rotates the confirmation code for the
// matching account and mails it out. An unknown email is not an error,
// the response just reports Found false.
type RequestPasswordResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

func NewRequestPasswordResetHandler(repo RepositoryManager, notifier Notifier) *RequestPasswordResetHandler {
	return &RequestPasswordResetHandler{
		repo:     repo,
		notifier: notifier,
		logger:   &defLogger{},
	}
}

func (h *RequestPasswordResetHandler) WithLogger(logger Logger) *RequestPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RequestPasswordResetHandler) Execute(ctx context.Context, event RequestPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestPasswordResetHandler) execute(ctx context.Context, event RequestPasswordResetMessage) error {
	if event.Email == "" {
		return goerrors.New("email is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	resp := &RequestPasswordResetResponse{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Accounts().FindByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for password reset")
		}

		record.ConfirmationCode = NewConfirmationCode()

		if record, err = h.repo.Accounts().UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist reset code")
		}

		resp.Found = true
		resp.Account = record
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password reset request transaction failed")
	}

	if resp.Found {
		if err := h.sendResetCode(ctx, resp.Account); err != nil {
			return err
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *RequestPasswordResetHandler) sendResetCode(ctx context.Context, account *Account) error {
	err := h.notifier.Send(ctx, NotificationPasswordReset, account.Email, map[string]any{
		"DisplayName": account.DisplayName(),
		"Email":       account.Email,
		"Code":        account.ConfirmationCode,
	})

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "reset code issued but notification failed").
			WithMetadata(map[string]any{
				"email": account.Email,
			})
	}

	return nil
}
