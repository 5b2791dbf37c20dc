package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type DeleteAccountMessage struct {
	AccountID  string `json:"account_id"`
	Session    Session
	OnResponse func(resp *DeleteAccountResponse)
}

func (e DeleteAccountMessage) Type() string { return "account.delete" }

type DeleteAccountResponse struct {
	Deleted bool
}

// DeleteAccountHandler removes an account, releases its profile image
// and kills the session.
type DeleteAccountHandler struct {
	repo     RepositoryManager
	sessions SessionAuthority
	images   ImageStore
	logger   Logger
}

func NewDeleteAccountHandler(repo RepositoryManager, sessions SessionAuthority) *DeleteAccountHandler {
	return &DeleteAccountHandler{
		repo:     repo,
		sessions: sessions,
		logger:   &defLogger{},
	}
}

func (h *DeleteAccountHandler) WithLogger(logger Logger) *DeleteAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *DeleteAccountHandler) WithImageStore(images ImageStore) *DeleteAccountHandler {
	h.images = images
	return h
}

func (h *DeleteAccountHandler) Execute(ctx context.Context, event DeleteAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account deletion",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *DeleteAccountHandler) execute(ctx context.Context, event DeleteAccountMessage) error {
	if event.AccountID == "" {
		return goerrors.New("account id is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var image string

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Accounts().GetByIdentifierTx(ctx, tx, event.AccountID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, goerrors.CategoryNotFound, "account not found").
					WithCode(goerrors.CodeNotFound)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account")
		}

		image = record.Image

		if err := h.repo.Accounts().DeleteTx(ctx, tx, record); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account deletion transaction failed")
	}

	if image != "" && h.images != nil {
		if err := h.images.Remove(ctx, image); err != nil {
			h.logger.Error("unable to remove image %s: %v", image, err)
		}
	}

	if event.Session != nil {
		if err := h.sessions.Invalidate(ctx, event.Session); err != nil {
			h.logger.Error("unable to invalidate session: %v", err)
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(&DeleteAccountResponse{Deleted: true})
	}

	return nil
}
