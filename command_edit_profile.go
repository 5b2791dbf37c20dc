package accounts

import (
	"context"
	"io"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type EditProfileMessage struct {
	AccountID string             `json:"account_id"`
	Changes   EditProfilePayload `json:"changes"`
	// ImageName carries the original filename so the stored copy keeps
	// its extension.
	ImageName  string
	Image      io.Reader
	Session    Session
	OnResponse func(resp *EditProfileResponse)
}

func (e EditProfileMessage) Type() string { return "account.edit_profile" }

type EditProfileResponse struct {
	Account *Account
	Session Session
	// ReloginRequired is set when the change touched credentials, the
	// email address or the login name; the previous session is gone.
	ReloginRequired bool
	LoggedIn        bool
}

// EditProfileHandler applies profile changes. Email changes demote the
// account back to pending activation unless auto activation is on,
// login name changes burn the one-shot rename capability, and password
// or identity changes force a fresh session.
type EditProfileHandler struct {
	repo        RepositoryManager
	sessions    SessionAuthority
	notifier    Notifier
	config      Config
	images      ImageStore
	credentials *CredentialManager
	logger      Logger
}

func NewEditProfileHandler(repo RepositoryManager, sessions SessionAuthority, notifier Notifier, config Config) *EditProfileHandler {
	return &EditProfileHandler{
		repo:        repo,
		sessions:    sessions,
		notifier:    notifier,
		config:      config,
		credentials: NewCredentialManager(nil),
		logger:      &defLogger{},
	}
}

func (h *EditProfileHandler) WithLogger(logger Logger) *EditProfileHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *EditProfileHandler) WithImageStore(images ImageStore) *EditProfileHandler {
	h.images = images
	return h
}

func (h *EditProfileHandler) WithCredentials(credentials *CredentialManager) *EditProfileHandler {
	if credentials != nil {
		h.credentials = credentials
	}
	return h
}

func (h *EditProfileHandler) Execute(ctx context.Context, event EditProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile edit",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *EditProfileHandler) execute(ctx context.Context, event EditProfileMessage) error {
	if event.AccountID == "" {
		return goerrors.New("account id is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	if err := event.Changes.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile changes").
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var (
		account         *Account
		reloginRequired bool
		emailDemoted    bool
		newImage        string
		oldImage        string
	)

	if event.Image != nil {
		if h.images == nil {
			return goerrors.New("no image store configured", goerrors.CategoryOperation)
		}
		ref, err := h.images.Store(ctx, event.ImageName, event.Image)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to store profile image")
		}
		newImage = ref
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Accounts().GetByIdentifierTx(ctx, tx, event.AccountID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, goerrors.CategoryNotFound, "account not found").
					WithCode(goerrors.CodeNotFound)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account")
		}

		changes := event.Changes

		if changes.Email != "" && changes.Email != record.Email {
			record.Email = changes.Email
			reloginRequired = true
			if !h.config.GetAutoActivate() {
				record.Deactivate()
				emailDemoted = true
			}
		}

		if changes.LoginName != "" && changes.LoginName != record.LoginName {
			if !record.CanChangeLoginName() {
				return goerrors.New("login name can no longer be changed", goerrors.CategoryValidation).
					WithCode(goerrors.CodeBadRequest).
					WithTextCode(TextCodeLoginNameFrozen)
			}
			record.LoginName = changes.LoginName
			record.RevokeRole(RoleUpdatableUsername)
			reloginRequired = true
		}

		if changes.Password != "" {
			record.SetClearPassword(changes.Password)
			if err := h.credentials.Commit(record); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
			}
			reloginRequired = true
		}

		if changes.FirstName != "" {
			record.FirstName = changes.FirstName
		}
		if changes.LastName != "" {
			record.LastName = changes.LastName
		}
		if changes.About != "" {
			record.About = changes.About
		}
		if changes.Gender != nil {
			record.Gender = changes.Gender
		}

		if newImage != "" {
			oldImage = record.Image
			record.Image = newImage
		}

		now := time.Now()
		record.UpdatedAt = &now

		if account, err = h.repo.Accounts().UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not update account")
		}

		return nil
	})

	if err != nil {
		h.releaseImage(ctx, newImage)

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "profile edit transaction failed")
	}

	if oldImage != "" && oldImage != newImage {
		h.releaseImage(ctx, oldImage)
	}

	if emailDemoted {
		if err := h.sendReactivation(ctx, account); err != nil {
			return err
		}
	}

	resp := &EditProfileResponse{
		Account:         account,
		ReloginRequired: reloginRequired,
	}

	if reloginRequired {
		if event.Session != nil {
			if err := h.sessions.Invalidate(ctx, event.Session); err != nil {
				h.logger.Error("unable to invalidate previous session: %v", err)
			}
		}

		session, err := h.sessions.Establish(ctx, account)
		if err != nil {
			h.logger.Warn("unable to re-establish session for %s: %v", account.Email, err)
		} else {
			resp.Session = session
			resp.LoggedIn = true
		}
	} else {
		resp.Session = event.Session
		resp.LoggedIn = event.Session != nil
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *EditProfileHandler) releaseImage(ctx context.Context, ref string) {
	if ref == "" || h.images == nil {
		return
	}
	if err := h.images.Remove(ctx, ref); err != nil {
		h.logger.Error("unable to remove image %s: %v", ref, err)
	}
}

func (h *EditProfileHandler) sendReactivation(ctx context.Context, account *Account) error {
	err := h.notifier.Send(ctx, NotificationReactivation, account.Email, map[string]any{
		"DisplayName": account.DisplayName(),
		"Email":       account.Email,
		"Code":        account.ConfirmationCode,
	})

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "email updated but reactivation notification failed").
			WithMetadata(map[string]any{
				"email": account.Email,
			})
	}

	return nil
}
