package accounts

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the account repository. It widens AccountStore with the
// transactional entry points the command handlers drive.
type Accounts interface {
	AccountStore

	GetByID(ctx context.Context, id string) (*Account, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (*Account, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)
	FindForActivationTx(ctx context.Context, tx bun.IDB, email, code string) (*Account, error)

	Register(ctx context.Context, account *Account) (*Account, error)
	RegisterTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.UpdateCriteria) (*Account, error)
	SaveTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	DeleteTx(ctx context.Context, tx bun.IDB, account *Account) error

	TrackAttemptedLogin(ctx context.Context, account *Account) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, account *Account) error
	TrackSuccessfulLogin(ctx context.Context, account *Account) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, account *Account) error
}

type accountsRepo struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts     = (*accountsRepo)(nil)
	_ AccountStore = (*accountsRepo)(nil)
)

// NewAccountsRepository returns the bun-backed Accounts repository
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accountsRepo{
		Repository: repo,
		db:         db,
	}
}

func (a *accountsRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	return a.getOne(ctx, a.db, "id", id)
}

func (a *accountsRepo) GetByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier)
}

func (a *accountsRepo) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (*Account, error) {
	for _, opt := range resolveAccountIdentifier(identifier) {
		record, err := a.getOne(ctx, tx, opt.column, opt.value)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}
		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

func (a *accountsRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *accountsRepo) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	return a.getOne(ctx, tx, "email", email)
}

func (a *accountsRepo) FindForActivation(ctx context.Context, email, code string) (*Account, error) {
	return a.FindForActivationTx(ctx, a.db, email, code)
}

// FindForActivationTx matches on the exact (email, confirmation code)
// pair. Codes keep working until a new issuance overwrites them; redeeming
// a replaced code reports not found.
func (a *accountsRepo) FindForActivationTx(ctx context.Context, tx bun.IDB, email, code string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Where("?TableAlias.confirmation_code = ?", code).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accountsRepo) Register(ctx context.Context, account *Account) (*Account, error) {
	return a.RegisterTx(ctx, a.db, account)
}

func (a *accountsRepo) RegisterTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	return a.CreateTx(ctx, tx, account)
}

func (a *accountsRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// Save upserts: update when a record with the same id or email exists,
// create otherwise.
func (a *accountsRepo) Save(ctx context.Context, account *Account) (*Account, error) {
	return a.SaveTx(ctx, a.db, account)
}

func (a *accountsRepo) SaveTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	identifier := account.Email
	if account.ID != uuid.Nil {
		identifier = account.ID.String()
	}

	existing, err := a.GetByIdentifierTx(ctx, tx, identifier)
	if err == nil {
		account.ID = existing.ID
		return a.UpdateTx(ctx, tx, account, repository.UpdateByID(account.ID.String()))
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return a.RegisterTx(ctx, tx, account)
}

func (a *accountsRepo) Delete(ctx context.Context, account *Account) error {
	return a.DeleteTx(ctx, a.db, account)
}

func (a *accountsRepo) DeleteTx(ctx context.Context, tx bun.IDB, account *Account) error {
	_, err := tx.NewDelete().
		Model(account).
		WherePK().
		Exec(ctx)
	return err
}

func (a *accountsRepo) TrackSuccessfulLogin(ctx context.Context, account *Account) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, account)
}

func (a *accountsRepo) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, account *Account) error {
	// raw update so login_attempt_at is really cleared, the ORM skips
	// zero values on partial updates
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "accounts" AS "acc"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("acc".id = ?);
	`, loggedInAt, account.ID).Exec(ctx)

	return err
}

func (a *accountsRepo) TrackAttemptedLogin(ctx context.Context, account *Account) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, account)
}

func (a *accountsRepo) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, account *Account) error {
	record := &Account{}
	record.ID = account.ID
	record.LoginAttempts = account.LoginAttempts + 1
	now := time.Now()
	record.LoginAttemptAt = &now

	_, err := a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(account.ID.String()))

	return err
}

func (a *accountsRepo) getOne(ctx context.Context, tx bun.IDB, column, value string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

type identifierOption struct {
	column string
	value  string
}

func resolveAccountIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 3)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if isEmailAddress(trimmed) {
		options = append(options, identifierOption{
			column: "email",
			value:  trimmed,
		})
	}

	options = append(options, identifierOption{
		column: "login_name",
		value:  trimmed,
	})

	return options
}

func isEmailAddress(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
