package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is a capability tag carried by an account
type Role = string

const (
	// RoleAdmin marks administrative accounts
	RoleAdmin Role = "ROLE_ADMIN"
	// RoleUser marks activated accounts
	RoleUser Role = "ROLE_USER"
	// RoleNotActiveUser marks accounts pending email activation
	RoleNotActiveUser Role = "ROLE_NOTACTIVE_USER"
	// RoleUpdatableUsername lets the holder change their login name once
	RoleUpdatableUsername Role = "ROLE_UPDATABLE_USERNAME"
)

// Gender is a display-only profile attribute
type Gender int

const (
	GenderFemale Gender = 0
	GenderMale   Gender = 1
)

// String returns the English label for the gender
func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "Female"
	case GenderMale:
		return "Male"
	default:
		return ""
	}
}

// Account is the account model
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID               uuid.UUID `bun:"id,pk,nullzero,type:uuid" bson:"_id,omitempty" json:"id,omitempty"`
	LoginName        string    `bun:"login_name,notnull,unique" bson:"login_name" json:"login_name,omitempty"`
	Email            string    `bun:"email,notnull,unique" bson:"email" json:"email,omitempty"`
	PasswordHash     string    `bun:"password_hash" bson:"password_hash" json:"-"`
	Salt             string    `bun:"salt" bson:"salt" json:"-"`
	Roles            []Role    `bun:"roles" bson:"roles" json:"roles,omitempty"`
	ConfirmationCode string    `bun:"confirmation_code" bson:"confirmation_code" json:"-"`
	Locked           bool      `bun:"locked" bson:"locked" json:"locked,omitempty"`
	Enabled          bool      `bun:"enabled" bson:"enabled" json:"enabled,omitempty"`

	FirstName string  `bun:"first_name" bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string  `bun:"last_name" bson:"last_name,omitempty" json:"last_name,omitempty"`
	About     string  `bun:"about" bson:"about,omitempty" json:"about,omitempty"`
	Gender    *Gender `bun:"gender" bson:"gender,omitempty" json:"gender,omitempty"`
	Image     string  `bun:"image" bson:"image,omitempty" json:"image,omitempty"`

	LoginAttempts  int        `bun:"login_attempts" bson:"login_attempts,omitempty" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" bson:"login_attempt_at,omitempty" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" bson:"loggedin_at,omitempty" json:"loggedin_at,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	// clearPassword is the pending plaintext, held only until
	// CredentialManager.Commit derives the hash. Unexported so neither
	// bun nor any codec can ever persist it.
	clearPassword string
}

// NewAccount returns an account with a fresh salt, a fresh confirmation
// code, and the default status flags. The id stays zero until the store
// assigns one on create.
func NewAccount() *Account {
	now := time.Now()
	return &Account{
		Salt:             NewSalt(),
		ConfirmationCode: NewConfirmationCode(),
		Enabled:          true,
		CreatedAt:        &now,
	}
}

// IsNew reports whether the account has been persisted yet
func (a *Account) IsNew() bool {
	return a.ID == uuid.Nil
}

// SetClearPassword stages a plaintext password and drops any previously
// derived hash. Nothing is persisted until CredentialManager.Commit runs.
func (a *Account) SetClearPassword(password string) *Account {
	a.clearPassword = password
	a.PasswordHash = ""
	return a
}

// ClearPassword returns the staged plaintext, empty when nothing is pending
func (a *Account) ClearPassword() string {
	return a.clearPassword
}

// EraseCredentials discards the staged plaintext
func (a *Account) EraseCredentials() {
	a.clearPassword = ""
}

// DisplayName returns "First Last", falling back to the first name alone
func (a *Account) DisplayName() string {
	if a.LastName != "" {
		return a.FirstName + " " + a.LastName
	}
	return a.FirstName
}

// GenderString returns the display label for the account's gender, empty
// when unset
func (a *Account) GenderString() string {
	if a.Gender == nil {
		return ""
	}
	return a.Gender.String()
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Salt == "" {
		record.Salt = NewSalt()
	}

	if record.ConfirmationCode == "" {
		record.ConfirmationCode = NewConfirmationCode()
	}

	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
