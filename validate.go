package accounts

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// login names stay word-characters only so they are safe in URLs and
// mail templates
var loginNameRx = regexp.MustCompile(`^\w+$`)

// SignupPayload carries the attributes needed to open an account.
type SignupPayload struct {
	LoginName string `json:"login_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p SignupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LoginName,
			validation.Required,
			validation.Match(loginNameRx),
		),
		validation.Field(&p.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(&p.Password,
			validation.Required,
			validation.Length(6, 100),
		),
	)
}

// EditProfilePayload carries the optional profile changes. Empty fields
// mean "leave as is"; pointer fields distinguish unset from zero.
type EditProfilePayload struct {
	LoginName string  `json:"login_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	About     string  `json:"about"`
	Gender    *Gender `json:"gender"`
}

func (p EditProfilePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LoginName,
			validation.Match(loginNameRx),
		),
		validation.Field(&p.Email,
			is.Email,
		),
		validation.Field(&p.Password,
			validation.Length(6, 100),
		),
	)
}
