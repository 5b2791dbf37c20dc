package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	accounts "github.com/0bjects/go-accounts"
)

func TestSignupPayloadValidate(t *testing.T) {
	valid := accounts.SignupPayload{
		LoginName: "pepe_rone",
		Email:     "pepe@example.com",
		Password:  "secret123",
	}
	require.NoError(t, valid.Validate())

	cases := map[string]accounts.SignupPayload{
		"missing login name": {
			Email:    "pepe@example.com",
			Password: "secret123",
		},
		"login name with spaces": {
			LoginName: "pepe rone",
			Email:     "pepe@example.com",
			Password:  "secret123",
		},
		"login name with symbols": {
			LoginName: "pepe!",
			Email:     "pepe@example.com",
			Password:  "secret123",
		},
		"missing email": {
			LoginName: "pepe",
			Password:  "secret123",
		},
		"bad email": {
			LoginName: "pepe",
			Email:     "not-an-email",
			Password:  "secret123",
		},
		"missing password": {
			LoginName: "pepe",
			Email:     "pepe@example.com",
		},
		"short password": {
			LoginName: "pepe",
			Email:     "pepe@example.com",
			Password:  "12345",
		},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, payload.Validate())
		})
	}
}

func TestEditProfilePayloadValidate(t *testing.T) {
	require.NoError(t, accounts.EditProfilePayload{}.Validate(), "all fields optional")

	require.NoError(t, accounts.EditProfilePayload{
		LoginName: "new_name",
		Email:     "new@example.com",
		Password:  "secret123",
		About:     "hello",
	}.Validate())

	require.Error(t, accounts.EditProfilePayload{Email: "nope"}.Validate())
	require.Error(t, accounts.EditProfilePayload{LoginName: "has space"}.Validate())
	require.Error(t, accounts.EditProfilePayload{Password: "short"}.Validate())
}
