package accounts_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accounts "github.com/0bjects/go-accounts"
)

func TestRequestPasswordResetRotatesCode(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	store := &MockAccounts{}
	notifier := &MockNotifier{}

	account := memberAccount()
	staleCode := account.ConfirmationCode

	handler := accounts.NewRequestPasswordResetHandler(repo, notifier).
		WithLogger(testLogger{})

	repo.On("Accounts").Return(store)
	store.On("FindByEmailTx", mock.Anything, mock.Anything, "alice@example.com").
		Return(account, nil).Once()
	store.On("UpdateTx", mock.Anything, mock.Anything, account, mock.Anything).
		Return(nil, nil).Once()

	notifier.On("Send", mock.Anything, accounts.NotificationPasswordReset, "alice@example.com",
		mock.MatchedBy(func(data map[string]any) bool {
			code, ok := data["Code"].(string)
			return ok && code != "" && code != staleCode
		})).Return(nil).Once()

	var resp *accounts.RequestPasswordResetResponse
	err := handler.Execute(ctx, accounts.RequestPasswordResetMessage{
		Email: "alice@example.com",
		OnResponse: func(r *accounts.RequestPasswordResetResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.Found)
	assert.NotEqual(t, staleCode, account.ConfirmationCode, "a reset request mints a fresh code")

	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRequestPasswordResetUnknownEmailIsQuiet(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	store := &MockAccounts{}
	notifier := &MockNotifier{}

	handler := accounts.NewRequestPasswordResetHandler(repo, notifier).
		WithLogger(testLogger{})

	repo.On("Accounts").Return(store)
	store.On("FindByEmailTx", mock.Anything, mock.Anything, "ghost@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	var resp *accounts.RequestPasswordResetResponse
	err := handler.Execute(ctx, accounts.RequestPasswordResetMessage{
		Email: "ghost@example.com",
		OnResponse: func(r *accounts.RequestPasswordResetResponse) {
			resp = r
		},
	})
	require.NoError(t, err, "an unknown email is not an error")
	require.NotNil(t, resp)

	assert.False(t, resp.Found)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPasswordResetRequiresEmail(t *testing.T) {
	handler := accounts.NewRequestPasswordResetHandler(&MockRepositoryManager{}, &MockNotifier{})

	err := handler.Execute(context.Background(), accounts.RequestPasswordResetMessage{})
	require.Error(t, err)
}

func TestRedeemPasswordResetEstablishesRestrictedSession(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	store := &MockAccounts{}

	account := memberAccount()
	code := account.ConfirmationCode

	sessions := accounts.NewTokenSessionAuthority(newTestConfig())
	handler := accounts.NewRedeemPasswordResetHandler(repo, sessions).
		WithLogger(testLogger{})

	repo.On("Accounts").Return(store)
	store.On("FindForActivation", mock.Anything, "alice@example.com", code).
		Return(account, nil).Once()

	var resp *accounts.RedeemPasswordResetResponse
	err := handler.Execute(ctx, accounts.RedeemPasswordResetMessage{
		Email: "alice@example.com",
		Code:  code,
		OnResponse: func(r *accounts.RedeemPasswordResetResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.LoggedIn)
	require.NotNil(t, resp.Session)
	assert.Equal(t, true, resp.Session.GetData()["forced_password_change"],
		"the reset session only sanctions picking a new password")
}

func TestRedeemPasswordResetUnknownCode(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	store := &MockAccounts{}

	handler := accounts.NewRedeemPasswordResetHandler(repo, &MockSessionAuthority{}).
		WithLogger(testLogger{})

	repo.On("Accounts").Return(store)
	store.On("FindForActivation", mock.Anything, "alice@example.com", "bogus").
		Return(nil, repository.NewRecordNotFound()).Once()

	err := handler.Execute(ctx, accounts.RedeemPasswordResetMessage{
		Email: "alice@example.com",
		Code:  "bogus",
	})
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, goerrors.CategoryNotFound, rich.Category)
}
