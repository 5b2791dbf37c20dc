package accounts_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	accounts "github.com/0bjects/go-accounts"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements accounts.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Accounts() accounts.Accounts {
	args := m.Called()
	return args.Get(0).(accounts.Accounts)
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx drives the callback with a zero bun.Tx, the way the real
// manager would inside a transaction, and propagates its error.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(context.Context, bun.Tx) error) error {
	var tx bun.Tx
	return f(ctx, tx)
}

// MockAccounts implements accounts.Accounts
type MockAccounts struct {
	mock.Mock
}

func account(args mock.Arguments, idx int) *accounts.Account {
	var record *accounts.Account
	if v := args.Get(idx); v != nil {
		record = v.(*accounts.Account)
	}
	return record
}

// echo returns the configured record, falling back to the input record
// the way the real repository hands back the persisted row.
func echo(args mock.Arguments, input *accounts.Account) *accounts.Account {
	if record := account(args, 0); record != nil {
		return record
	}
	return input
}

func (m *MockAccounts) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) GetByIdentifier(ctx context.Context, identifier string) (*accounts.Account, error) {
	args := m.Called(ctx, identifier)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, identifier)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) FindByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	args := m.Called(ctx, email)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, email)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) FindForActivation(ctx context.Context, email, code string) (*accounts.Account, error) {
	args := m.Called(ctx, email, code)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) FindForActivationTx(ctx context.Context, tx bun.IDB, email, code string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, email, code)
	return account(args, 0), args.Error(1)
}

func (m *MockAccounts) Register(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, record)
	return echo(args, record), args.Error(1)
}

func (m *MockAccounts) RegisterTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record)
	return echo(args, record), args.Error(1)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record, criteria)
	return echo(args, record), args.Error(1)
}

func (m *MockAccounts) UpdateTx(ctx context.Context, tx bun.IDB, record *accounts.Account, criteria ...repository.UpdateCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record, criteria)
	return echo(args, record), args.Error(1)
}

func (m *MockAccounts) Save(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, record)
	return echo(args, record), args.Error(1)
}

func (m *MockAccounts) SaveTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record)
	return echo(args, record), args.Error(1)
}

func (m *MockAccounts) Delete(ctx context.Context, record *accounts.Account) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAccounts) DeleteTx(ctx context.Context, tx bun.IDB, record *accounts.Account) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockAccounts) TrackAttemptedLogin(ctx context.Context, record *accounts.Account) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAccounts) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, record *accounts.Account) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockAccounts) TrackSuccessfulLogin(ctx context.Context, record *accounts.Account) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAccounts) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, record *accounts.Account) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

// MockSessionAuthority implements accounts.SessionAuthority
type MockSessionAuthority struct {
	mock.Mock
}

func (m *MockSessionAuthority) Establish(ctx context.Context, record *accounts.Account, opts ...accounts.EstablishOption) (accounts.Session, error) {
	args := m.Called(ctx, record)
	var session accounts.Session
	if v := args.Get(0); v != nil {
		session = v.(accounts.Session)
	}
	return session, args.Error(1)
}

func (m *MockSessionAuthority) Invalidate(ctx context.Context, session accounts.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, template, recipient string, data map[string]any) error {
	args := m.Called(ctx, template, recipient, data)
	return args.Error(0)
}

// recorderSender captures messages instead of delivering them
type recorderSender struct {
	mu       sync.Mutex
	messages []accounts.Message
	fail     error
}

func (r *recorderSender) Send(_ context.Context, msg accounts.Message) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return nil
}
