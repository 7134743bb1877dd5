package accounts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpavlenko/curex/internal/common"
	"github.com/dpavlenko/curex/internal/dbx"
	"github.com/dpavlenko/curex/internal/server/auth"
	"github.com/dpavlenko/curex/internal/server/config"
	"github.com/dpavlenko/curex/internal/server/models"
	accountsrepo "github.com/dpavlenko/curex/internal/server/repositories/accounts"
)

// memoryRepository is an in-memory accounts.Repository used by service and
// handler tests.
type memoryRepository struct {
	byEmail map[string]*models.Account
	byID    map[string]*models.Account
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byEmail: make(map[string]*models.Account),
		byID:    make(map[string]*models.Account),
	}
}

func (r *memoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrorEmailTaken
	}
	account.CreatedAt = time.Now()
	r.byEmail[account.Email] = account
	r.byID[account.ID] = account
	return account, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	account, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return account, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	account, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return account, nil
}

type memoryRepositoryManager struct {
	repo *memoryRepository
}

func (m *memoryRepositoryManager) Accounts(_ dbx.DBTX) accountsrepo.Repository {
	return m.repo
}

func (m *memoryRepositoryManager) RunMigrations(_ context.Context, _ *sql.DB) error {
	return nil
}

func newTestService() (*Service, *memoryRepository) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	repo := newMemoryRepository()
	return NewService(nil, &memoryRepositoryManager{repo: repo}, cfg), repo
}

func TestRegister_Success(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	account, token, err := s.Register(ctx, "alice@example.com", "password123", "password123")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.NotEmpty(t, account.PasswordHash)
	assert.NotEqual(t, "password123", string(account.PasswordHash))

	claims, err := auth.ParseToken(token, []byte("secretKey"))
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
	assert.Equal(t, account.Email, claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	first, _, err := s.Register(ctx, "alice@example.com", "password123", "password123")
	require.NoError(t, err)

	_, _, err = s.Register(ctx, "alice@example.com", "otherpass456", "otherpass456")
	assert.ErrorIs(t, err, common.ErrorEmailTaken)

	// the first account is unaffected
	kept, _, err := s.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, kept.ID)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name         string
		email        string
		password     string
		confirmation string
	}{
		{"empty email", "", "password123", "password123"},
		{"invalid email", "not-an-email", "password123", "password123"},
		{"empty password", "a@example.com", "", ""},
		{"short password", "a@example.com", "short", "short"},
		{"confirmation mismatch", "a@example.com", "password123", "password456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(ctx, tt.email, tt.password, tt.confirmation)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, _, err := s.Register(ctx, "alice@example.com", "password123", "password123")
	require.NoError(t, err)

	_, _, errWrongPassword := s.Login(ctx, "alice@example.com", "badpass99")
	_, _, errUnknownEmail := s.Login(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, errWrongPassword, common.ErrorUnauthorized)
	assert.ErrorIs(t, errUnknownEmail, common.ErrorUnauthorized)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error(),
		"login failures must not reveal whether the email exists")
}

func TestLogin_Success(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	registered, _, err := s.Register(ctx, "bob@example.com", "password123", "password123")
	require.NoError(t, err)

	account, token, err := s.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)

	claims, err := auth.ParseToken(token, []byte("secretKey"))
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
}

func TestGetByID(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	registered, _, err := s.Register(ctx, "carol@example.com", "password123", "password123")
	require.NoError(t, err)

	got, err := s.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, got.Email)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
