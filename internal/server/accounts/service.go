// Package accounts contains the account business logic: registration with
// password hashing, login with credential verification, and resolving token
// subjects back to stored accounts.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dpavlenko/curex/internal/common"
	"github.com/dpavlenko/curex/internal/server/auth"
	"github.com/dpavlenko/curex/internal/server/config"
	"github.com/dpavlenko/curex/internal/server/models"
	"github.com/dpavlenko/curex/internal/server/repositories/repomanager"
)

const minPasswordLength = 8

// Service provides account-related operations:
// - Register: create an account and mint its first token
// - Login: verify credentials and mint a token
// - GetByID: resolve a token subject to a stored account
type Service struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewService constructs a Service using repositories and server config.
func NewService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *Service {
	return &Service{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register validates the input, stores the account with a bcrypt password
// hash, and returns it together with a freshly minted token. A duplicate
// email yields common.ErrorEmailTaken.
func (s *Service) Register(ctx context.Context, email, password, confirmation string) (*models.Account, string, error) {
	if err := validateRegistration(email, password, confirmation); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	repo := s.repomanager.Accounts(s.db)
	account, err = repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, "", common.ErrorEmailTaken
		}
		return nil, "", fmt.Errorf("error creating account: %w", err)
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return account, token, nil
}

// Login verifies the credentials and mints a token on success. Unknown
// email and wrong password are indistinguishable to the caller: both yield
// common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return account, token, nil
}

// GetByID resolves an account id, typically one carried by a verified token.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)
	return repo.GetByID(ctx, id)
}

func (s *Service) generateToken(account *models.Account) (string, error) {
	return auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenValidityDuration)
}

func validateRegistration(email, password, confirmation string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email is not valid", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if password != confirmation {
		return fmt.Errorf("%w: password confirmation does not match", common.ErrorValidation)
	}
	return nil
}
