package service

import (
	"context"
	"errors"

	"pricelist/internal/domain"
	"pricelist/internal/repository"
)

var (
	ErrUnauthorized  = errors.New("invalid credentials")
	ErrUsernameTaken = errors.New("username already taken")
)

// AccountService handles registration and login. Passwords are stored and
// compared verbatim; the legacy clients depend on this.
type AccountService struct {
	accounts  repository.AccountRepository
	adminCode string
}

func NewAccountService(accounts repository.AccountRepository, adminCode string) *AccountService {
	return &AccountService{accounts: accounts, adminCode: adminCode}
}

// Register creates an account. Supplying the configured admin code grants the
// admin flag; the flag is immutable afterwards.
func (s *AccountService) Register(ctx context.Context, username, password, adminCode string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	a := domain.Account{
		Username: username,
		Password: password,
		IsAdmin:  adminCode != "" && adminCode == s.adminCode,
	}
	if err := s.accounts.Create(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &a, nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, ErrUnauthorized
	}
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if a.Password != password {
		return nil, ErrUnauthorized
	}
	return a, nil
}

// GetByUsername resolves an account, for the admin gate.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}
