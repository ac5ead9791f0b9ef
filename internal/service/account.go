package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/auth"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/repository"
	"github.com/tuanvumaihuynh/storefront/pkg/validator"
)

// AccountsPerPage is the fixed page size of the account listing.
const AccountsPerPage = 10

// MaxAccountsPage bounds the page number so the row offset stays in range.
const MaxAccountsPage = 100_000

type RegisterParams struct {
	Name      string     `json:"name" validate:"notblank,max=255"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"required,min=8,max=72"`
	CPF       string     `json:"cpf" validate:"omitempty,max=14"`
	Birthdate *time.Time `json:"birthdate"`
}

type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   model.Account
}

type AccountService interface {
	Register(ctx context.Context, params RegisterParams) (model.Account, error)
	Login(ctx context.Context, params LoginParams) (LoginResult, error)
	// ListAccounts is allowed for admins only.
	ListAccounts(ctx context.Context, principal auth.Principal, page int) (model.Page[model.Account], error)
}

type accountService struct {
	validator   validator.Validator
	accountRepo repository.AccountRepository
	jwt         *auth.JWTManager
	adminEmails []string
	now         func() time.Time
}

func NewAccountService(
	v validator.Validator,
	accountRepo repository.AccountRepository,
	jwt *auth.JWTManager,
	adminEmails []string,
) AccountService {
	normalized := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			normalized = append(normalized, e)
		}
	}

	return &accountService{
		validator:   v,
		accountRepo: accountRepo,
		jwt:         jwt,
		adminEmails: normalized,
		now:         time.Now,
	}
}

func (s *accountService) Register(ctx context.Context, params RegisterParams) (model.Account, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}

	email := normalizeEmail(params.Email)
	role := model.RoleCustomer
	if slices.Contains(s.adminEmails, email) {
		role = model.RoleAdmin
	}

	account, err := s.accountRepo.CreateAccount(ctx, model.Account{
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		CPF:          strings.TrimSpace(params.CPF),
		Birthdate:    params.Birthdate,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("account repository create account: %w", err)
	}

	return account, nil
}

func (s *accountService) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	if err := s.validator.Validate(params); err != nil {
		return LoginResult{}, err
	}

	account, err := s.accountRepo.GetAccountByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return LoginResult{}, apperr.InvalidCredentialsErr
		}
		return LoginResult{}, fmt.Errorf("account repository get account by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(params.Password)); err != nil {
		return LoginResult{}, apperr.InvalidCredentialsErr
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(account)
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}

func (s *accountService) ListAccounts(ctx context.Context, principal auth.Principal, page int) (model.Page[model.Account], error) {
	if !principal.IsAdmin() {
		return model.Page[model.Account]{}, apperr.ForbiddenErr
	}

	if page < 1 {
		page = 1
	}
	if page > MaxAccountsPage {
		return model.Page[model.Account]{}, apperr.ValidationErr.WithMsg(fmt.Sprintf("page must be at most %d", MaxAccountsPage))
	}

	accounts, total, err := s.accountRepo.ListAccounts(ctx, repository.ListAccountsParams{
		Limit:  AccountsPerPage,
		Offset: (page - 1) * AccountsPerPage,
	})
	if err != nil {
		return model.Page[model.Account]{}, fmt.Errorf("account repository list accounts: %w", err)
	}

	return model.Page[model.Account]{
		Items:       accounts,
		CurrentPage: page,
		PerPage:     AccountsPerPage,
		Total:       total,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
