package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
)

const uniqueViolationCode = "23505"

// ErrAccountNotFound is returned when an account lookup matches no row.
var ErrAccountNotFound = errors.New("account not found")

type ListAccountsParams struct {
	Limit  int
	Offset int
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account model.Account) (model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)
	ListAccounts(ctx context.Context, params ListAccountsParams) ([]model.Account, int64, error)
}

type accountRepository struct {
	db db.DB
}

func NewAccountRepository(db db.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r accountRepository) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, cpf, birthdate, password_hash, role, created_at)
		VALUES (@name, @email, @cpf, @birthdate, @password_hash, @role, @created_at)
		RETURNING id
	`, pgx.NamedArgs{
		"name":          account.Name,
		"email":         account.Email,
		"cpf":           account.CPF,
		"birthdate":     account.Birthdate,
		"password_hash": account.PasswordHash,
		"role":          string(account.Role),
		"created_at":    account.CreatedAt,
	}).Scan(&account.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.Account{}, apperr.EmailTakenErr.WrapParent(err)
		}
		return model.Account{}, fmt.Errorf("insert account: %w", err)
	}

	return account, nil
}

func (r accountRepository) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	var (
		a    model.Account
		role string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, cpf, birthdate, password_hash, role, created_at
		FROM users
		WHERE email = @email
	`, pgx.NamedArgs{
		"email": email,
	}).Scan(&a.ID, &a.Name, &a.Email, &a.CPF, &a.Birthdate, &a.PasswordHash, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	a.Role = model.Role(role)

	return a, nil
}

func (r accountRepository) ListAccounts(ctx context.Context, params ListAccountsParams) ([]model.Account, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, cpf, birthdate, role, created_at
		FROM users
		ORDER BY id
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"limit":  params.Limit,
		"offset": params.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0, params.Limit)
	for rows.Next() {
		var (
			a    model.Account
			role string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.CPF, &a.Birthdate, &role, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		a.Role = model.Role(role)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, total, nil
}
