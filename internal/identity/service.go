// Package identity owns login accounts. It plays the role of the external
// authentication service the routes depend on: accounts are keyed by a
// generated id which also keys the matching professional profile.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/db"
)

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
}

type Service struct {
	pool *db.Pool
}

func NewService(pool *db.Pool) *Service {
	return &Service{pool: pool}
}

func (s *Service) ready() error {
	if !s.pool.Available() {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, db.ErrUnavailable)
	}
	return nil
}

// CreateAccount registers a login and returns its generated id. A duplicate
// email is a validation error so callers can surface it on the form.
func (s *Service) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
	`, id, email, hash, displayName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%w: e-mail já cadastrado", apperr.ErrValidation)
		}
		return "", fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return id, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	if err := s.ready(); err != nil {
		return Account{}, err
	}
	var acc Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, display_name
		FROM accounts
		WHERE email = $1
	`, email).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, apperr.ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return acc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	if err := s.ready(); err != nil {
		return Account{}, err
	}
	var acc Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, display_name
		FROM accounts
		WHERE id = $1
	`, id).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, apperr.ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return acc, nil
}

// DeleteAccount removes a login. A missing account maps to ErrNotFound,
// which deletion flows tolerate: the profile may outlive the account.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
