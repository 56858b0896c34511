package user

import (
	"context"
	"database/sql"

	"login-service/internal/db"

	"github.com/google/uuid"
)

// PostgresStore is the canonical user store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `
	u.id, u.email,
	COALESCE(u.name, ''), COALESCE(u.image, ''),
	COALESCE(u.password_hash, ''),
	u.role, u.two_factor_enabled,
	COALESCE(u.two_factor_secret, '')
`

func scanUser(row *sql.Row) (User, error) {
	var (
		id uuid.UUID
		u  User
	)
	err := row.Scan(
		&id,
		&u.Email,
		&u.Name,
		&u.Image,
		&u.PasswordHash,
		&u.Role,
		&u.TwoFactorEnabled,
		&u.TwoFactorSecret,
	)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.ID = id.String()
	return u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE LOWER(u.email) = LOWER($1)
	`, email)
	return scanUser(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id = $1
	`, id)
	return scanUser(row)
}

func (s *PostgresStore) FindByProvider(ctx context.Context, provider, providerUserID string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN identities i ON i.user_id = u.id
		WHERE i.provider = $1
		  AND i.provider_user_id = $2
	`, provider, providerUserID)
	return scanUser(row)
}

func (s *PostgresStore) LinkProvider(ctx context.Context, userID, provider, providerUserID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`, userID, provider, providerUserID)
	return err
}

func (s *PostgresStore) CreateFederated(
	ctx context.Context,
	nu FederatedUser,
	provider string,
	providerUserID string,
) (User, error) {

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, image, role)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		RETURNING id
	`, nu.Email, nu.Name, nu.Image, nu.Role).Scan(&id)
	if err != nil {
		return User{}, err
	}

	if err := s.LinkProvider(ctx, id.String(), provider, providerUserID); err != nil {
		return User{}, err
	}

	return User{
		ID:    id.String(),
		Email: nu.Email,
		Name:  nu.Name,
		Image: nu.Image,
		Role:  nu.Role,
	}, nil
}
