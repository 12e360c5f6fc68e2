package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snackradar/snackradar/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{
		db: db,
	}
}

func (r *CredentialRepository) Create(ctx context.Context, credential model.Credential) (model.Credential, error) {
	query := `INSERT INTO credentials (id, email, password_hash, created_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, email, password_hash, created_at`

	var saved model.Credential
	err := r.db.QueryRow(ctx, query,
		credential.ID, credential.Email, credential.PasswordHash, credential.CreatedAt,
	).Scan(
		&saved.ID, &saved.Email, &saved.PasswordHash, &saved.CreatedAt,
	)
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to create credential: %w", err)
	}

	return saved, nil
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (model.Credential, error) {
	var cred model.Credential
	query := `SELECT id, email, password_hash, created_at
			  FROM credentials WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&cred.ID, &cred.Email, &cred.PasswordHash, &cred.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by email: %w", err)
	}

	return cred, nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id model.Identity) (model.Credential, error) {
	var cred model.Credential
	query := `SELECT id, email, password_hash, created_at
			  FROM credentials WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&cred.ID, &cred.Email, &cred.PasswordHash, &cred.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by id: %w", err)
	}

	return cred, nil
}
