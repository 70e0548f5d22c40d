package member

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, m *Member) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO members (id, name, email, password_hash, address, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, m.ID, m.Name, m.Email, m.PasswordHash, m.Address, m.Role)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on email
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m Member
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, address, role, created_at, updated_at
		FROM members WHERE id=$1
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Address, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m Member
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, address, role, created_at, updated_at
		FROM members WHERE email=$1
	`, email).Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Address, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &m, nil
}
