package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type Service struct {
	repo     Repository
	sessions SessionStore
	ttl      time.Duration
}

func NewService(repo Repository, sessions SessionStore, ttl time.Duration) *Service {
	return &Service{repo: repo, sessions: sessions, ttl: ttl}
}

// Register creates a member with role USER. A second registration with the
// same email fails with ErrDuplicate.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Member, error) {
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	m := &Member{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         RoleUser,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Login checks the credentials and issues an opaque bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Member, error) {
	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrBadCredentials
	}
	if !CheckPassword(m.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, m.ID, s.ttl); err != nil {
		return "", nil, err
	}
	return token, m, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to the member it belongs to.
func (s *Service) Authenticate(ctx context.Context, token string) (*Member, error) {
	id, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
