package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/internal/platform/metrics"
)

// ErrInvalidCredentials covers unknown username, wrong password, and
// disabled accounts alike so login failures do not leak which it was.
var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

const minPasswordLength = 8

var validRoles = map[string]bool{
	auth.RoleAdmin:        true,
	auth.RoleHealthWorker: true,
	auth.RoleViewer:       true,
}

// Service provides business logic for health-worker accounts.
type Service struct {
	workers WorkerRepository
	jwt     auth.JWTConfig
}

// NewService creates a new worker domain service.
func NewService(workers WorkerRepository, jwt auth.JWTConfig) *Service {
	return &Service{workers: workers, jwt: jwt}
}

// CreateWorker registers a new account with a bcrypt-hashed password.
func (s *Service) CreateWorker(ctx context.Context, req CreateRequest) (*Worker, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if req.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	role := req.Role
	if role == "" {
		role = auth.RoleHealthWorker
	}
	if !validRoles[role] {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	if existing, err := s.workers.GetByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("username already taken: %s", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	w := &Worker{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.workers.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Authenticate verifies credentials and issues a signed token on success.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*LoginResponse, error) {
	w, err := s.workers.GetByUsername(ctx, username)
	if err != nil || w == nil {
		metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}
	if !w.Active {
		metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte(password)); err != nil {
		metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.jwt, w.ID.String(), w.FullName, w.Role)
	if err != nil {
		metrics.RecordLogin(false)
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	metrics.RecordLogin(true)
	return &LoginResponse{Token: token, Worker: w}, nil
}

func (s *Service) GetWorker(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return s.workers.GetByID(ctx, id)
}

func (s *Service) ListWorkers(ctx context.Context, limit, offset int) ([]*Worker, int, error) {
	return s.workers.List(ctx, limit, offset)
}

// UpdateWorker patches full name, role, and active status.
func (s *Service) UpdateWorker(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Worker, error) {
	w, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, fmt.Errorf("full_name cannot be empty")
		}
		w.FullName = *req.FullName
	}
	if req.Role != nil {
		if !validRoles[*req.Role] {
			return nil, fmt.Errorf("invalid role: %s", *req.Role)
		}
		w.Role = *req.Role
	}
	if req.Active != nil {
		w.Active = *req.Active
	}
	if err := s.workers.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	w, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if len(next) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	w.PasswordHash = string(hash)
	return s.workers.Update(ctx, w)
}

func (s *Service) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	return s.workers.Delete(ctx, id)
}
