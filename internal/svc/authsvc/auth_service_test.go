package authsvc_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"acebook/internal/domain"
	"acebook/internal/infra/logging"
	"acebook/internal/svc/authsvc"
)

// mockUserRepository implements user.Repository for testing.
type mockUserRepository struct {
	users map[string]*domain.User
	err   error
	m     sync.Mutex
}

func (m *mockUserRepository) CreateUser(_ context.Context, email string, passwordHash []byte) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return "", m.err
	}
	if _, exists := m.users[email]; exists {
		return "", domain.ErrUserAlreadyExists
	}
	account := &domain.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
	m.users[email] = account
	return account.ID, nil
}

func (m *mockUserRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	account, exists := m.users[email]
	if !exists {
		return nil, false, domain.ErrUserNotFound
	}
	return account, true, nil
}

func (m *mockUserRepository) Close() error {
	return m.err
}

func newMockUserRepo() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

var ErrRepoError = errors.New("repository error")

func setupTestService(t *testing.T) (*authsvc.AuthService, *mockUserRepository) {
	t.Helper()

	mockRepo := newMockUserRepo()

	tokens := authsvc.NewTokenService(authsvc.TokenConfig{
		Secret:        "test-secret",
		TokenDuration: 3600,
	})

	svc := &authsvc.AuthService{
		Config:   authsvc.AuthConfig{BCryptCost: bcrypt.MinCost},
		UserRepo: mockRepo,
		Tokens:   tokens,
		Log:      logging.GetLogger("test.authsvc"),
	}

	return svc, mockRepo
}

//nolint:paralleltest
func TestAuthService_Register(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	tests := []struct {
		name     string
		email    string
		password string
		repoErr  error
		wantErr  error
	}{
		{
			name:     "successful registration",
			email:    "new@example.com",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "duplicate email",
			email:    "existing@example.com",
			password: "password123",
			wantErr:  domain.ErrUserAlreadyExists,
		},
		{
			name:     "malformed email",
			email:    "not-an-email",
			password: "password123",
			wantErr:  errors.New("validate"),
		},
		{
			name:     "password too short",
			email:    "short@example.com",
			password: "1234",
			wantErr:  errors.New("validate"),
		},
		{
			name:     "repository error",
			email:    "error@example.com",
			password: "password123",
			repoErr:  ErrRepoError,
			wantErr:  ErrRepoError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup test case
			if tt.name == "duplicate email" {
				_ = svc.Register(context.Background(), tt.email, "oldpass12345")
			}
			mockRepo.err = tt.repoErr

			// Execute test
			err := svc.Register(context.Background(), tt.email, tt.password)

			// Verify results
			if (err != nil) != (tt.wantErr != nil) {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupTestService(t)

	// Create test user
	testPassword := "testpass123"
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	mockRepo.users["test@example.com"] = &domain.User{
		ID:           "user-1",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}

	tests := []struct {
		name     string
		email    string
		password string
		repoErr  error
		wantErr  error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "testpass123",
			wantErr:  nil,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpass",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "anypass",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "repository error",
			email:    "test@example.com",
			password: "testpass123",
			repoErr:  ErrRepoError,
			wantErr:  ErrRepoError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.err = tt.repoErr
			defer func() { mockRepo.err = nil }()

			// Execute test
			token, err := svc.Login(context.Background(), tt.email, tt.password)

			// Verify results
			if (err != nil) != (tt.wantErr != nil) {
				t.Errorf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				// The first token of the session must decode back to the user
				claims, err := svc.Tokens.Verify(token)
				if err != nil {
					t.Errorf("Login() generated invalid token: %v", err)
				}
				if claims.UserID != "user-1" {
					t.Errorf("Login() token subject = %v, want %v", claims.UserID, "user-1")
				}
			}
		})
	}
}
