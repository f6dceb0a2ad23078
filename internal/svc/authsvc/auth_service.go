package authsvc

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"acebook/internal/domain"
	"acebook/internal/infra/logging"
	"acebook/internal/repo/user"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// BCryptCost is the cost factor used when hashing new passwords
	BCryptCost int `env:"BCRYPT_COST" default:"10"`
}

// AuthService provides credential verification and user registration.
// Token minting is delegated to the TokenService; this service never
// touches tokens presented by clients.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Tokens   *TokenService
	Log      logging.Logger
}

// NewAuthService creates a new AuthService with the given user repository
// factory, token service and configuration.
// Returns an error if the user repository cannot be created.
func NewAuthService(repoFactory user.RepositoryFactory, tokens *TokenService, cfg AuthConfig) (*AuthService, error) {
	log := logging.GetLogger("svc.authsvc.auth_service")

	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	return &AuthService{
		Config:   cfg,
		UserRepo: userRepo,
		Tokens:   tokens,
		Log:      log,
	}, nil
}

// Register creates a new user account with the given email and password.
// The password is bcrypt-hashed before storage; the plaintext never
// reaches the repository.
// Returns an error if the email is malformed, the password fails
// validation, or the email is already taken.
func (s *AuthService) Register(ctx context.Context, email, password string) (err error) {
	log := s.Log.With(logging.Group("user", "email", email))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "register user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}()

	if err := ValidateSignup(SignupRequest{Email: email, Password: password}); err != nil {
		return fmt.Errorf("validate signup: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.Config.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.UserRepo.CreateUser(ctx, email, passwordHash); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Login verifies an email/password pair and mints the session's first
// token. An unknown email and a wrong password both collapse to
// domain.ErrInvalidCredentials so callers cannot probe which emails
// exist; the log keeps the distinction.
func (s *AuthService) Login(ctx context.Context, email, password string) (_ string, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	account, ok, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", errors.Join(domain.ErrInvalidCredentials, err)
		}

		return "", fmt.Errorf("get user: %w", err)
	} else if !ok {
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return "", errors.Join(domain.ErrInvalidCredentials, err)
	}

	// First token of the session: Issue, not Rotate, since there is no
	// prior token it succeeds.
	token, err := s.Tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Close releases resources held by the service, such as database connections.
// Returns an error if cleanup fails.
func (s *AuthService) Close() error {
	if err := s.UserRepo.Close(); err != nil {
		return fmt.Errorf("close user repo: %w", err)
	}

	return nil
}
