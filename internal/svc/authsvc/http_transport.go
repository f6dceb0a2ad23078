package authsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"acebook/internal/domain"
	"acebook/internal/infra/logging"
)

var (
	// ErrNoEmail is returned when the email is missing from the request.
	ErrNoEmail = errors.New("no email")
	// ErrNoPassword is returned when the password is missing from the request.
	ErrNoPassword = errors.New("no password")
)

// credentialsRequest is the JSON body of both login and signup requests.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the body of a successful login.
type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// messageResponse is the body of token-less outcomes.
type messageResponse struct {
	Message string `json:"message"`
}

// HTTPTransport handles HTTP requests for the authentication service.
// It provides the unauthenticated endpoints of the protocol: account
// signup and the credential exchange that starts a sliding session.
type HTTPTransport struct {
	authSvc *AuthService
	router  chi.Router
	log     logging.Logger
}

// NewHTTPTransport creates a new HTTPTransport serving:
// - POST /users: register a new account
// - POST /tokens: exchange credentials for the session's first token.
func NewHTTPTransport(authSvc *AuthService) *HTTPTransport {
	ht := &HTTPTransport{
		authSvc: authSvc,
		router:  nil,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
	}

	router := chi.NewRouter()
	router.Post("/users", ht.HandleRegister)
	router.Post("/tokens", ht.HandleLogin)
	ht.router = router

	return ht
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.router.ServeHTTP(w, r)
}

// HandleRegister processes account signup requests.
// Expects a JSON body with email and password fields.
func (ht *HTTPTransport) HandleRegister(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleRegister(w, r)
}

func (ht *HTTPTransport) handleRegister(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "user register failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "bad request"})

		return fmt.Errorf("decode request: %w", err)
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "bad request"})

		return ErrNoEmail
	}

	log = log.With(logging.Group("user", "email", req.Email))

	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "bad request"})

		return ErrNoPassword
	}

	if err := ht.authSvc.Register(r.Context(), req.Email, req.Password); err != nil {
		var invalid validator.ValidationErrors

		if errors.Is(err, domain.ErrUserAlreadyExists) {
			writeJSON(w, http.StatusConflict, messageResponse{Message: "bad request"})
		} else if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "bad request"})
		} else {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return fmt.Errorf("register user: %w", err)
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "OK"})

	return nil
}

// HandleLogin processes credential exchange requests.
// Expects a JSON body with email and password fields.
// Returns the session's first token on success; any credential failure
// maps to the same 401 "auth error" body so callers learn nothing
// about which part was wrong.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.WarnContext(ctx, "user login failed", "error", err)
		} else {
			log.DebugContext(ctx, "user logged in")
		}
	}(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "auth error"})

		return fmt.Errorf("decode request: %w", err)
	}

	log = log.With(logging.Group("user", "email", req.Email))

	token, err := ht.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "auth error"})
		} else {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal error"})
		}

		return fmt.Errorf("login user: %w", err)
	}

	writeJSON(w, http.StatusCreated, loginResponse{Token: token, Message: "OK"})

	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
