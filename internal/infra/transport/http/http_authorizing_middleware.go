package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"acebook/internal/domain"
	context_ "acebook/internal/infra/context"
	"acebook/internal/infra/logging"
)

const AuthorizationHeader = "Authorization"

// TokenRotator verifies presented session tokens and mints their
// replacements. Implemented by the auth service's TokenService.
type TokenRotator interface {
	// Verify validates a token's signature and expiry and returns its
	// decoded payload.
	Verify(tokenString string) (domain.SessionToken, error)

	// Rotate mints a fresh token for the verified identity.
	Rotate(userID string) (string, error)
}

// AuthorizingMiddleware is the gate in front of every protected
// operation. It extracts the bearer token, verifies it, rotates it,
// and deposits both the verified user ID and the fresh token in the
// request context for the handler to use.
//
// Any verification failure (missing, malformed, expired) produces the
// same bare 401: callers cannot tell which it was, only the log can.
// Rotation happens here, once per request, on successful verification;
// whether the protected operation itself later succeeds is irrelevant
// to it.
func AuthorizingMiddleware(
	next http.Handler,
	tokens TokenRotator,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := tokens.Verify(bearerToken(r))
		if err != nil {
			log.WarnContext(r.Context(), "unauthenticated request", "error", err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

			return
		}

		rotated, err := tokens.Rotate(claims.UserID)
		if err != nil {
			log.ErrorContext(r.Context(), "rotate token failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

			return
		}

		ctx := context_.WithUserID(r.Context(), claims.UserID)
		ctx = context_.WithRotatedToken(ctx, rotated)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken returns the session token presented with the request.
// The Authorization header wins; form posts and JSON bodies may carry
// it in a "token" field instead, which is tolerated for compatibility.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get(AuthorizationHeader); header != "" {
		token, _ := strings.CutPrefix(header, "Bearer")

		return strings.TrimSpace(token)
	}

	return tokenFromBody(r)
}

func tokenFromBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}

	// Restore the body for the downstream handler.
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Token string `json:"token"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Token != "" {
		return payload.Token
	}

	if values, err := url.ParseQuery(string(body)); err == nil {
		return values.Get("token")
	}

	return ""
}
