package authsvc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"acebook/internal/svc/authsvc"
)

func doRequest(t *testing.T, handler http.Handler, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestHTTPTransport_Register(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)
	transport := authsvc.NewHTTPTransport(svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "successful signup",
			body:       `{"email":"new@example.com","password":"password123"}`,
			wantStatus: http.StatusCreated,
			wantBody:   "OK",
		},
		{
			name:       "duplicate email",
			body:       `{"email":"new@example.com","password":"password123"}`,
			wantStatus: http.StatusConflict,
			wantBody:   "bad request",
		},
		{
			name:       "missing email",
			body:       `{"password":"password123"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "bad request",
		},
		{
			name:       "missing password",
			body:       `{"email":"other@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "bad request",
		},
		{
			name:       "malformed email",
			body:       `{"email":"not-an-email","password":"password123"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "bad request",
		},
		{
			name:       "password too short",
			body:       `{"email":"short@example.com","password":"1234"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "bad request",
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "bad request",
		},
	}

	// Sequential on purpose: the duplicate case depends on the first.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, transport, "/users", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantBody, decodeBody(t, rec)["message"])
		})
	}
}

func TestHTTPTransport_Login(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)
	transport := authsvc.NewHTTPTransport(svc)

	require.NoError(t, svc.Register(context.Background(), "test@example.com", "testpass123"))

	t.Run("successful login", func(t *testing.T) {
		rec := doRequest(t, transport, "/tokens", `{"email":"test@example.com","password":"testpass123"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "OK", body["message"])
		require.NotEmpty(t, body["token"])

		claims, err := svc.Tokens.Verify(body["token"])
		require.NoError(t, err)
		require.Equal(t, "user-test@example.com", claims.UserID)
	})

	// Wrong password, unknown email and garbage input all collapse to
	// the same response.
	for name, body := range map[string]string{
		"wrong password": `{"email":"test@example.com","password":"wrongpass"}`,
		"unknown email":  `{"email":"nobody@example.com","password":"testpass123"}`,
		"malformed body": `{`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, transport, "/tokens", body)

			require.Equal(t, http.StatusUnauthorized, rec.Code)

			got := decodeBody(t, rec)
			require.Equal(t, "auth error", got["message"])
			require.Empty(t, got["token"])
		})
	}
}
