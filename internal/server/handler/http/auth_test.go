package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dkorolev/playsave/internal/models"
	"github.com/dkorolev/playsave/internal/repository"
	"github.com/dkorolev/playsave/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerErr error
	loginUser   *models.User
	loginErr    error
}

func (f *fakeAuthService) Register(ctx context.Context, username, password string) error {
	return f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	return f.loginUser, f.loginErr
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request body",
		},
		{
			name:           "username too short",
			body:           `{"username":"ab","password":"correcthorse"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "alphanumeric",
		},
		{
			name:           "username not alphanumeric",
			body:           `{"username":"pla_yer","password":"correcthorse"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "alphanumeric",
		},
		{
			name:           "password too short",
			body:           `{"username":"player2","password":"short"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "at least 10 characters",
		},
		{
			name:           "duplicate username",
			body:           `{"username":"player1","password":"correcthorse"}`,
			service:        &fakeAuthService{registerErr: repository.ErrDuplicateUser},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "Username already exists",
		},
		{
			name:           "store error stays generic",
			body:           `{"username":"player1","password":"correcthorse"}`,
			service:        &fakeAuthService{registerErr: errors.New("connection refused")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "An unexpected error occurred",
		},
		{
			name:           "success",
			body:           `{"username":"player1","password":"correcthorse"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusCreated,
			expectedSubstr: "User registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
			if tt.name == "store error stays generic" && bytes.Contains(buf.Bytes(), []byte("connection refused")) {
				t.Error("internal error detail leaked to the client")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "wrong password",
			body:         `{"username":"player1","password":"wrongwrong"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "unknown user",
			body:         `{"username":"ghost","password":"correcthorse"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "store error",
			body:         `{"username":"player1","password":"correcthorse"}`,
			service:      &fakeAuthService{loginErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "success",
			body:         `{"username":"player1","password":"correcthorse"}`,
			service:      &fakeAuthService{loginUser: &models.User{ID: 7, Username: "player1"}},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			if tt.expectedCode == http.StatusOK {
				var body response
				if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if !body.Success || body.UserID != 7 || body.Username != "player1" {
					t.Errorf("unexpected body: %+v", body)
				}
			}
		})
	}
}

// Unknown-user and wrong-password logins must be byte-for-byte identical.
func TestAuthHandler_Login_IndistinguishableFailures(t *testing.T) {
	bodies := make([]string, 0, 2)
	for _, body := range []string{
		`{"username":"ghost","password":"correcthorse"}`,
		`{"username":"player1","password":"wrongwrong"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/login", bytes.NewBufferString(body))
		h := &AuthHandler{AuthService: &fakeAuthService{loginErr: service.ErrInvalidCredentials}, Log: zap.NewNop()}
		h.Login(rec, req)
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("failure bodies differ: %q vs %q", bodies[0], bodies[1])
	}
}
