package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc     func(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error)
	ValidateUserFunc func(ctx context.Context, email, password string) (*entity.User, error)
	LoginFunc        func(user *entity.User) (string, error)
	AuthenticateFunc func(ctx context.Context, token string) (*entity.User, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, profile)
	}
	return nil, errors.New("register not configured")
}

func (m *mockAuthUsecase) ValidateUser(ctx context.Context, email, password string) (*entity.User, error) {
	if m.ValidateUserFunc != nil {
		return m.ValidateUserFunc(ctx, email, password)
	}
	return nil, nil // Default: invalid credentials
}

func (m *mockAuthUsecase) Login(user *entity.User) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(user)
	}
	return "", errors.New("login not configured")
}

func (m *mockAuthUsecase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	return nil, usecase.ErrUnauthenticated
}

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func alice() *entity.User {
	return &entity.User{
		ID:        1,
		Email:     "alice@example.com",
		Password:  "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Profile:   map[string]any{"name": "Alice"},
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()

	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var responseBody gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
	return w, responseBody
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name             string
		requestBody      any
		mockRegisterFunc func(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error)
		expectedStatus   int
		expectedBody     gin.H
	}{
		{
			name:        "success: user registration with profile",
			requestBody: gin.H{"email": "alice@example.com", "password": "secret123", "name": "Alice"},
			mockRegisterFunc: func(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error) {
				u := alice()
				u.Profile = profile
				return u, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody: gin.H{
				"message": "Successfully signed up",
				"data": map[string]any{
					"newUser": map[string]any{
						"id":        float64(1),
						"email":     "alice@example.com",
						"name":      "Alice",
						"createdAt": "2024-01-02T03:04:05Z",
						"updatedAt": "2024-01-02T03:04:05Z",
					},
				},
			},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "alice@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:           "failure: malformed JSON",
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"email": "alice@example.com", "password": "secret123"},
			mockRegisterFunc: func(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   gin.H{"error": "email already registered"},
		},
		{
			name:        "failure: store error is hidden",
			requestBody: gin.H{"email": "alice@example.com", "password": "secret123"},
			mockRegisterFunc: func(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error) {
				return nil, errors.New("failed to create user: connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{RegisterFunc: tt.mockRegisterFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/auth/register", handler.Register)

			w, responseBody := doJSON(t, router, http.MethodPost, "/auth/register", tt.requestBody, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

func TestAuthHandler_Register_PassesProfileFields(t *testing.T) {
	var gotEmail, gotPassword string
	var gotProfile map[string]any
	mockUC := &mockAuthUsecase{
		RegisterFunc: func(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error) {
			gotEmail, gotPassword, gotProfile = email, password, profile
			return alice(), nil
		},
	}
	router := gin.New()
	router.POST("/auth/register", NewAuthHandler(mockUC).Register)

	w, responseBody := doJSON(t, router, http.MethodPost, "/auth/register",
		gin.H{"email": "alice@example.com", "password": "secret123", "name": "Alice", "age": 30, "id": 99}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice@example.com", gotEmail)
	assert.Equal(t, "secret123", gotPassword)
	assert.Equal(t, map[string]any{"name": "Alice", "age": float64(30)}, gotProfile)

	newUser := responseBody["data"].(map[string]any)["newUser"].(map[string]any)
	assert.NotContains(t, newUser, "password")
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name                 string
		requestBody          any
		mockValidateUserFunc func(ctx context.Context, email, password string) (*entity.User, error)
		mockLoginFunc        func(user *entity.User) (string, error)
		expectedStatus       int
		expectedBody         gin.H
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "alice@example.com", "password": "secret123"},
			mockValidateUserFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return alice(), nil
			},
			mockLoginFunc:  func(user *entity.User) (string, error) { return "dummy-jwt-token", nil },
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"access_token": "dummy-jwt-token"},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "alice@example.com"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid email or password"},
		},
		{
			name:           "failure: invalid credentials",
			requestBody:    gin.H{"email": "alice@example.com", "password": "wrong"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid email or password"},
		},
		{
			name:        "failure: store error",
			requestBody: gin.H{"email": "alice@example.com", "password": "secret123"},
			mockValidateUserFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return nil, errors.New("failed to find user: connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
		{
			name:        "failure: token generation error",
			requestBody: gin.H{"email": "alice@example.com", "password": "secret123"},
			mockValidateUserFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return alice(), nil
			},
			mockLoginFunc:  func(user *entity.User) (string, error) { return "", errors.New("signing failed") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{ValidateUserFunc: tt.mockValidateUserFunc, LoginFunc: tt.mockLoginFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/auth/login", handler.Login)

			w, responseBody := doJSON(t, router, http.MethodPost, "/auth/login", tt.requestBody, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

func TestAuthHandler_Login_DoesNotIssueTokenForInvalidCredentials(t *testing.T) {
	loginCalled := false
	mockUC := &mockAuthUsecase{
		ValidateUserFunc: func(ctx context.Context, email, password string) (*entity.User, error) { return nil, nil },
		LoginFunc: func(user *entity.User) (string, error) {
			loginCalled = true
			return "token", nil
		},
	}
	router := gin.New()
	router.POST("/auth/login", NewAuthHandler(mockUC).Login)

	w, _ := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{"email": "nobody@example.com", "password": "x"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, loginCalled)
}

func TestAuthHandler_Me(t *testing.T) {
	tests := []struct {
		name                 string
		authorization        string
		mockAuthenticateFunc func(ctx context.Context, token string) (*entity.User, error)
		expectedStatus       int
		expectedBody         gin.H
	}{
		{
			name:          "success: current user",
			authorization: "Bearer good-token",
			mockAuthenticateFunc: func(ctx context.Context, token string) (*entity.User, error) {
				if token != "good-token" {
					return nil, usecase.ErrUnauthenticated
				}
				return alice(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: gin.H{
				"id":        float64(1),
				"email":     "alice@example.com",
				"name":      "Alice",
				"createdAt": "2024-01-02T03:04:05Z",
				"updatedAt": "2024-01-02T03:04:05Z",
			},
		},
		{
			name:           "failure: missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "unauthorized"},
		},
		{
			name:          "failure: invalid token",
			authorization: "Bearer garbage",
			mockAuthenticateFunc: func(ctx context.Context, token string) (*entity.User, error) {
				return nil, usecase.ErrUnauthenticated
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "unauthorized"},
		},
		{
			name:          "failure: store error",
			authorization: "Bearer good-token",
			mockAuthenticateFunc: func(ctx context.Context, token string) (*entity.User, error) {
				return nil, errors.New("failed to find user: connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{AuthenticateFunc: tt.mockAuthenticateFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.GET("/auth/me", handler.Me)

			header := http.Header{}
			if tt.authorization != "" {
				header.Set("Authorization", tt.authorization)
			}
			w, responseBody := doJSON(t, router, http.MethodGet, "/auth/me", nil, header)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}
