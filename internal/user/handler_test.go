package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invitation-canvas-editor/auth"
	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/middleware"
)

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) IncrementInvitationCount(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) DecrementInvitationCount(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) Logout(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	return router
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()
	router.POST("/register", handler.Register)

	mockService.On("Register", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
		return user.Email == "host@example.com" && user.Password == "password123"
	})).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*domain.User)
		user.ID = 1
		user.CreatedAt = time.Now()
	})

	w := postJSON(router, "/register", FormRegister{Name: "Host", Email: "host@example.com", Password: "password123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var response struct {
		User domain.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, uint64(1), response.User.ID)
	assert.Equal(t, domain.RoleUser, response.User.Role)
	mockService.AssertExpectations(t)
}

func TestRegister_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{"missing fields", struct{ Name string }{Name: "Host"}},
		{"invalid email", FormRegister{Name: "Host", Email: "invalid-email", Password: "password123"}},
		{"short password", FormRegister{Name: "Host", Email: "host@example.com", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			router := setupRouter()
			router.POST("/register", NewHandler(mockService).Register)

			w := postJSON(router, "/register", tt.payload)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	auth.SetSecret("user-handler-secret")
	mockService := new(MockService)
	router := setupRouter()
	router.POST("/login", NewHandler(mockService).Login)

	user := &domain.User{ID: 3, Email: "host@example.com", Role: domain.RoleAdmin, TokenVersion: 2, IsActive: true}
	mockService.On("Login", mock.Anything, "host@example.com", "password123").Return(user, nil)

	w := postJSON(router, "/login", FormLogin{Email: "host@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		AccessToken string         `json:"access_token"`
		User        domain.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, domain.RoleAdmin, response.User.Role)

	parsed, err := auth.VerifyJWT(response.AccessToken)
	require.NoError(t, err)
	id, version, err := auth.GetDataFromToken(parsed)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.Equal(t, 2, version)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter()
	router.POST("/login", NewHandler(mockService).Login)

	mockService.On("Login", mock.Anything, "host@example.com", "nope").
		Return(nil, errors.UnprocessableEntity("Wrong password", nil))

	w := postJSON(router, "/login", FormLogin{Email: "host@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Wrong password")
}

func TestGetProfile(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()
	router.GET("/profile", func(c *gin.Context) {
		c.Set("user_id", uint64(5))
		handler.GetProfile(c)
	})
	router.GET("/anonymous", handler.GetProfile)

	mockService.On("GetUserByID", mock.Anything, uint64(5)).
		Return(&domain.User{ID: 5, Email: "guest@example.com", Role: domain.RoleUser, InvitationCount: 2}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var profile domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, domain.Profile{ID: 5, Email: "guest@example.com", Role: domain.RoleUser, InvitationCount: 2}, profile)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anonymous", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
