package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-marketplace/internal/marketerrors"
	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &models.User{ID: 3, Username: "alice", PasswordHash: "secret-hash", Role: models.RoleUser, IsActive: true}
	session := &models.Session{ID: 1, UserID: 3, Role: models.RoleUser, Token: "tok123", ExpiresAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		header         string
		mockSetup      func(m *MockAuthServiceInterface)
		expectedStatus int
		expectedMsg    string
		validate       func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:   "register",
			method: http.MethodPost,
			path:   "/auth/register",
			body:   `{"username":"alice","password":"correct horse"}`,
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Register(gomock.Any(), "alice", "correct horse", nil).Return(user, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "user registered successfully",
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				require.NotContains(t, w.Body.String(), "secret-hash")
			},
		},
		{
			name:           "register_short_password",
			method:         http.MethodPost,
			path:           "/auth/register",
			body:           `{"username":"alice","password":"short"}`,
			mockSetup:      func(m *MockAuthServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "register_bad_email",
			method:         http.MethodPost,
			path:           "/auth/register",
			body:           `{"username":"alice","password":"correct horse","email":"nope"}`,
			mockSetup:      func(m *MockAuthServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:   "register_taken",
			method: http.MethodPost,
			path:   "/auth/register",
			body:   `{"username":"alice","password":"correct horse"}`,
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Register(gomock.Any(), "alice", "correct horse", nil).Return(nil, marketerrors.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "resource already exists or is in use",
		},
		{
			name:   "login_sets_cookie",
			method: http.MethodPost,
			path:   "/auth/login",
			body:   `{"username":"alice","password":"correct horse"}`,
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "alice", "correct horse").Return(session, user, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "logged in successfully",
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				cookies := w.Result().Cookies()
				require.Len(t, cookies, 1)
				require.Equal(t, "session_token", cookies[0].Name)
				require.Equal(t, "tok123", cookies[0].Value)
				require.True(t, cookies[0].HttpOnly)
			},
		},
		{
			name:   "login_wrong_password",
			method: http.MethodPost,
			path:   "/auth/login",
			body:   `{"username":"alice","password":"nope"}`,
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "alice", "nope").Return(nil, nil, marketerrors.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "invalid username or password",
		},
		{
			name:   "login_inactive",
			method: http.MethodPost,
			path:   "/auth/login",
			body:   `{"username":"alice","password":"correct horse"}`,
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "alice", "correct horse").Return(nil, nil, marketerrors.ErrInactiveUser)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "account is deactivated",
		},
		{
			name:   "logout_bearer",
			method: http.MethodPost,
			path:   "/auth/logout",
			header: "Bearer tok123",
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Logout(gomock.Any(), "tok123").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "logged out successfully",
		},
		{
			name:   "logout_unknown",
			method: http.MethodPost,
			path:   "/auth/logout",
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Logout(gomock.Any(), "").Return(marketerrors.ErrUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:   "me",
			method: http.MethodGet,
			path:   "/auth/me",
			mockSetup: func(m *MockAuthServiceInterface) {
				m.EXPECT().Me(gomock.Any(), market.Actor{UserID: 3, Role: models.RoleUser}).Return(user, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "user retrieved successfully",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := NewMockAuthServiceInterface(ctrl)
			handler := NewAuthHandler(mockService, CookieOptions{Name: "session_token"})
			tc.mockSetup(mockService)

			router := gin.New()
			router.POST("/auth/register", handler.RegisterHandler)
			router.POST("/auth/login", handler.LoginHandler)
			router.POST("/auth/logout", handler.LogoutHandler)
			router.GET("/auth/me", withActor(market.Actor{UserID: 3, Role: models.RoleUser}), handler.MeHandler)

			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.validate != nil {
				tc.validate(t, w)
			}
		})
	}
}
