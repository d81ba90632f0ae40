package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authRouter(svc *MockAuthService, subject access.Subject, accessToken string) *gin.Engine {
	handler := NewAuthHandler(svc, testCookies(), "https://notethatdown.com")
	router := gin.New()
	router.Use(withSubject(subject, accessToken))
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/signup", handler.Signup)
	router.GET("/auth/logout", handler.Logout)
	router.POST("/protected/magic-link", handler.RequestMagicLink)
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignIn", mock.Anything, &models.LoginRequest{Email: testEmail, Password: "hunter22"}).
		Return(&models.SessionTokens{AccessToken: "a1", RefreshToken: "r1"}, nil)
	router := authRouter(svc, access.Anonymous(), "")

	w := postJSON(router, "/auth/login", `{"email":"ada@example.com","password":"hunter22"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"redirectTo":"/protected"}`, w.Body.String())
	accessCookie := responseCookie(w, middleware.AccessTokenCookieName)
	require.NotNil(t, accessCookie)
	assert.Equal(t, "a1", accessCookie.Value)
	assert.True(t, accessCookie.HttpOnly)
	refreshCookie := responseCookie(w, middleware.RefreshTokenCookieName)
	require.NotNil(t, refreshCookie)
	assert.Equal(t, "r1", refreshCookie.Value)
}

func TestAuthHandler_LoginRejected(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignIn", mock.Anything, mock.Anything).
		Return(nil, &services.RejectedError{Message: "Invalid login credentials"})
	router := authRouter(svc, access.Anonymous(), "")

	w := postJSON(router, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid login credentials"}`, w.Body.String())
	assert.Nil(t, responseCookie(w, middleware.AccessTokenCookieName))
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	svc := new(MockAuthService)
	router := authRouter(svc, access.Anonymous(), "")

	w := postJSON(router, "/auth/login", `{"email":"not-an-email","password":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format")
	assert.Contains(t, w.Body.String(), "Password is required")
	svc.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantCode   int
		wantBody   string
	}{
		{name: "confirmation sent", wantCode: http.StatusOK, wantBody: "Check your email to confirm your account."},
		{name: "password mismatch", serviceErr: services.ErrPasswordMismatch, wantCode: http.StatusBadRequest, wantBody: "Passwords do not match"},
		{name: "provider rejection", serviceErr: &services.RejectedError{Message: "User already registered"}, wantCode: http.StatusBadRequest, wantBody: "User already registered"},
		{name: "provider outage", serviceErr: errors.New("503"), wantCode: http.StatusInternalServerError, wantBody: "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			svc.On("SignUp", mock.Anything, mock.Anything).Return(tt.serviceErr)
			router := authRouter(svc, access.Anonymous(), "")

			w := postJSON(router, "/auth/signup", `{"email":"ada@example.com","password":"hunter22","confirmPassword":"hunter23"}`)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignOut", mock.Anything, "a1").Return()
	router := authRouter(svc, access.Authenticated(testUserID, testEmail, true), "a1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://notethatdown.com/", w.Header().Get("Location"))
	cleared := responseCookie(w, middleware.AccessTokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	svc.AssertExpectations(t)
}

func TestAuthHandler_LogoutFallsBackToCookie(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignOut", mock.Anything, "from-cookie").Return()
	router := authRouter(svc, access.Anonymous(), "")

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookieName, Value: "from-cookie"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_RequestMagicLink(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("RequestMagicLink", mock.Anything, testEmail).Return(nil)
	router := authRouter(svc, access.Authenticated(testUserID, testEmail, true), "a1")

	w := postJSON(router, "/protected/magic-link", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Check your email for the magic link!"}`, w.Body.String())
}

func TestAuthHandler_RequestMagicLinkWithoutEmail(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("RequestMagicLink", mock.Anything, "").Return(services.ErrNoEmail)
	router := authRouter(svc, access.Authenticated(testUserID, "", true), "a1")

	w := postJSON(router, "/protected/magic-link", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No email address found")
}
