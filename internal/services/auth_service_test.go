package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/notethatdown/notethatdown-api/pkg/jwt"
	"github.com/notethatdown/notethatdown-api/pkg/supabase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func accessToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.AccessClaims{
		Email: testEmail,
		Role:  "authenticated",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   testUserID,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("provider-signing-key"))
	require.NoError(t, err)
	return signed
}

func newAuthService() (*services.AuthService, *MockIdentityProvider, *MockProfileStore) {
	identity := new(MockIdentityProvider)
	profiles := new(MockProfileStore)
	return services.NewAuthService(identity, profiles, testConfig()), identity, profiles
}

func TestResolveCaller_NoCookies(t *testing.T) {
	svc, identity, profiles := newAuthService()

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{})

	assert.False(t, res.Subject.IsAuthenticated())
	assert.False(t, res.ClearSession)
	assert.Nil(t, res.Refreshed)
	identity.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	profiles.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestResolveCaller_ValidSessionWithProfile(t *testing.T) {
	svc, identity, profiles := newAuthService()
	token := accessToken(t, time.Hour)
	identity.On("GetUser", mock.Anything, token).Return(&supabase.User{ID: testUserID, Email: testEmail}, nil)
	profiles.On("Exists", mock.Anything, testUserID).Return(true, nil)

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{AccessToken: token, RefreshToken: "r1"})

	require.True(t, res.Subject.IsAuthenticated())
	assert.Equal(t, testUserID, res.Subject.UserID)
	assert.Equal(t, testEmail, res.Subject.Email)
	assert.True(t, res.Subject.HasProfile)
	assert.Nil(t, res.Refreshed)
	identity.AssertNotCalled(t, "RefreshSession", mock.Anything, mock.Anything)
}

func TestResolveCaller_RefreshesExpiredSession(t *testing.T) {
	svc, identity, profiles := newAuthService()
	fresh := accessToken(t, time.Hour)
	identity.On("RefreshSession", mock.Anything, "r1").
		Return(&supabase.Session{AccessToken: fresh, RefreshToken: "r2", ExpiresIn: 3600}, nil)
	identity.On("GetUser", mock.Anything, fresh).Return(&supabase.User{ID: testUserID, Email: testEmail}, nil)
	profiles.On("Exists", mock.Anything, testUserID).Return(false, nil)

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{
		AccessToken:  accessToken(t, -time.Minute),
		RefreshToken: "r1",
	})

	require.NotNil(t, res.Refreshed)
	assert.Equal(t, fresh, res.Refreshed.AccessToken)
	assert.Equal(t, "r2", res.Refreshed.RefreshToken)
	assert.True(t, res.Subject.IsAuthenticated())
	assert.False(t, res.Subject.HasProfile)
}

func TestResolveCaller_RefreshWhenOnlyRefreshTokenPresent(t *testing.T) {
	svc, identity, profiles := newAuthService()
	fresh := accessToken(t, time.Hour)
	identity.On("RefreshSession", mock.Anything, "r1").Return(&supabase.Session{AccessToken: fresh, RefreshToken: "r2"}, nil)
	identity.On("GetUser", mock.Anything, fresh).Return(&supabase.User{ID: testUserID}, nil)
	profiles.On("Exists", mock.Anything, testUserID).Return(true, nil)

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{RefreshToken: "r1"})

	assert.True(t, res.Subject.IsAuthenticated())
	assert.NotNil(t, res.Refreshed)
}

func TestResolveCaller_FailedRefreshClearsSession(t *testing.T) {
	svc, identity, _ := newAuthService()
	identity.On("RefreshSession", mock.Anything, "r1").
		Return(nil, &supabase.APIError{Status: http.StatusBadRequest, Message: "Invalid Refresh Token"})

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{
		AccessToken:  accessToken(t, -time.Minute),
		RefreshToken: "r1",
	})

	assert.False(t, res.Subject.IsAuthenticated())
	assert.True(t, res.ClearSession)
	identity.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestResolveCaller_ExpiredWithoutRefreshToken(t *testing.T) {
	svc, identity, _ := newAuthService()

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{AccessToken: accessToken(t, -time.Minute)})

	assert.False(t, res.Subject.IsAuthenticated())
	assert.True(t, res.ClearSession)
	identity.AssertNotCalled(t, "RefreshSession", mock.Anything, mock.Anything)
}

func TestResolveCaller_IdentityFailureIsAnonymous(t *testing.T) {
	svc, identity, profiles := newAuthService()
	token := accessToken(t, time.Hour)
	identity.On("GetUser", mock.Anything, token).Return(nil, errors.New("connection refused"))

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{AccessToken: token})

	assert.False(t, res.Subject.IsAuthenticated())
	assert.False(t, res.ClearSession)
	profiles.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestResolveCaller_MalformedUserIDIsAnonymous(t *testing.T) {
	svc, identity, profiles := newAuthService()
	token := accessToken(t, time.Hour)
	identity.On("GetUser", mock.Anything, token).Return(&supabase.User{ID: "not-a-uuid"}, nil)

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{AccessToken: token})

	assert.False(t, res.Subject.IsAuthenticated())
	profiles.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestResolveCaller_ProfileFailureMeansNoProfile(t *testing.T) {
	svc, identity, profiles := newAuthService()
	token := accessToken(t, time.Hour)
	identity.On("GetUser", mock.Anything, token).Return(&supabase.User{ID: testUserID, Email: testEmail}, nil)
	profiles.On("Exists", mock.Anything, testUserID).Return(true, errors.New("timeout"))

	res := svc.ResolveCaller(context.Background(), models.SessionTokens{AccessToken: token})

	assert.True(t, res.Subject.IsAuthenticated())
	assert.False(t, res.Subject.HasProfile)
}

func TestSignIn(t *testing.T) {
	svc, identity, _ := newAuthService()
	identity.On("SignInWithPassword", mock.Anything, "ada@example.com", "hunter22").
		Return(&supabase.Session{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600, User: supabase.User{ID: testUserID}}, nil)

	tokens, err := svc.SignIn(context.Background(), &models.LoginRequest{Email: "  Ada@Example.com ", Password: "hunter22"})

	require.NoError(t, err)
	assert.Equal(t, &models.SessionTokens{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}, tokens)
}

func TestSignIn_RejectedCarriesProviderMessage(t *testing.T) {
	svc, identity, _ := newAuthService()
	identity.On("SignInWithPassword", mock.Anything, testEmail, "wrong").
		Return(nil, &supabase.APIError{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"})

	_, err := svc.SignIn(context.Background(), &models.LoginRequest{Email: testEmail, Password: "wrong"})

	require.ErrorIs(t, err, services.ErrInvalidCredentials)
	var rejected *services.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Invalid login credentials", rejected.Message)
}

func TestSignIn_ProviderOutage(t *testing.T) {
	svc, identity, _ := newAuthService()
	outage := &supabase.APIError{Status: http.StatusServiceUnavailable, Message: "Service Unavailable"}
	identity.On("SignInWithPassword", mock.Anything, testEmail, "pw").Return(nil, outage)

	_, err := svc.SignIn(context.Background(), &models.LoginRequest{Email: testEmail, Password: "pw"})

	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestSignUp(t *testing.T) {
	svc, identity, _ := newAuthService()
	identity.On("SignUp", mock.Anything, testEmail, "hunter22", "https://notethatdown.com/auth/callback").Return(nil)

	err := svc.SignUp(context.Background(), &models.SignupRequest{Email: testEmail, Password: "hunter22", ConfirmPassword: "hunter22"})

	require.NoError(t, err)
	identity.AssertExpectations(t)
}

func TestSignUp_PasswordMismatch(t *testing.T) {
	svc, identity, _ := newAuthService()

	err := svc.SignUp(context.Background(), &models.SignupRequest{Email: testEmail, Password: "hunter22", ConfirmPassword: "hunter23"})

	assert.ErrorIs(t, err, services.ErrPasswordMismatch)
	identity.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignOut_IgnoresProviderErrors(t *testing.T) {
	svc, identity, _ := newAuthService()
	identity.On("SignOut", mock.Anything, "a").Return(errors.New("boom"))

	assert.NotPanics(t, func() { svc.SignOut(context.Background(), "a") })
	identity.AssertExpectations(t)

	svc.SignOut(context.Background(), "")
	identity.AssertNumberOfCalls(t, "SignOut", 1)
}

func TestRequestMagicLink(t *testing.T) {
	svc, identity, _ := newAuthService()
	identity.On("SignInWithOTP", mock.Anything, testEmail, "https://notethatdown.com/protected/questions").Return(nil)

	require.NoError(t, svc.RequestMagicLink(context.Background(), testEmail))
	identity.AssertExpectations(t)
}

func TestRequestMagicLink_NoEmail(t *testing.T) {
	svc, identity, _ := newAuthService()

	err := svc.RequestMagicLink(context.Background(), "  ")

	assert.ErrorIs(t, err, services.ErrNoEmail)
	identity.AssertNotCalled(t, "SignInWithOTP", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUser_RequiresToken(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.GetUser(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestResolveCaller_OpenCircuitIsAnonymous(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	identity := supabase.NewClient(srv.URL, "anon-key", httpclient.NewStandardClient(time.Second))
	profiles := new(MockProfileStore)
	svc := services.NewAuthService(identity, profiles, testConfig())
	tokens := models.SessionTokens{AccessToken: accessToken(t, time.Hour), RefreshToken: "r1"}

	for i := 0; i < 3; i++ {
		res := svc.ResolveCaller(context.Background(), tokens)
		require.False(t, res.Subject.IsAuthenticated())
	}
	require.Equal(t, 3, hits)

	res := svc.ResolveCaller(context.Background(), tokens)

	assert.Equal(t, access.Anonymous(), res.Subject)
	assert.False(t, res.ClearSession)
	assert.Nil(t, res.Refreshed)
	assert.Equal(t, 3, hits)
	profiles.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}
