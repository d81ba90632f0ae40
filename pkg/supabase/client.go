package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/notethatdown/notethatdown-api/pkg/circuitbreaker"
	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"github.com/notethatdown/notethatdown-api/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	authPath     = "/auth/v1"
	maxErrorBody = 64 << 10
	breakerName  = "supabase_auth"
)

// User is the identity provider's view of a signed-in account
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

// Session is a token pair issued by sign-in or refresh
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// APIError is a non-2xx answer from the auth API
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase auth: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase auth: %d: %s", e.Status, e.Message)
}

// IsClientError reports whether err is an APIError with a 4xx status,
// i.e. the credentials or token were rejected rather than the call failing.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// Client talks to the managed backend's auth REST API with circuit breaker protection
type Client struct {
	baseURL        string
	anonKey        string
	httpClient     httpclient.Client
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewClient creates an auth client for projectURL (e.g. https://xyz.supabase.co)
func NewClient(projectURL, anonKey string, httpClient httpclient.Client) *Client {
	return NewClientWithBreaker(projectURL, anonKey, httpClient, circuitbreaker.DefaultConfig(breakerName))
}

// NewClientWithBreaker is NewClient with explicit breaker settings. Rejected credentials and
// tokens (4xx) count as healthy calls; only outages trip the breaker.
func NewClientWithBreaker(projectURL, anonKey string, httpClient httpclient.Client, cbConfig circuitbreaker.Config) *Client {
	cbConfig.IsSuccessful = func(err error) bool {
		return err == nil || IsClientError(err)
	}

	return &Client{
		baseURL:        projectURL + authPath,
		anonKey:        anonKey,
		httpClient:     httpClient,
		circuitBreaker: circuitbreaker.New(cbConfig),
	}
}

// GetUser returns the user the access token belongs to
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, "getUser", http.MethodGet, "/user", nil, nil, accessToken, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "no user for access token"}
	}
	return &user, nil
}

// SignInWithPassword exchanges credentials for a session
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	query := url.Values{"grant_type": {"password"}}

	var session Session
	if err := c.do(ctx, "signInWithPassword", http.MethodPost, "/token", query, body, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshSession exchanges a refresh token for a new session
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	query := url.Values{"grant_type": {"refresh_token"}}

	var session Session
	if err := c.do(ctx, "refreshSession", http.MethodPost, "/token", query, body, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers an account; the provider emails a confirmation link pointing at redirectTo
func (c *Client) SignUp(ctx context.Context, email, password, redirectTo string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, "signUp", http.MethodPost, "/signup", redirectQuery(redirectTo), body, "", nil)
}

// SignOut revokes the session behind accessToken
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, "signOut", http.MethodPost, "/logout", nil, nil, accessToken, nil)
}

// SignInWithOTP emails a one-time sign-in link that lands on redirectTo
func (c *Client) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	body := map[string]interface{}{"email": email, "create_user": true}
	return c.do(ctx, "signInWithOtp", http.MethodPost, "/otp", redirectQuery(redirectTo), body, "", nil)
}

func redirectQuery(redirectTo string) url.Values {
	if redirectTo == "" {
		return nil
	}
	return url.Values{"redirect_to": {redirectTo}}
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body interface{}, bearer string, out interface{}) (err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "supabase.auth."+operation, attribute.String("http.method", method))
	defer func() {
		status := "success"
		switch {
		case err == nil:
		case IsClientError(err):
			status = "rejected"
		case circuitbreaker.IsOpen(err):
			status = "circuit_open"
		default:
			status = "error"
		}
		duration := metrics.MeasureDuration(start)
		metrics.IdentityRequestDuration.WithLabelValues(operation, status).Observe(duration)
		metrics.IdentityRequestTotal.WithLabelValues(operation, status).Inc()
		if status == "error" || status == "circuit_open" {
			logger.LogAPICall(ctx, "supabase_auth", operation, status, duration, zap.Error(err))
		} else {
			logger.LogAPICall(ctx, "supabase_auth", operation, status, duration)
		}
		tracing.EndSpan(span, err)
	}()

	return circuitbreaker.Run(c.circuitBreaker, func() error {
		return c.send(ctx, operation, method, path, query, body, bearer, out)
	})
}

func (c *Client) send(ctx context.Context, operation, method, path string, query url.Values, body interface{}, bearer string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode %s request: %w", operation, marshalErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// errorBody covers both error shapes the auth API has used over time
type errorBody struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		apiErr.Code = firstNonEmpty(eb.ErrorCode, eb.Error)
		apiErr.Message = firstNonEmpty(eb.Msg, eb.Message, eb.ErrorDescription)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
