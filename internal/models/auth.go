package models

// LoginRequest is the payload for signing in with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// SignupRequest is the payload for creating an account
type SignupRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// AuthResponse is returned by login and signup
type AuthResponse struct {
	Success    bool   `json:"success"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// MagicLinkSentResponse is returned after a one-time sign-in link was emailed
type MagicLinkSentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionTokens is the token pair stored in the session cookies
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds, 0 if unknown
	ExpiresIn int
}
