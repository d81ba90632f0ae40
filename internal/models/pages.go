package models

import "time"

// LandingPage is served at /
type LandingPage struct {
	DefaultTab      string `json:"defaultTab"`
	DeveloperAccess bool   `json:"developerAccess"`
}

// LoginPage is served at /login
type LoginPage struct {
	DefaultTab string `json:"defaultTab"`
	Error      string `json:"error,omitempty"`
}

// ComingSoonPage is served at /coming-soon
type ComingSoonPage struct {
	Title        string `json:"title"`
	Tagline      string `json:"tagline"`
	PreviewImage string `json:"previewImage"`
}

// PageLink is a navigation entry on the dashboard
type PageLink struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// DashboardPage is served at /protected
type DashboardPage struct {
	Email string     `json:"email"`
	Links []PageLink `json:"links"`
}

// ProfilePage is served at /protected/profile
type ProfilePage struct {
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}

// OnboardingPage is served at /protected/onboarding
type OnboardingPage struct {
	Email    string `json:"email"`
	FormPath string `json:"formPath"`
}

// QuestionsPage is served at /protected/questions
type QuestionsPage struct {
	Feedback []Question `json:"feedback"`
	Standup  []Question `json:"standup"`
}

// SuggestionsPage is served at /protected/suggestions
type SuggestionsPage struct {
	Categories []string `json:"categories"`
}
