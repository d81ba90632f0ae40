package models

import "time"

// FormType names the form a magic link opens
type FormType string

const (
	FormTypeQuestions   FormType = "questions"
	FormTypeSuggestions FormType = "suggestions"
)

// Destination is the protected page the form type lands on.
// Anything other than questions lands on suggestions.
func (f FormType) Destination() string {
	if f == FormTypeQuestions {
		return "/protected/questions"
	}
	return "/protected/suggestions"
}

// MagicLink is a stored magic_links row
type MagicLink struct {
	Token     string
	UserID    string
	FormType  FormType
	ExpiresAt time.Time
	CreatedAt time.Time
}

// MagicLinkGrant is what a valid, unexpired magic link authorizes
type MagicLinkGrant struct {
	UserID    string    `json:"userId"`
	FormType  FormType  `json:"formType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
