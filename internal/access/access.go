// Package access decides, from the path and who is asking, whether a page request
// may proceed or must be sent elsewhere.
package access

import "strings"

const (
	RootPath       = "/"
	ProtectedPath  = "/protected"
	OnboardingPath = "/protected/onboarding"
	ComingSoonPath = "/coming-soon"
)

// Subject is the caller as far as the gate is concerned
type Subject struct {
	authenticated bool
	UserID        string
	Email         string
	HasProfile    bool
}

// Anonymous is a caller without a usable session
func Anonymous() Subject {
	return Subject{}
}

// Authenticated is a signed-in caller; hasProfile reports whether onboarding is complete
func Authenticated(userID, email string, hasProfile bool) Subject {
	return Subject{authenticated: true, UserID: userID, Email: email, HasProfile: hasProfile}
}

// IsAuthenticated reports whether the subject has a session
func (s Subject) IsAuthenticated() bool {
	return s.authenticated
}

// Decision is the outcome for one request
type Decision struct {
	// Location is empty when the request passes through
	Location string
	// NoStore asks for the response to be marked uncacheable
	NoStore bool
}

// Redirects reports whether the caller must go to Location instead
func (d Decision) Redirects() bool {
	return d.Location != ""
}

// Label names the outcome for metrics and logs
func (d Decision) Label() string {
	if d.Redirects() {
		return "redirect"
	}
	if d.NoStore {
		return "pass_no_store"
	}
	return "pass"
}

// Decide applies the page access policy. Prefix checks are plain string prefixes,
// so /protectedx is treated like /protected.
func Decide(path string, subject Subject) Decision {
	protected := strings.HasPrefix(path, ProtectedPath)

	if !subject.IsAuthenticated() {
		if protected {
			return Decision{Location: RootPath}
		}
		return Decision{}
	}

	if path == RootPath {
		if subject.HasProfile {
			return Decision{Location: ProtectedPath}
		}
		return Decision{Location: OnboardingPath}
	}

	if !protected {
		return Decision{}
	}

	if !subject.HasProfile && !strings.HasPrefix(path, OnboardingPath) {
		return Decision{Location: OnboardingPath}
	}

	return Decision{NoStore: true}
}
