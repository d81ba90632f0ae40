package models

// OnboardingRequest is the completed multi-step onboarding questionnaire
type OnboardingRequest struct {
	// Role
	JobTitle   string   `json:"jobTitle" binding:"required,max=200"`
	Department string   `json:"department" binding:"required,oneof=engineering design product marketing sales support other"`
	TaskTypes  []string `json:"taskTypes" binding:"max=7,dive,oneof=coding meetings documentation design customer_interaction analysis other"`

	// Work style
	Responsibilities   []string `json:"responsibilities" binding:"required,min=1,max=5,dive,max=500"`
	OrganizationMethod string   `json:"organizationMethod" binding:"required,oneof=to_do_lists calendar_blocks project_management other"`
	WorkStyle          string   `json:"workStyle" binding:"required,oneof=single_task multiple_tasks"`

	// Standups
	StandupFrequency      string `json:"standupFrequency" binding:"required,oneof=daily several_times_week weekly rarely"`
	ValuableInformation   string `json:"valuableInformation" binding:"max=2000"`
	BiggestChallenge      string `json:"biggestChallenge" binding:"max=2000"`
	CurrentTrackingMethod string `json:"currentTrackingMethod" binding:"max=2000"`

	// Goals
	ProfessionalGoals  []string `json:"professionalGoals" binding:"max=10,dive,max=500"`
	PerformanceMetrics []string `json:"performanceMetrics" binding:"max=10,dive,max=500"`

	// App preferences
	SignupReason  string `json:"signupReason" binding:"max=2000"`
	CheckinTime   string `json:"checkinTime" binding:"omitempty,datetime=15:04"`
	QuestionStyle string `json:"questionStyle" binding:"required,oneof=direct reflective"`
}

// DefaultCheckinTime is used when the questionnaire leaves the check-in time empty
const DefaultCheckinTime = "15:00"

// OnboardingProfile is a questionnaire ready to be written for one user
type OnboardingProfile struct {
	UserID string
	OnboardingRequest
}

// RedirectResponse tells the frontend where to go after a successful submission
type RedirectResponse struct {
	Success    bool   `json:"success"`
	RedirectTo string `json:"redirectTo"`
}
