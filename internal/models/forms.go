package models

import "time"

// FeedbackRequest carries answers to the feedback questions, keyed by question id
type FeedbackRequest struct {
	Answers map[string]string `json:"answers" binding:"required,max=20,dive,keys,max=50,endkeys,max=5000"`
}

// StandupRequest carries a standup entry, keyed by question id
type StandupRequest struct {
	Answers map[string]string `json:"answers" binding:"required,max=20,dive,keys,max=50,endkeys,max=5000"`
}

// SuggestionRequest is a free-form product suggestion
type SuggestionRequest struct {
	Suggestion string `json:"suggestion" binding:"max=5000"`
	Category   string `json:"category" binding:"omitempty,oneof=feature improvement bug other"`
}

// SubmissionResponse is returned after any form submission
type SubmissionResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// Submission is a stored form row
type Submission struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
}

// QuestionType is how a question is answered
type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionNumber QuestionType = "number"
	QuestionSelect QuestionType = "select"
)

// Question describes one form field
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required"`
}

// TaskStatuses are the accepted standup task_status answers
var TaskStatuses = []string{"Not Started", "In Progress", "Blocked", "Ready for Review", "Completed"}

// FeedbackQuestions is the feedback form
var FeedbackQuestions = []Question{
	{ID: "q1", Text: "How satisfied are you with our service?", Type: QuestionSelect,
		Options: []string{"Very Satisfied", "Satisfied", "Neutral", "Dissatisfied"}},
	{ID: "q2", Text: "What improvements would you suggest?", Type: QuestionText},
	{ID: "q3", Text: "How many times have you used our service?", Type: QuestionNumber},
}

// StandupQuestions is the daily standup form
var StandupQuestions = []Question{
	{ID: "accomplished", Text: "What did you accomplish today?", Type: QuestionText,
		Placeholder: "Describe the tasks you completed today...", Required: true},
	{ID: "working_on", Text: "What are you planning to work on next?", Type: QuestionText,
		Placeholder: "Describe your upcoming tasks or focus areas...", Required: true},
	{ID: "blockers", Text: "Are you facing any obstacles or blockers?", Type: QuestionText,
		Placeholder: "Describe any issues preventing you from making progress..."},
	{ID: "time_spent", Text: "How many hours did you work on your main task today?", Type: QuestionNumber,
		Placeholder: "Enter hours"},
	{ID: "task_status", Text: "What's the status of your current primary task?", Type: QuestionSelect,
		Options: TaskStatuses, Required: true},
	{ID: "need_help", Text: "Do you need help from any team members?", Type: QuestionText,
		Placeholder: "Mention specific team members and topics you need assistance with..."},
	{ID: "additional_notes", Text: "Any additional notes for the team?", Type: QuestionText,
		Placeholder: "Share any other information that might be relevant..."},
}

// SuggestionCategories are the accepted suggestion categories
var SuggestionCategories = []string{"feature", "improvement", "bug", "other"}
