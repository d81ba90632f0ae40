package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFormService() (*services.FormService, *MockSubmissionStore) {
	store := new(MockSubmissionStore)
	return services.NewFormService(store, testConfig(), httpclient.NewStandardClient(time.Second)), store
}

func TestSubmitFeedback(t *testing.T) {
	svc, store := newFormService()
	store.On("CreateFeedback", mock.Anything, testUserID, map[string]string{"q1": "Satisfied", "q3": "4"}).
		Return(&models.Submission{ID: 1, UserID: testUserID}, nil)

	err := svc.SubmitFeedback(context.Background(), testUserID, &models.FeedbackRequest{
		Answers: map[string]string{"q1": " Satisfied ", "q2": "   ", "q3": "4"},
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSubmitFeedback_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		answers   map[string]string
		wantField string
	}{
		{name: "unknown question", answers: map[string]string{"q9": "hello"}, wantField: "q9"},
		{name: "all blank", answers: map[string]string{"q1": "", "q2": " "}, wantField: "answers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newFormService()

			err := svc.SubmitFeedback(context.Background(), testUserID, &models.FeedbackRequest{Answers: tt.answers})

			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			store.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func validStandup() map[string]string {
	return map[string]string{
		"accomplished": "Shipped the export job",
		"working_on":   "Dashboard filters",
		"task_status":  "In Progress",
		"time_spent":   "6.5",
	}
}

func TestSubmitStandup(t *testing.T) {
	svc, store := newFormService()
	store.On("CreateStandupEntry", mock.Anything, testUserID, validStandup(), mock.AnythingOfType("time.Time")).
		Return(&models.Submission{ID: 3, UserID: testUserID, CreatedAt: time.Now()}, nil)

	err := svc.SubmitStandup(context.Background(), testUserID, &models.StandupRequest{Answers: validStandup()})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSubmitStandup_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]string)
		wantField string
	}{
		{name: "missing accomplished", mutate: func(a map[string]string) { delete(a, "accomplished") }, wantField: "accomplished"},
		{name: "blank working_on", mutate: func(a map[string]string) { a["working_on"] = "  " }, wantField: "working_on"},
		{name: "unknown status", mutate: func(a map[string]string) { a["task_status"] = "Done-ish" }, wantField: "task_status"},
		{name: "hours not a number", mutate: func(a map[string]string) { a["time_spent"] = "lots" }, wantField: "time_spent"},
		{name: "hours out of range", mutate: func(a map[string]string) { a["time_spent"] = "25" }, wantField: "time_spent"},
		{name: "unknown question", mutate: func(a map[string]string) { a["mood"] = "great" }, wantField: "mood"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newFormService()
			answers := validStandup()
			tt.mutate(answers)

			err := svc.SubmitStandup(context.Background(), testUserID, &models.StandupRequest{Answers: answers})

			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			store.AssertNotCalled(t, "CreateStandupEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitSuggestion(t *testing.T) {
	svc, store := newFormService()
	store.On("CreateSuggestion", mock.Anything, testUserID, "Dark mode please", "feature").
		Return(&models.Submission{ID: 9}, nil)

	err := svc.SubmitSuggestion(context.Background(), testUserID, &models.SuggestionRequest{
		Suggestion: "  Dark mode please ",
		Category:   "feature",
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSubmitSuggestion_Blank(t *testing.T) {
	svc, store := newFormService()

	err := svc.SubmitSuggestion(context.Background(), testUserID, &models.SuggestionRequest{Suggestion: " \n\t "})

	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a suggestion before submitting.", verr.Message)
	store.AssertNotCalled(t, "CreateSuggestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSuggestion_StorageFailure(t *testing.T) {
	svc, store := newFormService()
	boom := errors.New("insert failed")
	store.On("CreateSuggestion", mock.Anything, testUserID, "More exports", "").Return(nil, boom)

	err := svc.SubmitSuggestion(context.Background(), testUserID, &models.SuggestionRequest{Suggestion: "More exports"})

	assert.ErrorIs(t, err, boom)
}
