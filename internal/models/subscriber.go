package models

import "time"

// SubscribeRequest is the waitlist sign-up payload
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// SubscribeResponse is returned for new and repeated subscriptions alike
type SubscribeResponse struct {
	Success           bool   `json:"success"`
	AlreadySubscribed bool   `json:"alreadySubscribed"`
	Message           string `json:"message"`
}

// Subscriber is an email_subscribers row
type Subscriber struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}
