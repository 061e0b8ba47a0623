// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook delivers signed event notifications to an external HTTP
// endpoint.
package webhook

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventContactCreated       = "contact.created"
	EventNewsletterSubscribed = "newsletter.subscribed"
	EventUserRegistered       = "user.registered"
)

// Event is the JSON body posted to the endpoint.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates an event with a fresh delivery id.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ContactEventData is sent with contact.created.
type ContactEventData struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Subject   string      `json:"subject"`
	CreatedAt time.Time   `json:"createdAt"`
	Client    *ClientInfo `json:"client,omitempty"`
}

// NewsletterEventData is sent with newsletter.subscribed.
type NewsletterEventData struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Interests *string     `json:"interests"`
	CreatedAt time.Time   `json:"createdAt"`
	Client    *ClientInfo `json:"client,omitempty"`
}

// UserEventData is sent with user.registered.
type UserEventData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}
