// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// NewsletterSubscription is an append-only signup record.
type NewsletterSubscription struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Interests *string   `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSubscription holds the fields for a newsletter signup.
type NewSubscription struct {
	Email     string
	Interests *string
}

// ContactMessage is an append-only message from the contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewContactMessage holds the fields for a contact message.
type NewContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}
