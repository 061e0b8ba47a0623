// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"strings"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// AirdropRequest is the create payload for an airdrop.
type AirdropRequest struct {
	Title          string  `json:"title" validate:"min=3,max=255"`
	ProjectName    string  `json:"projectName" validate:"min=2,max=255"`
	Description    string  `json:"description" validate:"min=10"`
	Requirements   *string `json:"requirements,omitempty"`
	Category       string  `json:"category" validate:"required,max=191"`
	EstimatedValue string  `json:"estimatedValue" validate:"required,max=191"`
	Status         string  `json:"status" validate:"required,max=64"`
	Participants   *Count  `json:"participants,omitempty" validate:"omitempty,count"`
	LogoURL        *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	CoverImageURL  *string `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	StartDate      *string `json:"startDate,omitempty" validate:"omitempty,date"`
	EndDate        *string `json:"endDate,omitempty" validate:"omitempty,date"`
}

// Input converts a validated request into a store input.
func (r AirdropRequest) Input() model.NewAirdrop {
	in := model.NewAirdrop{
		Title:          r.Title,
		ProjectName:    r.ProjectName,
		Description:    r.Description,
		Requirements:   r.Requirements,
		Category:       r.Category,
		EstimatedValue: r.EstimatedValue,
		Status:         r.Status,
		LogoURL:        blankToNil(r.LogoURL),
		CoverImageURL:  blankToNil(r.CoverImageURL),
		StartDate:      datePtr(r.StartDate),
		EndDate:        datePtr(r.EndDate),
	}
	if r.Participants != nil {
		in.Participants = r.Participants.Int64()
	}
	return in
}

// AirdropPatchRequest is the partial update payload for an airdrop. Only
// fields present in the JSON body are checked and applied.
type AirdropPatchRequest struct {
	Title          *string                `json:"title,omitempty" validate:"omitnil,min=3,max=255"`
	ProjectName    *string                `json:"projectName,omitempty" validate:"omitnil,min=2,max=255"`
	Description    *string                `json:"description,omitempty" validate:"omitnil,min=10"`
	Requirements   model.Nullable[string] `json:"requirements,omitzero"`
	Category       *string                `json:"category,omitempty" validate:"omitnil,required,max=191"`
	EstimatedValue *string                `json:"estimatedValue,omitempty" validate:"omitnil,required,max=191"`
	Status         *string                `json:"status,omitempty" validate:"omitnil,required,max=64"`
	Participants   *Count                 `json:"participants,omitempty" validate:"omitempty,count"`
	LogoURL        model.Nullable[string] `json:"logoUrl,omitzero" validate:"omitempty,url"`
	CoverImageURL  model.Nullable[string] `json:"coverImageUrl,omitzero" validate:"omitempty,url"`
	StartDate      model.Nullable[string] `json:"startDate,omitzero" validate:"omitempty,date"`
	EndDate        model.Nullable[string] `json:"endDate,omitzero" validate:"omitempty,date"`
}

// Patch converts a validated request into a store patch.
func (r AirdropPatchRequest) Patch() model.AirdropPatch {
	p := model.AirdropPatch{
		Title:          r.Title,
		ProjectName:    r.ProjectName,
		Description:    r.Description,
		Requirements:   r.Requirements,
		Category:       r.Category,
		EstimatedValue: r.EstimatedValue,
		Status:         r.Status,
		LogoURL:        nullableBlank(r.LogoURL),
		CoverImageURL:  nullableBlank(r.CoverImageURL),
		StartDate:      nullableDate(r.StartDate),
		EndDate:        nullableDate(r.EndDate),
	}
	if r.Participants != nil {
		n := r.Participants.Int64()
		p.Participants = &n
	}
	return p
}

// BlogPostRequest is the create payload for a blog post.
type BlogPostRequest struct {
	Title       string  `json:"title" validate:"min=3,max=255"`
	Content     string  `json:"content" validate:"min=10"`
	Category    string  `json:"category" validate:"required,max=191"`
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	AuthorID    *int64  `json:"authorId,omitempty" validate:"omitnil,gte=1"`
	Tags        *string `json:"tags,omitempty"`
	PublishedAt *string `json:"publishedAt,omitempty" validate:"omitempty,date"`
}

// Input converts a validated request into a store input.
func (r BlogPostRequest) Input() model.NewBlogPost {
	return model.NewBlogPost{
		Title:       r.Title,
		Content:     r.Content,
		Category:    r.Category,
		ImageURL:    blankToNil(r.ImageURL),
		AuthorID:    r.AuthorID,
		Tags:        r.Tags,
		PublishedAt: datePtr(r.PublishedAt),
	}
}

// BlogPostPatchRequest is the partial update payload for a blog post.
type BlogPostPatchRequest struct {
	Title       *string                `json:"title,omitempty" validate:"omitnil,min=3,max=255"`
	Content     *string                `json:"content,omitempty" validate:"omitnil,min=10"`
	Category    *string                `json:"category,omitempty" validate:"omitnil,required,max=191"`
	ImageURL    model.Nullable[string] `json:"imageUrl,omitzero" validate:"omitempty,url"`
	AuthorID    model.Nullable[int64]  `json:"authorId,omitzero" validate:"omitempty,gte=1"`
	Tags        model.Nullable[string] `json:"tags,omitzero"`
	PublishedAt *string                `json:"publishedAt,omitempty" validate:"omitnil,date"`
}

// Patch converts a validated request into a store patch.
func (r BlogPostPatchRequest) Patch() model.BlogPostPatch {
	return model.BlogPostPatch{
		Title:       r.Title,
		Content:     r.Content,
		Category:    r.Category,
		ImageURL:    nullableBlank(r.ImageURL),
		AuthorID:    r.AuthorID,
		Tags:        r.Tags,
		PublishedAt: datePtr(r.PublishedAt),
	}
}

// RegisterRequest is the server-side registration payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"min=3,max=191"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"min=6"`
	IsAdmin  bool   `json:"isAdmin"`
}

// RegisterForm adds the confirmation field checked by clients before
// sending a RegisterRequest.
type RegisterForm struct {
	Username        string `json:"username" validate:"min=3,max=191"`
	Email           string `json:"email" validate:"required,email,max=191"`
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// Request drops the confirmation field.
func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewsletterRequest is the newsletter signup payload.
type NewsletterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Interests *string `json:"interests,omitempty"`
}

// Input converts a validated request into a store input.
func (r NewsletterRequest) Input() model.NewSubscription {
	return model.NewSubscription{Email: r.Email, Interests: r.Interests}
}

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Name    string `json:"name" validate:"min=2,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"min=10"`
}

// Input converts a validated request into a store input.
func (r ContactRequest) Input() model.NewContactMessage {
	return model.NewContactMessage{Name: r.Name, Email: r.Email, Subject: r.Subject, Message: r.Message}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func datePtr(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}

// nullableBlank treats an empty string as an explicit clear.
func nullableBlank(n model.Nullable[string]) model.Nullable[string] {
	if n.Set && n.Value != nil && strings.TrimSpace(*n.Value) == "" {
		return model.Null[string]()
	}
	return n
}

func nullableDate(n model.Nullable[string]) model.Nullable[time.Time] {
	if !n.Set {
		return model.Nullable[time.Time]{}
	}
	t := datePtr(n.Value)
	if t == nil {
		return model.Null[time.Time]()
	}
	return model.Some(*t)
}
