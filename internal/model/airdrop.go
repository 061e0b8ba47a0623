// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Airdrop statuses used by the catalog UI. The store accepts any string.
const (
	StatusActive     = "Active"
	StatusUpcoming   = "Upcoming"
	StatusEndingSoon = "Ending Soon"
	StatusCompleted  = "Completed"
)

// Airdrop is a cataloged token distribution campaign.
type Airdrop struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	ProjectName    string     `json:"projectName"`
	Description    string     `json:"description"`
	Requirements   *string    `json:"requirements"`
	Category       string     `json:"category"`
	EstimatedValue string     `json:"estimatedValue"`
	Status         string     `json:"status"`
	Participants   int64      `json:"participants"`
	LogoURL        *string    `json:"logoUrl"`
	CoverImageURL  *string    `json:"coverImageUrl"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Ended reports whether a is past its end date at now and not yet
// Completed.
func (a Airdrop) Ended(now time.Time) bool {
	return a.EndDate != nil && a.EndDate.Before(now) && a.Status != StatusCompleted
}

// NewAirdrop holds the fields for creating an airdrop. Nil optionals are
// stored as null.
type NewAirdrop struct {
	Title          string
	ProjectName    string
	Description    string
	Requirements   *string
	Category       string
	EstimatedValue string
	Status         string
	Participants   int64
	LogoURL        *string
	CoverImageURL  *string
	StartDate      *time.Time
	EndDate        *time.Time
}

// Build turns the input into a record with the given id and creation time.
func (n NewAirdrop) Build(id int64, createdAt time.Time) Airdrop {
	return Airdrop{
		ID:             id,
		Title:          n.Title,
		ProjectName:    n.ProjectName,
		Description:    n.Description,
		Requirements:   n.Requirements,
		Category:       n.Category,
		EstimatedValue: n.EstimatedValue,
		Status:         n.Status,
		Participants:   n.Participants,
		LogoURL:        n.LogoURL,
		CoverImageURL:  n.CoverImageURL,
		StartDate:      n.StartDate,
		EndDate:        n.EndDate,
		CreatedAt:      createdAt,
	}
}

// AirdropPatch is a sparse set of field assignments for an airdrop.
type AirdropPatch struct {
	Title          *string
	ProjectName    *string
	Description    *string
	Requirements   Nullable[string]
	Category       *string
	EstimatedValue *string
	Status         *string
	Participants   *int64
	LogoURL        Nullable[string]
	CoverImageURL  Nullable[string]
	StartDate      Nullable[time.Time]
	EndDate        Nullable[time.Time]
}

// Apply returns a copy of a with the patched fields overwritten.
// ID and CreatedAt are never changed.
func (p AirdropPatch) Apply(a Airdrop) Airdrop {
	setIf(p.Title, &a.Title)
	setIf(p.ProjectName, &a.ProjectName)
	setIf(p.Description, &a.Description)
	p.Requirements.applyTo(&a.Requirements)
	setIf(p.Category, &a.Category)
	setIf(p.EstimatedValue, &a.EstimatedValue)
	setIf(p.Status, &a.Status)
	setIf(p.Participants, &a.Participants)
	p.LogoURL.applyTo(&a.LogoURL)
	p.CoverImageURL.applyTo(&a.CoverImageURL)
	p.StartDate.applyTo(&a.StartDate)
	p.EndDate.applyTo(&a.EndDate)
	return a
}

// IsEmpty reports whether the patch assigns no fields.
func (p AirdropPatch) IsEmpty() bool {
	return p.Title == nil && p.ProjectName == nil && p.Description == nil &&
		!p.Requirements.Set && p.Category == nil && p.EstimatedValue == nil &&
		p.Status == nil && p.Participants == nil && !p.LogoURL.Set &&
		!p.CoverImageURL.Set && !p.StartDate.Set && !p.EndDate.Set
}
