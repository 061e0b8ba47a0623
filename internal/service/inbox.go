// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/store"
	"github.com/olegiv/airdrops-hunter/internal/webhook"
)

// Inbox records newsletter signups and contact messages.
type Inbox struct {
	store    store.InboxStore
	notifier Notifier
	logger   *slog.Logger
}

// NewInbox creates the inbox service. notifier may be nil.
func NewInbox(st store.InboxStore, notifier Notifier, logger *slog.Logger) *Inbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbox{store: st, notifier: notifier, logger: logger}
}

// Subscribe stores a newsletter signup. client describes the requester and
// may be nil.
func (s *Inbox) Subscribe(ctx context.Context, in model.NewSubscription, client *webhook.ClientInfo) (model.NewsletterSubscription, error) {
	sub, err := s.store.CreateSubscription(ctx, in)
	if err != nil {
		return model.NewsletterSubscription{}, err
	}
	s.logger.InfoContext(ctx, "newsletter subscription", "subscription_id", sub.ID)

	s.notify(ctx, webhook.EventNewsletterSubscribed, webhook.NewsletterEventData{
		ID:        sub.ID,
		Email:     sub.Email,
		Interests: sub.Interests,
		CreatedAt: sub.CreatedAt,
		Client:    client,
	})
	return sub, nil
}

// Contact stores a contact form message.
func (s *Inbox) Contact(ctx context.Context, in model.NewContactMessage, client *webhook.ClientInfo) (model.ContactMessage, error) {
	msg, err := s.store.CreateContactMessage(ctx, in)
	if err != nil {
		return model.ContactMessage{}, err
	}
	s.logger.InfoContext(ctx, "contact message received", "message_id", msg.ID, "subject", msg.Subject)

	s.notify(ctx, webhook.EventContactCreated, webhook.ContactEventData{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		CreatedAt: msg.CreatedAt,
		Client:    client,
	})
	return msg, nil
}

func (s *Inbox) notify(ctx context.Context, eventType string, data any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.DispatchEvent(ctx, eventType, data); err != nil {
		s.logger.WarnContext(ctx, "failed to queue webhook", "event", eventType, "error", err)
	}
}
