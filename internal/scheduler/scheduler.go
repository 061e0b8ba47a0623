// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic catalog maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/airdrops-hunter/internal/store"
)

// DefaultSweepSchedule runs the status sweep every 15 minutes.
const DefaultSweepSchedule = "*/15 * * * *"

// JobInfo is the public view of the sweep job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	LastRun  time.Time `json:"lastRun,omitzero"`
	NextRun  time.Time `json:"nextRun,omitzero"`
}

// Scheduler marks airdrops whose end date has passed as completed.
type Scheduler struct {
	store    store.AirdropStore
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger

	// onChange runs after a sweep that updated at least one airdrop.
	onChange func(ctx context.Context)
	now      func() time.Time

	mu      sync.Mutex
	entryID cron.EntryID
	started bool
}

// New creates a scheduler. An empty schedule disables the sweep.
func New(st store.AirdropStore, schedule string, logger *slog.Logger, onChange func(ctx context.Context)) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:    st,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
		onChange: onChange,
		now:      time.Now,
	}
}

// ValidateSchedule reports whether spec is a valid five-field cron
// expression. An empty spec is valid and disables the sweep.
func ValidateSchedule(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Start registers the sweep job and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("airdrop status sweeper disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.SweepExpired(context.Background()); err != nil {
			s.logger.Error("airdrop status sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling status sweep: %w", err)
	}

	s.entryID = id
	s.started = true
	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()

	if !started {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Jobs lists the registered jobs.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	return []JobInfo{{
		Name:     "airdrop-status-sweep",
		Schedule: s.schedule,
		LastRun:  entry.Prev,
		NextRun:  entry.Next,
	}}
}

// SweepExpired sets status Completed on every airdrop whose end date is in
// the past and returns how many were updated. Each record is re-checked by
// the store, so an end date extended after the listing keeps it open.
func (s *Scheduler) SweepExpired(ctx context.Context) (int, error) {
	airdrops, err := s.store.Airdrops(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing airdrops: %w", err)
	}

	now := s.now()
	updated := 0

	for _, a := range airdrops {
		if !a.Ended(now) {
			continue
		}

		done, ok, err := s.store.CompleteAirdropIfEnded(ctx, a.ID, now)
		if err != nil {
			s.logger.Error("failed to complete expired airdrop",
				"airdrop_id", a.ID,
				"title", a.Title,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		updated++
		s.logger.Info("airdrop marked completed",
			"airdrop_id", done.ID,
			"title", done.Title,
			"end_date", done.EndDate.Format(time.RFC3339),
		)
	}

	if updated > 0 && s.onChange != nil {
		s.onChange(ctx)
	}
	return updated, nil
}
