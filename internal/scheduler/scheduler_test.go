// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/store"
)

func addAirdrop(t *testing.T, st store.Store, title, status string, end *time.Time) model.Airdrop {
	t.Helper()
	a, err := st.CreateAirdrop(context.Background(), model.NewAirdrop{
		Title:          title,
		ProjectName:    "Project",
		Description:    "A test airdrop listing",
		Category:       "DeFi",
		EstimatedValue: "$100",
		Status:         status,
		EndDate:        end,
	})
	require.NoError(t, err)
	return a
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := addAirdrop(t, st, "Expired", model.StatusActive, &past)
	endingSoon := addAirdrop(t, st, "Ending", model.StatusEndingSoon, &past)
	running := addAirdrop(t, st, "Running", model.StatusActive, &future)
	open := addAirdrop(t, st, "Open", model.StatusUpcoming, nil)
	done := addAirdrop(t, st, "Done", model.StatusCompleted, &past)

	changes := 0
	s := New(st, DefaultSweepSchedule, slog.Default(), func(context.Context) { changes++ })
	s.now = func() time.Time { return now }

	n, err := s.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, changes)

	want := map[int64]string{
		expired.ID:    model.StatusCompleted,
		endingSoon.ID: model.StatusCompleted,
		running.ID:    model.StatusActive,
		open.ID:       model.StatusUpcoming,
		done.ID:       model.StatusCompleted,
	}
	for id, status := range want {
		a, ok, err := st.AirdropByID(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, status, a.Status, "airdrop %d", id)
	}

	// A second sweep finds nothing and does not notify.
	n, err = s.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, changes)
}

// extendingStore moves an end date into the future right after the sweep
// reads the listing, as an admin edit would.
type extendingStore struct {
	store.Store
	id     int64
	newEnd time.Time
}

func (s *extendingStore) Airdrops(ctx context.Context) ([]model.Airdrop, error) {
	list, err := s.Store.Airdrops(ctx)
	if err != nil {
		return nil, err
	}
	_, _, err = s.UpdateAirdrop(ctx, s.id, model.AirdropPatch{EndDate: model.Some(s.newEnd)})
	return list, err
}

func TestSweepExpired_EndDateExtendedAfterListing(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	extended := addAirdrop(t, mem, "Extended", model.StatusActive, &past)
	expired := addAirdrop(t, mem, "Expired", model.StatusActive, &past)

	st := &extendingStore{Store: mem, id: extended.ID, newEnd: now.Add(7 * 24 * time.Hour)}
	s := New(st, DefaultSweepSchedule, slog.Default(), nil)
	s.now = func() time.Time { return now }

	n, err := s.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, _, err := mem.AirdropByID(ctx, extended.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, a.Status)

	a, _, err = mem.AirdropByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, a.Status)
}

func TestSweepExpired_SeededCatalogStaysOpen(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, store.Seed(ctx, st, store.SeedOptions{
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-password",
		Demo:          true,
	}))

	s := New(st, DefaultSweepSchedule, slog.Default(), nil)
	n, err := s.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	active, err := st.AirdropsByStatus(ctx, model.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule(""))
	assert.NoError(t, ValidateSchedule(DefaultSweepSchedule))
	assert.NoError(t, ValidateSchedule("@hourly"))
	assert.Error(t, ValidateSchedule("every minute"))
	assert.Error(t, ValidateSchedule("* * *"))
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(store.NewMemoryStore(), DefaultSweepSchedule, nil, nil)

	require.NoError(t, s.Start())
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, DefaultSweepSchedule, jobs[0].Schedule)
	assert.False(t, jobs[0].NextRun.IsZero())

	s.Stop()
	assert.Nil(t, s.Jobs())
}

func TestScheduler_Disabled(t *testing.T) {
	s := New(store.NewMemoryStore(), "", nil, nil)
	require.NoError(t, s.Start())
	assert.Nil(t, s.Jobs())
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(store.NewMemoryStore(), "not a schedule", nil, nil)
	assert.Error(t, s.Start())
}
