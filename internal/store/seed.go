// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/auth"
	"github.com/olegiv/airdrops-hunter/internal/model"
)

// defaultAdminPassword mirrors config.DefaultAdminPassword; store cannot
// import config without an import cycle.
const defaultAdminPassword = "admin123"

// SeedOptions controls initial data creation.
type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	// Demo inserts the sample catalog when no airdrops exist yet.
	Demo bool
}

// Seed ensures the bootstrap admin exists and optionally loads demo content.
func Seed(ctx context.Context, s Store, opts SeedOptions) error {
	admin, err := seedAdmin(ctx, s, opts)
	if err != nil {
		return err
	}

	if !opts.Demo {
		return nil
	}

	existing, err := s.Airdrops(ctx)
	if err != nil {
		return fmt.Errorf("checking airdrops: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("catalog already populated, skipping demo seed", "airdrops", len(existing))
		return nil
	}

	now := time.Now().UTC()
	for _, in := range demoAirdrops(now) {
		if _, err := s.CreateAirdrop(ctx, in); err != nil {
			return fmt.Errorf("creating demo airdrop %q: %w", in.Title, err)
		}
	}
	for _, in := range demoBlogPosts(admin.ID) {
		if _, err := s.CreateBlogPost(ctx, in); err != nil {
			return fmt.Errorf("creating demo blog post %q: %w", in.Title, err)
		}
	}

	slog.Info("seeded demo catalog", "airdrops", 6, "blog_posts", 3)
	return nil
}

func seedAdmin(ctx context.Context, s Store, opts SeedOptions) (model.User, error) {
	existing, ok, err := s.UserByUsername(ctx, opts.AdminUsername)
	if err != nil {
		return model.User{}, fmt.Errorf("checking for admin user: %w", err)
	}
	if ok {
		slog.Info("admin user already exists, skipping seed")
		return existing, nil
	}

	passwordHash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.CreateUser(ctx, model.NewUser{
		Username:     opts.AdminUsername,
		Email:        opts.AdminEmail,
		PasswordHash: passwordHash,
		IsAdmin:      true,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created bootstrap admin user", "id", user.ID, "username", user.Username)
	if opts.AdminPassword == defaultAdminPassword {
		slog.Warn("bootstrap admin uses the default password; set AH_ADMIN_PASSWORD")
	}
	return user, nil
}

func ptr[T any](v T) *T { return &v }

func day(s string) *time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return &t
}

func demoAirdrops(now time.Time) []model.NewAirdrop {
	inDays := func(n int) *time.Time {
		t := now.Add(time.Duration(n) * 24 * time.Hour)
		return &t
	}

	return []model.NewAirdrop{
		{
			Title:          "MoonToken Airdrop",
			ProjectName:    "MoonToken",
			Description:    "Participate in MoonToken's community airdrop and earn up to 500 MOON tokens.",
			Requirements:   ptr("Complete social media tasks and join Telegram group."),
			Category:       "DeFi",
			EstimatedValue: "$50-$200",
			Status:         model.StatusEndingSoon,
			Participants:   10543,
			CoverImageURL:  ptr("https://images.unsplash.com/photo-1639322537228-f710d846310a?auto=format&fit=crop&w=600&h=300"),
			StartDate:      day("2023-06-01"),
			EndDate:        inDays(3),
		},
		{
			Title:          "NexusChain Airdrop",
			ProjectName:    "NexusChain",
			Description:    "Complete simple tasks to qualify for the NexusChain governance token distribution.",
			Requirements:   ptr("Trade on the platform, refer friends, and hold NXS tokens."),
			Category:       "Layer 2",
			EstimatedValue: "$100-$500",
			Status:         model.StatusActive,
			Participants:   25129,
			CoverImageURL:  ptr("https://images.unsplash.com/photo-1551135049-8a33b5883817?auto=format&fit=crop&w=600&h=300"),
			StartDate:      day("2023-06-10"),
			EndDate:        inDays(60),
		},
		{
			Title:          "CryptoSwap Airdrop",
			ProjectName:    "CryptoSwap",
			Description:    "Early users of CryptoSwap DEX will receive SWAP tokens based on trading volume.",
			Requirements:   ptr("Create an account, complete KYC, and perform at least 3 trades."),
			Category:       "Exchange",
			EstimatedValue: "$75-$300",
			Status:         model.StatusUpcoming,
			Participants:   8742,
			CoverImageURL:  ptr("https://images.unsplash.com/photo-1518546305927-5a555bb7020d?auto=format&fit=crop&w=600&h=300"),
			StartDate:      inDays(7),
			EndDate:        inDays(30),
		},
		{
			Title:          "MetaWorld Airdrop",
			ProjectName:    "MetaWorld",
			Description:    "Join the MetaWorld virtual reality platform and claim your META governance tokens.",
			Requirements:   ptr("Create a MetaWorld account, visit 3 virtual locations, and invite 2 friends."),
			Category:       "Metaverse",
			EstimatedValue: "$150-$400",
			Status:         model.StatusEndingSoon,
			Participants:   15321,
			CoverImageURL:  ptr("https://images.unsplash.com/photo-1614064641938-3bbee52942c7?auto=format&fit=crop&w=600&h=300"),
			StartDate:      day("2023-06-05"),
			EndDate:        inDays(5),
		},
		{
			Title:          "DeFiChain Airdrop",
			ProjectName:    "DeFiChain",
			Description:    "Stake your assets on DeFiChain to qualify for their upcoming governance token airdrop.",
			Requirements:   ptr("Stake at least $100 worth of assets for 30 days, and participate in governance voting."),
			Category:       "DeFi",
			EstimatedValue: "$200-$600",
			Status:         model.StatusActive,
			Participants:   32874,
			StartDate:      day("2023-06-15"),
			EndDate:        inDays(90),
		},
		{
			Title:          "GameFi Airdrop",
			ProjectName:    "GameFi",
			Description:    "Try GameFi's play-to-earn platform and receive GAME tokens based on gameplay.",
			Requirements:   ptr("Create a GameFi account, complete the tutorial, and play at least 5 games."),
			Category:       "Gaming",
			EstimatedValue: "$50-$250",
			Status:         model.StatusUpcoming,
			Participants:   12638,
			CoverImageURL:  ptr("https://images.unsplash.com/photo-1579547621113-e4bb2a19bdd6?auto=format&fit=crop&w=600&h=300"),
			StartDate:      inDays(10),
			EndDate:        inDays(40),
		},
	}
}

func demoBlogPosts(authorID int64) []model.NewBlogPost {
	return []model.NewBlogPost{
		{
			Title:       "Top 5 Airdrops Coming in 2023",
			Content:     "Explore the most anticipated crypto airdrops of 2023 and how to prepare for them.",
			Category:    "Guide",
			ImageURL:    ptr("https://images.unsplash.com/photo-1640340434855-6084b1f4901c?auto=format&fit=crop&w=600&h=400"),
			AuthorID:    ptr(authorID),
			Tags:        ptr("airdrops,guide,2023,crypto"),
			PublishedAt: day("2023-06-15"),
		},
		{
			Title:       "How to Maximize Your Airdrop Rewards",
			Content:     "Learn proven strategies to increase your chances of qualifying for high-value airdrops.",
			Category:    "Strategy",
			ImageURL:    ptr("https://images.unsplash.com/photo-1605792657660-596af9009e82?auto=format&fit=crop&w=600&h=400"),
			AuthorID:    ptr(authorID),
			Tags:        ptr("strategy,rewards,maximize,tips"),
			PublishedAt: day("2023-06-10"),
		},
		{
			Title:       "Security Tips for Airdrop Participants",
			Content:     "Protect yourself from scams and stay safe while hunting for legitimate crypto airdrops.",
			Category:    "Security",
			AuthorID:    ptr(authorID),
			Tags:        ptr("security,scams,protection,safety"),
			PublishedAt: day("2023-06-05"),
		},
	}
}
