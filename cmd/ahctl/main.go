// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is ahctl, a command-line browser for the Airdrops Hunter
// catalog API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gosuri/uitable"
	"github.com/joho/godotenv"

	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/client"
	"github.com/olegiv/airdrops-hunter/internal/logging"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/validation"
)

const defaultServer = "http://localhost:5000"

// errUsage marks errors that should print the usage text.
var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(os.Stderr, "ahctl: %v\n", err)
		}
		os.Exit(1)
	}
}

// app holds the state shared by all commands.
type app struct {
	out    io.Writer
	client *client.Client
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"airdrops", "List airdrops [-status S] [-category C] [-search Q] [-sort value]", cmdAirdrops},
	{"featured", "Show featured airdrops [-filter F] [-limit N]", cmdFeatured},
	{"airdrop", "Show one airdrop: airdrop <id>", cmdAirdrop},
	{"posts", "List blog posts [-category C] [-search Q] [-recent]", cmdPosts},
	{"whoami", "Show the signed-in user", cmdWhoami},
	{"subscribe", "Subscribe to the newsletter: subscribe [-interests I] <email>", cmdSubscribe},
	{"contact", "Send a contact message -name N -email E -subject S -message M", cmdContact},
}

func usage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, "ahctl - Airdrops Hunter catalog client\n\n")
	_, _ = fmt.Fprintf(w, "Usage: ahctl [options] <command> [command options]\n\n")
	_, _ = fmt.Fprintf(w, "Options:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, "\nCommands:\n")
	table := uitable.New()
	table.Separator = "  "
	for _, c := range commands {
		table.AddRow("  "+c.name, c.summary)
	}
	_, _ = fmt.Fprintln(w, table)
	_, _ = fmt.Fprintf(w, "\nEnvironment Variables:\n")
	_, _ = fmt.Fprintf(w, "  AH_SERVER     API base URL (default: %s)\n", defaultServer)
	_, _ = fmt.Fprintf(w, "  AH_USER       Username to sign in with\n")
	_, _ = fmt.Fprintf(w, "  AH_PASSWORD   Password to sign in with\n")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ahctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	server := fs.String("server", envOr("AH_SERVER", defaultServer), "API base URL")
	user := fs.String("user", os.Getenv("AH_USER"), "Sign in as this user before running the command")
	password := fs.String("password", os.Getenv("AH_PASSWORD"), "Password for -user")
	verbose := fs.Bool("verbose", false, "Log client activity to stderr")
	timeout := fs.Duration("timeout", 30*time.Second, "Overall request timeout")

	if err := fs.Parse(args); err != nil {
		usage(stderr, fs)
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		usage(stderr, fs)
		return errUsage
	}

	name := fs.Arg(0)
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		usage(stderr, fs)
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	c, err := client.New(*server, client.Options{Logger: logging.New(stderr, level)})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if *user != "" {
		if _, err := c.Login(ctx, *user, *password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	return cmd.run(ctx, &app{out: stdout, client: c}, fs.Args()[1:])
}

func newCommandFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdAirdrops(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("airdrops")
	status := fs.String("status", catalog.All, "Status filter")
	category := fs.String("category", catalog.All, "Category filter")
	search := fs.String("search", "", "Search title, project and description")
	sortBy := fs.String("sort", "", "Sort order: value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sortBy != "" && *sortBy != "value" {
		return fmt.Errorf("unknown sort %q", *sortBy)
	}

	filter := catalog.AirdropFilter{
		Status:   *status,
		Category: *category,
		Search:   strings.TrimSpace(*search),
	}
	var (
		airdrops []model.Airdrop
		err      error
	)
	if *sortBy == "value" {
		// The server ranks with its configured AH_VALUE_RANKING.
		airdrops, err = a.client.RankedAirdrops(ctx, filter)
	} else {
		airdrops, err = a.client.FilterAirdrops(ctx, client.AirdropView{AirdropFilter: filter})
	}
	if err != nil {
		return err
	}
	a.printAirdrops(airdrops)
	return nil
}

func cmdFeatured(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("featured")
	filter := fs.String("filter", catalog.All, "All, Active, Ending Soon or Upcoming")
	limit := fs.Int("limit", 0, "Number of airdrops (server default when 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	airdrops, err := a.client.Featured(ctx, *filter, *limit)
	if err != nil {
		return err
	}
	a.printAirdrops(airdrops)
	return nil
}

func cmdAirdrop(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("airdrop takes exactly one id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	ad, err := a.client.Airdrop(ctx, id)
	if err != nil {
		return err
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("ID:", ad.ID)
	table.AddRow("Title:", ad.Title)
	table.AddRow("Project:", ad.ProjectName)
	table.AddRow("Category:", ad.Category)
	table.AddRow("Status:", ad.Status)
	table.AddRow("Value:", ad.EstimatedValue)
	table.AddRow("Participants:", ad.Participants)
	table.AddRow("Ends:", formatDate(ad.EndDate))
	table.AddRow("Description:", ad.Description)
	if ad.Requirements != nil {
		table.AddRow("Requirements:", *ad.Requirements)
	}
	_, _ = fmt.Fprintln(a.out, table)
	return nil
}

func cmdPosts(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("posts")
	category := fs.String("category", catalog.All, "Category filter")
	search := fs.String("search", "", "Search title, content and tags")
	recent := fs.Bool("recent", false, "Newest first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	posts, err := a.client.FilterBlogPosts(ctx, catalog.BlogPostFilter{
		Category: *category,
		Search:   strings.TrimSpace(*search),
	}, *recent)
	if err != nil {
		return err
	}

	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("ID", "TITLE", "CATEGORY", "PUBLISHED")
	for _, p := range posts {
		table.AddRow(p.ID, p.Title, p.Category, p.PublishedAt.Format(time.DateOnly))
	}
	_, _ = fmt.Fprintln(a.out, table)
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	u, err := a.client.CurrentUser.Get(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		_, _ = fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	role := "user"
	if u.IsAdmin {
		role = "admin"
	}
	_, _ = fmt.Fprintf(a.out, "%s <%s> (%s)\n", u.Username, u.Email, role)
	return nil
}

func cmdSubscribe(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("subscribe")
	interests := fs.String("interests", "", "Comma-separated interests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("subscribe takes exactly one email")
	}

	req := validation.NewsletterRequest{Email: fs.Arg(0)}
	if *interests != "" {
		req.Interests = interests
	}
	if err := validation.Validate(req); err != nil {
		return err
	}

	sub, err := a.client.Subscribe(ctx, req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "subscribed %s (id %d)\n", sub.Email, sub.ID)
	return nil
}

func cmdContact(ctx context.Context, a *app, args []string) error {
	fs := newCommandFlags("contact")
	var req validation.ContactRequest
	fs.StringVar(&req.Name, "name", "", "Your name")
	fs.StringVar(&req.Email, "email", "", "Reply address")
	fs.StringVar(&req.Subject, "subject", "", "Subject")
	fs.StringVar(&req.Message, "message", "", "Message body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}

	msg, err := a.client.SendContactMessage(ctx, req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "message %d sent\n", msg.ID)
	return nil
}

func (a *app) printAirdrops(airdrops []model.Airdrop) {
	table := uitable.New()
	table.MaxColWidth = 40
	table.RightAlign(5)
	table.AddRow("ID", "TITLE", "CATEGORY", "STATUS", "VALUE", "PARTICIPANTS")
	for _, ad := range airdrops {
		table.AddRow(ad.ID, ad.Title, ad.Category, ad.Status, ad.EstimatedValue, ad.Participants)
	}
	_, _ = fmt.Fprintln(a.out, table)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
