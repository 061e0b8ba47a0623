// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// SQLStore persists records through database/sql. Ids come from the
// database's auto-increment keys, which are never reused.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the database.
func (s *SQLStore) Close() error { return s.db.Close() }

// forUpdate is the row-lock suffix for read-modify-write transactions.
// SQLite serializes writers already and has no such clause.
func (s *SQLStore) forUpdate() string {
	if s.dialect == DialectMySQL {
		return " FOR UPDATE"
	}
	return ""
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: p.UTC(), Valid: true}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

// normalizeTime matches the precision the database stores.
func normalizeTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	t := p.UTC().Truncate(time.Microsecond)
	return &t
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

// uniqueViolation maps a constraint error on users to the matching sentinel.
func uniqueViolation(err error) error {
	var myErr *mysql.MySQLError
	msg := err.Error()
	switch {
	case errors.As(err, &myErr) && myErr.Number == 1062:
		msg = myErr.Message
	case strings.Contains(msg, "UNIQUE constraint failed"):
	default:
		return nil
	}
	switch {
	case strings.Contains(msg, "username"):
		return ErrUsernameTaken
	case strings.Contains(msg, "email"):
		return ErrEmailTaken
	}
	return nil
}

// queryList runs a query and scans every row with scan.
func queryList[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []T{}
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// queryOne scans a single row, mapping sql.ErrNoRows to ok=false.
func queryOne[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), query string, args ...any) (T, bool, error) {
	rec, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

// Users

const userColumns = "id, username, email, password_hash, is_admin"

func scanUser(r rowScanner) (model.User, error) {
	var u model.User
	err := r.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin)
	return u, err
}

// CreateUser inserts a user. The unique indexes on username and email make
// concurrent duplicate registrations fail with ErrUsernameTaken/ErrEmailTaken.
func (s *SQLStore) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, is_admin) VALUES (?, ?, ?, ?)",
		in.Username, in.Email, in.PasswordHash, in.IsAdmin)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return model.User{}, conflict
		}
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading user id: %w", err)
	}
	return model.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		IsAdmin:      in.IsAdmin,
	}, nil
}

func (s *SQLStore) UserByID(ctx context.Context, id int64) (model.User, bool, error) {
	return queryOne(ctx, s.db, scanUser, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (s *SQLStore) UserByUsername(ctx context.Context, username string) (model.User, bool, error) {
	return queryOne(ctx, s.db, scanUser, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	return queryOne(ctx, s.db, scanUser, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (s *SQLStore) Users(ctx context.Context) ([]model.User, error) {
	return queryList(ctx, s.db, scanUser, "SELECT "+userColumns+" FROM users ORDER BY id")
}

// Airdrops

const airdropColumns = "id, title, project_name, description, requirements, category, estimated_value, " +
	"status, participants, logo_url, cover_image_url, start_date, end_date, created_at"

func scanAirdrop(r rowScanner) (model.Airdrop, error) {
	var (
		a                       model.Airdrop
		requirements, logo, cov sql.NullString
		start, end              sql.NullTime
	)
	err := r.Scan(&a.ID, &a.Title, &a.ProjectName, &a.Description, &requirements, &a.Category,
		&a.EstimatedValue, &a.Status, &a.Participants, &logo, &cov, &start, &end, &a.CreatedAt)
	if err != nil {
		return a, err
	}
	a.Requirements = stringPtr(requirements)
	a.LogoURL = stringPtr(logo)
	a.CoverImageURL = stringPtr(cov)
	a.StartDate = timePtr(start)
	a.EndDate = timePtr(end)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func (s *SQLStore) CreateAirdrop(ctx context.Context, in model.NewAirdrop) (model.Airdrop, error) {
	rec := in.Build(0, s.now())
	rec.StartDate = normalizeTime(rec.StartDate)
	rec.EndDate = normalizeTime(rec.EndDate)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO airdrops (title, project_name, description, requirements, category, estimated_value,
			status, participants, logo_url, cover_image_url, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Title, rec.ProjectName, rec.Description, nullString(rec.Requirements), rec.Category,
		rec.EstimatedValue, rec.Status, rec.Participants, nullString(rec.LogoURL),
		nullString(rec.CoverImageURL), nullTime(rec.StartDate), nullTime(rec.EndDate), rec.CreatedAt)
	if err != nil {
		return model.Airdrop{}, fmt.Errorf("inserting airdrop: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return model.Airdrop{}, fmt.Errorf("reading airdrop id: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) AirdropByID(ctx context.Context, id int64) (model.Airdrop, bool, error) {
	return queryOne(ctx, s.db, scanAirdrop, "SELECT "+airdropColumns+" FROM airdrops WHERE id = ?", id)
}

func (s *SQLStore) Airdrops(ctx context.Context) ([]model.Airdrop, error) {
	return queryList(ctx, s.db, scanAirdrop, "SELECT "+airdropColumns+" FROM airdrops ORDER BY id")
}

func (s *SQLStore) AirdropsByStatus(ctx context.Context, status string) ([]model.Airdrop, error) {
	return queryList(ctx, s.db, scanAirdrop,
		"SELECT "+airdropColumns+" FROM airdrops WHERE status = ? ORDER BY id", status)
}

func (s *SQLStore) AirdropsByCategory(ctx context.Context, category string) ([]model.Airdrop, error) {
	return queryList(ctx, s.db, scanAirdrop,
		"SELECT "+airdropColumns+" FROM airdrops WHERE category = ? ORDER BY id", category)
}

// UpdateAirdrop reads the row, applies the patch and writes it back in one
// transaction.
func (s *SQLStore) UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) (model.Airdrop, bool, error) {
	var (
		updated model.Airdrop
		found   bool
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanAirdrop(tx.QueryRowContext(ctx,
			"SELECT "+airdropColumns+" FROM airdrops WHERE id = ?"+s.forUpdate(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		updated = patch.Apply(cur)
		updated.StartDate = normalizeTime(updated.StartDate)
		updated.EndDate = normalizeTime(updated.EndDate)
		if patch.IsEmpty() {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE airdrops SET title = ?, project_name = ?, description = ?, requirements = ?, category = ?,
				estimated_value = ?, status = ?, participants = ?, logo_url = ?, cover_image_url = ?,
				start_date = ?, end_date = ?
			 WHERE id = ?`,
			updated.Title, updated.ProjectName, updated.Description, nullString(updated.Requirements),
			updated.Category, updated.EstimatedValue, updated.Status, updated.Participants,
			nullString(updated.LogoURL), nullString(updated.CoverImageURL), nullTime(updated.StartDate),
			nullTime(updated.EndDate), id)
		return err
	})
	if err != nil {
		return model.Airdrop{}, false, fmt.Errorf("updating airdrop %d: %w", id, err)
	}
	return updated, found, nil
}

func (s *SQLStore) CompleteAirdropIfEnded(ctx context.Context, id int64, now time.Time) (model.Airdrop, bool, error) {
	var (
		cur     model.Airdrop
		changed bool
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		cur, err = scanAirdrop(tx.QueryRowContext(ctx,
			"SELECT "+airdropColumns+" FROM airdrops WHERE id = ?"+s.forUpdate(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if !cur.Ended(now) {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "UPDATE airdrops SET status = ? WHERE id = ?", model.StatusCompleted, id); err != nil {
			return err
		}
		cur.Status = model.StatusCompleted
		changed = true
		return nil
	})
	if err != nil {
		return model.Airdrop{}, false, fmt.Errorf("completing airdrop %d: %w", id, err)
	}
	return cur, changed, nil
}

func (s *SQLStore) DeleteAirdrop(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, "airdrops", id)
}

// Blog posts

const blogPostColumns = "id, title, content, category, image_url, author_id, tags, published_at"

func scanBlogPost(r rowScanner) (model.BlogPost, error) {
	var (
		b           model.BlogPost
		image, tags sql.NullString
		author      sql.NullInt64
	)
	err := r.Scan(&b.ID, &b.Title, &b.Content, &b.Category, &image, &author, &tags, &b.PublishedAt)
	if err != nil {
		return b, err
	}
	b.ImageURL = stringPtr(image)
	b.AuthorID = int64Ptr(author)
	b.Tags = stringPtr(tags)
	b.PublishedAt = b.PublishedAt.UTC()
	return b, nil
}

func (s *SQLStore) CreateBlogPost(ctx context.Context, in model.NewBlogPost) (model.BlogPost, error) {
	rec := in.Build(0, s.now())
	rec.PublishedAt = rec.PublishedAt.UTC().Truncate(time.Microsecond)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (title, content, category, image_url, author_id, tags, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Title, rec.Content, rec.Category, nullString(rec.ImageURL), nullInt64(rec.AuthorID),
		nullString(rec.Tags), rec.PublishedAt)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("inserting blog post: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return model.BlogPost{}, fmt.Errorf("reading blog post id: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) BlogPostByID(ctx context.Context, id int64) (model.BlogPost, bool, error) {
	return queryOne(ctx, s.db, scanBlogPost, "SELECT "+blogPostColumns+" FROM blog_posts WHERE id = ?", id)
}

func (s *SQLStore) BlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return queryList(ctx, s.db, scanBlogPost, "SELECT "+blogPostColumns+" FROM blog_posts ORDER BY id")
}

func (s *SQLStore) BlogPostsByCategory(ctx context.Context, category string) ([]model.BlogPost, error) {
	return queryList(ctx, s.db, scanBlogPost,
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE category = ? ORDER BY id", category)
}

func (s *SQLStore) UpdateBlogPost(ctx context.Context, id int64, patch model.BlogPostPatch) (model.BlogPost, bool, error) {
	var (
		updated model.BlogPost
		found   bool
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanBlogPost(tx.QueryRowContext(ctx,
			"SELECT "+blogPostColumns+" FROM blog_posts WHERE id = ?"+s.forUpdate(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		updated = patch.Apply(cur)
		updated.PublishedAt = updated.PublishedAt.UTC().Truncate(time.Microsecond)
		if patch.IsEmpty() {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE blog_posts SET title = ?, content = ?, category = ?, image_url = ?, author_id = ?,
				tags = ?, published_at = ?
			 WHERE id = ?`,
			updated.Title, updated.Content, updated.Category, nullString(updated.ImageURL),
			nullInt64(updated.AuthorID), nullString(updated.Tags), updated.PublishedAt, id)
		return err
	})
	if err != nil {
		return model.BlogPost{}, false, fmt.Errorf("updating blog post %d: %w", id, err)
	}
	return updated, found, nil
}

func (s *SQLStore) DeleteBlogPost(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, "blog_posts", id)
}

// Inbox

func scanSubscription(r rowScanner) (model.NewsletterSubscription, error) {
	var (
		n         model.NewsletterSubscription
		interests sql.NullString
	)
	if err := r.Scan(&n.ID, &n.Email, &interests, &n.CreatedAt); err != nil {
		return n, err
	}
	n.Interests = stringPtr(interests)
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}

func (s *SQLStore) CreateSubscription(ctx context.Context, in model.NewSubscription) (model.NewsletterSubscription, error) {
	rec := model.NewsletterSubscription{Email: in.Email, Interests: in.Interests, CreatedAt: s.now()}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO newsletter_subscriptions (email, interests, created_at) VALUES (?, ?, ?)",
		rec.Email, nullString(rec.Interests), rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("inserting subscription: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return rec, fmt.Errorf("reading subscription id: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) Subscriptions(ctx context.Context) ([]model.NewsletterSubscription, error) {
	return queryList(ctx, s.db, scanSubscription,
		"SELECT id, email, interests, created_at FROM newsletter_subscriptions ORDER BY id")
}

func scanContactMessage(r rowScanner) (model.ContactMessage, error) {
	var m model.ContactMessage
	if err := r.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
		return m, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

func (s *SQLStore) CreateContactMessage(ctx context.Context, in model.NewContactMessage) (model.ContactMessage, error) {
	rec := model.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: s.now(),
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.Name, rec.Email, rec.Subject, rec.Message, rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("inserting contact message: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return rec, fmt.Errorf("reading contact message id: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) ContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	return queryList(ctx, s.db, scanContactMessage,
		"SELECT id, name, email, subject, message, created_at FROM contact_messages ORDER BY id")
}

// helpers

func (s *SQLStore) deleteByID(ctx context.Context, table string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return n > 0, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

var _ Store = (*SQLStore)(nil)
