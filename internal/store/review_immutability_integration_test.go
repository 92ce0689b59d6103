package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// TestReviewsBlockUpdate verifies that UPDATE on reviews is rejected by the
// append-only trigger.
func TestReviewsBlockUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := Open(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	contentID := seedReviewFixtures(ctx, t, db, "upd")

	_, err = db.ExecContext(ctx, `
		INSERT INTO reviews (id, status, comment, content_id, reviewer_id)
		VALUES ('rev_upd', 'approved', 'looks good', $1, 'usr_reviewer_upd')
	`, contentID)
	if err != nil {
		t.Fatalf("insert review: %v", err)
	}

	_, err = db.ExecContext(ctx, `UPDATE reviews SET comment='edited' WHERE id='rev_upd'`)
	if err == nil {
		t.Fatal("expected UPDATE to be blocked, but it succeeded")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected PostgreSQL error, got: %v", err)
	}
	if pgErr.Message != "reviews are append-only" {
		t.Fatalf("unexpected error message: %s", pgErr.Message)
	}
}

// TestReviewsBlockDelete verifies that DELETE on reviews is rejected by the
// append-only trigger.
func TestReviewsBlockDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := Open(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	contentID := seedReviewFixtures(ctx, t, db, "del")

	_, err = db.ExecContext(ctx, `
		INSERT INTO reviews (id, status, comment, content_id, reviewer_id)
		VALUES ('rev_del', 'changes_requested', 'needs a source', $1, 'usr_reviewer_del')
	`, contentID)
	if err != nil {
		t.Fatalf("insert review: %v", err)
	}

	_, err = db.ExecContext(ctx, `DELETE FROM reviews WHERE id='rev_del'`)
	if err == nil {
		t.Fatal("expected DELETE to be blocked, but it succeeded")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected PostgreSQL error, got: %v", err)
	}
	if pgErr.Message != "reviews are append-only" {
		t.Fatalf("unexpected error message: %s", pgErr.Message)
	}
}

// TestRecordReviewCommitsBothRows verifies that RecordReview lands the review
// row and the new content status together.
func TestRecordReviewCommitsBothRows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := Open(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	contentID := seedReviewFixtures(ctx, t, db, "txn")
	s := NewPostgresStore(db)

	review := Review{
		ID:         "rev_txn",
		Status:     "approved",
		Comment:    "ready to publish",
		BodyHash:   "deadbeef",
		ContentID:  contentID,
		ReviewerID: "usr_reviewer_txn",
	}
	if err := s.RecordReview(ctx, review, "approved"); err != nil {
		t.Fatalf("record review: %v", err)
	}

	item, err := s.GetContent(ctx, contentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if item.Status != "approved" {
		t.Fatalf("content status = %q, want approved", item.Status)
	}

	reviews, err := s.ListReviews(ctx, contentID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].ID != "rev_txn" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}

// TestRecordReviewRollsBackOnBadReviewer verifies that a failed review insert
// leaves the content status untouched.
func TestRecordReviewRollsBackOnBadReviewer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := Open(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	contentID := seedReviewFixtures(ctx, t, db, "rb")
	s := NewPostgresStore(db)

	review := Review{
		ID:         "rev_rb",
		Status:     "approved",
		ContentID:  contentID,
		ReviewerID: "usr_does_not_exist",
	}
	if err := s.RecordReview(ctx, review, "approved"); err == nil {
		t.Fatal("expected foreign key failure")
	}

	item, err := s.GetContent(ctx, contentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if item.Status != "pending" {
		t.Fatalf("content status = %q, want pending after rollback", item.Status)
	}
}

// seedReviewFixtures inserts an author, a reviewer, a course, a topic, and a
// pending content row, returning the content ID. The suffix keeps fixtures
// from different tests apart.
func seedReviewFixtures(ctx context.Context, t *testing.T, db *sql.DB, suffix string) string {
	t.Helper()

	// Row triggers do not fire on TRUNCATE, so reruns start clean.
	if _, err := db.ExecContext(ctx, `TRUNCATE reviews`); err != nil {
		t.Fatalf("truncate reviews: %v", err)
	}

	statements := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO users (id, name, email, password_hash, role)
			 VALUES ($1, 'Author', $2, 'x', 'contributor')
			 ON CONFLICT (id) DO NOTHING`,
			[]any{"usr_author_" + suffix, "author-" + suffix + "@ecid.test"},
		},
		{
			`INSERT INTO users (id, name, email, password_hash, role)
			 VALUES ($1, 'Reviewer', $2, 'x', 'editor')
			 ON CONFLICT (id) DO NOTHING`,
			[]any{"usr_reviewer_" + suffix, "reviewer-" + suffix + "@ecid.test"},
		},
		{
			`INSERT INTO courses (id, title) VALUES ($1, 'Course')
			 ON CONFLICT (id) DO NOTHING`,
			[]any{"crs_" + suffix},
		},
		{
			`INSERT INTO topics (id, title, course_id) VALUES ($1, 'Topic', $2)
			 ON CONFLICT (id) DO NOTHING`,
			[]any{"top_" + suffix, "crs_" + suffix},
		},
		{
			`INSERT INTO contents (id, title, body, status, topic_id, author_id)
			 VALUES ($1, 'Draft lesson', 'Body text', 'pending', $2, $3)
			 ON CONFLICT (id) DO UPDATE SET status='pending'`,
			[]any{"cnt_" + suffix, "top_" + suffix, "usr_author_" + suffix},
		},
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			t.Fatalf("seed fixtures: %v", err)
		}
	}

	return "cnt_" + suffix
}

func testDatabaseURL(t *testing.T) string {
	t.Helper()

	if url := os.Getenv("ECID_TEST_DATABASE_URL"); url != "" {
		return url
	}

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ecid")
	pass := envOr("POSTGRES_PASSWORD", "ecid")
	dbname := envOr("POSTGRES_DB", "ecid_test")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + dbname + "?sslmode=disable"
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
