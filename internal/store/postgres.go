package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInUse marks a delete that was refused because dependent rows still
// reference the target.
var ErrInUse = errors.New("resource in use")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, is_email_verified, COALESCE(verification_token, ''), verification_expires_at, created_at, updated_at
		FROM users
		WHERE email=$1
	`, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsEmailVerified,
		&user.VerificationToken,
		&user.VerificationExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, is_email_verified, COALESCE(verification_token, ''), verification_expires_at, created_at, updated_at
		FROM users
		WHERE id=$1
	`, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsEmailVerified,
		&user.VerificationToken,
		&user.VerificationExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, is_email_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.IsEmailVerified, user.VerificationToken)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUserVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET verification_token=$2, verification_expires_at=$3, updated_at=NOW()
		WHERE id=$1
	`, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("update verification token: %w", err)
	}
	return nil
}

func (s *PostgresStore) VerifyUserEmail(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET is_email_verified=TRUE, verification_token=NULL, verification_expires_at=NULL, updated_at=NOW()
		WHERE verification_token=$1 AND verification_expires_at > NOW()
	`, token)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify email rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPasswordReset(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM password_resets
		WHERE token=$1 AND used_at IS NULL AND expires_at > NOW()
	`, token).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *PostgresStore) MarkPasswordResetUsed(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE password_resets SET used_at=NOW() WHERE token=$1`, token)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.name, u.email, u.role, u.is_email_verified
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.IsEmailVerified)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, exp)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.description, c.guidelines, c.sort_order, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM topics t WHERE t.course_id=c.id) AS topic_count
		FROM courses c
		ORDER BY c.sort_order ASC, c.created_at ASC, c.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	items := make([]Course, 0)
	for rows.Next() {
		var item Course
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Guidelines, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt, &item.TopicCount); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetCourse(ctx context.Context, courseID string) (Course, error) {
	var item Course
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, guidelines, sort_order, created_at, updated_at
		FROM courses
		WHERE id=$1
	`, courseID).Scan(&item.ID, &item.Title, &item.Description, &item.Guidelines, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return Course{}, err
	}
	return item, nil
}

func (s *PostgresStore) InsertCourse(ctx context.Context, course Course) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, title, description, guidelines, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`, course.ID, course.Title, course.Description, course.Guidelines, course.SortOrder)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCourse(ctx context.Context, course Course) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE courses
		SET title=$2, description=$3, guidelines=$4, sort_order=$5, updated_at=NOW()
		WHERE id=$1
	`, course.ID, course.Title, course.Description, course.Guidelines, course.SortOrder)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteCourse(ctx context.Context, courseID string) error {
	var topicCount int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics WHERE course_id=$1`, courseID).Scan(&topicCount); err != nil {
		return fmt.Errorf("count course topics: %w", err)
	}
	if topicCount > 0 {
		return fmt.Errorf("course contains %d topics: %w", topicCount, ErrInUse)
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, courseID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTopics(ctx context.Context, courseID string) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.description, t.guidelines, t.sort_order, t.course_id, t.created_at, t.updated_at,
			c.title, c.guidelines,
			(SELECT COUNT(*) FROM contents ct WHERE ct.topic_id=t.id AND ct.status='approved') AS approved_count
		FROM topics t
		JOIN courses c ON c.id = t.course_id
		WHERE ($1='' OR t.course_id=$1)
		ORDER BY t.sort_order ASC, t.created_at ASC, t.id ASC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	items := make([]Topic, 0)
	for rows.Next() {
		var item Topic
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.Guidelines,
			&item.SortOrder,
			&item.CourseID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.CourseTitle,
			&item.CourseGuidelines,
			&item.ApprovedCount,
		); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetTopic(ctx context.Context, topicID string) (Topic, error) {
	var item Topic
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.title, t.description, t.guidelines, t.sort_order, t.course_id, t.created_at, t.updated_at, c.title, c.guidelines
		FROM topics t
		JOIN courses c ON c.id = t.course_id
		WHERE t.id=$1
	`, topicID).Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Guidelines,
		&item.SortOrder,
		&item.CourseID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.CourseTitle,
		&item.CourseGuidelines,
	)
	if err != nil {
		return Topic{}, err
	}
	return item, nil
}

func (s *PostgresStore) InsertTopic(ctx context.Context, topic Topic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, title, description, guidelines, sort_order, course_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, topic.ID, topic.Title, topic.Description, topic.Guidelines, topic.SortOrder, topic.CourseID)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateTopic(ctx context.Context, topic Topic) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE topics
		SET title=$2, description=$3, guidelines=$4, sort_order=$5, updated_at=NOW()
		WHERE id=$1
	`, topic.ID, topic.Title, topic.Description, topic.Guidelines, topic.SortOrder)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteTopic(ctx context.Context, topicID string) error {
	var contentCount int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents WHERE topic_id=$1`, topicID).Scan(&contentCount); err != nil {
		return fmt.Errorf("count topic contents: %w", err)
	}
	if contentCount > 0 {
		return fmt.Errorf("topic contains %d content items: %w", contentCount, ErrInUse)
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id=$1`, topicID)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetContent(ctx context.Context, contentID string) (Content, error) {
	var item Content
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, status, topic_id, author_id, created_at, updated_at
		FROM contents
		WHERE id=$1
	`, contentID).Scan(&item.ID, &item.Title, &item.Body, &item.Status, &item.TopicID, &item.AuthorID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return Content{}, err
	}
	return item, nil
}

func (s *PostgresStore) InsertContent(ctx context.Context, item Content) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contents (id, title, body, status, topic_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.Title, item.Body, item.Status, item.TopicID, item.AuthorID)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateContent(ctx context.Context, contentID, title, body, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE contents
		SET title=$2, body=$3, status=$4, updated_at=NOW()
		WHERE id=$1
	`, contentID, title, body, status)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListPendingContent(ctx context.Context) ([]ContentSummary, error) {
	return s.listContentSummaries(ctx, `
		SELECT ct.id, ct.title, ct.body, ct.status, ct.topic_id, ct.author_id, ct.created_at, ct.updated_at,
			u.name, u.email, t.title, c.title
		FROM contents ct
		JOIN users u ON u.id = ct.author_id
		JOIN topics t ON t.id = ct.topic_id
		JOIN courses c ON c.id = t.course_id
		WHERE ct.status='pending'
		ORDER BY ct.updated_at DESC
	`)
}

func (s *PostgresStore) ListContentByAuthor(ctx context.Context, authorID string) ([]ContentSummary, error) {
	return s.listContentSummaries(ctx, `
		SELECT ct.id, ct.title, ct.body, ct.status, ct.topic_id, ct.author_id, ct.created_at, ct.updated_at,
			u.name, u.email, t.title, c.title
		FROM contents ct
		JOIN users u ON u.id = ct.author_id
		JOIN topics t ON t.id = ct.topic_id
		JOIN courses c ON c.id = t.course_id
		WHERE ct.author_id=$1
		ORDER BY ct.updated_at DESC
	`, authorID)
}

func (s *PostgresStore) ListApprovedContent(ctx context.Context) ([]ContentSummary, error) {
	return s.listContentSummaries(ctx, `
		SELECT ct.id, ct.title, ct.body, ct.status, ct.topic_id, ct.author_id, ct.created_at, ct.updated_at,
			u.name, u.email, t.title, c.title
		FROM contents ct
		JOIN users u ON u.id = ct.author_id
		JOIN topics t ON t.id = ct.topic_id
		JOIN courses c ON c.id = t.course_id
		WHERE ct.status='approved'
		ORDER BY ct.updated_at DESC
	`)
}

// ListAllContent returns every content row regardless of status, used by the
// admin export.
func (s *PostgresStore) ListAllContent(ctx context.Context) ([]ContentSummary, error) {
	return s.listContentSummaries(ctx, `
		SELECT ct.id, ct.title, ct.body, ct.status, ct.topic_id, ct.author_id, ct.created_at, ct.updated_at,
			u.name, u.email, t.title, c.title
		FROM contents ct
		JOIN users u ON u.id = ct.author_id
		JOIN topics t ON t.id = ct.topic_id
		JOIN courses c ON c.id = t.course_id
		ORDER BY ct.created_at ASC
	`)
}

func (s *PostgresStore) listContentSummaries(ctx context.Context, query string, args ...any) ([]ContentSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	items := make([]ContentSummary, 0)
	for rows.Next() {
		var item ContentSummary
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Body,
			&item.Status,
			&item.TopicID,
			&item.AuthorID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.AuthorName,
			&item.AuthorEmail,
			&item.TopicTitle,
			&item.CourseTitle,
		); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}
	return items, nil
}

// RecordReview appends a review row and moves the content to its new status
// in a single transaction. Either both rows land or neither does.
func (s *PostgresStore) RecordReview(ctx context.Context, review Review, newStatus string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin review tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reviews (id, status, comment, body_hash, content_id, reviewer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, review.ID, review.Status, review.Comment, review.BodyHash, review.ContentID, review.ReviewerID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE contents SET status=$2, updated_at=NOW() WHERE id=$1
	`, review.ContentID, newStatus); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update content status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit review tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, contentID string) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.status, r.comment, r.body_hash, r.content_id, r.reviewer_id, r.created_at, u.name
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		WHERE r.content_id=$1
		ORDER BY r.created_at DESC, r.id DESC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := make([]Review, 0)
	for rows.Next() {
		var item Review
		if err := rows.Scan(&item.ID, &item.Status, &item.Comment, &item.BodyHash, &item.ContentID, &item.ReviewerID, &item.CreatedAt, &item.ReviewerName); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) LatestReview(ctx context.Context, contentID string) (*Review, error) {
	var item Review
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.status, r.comment, r.body_hash, r.content_id, r.reviewer_id, r.created_at, u.name
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		WHERE r.content_id=$1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT 1
	`, contentID).Scan(&item.ID, &item.Status, &item.Comment, &item.BodyHash, &item.ContentID, &item.ReviewerID, &item.CreatedAt, &item.ReviewerName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest review: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, role, is_email_verified, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		var item User
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.Role, &item.IsEmailVerified, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ListAllReviews(ctx context.Context) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.status, r.comment, r.body_hash, r.content_id, r.reviewer_id, r.created_at, u.name
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		ORDER BY r.created_at DESC, r.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all reviews: %w", err)
	}
	defer rows.Close()

	items := make([]Review, 0)
	for rows.Next() {
		var item Review
		if err := rows.Scan(&item.ID, &item.Status, &item.Comment, &item.BodyHash, &item.ContentID, &item.ReviewerID, &item.CreatedAt, &item.ReviewerName); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) SummaryCounts(ctx context.Context) (totalContent int, pendingContent int, approvedContent int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents`).Scan(&totalContent); err != nil {
		err = fmt.Errorf("count all content: %w", err)
		return
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents WHERE status='pending'`).Scan(&pendingContent); err != nil {
		err = fmt.Errorf("count pending content: %w", err)
		return
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents WHERE status='approved'`).Scan(&approvedContent); err != nil {
		err = fmt.Errorf("count approved content: %w", err)
		return
	}
	return
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
