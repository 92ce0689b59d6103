package app

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecid/api/internal/auth"
	"ecid/api/internal/authpw"
	"ecid/api/internal/config"
	"ecid/api/internal/email"
	"ecid/api/internal/export"
	"ecid/api/internal/rbac"
	"ecid/api/internal/search"
	"ecid/api/internal/store"
	"ecid/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Email        string
	Role         string
	JTI          string
	ExpiresAt    time.Time
}

// Principal is the acting user passed explicitly into every lifecycle
// operation. Handlers build it from the session; tests build it directly.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  string
}

func (s Session) Principal() Principal {
	return Principal{ID: s.UserID, Email: s.Email, Name: s.UserName, Role: s.Role}
}

// ContentPatch carries the optional fields of a content update. Nil means
// "leave unchanged".
type ContentPatch struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Status *string `json:"status"`
}

type dataStore interface {
	GetUserByID(context.Context, string) (store.User, error)
	GetUserByEmail(context.Context, string) (store.User, error)
	SaveRefreshSession(context.Context, string, string, time.Time) error
	RevokeRefreshSession(context.Context, string) error
	RevokeAccessToken(context.Context, string, time.Time) error
	IsAccessTokenRevoked(context.Context, string) (bool, error)
	ListCourses(context.Context) ([]store.Course, error)
	GetCourse(context.Context, string) (store.Course, error)
	InsertCourse(context.Context, store.Course) error
	UpdateCourse(context.Context, store.Course) error
	DeleteCourse(context.Context, string) error
	ListTopics(context.Context, string) ([]store.Topic, error)
	GetTopic(context.Context, string) (store.Topic, error)
	InsertTopic(context.Context, store.Topic) error
	UpdateTopic(context.Context, store.Topic) error
	DeleteTopic(context.Context, string) error
	GetContent(context.Context, string) (store.Content, error)
	InsertContent(context.Context, store.Content) error
	UpdateContent(context.Context, string, string, string, string) error
	ListPendingContent(context.Context) ([]store.ContentSummary, error)
	ListContentByAuthor(context.Context, string) ([]store.ContentSummary, error)
	ListApprovedContent(context.Context) ([]store.ContentSummary, error)
	RecordReview(context.Context, store.Review, string) error
	ListReviews(context.Context, string) ([]store.Review, error)
	LatestReview(context.Context, string) (*store.Review, error)
	SummaryCounts(context.Context) (int, int, int, error)
	Ping(ctx context.Context) error
}

// Notifier sends the transactional emails. *email.Service satisfies it;
// tests substitute a recorder.
type Notifier interface {
	IsConfigured() bool
	SendVerificationEmail(to, userName, verificationURL string) error
	SendPasswordResetEmail(to, userName, resetURL string) error
	SendReviewDecisionEmail(to, userName, contentTitle, decision, comment string) error
}

// SessionStore holds refresh tokens. The Postgres store satisfies it, and so
// does the Redis store, which only persists the user ID.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions SessionStore
	authpw   *authpw.Service
	email    Notifier
	search   *search.Service
	exports  *export.Runner
}

func New(cfg config.Config, dataStore *store.PostgresStore, searchSvc *search.Service, authSvc *authpw.Service, emailSvc *email.Service, exports *export.Runner) *Service {
	return NewWithSessionStore(cfg, dataStore, searchSvc, authSvc, emailSvc, exports, dataStore)
}

// NewWithSessionStore swaps the refresh-token backend, used when Redis is
// configured.
func NewWithSessionStore(cfg config.Config, dataStore *store.PostgresStore, searchSvc *search.Service, authSvc *authpw.Service, emailSvc *email.Service, exports *export.Runner, sessions SessionStore) *Service {
	svc := &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		authpw:   authSvc,
		search:   searchSvc,
		exports:  exports,
	}
	if emailSvc != nil {
		svc.email = emailSvc
	}
	return svc
}

// Bootstrap seeds a starter course and topic into an empty database so a
// fresh deployment has somewhere to contribute to.
func (s *Service) Bootstrap(ctx context.Context) error {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return err
	}
	if len(courses) > 0 {
		return nil
	}

	course := store.Course{
		ID:          util.NewID("crs"),
		Title:       "Getting Started",
		Description: "A starter course for trying out the contribution workflow.",
		Guidelines:  "Keep examples short and self-contained.",
		SortOrder:   1,
	}
	if err := s.store.InsertCourse(ctx, course); err != nil {
		return err
	}

	topic := store.Topic{
		ID:         util.NewID("top"),
		Title:      "Your First Contribution",
		CourseID:   course.ID,
		Guidelines: "Draft freely; submit for review when the text stands on its own.",
		SortOrder:  1,
	}
	return s.store.InsertTopic(ctx, topic)
}

func (s *Service) AuthPasswordService() *authpw.Service {
	return s.authpw
}

func (s *Service) SMTPConfigured() bool {
	return s.email != nil && s.email.IsConfigured()
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// Ping checks the health of service dependencies (database, etc.)
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// CreateSession issues access and refresh tokens for an already
// authenticated user.
func (s *Service) CreateSession(ctx context.Context, userID string) (Session, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	// The session store may only carry the user ID. Re-read the users table
	// so the new token reflects the current name and role.
	full, err := s.store.GetUserByID(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, full)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.Name,
		Email:        user.Email,
		Role:         user.Role,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.store.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.Name,
		Email:     user.Email,
		Role:      user.Role,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.store.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// Courses

func (s *Service) ListCourses(ctx context.Context) ([]map[string]any, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(courses))
	for _, course := range courses {
		items = append(items, coursePayload(course))
	}
	return items, nil
}

func (s *Service) GetCourse(ctx context.Context, courseID string) (map[string]any, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	topics, err := s.store.ListTopics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	topicItems := make([]map[string]any, 0, len(topics))
	for _, topic := range topics {
		topicItems = append(topicItems, topicPayload(topic))
	}
	payload := coursePayload(course)
	payload["topics"] = topicItems
	return payload, nil
}

func (s *Service) CreateCourse(ctx context.Context, title, description, guidelines string, sortOrder int) (map[string]any, error) {
	courseTitle := strings.TrimSpace(title)
	if courseTitle == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	course := store.Course{
		ID:          util.NewID("crs"),
		Title:       courseTitle,
		Description: strings.TrimSpace(description),
		Guidelines:  strings.TrimSpace(guidelines),
		SortOrder:   sortOrder,
	}
	if err := s.store.InsertCourse(ctx, course); err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexCourse(search.CourseRecord{ID: course.ID, Title: course.Title, Description: course.Description})
	}
	return coursePayload(course), nil
}

func (s *Service) UpdateCourse(ctx context.Context, courseID, title, description, guidelines string, sortOrder int) (map[string]any, error) {
	courseTitle := strings.TrimSpace(title)
	if courseTitle == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	if err := s.store.UpdateCourse(ctx, store.Course{
		ID:          courseID,
		Title:       courseTitle,
		Description: strings.TrimSpace(description),
		Guidelines:  strings.TrimSpace(guidelines),
		SortOrder:   sortOrder,
	}); err != nil {
		return nil, err
	}
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexCourse(search.CourseRecord{ID: course.ID, Title: course.Title, Description: course.Description})
	}
	return coursePayload(course), nil
}

func (s *Service) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.store.DeleteCourse(ctx, courseID); err != nil {
		if errors.Is(err, store.ErrInUse) {
			return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "course still has topics", nil)
		}
		return err
	}
	if s.search != nil {
		s.search.DeleteCourse(courseID)
	}
	return nil
}

// Topics

func (s *Service) ListTopics(ctx context.Context, courseID string) ([]map[string]any, error) {
	topics, err := s.store.ListTopics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(topics))
	for _, topic := range topics {
		items = append(items, topicPayload(topic))
	}
	return items, nil
}

func (s *Service) GetTopic(ctx context.Context, topicID string) (map[string]any, error) {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return topicPayload(topic), nil
}

func (s *Service) CreateTopic(ctx context.Context, courseID, title, description, guidelines string, sortOrder int) (map[string]any, error) {
	topicTitle := strings.TrimSpace(title)
	if topicTitle == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "courseId does not resolve to a course", nil)
		}
		return nil, err
	}
	topic := store.Topic{
		ID:          util.NewID("top"),
		Title:       topicTitle,
		Description: strings.TrimSpace(description),
		Guidelines:  strings.TrimSpace(guidelines),
		SortOrder:   sortOrder,
		CourseID:    course.ID,
	}
	if err := s.store.InsertTopic(ctx, topic); err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexTopic(search.TopicRecord{
			ID:          topic.ID,
			Title:       topic.Title,
			Description: topic.Description,
			CourseID:    course.ID,
			CourseTitle: course.Title,
		})
	}
	topic.CourseTitle = course.Title
	return topicPayload(topic), nil
}

func (s *Service) UpdateTopic(ctx context.Context, topicID, title, description, guidelines string, sortOrder int) (map[string]any, error) {
	topicTitle := strings.TrimSpace(title)
	if topicTitle == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	if err := s.store.UpdateTopic(ctx, store.Topic{
		ID:          topicID,
		Title:       topicTitle,
		Description: strings.TrimSpace(description),
		Guidelines:  strings.TrimSpace(guidelines),
		SortOrder:   sortOrder,
	}); err != nil {
		return nil, err
	}
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexTopic(search.TopicRecord{
			ID:          topic.ID,
			Title:       topic.Title,
			Description: topic.Description,
			CourseID:    topic.CourseID,
			CourseTitle: topic.CourseTitle,
		})
	}
	return topicPayload(topic), nil
}

func (s *Service) DeleteTopic(ctx context.Context, topicID string) error {
	if err := s.store.DeleteTopic(ctx, topicID); err != nil {
		if errors.Is(err, store.ErrInUse) {
			return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "topic still has content", nil)
		}
		return err
	}
	if s.search != nil {
		s.search.DeleteTopic(topicID)
	}
	return nil
}

// Content lifecycle

func (s *Service) CreateContent(ctx context.Context, principal Principal, topicID, title, body, status string) (map[string]any, error) {
	if status == "" {
		status = store.StatusDraft
	}
	if status != store.StatusDraft && status != store.StatusPending {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status must be draft or pending", nil)
	}
	if status == store.StatusPending && (strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "") {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title and body are required to submit for review", nil)
	}
	if _, err := s.store.GetTopic(ctx, topicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "topicId does not resolve to a topic", nil)
		}
		return nil, err
	}

	item := store.Content{
		ID:       util.NewID("cnt"),
		Title:    title,
		Body:     body,
		Status:   status,
		TopicID:  topicID,
		AuthorID: principal.ID,
	}
	if err := s.store.InsertContent(ctx, item); err != nil {
		return nil, err
	}
	return s.GetContentDetail(ctx, item.ID)
}

func (s *Service) UpdateContent(ctx context.Context, principal Principal, contentID string, patch ContentPatch) (map[string]any, error) {
	content, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	isAuthor := principal.ID == content.AuthorID
	if !isAuthor && rbac.Normalize(principal.Role) != rbac.RoleAdmin {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "not authorized to edit this content", nil)
	}

	title := content.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	body := content.Body
	if patch.Body != nil {
		body = *patch.Body
	}

	status := content.Status
	if patch.Status != nil && *patch.Status != content.Status {
		next := *patch.Status
		// Only the author moves content in and out of the review queue.
		// Reviewer decisions go through RecordReview, never through here.
		if !isAuthor {
			return nil, domainError(http.StatusForbidden, "FORBIDDEN", "only the author can change content status", nil)
		}
		switch {
		case content.Status == store.StatusDraft && next == store.StatusPending:
			if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
				return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title and body are required to submit for review", nil)
			}
		case content.Status == store.StatusPending && next == store.StatusDraft:
			// Self-withdrawal from the review queue.
		default:
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unsupported status transition", nil)
		}
		status = next
	}

	if err := s.store.UpdateContent(ctx, contentID, title, body, status); err != nil {
		return nil, err
	}

	if status == store.StatusApproved && s.search != nil {
		s.indexContent(ctx, store.Content{ID: contentID, Title: title, Body: body, TopicID: content.TopicID, AuthorID: content.AuthorID})
	}
	return s.GetContentDetail(ctx, contentID)
}

// RecordReview appends a reviewer decision and recomputes the content status
// in the same store transaction. Approved converges to approved from any
// prior status; changes_requested always lands the content back in draft.
func (s *Service) RecordReview(ctx context.Context, principal Principal, contentID, decision, comment string) (map[string]any, error) {
	if !s.Can(principal.Role, rbac.ActionReview) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "only editors and admins can review", nil)
	}
	if decision != store.DecisionApproved && decision != store.DecisionChangesRequested {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "decision must be approved or changes_requested", nil)
	}
	content, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	newStatus := store.StatusDraft
	if decision == store.DecisionApproved {
		newStatus = store.StatusApproved
	}

	review := store.Review{
		ID:         util.NewID("rev"),
		Status:     decision,
		Comment:    strings.TrimSpace(comment),
		BodyHash:   bodyHash(content.Body),
		ContentID:  contentID,
		ReviewerID: principal.ID,
	}
	if err := s.store.RecordReview(ctx, review, newStatus); err != nil {
		return nil, err
	}

	s.notifyReviewDecision(content, decision, review.Comment)
	if s.search != nil {
		if newStatus == store.StatusApproved {
			s.indexContent(ctx, content)
		} else {
			s.search.DeleteContent(contentID)
		}
	}

	return map[string]any{
		"review": map[string]any{
			"id":        review.ID,
			"status":    review.Status,
			"comment":   review.Comment,
			"bodyHash":  review.BodyHash,
			"contentId": review.ContentID,
		},
		"contentStatus": newStatus,
	}, nil
}

func (s *Service) ListPendingForReview(ctx context.Context) ([]map[string]any, error) {
	items, err := s.store.ListPendingContent(ctx)
	if err != nil {
		return nil, err
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		reviews, err := s.store.ListReviews(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		entry := contentSummaryPayload(item)
		entry["reviews"] = reviewPayloads(reviews)
		payload = append(payload, entry)
	}
	return payload, nil
}

func (s *Service) ListMine(ctx context.Context, principal Principal) ([]map[string]any, error) {
	items, err := s.store.ListContentByAuthor(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		latest, err := s.store.LatestReview(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		entry := contentSummaryPayload(item)
		if latest != nil {
			entry["latestReview"] = reviewPayload(*latest)
		}
		payload = append(payload, entry)
	}
	return payload, nil
}

func (s *Service) ListApprovedContent(ctx context.Context) ([]map[string]any, error) {
	items, err := s.store.ListApprovedContent(ctx)
	if err != nil {
		return nil, err
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, contentSummaryPayload(item))
	}
	return payload, nil
}

// GetContentDetail returns a content item joined with its topic, course,
// author, and full review history.
func (s *Service) GetContentDetail(ctx context.Context, contentID string) (map[string]any, error) {
	content, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	topic, err := s.store.GetTopic(ctx, content.TopicID)
	if err != nil {
		return nil, err
	}
	author, err := s.store.GetUserByID(ctx, content.AuthorID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":          content.ID,
		"title":       content.Title,
		"body":        content.Body,
		"status":      content.Status,
		"topicId":     content.TopicID,
		"topicTitle":  topic.Title,
		"courseId":    topic.CourseID,
		"courseTitle": topic.CourseTitle,
		"authorId":    author.ID,
		"authorName":  author.Name,
		"createdAt":   content.CreatedAt,
		"updatedAt":   content.UpdatedAt,
		"reviews":     reviewPayloads(reviews),
	}, nil
}

func (s *Service) ReviewHistory(ctx context.Context, contentID string) ([]map[string]any, error) {
	if _, err := s.store.GetContent(ctx, contentID); err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return reviewPayloads(reviews), nil
}

// Search

func (s *Service) Search(ctx context.Context, q, filterType, courseID string, limit, offset int) (search.Response, error) {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q}, nil
	}
	return s.search.Search(search.Query{
		Text:           q,
		FilterType:     search.ResultType(filterType),
		FilterCourseID: courseID,
		Limit:          limit,
		Offset:         offset,
	}), nil
}

// Export

func (s *Service) StartExport(principal Principal) (export.Job, error) {
	if !s.Can(principal.Role, rbac.ActionAdmin) {
		return export.Job{}, domainError(http.StatusForbidden, "FORBIDDEN", "only admins can export", nil)
	}
	if s.exports == nil {
		return export.Job{}, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "export is not configured", nil)
	}
	job, err := s.exports.Enqueue()
	if err != nil {
		if errors.Is(err, export.ErrQueueFull) {
			return export.Job{}, domainError(http.StatusTooManyRequests, "EXPORT_BUSY", "an export is already queued, try again later", nil)
		}
		return export.Job{}, err
	}
	return job, nil
}

func (s *Service) ExportJob(principal Principal, jobID string) (export.Job, *export.Result, error) {
	if !s.Can(principal.Role, rbac.ActionAdmin) {
		return export.Job{}, nil, domainError(http.StatusForbidden, "FORBIDDEN", "only admins can export", nil)
	}
	if s.exports == nil {
		return export.Job{}, nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "export is not configured", nil)
	}
	job, result, ok := s.exports.Get(jobID)
	if !ok {
		return export.Job{}, nil, sql.ErrNoRows
	}
	return job, result, nil
}

// Summary returns platform-wide content counts for the admin dashboard.
func (s *Service) Summary(ctx context.Context) (map[string]any, error) {
	total, pending, approved, err := s.store.SummaryCounts(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"totalContent":    total,
		"pendingContent":  pending,
		"approvedContent": approved,
	}, nil
}

// Side effects

// NotifySignupVerification emails the verification link after signup.
// Best effort: delivery failures are logged, never surfaced to the caller.
func (s *Service) NotifySignupVerification(userEmail, userName, token string) {
	if !s.SMTPConfigured() || token == "" {
		return
	}
	emailSvc := s.email
	link := s.appLink("/verify-email", token)
	go func() {
		if err := emailSvc.SendVerificationEmail(userEmail, userName, link); err != nil {
			log.Printf("verification email for %s: %v", userEmail, err)
		}
	}()
}

// NotifyPasswordReset emails the reset link. The user name is loaded in the
// background so the handler response never waits on the database.
func (s *Service) NotifyPasswordReset(userEmail, token string) {
	if !s.SMTPConfigured() || token == "" {
		return
	}
	emailSvc := s.email
	link := s.appLink("/reset-password", token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		user, err := s.store.GetUserByEmail(ctx, userEmail)
		if err != nil {
			log.Printf("password reset email: load user %s: %v", userEmail, err)
			return
		}
		if err := emailSvc.SendPasswordResetEmail(user.Email, user.Name, link); err != nil {
			log.Printf("password reset email for %s: %v", userEmail, err)
		}
	}()
}

func (s *Service) appLink(path, token string) string {
	return strings.TrimRight(s.cfg.AppBaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func (s *Service) notifyReviewDecision(content store.Content, decision, comment string) {
	if !s.SMTPConfigured() {
		return
	}
	emailSvc := s.email
	authorID := content.AuthorID
	title := content.Title
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		author, err := s.store.GetUserByID(ctx, authorID)
		if err != nil {
			log.Printf("review notification: load author %s: %v", authorID, err)
			return
		}
		if err := emailSvc.SendReviewDecisionEmail(author.Email, author.Name, title, decision, comment); err != nil {
			log.Printf("review notification for %s: %v", authorID, err)
		}
	}()
}

func (s *Service) indexContent(ctx context.Context, content store.Content) {
	topic, err := s.store.GetTopic(ctx, content.TopicID)
	if err != nil {
		log.Printf("index content %s: load topic: %v", content.ID, err)
		return
	}
	author, err := s.store.GetUserByID(ctx, content.AuthorID)
	if err != nil {
		log.Printf("index content %s: load author: %v", content.ID, err)
		return
	}
	s.search.IndexContent(search.ContentRecord{
		ID:         content.ID,
		Title:      content.Title,
		Body:       content.Body,
		TopicID:    content.TopicID,
		CourseID:   topic.CourseID,
		AuthorName: author.Name,
	})
}

// Payload helpers

func coursePayload(course store.Course) map[string]any {
	return map[string]any{
		"id":          course.ID,
		"title":       course.Title,
		"description": course.Description,
		"guidelines":  course.Guidelines,
		"sortOrder":   course.SortOrder,
		"topicCount":  course.TopicCount,
		"createdAt":   course.CreatedAt,
		"updatedAt":   course.UpdatedAt,
	}
}

func topicPayload(topic store.Topic) map[string]any {
	return map[string]any{
		"id":               topic.ID,
		"title":            topic.Title,
		"description":      topic.Description,
		"guidelines":       topic.Guidelines,
		"courseGuidelines": topic.CourseGuidelines,
		"sortOrder":        topic.SortOrder,
		"courseId":         topic.CourseID,
		"courseTitle":      topic.CourseTitle,
		"approvedCount":    topic.ApprovedCount,
		"createdAt":        topic.CreatedAt,
		"updatedAt":        topic.UpdatedAt,
	}
}

func contentSummaryPayload(item store.ContentSummary) map[string]any {
	return map[string]any{
		"id":          item.ID,
		"title":       item.Title,
		"body":        item.Body,
		"status":      item.Status,
		"topicId":     item.TopicID,
		"topicTitle":  item.TopicTitle,
		"courseTitle": item.CourseTitle,
		"authorId":    item.AuthorID,
		"authorName":  item.AuthorName,
		"createdAt":   item.CreatedAt,
		"updatedAt":   item.UpdatedAt,
	}
}

func reviewPayload(review store.Review) map[string]any {
	return map[string]any{
		"id":           review.ID,
		"status":       review.Status,
		"comment":      review.Comment,
		"bodyHash":     review.BodyHash,
		"contentId":    review.ContentID,
		"reviewerId":   review.ReviewerID,
		"reviewerName": review.ReviewerName,
		"createdAt":    review.CreatedAt,
	}
}

func reviewPayloads(reviews []store.Review) []map[string]any {
	items := make([]map[string]any, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, reviewPayload(review))
	}
	return items
}

func bodyHash(body string) string {
	sum := sha1.Sum([]byte(body))
	return hex.EncodeToString(sum[:])
}
