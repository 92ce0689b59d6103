package store

import "time"

// Content lifecycle statuses.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Review decisions.
const (
	DecisionApproved         = "approved"
	DecisionChangesRequested = "changes_requested"
)

type User struct {
	ID                    string
	Name                  string
	Email                 string
	PasswordHash          string
	Role                  string
	IsEmailVerified       bool
	VerificationToken     string
	VerificationExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Course struct {
	ID          string
	Title       string
	Description string
	Guidelines  string
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// Joined field for list responses
	TopicCount int
}

type Topic struct {
	ID          string
	Title       string
	Description string
	Guidelines  string
	SortOrder   int
	CourseID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// Joined fields for list responses
	CourseTitle      string
	CourseGuidelines string
	ApprovedCount    int
}

type Content struct {
	ID        string
	Title     string
	Body      string
	Status    string
	TopicID   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentSummary decorates a Content row with the author and topic/course
// titles needed by the contributor and review surfaces.
type ContentSummary struct {
	Content
	AuthorName  string
	AuthorEmail string
	TopicTitle  string
	CourseTitle string
}

type Review struct {
	ID         string
	Status     string
	Comment    string
	BodyHash   string
	ContentID  string
	ReviewerID string
	CreatedAt  time.Time
	// Joined field for API responses
	ReviewerName string
}
