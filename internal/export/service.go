package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ecid/api/internal/store"
)

// DataStore is the slice of the storage layer the exporter reads from.
type DataStore interface {
	ListUsers(ctx context.Context) ([]store.User, error)
	ListCourses(ctx context.Context) ([]store.Course, error)
	ListTopics(ctx context.Context, courseID string) ([]store.Topic, error)
	ListAllContent(ctx context.Context) ([]store.ContentSummary, error)
	ListAllReviews(ctx context.Context) ([]store.Review, error)
}

// Service builds full-database spreadsheet exports for administrators.
type Service struct {
	store    DataStore
	uploader *Uploader
}

// NewService creates an export service. The uploader may be nil, in which
// case artifacts are only returned in memory.
func NewService(store DataStore, uploader *Uploader) *Service {
	return &Service{store: store, uploader: uploader}
}

// Result is a finished export artifact.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
	ObjectKey   string
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Build reads every exportable table and produces a single workbook with one
// sheet per table. When an uploader is configured the artifact is also pushed
// to object storage.
func (s *Service) Build(ctx context.Context) (*Result, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	topics, err := s.store.ListTopics(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	contents, err := s.store.ListAllContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	reviews, err := s.store.ListAllReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	writeSheet(f, "Users", []string{"ID", "Name", "Email", "Role", "Verified", "Created At"}, len(users), func(i int) []any {
		u := users[i]
		return []any{u.ID, u.Name, u.Email, u.Role, u.IsEmailVerified, ts(u.CreatedAt)}
	})
	writeSheet(f, "Courses", []string{"ID", "Title", "Description", "Sort Order", "Topics", "Created At"}, len(courses), func(i int) []any {
		c := courses[i]
		return []any{c.ID, c.Title, c.Description, c.SortOrder, c.TopicCount, ts(c.CreatedAt)}
	})
	writeSheet(f, "Topics", []string{"ID", "Title", "Course", "Approved Content", "Sort Order", "Created At"}, len(topics), func(i int) []any {
		t := topics[i]
		return []any{t.ID, t.Title, t.CourseTitle, t.ApprovedCount, t.SortOrder, ts(t.CreatedAt)}
	})
	writeSheet(f, "Content", []string{"ID", "Title", "Status", "Topic", "Course", "Author", "Author Email", "Created At", "Updated At"}, len(contents), func(i int) []any {
		c := contents[i]
		return []any{c.ID, c.Title, c.Status, c.TopicTitle, c.CourseTitle, c.AuthorName, c.AuthorEmail, ts(c.CreatedAt), ts(c.UpdatedAt)}
	})
	writeSheet(f, "Reviews", []string{"ID", "Decision", "Comment", "Content ID", "Reviewer", "Created At"}, len(reviews), func(i int) []any {
		r := reviews[i]
		return []any{r.ID, r.Status, r.Comment, r.ContentID, r.ReviewerName, ts(r.CreatedAt)}
	})

	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	result := &Result{
		Filename:    fmt.Sprintf("ecid-export-%s.xlsx", time.Now().UTC().Format("20060102-150405")),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}

	if s.uploader != nil {
		key := "exports/" + result.Filename
		if err := s.uploader.Upload(ctx, key, result.Data, result.ContentType); err != nil {
			return nil, fmt.Errorf("upload export: %w", err)
		}
		result.ObjectKey = key
	}

	return result, nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows int, rowValues func(i int) []any) {
	idx, _ := f.NewSheet(name)
	f.SetActiveSheet(idx)

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(name, cell, h)
	}
	for i := 0; i < rows; i++ {
		for col, v := range rowValues(i) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(name, cell, v)
		}
	}
}

func ts(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
