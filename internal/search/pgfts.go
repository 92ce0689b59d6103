package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true. If Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search executes a UNION ALL query across contents, courses, and topics
// using plainto_tsquery and ts_rank, with ts_headline for snippets. Only
// approved content is searchable.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('english', $1)"
	args := []any{q.Text}
	argN := 2

	var subQueries []string

	if q.FilterType == "" || q.FilterType == ResultContent {
		contentWhere := "ct.fts @@ " + tsQuery + " AND ct.status = 'approved'"
		if q.FilterCourseID != "" {
			contentWhere += fmt.Sprintf(" AND t.course_id = $%d", argN)
			args = append(args, q.FilterCourseID)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'content'::text AS type, ct.id, ct.title,
				ts_headline('english', coalesce(ct.body, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				t.course_id, ct.topic_id,
				ts_rank(ct.fts, %s) AS rank
			FROM contents ct
			JOIN topics t ON t.id = ct.topic_id
			WHERE %s`, tsQuery, tsQuery, contentWhere))
	}

	if q.FilterType == "" || q.FilterType == ResultCourse {
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'course'::text AS type, c.id, c.title,
				ts_headline('english', coalesce(c.description, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				c.id AS course_id, ''::text AS topic_id,
				ts_rank(c.fts, %s) AS rank
			FROM courses c
			WHERE c.fts @@ %s`, tsQuery, tsQuery, tsQuery))
	}

	if q.FilterType == "" || q.FilterType == ResultTopic {
		topicWhere := "t.fts @@ " + tsQuery
		if q.FilterCourseID != "" {
			topicWhere += fmt.Sprintf(" AND t.course_id = $%d", argN)
			args = append(args, q.FilterCourseID)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'topic'::text AS type, t.id, t.title,
				ts_headline('english', coalesce(t.description, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				t.course_id, t.id AS topic_id,
				ts_rank(t.fts, %s) AS rank
			FROM topics t
			WHERE %s`, tsQuery, tsQuery, topicWhere))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub",
		strings.Join(subQueries, " UNION ALL "))

	dataSQL := fmt.Sprintf(`SELECT type, id, title, snippet, course_id, topic_id
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`,
		strings.Join(subQueries, " UNION ALL "),
		limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		if err := rows.Scan(&typ, &r.ID, &r.Title, &r.Snippet, &r.CourseID, &r.TopicID); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(typ)
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns all searchable records for full reindexing.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]ContentRecord, []CourseRecord, []TopicRecord, error) {
	contentRows, err := p.db.QueryContext(ctx, `
		SELECT ct.id, ct.title, ct.body, ct.topic_id, t.course_id, u.name
		FROM contents ct
		JOIN topics t ON t.id = ct.topic_id
		JOIN users u ON u.id = ct.author_id
		WHERE ct.status = 'approved'
	`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load contents: %w", err)
	}
	defer contentRows.Close()

	contents := make([]ContentRecord, 0)
	for contentRows.Next() {
		var c ContentRecord
		if err := contentRows.Scan(&c.ID, &c.Title, &c.Body, &c.TopicID, &c.CourseID, &c.AuthorName); err != nil {
			return nil, nil, nil, fmt.Errorf("scan content: %w", err)
		}
		contents = append(contents, c)
	}
	if err := contentRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("iterate contents: %w", err)
	}

	courseRows, err := p.db.QueryContext(ctx, `
		SELECT id, title, description
		FROM courses
	`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load courses: %w", err)
	}
	defer courseRows.Close()

	courses := make([]CourseRecord, 0)
	for courseRows.Next() {
		var c CourseRecord
		if err := courseRows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, nil, nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := courseRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("iterate courses: %w", err)
	}

	topicRows, err := p.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.description, t.course_id, c.title
		FROM topics t
		JOIN courses c ON c.id = t.course_id
	`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load topics: %w", err)
	}
	defer topicRows.Close()

	topics := make([]TopicRecord, 0)
	for topicRows.Next() {
		var t TopicRecord
		if err := topicRows.Scan(&t.ID, &t.Title, &t.Description, &t.CourseID, &t.CourseTitle); err != nil {
			return nil, nil, nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := topicRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("iterate topics: %w", err)
	}

	return contents, courses, topics, nil
}
