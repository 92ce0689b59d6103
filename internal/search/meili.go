package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const (
	idxContents = "ecid_contents"
	idxCourses  = "ecid_courses"
	idxTopics   = "ecid_topics"
)

// Meili implements Searcher via Meilisearch. Only approved content is pushed
// into the contents index.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures indexes.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndexes()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndexes() {
	indexes := []struct {
		uid        string
		primaryKey string
		filterable []string
		searchable []string
	}{
		{
			uid:        idxContents,
			primaryKey: "id",
			filterable: []string{"courseId", "topicId"},
			searchable: []string{"title", "body"},
		},
		{
			uid:        idxCourses,
			primaryKey: "id",
			filterable: nil,
			searchable: []string{"title", "description"},
		},
		{
			uid:        idxTopics,
			primaryKey: "id",
			filterable: []string{"courseId"},
			searchable: []string{"title", "description"},
		},
	}

	for _, idx := range indexes {
		if _, err := m.client.CreateIndex(&meili.IndexConfig{
			Uid:        idx.uid,
			PrimaryKey: idx.primaryKey,
		}); err != nil {
			log.Printf("search: create index %s (may already exist): %v", idx.uid, err)
		}

		index := m.client.Index(idx.uid)
		if len(idx.filterable) > 0 {
			filterableInterface := make([]interface{}, len(idx.filterable))
			for i, v := range idx.filterable {
				filterableInterface[i] = v
			}
			if _, err := index.UpdateFilterableAttributes(&filterableInterface); err != nil {
				log.Printf("search: update filterable attrs for %s: %v", idx.uid, err)
			}
		}
		if _, err := index.UpdateSearchableAttributes(&idx.searchable); err != nil {
			log.Printf("search: update searchable attrs for %s: %v", idx.uid, err)
		}
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring indexes")
				m.configureIndexes()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries all three indexes (or a filtered subset) and merges results.
func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	var queries []*meili.SearchRequest
	targetIndexes := []struct {
		uid  string
		rtyp ResultType
	}{
		{idxContents, ResultContent},
		{idxCourses, ResultCourse},
		{idxTopics, ResultTopic},
	}

	for _, ti := range targetIndexes {
		if q.FilterType != "" && q.FilterType != ti.rtyp {
			continue
		}
		sr := &meili.SearchRequest{
			IndexUID:              ti.uid,
			Limit:                 limit,
			Offset:                int64(q.Offset),
			AttributesToHighlight: []string{"*"},
			HighlightPreTag:       "<mark>",
			HighlightPostTag:      "</mark>",
			ShowRankingScore:      true,
		}

		if q.FilterCourseID != "" && ti.rtyp != ResultCourse {
			sr.Filter = []string{fmt.Sprintf("courseId = %q", q.FilterCourseID)}
		}
		queries = append(queries, sr)
	}

	if len(queries) == 0 {
		return nil, 0, nil
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: queries,
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch multi-search: %w", err)
	}

	var results []Result
	total := 0
	for _, sr := range resp.Results {
		total += int(sr.EstimatedTotalHits)
		rtyp := indexToResultType(sr.IndexUID)
		for _, hit := range sr.Hits {
			results = append(results, hitToResult(hit, rtyp))
		}
	}

	return results, total, nil
}

func indexToResultType(uid string) ResultType {
	switch uid {
	case idxContents:
		return ResultContent
	case idxCourses:
		return ResultCourse
	case idxTopics:
		return ResultTopic
	default:
		return ""
	}
}

func hitToResult(hit meili.Hit, rtyp ResultType) Result {
	r := Result{Type: rtyp}
	r.ID = decodeString(hit, "id")
	r.CourseID = decodeString(hit, "courseId")
	r.TopicID = decodeString(hit, "topicId")

	switch rtyp {
	case ResultContent:
		r.Title = firstNonBlank(decodeFormattedString(hit, "title"), decodeString(hit, "title"))
		r.Snippet = firstNonBlank(decodeFormattedString(hit, "body"), decodeString(hit, "body"))
	case ResultCourse:
		r.Title = firstNonBlank(decodeFormattedString(hit, "title"), decodeString(hit, "title"))
		r.Snippet = firstNonBlank(decodeFormattedString(hit, "description"), decodeString(hit, "description"))
		r.CourseID = r.ID
	case ResultTopic:
		r.Title = firstNonBlank(decodeFormattedString(hit, "title"), decodeString(hit, "title"))
		r.Snippet = firstNonBlank(decodeFormattedString(hit, "description"), decodeString(hit, "description"))
		r.TopicID = r.ID
	}
	return r
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeFormattedString(hit meili.Hit, key string) string {
	raw, ok := hit["_formatted"]
	if !ok {
		return ""
	}
	var formatted map[string]string
	if err := json.Unmarshal(raw, &formatted); err != nil {
		return ""
	}
	return strings.TrimSpace(formatted[key])
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// IndexContent adds or updates an approved content item in the search index.
func (m *Meili) IndexContent(c ContentRecord) error {
	_, err := m.client.Index(idxContents).AddDocuments([]ContentRecord{c}, nil)
	return err
}

// IndexCourse adds or updates a course in the search index.
func (m *Meili) IndexCourse(c CourseRecord) error {
	_, err := m.client.Index(idxCourses).AddDocuments([]CourseRecord{c}, nil)
	return err
}

// IndexTopic adds or updates a topic in the search index.
func (m *Meili) IndexTopic(t TopicRecord) error {
	_, err := m.client.Index(idxTopics).AddDocuments([]TopicRecord{t}, nil)
	return err
}

// DeleteContent removes a content item from the search index.
func (m *Meili) DeleteContent(id string) error {
	_, err := m.client.Index(idxContents).DeleteDocument(id, nil)
	return err
}

// DeleteCourse removes a course from the search index.
func (m *Meili) DeleteCourse(id string) error {
	_, err := m.client.Index(idxCourses).DeleteDocument(id, nil)
	return err
}

// DeleteTopic removes a topic from the search index.
func (m *Meili) DeleteTopic(id string) error {
	_, err := m.client.Index(idxTopics).DeleteDocument(id, nil)
	return err
}

// IndexContents bulk-indexes content records.
func (m *Meili) IndexContents(contents []ContentRecord) error {
	if len(contents) == 0 {
		return nil
	}
	_, err := m.client.Index(idxContents).AddDocuments(contents, nil)
	return err
}

// IndexCourses bulk-indexes courses.
func (m *Meili) IndexCourses(courses []CourseRecord) error {
	if len(courses) == 0 {
		return nil
	}
	_, err := m.client.Index(idxCourses).AddDocuments(courses, nil)
	return err
}

// IndexTopics bulk-indexes topics.
func (m *Meili) IndexTopics(topics []TopicRecord) error {
	if len(topics) == 0 {
		return nil
	}
	_, err := m.client.Index(idxTopics).AddDocuments(topics, nil)
	return err
}
