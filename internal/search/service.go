package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to PG FTS.
type Service struct {
	meili *Meili
	pgfts *PgFTS
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, pgfts *PgFTS) *Service {
	return &Service{meili: meili, pgfts: pgfts}
}

// Search tries Meilisearch if healthy, otherwise falls back to PG FTS.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to pgfts: %v", err)
	}

	results, total, err := s.pgfts.Search(q)
	if err != nil {
		log.Printf("search: pgfts error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexContent indexes an approved content item (fire-and-forget to Meilisearch).
func (s *Service) IndexContent(c ContentRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexContent(c); err != nil {
			log.Printf("search: index content %s: %v", c.ID, err)
		}
	}()
}

// DeleteContent removes a content item from the search index (fire-and-forget).
// Used when content leaves the approved state.
func (s *Service) DeleteContent(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteContent(id); err != nil {
			log.Printf("search: delete content %s: %v", id, err)
		}
	}()
}

// IndexCourse indexes a course (fire-and-forget to Meilisearch).
func (s *Service) IndexCourse(c CourseRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexCourse(c); err != nil {
			log.Printf("search: index course %s: %v", c.ID, err)
		}
	}()
}

// DeleteCourse removes a course from the search index (fire-and-forget).
func (s *Service) DeleteCourse(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteCourse(id); err != nil {
			log.Printf("search: delete course %s: %v", id, err)
		}
	}()
}

// IndexTopic indexes a topic (fire-and-forget to Meilisearch).
func (s *Service) IndexTopic(t TopicRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexTopic(t); err != nil {
			log.Printf("search: index topic %s: %v", t.ID, err)
		}
	}()
}

// DeleteTopic removes a topic from the search index (fire-and-forget).
func (s *Service) DeleteTopic(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteTopic(id); err != nil {
			log.Printf("search: delete topic %s: %v", id, err)
		}
	}()
}

// ReindexAll reads all entities from PG and pushes them to Meilisearch.
// Called during startup if Meilisearch is healthy.
func (s *Service) ReindexAll(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() || s.pgfts == nil {
		return
	}

	contents, courses, topics, err := s.pgfts.LoadAllRecords(ctx)
	if err != nil {
		log.Printf("search: load records for reindex: %v", err)
		return
	}

	if err := s.meili.IndexContents(contents); err != nil {
		log.Printf("search: reindex contents: %v", err)
	}
	if err := s.meili.IndexCourses(courses); err != nil {
		log.Printf("search: reindex courses: %v", err)
	}
	if err := s.meili.IndexTopics(topics); err != nil {
		log.Printf("search: reindex topics: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
