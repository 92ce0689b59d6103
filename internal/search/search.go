package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultContent ResultType = "content"
	ResultCourse  ResultType = "course"
	ResultTopic   ResultType = "topic"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type     ResultType `json:"type"`
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Snippet  string     `json:"snippet"`
	CourseID string     `json:"courseId,omitempty"`
	TopicID  string     `json:"topicId,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text           string
	FilterType     ResultType // empty = all types
	FilterCourseID string
	Limit          int
	Offset         int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// ContentRecord is the data we index for an approved content item.
type ContentRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	TopicID    string `json:"topicId"`
	CourseID   string `json:"courseId"`
	AuthorName string `json:"authorName"`
}

// CourseRecord is the data we index for a course.
type CourseRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TopicRecord is the data we index for a topic.
type TopicRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
}
