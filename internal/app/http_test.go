package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ecid/api/internal/auth"
	"ecid/api/internal/authpw"
	"ecid/api/internal/export"
	"ecid/api/internal/store"
)

func newTestHandler(fs *fakeStore) http.Handler {
	if fs.getUserByIDFn == nil {
		fs.getUserByIDFn = func(_ context.Context, userID string) (store.User, error) {
			role := strings.TrimPrefix(userID, "usr_")
			return store.User{ID: userID, Name: "Test " + role, Email: role + "@example.com", Role: role}, nil
		}
	}
	return NewHTTPServer(newTestService(fs), "http://localhost:5173").Handler()
}

func testToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.IssueToken([]byte("test-secret"), auth.Claims{
		Sub:   "usr_" + role,
		Email: role + "@example.com",
		Name:  "Test " + role,
		Role:  role,
		JTI:   "jti_" + role,
		Exp:   time.Now().Add(15 * time.Minute).Unix(),
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	if payload := decodeResponse(t, rec); payload["ok"] != true {
		t.Errorf("payload = %v", payload)
	}
}

func TestReadyEndpoint(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload := decodeResponse(t, rec); payload["status"] != "ready" {
		t.Errorf("payload = %v", payload)
	}
}

func TestSessionEndpointWithoutToken(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/session", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload := decodeResponse(t, rec); payload["authenticated"] != false {
		t.Errorf("payload = %v", payload)
	}
}

func TestSessionEndpointWithToken(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/session", testToken(t, "editor"), "")
	payload := decodeResponse(t, rec)
	if payload["authenticated"] != true || payload["role"] != "editor" {
		t.Errorf("payload = %v", payload)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/courses", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if payload := decodeResponse(t, rec); payload["code"] != "UNAUTHORIZED" {
		t.Errorf("payload = %v", payload)
	}
}

func TestProtectedRoutesRejectGarbageToken(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/courses", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCourseCreateRequiresAdmin(t *testing.T) {
	inserted := false
	handler := newTestHandler(&fakeStore{
		insertCourseFn: func(context.Context, store.Course) error {
			inserted = true
			return nil
		},
	})
	rec := doRequest(t, handler, http.MethodPost, "/api/courses", testToken(t, "contributor"), `{"title":"Algebra"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if inserted {
		t.Error("course was inserted despite role gate")
	}
}

func TestCourseCreateAsAdmin(t *testing.T) {
	var created store.Course
	handler := newTestHandler(&fakeStore{
		insertCourseFn: func(_ context.Context, course store.Course) error {
			created = course
			return nil
		},
	})
	rec := doRequest(t, handler, http.MethodPost, "/api/courses", testToken(t, "admin"), `{"title":"Algebra","description":"Linear algebra track"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if created.Title != "Algebra" {
		t.Errorf("created = %+v", created)
	}
}

func TestContentCreateEndpoint(t *testing.T) {
	created := store.Content{}
	fs := &fakeStore{
		insertContentFn: func(_ context.Context, item store.Content) error {
			created = item
			return nil
		},
	}
	detailStoreFor(fs, &created)
	handler := newTestHandler(fs)

	rec := doRequest(t, handler, http.MethodPost, "/api/content", testToken(t, "contributor"),
		`{"topicId":"top_1","title":"Intro","body":"Hello"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	payload := decodeResponse(t, rec)
	if payload["status"] != store.StatusDraft {
		t.Errorf("status = %v, want draft", payload["status"])
	}
	if created.AuthorID != "usr_contributor" {
		t.Errorf("author = %q", created.AuthorID)
	}
}

func TestContentCreateRejectsInvalidJSON(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodPost, "/api/content", testToken(t, "contributor"), `{"topicId":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload := decodeResponse(t, rec); payload["code"] != "INVALID_BODY" {
		t.Errorf("payload = %v", payload)
	}
}

func TestContentListRejectsUnknownStatusFilter(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/content?status=archived", testToken(t, "contributor"), "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestApprovedFeedIsPublic(t *testing.T) {
	handler := newTestHandler(&fakeStore{
		listApprovedContentFn: func(context.Context) ([]store.ContentSummary, error) {
			return []store.ContentSummary{
				{Content: store.Content{ID: "cnt_1", Title: "Intro", Status: store.StatusApproved}},
			}, nil
		},
	})

	rec := doRequest(t, handler, http.MethodGet, "/api/content", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without a session", rec.Code)
	}
	payload := decodeResponse(t, rec)
	items, ok := payload["content"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("content = %v", payload["content"])
	}

	// The pending queue is not public.
	rec = doRequest(t, handler, http.MethodGet, "/api/content?status=pending", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("pending without session = %d, want 401", rec.Code)
	}
}

func TestContentDetailIsPublic(t *testing.T) {
	content := store.Content{ID: "cnt_1", Title: "Intro", Body: "Hello", Status: store.StatusApproved, TopicID: "top_1", AuthorID: "usr_author"}
	fs := &fakeStore{}
	detailStoreFor(fs, &content)
	handler := newTestHandler(fs)

	rec := doRequest(t, handler, http.MethodGet, "/api/content/cnt_1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without a session", rec.Code)
	}
	if payload := decodeResponse(t, rec); payload["id"] != "cnt_1" {
		t.Errorf("payload = %v", payload)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/content/cnt_missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown content = %d, want 404", rec.Code)
	}

	// The author listing stays behind a session.
	rec = doRequest(t, handler, http.MethodGet, "/api/content/mine", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("mine without session = %d, want 401", rec.Code)
	}
}

func TestPendingQueueRequiresReviewRole(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/content?status=pending", testToken(t, "contributor"), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestReviewPostForbiddenForContributor(t *testing.T) {
	content := store.Content{ID: "cnt_1", Title: "Intro", Body: "Hello", Status: store.StatusPending, TopicID: "top_1", AuthorID: "usr_other"}
	recorded := false
	fs := &fakeStore{
		recordReviewFn: func(context.Context, store.Review, string) error {
			recorded = true
			return nil
		},
	}
	detailStoreFor(fs, &content)
	handler := newTestHandler(fs)

	rec := doRequest(t, handler, http.MethodPost, "/api/reviews/cnt_1", testToken(t, "contributor"), `{"status":"approved"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if recorded {
		t.Error("review was appended despite role gate")
	}
}

func TestReviewPostRecordsDecision(t *testing.T) {
	content := store.Content{ID: "cnt_1", Title: "Intro", Body: "Hello", Status: store.StatusPending, TopicID: "top_1", AuthorID: "usr_other"}
	var recordedStatus string
	fs := &fakeStore{
		recordReviewFn: func(_ context.Context, _ store.Review, newStatus string) error {
			recordedStatus = newStatus
			return nil
		},
	}
	detailStoreFor(fs, &content)
	handler := newTestHandler(fs)

	rec := doRequest(t, handler, http.MethodPost, "/api/reviews/cnt_1", testToken(t, "editor"), `{"status":"approved","comment":"ship it"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	payload := decodeResponse(t, rec)
	if payload["contentStatus"] != store.StatusApproved {
		t.Errorf("contentStatus = %v", payload["contentStatus"])
	}
	if recordedStatus != store.StatusApproved {
		t.Errorf("recorded status = %q", recordedStatus)
	}
}

func TestReviewHistoryVisibleToAuthor(t *testing.T) {
	content := store.Content{ID: "cnt_1", Title: "Intro", Body: "Hello", Status: store.StatusDraft, TopicID: "top_1", AuthorID: "usr_contributor"}
	fs := &fakeStore{
		listReviewsFn: func(context.Context, string) ([]store.Review, error) {
			return []store.Review{{ID: "rev_1", Status: store.DecisionChangesRequested, Comment: "needs more detail"}}, nil
		},
	}
	detailStoreFor(fs, &content)
	handler := newTestHandler(fs)

	rec := doRequest(t, handler, http.MethodGet, "/api/reviews/cnt_1", testToken(t, "contributor"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeResponse(t, rec)
	reviews, ok := payload["reviews"].([]any)
	if !ok || len(reviews) != 1 {
		t.Fatalf("reviews = %v", payload["reviews"])
	}
}

func TestAdminSummaryRequiresAdmin(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/admin/summary", testToken(t, "editor"), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestExportUnavailableWithoutRunner(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodPost, "/api/admin/export", testToken(t, "admin"), "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if payload := decodeResponse(t, rec); payload["code"] != "EXPORT_UNAVAILABLE" {
		t.Errorf("payload = %v", payload)
	}
}

type emptyExportStore struct{}

func (emptyExportStore) ListUsers(context.Context) ([]store.User, error)           { return nil, nil }
func (emptyExportStore) ListCourses(context.Context) ([]store.Course, error)       { return nil, nil }
func (emptyExportStore) ListTopics(context.Context, string) ([]store.Topic, error) { return nil, nil }
func (emptyExportStore) ListAllContent(context.Context) ([]store.ContentSummary, error) {
	return nil, nil
}
func (emptyExportStore) ListAllReviews(context.Context) ([]store.Review, error) { return nil, nil }

func TestExportRoundTrip(t *testing.T) {
	fs := &fakeStore{}
	fs.getUserByIDFn = func(_ context.Context, userID string) (store.User, error) {
		return store.User{ID: userID, Name: "Admin", Email: "admin@example.com", Role: "admin"}, nil
	}
	svc := newTestService(fs)
	runner := export.NewRunner(export.NewService(emptyExportStore{}, nil))
	defer runner.Close()
	svc.exports = runner
	handler := NewHTTPServer(svc, "").Handler()
	token := testToken(t, "admin")

	rec := doRequest(t, handler, http.MethodPost, "/api/admin/export", token, "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body.String())
	}
	var started struct {
		Job export.Job `json:"job"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	var job export.Job
	for {
		rec = doRequest(t, handler, http.MethodGet, "/api/admin/export/"+started.Job.ID, token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("poll status = %d", rec.Code)
		}
		var polled struct {
			Job export.Job `json:"job"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &polled); err != nil {
			t.Fatalf("decode poll response: %v", err)
		}
		job = polled.Job
		if job.Status == export.JobDone || job.Status == export.JobFailed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("export still %s after deadline", job.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if job.Status != export.JobDone {
		t.Fatalf("job = %+v", job)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/admin/export/"+job.ID+"/download", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheet") {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("download body is empty")
	}
}

type sentMail struct {
	to   string
	name string
	link string
}

// fakeNotifier records transactional sends instead of talking to SMTP.
type fakeNotifier struct {
	mu            sync.Mutex
	verifications []sentMail
	resets        []sentMail
}

func (f *fakeNotifier) IsConfigured() bool { return true }
func (f *fakeNotifier) SendVerificationEmail(to, userName, verificationURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications = append(f.verifications, sentMail{to: to, name: userName, link: verificationURL})
	return nil
}
func (f *fakeNotifier) SendPasswordResetEmail(to, userName, resetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, sentMail{to: to, name: userName, link: resetURL})
	return nil
}
func (f *fakeNotifier) SendReviewDecisionEmail(to, userName, contentTitle, decision, comment string) error {
	return nil
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSignupSendsVerificationEmail(t *testing.T) {
	fs := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(fs)
	svc.authpw = authpw.NewService(fs)
	svc.email = notifier
	handler := NewHTTPServer(svc, "").Handler()

	rec := doRequest(t, handler, http.MethodPost, "/api/auth/signup", "",
		`{"email":"ada@example.com","password":"correct-horse","name":"Ada"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if payload := decodeResponse(t, rec); payload["devVerificationToken"] != nil {
		t.Error("dev token leaked while SMTP is configured")
	}

	eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.verifications) == 1
	})
	notifier.mu.Lock()
	sent := notifier.verifications[0]
	notifier.mu.Unlock()
	if sent.to != "ada@example.com" || sent.name != "Ada" {
		t.Errorf("sent = %+v", sent)
	}
	if !strings.Contains(sent.link, "/verify-email?token=") {
		t.Errorf("link = %q", sent.link)
	}
}

func TestPasswordResetRequestSendsEmail(t *testing.T) {
	fs := &fakeStore{
		getUserByEmailFn: func(_ context.Context, userEmail string) (store.User, error) {
			return store.User{ID: "usr_1", Name: "Ada", Email: userEmail, IsEmailVerified: true}, nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(fs)
	svc.authpw = authpw.NewService(fs)
	svc.email = notifier
	handler := NewHTTPServer(svc, "").Handler()

	rec := doRequest(t, handler, http.MethodPost, "/api/auth/reset-password/request", "",
		`{"email":"ada@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if payload := decodeResponse(t, rec); payload["devResetToken"] != nil {
		t.Error("dev token leaked while SMTP is configured")
	}

	eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.resets) == 1
	})
	notifier.mu.Lock()
	sent := notifier.resets[0]
	notifier.mu.Unlock()
	if sent.to != "ada@example.com" || sent.name != "Ada" {
		t.Errorf("sent = %+v", sent)
	}
	if !strings.Contains(sent.link, "/reset-password?token=") {
		t.Errorf("link = %q", sent.link)
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodGet, "/api/nonsense", testToken(t, "contributor"), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler(&fakeStore{})
	rec := doRequest(t, handler, http.MethodOptions, "/api/courses", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "http://localhost:5173" {
		t.Errorf("allow origin = %q", origin)
	}
}
