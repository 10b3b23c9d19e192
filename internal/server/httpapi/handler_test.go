package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/dmitrijs2005/suggestbox/internal/logging"
	"github.com/dmitrijs2005/suggestbox/internal/server/models"
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeAuth struct {
	token    string
	username string
}

func (f *fakeAuth) Login(username, password string) (string, error) {
	if username == f.username && password == "admin123" {
		return f.token, nil
	}
	return "", common.ErrInvalidCredentials
}

func (f *fakeAuth) Check(token string) (string, bool) {
	if token != "" && token == f.token {
		return f.username, true
	}
	return "", false
}

// memMessages implements MessageService in memory with the same contract as
// the real service.
type memMessages struct {
	list []*models.Message
}

func (m *memMessages) Submit(ctx context.Context, body, category string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.ErrValidation
	}
	if category == "" {
		category = "General"
	}
	msg := &models.Message{
		ID:          uuid.NewString(),
		Body:        body,
		Category:    category,
		SubmittedAt: time.Now().UTC(),
	}
	m.list = append([]*models.Message{msg}, m.list...)
	return msg, nil
}

func (m *memMessages) List(ctx context.Context) ([]*models.Message, error) {
	return m.list, nil
}

func (m *memMessages) MarkRead(ctx context.Context, id string) error {
	for _, msg := range m.list {
		if msg.ID == id {
			msg.Read = true
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memMessages) Delete(ctx context.Context, id string) error {
	for i, msg := range m.list {
		if msg.ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memMessages) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{ByCategory: map[string]int{}}
	for _, msg := range m.list {
		stats.Total++
		if !msg.Read {
			stats.Unread++
		}
		stats.ByCategory[msg.Category]++
	}
	return stats, nil
}

func newTestApp(t *testing.T) (*iris.Application, *memMessages, *fakeAuth) {
	t.Helper()

	store := &memMessages{}
	auth := &fakeAuth{token: "session-token", username: "admin"}

	srv, err := NewServer("127.0.0.1:0", nopLogger{}, store, auth, "", time.Hour)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}

	app := srv.buildApp()
	if err := app.Build(); err != nil {
		t.Fatalf("app.Build error: %v", err)
	}
	return app, store, auth
}

func do(t *testing.T, app *iris.Application, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return m
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: common.SessionCookieName, Value: token}
}

// --- submission ---

func TestSubmit_Created(t *testing.T) {
	app, store, _ := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/messages", `{"message":"Add dark mode","category":"Feature"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}

	if len(store.list) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(store.list))
	}
	if store.list[0].Category != "Feature" || store.list[0].Read {
		t.Fatalf("unexpected stored message: %+v", store.list[0])
	}
}

func TestSubmit_DefaultsCategory(t *testing.T) {
	app, store, _ := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/messages", `{"message":"hello"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if store.list[0].Category != "General" {
		t.Fatalf("expected General, got %q", store.list[0].Category)
	}
}

func TestSubmit_EmptyBodyRejected(t *testing.T) {
	app, store, _ := newTestApp(t)

	for _, payload := range []string{`{"message":""}`, `{"message":"   "}`, `{}`} {
		w := do(t, app, http.MethodPost, "/api/messages", payload, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, w.Code)
		}
		body := decode(t, w)
		if body["error"] == "" {
			t.Fatalf("expected error field, got %v", body)
		}
	}
	if len(store.list) != 0 {
		t.Fatalf("rejected submissions must not be stored")
	}
}

func TestSubmit_MalformedJSON(t *testing.T) {
	app, _, _ := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/messages", `{not-json`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// --- auth ---

func TestLogin_SuccessSetsSessionCookie(t *testing.T) {
	app, _, auth := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == common.SessionCookieName && c.Value == auth.token {
			found = true
			if !c.HttpOnly {
				t.Fatalf("session cookie must be HttpOnly")
			}
		}
	}
	if !found {
		t.Fatalf("expected session cookie in response")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, payload := range []string{
		`{"username":"admin","password":"wrong"}`,
		`{"username":"root","password":"admin123"}`,
	} {
		w := do(t, app, http.MethodPost, "/api/auth/login", payload, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("payload %s: expected 401, got %d", payload, w.Code)
		}
		if len(w.Result().Cookies()) != 0 {
			t.Fatalf("failed login must not set a cookie")
		}
	}
}

func TestCheckAuth(t *testing.T) {
	app, _, auth := newTestApp(t)

	w := do(t, app, http.MethodGet, "/api/auth/check", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["authenticated"] != false {
		t.Fatalf("expected authenticated=false, got %v", body)
	}

	w = do(t, app, http.MethodGet, "/api/auth/check", "", sessionCookie(auth.token))
	body := decode(t, w)
	if body["authenticated"] != true || body["username"] != "admin" {
		t.Fatalf("expected authenticated admin, got %v", body)
	}
}

func TestLogout(t *testing.T) {
	app, _, auth := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/auth/logout", "", sessionCookie(auth.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}
}

// --- moderation gate ---

func TestModeration_RequiresSession(t *testing.T) {
	app, _, _ := newTestApp(t)

	calls := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/messages"},
		{http.MethodPatch, "/api/messages/some-id/read"},
		{http.MethodDelete, "/api/messages/some-id"},
		{http.MethodGet, "/api/stats"},
	}

	for _, c := range calls {
		w := do(t, app, c.method, c.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", c.method, c.path, w.Code)
		}
		body := decode(t, w)
		if body["login_required"] != true {
			t.Fatalf("%s %s: expected login_required=true, got %v", c.method, c.path, body)
		}
	}
}

func TestModeration_RejectsForeignToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	w := do(t, app, http.MethodGet, "/api/messages", "", sessionCookie("forged"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// --- moderation ops ---

func TestMarkRead_NotFound(t *testing.T) {
	app, _, auth := newTestApp(t)

	w := do(t, app, http.MethodPatch, "/api/messages/missing/read", "", sessionCookie(auth.token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDelete_NotFound(t *testing.T) {
	app, _, auth := newTestApp(t)

	w := do(t, app, http.MethodDelete, "/api/messages/missing", "", sessionCookie(auth.token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMarkRead_IdempotentEffect(t *testing.T) {
	app, store, auth := newTestApp(t)

	msg, err := store.Submit(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("seed error: %v", err)
	}

	for i := 0; i < 2; i++ {
		w := do(t, app, http.MethodPatch, "/api/messages/"+msg.ID+"/read", "", sessionCookie(auth.token))
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, w.Code)
		}
		if body := decode(t, w); body["success"] != true {
			t.Fatalf("attempt %d: expected success=true, got %v", i, body)
		}
	}
	if !store.list[0].Read {
		t.Fatalf("message must be read after mark-read")
	}
}

// --- end to end: submit, then log in and moderate ---

func TestScenario_SubmitLoginModerate(t *testing.T) {
	app, _, _ := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/messages", `{"message":"Add dark mode","category":"Feature"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", w.Code)
	}

	w = do(t, app, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatalf("login must set the session cookie")
	}

	w = do(t, app, http.MethodGet, "/api/messages", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("list: invalid JSON: %v", err)
	}
	if len(list) != 1 || list[0]["message"] != "Add dark mode" || list[0]["read"] != false {
		t.Fatalf("unexpected listing: %v", list)
	}

	id, _ := list[0]["id"].(string)
	w = do(t, app, http.MethodPatch, "/api/messages/"+id+"/read", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("mark-read: expected 200, got %d", w.Code)
	}

	w = do(t, app, http.MethodGet, "/api/stats", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", w.Code)
	}
	stats := decode(t, w)
	if stats["total"] != float64(1) || stats["unread"] != float64(0) {
		t.Fatalf("unexpected stats: %v", stats)
	}
	byCategory, _ := stats["byCategory"].(map[string]any)
	if byCategory["Feature"] != float64(1) {
		t.Fatalf("unexpected byCategory: %v", byCategory)
	}
}
