package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver/httpservertest"
)

type apiResult struct {
	status int
	header http.Header
	body   []byte
}

func do(t *testing.T, b *httpservertest.Backend, method, path, token string, body io.Reader, contentType string) apiResult {
	t.Helper()
	req, err := http.NewRequest(method, b.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := b.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return apiResult{status: resp.StatusCode, header: resp.Header, body: data}
}

func (r apiResult) detail(t *testing.T) string {
	t.Helper()
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(r.body, &body); err != nil {
		t.Fatalf("decode %s: %v", r.body, err)
	}
	switch d := body.Detail.(type) {
	case string:
		return d
	case []any:
		if len(d) > 0 {
			if m, ok := d[0].(map[string]any); ok {
				s, _ := m["msg"].(string)
				return s
			}
		}
	}
	return ""
}

func login(username, password string) io.Reader {
	return strings.NewReader(url.Values{"username": {username}, "password": {password}}.Encode())
}

const form = "application/x-www-form-urlencoded"

func TestRouter_Token(t *testing.T) {
	b := httpservertest.New(t)

	t.Run("valid credentials", func(t *testing.T) {
		res := do(t, b, "POST", "/token", "", login(httpservertest.AdminUsername, httpservertest.AdminPassword), form)
		if res.status != http.StatusOK {
			t.Fatalf("status = %d: %s", res.status, res.body)
		}
		var tok struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		if err := json.Unmarshal(res.body, &tok); err != nil {
			t.Fatal(err)
		}
		if tok.TokenType != "bearer" || strings.Count(tok.AccessToken, ".") != 2 {
			t.Errorf("token = %+v", tok)
		}
		if sub, err := b.Tokens.Verify(tok.AccessToken); err != nil || sub != httpservertest.AdminUsername {
			t.Errorf("Verify() = %q, %v", sub, err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		res := do(t, b, "POST", "/token", "", login(httpservertest.AdminUsername, "wrong-password"), form)
		if res.status != http.StatusUnauthorized {
			t.Fatalf("status = %d", res.status)
		}
		if got := res.detail(t); got != "Incorrect username or password" {
			t.Errorf("detail = %q", got)
		}
		if res.header.Get("WWW-Authenticate") != "Bearer" {
			t.Error("missing WWW-Authenticate header")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		res := do(t, b, "POST", "/token", "", login("nobody", "whatever-pass"), form)
		if res.status != http.StatusUnauthorized || res.detail(t) != "Incorrect username or password" {
			t.Errorf("status = %d detail = %q", res.status, res.detail(t))
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		res := do(t, b, "POST", "/token", "", strings.NewReader("username=admin"), form)
		if res.status != http.StatusUnprocessableEntity {
			t.Errorf("status = %d", res.status)
		}
	})
}

func TestRouter_Me(t *testing.T) {
	b := httpservertest.New(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantDetail string
	}{
		{"admin", b.IssueToken(t, httpservertest.AdminUsername), http.StatusOK, ""},
		{"regular user", b.IssueToken(t, httpservertest.UserUsername), http.StatusOK, ""},
		{"no token", "", http.StatusUnauthorized, "Not authenticated"},
		{"expired token", b.ExpiredToken(t, httpservertest.AdminUsername), http.StatusUnauthorized, "Could not validate credentials"},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized, "Could not validate credentials"},
		{"deleted subject", b.IssueToken(t, "ghost"), http.StatusUnauthorized, "Could not validate credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, b, "GET", "/users/me", tt.token, nil, "")
			if res.status != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", res.status, tt.wantStatus, res.body)
			}
			if tt.wantDetail != "" && res.detail(t) != tt.wantDetail {
				t.Errorf("detail = %q, want %q", res.detail(t), tt.wantDetail)
			}
		})
	}

	res := do(t, b, "GET", "/users/me", b.IssueToken(t, httpservertest.UserUsername), nil, "")
	var me domain.User
	if err := json.Unmarshal(res.body, &me); err != nil {
		t.Fatal(err)
	}
	if me.Username != httpservertest.UserUsername || me.Role != domain.RoleUser || me.ID != b.User.ID {
		t.Errorf("me = %+v", me)
	}
}

func TestRouter_AdminOnly(t *testing.T) {
	b := httpservertest.New(t)
	userToken := b.IssueToken(t, httpservertest.UserUsername)

	routes := []struct{ method, path string }{
		{"GET", "/users"},
		{"POST", "/users"},
		{"PATCH", "/users/x"},
		{"DELETE", "/users/x"},
		{"GET", "/tasks"},
		{"GET", "/tasks/x"},
		{"DELETE", "/tasks/x"},
		{"GET", "/tasks/stats/status"},
		{"GET", "/tasks/stats/type"},
	}
	for _, rt := range routes {
		res := do(t, b, rt.method, rt.path, userToken, nil, "")
		if res.status != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want 403", rt.method, rt.path, res.status)
			continue
		}
		if got := res.detail(t); got != "The user doesn't have enough privileges" {
			t.Errorf("%s %s detail = %q", rt.method, rt.path, got)
		}

		if res := do(t, b, rt.method, rt.path, "", nil, ""); res.status != http.StatusUnauthorized {
			t.Errorf("%s %s without token status = %d, want 401", rt.method, rt.path, res.status)
		}
	}
}

func TestRouter_UserLifecycle(t *testing.T) {
	b := httpservertest.New(t)
	token := b.IssueToken(t, httpservertest.AdminUsername)

	res := do(t, b, "POST", "/users", token, strings.NewReader(`{"username":"carol","password":"carol-password"}`), "application/json")
	if res.status != http.StatusCreated {
		t.Fatalf("create status = %d: %s", res.status, res.body)
	}
	var created domain.User
	if err := json.Unmarshal(res.body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Role != domain.RoleUser || created.ID == "" {
		t.Errorf("created = %+v", created)
	}

	res = do(t, b, "POST", "/users", token, strings.NewReader(`{"username":"carol","password":"carol-password"}`), "application/json")
	if res.status != http.StatusBadRequest || res.detail(t) != "User with this username already exists" {
		t.Errorf("duplicate: status = %d detail = %q", res.status, res.detail(t))
	}

	res = do(t, b, "POST", "/users", token, strings.NewReader(`{"username":"dave","password":"short"}`), "application/json")
	if res.status != http.StatusUnprocessableEntity || res.detail(t) != "Password must be at least 8 characters" {
		t.Errorf("short password: status = %d detail = %q", res.status, res.detail(t))
	}

	res = do(t, b, "PATCH", "/users/"+created.ID, token, strings.NewReader(`{"role":"admin"}`), "application/json")
	if res.status != http.StatusOK {
		t.Fatalf("update status = %d: %s", res.status, res.body)
	}
	var updated domain.User
	if err := json.Unmarshal(res.body, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Errorf("updated role = %q", updated.Role)
	}

	res = do(t, b, "PATCH", "/users/missing", token, strings.NewReader(`{"role":"admin"}`), "application/json")
	if res.status != http.StatusNotFound || res.detail(t) != "User not found" {
		t.Errorf("update missing: status = %d detail = %q", res.status, res.detail(t))
	}

	res = do(t, b, "DELETE", "/users/"+b.Admin.ID, token, nil, "")
	if res.status != http.StatusBadRequest || res.detail(t) != "Cannot delete yourself" {
		t.Errorf("self delete: status = %d detail = %q", res.status, res.detail(t))
	}

	res = do(t, b, "DELETE", "/users/"+created.ID, token, nil, "")
	if res.status != http.StatusOK {
		t.Fatalf("delete status = %d", res.status)
	}

	res = do(t, b, "GET", "/users", token, nil, "")
	var users []domain.User
	if err := json.Unmarshal(res.body, &users); err != nil {
		t.Fatal(err)
	}
	for _, u := range users {
		if u.ID == created.ID {
			t.Error("deleted user still listed")
		}
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

func TestRouter_Tasks(t *testing.T) {
	b := httpservertest.New(t, httpservertest.WithSeedTasks(9))
	token := b.IssueToken(t, httpservertest.AdminUsername)

	res := do(t, b, "GET", "/tasks", token, nil, "")
	var tasks []domain.Task
	if err := json.Unmarshal(res.body, &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 9 {
		t.Fatalf("len(tasks) = %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Username == "" {
			t.Errorf("task %s has no username", task.ID)
		}
	}

	res = do(t, b, "GET", "/tasks/stats/status", token, nil, "")
	var byStatus domain.TaskStatsByStatus
	if err := json.Unmarshal(res.body, &byStatus); err != nil {
		t.Fatal(err)
	}
	if byStatus.Total() != 9 {
		t.Errorf("status total = %d", byStatus.Total())
	}

	res = do(t, b, "GET", "/tasks/stats/type", token, nil, "")
	var byType map[string]int
	if err := json.Unmarshal(res.body, &byType); err != nil {
		t.Fatal(err)
	}
	for _, tt := range domain.TaskTypes {
		if _, ok := byType[tt]; !ok {
			t.Errorf("type %s missing from stats", tt)
		}
	}

	id := tasks[0].ID
	if res := do(t, b, "GET", "/tasks/"+id, token, nil, ""); res.status != http.StatusOK {
		t.Errorf("get status = %d", res.status)
	}
	if res := do(t, b, "DELETE", "/tasks/"+id, token, nil, ""); res.status != http.StatusOK {
		t.Errorf("delete status = %d", res.status)
	}
	res = do(t, b, "GET", "/tasks/"+id, token, nil, "")
	if res.status != http.StatusNotFound || res.detail(t) != "Task not found" {
		t.Errorf("get deleted: status = %d detail = %q", res.status, res.detail(t))
	}
}

func TestRouter_Probes(t *testing.T) {
	b := httpservertest.New(t)

	res := do(t, b, "GET", "/health", "", nil, "")
	if res.status != http.StatusOK {
		t.Fatalf("health status = %d", res.status)
	}
	var health domain.Health
	if err := json.Unmarshal(res.body, &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}

	res = do(t, b, "GET", "/metrics", "", nil, "")
	if res.status != http.StatusOK || !strings.Contains(string(res.body), "taskadmin_http_requests_total") {
		t.Errorf("metrics status = %d", res.status)
	}

	res = do(t, b, "GET", "/nope", "", nil, "")
	if res.status != http.StatusNotFound || res.detail(t) != "Not Found" {
		t.Errorf("unknown route: status = %d detail = %q", res.status, res.detail(t))
	}
}

func TestRouter_RecordsRequests(t *testing.T) {
	b := httpservertest.New(t)
	token := b.IssueToken(t, httpservertest.AdminUsername)

	do(t, b, "GET", "/users", token, nil, "")

	reqs := b.Requests()
	if len(reqs) != 1 {
		t.Fatalf("recorded %d requests", len(reqs))
	}
	if reqs[0].Path != "/users" || reqs[0].Authorization != "Bearer "+token {
		t.Errorf("recorded %+v", reqs[0])
	}

	b.Reset()
	if b.RequestCount() != 0 {
		t.Error("Reset() did not clear requests")
	}
}

func TestRouter_RateLimit(t *testing.T) {
	b := httpservertest.New(t, httpservertest.WithRateLimit(1, 1))
	token := b.IssueToken(t, httpservertest.AdminUsername)

	first := do(t, b, "GET", "/users", token, nil, "")
	second := do(t, b, "GET", "/users", token, nil, "")
	if first.status != http.StatusOK || second.status != http.StatusTooManyRequests {
		t.Errorf("statuses = %d, %d", first.status, second.status)
	}
}
