package connection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		wantPrefix string
	}{
		{"with http prefix", "http://localhost:8000", "http://localhost:8000"},
		{"with https prefix", "https://localhost:8000", "https://localhost:8000"},
		{"without prefix", "localhost:8000", "http://localhost:8000"},
		{"trailing slash", "http://api.example.com/", "http://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(tt.server)
			if client.BaseURL() != tt.wantPrefix {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantPrefix)
			}
		})
	}
}

func TestWithHTTPClient(t *testing.T) {
	var used bool
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		used = true
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusNoContent)
		return rec.Result(), nil
	})}

	client := NewHTTPClient("example.invalid", WithHTTPClient(hc), WithHTTPClient(nil))
	resp, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()
	if !used {
		t.Error("custom http.Client not used")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestHTTPClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "taskadmin-cli/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Path != "/users" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithTokenSource(StaticToken("tok-123")))
	resp, err := client.Get(context.Background(), "/users")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()
}

func TestHTTPClient_EmptyTokenSendsNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("Authorization header sent: %q", r.Header.Get("Authorization"))
		}
	}))
	defer server.Close()

	for _, opt := range []Option{WithTokenSource(StaticToken("")), WithTimeout(0)} {
		client := NewHTTPClient(server.URL, opt)
		resp, err := client.Get(context.Background(), "/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
}

func TestHTTPClient_TokenSourceConsultedPerRequest(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
	}))
	defer server.Close()

	token := "first"
	client := NewHTTPClient(server.URL, WithTokenSource(TokenSourceFunc(func() string { return token })))
	for _, next := range []string{"second", ""} {
		resp, err := client.Get(context.Background(), "/")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		token = next
	}
	resp, _ := client.Get(context.Background(), "/")
	resp.Body.Close()

	want := []string{"Bearer first", "Bearer second", ""}
	if strings.Join(seen, "|") != strings.Join(want, "|") {
		t.Errorf("seen = %q, want %q", seen, want)
	}
}

func TestHTTPClient_Bodies(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch:
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				if err := r.ParseForm(); err != nil || r.PostForm.Get("username") != "admin" {
					t.Errorf("form = %v, %v", r.PostForm, err)
				}
				return
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
			}
			var body payload
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name != "test" || body.Value != 42 {
				t.Errorf("body = %+v, %v", body, err)
			}
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	ctx := context.Background()

	resp, err := client.Post(ctx, "/users", payload{Name: "test", Value: 42})
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("Post = %v, %v", resp, err)
	}
	resp.Body.Close()

	resp, err = client.Patch(ctx, "/users/1", payload{Name: "test", Value: 42})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = client.PostForm(ctx, "/token", url.Values{"username": {"admin"}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = client.Delete(ctx, "/users/1")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func TestHTTPClient_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewHTTPClient(addr).Get(context.Background(), "/health")
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("err = %v, want ErrConnection", err)
	}
	if domain.KindOf(err) != domain.KindConnection {
		t.Errorf("KindOf = %v", domain.KindOf(err))
	}
}

func respond(status int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.WriteHeader(status)
	rec.WriteString(body)
	return rec.Result()
}

func TestParseResponse_Success(t *testing.T) {
	var result struct {
		ID string `json:"id"`
	}
	if err := ParseResponse(respond(200, `{"id":"123"}`), &result); err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if result.ID != "123" {
		t.Errorf("result = %+v", result)
	}
}

func TestParseResponse_NilTarget(t *testing.T) {
	if err := ParseResponse(respond(200, `{"data":"ignored"}`), nil); err != nil {
		t.Errorf("ParseResponse with nil target should not error: %v", err)
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	for _, body := range []string{`not json`, ``, `{"id":`, `{"id":"1"}xyz`, `{"id":"1"}{"id":"2"}`} {
		var v map[string]any
		err := ParseResponse(respond(200, body), &v)
		if !errors.Is(err, domain.ErrProtocol) {
			t.Errorf("body %q: err = %v, want ErrProtocol", body, err)
		}
	}
}

func TestParseResponse_TrailingWhitespace(t *testing.T) {
	var v struct {
		ID string `json:"id"`
	}
	if err := ParseResponse(respond(200, "{\"id\":\"1\"}\n  \n"), &v); err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if v.ID != "1" {
		t.Errorf("ID = %q, want 1", v.ID)
	}
}

func TestParseResponse_Error(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", 401, `{"detail":"Incorrect username or password"}`, "Incorrect username or password"},
		{"validation list", 422, `{"detail":[{"loc":["body","password"],"msg":"too short","type":"value_error"}]}`, "too short"},
		{"no detail", 500, `Internal Server Error`, ""},
		{"object detail", 400, `{"detail":{"reason":"x"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponse(respond(tt.status, tt.body), nil)

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *StatusError", err)
			}
			if se.StatusCode != tt.status || se.Detail != tt.wantDetail {
				t.Errorf("StatusError = %+v", se)
			}
		})
	}
}

func TestStatusError_DomainError(t *testing.T) {
	withDetail := (&StatusError{StatusCode: 404, Detail: "User not found"}).DomainError("failed to update user")
	if withDetail.Message != "User not found" || withDetail.Kind != domain.KindNotFound {
		t.Errorf("with detail = %+v", withDetail)
	}

	fallback := (&StatusError{StatusCode: 500}).DomainError("failed to fetch users")
	if fallback.Message != "failed to fetch users" || fallback.Kind != domain.KindServer {
		t.Errorf("fallback = %+v", fallback)
	}
}
