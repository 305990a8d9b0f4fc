package view_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/yndnr/taskadmin-go/internal/cli/api"
	"github.com/yndnr/taskadmin-go/internal/cli/connection"
	"github.com/yndnr/taskadmin-go/internal/cli/view"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver/httpservertest"
)

func adminAPI(t *testing.T, b *httpservertest.Backend) *api.Client {
	t.Helper()
	token := b.IssueToken(t, httpservertest.AdminUsername)
	return api.New(connection.NewHTTPClient(b.URL, connection.WithTokenSource(connection.StaticToken(token))))
}

func TestUsers_DeleteAgainstBackend(t *testing.T) {
	b := httpservertest.New(t)
	victim := b.AddUser(t, "victim", "victim-password", domain.RoleUser)
	v := view.NewUsers(adminAPI(t, b))
	ctx := context.Background()

	if err := v.Mount(ctx); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	b.Reset()

	if err := v.Delete(ctx, victim.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	reqs := b.Requests()
	if len(reqs) != 2 || reqs[0].Method != "DELETE" || reqs[1].Path != "/users" {
		t.Fatalf("requests = %+v, want DELETE then GET /users", reqs)
	}
	for _, u := range v.All() {
		if u.ID == victim.ID {
			t.Error("deleted user still listed")
		}
	}
}

func TestTasks_FilterAgainstBackend(t *testing.T) {
	b := httpservertest.New(t, httpservertest.WithSeedTasks(30))
	v := view.NewTasks(adminAPI(t, b))
	if err := v.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	b.Reset()

	v.SetStatusFilter(string(domain.TaskCompleted))
	v.SetSearch(httpservertest.UserUsername)

	for _, task := range v.Visible() {
		if task.Status != domain.TaskCompleted {
			t.Errorf("task %s has status %s", task.ID, task.Status)
		}
		if task.Username != httpservertest.UserUsername && task.UserID != b.User.ID {
			t.Errorf("task %s belongs to %s", task.ID, task.Username)
		}
	}
	if n := b.RequestCount(); n != 0 {
		t.Errorf("filtering made %d requests", n)
	}
}

func TestStatistics_AgainstBackend(t *testing.T) {
	b := httpservertest.New(t, httpservertest.WithSeedTasks(20))
	v := view.NewStatistics(adminAPI(t, b))
	if err := v.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	if v.Total() != 20 {
		t.Errorf("Total() = %d, want 20", v.Total())
	}
	sum := 0.0
	for _, bar := range v.StatusBars() {
		sum += bar.Percent
	}
	if sum < 99.99 || sum > 100.01 {
		t.Errorf("status percentages sum to %v", sum)
	}
}

func TestStatistics_EndpointFailureAgainstBackend(t *testing.T) {
	var failType atomic.Bool
	b := httpservertest.New(t, httpservertest.WithSeedTasks(20), httpservertest.WithMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if failType.Load() && r.URL.Path == "/tasks/stats/type" {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}))
	notes := view.NewChanNotifier(4)
	v := view.NewStatistics(adminAPI(t, b), view.WithNotifier(notes))
	ctx := context.Background()
	if err := v.Mount(ctx); err != nil {
		t.Fatal(err)
	}

	failType.Store(true)
	if err := v.Refresh(ctx); err == nil {
		t.Fatal("Refresh() succeeded with a failing endpoint")
	}
	if v.Total() != 20 || v.ByType().Total() != 20 {
		t.Errorf("previous statistics lost: total=%d by type=%v", v.Total(), v.ByType())
	}
	got := notes.Drain()
	if len(got) != 1 || got[0].Level != view.LevelError {
		t.Errorf("notices = %+v", got)
	}
}
