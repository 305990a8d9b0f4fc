package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/yndnr/taskadmin-go/internal/cli/connection"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

// Fallback messages used when the backend sends no detail.
const (
	MsgLogin         = "invalid credentials"
	MsgCurrentUser   = "failed to fetch current user"
	MsgFetchUsers    = "failed to fetch users"
	MsgCreateUser    = "failed to create user"
	MsgUpdateUser    = "failed to update user"
	MsgDeleteUser    = "failed to delete user"
	MsgFetchTasks    = "failed to fetch tasks"
	MsgFetchTask     = "failed to fetch task"
	MsgDeleteTask    = "failed to delete task"
	MsgStatsByStatus = "failed to fetch task statistics by status"
	MsgStatsByType   = "failed to fetch task statistics by type"
	MsgHealth        = "failed to fetch health"
)

const (
	outcomeSuccess    = "success"
	outcomeError      = "error"
	outcomeConnection = "connection_error"
)

// Client calls the task service.
type Client struct {
	http    *connection.HTTPClient
	metrics *metric.Registry
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records per-operation counts and latencies in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(c *Client) { c.metrics = reg }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client over hc.
func New(hc *connection.HTTPClient, opts ...Option) *Client {
	c := &Client{http: hc, log: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// Login exchanges credentials for an access token. It does not touch
// any session state.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	err := c.call(ctx, "login", MsgLogin, &out, func() (*http.Response, error) {
		return c.http.PostForm(ctx, "/token", form)
	})
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", domain.ErrProtocol.WithDetails("missing access_token")
	}
	return out.AccessToken, nil
}

// GetCurrentUser returns the profile of the token holder.
func (c *Client) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "current_user", MsgCurrentUser, "/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUsers lists all users.
func (c *Client) GetUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := c.get(ctx, "list_users", MsgFetchUsers, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser validates req and creates the user.
func (c *Client) CreateUser(ctx context.Context, req domain.UserCreate) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var u domain.User
	err := c.call(ctx, "create_user", MsgCreateUser, &u, func() (*http.Response, error) {
		return c.http.Post(ctx, "/users", req)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser validates req and applies it to user id.
func (c *Client) UpdateUser(ctx context.Context, id string, req domain.UserUpdate) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var u domain.User
	err := c.call(ctx, "update_user", MsgUpdateUser, &u, func() (*http.Response, error) {
		return c.http.Patch(ctx, "/users/"+url.PathEscape(id), req)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser deletes user id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.call(ctx, "delete_user", MsgDeleteUser, nil, func() (*http.Response, error) {
		return c.http.Delete(ctx, "/users/"+url.PathEscape(id))
	})
}

// GetAllTasks lists every task.
func (c *Client) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := c.get(ctx, "list_tasks", MsgFetchTasks, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns task id.
func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := c.get(ctx, "get_task", MsgFetchTask, "/tasks/"+url.PathEscape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask deletes task id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, "delete_task", MsgDeleteTask, nil, func() (*http.Response, error) {
		return c.http.Delete(ctx, "/tasks/"+url.PathEscape(id))
	})
}

// GetTaskStatsByStatus returns task counts per status.
func (c *Client) GetTaskStatsByStatus(ctx context.Context) (*domain.TaskStatsByStatus, error) {
	var s domain.TaskStatsByStatus
	if err := c.get(ctx, "stats_status", MsgStatsByStatus, "/tasks/stats/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetTaskStatsByType returns task counts per type.
func (c *Client) GetTaskStatsByType(ctx context.Context) (domain.TaskStatsByType, error) {
	s := domain.TaskStatsByType{}
	if err := c.get(ctx, "stats_type", MsgStatsByType, "/tasks/stats/type", &s); err != nil {
		return nil, err
	}
	return s, nil
}

// Health returns the backend health report.
func (c *Client) Health(ctx context.Context) (*domain.Health, error) {
	var h domain.Health
	if err := c.get(ctx, "health", MsgHealth, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) get(ctx context.Context, op, fallback, path string, target any) error {
	return c.call(ctx, op, fallback, target, func() (*http.Response, error) {
		return c.http.Get(ctx, path)
	})
}

// call sends one request and decodes the response into target.
func (c *Client) call(ctx context.Context, op, fallback string, target any, send func() (*http.Response, error)) error {
	start := time.Now()
	err := c.do(send, fallback, target)

	outcome := outcomeSuccess
	switch {
	case err == nil:
	case domain.KindOf(err) == domain.KindConnection:
		outcome = outcomeConnection
	default:
		outcome = outcomeError
	}
	if c.metrics != nil {
		c.metrics.RecordAPICall(op, outcome, time.Since(start))
	}
	if err != nil {
		c.log.Debug("api call failed", "op", op, "error", err)
	}
	return err
}

func (c *Client) do(send func() (*http.Response, error), fallback string, target any) error {
	resp, err := send()
	if err != nil {
		return err
	}
	err = connection.ParseResponse(resp, target)
	var se *connection.StatusError
	if errors.As(err, &se) {
		return se.DomainError(fallback)
	}
	return err
}
