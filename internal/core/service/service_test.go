package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/taskadmin-go/internal/storage/memory"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	users    *UserService
	tasks    *TaskService
	userRepo *memory.UserStore
	taskRepo *memory.TaskStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	userRepo, err := memory.NewUserStore(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	taskRepo, err := memory.NewTaskStore(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	users := NewUserService(userRepo, &UserServiceConfig{
		BcryptCost: bcrypt.MinCost,
		Now:        func() time.Time { return fixedNow },
	})
	tasks := NewTaskService(taskRepo, userRepo)
	tasks.now = func() time.Time { return fixedNow }

	return &fixture{users: users, tasks: tasks, userRepo: userRepo, taskRepo: taskRepo}
}
