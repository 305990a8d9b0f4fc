package benchmark

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/core/service"
	"github.com/yndnr/taskadmin-go/internal/storage/memory"
)

// TaskCounts defines the task counts for benchmarking.
var TaskCounts = []int{100, 1000, 10000, 50000}

// SmallTaskCounts for quick benchmarks.
var SmallTaskCounts = []int{100, 1000}

// fixture is a backend service stack over in-memory stores.
type fixture struct {
	users  *service.UserService
	tasks  *service.TaskService
	owners []*domain.User
}

// newFixture creates ownerCount users and count seeded tasks.
func newFixture(b *testing.B, ownerCount, count int) *fixture {
	b.Helper()
	ctx := context.Background()

	userStore, err := memory.NewUserStore(ctx, nil)
	if err != nil {
		b.Fatal(err)
	}
	taskStore, err := memory.NewTaskStore(ctx, nil)
	if err != nil {
		b.Fatal(err)
	}

	f := &fixture{
		users: service.NewUserService(userStore, &service.UserServiceConfig{BcryptCost: bcrypt.MinCost}),
		tasks: service.NewTaskService(taskStore, userStore),
	}
	for i := 0; i < ownerCount; i++ {
		u, err := f.users.Create(ctx, domain.UserCreate{
			Username: fmt.Sprintf("user-%d", i),
			Password: "bench-password",
			Role:     domain.RoleUser,
		})
		if err != nil {
			b.Fatal(err)
		}
		f.owners = append(f.owners, u)
	}
	if _, err := f.tasks.Seed(ctx, count, f.owners, 1); err != nil {
		b.Fatal(err)
	}
	return f
}

// list returns every task with usernames filled in.
func (f *fixture) list(b *testing.B) []*domain.Task {
	b.Helper()
	tasks, err := f.tasks.List(context.Background())
	if err != nil {
		b.Fatal(err)
	}
	return tasks
}
