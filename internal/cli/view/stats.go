package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// StatsAPI is the part of the API the statistics view calls.
type StatsAPI interface {
	GetTaskStatsByStatus(ctx context.Context) (*domain.TaskStatsByStatus, error)
	GetTaskStatsByType(ctx context.Context) (domain.TaskStatsByType, error)
}

// Bar is one bar of a chart.
type Bar struct {
	Label   string
	Count   int
	Percent float64
}

// Percent returns part as a percentage of total, 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

// Bars converts buckets to bars with percentages of their sum.
func Bars(buckets []domain.Bucket) []Bar {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	out := make([]Bar, len(buckets))
	for i, b := range buckets {
		out[i] = Bar{Label: b.Label, Count: b.Count, Percent: Percent(b.Count, total)}
	}
	return out
}

// Statistics is the task statistics view.
type Statistics struct {
	lifecycle
	api StatsAPI

	byStatus *domain.TaskStatsByStatus
	byType   domain.TaskStatsByType
}

// NewStatistics creates an unmounted view.
func NewStatistics(api StatsAPI, opts ...Option) *Statistics {
	v := &Statistics{api: api}
	v.init(opts)
	return v
}

// Mount loads both breakdowns.
func (v *Statistics) Mount(ctx context.Context) error {
	return v.Refresh(ctx)
}

// Refresh fetches both breakdowns concurrently. Either failing keeps the
// previous pair.
func (v *Statistics) Refresh(ctx context.Context) error {
	gen, ok := v.begin()
	if !ok {
		return nil
	}

	var (
		byStatus *domain.TaskStatsByStatus
		byType   domain.TaskStatsByType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = v.api.GetTaskStatsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = v.api.GetTaskStatsByType(gctx)
		return err
	})
	err := g.Wait()

	v.finish(gen, err, func() {
		v.byStatus = byStatus
		v.byType = byType
	})
	return err
}

// Loaded reports whether any statistics are held.
func (v *Statistics) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.byStatus != nil
}

// Total returns the number of tasks across all statuses.
func (v *Statistics) Total() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.byStatus == nil {
		return 0
	}
	return v.byStatus.Total()
}

// ByStatus returns the status breakdown, nil before the first success.
func (v *Statistics) ByStatus() *domain.TaskStatsByStatus {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.byStatus == nil {
		return nil
	}
	s := *v.byStatus
	return &s
}

// ByType returns a copy of the type breakdown.
func (v *Statistics) ByType() domain.TaskStatsByType {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(domain.TaskStatsByType, len(v.byType))
	for k, n := range v.byType {
		out[k] = n
	}
	return out
}

// StatusBars returns the status chart.
func (v *Statistics) StatusBars() []Bar {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.byStatus == nil {
		return nil
	}
	return Bars(v.byStatus.Buckets())
}

// TypeBars returns the type chart.
func (v *Statistics) TypeBars() []Bar {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Bars(v.byType.Buckets())
}
