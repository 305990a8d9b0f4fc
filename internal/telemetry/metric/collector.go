package metric

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// StatsFunc reports current store counts keyed by label value.
type StatsFunc func() (users int, tasksByStatus map[string]int)

// Collector reads store statistics at scrape time, so the store does not
// need to push updates.
type Collector struct {
	stats StatsFunc
	users *prometheus.Desc
	tasks *prometheus.Desc
}

// NewCollector creates a collector backed by fn.
func NewCollector(fn StatsFunc) *Collector {
	return &Collector{
		stats: fn,
		users: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "users"),
			"Number of stored users.",
			nil, nil,
		),
		tasks: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "tasks"),
			"Number of stored tasks, by status.",
			[]string{"status"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.users
	ch <- c.tasks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.stats == nil {
		return
	}
	users, tasks := c.stats()
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(users))

	statuses := make([]string, 0, len(tasks))
	for s := range tasks {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		ch <- prometheus.MustNewConstMetric(c.tasks, prometheus.GaugeValue, float64(tasks[s]), s)
	}
}
