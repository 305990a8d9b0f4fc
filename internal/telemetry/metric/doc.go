// Package metric provides Prometheus metrics for taskadmin.
//
//   - prometheus.go: registry, typed recorders and the /metrics handler
//   - collector.go: a scrape-time collector for store statistics
//   - snapshot.go: flattened samples for printing outside Prometheus
//
// The CLI records API call outcomes and session transitions; the
// development backend records HTTP traffic and store sizes.
package metric
