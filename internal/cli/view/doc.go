// Package view holds the state behind the users, tasks and statistics
// screens.
//
// Each view follows the same lifecycle. Mount and Refresh fetch from the
// API and replace the held data on success; on failure the previous data
// is kept, the error goes to the Notifier and loading ends. Mutations call
// the API and then refetch, so held data is never patched locally.
// Filters are evaluated on read and never touch the network.
//
// Results that arrive after Dispose, or after a newer fetch started, are
// dropped.
package view
