// Package repl runs taskadmin-cli commands interactively.
//
// Each input line is split into words, honouring single and double
// quotes, and handed to an Executor, which in the CLI runs the same
// command tree as one-shot invocations. A line ending in "?" lists
// completions for the words before it. History is kept across sessions
// in a file under the data directory.
package repl
