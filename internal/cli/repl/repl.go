package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Executor runs one command line.
type Executor func(ctx context.Context, args []string) error

// ErrExit ends the loop when returned by an Executor.
var ErrExit = errors.New("repl: exit")

// Config configures a REPL.
type Config struct {
	// Input is read line by line. A *bufio.Reader is used as is, so
	// commands prompting on the same reader see the following lines.
	Input  io.Reader
	Output io.Writer
	// Prompt is evaluated before every line, so it can show who is
	// logged in.
	Prompt    func() string
	Execute   Executor
	Completer *Completer
	History   *History
}

// REPL is a read-eval-print loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    func() string
	execute   Executor
	completer *Completer
	history   *History
}

// New creates a REPL. Nil completer and history are replaced by empty
// ones.
func New(cfg Config) *REPL {
	r := &REPL{
		input:     cfg.Input,
		output:    cfg.Output,
		prompt:    cfg.Prompt,
		execute:   cfg.Execute,
		completer: cfg.Completer,
		history:   cfg.History,
	}
	if r.prompt == nil {
		r.prompt = func() string { return "taskadmin> " }
	}
	if r.completer == nil {
		r.completer = NewCompleter(nil)
	}
	if r.history == nil {
		r.history = NewHistory("", DefaultHistorySize)
	}
	return r
}

// Run reads lines until EOF, exit, quit or ctx is done. Command errors
// are printed and do not end the loop.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt())

		raw, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || raw == "") {
			fmt.Fprintln(r.output)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, "?") {
			r.printCompletions(strings.TrimSpace(strings.TrimSuffix(line, "?")))
			continue
		}

		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "history":
			r.printHistory()
			continue
		}

		args, err := SplitArgs(line)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			continue
		}
		if r.execute == nil {
			continue
		}
		err = r.execute(ctx, args)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) printCompletions(prefix string) {
	for _, s := range r.completer.Complete(prefix) {
		fmt.Fprintln(r.output, "  "+s)
	}
}

func (r *REPL) printHistory() {
	for i, line := range r.history.Entries() {
		fmt.Fprintf(r.output, "%4d  %s\n", i+1, line)
	}
}

// SplitArgs splits line into words. Quotes group words and are removed;
// a backslash escapes the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, c := range line {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(c)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
