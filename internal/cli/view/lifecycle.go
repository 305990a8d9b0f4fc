package view

import "sync"

// Option configures a view.
type Option func(*lifecycle)

// WithNotifier sets where notices go. The default drops them.
func WithNotifier(n Notifier) Option {
	return func(l *lifecycle) { l.notifier = n }
}

// WithOnChange registers fn to run after every state change, outside any
// lock.
func WithOnChange(fn func()) Option {
	return func(l *lifecycle) { l.onChange = fn }
}

// lifecycle tracks loading, disposal and fetch generations. Embedders
// guard their own fields with mu.
type lifecycle struct {
	mu       sync.RWMutex
	gen      uint64
	disposed bool
	loading  bool
	lastErr  string

	notifier Notifier
	onChange func()
}

// init applies opts in place; lifecycle holds a mutex and must not be
// copied.
func (l *lifecycle) init(opts []Option) {
	l.notifier = Discard
	for _, opt := range opts {
		opt(l)
	}
}

// begin starts a fetch and returns its generation. ok is false after
// Dispose.
func (l *lifecycle) begin() (gen uint64, ok bool) {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return 0, false
	}
	l.gen++
	gen = l.gen
	l.loading = true
	l.mu.Unlock()
	l.changed()
	return gen, true
}

// finish applies the outcome of fetch gen. apply runs with mu held and
// only on success. It reports whether the result was current.
func (l *lifecycle) finish(gen uint64, err error, apply func()) bool {
	l.mu.Lock()
	if l.disposed || gen != l.gen {
		l.mu.Unlock()
		return false
	}
	l.loading = false
	if err != nil {
		l.lastErr = errorNotice(err).Message
	} else {
		l.lastErr = ""
		apply()
	}
	l.mu.Unlock()

	if err != nil {
		l.notifier.Notify(errorNotice(err))
	}
	l.changed()
	return true
}

// mutated reports the outcome of a mutation. It reports false after
// Dispose.
func (l *lifecycle) mutated(err error, success string) bool {
	l.mu.RLock()
	disposed := l.disposed
	l.mu.RUnlock()
	if disposed {
		return false
	}
	if err != nil {
		l.notifier.Notify(errorNotice(err))
	} else {
		l.notifier.Notify(successNotice(success))
	}
	return true
}

func (l *lifecycle) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Dispose stops the view from applying any further results.
func (l *lifecycle) Dispose() {
	l.mu.Lock()
	l.disposed = true
	l.mu.Unlock()
}

// Loading reports whether a fetch is in flight.
func (l *lifecycle) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Err returns the message of the last failed fetch, "" after a success.
func (l *lifecycle) Err() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}
