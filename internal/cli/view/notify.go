package view

import (
	"sync"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// Level is the severity of a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a user-facing message about an operation.
type Notice struct {
	Level   Level
	Message string
	// Kind classifies errors; empty for successes.
	Kind domain.ErrorKind
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})

// ChanNotifier delivers notices on a buffered channel and drops them when
// the buffer is full.
type ChanNotifier struct {
	C chan Notice

	mu      sync.Mutex
	dropped int
}

// NewChanNotifier creates a notifier with room for size notices.
func NewChanNotifier(size int) *ChanNotifier {
	return &ChanNotifier{C: make(chan Notice, size)}
}

func (n *ChanNotifier) Notify(notice Notice) {
	select {
	case n.C <- notice:
	default:
		n.mu.Lock()
		n.dropped++
		n.mu.Unlock()
	}
}

// Dropped returns how many notices did not fit.
func (n *ChanNotifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Drain returns the queued notices without blocking.
func (n *ChanNotifier) Drain() []Notice {
	var out []Notice
	for {
		select {
		case notice := <-n.C:
			out = append(out, notice)
		default:
			return out
		}
	}
}

func errorNotice(err error) Notice {
	return Notice{Level: LevelError, Message: domain.MessageOf(err), Kind: domain.KindOf(err)}
}

func successNotice(msg string) Notice {
	return Notice{Level: LevelSuccess, Message: msg}
}
