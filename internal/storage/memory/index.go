package memory

import (
	"strings"

	"github.com/yndnr/taskadmin-go/pkg/cmap"
)

// UsernameIndex maps usernames to user IDs and enforces uniqueness.
// Lookups are case-sensitive, matching the backend's login semantics.
type UsernameIndex struct {
	index *cmap.Map[string, string]
}

// NewUsernameIndex creates an empty index.
func NewUsernameIndex() *UsernameIndex {
	return &UsernameIndex{index: cmap.New[string, string]()}
}

// Reserve claims username for id. It returns false if another ID holds it.
func (i *UsernameIndex) Reserve(username, id string) bool {
	_, ok := i.index.Compute(username, func(current string, exists bool) (string, bool) {
		if exists && current != id {
			return current, false
		}
		return id, true
	})
	return ok
}

// Lookup returns the ID holding username.
func (i *UsernameIndex) Lookup(username string) (string, bool) {
	return i.index.Get(username)
}

// Release frees username if it is held by id.
func (i *UsernameIndex) Release(username, id string) {
	if current, ok := i.index.Get(username); ok && current == id {
		i.index.Delete(username)
	}
}

// Len returns the number of reserved usernames.
func (i *UsernameIndex) Len() int {
	return i.index.Count()
}

// normalizeKey trims a username before indexing.
func normalizeKey(username string) string {
	return strings.TrimSpace(username)
}
