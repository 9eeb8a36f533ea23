// Package presence tracks which users hold live real-time channels.
package presence

import (
	"sort"
	"sync"
)

// Registry maps users to their open channels. All methods are safe for
// concurrent use; readers never observe a half-applied add or remove.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[string]struct{}
	owners   map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[string]struct{}),
		owners:   make(map[string]string),
	}
}

// Register adds channelID to userID's channel set. Registering the same pair
// twice is a no-op; a channel previously owned by another user is moved.
func (r *Registry) Register(userID, channelID string) {
	if userID == "" || channelID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.owners[channelID]; ok {
		if prev == userID {
			return
		}
		r.removeLocked(prev, channelID)
	}

	set, ok := r.channels[userID]
	if !ok {
		set = make(map[string]struct{}, 1)
		r.channels[userID] = set
	}
	set[channelID] = struct{}{}
	r.owners[channelID] = userID
}

// Unregister removes channelID from whichever user owns it and returns that
// user id. The user goes offline once its last channel is removed.
func (r *Registry) Unregister(channelID string) (userID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok = r.owners[channelID]
	if !ok {
		return "", false
	}
	r.removeLocked(userID, channelID)
	return userID, true
}

func (r *Registry) removeLocked(userID, channelID string) {
	delete(r.owners, channelID)
	set := r.channels[userID]
	delete(set, channelID)
	if len(set) == 0 {
		delete(r.channels, userID)
	}
}

// IsOnline reports whether userID has at least one open channel.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[userID]) > 0
}

// ChannelsFor returns a sorted copy of userID's channels, possibly empty.
func (r *Registry) ChannelsFor(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.channels[userID]
	out := make([]string, 0, len(set))
	for ch := range set {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// Online returns the sorted ids of users that are currently online.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.channels))
	for id := range r.channels {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
