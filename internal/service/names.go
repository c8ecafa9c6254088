package service

import "sync"

// Directory is the in-process user-id to display-name map, populated on
// login. Best-effort only: it is not persisted and resets on restart, so
// ranking and offer rows may show bare IDs until their users log in again.
type Directory struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewDirectory creates an empty name directory.
func NewDirectory() *Directory {
	return &Directory{names: make(map[string]string)}
}

// Set records a user's display name.
func (d *Directory) Set(userID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names[userID] = name
}

// Get returns the user's display name, or "" when unknown.
func (d *Directory) Get(userID string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names[userID]
}
