// Package domain contains core concepts of the chat system.
// No runtime, storage, or UI logic should be added here.
package domain

import "time"

type UserID string

// User is created on first registration and never deleted.
// Presence (IsOnline, LastSeen) is the only mutable part.
type User struct {
	ID       UserID
	Name     string
	Email    string
	Avatar   string
	IsOnline bool
	LastSeen time.Time
}
