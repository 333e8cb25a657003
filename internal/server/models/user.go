// Package models defines the server-side data models persisted in the
// database and exchanged with clients.
package models

import "time"

// User is an account. PinHash is empty while no PIN is set.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	PinHash      string
	CreatedAt    time.Time
}

// HasPin reports whether the lock gate is armed for this user.
func (u *User) HasPin() bool {
	return u.PinHash != ""
}
