// Package models holds the persistent record types owned by the server.
package models

import "time"

// Account is a registered user of the API. PasswordHash holds the bcrypt
// hash of the password; the plaintext is never stored. Email is unique,
// matched case-sensitively as stored.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
