package models

import "time"

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token          string    `json:"token"`
	ExpirationTime time.Time `json:"expirationTime"`
}
