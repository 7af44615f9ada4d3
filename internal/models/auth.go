// internal/models/auth.go
package models

import "time"

// Account is an authenticated principal as the auth provider reports it.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthTokens is the token set returned by a successful sign-in.
type AuthTokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int64     `json:"expiresIn"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ReceiptChannel is a delivery channel for a shared receipt.
type ReceiptChannel string

const (
	ChannelEmail ReceiptChannel = "email"
	ChannelSMS   ReceiptChannel = "sms"
)
