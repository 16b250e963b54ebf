package models

import "time"

// Session is the server-side record of an established login. Only the
// SHA-256 digest of the bearer token is stored.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Account   *Account  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionMeta carries request details recorded alongside a new session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// SessionState is the identity resolved for a single request. The zero
// value is an anonymous visitor.
type SessionState struct {
	AccountID uint
}

// Anonymous returns the state of a visitor without a live session.
func Anonymous() SessionState {
	return SessionState{}
}

// AuthenticatedAs returns the state of a visitor logged in as accountID.
func AuthenticatedAs(accountID uint) SessionState {
	return SessionState{AccountID: accountID}
}

// IsAuthenticated reports whether the state carries an account.
func (s SessionState) IsAuthenticated() bool {
	return s.AccountID != 0
}
