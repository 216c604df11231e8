package domain

import "time"

const (
	SessionCookieName = "session"
	SessionCookiePath = "/"
	SessionMaxAge     = 30 * 24 * time.Hour

	// LoggedOutToken is the cookie value written on logout.
	LoggedOutToken = "x"

	// SessionIdleRefresh is how long a session may stay idle before its
	// last-active time is written again.
	SessionIdleRefresh = time.Hour
)

// Session binds a login to a user. Only a digest of the cookie token is kept.
type Session struct {
	ID         string    `json:"id"`
	TokenHash  string    `json:"-"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

func NewSession(id, tokenHash, userID string, now time.Time) *Session {
	now = now.UTC()
	return &Session{
		ID:         id,
		TokenHash:  tokenHash,
		UserID:     userID,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Touch moves LastActive to now when the session has been idle for longer
// than SessionIdleRefresh. It reports whether the session changed.
func (s *Session) Touch(now time.Time) bool {
	if !s.LastActive.Before(now.Add(-SessionIdleRefresh)) {
		return false
	}
	s.LastActive = now.UTC()
	return true
}

// IsAnonymousToken reports whether a cookie value carries no session.
func IsAnonymousToken(token string) bool {
	return token == "" || token == LoggedOutToken
}

// SessionCookie describes the session cookie to write back to the client.
type SessionCookie struct {
	Value  string
	MaxAge time.Duration
}

func LoginCookie(token string) SessionCookie {
	return SessionCookie{Value: token, MaxAge: SessionMaxAge}
}

func LogoutCookie() SessionCookie {
	return SessionCookie{Value: LoggedOutToken, MaxAge: -time.Second}
}
