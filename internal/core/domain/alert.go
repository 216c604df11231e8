package domain

import "time"

// AlertRefreshThreshold is how far past expiry an alert may drift before a
// refresh extends it again.
const AlertRefreshThreshold = time.Hour

// Alert is a user-owned market alert.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	ItemID    int       `json:"item_id"`
	Expiry    time.Time `json:"expiry"`
	CreatedAt time.Time `json:"created_at"`
}

// NeedsRefresh reports whether the alert expired at least
// AlertRefreshThreshold ago.
func (a *Alert) NeedsRefresh(now time.Time) bool {
	return !a.Expiry.After(now.Add(-AlertRefreshThreshold))
}

// AlertExpiry is a pending expiry change for one alert.
type AlertExpiry struct {
	AlertID string
	Expiry  time.Time
}
