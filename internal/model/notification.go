package model

import "time"

// NotificationCategory identifies the kind of event a notification reports.
type NotificationCategory string

const (
	CategorySocial NotificationCategory = "social"
	CategorySystem NotificationCategory = "system"
	CategoryLevel  NotificationCategory = "level"
	CategoryCircle NotificationCategory = "circle"
	CategoryPoints NotificationCategory = "points"
	CategoryExpert NotificationCategory = "expert"
)

// Notification represents a single alert surfaced to the user.
// Notifications are created server-side; the client only ever moves
// them from unread to read.
type Notification struct {
	// ID is the backend identifier for this notification.
	ID int64 `json:"id"`

	// Category classifies the triggering event.
	Category NotificationCategory `json:"category"`

	// Title is the short human-readable headline.
	Title string `json:"title"`

	// Body is the optional longer message text.
	Body string `json:"body,omitempty"`

	// Icon names the icon shown next to the notification.
	Icon string `json:"icon,omitempty"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"is_read"`

	// ActionURL is an optional deep link into the app.
	ActionURL string `json:"action_url,omitempty"`

	// CreatedAt is when the backend generated this notification.
	CreatedAt time.Time `json:"created_at"`
}

// NotificationPage is one full snapshot of the notification collection
// as returned by the backend.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// CountUnread recomputes the unread aggregate from the loaded page.
// The displayed counter always agrees with the loaded collection.
func (p NotificationPage) CountUnread() int {
	n := 0
	for _, item := range p.Notifications {
		if !item.Read {
			n++
		}
	}
	return n
}
