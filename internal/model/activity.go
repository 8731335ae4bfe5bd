package model

import "time"

// Activity event type constants. The backend emits more; these are the
// ones the client renders with dedicated labels.
const (
	EventDailyLogin       = "daily_login"
	EventExerciseComplete = "exercise_complete"
	EventTaskComplete     = "task_complete"
	EventBadgeEarned      = "badge_earned"
	EventLevelUp          = "level_up"
	EventCircleJoined     = "circle_joined"
	EventStreakBonus      = "streak_bonus"
)

// ActivityItem is one immutable entry in the user's activity ledger.
type ActivityItem struct {
	// ID is the backend identifier for this entry.
	ID int64 `json:"id"`

	// EventType identifies what happened (use Event* constants).
	EventType string `json:"event_type"`

	// Points is the score delta for this event. Zero means the event
	// carried no points (e.g. a social action).
	Points int `json:"points"`

	// EntityType and EntityID optionally deep-link to the subject of
	// the event (a badge, a task, a clan...).
	EntityType string `json:"entity_type,omitempty"`
	EntityID   int64  `json:"entity_id,omitempty"`

	// Details holds free-form context supplied by the backend.
	Details map[string]string `json:"details,omitempty"`

	// CreatedAt is when the event occurred.
	CreatedAt time.Time `json:"created_at"`
}

// ActivityGroup is a day bucket of activity items, used only for
// rendering. Groups are recomputed from CreatedAt on demand, never
// stored.
type ActivityGroup struct {
	// Label is "Today", "Yesterday", or a formatted date.
	Label string

	// Date is the bucket's calendar day.
	Date time.Time

	// Items are the entries for that day, newest first.
	Items []ActivityItem
}

// GroupByDay buckets items into day groups relative to now. Items are
// assumed to arrive newest first and keep that order inside each group.
func GroupByDay(items []ActivityItem, now time.Time) []ActivityGroup {
	var groups []ActivityGroup
	index := make(map[string]int)

	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	for _, item := range items {
		day := item.CreatedAt.Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			label := item.CreatedAt.Format("2 January 2006")
			switch day {
			case today:
				label = "Today"
			case yesterday:
				label = "Yesterday"
			}
			groups = append(groups, ActivityGroup{
				Label: label,
				Date:  item.CreatedAt.Truncate(24 * time.Hour),
			})
			i = len(groups) - 1
			index[day] = i
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}
