// Package notify holds the static notification-type catalog: for every
// domain event type, its category, priority, targeting mode, and the default
// opt-in used when a user has no explicit preference row.
package notify

// Priority levels for notifications.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Categories group notification types for preference management.
const (
	CategoryChat        = "chat"
	CategoryCommunity   = "community"
	CategoryJobs        = "jobs"
	CategoryMarketplace = "marketplace"
	CategoryEvents      = "events"
	CategoryAdmin       = "admin"
)

// Notification types produced by the platform.
const (
	TypeNewMessage        = "new_message"
	TypeIdeaInterest      = "idea_interest"
	TypeIdeaComment       = "idea_comment"
	TypeJobPosted         = "job_posted"
	TypeListingPosted     = "listing_posted"
	TypeEventReminder     = "event_reminder"
	TypeAdminAnnouncement = "admin_announcement"
	TypeAdminAlert        = "admin_alert"
)

// Config is the static configuration of one notification type.
type Config struct {
	Type             string
	Category         string
	Priority         string
	RequiresInterest bool
	DefaultEnabled   bool
}

var catalog = map[string]Config{
	TypeNewMessage:        {TypeNewMessage, CategoryChat, PriorityHigh, false, true},
	TypeIdeaInterest:      {TypeIdeaInterest, CategoryCommunity, PriorityNormal, true, true},
	TypeIdeaComment:       {TypeIdeaComment, CategoryCommunity, PriorityNormal, false, true},
	TypeJobPosted:         {TypeJobPosted, CategoryJobs, PriorityNormal, true, true},
	TypeListingPosted:     {TypeListingPosted, CategoryMarketplace, PriorityLow, true, false},
	TypeEventReminder:     {TypeEventReminder, CategoryEvents, PriorityHigh, false, true},
	TypeAdminAnnouncement: {TypeAdminAnnouncement, CategoryAdmin, PriorityHigh, false, true},
	TypeAdminAlert:        {TypeAdminAlert, CategoryAdmin, PriorityUrgent, false, true},
}

// Lookup returns the configuration for a notification type.
func Lookup(notificationType string) (Config, bool) {
	c, ok := catalog[notificationType]
	return c, ok
}

// All returns every configured type. Order is unspecified.
func All() []Config {
	res := make([]Config, 0, len(catalog))
	for _, c := range catalog {
		res = append(res, c)
	}
	return res
}
