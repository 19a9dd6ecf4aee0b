package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the area of the dashboard an audit event touched.
type Category string

const (
	CategorySession   Category = "session"
	CategoryDonor     Category = "donor"
	CategoryAdmin     Category = "admin"
	CategorySettings  Category = "settings"
	CategoryBroadcast Category = "broadcast"
	CategoryExport    Category = "export"
)

// Action represents the action that occurred.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionLogin    Action = "login"
	ActionLogout   Action = "logout"
	ActionDonation Action = "donation"
	ActionExport   Action = "export"
	ActionSend     Action = "send"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is a single entry in the dashboard-local audit trail. The
// coordination API keeps no history of staff actions, so this trail is the
// only record of who changed what from the dashboard.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	Severity    Severity  `json:"severity"`
	ActorPhone  string    `json:"actor_phone"`
	ActorName   string    `json:"actor_name"`
	ResourceID  string    `json:"resource_id"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
}

// NewEvent creates a new audit event with the current timestamp.
// PRE: actorPhone identifies the logged-in admin
// POST: Returns an info-severity Event with a fresh ID
func NewEvent(actorPhone, actorName string, category Category, action Action) Event {
	return Event{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		Category:   category,
		Action:     action,
		Severity:   SeverityInfo,
		ActorPhone: actorPhone,
		ActorName:  actorName,
	}
}

// WithSeverity sets the severity level.
// POST: Event severity is updated
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource records the remote record the action touched.
// POST: Event resource field is populated
func (e Event) WithResource(resourceID string) Event {
	e.ResourceID = resourceID
	return e
}

// WithDescription sets the event description.
// POST: Event description is set
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithIP records the staff browser's address.
// POST: Event network field is populated
func (e Event) WithIP(ip string) Event {
	e.IPAddress = ip
	return e
}
