package entity

type NotificationType string

const (
	TypeWarning NotificationType = "warning"
	TypeSuccess NotificationType = "success"
	TypeInfo    NotificationType = "info"
)

// Icon is a symbolic tag for the glyph shown next to a notification.
// Mapping to a concrete icon-font name happens in the HTTP layer.
type Icon string

const (
	IconNone        Icon = ""
	IconThermometer Icon = "thermometer"
	IconWater       Icon = "water"
	IconFlask       Icon = "flask"
	IconSparkles    Icon = "sparkles"
	IconStorefront  Icon = "storefront"
	IconInfo        Icon = "info"
)

// Notification is a single user-facing alert with read/unread state.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
	Read      bool             `json:"read"`
	Icon      Icon             `json:"icon,omitempty"`
}

// NotificationInput carries the caller-supplied fields of a new
// notification; id, timestamp and read state are assigned by the store.
type NotificationInput struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Icon    Icon             `json:"icon,omitempty"`
}
