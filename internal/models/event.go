package models

// TargetType names the kind of entity an engagement event refers to.
// The backend case-normalizes these values on receipt.
type TargetType string

const (
	TargetFreight TargetType = "FREIGHT"
	TargetAd      TargetType = "AD"
	TargetGroup   TargetType = "GROUP"
	TargetListing TargetType = "LISTING"
)

// EventType names the engagement being recorded.
type EventType string

const (
	EventView          EventType = "VIEW"
	EventClick         EventType = "CLICK"
	EventWhatsAppClick EventType = "WHATSAPP_CLICK"
	EventShare         EventType = "SHARE"
	EventViewDetails   EventType = "VIEW_DETAILS"
)

// Event is a fire-and-forget engagement message. It carries no client-side
// identity or sequence number; the backend is the sole counting authority.
type Event struct {
	TargetID   int        `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	EventType  EventType  `json:"event_type"`
}
