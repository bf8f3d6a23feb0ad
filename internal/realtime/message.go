package realtime

type Event string

const (
	EventPostLikeCount        Event = "PostLikeCountChanged"
	EventEstablishmentUpdated Event = "EstablishmentAggregatesUpdated"
	EventUserAvatarUpdated    Event = "UserAvatarChanged"
)

// Message is the unit carried by the bus and fanned out to SSE clients.
// Channel is a logical subscription key (e.g. "post:<id>").
type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

// PostChannel and EstablishmentChannel name the live-update channels that
// clients subscribe to for a single document.
func PostChannel(id string) string          { return "post:" + id }
func EstablishmentChannel(id string) string { return "establishment:" + id }
