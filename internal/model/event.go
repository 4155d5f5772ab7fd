package model

// Event kinds the bot reacts to. Anything else is dropped by the router.
const (
	KindMessage    = "message"
	KindAppMention = "app_mention"
	KindFileShared = "file_shared"
)

// FileRef describes one file attached to an inbound chat message.
type FileRef struct {
	URLPrivate string `json:"url_private"`
	Filetype   string `json:"filetype"`
}

// Event is one inbound chat notification, decoded from the transport
// payload and validated once by the event router. Immutable afterwards.
type Event struct {
	Kind    string    `json:"type"`
	Channel string    `json:"channel"`
	User    string    `json:"user"`
	Text    string    `json:"text"`
	Files   []FileRef `json:"files"`
}
