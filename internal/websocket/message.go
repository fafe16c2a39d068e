package websocket

// Message defines the structure for websocket messages. Actions are
// "book.created", "book.updated" and "book.deleted"; the payload is the
// affected listing.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
