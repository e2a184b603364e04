package ports

type MessageKind string

const (
	KindPrivmsg MessageKind = "privmsg"
	KindAction  MessageKind = "action"
	KindNotice  MessageKind = "notice"
	KindJoin    MessageKind = "join"
	KindPart    MessageKind = "part"
	KindQuit    MessageKind = "quit"
	KindNick    MessageKind = "nick"
	KindTopic   MessageKind = "topic"
	KindInfo    MessageKind = "info"
	KindError   MessageKind = "error"
)

// ChatMessage is one scrollback record: a single protocol event worth
// showing to a user, filed under Target.
type ChatMessage struct {
	ConnectionID string            `json:"connection_id"`
	Target       string            `json:"target"`
	Sender       *string           `json:"sender"`
	Message      string            `json:"message"`
	Kind         MessageKind       `json:"kind"`
	Timestamp    int64             `json:"timestamp"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type ChannelUser struct {
	Nick  string   `json:"nick"`
	Modes []string `json:"modes"`
}
