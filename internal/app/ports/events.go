package ports

import "encoding/json"

// EventTopic is the single topic the engine publishes on.
const EventTopic = "irc://event"

// EventSinkPort receives engine events fire-and-forget: implementations
// must never block the calling worker and may drop on overload.
type EventSinkPort interface {
	Emit(topic string, event IrcEvent)
}

// IrcEvent is the closed set of events surfaced to consumers. Each
// variant marshals as a flat JSON object tagged with a "type" field.
type IrcEvent interface {
	EventType() string
	isIrcEvent()
}

type ConnectedEvent struct {
	ConnectionID string  `json:"connection_id"`
	Nickname     string  `json:"nickname"`
	Server       string  `json:"server"`
	Message      *string `json:"message,omitempty"`
}

type DisconnectedEvent struct {
	ConnectionID string  `json:"connection_id"`
	Reason       *string `json:"reason,omitempty"`
}

type MessageEvent struct {
	Data ChatMessage `json:"data"`
}

type NamesEvent struct {
	ConnectionID string        `json:"connection_id"`
	Channel      string        `json:"channel"`
	Users        []ChannelUser `json:"users"`
}

type TopicEvent struct {
	ConnectionID string  `json:"connection_id"`
	Channel      string  `json:"channel"`
	Topic        string  `json:"topic"`
	Setter       *string `json:"setter"`
}

type ErrorEvent struct {
	ConnectionID string `json:"connection_id"`
	Message      string `json:"message"`
}

func (ConnectedEvent) EventType() string    { return "connected" }
func (DisconnectedEvent) EventType() string { return "disconnected" }
func (MessageEvent) EventType() string      { return "message" }
func (NamesEvent) EventType() string        { return "names" }
func (TopicEvent) EventType() string        { return "topic" }
func (ErrorEvent) EventType() string        { return "error" }

func (ConnectedEvent) isIrcEvent()    {}
func (DisconnectedEvent) isIrcEvent() {}
func (MessageEvent) isIrcEvent()      {}
func (NamesEvent) isIrcEvent()        {}
func (TopicEvent) isIrcEvent()        {}
func (ErrorEvent) isIrcEvent()        {}

func (e ConnectedEvent) MarshalJSON() ([]byte, error) {
	type alias ConnectedEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

func (e DisconnectedEvent) MarshalJSON() ([]byte, error) {
	type alias DisconnectedEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

func (e MessageEvent) MarshalJSON() ([]byte, error) {
	type alias MessageEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

func (e NamesEvent) MarshalJSON() ([]byte, error) {
	type alias NamesEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

func (e TopicEvent) MarshalJSON() ([]byte, error) {
	type alias TopicEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	type alias ErrorEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}
