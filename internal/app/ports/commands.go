package ports

// ConnectionCommand is the closed set of requests a session worker
// consumes from its inbox, in send order.
type ConnectionCommand interface {
	isConnectionCommand()
}

type JoinCommand struct {
	Channel string
}

type PartCommand struct {
	Channel string
	Reason  string
}

type PrivmsgCommand struct {
	Target  string
	Message string
}

// SetTopicCommand with a nil Topic queries the current topic; an empty
// non-nil Topic clears it.
type SetTopicCommand struct {
	Channel string
	Topic   *string
}

type QuitCommand struct {
	Reason string
}

func (JoinCommand) isConnectionCommand()     {}
func (PartCommand) isConnectionCommand()     {}
func (PrivmsgCommand) isConnectionCommand()  {}
func (SetTopicCommand) isConnectionCommand() {}
func (QuitCommand) isConnectionCommand()     {}
