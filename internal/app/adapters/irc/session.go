package irc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"ircbridge/internal/app/adapters/metrics"
	codec "ircbridge/internal/app/domain/irc"
	"ircbridge/internal/app/ports"
	"ircbridge/pkg/logger"
)

// Session is one connection worker: it owns the socket for its whole
// lifetime, is the only goroutine that writes to it, and multiplexes
// inbound protocol lines with commands arriving on its inbox.
type Session struct {
	id         string
	cfg        ports.ConnectionConfig
	storageKey string

	log        logger.Logger
	sink       ports.EventSinkPort
	scrollback ports.ScrollbackPort
	inbox      *Inbox
	dial       DialFunc

	done chan struct{}
}

func newSession(id string, cfg ports.ConnectionConfig, log logger.Logger, sink ports.EventSinkPort, scrollback ports.ScrollbackPort, inbox *Inbox, dial DialFunc) *Session {
	return &Session{
		id:         id,
		cfg:        cfg,
		storageKey: cfg.StorageKey(),
		log:        logger.NewPrefixedLogger(log, cfg.StorageKey()),
		sink:       sink,
		scrollback: scrollback,
		inbox:      inbox,
		dial:       dial,
		done:       make(chan struct{}),
	}
}

func (s *Session) run() {
	defer close(s.done)
	defer s.inbox.Close()

	start := time.Now()
	conn, err := s.dial(s.cfg)
	if err != nil {
		s.log.Error("failed to connect", err)
		s.emit(ports.ErrorEvent{
			ConnectionID: s.id,
			Message:      fmt.Sprintf("failed to connect: %v", err),
		})
		return
	}
	defer conn.Close()

	w := bufio.NewWriter(conn)
	if err := s.handshake(w); err != nil {
		s.log.Error("handshake failed", err)
		s.emit(ports.ErrorEvent{
			ConnectionID: s.id,
			Message:      fmt.Sprintf("handshake failed: %v", err),
		})
		return
	}
	metrics.HandshakeTime.Observe(time.Since(start).Seconds())

	// Ready as soon as the registration lines are out; the 001 welcome
	// only confirms it and triggers auto-join.
	s.emit(ports.ConnectedEvent{
		ConnectionID: s.id,
		Nickname:     s.cfg.Nickname,
		Server:       s.cfg.Server,
		Message:      strPtr("connected"),
	})

	lines := make(chan string)
	readErr := make(chan error, 1)
	go s.readLines(conn, lines, readErr)

	disconnected := false
loop:
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				err := <-readErr
				if err == io.EOF {
					s.log.Info("connection closed")
					s.emitDisconnected(strPtr("connection closed"))
				} else {
					s.log.Error("read error", err)
					s.emitDisconnected(strPtr(fmt.Sprintf("read error: %v", err)))
				}
				disconnected = true
				break loop
			}
			metrics.LinesReceived.Inc()
			s.handleLine(w, line)
		case <-s.inbox.Wake():
			for {
				cmd, ok := s.inbox.Pop()
				if !ok {
					break
				}
				if quit := s.dispatch(w, cmd); quit {
					disconnected = true
					break loop
				}
			}
		}
	}

	// Whatever path ended the loop, the session reports its death
	// exactly once.
	if !disconnected {
		s.emitDisconnected(strPtr("connection closed"))
	}
}

func (s *Session) handshake(w *bufio.Writer) error {
	if s.cfg.Password != "" {
		if err := writeLine(w, codec.Pass(s.cfg.Password)); err != nil {
			return err
		}
	}
	if err := writeLine(w, codec.Nick(s.cfg.Nickname)); err != nil {
		return err
	}

	username := s.cfg.Username
	if username == "" {
		username = s.cfg.Nickname
	}
	realname := s.cfg.Realname
	if realname == "" {
		realname = s.cfg.Nickname
	}
	return writeLine(w, codec.User(username, realname))
}

// handleLine reacts to one inbound protocol line. Unknown commands are
// ignored; the protocol is too loose to treat them as errors.
func (s *Session) handleLine(w *bufio.Writer, raw string) {
	line := codec.ParseLine(raw)

	switch line.Command {
	case "PING":
		if token, ok := line.ParamOrTrailing(0); ok {
			s.write(w, codec.Pong(token))
		}

	case codec.RplWelcome:
		s.emit(ports.ConnectedEvent{
			ConnectionID: s.id,
			Nickname:     s.cfg.Nickname,
			Server:       s.cfg.Server,
			Message:      strPtr("welcome"),
		})
		for _, channel := range s.cfg.AutoJoin {
			s.write(w, codec.Join(channel))
		}

	case codec.RplNamReply:
		channel, ok := line.Param(2)
		if !ok {
			return
		}
		users := make([]ports.ChannelUser, 0)
		for _, entry := range strings.Fields(trailingOf(line)) {
			nick, modes := codec.ParseNameEntry(entry)
			users = append(users, ports.ChannelUser{Nick: nick, Modes: modes})
		}
		s.emit(ports.NamesEvent{ConnectionID: s.id, Channel: channel, Users: users})

	case codec.RplTopic:
		channel, ok := line.Param(1)
		if !ok {
			return
		}
		topic := trailingOf(line)
		s.emit(ports.TopicEvent{ConnectionID: s.id, Channel: channel, Topic: topic})
		s.appendEmit(s.chat(channel, nil, "Topic: "+topic, ports.KindTopic))

	case "PRIVMSG":
		target, ok := line.Param(0)
		if !ok {
			return
		}
		body := line.TrailingOrParam(1)
		kind := ports.KindPrivmsg
		if text, isAction := codec.DecodeAction(body); isAction {
			body = text
			kind = ports.KindAction
		}
		sender := optStr(line.SenderNick())
		if sender != nil && strings.EqualFold(target, s.cfg.Nickname) {
			// Direct messages file under the sender's name.
			target = *sender
		}
		s.appendEmit(s.chat(target, sender, body, kind))

	case "NOTICE":
		target, ok := line.Param(0)
		if !ok {
			return
		}
		s.appendEmit(s.chat(target, optStr(line.SenderNick()), line.TrailingOrParam(1), ports.KindNotice))

	case "JOIN":
		channel, _ := line.ParamOrTrailing(0)
		nick := s.senderOrSelf(line)
		s.appendEmit(s.chat(channel, &nick, fmt.Sprintf("%s joined %s", nick, channel), ports.KindJoin))

	case "PART":
		channel, ok := line.Param(0)
		if !ok {
			return
		}
		nick := s.senderOrSelf(line)
		text := fmt.Sprintf("%s left %s", nick, channel)
		if reason, _ := line.ParamOrTrailing(1); reason != "" {
			text += " (" + reason + ")"
		}
		s.appendEmit(s.chat(channel, &nick, text, ports.KindPart))

	case "QUIT":
		nick := s.senderOrSelf(line)
		text := nick + " quit"
		if reason, _ := line.ParamOrTrailing(0); reason != "" {
			text += ": " + reason
		}
		s.appendEmit(s.chat(nick, &nick, text, ports.KindQuit))

	case codec.ErrNicknameInUse:
		s.emit(ports.ErrorEvent{ConnectionID: s.id, Message: "nickname already in use"})
	}
}

// dispatch writes one inbox command to the wire. Returns true when the
// command ends the session.
func (s *Session) dispatch(w *bufio.Writer, cmd ports.ConnectionCommand) bool {
	switch c := cmd.(type) {
	case ports.JoinCommand:
		metrics.CommandsDispatched.WithLabelValues("join").Inc()
		s.write(w, codec.Join(c.Channel))

	case ports.PartCommand:
		metrics.CommandsDispatched.WithLabelValues("part").Inc()
		s.write(w, codec.Part(c.Channel, c.Reason))

	case ports.PrivmsgCommand:
		metrics.CommandsDispatched.WithLabelValues("privmsg").Inc()
		s.write(w, codec.Privmsg(c.Target, c.Message))
		// The server never reflects our own PRIVMSG back; echo it
		// locally so it shows up in scrollback.
		nick := s.cfg.Nickname
		s.appendEmit(s.chat(c.Target, &nick, c.Message, ports.KindPrivmsg))

	case ports.SetTopicCommand:
		metrics.CommandsDispatched.WithLabelValues("topic").Inc()
		s.write(w, codec.Topic(c.Channel, c.Topic))

	case ports.QuitCommand:
		metrics.CommandsDispatched.WithLabelValues("quit").Inc()
		s.write(w, codec.Quit(c.Reason))
		s.emitDisconnected(optStr(c.Reason))
		return true
	}
	return false
}

func (s *Session) chat(target string, sender *string, text string, kind ports.MessageKind) ports.ChatMessage {
	return ports.ChatMessage{
		ConnectionID: s.id,
		Target:       target,
		Sender:       sender,
		Message:      text,
		Kind:         kind,
		Timestamp:    time.Now().UnixMilli(),
	}
}

// appendEmit persists a chat message and surfaces it as an event.
// Scrollback failures must never stall the protocol loop.
func (s *Session) appendEmit(msg ports.ChatMessage) {
	start := time.Now()
	if err := s.scrollback.Append(s.storageKey, msg); err != nil {
		s.log.Error("failed to append scrollback", err, slog.String("target", msg.Target))
	}
	metrics.ScrollbackAppendTime.Observe(time.Since(start).Seconds())
	s.emit(ports.MessageEvent{Data: msg})
}

func (s *Session) emit(ev ports.IrcEvent) {
	metrics.EventsEmitted.WithLabelValues(ev.EventType()).Inc()
	s.sink.Emit(ports.EventTopic, ev)
}

func (s *Session) emitDisconnected(reason *string) {
	s.emit(ports.DisconnectedEvent{ConnectionID: s.id, Reason: reason})
}

func (s *Session) senderOrSelf(line codec.Line) string {
	if nick := line.SenderNick(); nick != "" {
		return nick
	}
	return s.cfg.Nickname
}

// write sends one line in steady state. Failures are logged and
// swallowed; a broken socket surfaces through the read side.
func (s *Session) write(w *bufio.Writer, line string) {
	if err := writeLine(w, line); err != nil {
		s.log.Warn("failed to write line", slog.String("error", err.Error()))
	}
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line + "\r\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush line: %w", err)
	}
	return nil
}

// readLines feeds inbound lines to the worker loop until the socket
// dies, then reports the terminal error and closes the channel. Sends
// race the worker's exit: a Quit can end the loop while a line is
// still in hand, and closing the socket cannot unblock a channel
// send, so every send also watches done.
func (s *Session) readLines(conn net.Conn, lines chan<- string, readErr chan<- error) {
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if line != "" {
				select {
				case lines <- line:
				case <-s.done:
					return
				}
			}
			readErr <- err
			close(lines)
			return
		}
		select {
		case lines <- line:
		case <-s.done:
			return
		}
	}
}

func trailingOf(line codec.Line) string {
	if line.Trailing != nil {
		return *line.Trailing
	}
	return ""
}

func strPtr(s string) *string {
	return &s
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
