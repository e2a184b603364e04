package irc

import (
	"bufio"
	"errors"
	"io"
	"net"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircbridge/internal/app/ports"
	"ircbridge/pkg/logger"
)

type sinkRecorder struct {
	events chan ports.IrcEvent
}

func newSinkRecorder() *sinkRecorder {
	return &sinkRecorder{events: make(chan ports.IrcEvent, 64)}
}

func (s *sinkRecorder) Emit(_ string, ev ports.IrcEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *sinkRecorder) next(t *testing.T) ports.IrcEvent {
	t.Helper()
	select {
	case ev := <-s.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func (s *sinkRecorder) drained(t *testing.T) []ports.IrcEvent {
	t.Helper()
	var evs []ports.IrcEvent
	for {
		select {
		case ev := <-s.events:
			evs = append(evs, ev)
		case <-time.After(100 * time.Millisecond):
			return evs
		}
	}
}

type fakeScrollback struct {
	mu       sync.Mutex
	appended []ports.ChatMessage
}

func (f *fakeScrollback) Append(_ string, msg ports.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, msg)
	return nil
}

func (f *fakeScrollback) ReadLast(_, _ string, _ int) ([]ports.ChatMessage, error) {
	return nil, nil
}

func (f *fakeScrollback) messages() []ports.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.ChatMessage(nil), f.appended...)
}

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	return logger.New(filepath.Join(t.TempDir(), "test.log"))
}

func testConfig() ports.ConnectionConfig {
	return ports.ConnectionConfig{
		Server:   "irc.example.net",
		Port:     6667,
		Nickname: "alice",
		AutoJoin: []string{"#go", "#irc"},
	}
}

// startSession runs a worker against an in-memory pipe; the returned
// conn is the scripted server side, already past the handshake.
func startSession(t *testing.T, cfg ports.ConnectionConfig) (*Session, *sinkRecorder, *fakeScrollback, net.Conn) {
	t.Helper()

	client, server := net.Pipe()
	sink := newSinkRecorder()
	store := &fakeScrollback{}
	s := newSession("conn-1", cfg, testLogger(t), sink, store, NewInbox(), func(ports.ConnectionConfig) (net.Conn, error) {
		return client, nil
	})
	go s.run()
	// The worker must be gone before t.TempDir cleanup deletes the
	// directory its logger writes into.
	t.Cleanup(func() {
		server.Close()
		waitDone(t, s)
	})

	expectLine(t, server, "NICK "+cfg.Nickname)
	username := cfg.Username
	if username == "" {
		username = cfg.Nickname
	}
	realname := cfg.Realname
	if realname == "" {
		realname = cfg.Nickname
	}
	expectLine(t, server, "USER "+username+" 0 * :"+realname)

	ev := sink.next(t)
	connected, ok := ev.(ports.ConnectedEvent)
	require.True(t, ok, "expected ConnectedEvent, got %T", ev)
	require.Equal(t, "connected", *connected.Message)

	return s, sink, store, server
}

func expectLine(t *testing.T, conn net.Conn, want string) {
	t.Helper()
	require.Equal(t, want, readWireLine(t, conn))
}

func readWireLine(t *testing.T, conn net.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	return strings.TrimRight(line, "\r\n")
}

func writeWireLine(t *testing.T, conn net.Conn, line string) {
	t.Helper()
	require.NoError(t, conn.SetWriteDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Write([]byte(line + "\r\n"))
	require.NoError(t, err)
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate")
	}
}

func TestHandshakeSendsPassFirst(t *testing.T) {
	cfg := testConfig()
	cfg.Password = "hunter2"
	cfg.Username = "al"
	cfg.Realname = "Alice A"

	client, server := net.Pipe()
	sink := newSinkRecorder()
	s := newSession("conn-1", cfg, testLogger(t), sink, &fakeScrollback{}, NewInbox(), func(ports.ConnectionConfig) (net.Conn, error) {
		return client, nil
	})
	go s.run()
	t.Cleanup(func() {
		server.Close()
		waitDone(t, s)
	})

	expectLine(t, server, "PASS hunter2")
	expectLine(t, server, "NICK alice")
	expectLine(t, server, "USER al 0 * :Alice A")
}

func TestDialFailureEmitsErrorOnly(t *testing.T) {
	sink := newSinkRecorder()
	inbox := NewInbox()
	s := newSession("conn-1", testConfig(), testLogger(t), sink, &fakeScrollback{}, inbox, func(ports.ConnectionConfig) (net.Conn, error) {
		return nil, errors.New("connection refused")
	})
	go s.run()
	waitDone(t, s)

	ev := sink.next(t)
	errEv, ok := ev.(ports.ErrorEvent)
	require.True(t, ok, "expected ErrorEvent, got %T", ev)
	assert.Equal(t, "failed to connect: connection refused", errEv.Message)

	for _, ev := range sink.drained(t) {
		_, isDisc := ev.(ports.DisconnectedEvent)
		assert.False(t, isDisc, "no Disconnected for a session that never reached the wire")
	}
	assert.ErrorIs(t, inbox.Push(ports.JoinCommand{Channel: "#go"}), ports.ErrInboxClosed)
}

func TestPingRepliesPongWithoutEvent(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, "PING :abc123")
	expectLine(t, server, "PONG :abc123")

	assert.Empty(t, sink.drained(t))
}

func TestWelcomeEmitsConnectedAndAutoJoins(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":irc.example.net 001 alice :Welcome to the network")

	ev := sink.next(t)
	connected, ok := ev.(ports.ConnectedEvent)
	require.True(t, ok, "expected ConnectedEvent, got %T", ev)
	assert.Equal(t, "welcome", *connected.Message)

	expectLine(t, server, "JOIN #go")
	expectLine(t, server, "JOIN #irc")
}

func TestPrivmsgAppendsAndEmits(t *testing.T) {
	_, sink, store, server := startSession(t, testConfig())

	writeWireLine(t, server, ":bob!user@host PRIVMSG #go :hello there")

	ev := sink.next(t)
	msg, ok := ev.(ports.MessageEvent)
	require.True(t, ok, "expected MessageEvent, got %T", ev)
	assert.Equal(t, "#go", msg.Data.Target)
	assert.Equal(t, "bob", *msg.Data.Sender)
	assert.Equal(t, "hello there", msg.Data.Message)
	assert.Equal(t, ports.KindPrivmsg, msg.Data.Kind)

	appended := store.messages()
	require.Len(t, appended, 1)
	assert.Equal(t, msg.Data, appended[0])
}

func TestPrivmsgDecodesCTCPAction(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":bob!user@host PRIVMSG #go :\x01ACTION waves\x01")

	msg, ok := sink.next(t).(ports.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, ports.KindAction, msg.Data.Kind)
	assert.Equal(t, "waves", msg.Data.Message)
}

func TestDirectMessageRetargetsToSender(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":bob!user@host PRIVMSG ALICE :psst")

	msg, ok := sink.next(t).(ports.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, "bob", msg.Data.Target)
	assert.Equal(t, "bob", *msg.Data.Sender)
}

func TestNamesReplyDecodesSigils(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":irc.example.net 353 alice = #go :@alice +bob carol")

	names, ok := sink.next(t).(ports.NamesEvent)
	require.True(t, ok)
	assert.Equal(t, "#go", names.Channel)
	assert.Equal(t, []ports.ChannelUser{
		{Nick: "alice", Modes: []string{"op"}},
		{Nick: "bob", Modes: []string{"voice"}},
		{Nick: "carol", Modes: []string{}},
	}, names.Users)
}

func TestTopicReplyEmitsTopicAndChatMessage(t *testing.T) {
	_, sink, store, server := startSession(t, testConfig())

	writeWireLine(t, server, ":irc.example.net 332 alice #go :welcome to go")

	topic, ok := sink.next(t).(ports.TopicEvent)
	require.True(t, ok)
	assert.Equal(t, "#go", topic.Channel)
	assert.Equal(t, "welcome to go", topic.Topic)
	assert.Nil(t, topic.Setter)

	msg, ok := sink.next(t).(ports.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, ports.KindTopic, msg.Data.Kind)
	assert.Equal(t, "Topic: welcome to go", msg.Data.Message)
	assert.Nil(t, msg.Data.Sender)
	require.Len(t, store.messages(), 1)
}

func TestPartWithReasonSynthesizesText(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":bob!user@host PART #go :had enough")

	msg, ok := sink.next(t).(ports.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, ports.KindPart, msg.Data.Kind)
	assert.Equal(t, "bob left #go (had enough)", msg.Data.Message)
}

func TestQuitLineFilesUnderNick(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":bob!user@host QUIT :gone fishing")

	msg, ok := sink.next(t).(ports.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, "bob", msg.Data.Target)
	assert.Equal(t, "bob quit: gone fishing", msg.Data.Message)
}

func TestNicknameInUseEmitsError(t *testing.T) {
	_, sink, _, server := startSession(t, testConfig())

	writeWireLine(t, server, ":irc.example.net 433 * alice :Nickname is already in use")

	errEv, ok := sink.next(t).(ports.ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, "nickname already in use", errEv.Message)
}

func TestPrivmsgCommandEchoesLocally(t *testing.T) {
	s, sink, store, server := startSession(t, testConfig())

	require.NoError(t, s.inbox.Push(ports.PrivmsgCommand{Target: "#go", Message: "hi all"}))
	expectLine(t, server, "PRIVMSG #go :hi all")

	msg, ok := sink.next(t).(ports.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, "alice", *msg.Data.Sender)
	assert.Equal(t, "hi all", msg.Data.Message)
	assert.Equal(t, ports.KindPrivmsg, msg.Data.Kind)
	require.Len(t, store.messages(), 1)
}

func TestTopicCommandQueryForm(t *testing.T) {
	s, _, _, server := startSession(t, testConfig())

	require.NoError(t, s.inbox.Push(ports.SetTopicCommand{Channel: "#go"}))
	expectLine(t, server, "TOPIC #go")

	topic := "new topic"
	require.NoError(t, s.inbox.Push(ports.SetTopicCommand{Channel: "#go", Topic: &topic}))
	expectLine(t, server, "TOPIC #go :new topic")
}

func TestQuitEmitsExactlyOneDisconnected(t *testing.T) {
	s, sink, _, server := startSession(t, testConfig())

	go io.Copy(io.Discard, server)
	require.NoError(t, s.inbox.Push(ports.QuitCommand{Reason: "bye"}))
	waitDone(t, s)

	var disconnects []ports.DisconnectedEvent
	for _, ev := range sink.drained(t) {
		if d, ok := ev.(ports.DisconnectedEvent); ok {
			disconnects = append(disconnects, d)
		}
	}
	require.Len(t, disconnects, 1)
	assert.Equal(t, "bye", *disconnects[0].Reason)
}

func TestQuitAfterPeerCloseStillSingleDisconnected(t *testing.T) {
	s, sink, _, server := startSession(t, testConfig())

	require.NoError(t, server.Close())
	// The dead socket makes the QUIT write fail; the event must still
	// be emitted exactly once.
	_ = s.inbox.Push(ports.QuitCommand{Reason: "bye"})
	waitDone(t, s)

	count := 0
	for _, ev := range sink.drained(t) {
		if _, ok := ev.(ports.DisconnectedEvent); ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestQuitWhileReaderHoldsBufferedLine(t *testing.T) {
	for i := 0; i < 25; i++ {
		s, _, _, server := startSession(t, testConfig())
		go io.Copy(io.Discard, server)

		// Both lines arrive in one segment, so the second sits in the
		// reader's buffer while the first is being handled. A Quit
		// racing that held line must not strand the reader on its send.
		_, err := server.Write([]byte("PING :a\r\nPING :b\r\n"))
		require.NoError(t, err)

		require.NoError(t, s.inbox.Push(ports.QuitCommand{Reason: "bye"}))
		waitDone(t, s)
	}

	require.Eventually(t, func() bool {
		buf := make([]byte, 1<<20)
		n := runtime.Stack(buf, true)
		return !strings.Contains(string(buf[:n]), "readLines")
	}, 2*time.Second, 10*time.Millisecond, "reader goroutines still parked after quit")
}

func TestPeerCloseEmitsDisconnected(t *testing.T) {
	s, sink, _, server := startSession(t, testConfig())

	require.NoError(t, server.Close())
	waitDone(t, s)

	disc, ok := sink.next(t).(ports.DisconnectedEvent)
	require.True(t, ok)
	require.NotNil(t, disc.Reason)
	assert.Contains(t, *disc.Reason, "closed")
}

func TestInboxPreservesSendOrder(t *testing.T) {
	in := NewInbox()
	require.NoError(t, in.Push(ports.JoinCommand{Channel: "#a"}))
	require.NoError(t, in.Push(ports.JoinCommand{Channel: "#b"}))
	require.NoError(t, in.Push(ports.JoinCommand{Channel: "#c"}))

	var got []string
	for {
		cmd, ok := in.Pop()
		if !ok {
			break
		}
		got = append(got, cmd.(ports.JoinCommand).Channel)
	}
	assert.Equal(t, []string{"#a", "#b", "#c"}, got)

	in.Close()
	assert.ErrorIs(t, in.Push(ports.JoinCommand{Channel: "#d"}), ports.ErrInboxClosed)
}
