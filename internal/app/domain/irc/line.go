package irc

import "strings"

// Numeric replies the engine reacts to.
const (
	RplWelcome       = "001"
	RplTopic         = "332"
	RplNamReply      = "353"
	ErrNicknameInUse = "433"
)

// Line is one parsed IRC protocol line. Trailing is kept separate from
// Params so that dispatch can tell "absent" from "present but empty".
type Line struct {
	Prefix   string // "" when the line carries no prefix
	Command  string
	Params   []string
	Trailing *string
}

// ParseLine is total: it never fails, malformed input degrades to a
// Line with empty fields. A line starting with ":" but containing no
// space keeps the whole text (colon included) as the command.
func ParseLine(raw string) Line {
	rest := strings.TrimSpace(raw)

	var l Line
	if strings.HasPrefix(rest, ":") {
		idx := strings.IndexByte(rest, ' ')
		if idx < 0 {
			l.Command = rest
			return l
		}
		l.Prefix = rest[1:idx]
		rest = rest[idx+1:]
	}

	head := rest
	if i := strings.Index(rest, " :"); i >= 0 {
		head = rest[:i]
		trailing := rest[i+2:]
		l.Trailing = &trailing
	}

	fields := strings.Fields(head)
	if len(fields) > 0 {
		l.Command = fields[0]
		l.Params = fields[1:]
	}

	return l
}

// Param returns the i-th parameter and whether it exists.
func (l Line) Param(i int) (string, bool) {
	if i < 0 || i >= len(l.Params) {
		return "", false
	}
	return l.Params[i], true
}

// ParamOrTrailing returns the i-th parameter, falling back to the
// trailing argument when the parameter is absent.
func (l Line) ParamOrTrailing(i int) (string, bool) {
	if v, ok := l.Param(i); ok {
		return v, true
	}
	if l.Trailing != nil {
		return *l.Trailing, true
	}
	return "", false
}

// TrailingOrParam returns the trailing argument, falling back to the
// i-th parameter, else "".
func (l Line) TrailingOrParam(i int) string {
	if l.Trailing != nil {
		return *l.Trailing
	}
	v, _ := l.Param(i)
	return v
}

// SenderNick extracts the nick portion of a "nick!user@host" prefix.
// Empty when the line has no prefix or the prefix has no nick part.
func (l Line) SenderNick() string {
	nick, _, _ := strings.Cut(l.Prefix, "!")
	return nick
}
