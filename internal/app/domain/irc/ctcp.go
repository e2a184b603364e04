package irc

import "strings"

const ctcpDelim = "\x01"

// DecodeAction unwraps a CTCP ACTION body ("\x01ACTION waves\x01" →
// "waves", true). Any other input, including non-ACTION CTCP framing,
// is returned unchanged with false.
func DecodeAction(message string) (string, bool) {
	if !strings.HasPrefix(message, ctcpDelim) || !strings.HasSuffix(message, ctcpDelim) {
		return message, false
	}
	body := strings.Trim(message, ctcpDelim)
	if text, ok := strings.CutPrefix(body, "ACTION "); ok {
		return text, true
	}
	return message, false
}
