package irc

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantText   string
		wantAction bool
	}{
		{name: "action", message: "\x01ACTION waves\x01", wantText: "waves", wantAction: true},
		{name: "action with empty text", message: "\x01ACTION \x01", wantText: "", wantAction: true},
		{name: "plain text untouched", message: "hello", wantText: "hello", wantAction: false},
		{name: "other ctcp kept verbatim", message: "\x01VERSION\x01", wantText: "\x01VERSION\x01", wantAction: false},
		{name: "unterminated framing", message: "\x01ACTION waves", wantText: "\x01ACTION waves", wantAction: false},
		{name: "lone delimiter", message: "\x01", wantText: "\x01", wantAction: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isAction := DecodeAction(tt.message)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantAction, isAction)
		})
	}
}
