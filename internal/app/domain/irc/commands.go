package irc

import "fmt"

// Outbound wire forms. The session writer appends CRLF and flushes.

func Pass(password string) string {
	return "PASS " + password
}

func Nick(nickname string) string {
	return "NICK " + nickname
}

func User(username, realname string) string {
	return fmt.Sprintf("USER %s 0 * :%s", username, realname)
}

func Join(channel string) string {
	return "JOIN " + channel
}

func Part(channel, reason string) string {
	if reason == "" {
		return "PART " + channel
	}
	return fmt.Sprintf("PART %s :%s", channel, reason)
}

func Privmsg(target, message string) string {
	return fmt.Sprintf("PRIVMSG %s :%s", target, message)
}

// Topic with a nil topic queries the channel topic instead of setting it.
func Topic(channel string, topic *string) string {
	if topic == nil {
		return "TOPIC " + channel
	}
	return fmt.Sprintf("TOPIC %s :%s", channel, *topic)
}

func Quit(reason string) string {
	if reason == "" {
		return "QUIT"
	}
	return "QUIT :" + reason
}

func Pong(token string) string {
	return "PONG :" + token
}
