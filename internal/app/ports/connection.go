package ports

import "fmt"

type RegistryPort interface {
	Connect(cfg ConnectionConfig) string
	Disconnect(id, reason string) error
	Join(id, channel string) error
	Part(id, channel, reason string) error
	Privmsg(id, target, message string) error
	SetTopic(id, channel string, topic *string) error
	List() []string
	FindByConfig(cfg ConnectionConfig) (string, bool)
	StorageKey(id string) (string, error)
	CloseAll(reason string)
}

type ConnectionConfig struct {
	Server   string   `json:"server"`
	Port     uint16   `json:"port"`
	UseTLS   bool     `json:"useTls"`
	Nickname string   `json:"nickname"`
	Username string   `json:"username,omitempty"`
	Realname string   `json:"realname,omitempty"`
	Password string   `json:"password,omitempty"`
	AutoJoin []string `json:"autoJoin"`
}

// StorageKey is the connection identity: two configs with the same key
// address the same logical session and the same scrollback partition.
func (c ConnectionConfig) StorageKey() string {
	return fmt.Sprintf("%s:%d:%s", c.Server, c.Port, c.Nickname)
}
