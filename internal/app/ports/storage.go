package ports

type ScrollbackPort interface {
	Append(storageKey string, msg ChatMessage) error
	ReadLast(storageKey, target string, limit int) ([]ChatMessage, error)
}

type ProfilesPort interface {
	Upsert(cfg ConnectionConfig) error
	List() []ConnectionConfig
}
