package storage

import (
	"sort"

	"ircbridge/internal/app/ports"
)

// Profiles persists saved connection configs, keyed by the identity
// string server:port:nickname and backed by the JSON-persisted cache.
type Profiles struct {
	cache *Cache[ports.ConnectionConfig]
}

func NewProfiles(filePath string) *Profiles {
	return &Profiles{cache: NewCache[ports.ConnectionConfig](16, filePath)}
}

// Upsert replaces-or-inserts the profile with the same identity key.
func (p *Profiles) Upsert(cfg ports.ConnectionConfig) error {
	p.cache.Set(cfg.StorageKey(), cfg)
	return nil
}

// List returns all saved profiles sorted by (server, port, nickname).
func (p *Profiles) List() []ports.ConnectionConfig {
	items := p.cache.Items()
	list := make([]ports.ConnectionConfig, 0, len(items))
	for _, cfg := range items {
		list = append(list, cfg)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Server != list[j].Server {
			return list[i].Server < list[j].Server
		}
		if list[i].Port != list[j].Port {
			return list[i].Port < list[j].Port
		}
		return list[i].Nickname < list[j].Nickname
	})
	return list
}
