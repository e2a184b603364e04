package config

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel:   "info",
			GinMode:    "release",
			ListenAddr: ":8080",
			AuthToken:  generateAuthToken(32),
		},
		Limiter: Limiter{
			Requests: 10,
			Per:      time.Second,
		},
		Storage: Storage{
			DataDir:         "data",
			ScrollbackLimit: 500,
		},
	}
}

func generateAuthToken(length int) string {
	bytes := make([]byte, (length*3)/4)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length]
}
