package config

import "time"

type Config struct {
	App     App     `json:"app"`
	Limiter Limiter `json:"limiter"`
	Storage Storage `json:"storage"`
}

type App struct {
	LogLevel   string `json:"log_level"`
	GinMode    string `json:"gin_mode"`
	ListenAddr string `json:"listen_addr"`
	AuthToken  string `json:"auth_token"`
}

// Limiter bounds mutating API calls per client IP.
type Limiter struct {
	Requests int           `json:"requests"`
	Per      time.Duration `json:"per"`
}

type Storage struct {
	DataDir         string `json:"data_dir"`
	ScrollbackLimit int    `json:"scrollback_limit"`
}
