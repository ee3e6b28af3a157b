package config

import "time"

type Auth struct {
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`
}
