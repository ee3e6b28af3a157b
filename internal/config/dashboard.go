package config

// Dashboard bounds the activity window the aggregator reads per render.
type Dashboard struct {
	ActivityWindow int32 `env:"DASHBOARD_ACTIVITY_WINDOW" envDefault:"100"`
}
