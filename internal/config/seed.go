package config

// Seed configures the initial admin account created by the seed command.
type Seed struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"password123"`
}
