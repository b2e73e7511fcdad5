package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int    `env:"PORT" default:"8080"`
	Dsn                 string `env:"DSN" default:"localhost:5432"`
	JwtSecret           string `env:"JWT_SECRET"`
	JwtExpires          string `env:"JWT_EXPIRES"`
	RefreshSecret       string `env:"REFRESH_SECRET"`
	RefreshExpiry       string `env:"REFRESH_EXPIRY"`
	SMTPHost            string `env:"SMTP_HOST"`
	SMTPPort            int    `env:"SMTP_PORT"`
	SMTPUser            string `env:"SMTP_USER"`
	SMTPPassword        string `env:"SMTP_PASSWORD"`
	SMTPFrom            string `env:"SMTP_FROM"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	ExpoPushURL         string `env:"EXPO_PUSH_URL" envDefault:"https://exp.host/--/api/v2/push/send"`

	// Sport taxonomy. Which sports carry a distance/pace and which carry a
	// skill level is configuration, not code.
	DistanceSports []string `env:"DISTANCE_SPORTS" envSeparator:"," envDefault:"Laufen,Rad,Schwimmen"`
	LevelSports    []string `env:"LEVEL_SPORTS" envSeparator:"," envDefault:"Tennis,Padel,Badminton,Squash"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}

// IsDistanceSport reports whether the given sport carries a distance and pace.
func (c *Config) IsDistanceSport(sport string) bool {
	for _, s := range c.DistanceSports {
		if s == sport {
			return true
		}
	}
	return false
}

// IsLevelSport reports whether the given sport uses skill levels.
func (c *Config) IsLevelSport(sport string) bool {
	for _, s := range c.LevelSports {
		if s == sport {
			return true
		}
	}
	return false
}
