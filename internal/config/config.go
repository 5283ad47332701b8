package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN       string  `env:"DATABASE_DSN,required=true"`
	RedisURL          string  `env:"REDIS_URL,required=true"`
	SMSGatewayURL     string  `env:"SMS_GATEWAY_URL,required=true"`
	DefaultRadiusKm   float64 `env:"DEFAULT_RADIUS_KM,default=10"`
	DispatchTimeoutMS int     `env:"DISPATCH_TIMEOUT_MS,default=5000"`
	SOSRateLimit      int     `env:"SOS_RATE_LIMIT_PER_SEC,default=5"`
	APIPort           int     `env:"API_PORT,default=8080"`
	MetricsPort       int     `env:"METRICS_PORT,default=9090"`
	LogLevel          string  `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
