package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/habiebr/fuel-score-backend/internal/platform/envutil"
	"github.com/habiebr/fuel-score-backend/internal/score"
)

type Config struct {
	Port    string
	LogMode string

	JWTSecret      string
	AccessTokenTTL time.Duration

	// Timezone is the fixed product timezone: week boundaries and "today"
	// are computed here, not in the viewer's locale.
	Timezone string

	WeightsPath string

	Environment string
	Version     string
}

func Load() *Config {
	return &Config{
		Port:           envutil.String("PORT", "8080"),
		LogMode:        envutil.String("LOG_MODE", "development"),
		JWTSecret:      envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL: time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		Timezone:       envutil.String("APP_TIMEZONE", "Asia/Jakarta"),
		WeightsPath:    envutil.String("SCORE_WEIGHTS_PATH", "weights.yaml"),
		Environment:    envutil.String("APP_ENV", "development"),
		Version:        envutil.String("APP_VERSION", "dev"),
	}
}

// LoadWeights reads the scoring weights file, falling back to the compiled
// defaults when the file is absent. A present-but-broken file is an error:
// silently mis-scoring every user is worse than failing startup.
func LoadWeights(path string) (score.Weights, error) {
	w := score.DefaultWeights()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return w, nil
	}
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return w, fmt.Errorf("parse weights file: %w", err)
	}
	return w, nil
}
