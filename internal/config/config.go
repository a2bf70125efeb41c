package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/depack/cashflow-backend/internal/dto"
)

type Config struct {
	Port            string
	LogLevel        string
	ProjectID       string
	Region          string
	VertexModel     string
	APIKey          string // static fallback; Secret Manager wins when configured
	UseSecretAPIKey bool
	MaxDeferralDays int
	DefaultRates    dto.Rates
}

// fileConfig is the optional TOML overlay; anything set there overrides the
// environment.
type fileConfig struct {
	Port            string  `toml:"port"`
	LogLevel        string  `toml:"log_level"`
	VertexModel     string  `toml:"vertex_model"`
	MaxDeferralDays int     `toml:"max_deferral_days"`
	EurUsd          float64 `toml:"eur_usd"`
	UsdEgp          float64 `toml:"usd_egp"`
}

func New() *Config {
	cfg := &Config{
		Port:            getenvDefault("PORT", "8080"),
		LogLevel:        os.Getenv("LOGLEVEL"),
		ProjectID:       os.Getenv("PROJECTID"),
		Region:          os.Getenv("REGION"),
		VertexModel:     getenvDefault("VERTEXMODEL", "gemini-2.5-flash"),
		APIKey:          os.Getenv("APIKEY"),
		UseSecretAPIKey: os.Getenv("APIKEYSECRET") == "true",
		MaxDeferralDays: getenvInt("MAXDEFERRALDAYS", 30),
		DefaultRates: dto.Rates{
			EurUsd: getenvFloat("RATEEURUSD", 1.08),
			UsdEgp: getenvFloat("RATEUSDEGP", 48.5),
		},
	}

	if path := os.Getenv("CONFIGFILE"); path != "" {
		// Missing or malformed files are ignored; env values stand.
		_ = cfg.loadFile(path)
	}
	return cfg
}

func (c *Config) loadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}
	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.VertexModel != "" {
		c.VertexModel = fc.VertexModel
	}
	if fc.MaxDeferralDays > 0 {
		c.MaxDeferralDays = fc.MaxDeferralDays
	}
	if fc.EurUsd > 0 {
		c.DefaultRates.EurUsd = fc.EurUsd
	}
	if fc.UsdEgp > 0 {
		c.DefaultRates.UsdEgp = fc.UsdEgp
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
