package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DBPath       string
	TemplatePath string
	PaletteMax   int
	GridWidth    int
	GridHeight   int
	CORSOrigins  []string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:       getEnv("PLANNER_DB_PATH", "data/db/planner.db"),
		TemplatePath: getEnv("ROOM_TEMPLATE", ""),
		PaletteMax:   getEnvAsInt("PALETTE_MAX", 8),
		GridWidth:    getEnvAsInt("GRID_WIDTH", 40),
		GridHeight:   getEnvAsInt("GRID_HEIGHT", 40),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma-separated value, dropping empty items.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
