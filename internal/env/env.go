package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetString(key, fallback string) string {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return val
}

func GetInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	valInt, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return valInt
}

// GetBool accepts the forms strconv.ParseBool understands plus "sim"/"nao".
func GetBool(key string, fallback bool) bool {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(val)) {
	case "sim", "s":
		return true
	case "nao", "não", "n":
		return false
	}

	valBool, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return valBool
}

// GetDuration parses values such as "15m" or "1h30m". A bare integer is read as seconds.
func GetDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(val) == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
