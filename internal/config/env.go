package config

import (
	"strconv"
	"strings"
	"time"
)

// env wraps a lookup function with typed, defaulted accessors.
type env struct {
	lookup func(string) (string, bool)
}

func (e env) str(k, d string) string {
	if v, ok := e.lookup(k); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return d
}

func (e env) flag(k string, d bool) bool {
	switch strings.ToLower(e.str(k, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func (e env) num(k string, d int) int {
	if n, err := strconv.Atoi(e.str(k, "")); err == nil {
		return n
	}
	return d
}

func (e env) dur(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.str(k, "")); err == nil {
		return v
	}
	return d
}
